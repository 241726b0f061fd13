package domain

import (
	"fmt"
	"strings"
)

// Strategy is the investment approach a property is evaluated against.
type Strategy uint8

const (
	StrategyPassiveIncome Strategy = iota
	StrategyAggressiveGrowth
	StrategyFixAndFlip
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{
	StrategyPassiveIncome,
	StrategyAggressiveGrowth,
	StrategyFixAndFlip,
}

// String returns the human label of the strategy, which is also its wire form.
func (s Strategy) String() string {
	switch s {
	case StrategyPassiveIncome:
		return "Passive Income"
	case StrategyAggressiveGrowth:
		return "Aggressive Growth"
	case StrategyFixAndFlip:
		return "Fix & Flip"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// ParseStrategy resolves a strategy label. Matching ignores case and surrounding space.
// Unknown labels wrap ErrUnknownStrategy.
func ParseStrategy(label string) (Strategy, error) {
	trimmed := strings.TrimSpace(label)
	for _, s := range Strategies {
		if strings.EqualFold(s.String(), trimmed) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (must be one of %s)", ErrUnknownStrategy, label, strategyLabels())
}

func strategyLabels() string {
	labels := make([]string, len(Strategies))
	for i, s := range Strategies {
		labels[i] = fmt.Sprintf("%q", s.String())
	}
	return strings.Join(labels, ", ")
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s > StrategyFixAndFlip {
		return nil, fmt.Errorf("invalid strategy %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StrategyProfile holds the target thresholds of a strategy.
// Zero values mean the strategy does not constrain that dimension.
type StrategyProfile struct {
	Focus              string  `json:"focus"`
	RiskTolerance      string  `json:"risk_tolerance"`
	MinCashOnCash      float64 `json:"min_cash_on_cash_pct,omitempty"`
	MinCapRate         float64 `json:"min_cap_rate_pct,omitempty"`
	MaxVacancy         float64 `json:"max_vacancy_pct,omitempty"`
	MinAnnualReturn    float64 `json:"min_annual_return_pct,omitempty"`
	MinAppreciation    float64 `json:"min_appreciation_pct,omitempty"`
	MinProfitMargin    float64 `json:"min_profit_margin_pct,omitempty"`
	PreferredHoldYears int     `json:"preferred_hold_years,omitempty"`
	MaxHoldYears       int     `json:"max_hold_years,omitempty"`
}

// Profile returns the thresholds associated with the strategy.
func (s Strategy) Profile() StrategyProfile {
	switch s {
	case StrategyPassiveIncome:
		return StrategyProfile{
			Focus:              "rental_income",
			RiskTolerance:      "low",
			MinCashOnCash:      8,
			MinCapRate:         6,
			MaxVacancy:         8,
			PreferredHoldYears: 10,
		}
	case StrategyAggressiveGrowth:
		return StrategyProfile{
			Focus:           "appreciation",
			RiskTolerance:   "high",
			MinAnnualReturn: 15,
			MinAppreciation: 5,
			MaxHoldYears:    5,
		}
	case StrategyFixAndFlip:
		return StrategyProfile{
			Focus:           "renovation_profit",
			RiskTolerance:   "medium",
			MinProfitMargin: 20,
			MaxHoldYears:    1,
		}
	}
	return StrategyProfile{}
}
