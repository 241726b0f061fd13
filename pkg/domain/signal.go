package domain

import "fmt"

// Signal is a threshold-triggered decision point detected during a run.
// Signals annotate the run; only SignalInsufficientData changes its course.
type Signal uint8

const (
	SignalNegativeCashFlow Signal = iota
	SignalHighRisk
	SignalStrategyMismatch
	SignalInsufficientData
	SignalExceptionalOpportunity
)

// Signals lists every signal in evaluation order.
var Signals = []Signal{
	SignalNegativeCashFlow,
	SignalHighRisk,
	SignalStrategyMismatch,
	SignalInsufficientData,
	SignalExceptionalOpportunity,
}

// String returns the wire label of the signal.
func (s Signal) String() string {
	switch s {
	case SignalNegativeCashFlow:
		return "negative_cash_flow"
	case SignalHighRisk:
		return "high_risk_detected"
	case SignalStrategyMismatch:
		return "strategy_mismatch"
	case SignalInsufficientData:
		return "insufficient_data"
	case SignalExceptionalOpportunity:
		return "exceptional_opportunity"
	}
	return fmt.Sprintf("signal(%d)", uint8(s))
}

// ResultKey is the analysis-results key under which the signal's action record is stored.
func (s Signal) ResultKey() string {
	return "decision_" + s.String()
}

// ParseSignal converts a wire label back into a Signal.
func ParseSignal(label string) (Signal, error) {
	for _, s := range Signals {
		if s.String() == label {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown signal %q", label)
}

// MarshalText implements encoding.TextMarshaler.
func (s Signal) MarshalText() ([]byte, error) {
	if s > SignalExceptionalOpportunity {
		return nil, fmt.Errorf("invalid signal %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signal) UnmarshalText(text []byte) error {
	parsed, err := ParseSignal(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
