package finance

import (
	"math"

	"github.com/aretw0/parcel/pkg/domain"
)

// AssessRisk derives a coarse risk rating from cash flow and debt coverage.
func AssessRisk(core domain.CoreMetrics, cf domain.CashFlowAnalysis) domain.RiskRating {
	switch {
	case cf.MonthlyCashFlow < -500 || core.DSCR < 1.0:
		return domain.RiskHigh
	case cf.MonthlyCashFlow < 0 || core.DSCR < 1.15:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

// MaxAlignmentScore caps AlignmentScore.
const MaxAlignmentScore = 10.0

// AlignmentScore estimates on a 0..10 scale how well the metrics fit a strategy.
// Every strategy starts from 5 and earns bonuses for the traits it values.
func AlignmentScore(s domain.Strategy, core domain.CoreMetrics, cf domain.CashFlowAnalysis) float64 {
	score := 5.0
	switch s {
	case domain.StrategyPassiveIncome:
		if core.CashOnCashReturn > 8 {
			score += 2
		}
		if cf.MonthlyCashFlow > 300 {
			score += 2
		}
		if core.CapRate > 6 {
			score += 1
		}
	case domain.StrategyAggressiveGrowth:
		if core.AnnualizedReturn > 12 {
			score += 3
		}
		if core.CapRate < 5 {
			score += 1
		}
	case domain.StrategyFixAndFlip:
		score += 2
	}
	return math.Min(MaxAlignmentScore, score)
}
