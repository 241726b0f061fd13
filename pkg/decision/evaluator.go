// Package decision detects threshold-based decision signals in analysis results
// and maps each signal to a static response.
package decision

import (
	"github.com/aretw0/parcel/pkg/domain"
)

// Thresholds used by Evaluate.
const (
	MismatchBelow         = 6.0  // alignment score, out of 10
	ExceptionalCashOnCash = 12.0 // percent
	ExceptionalCapRate    = 8.0  // percent
)

type rule struct {
	signal domain.Signal
	holds  func(domain.Results) bool
}

// rules is evaluated in order; the result lists signals in this order.
var rules = []rule{
	{domain.SignalNegativeCashFlow, func(r domain.Results) bool {
		cf, ok := r.CashFlow()
		return ok && cf.MonthlyCashFlow < 0
	}},
	{domain.SignalHighRisk, func(r domain.Results) bool {
		rating, ok := r.RiskRating()
		return ok && rating.Severe()
	}},
	{domain.SignalStrategyMismatch, func(r domain.Results) bool {
		score, ok := r.AlignmentScore()
		return ok && score < MismatchBelow
	}},
	{domain.SignalInsufficientData, func(r domain.Results) bool {
		return len(r.MissingFields()) > 0
	}},
	{domain.SignalExceptionalOpportunity, func(r domain.Results) bool {
		core, ok := r.CoreMetrics()
		return ok && core.CashOnCashReturn > ExceptionalCashOnCash && core.CapRate > ExceptionalCapRate
	}},
}

// Evaluate returns every signal whose condition holds for the results.
// Absent inputs never trigger a signal.
func Evaluate(results domain.Results) []domain.Signal {
	var out []domain.Signal
	for _, r := range rules {
		if r.holds(results) {
			out = append(out, r.signal)
		}
	}
	return out
}
