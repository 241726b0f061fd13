package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/aretw0/parcel/pkg/domain"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Formulas documents how the headline metrics are derived.
var Formulas = map[string]string{
	"cap_rate":     "(Annual Rent - Operating Expenses) / Purchase Price × 100",
	"cash_on_cash": "Annual Cash Flow / Total Cash Invested × 100",
	"noi":          "Annual Rent - Operating Expenses",
	"dscr":         "NOI / Annual Debt Service",
	"irr_estimate": "Total Return % / Hold Period Years (linear average, not IRR)",
}

// Result is the payload of Run: either rounded metrics with formulas, or an error message.
type Result struct {
	Status string `json:"status"`
	*domain.FinancialMetrics
	Formulas map[string]string `json:"formulas_used,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// OK reports whether the calculation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Run computes metrics and reports both outcomes as data. It never panics.
func Run(in Inputs) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = errorResult(fmt.Sprintf("Calculation error: %v", r))
		}
	}()

	m, err := Calculate(in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return errorResult(verr.Message)
		}
		return errorResult(fmt.Sprintf("Calculation error: %v", err))
	}

	rounded, err := Round(m)
	if err != nil {
		return errorResult(fmt.Sprintf("Calculation error: %v", err))
	}

	formulas := make(map[string]string, len(Formulas))
	for k, v := range Formulas {
		formulas[k] = v
	}
	return Result{Status: StatusSuccess, FinancialMetrics: rounded, Formulas: formulas}
}

func errorResult(msg string) Result {
	return Result{Status: StatusError, Error: msg}
}

// Round returns a copy of m with every monetary and ratio value rounded to two
// decimal places, half away from zero. It fails if any value is not finite.
func Round(m *domain.FinancialMetrics) (*domain.FinancialMetrics, error) {
	r := rounder{}
	out := &domain.FinancialMetrics{
		Core: domain.CoreMetrics{
			CapRate:            r.round(m.Core.CapRate),
			CashOnCashReturn:   r.round(m.Core.CashOnCashReturn),
			AnnualizedReturn:   r.round(m.Core.AnnualizedReturn),
			DSCR:               r.round(m.Core.DSCR),
			BreakEvenOccupancy: r.round(m.Core.BreakEvenOccupancy),
		},
		CashFlow: domain.CashFlowAnalysis{
			AnnualGrossRent:         r.round(m.CashFlow.AnnualGrossRent),
			AnnualOperatingExpenses: r.round(m.CashFlow.AnnualOperatingExpenses),
			NetOperatingIncome:      r.round(m.CashFlow.NetOperatingIncome),
			AnnualDebtService:       r.round(m.CashFlow.AnnualDebtService),
			AnnualCashFlow:          r.round(m.CashFlow.AnnualCashFlow),
			MonthlyCashFlow:         r.round(m.CashFlow.MonthlyCashFlow),
		},
		Investment: domain.InvestmentSummary{
			PurchasePrice:          r.round(m.Investment.PurchasePrice),
			DownPayment:            r.round(m.Investment.DownPayment),
			ClosingCosts:           r.round(m.Investment.ClosingCosts),
			TotalCashInvested:      r.round(m.Investment.TotalCashInvested),
			LoanAmount:             r.round(m.Investment.LoanAmount),
			MonthlyMortgagePayment: r.round(m.Investment.MonthlyMortgagePayment),
		},
		Projection: domain.Projection{
			HoldPeriodYears:      m.Projection.HoldPeriodYears,
			TotalCashFlows:       r.round(m.Projection.TotalCashFlows),
			FuturePropertyValue:  r.round(m.Projection.FuturePropertyValue),
			RemainingLoanBalance: r.round(m.Projection.RemainingLoanBalance),
			EquityAtSale:         r.round(m.Projection.EquityAtSale),
			SellingCosts:         r.round(m.Projection.SellingCosts),
			NetSaleProceeds:      r.round(m.Projection.NetSaleProceeds),
			TotalProfit:          r.round(m.Projection.TotalProfit),
			TotalReturnPct:       r.round(m.Projection.TotalReturnPct),
		},
		Sensitivity: domain.Sensitivity{
			RentDecrease:     r.scenario(m.Sensitivity.RentDecrease),
			ExpensesIncrease: r.scenario(m.Sensitivity.ExpensesIncrease),
			Vacancy:          r.scenario(m.Sensitivity.Vacancy),
		},
	}
	if r.nonFinite > 0 {
		return nil, fmt.Errorf("%d metric(s) are not finite numbers", r.nonFinite)
	}
	return out, nil
}

type rounder struct {
	nonFinite int
}

func (r *rounder) round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.nonFinite++
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (r *rounder) scenario(s domain.Scenario) domain.Scenario {
	return domain.Scenario{
		AnnualCashFlow:  r.round(s.AnnualCashFlow),
		MonthlyCashFlow: r.round(s.MonthlyCashFlow),
	}
}
