package finance

import (
	"math"

	"github.com/aretw0/parcel/pkg/domain"
)

// Stress factors of the sensitivity scenarios.
const (
	rentDecreaseFactor    = 0.90
	expenseIncreaseFactor = 1.15
	vacancyFactor         = 0.90
)

// Calculate computes the full metrics bundle at full precision.
// It returns a *ValidationError and no metrics when the inputs are invalid.
func Calculate(in Inputs) (*domain.FinancialMetrics, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	noi := in.AnnualRent - in.AnnualOperatingExpenses
	capRate := noi / in.PurchasePrice * 100

	downPayment := in.PurchasePrice * in.DownPaymentPercent / 100
	loanAmount := in.PurchasePrice - downPayment

	monthlyRate := in.InterestRate / 100 / 12
	numPayments := in.LoanTermYears * 12
	monthlyPayment := MonthlyPayment(loanAmount, monthlyRate, numPayments)

	annualDebtService := monthlyPayment * 12
	annualCashFlow := noi - annualDebtService

	closingCosts := in.PurchasePrice * in.ClosingCostsPercent / 100
	totalInvested := downPayment + closingCosts

	var cashOnCash float64
	if totalInvested > 0 {
		cashOnCash = annualCashFlow / totalInvested * 100
	}

	var dscr float64
	if annualDebtService > 0 {
		dscr = noi / annualDebtService
	}

	var breakEven float64
	if monthlyRent := in.AnnualRent / 12; monthlyRent > 0 {
		breakEven = (annualDebtService + in.AnnualOperatingExpenses) / 12 / monthlyRent * 100
	}

	hold := float64(in.HoldPeriodYears)
	futureValue := in.PurchasePrice * math.Pow(1+in.AppreciationRate/100, hold)
	remaining := RemainingBalance(loanAmount, monthlyRate, numPayments, in.HoldPeriodYears*12)
	equity := futureValue - remaining
	sellingCosts := futureValue * in.SellingCostsPercent / 100
	netProceeds := equity - sellingCosts
	totalCashFlows := annualCashFlow * hold
	totalProfit := totalCashFlows + netProceeds - totalInvested

	var totalReturnPct float64
	if totalInvested > 0 {
		totalReturnPct = totalProfit / totalInvested * 100
	}

	scenario := func(rent, expenses float64) domain.Scenario {
		cf := rent - expenses - annualDebtService
		return domain.Scenario{AnnualCashFlow: cf, MonthlyCashFlow: cf / 12}
	}

	return &domain.FinancialMetrics{
		Core: domain.CoreMetrics{
			CapRate:            capRate,
			CashOnCashReturn:   cashOnCash,
			AnnualizedReturn:   totalReturnPct / hold,
			DSCR:               dscr,
			BreakEvenOccupancy: breakEven,
		},
		CashFlow: domain.CashFlowAnalysis{
			AnnualGrossRent:         in.AnnualRent,
			AnnualOperatingExpenses: in.AnnualOperatingExpenses,
			NetOperatingIncome:      noi,
			AnnualDebtService:       annualDebtService,
			AnnualCashFlow:          annualCashFlow,
			MonthlyCashFlow:         annualCashFlow / 12,
		},
		Investment: domain.InvestmentSummary{
			PurchasePrice:          in.PurchasePrice,
			DownPayment:            downPayment,
			ClosingCosts:           closingCosts,
			TotalCashInvested:      totalInvested,
			LoanAmount:             loanAmount,
			MonthlyMortgagePayment: monthlyPayment,
		},
		Projection: domain.Projection{
			HoldPeriodYears:      in.HoldPeriodYears,
			TotalCashFlows:       totalCashFlows,
			FuturePropertyValue:  futureValue,
			RemainingLoanBalance: remaining,
			EquityAtSale:         equity,
			SellingCosts:         sellingCosts,
			NetSaleProceeds:      netProceeds,
			TotalProfit:          totalProfit,
			TotalReturnPct:       totalReturnPct,
		},
		Sensitivity: domain.Sensitivity{
			RentDecrease:     scenario(in.AnnualRent*rentDecreaseFactor, in.AnnualOperatingExpenses),
			ExpensesIncrease: scenario(in.AnnualRent, in.AnnualOperatingExpenses*expenseIncreaseFactor),
			Vacancy:          scenario(in.AnnualRent*vacancyFactor, in.AnnualOperatingExpenses),
		},
	}, nil
}

// MonthlyPayment is the fixed-rate amortized payment. A zero rate falls back to straight-line.
func MonthlyPayment(loan, monthlyRate float64, numPayments int) float64 {
	if numPayments <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return loan / float64(numPayments)
	}
	growth := math.Pow(1+monthlyRate, float64(numPayments))
	return loan * monthlyRate * growth / (growth - 1)
}

// RemainingBalance is the outstanding principal after paymentsMade payments.
// A zero rate or a fully paid loan uses the straight-line balance, floored at zero.
func RemainingBalance(loan, monthlyRate float64, numPayments, paymentsMade int) float64 {
	if numPayments <= 0 {
		return 0
	}
	left := numPayments - paymentsMade
	if monthlyRate > 0 && left > 0 {
		total := math.Pow(1+monthlyRate, float64(numPayments))
		made := math.Pow(1+monthlyRate, float64(paymentsMade))
		return loan * (total - made) / (total - 1)
	}
	return math.Max(0, loan*float64(left)/float64(numPayments))
}
