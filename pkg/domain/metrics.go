package domain

// FinancialMetrics is the output of the financial engine for one property.
// It is produced once per analysis and never mutated afterwards.
type FinancialMetrics struct {
	Core        CoreMetrics       `json:"core_metrics"`
	CashFlow    CashFlowAnalysis  `json:"cash_flow_analysis"`
	Investment  InvestmentSummary `json:"investment_summary"`
	Projection  Projection        `json:"projection"`
	Sensitivity Sensitivity       `json:"sensitivity_analysis"`
}

// CoreMetrics are the headline ratios, all expressed as percents except DSCR.
type CoreMetrics struct {
	CapRate          float64 `json:"cap_rate" mapstructure:"cap_rate"`
	CashOnCashReturn float64 `json:"cash_on_cash_return" mapstructure:"cash_on_cash_return"`
	// AnnualizedReturn is total return percent divided by hold years. It is a
	// linear average, not an internal rate of return.
	AnnualizedReturn   float64 `json:"irr_estimate" mapstructure:"irr_estimate"`
	DSCR               float64 `json:"dscr" mapstructure:"dscr"`
	BreakEvenOccupancy float64 `json:"break_even_occupancy_pct" mapstructure:"break_even_occupancy_pct"`
}

type CashFlowAnalysis struct {
	AnnualGrossRent         float64 `json:"annual_gross_rent" mapstructure:"annual_gross_rent"`
	AnnualOperatingExpenses float64 `json:"annual_operating_expenses" mapstructure:"annual_operating_expenses"`
	NetOperatingIncome      float64 `json:"net_operating_income" mapstructure:"net_operating_income"`
	AnnualDebtService       float64 `json:"annual_debt_service" mapstructure:"annual_debt_service"`
	AnnualCashFlow          float64 `json:"annual_cash_flow" mapstructure:"annual_cash_flow"`
	MonthlyCashFlow         float64 `json:"monthly_cash_flow" mapstructure:"monthly_cash_flow"`
}

type InvestmentSummary struct {
	PurchasePrice          float64 `json:"purchase_price"`
	DownPayment            float64 `json:"down_payment"`
	ClosingCosts           float64 `json:"closing_costs"`
	TotalCashInvested      float64 `json:"total_cash_invested"`
	LoanAmount             float64 `json:"loan_amount"`
	MonthlyMortgagePayment float64 `json:"monthly_mortgage_payment"`
}

// Projection describes the position at the end of the hold period.
type Projection struct {
	HoldPeriodYears      int     `json:"hold_period_years"`
	TotalCashFlows       float64 `json:"total_cash_flows"`
	FuturePropertyValue  float64 `json:"future_property_value"`
	RemainingLoanBalance float64 `json:"remaining_loan_balance"`
	EquityAtSale         float64 `json:"equity_at_sale"`
	SellingCosts         float64 `json:"selling_costs"`
	NetSaleProceeds      float64 `json:"net_sale_proceeds"`
	TotalProfit          float64 `json:"total_profit"`
	TotalReturnPct       float64 `json:"total_return_pct"`
}

// Scenario is the cash flow under one stressed assumption, debt service unchanged.
type Scenario struct {
	AnnualCashFlow  float64 `json:"annual_cash_flow"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow"`
}

type Sensitivity struct {
	RentDecrease     Scenario `json:"scenario_1_rent_decrease_10pct"`
	ExpensesIncrease Scenario `json:"scenario_2_expenses_increase_15pct"`
	Vacancy          Scenario `json:"scenario_3_vacancy_10pct"`
}

// Scenarios returns the stressed scenarios keyed by their wire names.
func (s Sensitivity) Scenarios() map[string]Scenario {
	return map[string]Scenario{
		"scenario_1_rent_decrease_10pct":     s.RentDecrease,
		"scenario_2_expenses_increase_15pct": s.ExpensesIncrease,
		"scenario_3_vacancy_10pct":           s.Vacancy,
	}
}
