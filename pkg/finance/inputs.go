package finance

import (
	"fmt"
	"math"

	"github.com/aretw0/parcel/pkg/domain"
)

// Inputs are the numeric assumptions of one calculation. Percents are given
// as whole numbers (25 means 25%).
type Inputs struct {
	PurchasePrice           float64 `json:"purchase_price"`
	AnnualRent              float64 `json:"annual_rent"`
	AnnualOperatingExpenses float64 `json:"annual_operating_expenses"`
	DownPaymentPercent      float64 `json:"down_payment_percent"`
	InterestRate            float64 `json:"interest_rate"`
	LoanTermYears           int     `json:"loan_term_years"`
	AppreciationRate        float64 `json:"appreciation_rate"`
	HoldPeriodYears         int     `json:"hold_period_years"`
	ClosingCostsPercent     float64 `json:"closing_costs_percent"`
	SellingCostsPercent     float64 `json:"selling_costs_percent"`
}

// DefaultInputs returns Inputs with the optional assumptions populated.
// Decode request bodies on top of it so omitted fields keep their defaults.
func DefaultInputs() Inputs {
	return Inputs{
		LoanTermYears:       domain.DefaultLoanTermYears,
		AppreciationRate:    domain.DefaultAppreciationRate,
		HoldPeriodYears:     domain.DefaultHoldPeriodYears,
		ClosingCostsPercent: domain.DefaultClosingCostsPercent,
		SellingCostsPercent: domain.DefaultSellingCostsPercent,
	}
}

// FromProperty maps a property description onto engine inputs. Monthly rent is annualized.
func FromProperty(d domain.PropertyDetails) Inputs {
	return Inputs{
		PurchasePrice:           d.PurchasePrice,
		AnnualRent:              d.EstimatedMonthlyRent * 12,
		AnnualOperatingExpenses: d.AnnualOperatingExpenses,
		DownPaymentPercent:      d.DownPaymentPercent,
		InterestRate:            d.InterestRate,
		LoanTermYears:           d.LoanTermYears,
		AppreciationRate:        d.AppreciationRate,
		HoldPeriodYears:         d.HoldPeriodYears,
		ClosingCostsPercent:     d.ClosingCostsPercent,
		SellingCostsPercent:     d.SellingCostsPercent,
	}
}

// ValidationError reports an input that the engine refuses to compute with.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the inputs in a fixed order and reports the first violation.
func (in Inputs) Validate() error {
	numbers := []struct {
		field string
		value float64
	}{
		{"purchase_price", in.PurchasePrice},
		{"annual_rent", in.AnnualRent},
		{"annual_operating_expenses", in.AnnualOperatingExpenses},
		{"down_payment_percent", in.DownPaymentPercent},
		{"interest_rate", in.InterestRate},
		{"appreciation_rate", in.AppreciationRate},
		{"closing_costs_percent", in.ClosingCostsPercent},
		{"selling_costs_percent", in.SellingCostsPercent},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return &ValidationError{Field: n.field, Message: fmt.Sprintf("%s must be a finite number", n.field)}
		}
	}

	switch {
	case in.PurchasePrice <= 0:
		return &ValidationError{Field: "purchase_price", Message: "Purchase price must be positive"}
	case in.AnnualRent < 0:
		return &ValidationError{Field: "annual_rent", Message: "Annual rent cannot be negative"}
	case in.AnnualOperatingExpenses < 0:
		return &ValidationError{Field: "annual_operating_expenses", Message: "Operating expenses cannot be negative"}
	case in.DownPaymentPercent < 0 || in.DownPaymentPercent > 100:
		return &ValidationError{Field: "down_payment_percent", Message: "Down payment percent must be between 0 and 100"}
	case in.InterestRate < 0:
		return &ValidationError{Field: "interest_rate", Message: "Interest rate cannot be negative"}
	case in.HoldPeriodYears <= 0:
		return &ValidationError{Field: "hold_period_years", Message: "Hold period must be at least one year"}
	}
	return nil
}
