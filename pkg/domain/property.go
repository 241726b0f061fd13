package domain

import (
	"fmt"
	"maps"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Property field names as they appear in a PropertyInput.
const (
	FieldPropertyAddress         = "property_address"
	FieldPurchasePrice           = "purchase_price"
	FieldSquareFootage           = "square_footage"
	FieldBedrooms                = "bedrooms"
	FieldBathrooms               = "bathrooms"
	FieldPropertyType            = "property_type"
	FieldYearBuilt               = "year_built"
	FieldEstimatedMonthlyRent    = "estimated_monthly_rent"
	FieldAnnualOperatingExpenses = "annual_operating_expenses"
	FieldDownPaymentPercent      = "down_payment_percent"
	FieldInterestRate            = "interest_rate"
	FieldLoanTermYears           = "loan_term_years"
	FieldAppreciationRate        = "appreciation_rate"
	FieldHoldPeriodYears         = "hold_period_years"
	FieldClosingCostsPercent     = "closing_costs_percent"
	FieldSellingCostsPercent     = "selling_costs_percent"
)

// RequiredFields must be present for a run to leave INITIALIZED.
var RequiredFields = []string{
	FieldPropertyAddress,
	FieldPurchasePrice,
	FieldEstimatedMonthlyRent,
	FieldAnnualOperatingExpenses,
	FieldDownPaymentPercent,
	FieldInterestRate,
}

// DataRequirements is the full field list requested from a caller when a run pauses for input.
var DataRequirements = []string{
	FieldPropertyAddress,
	FieldPurchasePrice,
	FieldSquareFootage,
	FieldBedrooms,
	FieldBathrooms,
	FieldPropertyType,
	FieldYearBuilt,
	FieldEstimatedMonthlyRent,
	FieldAnnualOperatingExpenses,
	FieldDownPaymentPercent,
	FieldInterestRate,
	FieldLoanTermYears,
}

// PropertyInput is the raw property description supplied by a caller.
// The core never mutates a PropertyInput; it clones it on entry.
type PropertyInput map[string]any

// Clone returns a shallow copy of the input.
func (p PropertyInput) Clone() PropertyInput {
	if p == nil {
		return PropertyInput{}
	}
	return maps.Clone(p)
}

// Has reports whether the field is present with a usable value.
// Nil values and blank strings count as absent.
func (p PropertyInput) Has(field string) bool {
	v, ok := p[field]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// Missing returns the fields from the given list that are absent, preserving list order.
func (p PropertyInput) Missing(fields []string) []string {
	var missing []string
	for _, f := range fields {
		if !p.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Address returns the property address or an empty string.
func (p PropertyInput) Address() string {
	if s, ok := p[FieldPropertyAddress].(string); ok {
		return s
	}
	if v, ok := p[FieldPropertyAddress]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Merge returns a copy of p with the patch fields applied on top.
func (p PropertyInput) Merge(patch PropertyInput) PropertyInput {
	out := p.Clone()
	maps.Copy(out, patch)
	return out
}

// PropertyDetails is the typed view of a PropertyInput.
type PropertyDetails struct {
	Address                 string  `mapstructure:"property_address" json:"property_address"`
	PurchasePrice           float64 `mapstructure:"purchase_price" json:"purchase_price"`
	SquareFootage           float64 `mapstructure:"square_footage" json:"square_footage,omitempty"`
	Bedrooms                float64 `mapstructure:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms               float64 `mapstructure:"bathrooms" json:"bathrooms,omitempty"`
	PropertyType            string  `mapstructure:"property_type" json:"property_type,omitempty"`
	YearBuilt               int     `mapstructure:"year_built" json:"year_built,omitempty"`
	EstimatedMonthlyRent    float64 `mapstructure:"estimated_monthly_rent" json:"estimated_monthly_rent"`
	AnnualOperatingExpenses float64 `mapstructure:"annual_operating_expenses" json:"annual_operating_expenses"`
	DownPaymentPercent      float64 `mapstructure:"down_payment_percent" json:"down_payment_percent"`
	InterestRate            float64 `mapstructure:"interest_rate" json:"interest_rate"`
	LoanTermYears           int     `mapstructure:"loan_term_years" json:"loan_term_years"`
	AppreciationRate        float64 `mapstructure:"appreciation_rate" json:"appreciation_rate"`
	HoldPeriodYears         int     `mapstructure:"hold_period_years" json:"hold_period_years"`
	ClosingCostsPercent     float64 `mapstructure:"closing_costs_percent" json:"closing_costs_percent"`
	SellingCostsPercent     float64 `mapstructure:"selling_costs_percent" json:"selling_costs_percent"`
}

// Default assumptions applied when the optional fields are omitted.
const (
	DefaultLoanTermYears       = 30
	DefaultAppreciationRate    = 3.0
	DefaultHoldPeriodYears     = 5
	DefaultClosingCostsPercent = 3.0
	DefaultSellingCostsPercent = 6.0
)

// Details decodes the input into PropertyDetails. Optional fields that are
// absent keep their defaults. Numeric strings are accepted.
func (p PropertyInput) Details() (PropertyDetails, error) {
	details := PropertyDetails{
		LoanTermYears:       DefaultLoanTermYears,
		AppreciationRate:    DefaultAppreciationRate,
		HoldPeriodYears:     DefaultHoldPeriodYears,
		ClosingCostsPercent: DefaultClosingCostsPercent,
		SellingCostsPercent: DefaultSellingCostsPercent,
	}

	present := make(map[string]any, len(p))
	for k, v := range p {
		if v != nil {
			present[k] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &details,
	})
	if err != nil {
		return details, err
	}
	if err := decoder.Decode(present); err != nil {
		return details, fmt.Errorf("decode property input: %w", err)
	}
	return details, nil
}
