package schema

import "github.com/aretw0/parcel/pkg/domain"

// Property describes the value types of a domain.PropertyInput.
var Property = Schema{
	domain.FieldPropertyAddress:         String(),
	domain.FieldPurchasePrice:           Number(),
	domain.FieldSquareFootage:           Number(),
	domain.FieldBedrooms:                Number(),
	domain.FieldBathrooms:               Number(),
	domain.FieldPropertyType:            String(),
	domain.FieldYearBuilt:               Int(),
	domain.FieldEstimatedMonthlyRent:    Number(),
	domain.FieldAnnualOperatingExpenses: Number(),
	domain.FieldDownPaymentPercent:      Number(),
	domain.FieldInterestRate:            Number(),
	domain.FieldLoanTermYears:           Int(),
	domain.FieldAppreciationRate:        Number(),
	domain.FieldHoldPeriodYears:         Int(),
	domain.FieldClosingCostsPercent:     Number(),
	domain.FieldSellingCostsPercent:     Number(),
}

// ValidateProperty checks the value types of the present property fields.
func ValidateProperty(p domain.PropertyInput) error {
	return Validate(Property, p)
}
