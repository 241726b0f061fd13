package parcel_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/parcel"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
)

func sampleProperty() domain.PropertyInput {
	return domain.PropertyInput{
		"property_address":          "456 Maple Street, Austin, TX 78701",
		"purchase_price":            475000,
		"square_footage":            1950,
		"bedrooms":                  3,
		"bathrooms":                 2,
		"property_type":             "Single Family Home",
		"year_built":                2015,
		"estimated_monthly_rent":    3400,
		"annual_operating_expenses": 14000,
		"down_payment_percent":      25,
		"interest_rate":             7.25,
		"loan_term_years":           30,
	}
}

// ExampleAdvisor_Analyze runs a complete analysis with the default in-memory
// store and the deterministic local writer.
func ExampleAdvisor_Analyze() {
	adv := parcel.New()

	report, err := adv.Analyze(context.Background(), sampleProperty(), "Passive Income")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(report.Status)
	fmt.Println(report.Flow.HasSignal(domain.SignalNegativeCashFlow))
	fmt.Println(len(report.Sections))
	// Output:
	// completed
	// true
	// 4
}

// ExampleAdvisor_Resubmit shows a run pausing for missing data and resuming
// once the caller supplies it.
func ExampleAdvisor_Resubmit() {
	adv := parcel.New()
	ctx := context.Background()

	full := sampleProperty()
	partial := domain.PropertyInput{"property_address": full["property_address"]}

	paused, err := adv.Analyze(ctx, partial, "Aggressive Growth")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(paused.Status)

	resumed, err := adv.Resubmit(ctx, paused.ID, full)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resumed.Status, resumed.ParentID == paused.ID)
	// Output:
	// pending_human_input
	// completed true
}

func ExampleAdvisor_Calculate() {
	in := finance.DefaultInputs()
	in.PurchasePrice = 500000
	in.AnnualRent = 48000
	in.AnnualOperatingExpenses = 12000
	in.DownPaymentPercent = 25
	in.InterestRate = 7

	res := parcel.New().Calculate(in)
	fmt.Println(res.Status)
	fmt.Printf("cap rate %.2f%%\n", res.Core.CapRate)
	// Output:
	// success
	// cap rate 7.20%
}

func ExampleAdvisor_ValidateChecks() {
	outcomes, err := parcel.New().ValidateChecks("This deal offers guaranteed returns.", []string{"no_guaranteed_returns"})
	if err != nil {
		log.Fatal(err)
	}
	for _, o := range outcomes {
		fmt.Println(o.Check, o.Verdict.Accepted)
	}
	// Output:
	// no_guaranteed_returns false
}
