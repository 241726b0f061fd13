/*
Package parcel is a deterministic real-estate investment advisory engine.

An analysis request runs a property description through a fixed flow of
stages (data collection, financial analysis, risk analysis, strategy
evaluation and final recommendation), records every transition and decision
point, and produces a report. Narrative text is drafted by a pluggable
generator and every draft must pass a policy pipeline before it is accepted.

# Concept

The numbers are never produced by the generator. The financial engine
computes cap rate, cash-on-cash return, DSCR, break-even occupancy, a
hold-period projection and stressed scenarios; the flow turns them into
decision signals such as negative_cash_flow or exceptional_opportunity. A
generator (the built-in local writer, an OpenAI or Anthropic model, or an
external process) only drafts prose around those results, and drafts that
promise returns, create urgency or omit sources are rejected and retried with
the violation as feedback.

# Usage

	adv := parcel.New()

	report, err := adv.Analyze(ctx, domain.PropertyInput{
		"property_address":       "456 Maple Street, Austin, TX 78701",
		"purchase_price":         475000,
		"estimated_monthly_rent": 3400,
		"interest_rate":          7.25,
		// ...
	}, "Passive Income")
	if err != nil {
		log.Fatal(err)
	}

	switch report.Status {
	case domain.StatusPendingHumanInput:
		// Ask for report.RequiredData, then:
		report, err = adv.Resubmit(ctx, report.ID, patch)
	case domain.StatusCompleted:
		fmt.Println(report.Recommendation)
	}

Reports are archived through a ports.ReportStore (memory, file, Redis or
SQLite adapters) and can be served over HTTP or MCP from the parcel binary.
*/
package parcel
