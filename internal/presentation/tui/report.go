package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/guardrail"
)

// ReportMarkdown renders an advisory report as markdown.
func ReportMarkdown(r *domain.Report) string {
	var b strings.Builder

	address := r.Property.Address()
	if address == "" {
		address = "Unnamed property"
	}
	fmt.Fprintf(&b, "# %s\n\n", address)
	fmt.Fprintf(&b, "- **Run:** `%s`\n", r.ID)
	fmt.Fprintf(&b, "- **Strategy:** %s\n", r.Strategy)
	fmt.Fprintf(&b, "- **Status:** %s\n", r.Status)
	if r.ParentID != "" {
		fmt.Fprintf(&b, "- **Resubmission of:** `%s`\n", r.ParentID)
	}
	if r.Flow != nil && len(r.Flow.Signals) > 0 {
		labels := make([]string, len(r.Flow.Signals))
		for i, s := range r.Flow.Signals {
			labels[i] = "`" + s.String() + "`"
		}
		fmt.Fprintf(&b, "- **Decision points:** %s\n", strings.Join(labels, ", "))
	}
	b.WriteString("\n")

	switch r.Status {
	case domain.StatusPendingHumanInput:
		fmt.Fprintf(&b, "> %s\n\n", r.RequiredAction)
		b.WriteString("## Required data\n\n")
		for _, f := range r.RequiredData {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
		b.WriteString("\n")
	case domain.StatusFailed:
		fmt.Fprintf(&b, "> **Error:** %s\n\n", r.Error)
	}

	if r.Preliminary != nil {
		b.WriteString("## Key metrics\n\n")
		b.WriteString(MetricsMarkdown(r.Preliminary))
		b.WriteString("\n")
	}

	for _, s := range r.Sections {
		if s.Task == domain.TaskFinalRecommendation {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", title(string(s.Task)), strings.TrimSpace(s.Text))
	}
	if r.Recommendation != "" {
		fmt.Fprintf(&b, "## Recommendation\n\n%s\n", strings.TrimSpace(r.Recommendation))
	}
	return b.String()
}

// MetricsMarkdown renders the headline metrics as a markdown table.
func MetricsMarkdown(m *domain.FinancialMetrics) string {
	var b strings.Builder
	b.WriteString("| Metric | Value |\n|---|---|\n")
	rows := []struct {
		name  string
		value string
	}{
		{"Cap rate", fmt.Sprintf("%.2f%%", m.Core.CapRate)},
		{"Cash-on-cash return", fmt.Sprintf("%.2f%%", m.Core.CashOnCashReturn)},
		{"Annualized return", fmt.Sprintf("%.2f%%", m.Core.AnnualizedReturn)},
		{"DSCR", fmt.Sprintf("%.2f", m.Core.DSCR)},
		{"Break-even occupancy", fmt.Sprintf("%.2f%%", m.Core.BreakEvenOccupancy)},
		{"Net operating income", "$" + finance.FormatMoney(m.CashFlow.NetOperatingIncome)},
		{"Monthly cash flow", "$" + finance.FormatMoney(m.CashFlow.MonthlyCashFlow)},
		{"Total cash invested", "$" + finance.FormatMoney(m.Investment.TotalCashInvested)},
		{"Monthly mortgage payment", "$" + finance.FormatMoney(m.Investment.MonthlyMortgagePayment)},
		{fmt.Sprintf("Total profit (%d yr)", m.Projection.HoldPeriodYears), "$" + finance.FormatMoney(m.Projection.TotalProfit)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, r.value)
	}
	return b.String()
}

// OutcomesMarkdown renders policy verdicts as a checklist.
func OutcomesMarkdown(outcomes []guardrail.Outcome) string {
	var b strings.Builder
	for _, o := range outcomes {
		if o.Verdict.Accepted {
			fmt.Fprintf(&b, "- [x] `%s`\n", o.Check)
			continue
		}
		fmt.Fprintf(&b, "- [ ] `%s`: %s\n", o.Check, o.Verdict.Payload)
	}
	return b.String()
}

func title(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
