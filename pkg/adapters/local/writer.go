// Package local implements a deterministic ports.Generator that drafts every
// task from the computed metrics without calling a language model.
package local

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/ports"
)

// Recommendation labels.
const (
	LabelPass              = "PASS"
	LabelBuy               = "BUY"
	LabelHoldNegotiation   = "HOLD FOR NEGOTIATION"
	LabelBuyWithCaution    = "BUY WITH CAUTION"
	noSourcesLine          = "- No external sources were used for this report."
	sourcesHeading         = "## Sources"
	strongCashOnCashReturn = 8.0
)

// Source is a reference cited in the Sources section of the final recommendation.
type Source struct {
	Name     string
	URL      string
	Accessed string
}

// Writer is a deterministic generator. The zero value is ready to use.
type Writer struct {
	sources []Source
}

// Option configures a Writer.
type Option func(*Writer)

// WithSources cites the given references instead of the no-sources notice.
func WithSources(sources ...Source) Option {
	return func(w *Writer) { w.sources = append(w.sources, sources...) }
}

// New creates a Writer.
func New(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Generate drafts the task. Feedback is ignored because the output is a pure
// function of the task inputs.
func (w *Writer) Generate(ctx context.Context, task ports.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m, err := metricsFor(task)
	if err != nil {
		return "", err
	}

	switch task.Kind {
	case domain.TaskDataAnalysis:
		return dataAnalysis(task), nil
	case domain.TaskFinancialModeling:
		return financialModel(m), nil
	case domain.TaskRiskAssessment:
		return riskAssessment(task, m), nil
	case domain.TaskFinalRecommendation:
		return w.recommendation(task.Strategy, m), nil
	}
	return "", fmt.Errorf("unsupported task %q", task.Kind)
}

// Recommend picks the recommendation label for the strategy and metrics.
func Recommend(strategy domain.Strategy, core domain.CoreMetrics, cf domain.CashFlowAnalysis) string {
	switch {
	case strategy == domain.StrategyPassiveIncome && cf.MonthlyCashFlow < 0:
		return LabelPass
	case core.CashOnCashReturn >= strongCashOnCashReturn && cf.MonthlyCashFlow > 0:
		return LabelBuy
	case cf.MonthlyCashFlow > 0:
		return LabelHoldNegotiation
	}
	return LabelBuyWithCaution
}

func metricsFor(task ports.Task) (*domain.FinancialMetrics, error) {
	if task.Metrics != nil {
		return task.Metrics, nil
	}
	core, okCore := task.Results.CoreMetrics()
	cf, okCF := task.Results.CashFlow()
	if okCore && okCF {
		return &domain.FinancialMetrics{Core: core, CashFlow: cf}, nil
	}

	details, err := task.Property.Details()
	if err != nil {
		return nil, err
	}
	res := finance.Run(finance.FromProperty(details))
	if !res.OK() {
		return nil, fmt.Errorf("analysis failed: %s", res.Error)
	}
	return res.FinancialMetrics, nil
}

func dataAnalysis(task ports.Task) string {
	p := task.Property
	var b strings.Builder
	fmt.Fprintf(&b, "**Property Data Summary: %s**\n\n", orNA(p.Address()))
	for _, field := range domain.DataRequirements {
		if field == domain.FieldPropertyAddress {
			continue
		}
		value := "not provided"
		if p.Has(field) {
			value = fmt.Sprint(p[field])
		}
		fmt.Fprintf(&b, "- %s: %s\n", label(field), value)
	}
	b.WriteString("\nFigures are taken from the submitted listing and may differ from current local records.\n")
	return b.String()
}

func financialModel(m *domain.FinancialMetrics) string {
	var b strings.Builder
	b.WriteString("**Financial Model**\n\n")
	fmt.Fprintf(&b, "- Net operating income: $%s per year\n", finance.FormatMoney(m.CashFlow.NetOperatingIncome))
	fmt.Fprintf(&b, "- Annual debt service: $%s\n", finance.FormatMoney(m.CashFlow.AnnualDebtService))
	fmt.Fprintf(&b, "- Monthly cash flow: $%s\n", finance.FormatMoney(m.CashFlow.MonthlyCashFlow))
	fmt.Fprintf(&b, "- Cap rate: %.2f%%\n", m.Core.CapRate)
	fmt.Fprintf(&b, "- Cash-on-cash: %.2f%%\n", m.Core.CashOnCashReturn)
	fmt.Fprintf(&b, "- DSCR: %.2f\n", m.Core.DSCR)
	fmt.Fprintf(&b, "- Break-even occupancy: %.2f%%\n", m.Core.BreakEvenOccupancy)
	if m.Projection.HoldPeriodYears > 0 {
		fmt.Fprintf(&b, "- Estimated total return over %d years: %.2f%%\n",
			m.Projection.HoldPeriodYears, m.Projection.TotalReturnPct)
	}
	b.WriteString("\nAll figures are estimates based on the stated assumptions.\n")
	return b.String()
}

func riskAssessment(task ports.Task, m *domain.FinancialMetrics) string {
	rating, ok := task.Results.RiskRating()
	if !ok {
		rating = finance.AssessRisk(m.Core, m.CashFlow)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Risk Assessment: %s**\n\n", rating)
	if m.CashFlow.MonthlyCashFlow < 0 {
		fmt.Fprintf(&b, "- Cash flow risk: the property runs a modeled monthly shortfall of $%s.\n",
			finance.FormatMoney(-m.CashFlow.MonthlyCashFlow))
	}
	if m.Core.DSCR < 1.0 {
		b.WriteString("- Debt risk: net operating income does not cover the debt service.\n")
	}
	fmt.Fprintf(&b, "- Rent 10%% lower: monthly cash flow of $%s.\n", finance.FormatMoney(m.Sensitivity.RentDecrease.MonthlyCashFlow))
	fmt.Fprintf(&b, "- Expenses 15%% higher: monthly cash flow of $%s.\n", finance.FormatMoney(m.Sensitivity.ExpensesIncrease.MonthlyCashFlow))
	b.WriteString("- Market risk: rents and property values may fluctuate with local conditions.\n")
	return b.String()
}

func (w *Writer) recommendation(strategy domain.Strategy, m *domain.FinancialMetrics) string {
	core, cf := m.Core, m.CashFlow
	rec := Recommend(strategy, core, cf)
	fit := "is potentially viable"
	if rec == LabelPass {
		fit = "does not align well"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**INVESTMENT RECOMMENDATION: %s**\n\n", rec)
	fmt.Fprintf(&b, "Monthly cash flow is $%s, cap rate is %.2f%%, cash-on-cash return is %.2f%%, "+
		"projected IRR is %.2f%%, and break-even occupancy is %.2f%%.\n\n",
		finance.FormatMoney(cf.MonthlyCashFlow), core.CapRate, core.CashOnCashReturn, core.AnnualizedReturn, core.BreakEvenOccupancy)
	fmt.Fprintf(&b, "For a %s strategy, this property %s based on current modeled metrics. "+
		"These figures carry risk: rents, vacancy and interest costs may change, and actual results may differ from projections.\n\n",
		strategy, fit)
	b.WriteString("**What To Do Next:**\n")
	b.WriteString("- Verify rent comps and property taxes with current local data.\n")
	b.WriteString("- Stress-test cash flow with higher vacancy and maintenance assumptions.\n")
	b.WriteString("- Confirm financing terms and closing costs with your lender.\n")
	b.WriteString("- Consult a licensed CPA and real estate attorney before final decision.\n\n")
	b.WriteString(sourcesHeading + "\n")
	if len(w.sources) == 0 {
		b.WriteString(noSourcesLine + "\n")
		return b.String()
	}
	for _, src := range w.sources {
		line := fmt.Sprintf("- %s - %s", src.Name, src.URL)
		if src.Accessed != "" {
			line += fmt.Sprintf(" (Accessed: %s)", src.Accessed)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func label(field string) string {
	words := strings.Split(field, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
