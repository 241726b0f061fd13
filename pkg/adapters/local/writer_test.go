package local_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/adapters/local"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/ports"
)

func metrics(monthly, coc float64) *domain.FinancialMetrics {
	return &domain.FinancialMetrics{
		Core:     domain.CoreMetrics{CapRate: 6.5, CashOnCashReturn: coc, AnnualizedReturn: 9.1, DSCR: 1.2, BreakEvenOccupancy: 81},
		CashFlow: domain.CashFlowAnalysis{MonthlyCashFlow: monthly, NetOperatingIncome: 30000, AnnualDebtService: 24000},
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		strategy domain.Strategy
		monthly  float64
		coc      float64
		want     string
	}{
		{"passive income with negative cash flow", domain.StrategyPassiveIncome, -10, 12, local.LabelPass},
		{"strong return", domain.StrategyPassiveIncome, 400, 8, local.LabelBuy},
		{"positive but weak", domain.StrategyAggressiveGrowth, 50, 4, local.LabelHoldNegotiation},
		{"growth with negative cash flow", domain.StrategyAggressiveGrowth, -300, 2, local.LabelBuyWithCaution},
		{"zero cash flow", domain.StrategyFixAndFlip, 0, 9, local.LabelBuyWithCaution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics(tt.monthly, tt.coc)
			assert.Equal(t, tt.want, local.Recommend(tt.strategy, m.Core, m.CashFlow))
		})
	}
}

func TestWriter_DraftsPassPolicy(t *testing.T) {
	policy := guardrail.New(guardrail.DefaultConfig())
	w := local.New()

	for _, kind := range domain.TaskKinds {
		t.Run(string(kind), func(t *testing.T) {
			text, err := w.Generate(context.Background(), ports.Task{
				Kind:     kind,
				Strategy: domain.StrategyPassiveIncome,
				Property: domain.PropertyInput{domain.FieldPropertyAddress: "9 Oak Lane", domain.FieldPurchasePrice: 300000.0},
				Metrics:  metrics(-420.5, 3.1),
			})
			require.NoError(t, err)
			outcomes := policy.ValidateTask(kind, text)
			v, failed := guardrail.FirstViolation(outcomes)
			assert.False(t, failed, "%s rejected: %s", v.Check, v.Verdict.Payload)
		})
	}
}

func TestWriter_FinalRecommendation(t *testing.T) {
	text, err := local.New().Generate(context.Background(), ports.Task{
		Kind:     domain.TaskFinalRecommendation,
		Strategy: domain.StrategyPassiveIncome,
		Metrics:  metrics(-1234.5, 3.1),
	})
	require.NoError(t, err)

	assert.Contains(t, text, "**INVESTMENT RECOMMENDATION: PASS**")
	assert.Contains(t, text, "Monthly cash flow is $-1,234.50")
	assert.Contains(t, text, "does not align well")
	assert.Contains(t, text, "## Sources\n- No external sources were used for this report.")
	assert.Greater(t, len([]rune(text)), 500)
}

func TestWriter_CitesSourcesWhenSearchIsConfigured(t *testing.T) {
	policy := guardrail.New(guardrail.Config{RequireExternalSources: true, SearchConfigured: true, MinSourceURLs: 1})

	bare, err := local.New().Generate(context.Background(), ports.Task{
		Kind:    domain.TaskFinalRecommendation,
		Metrics: metrics(100, 5),
	})
	require.NoError(t, err)
	assert.False(t, guardrail.Passed(policy.ValidateTask(domain.TaskFinalRecommendation, bare)))

	cited, err := local.New(local.WithSources(local.Source{
		Name:     "County Assessor",
		URL:      "https://assessor.example.gov/parcel",
		Accessed: "2026-03-01",
	})).Generate(context.Background(), ports.Task{
		Kind:    domain.TaskFinalRecommendation,
		Metrics: metrics(100, 5),
	})
	require.NoError(t, err)
	assert.Contains(t, cited, "- County Assessor - https://assessor.example.gov/parcel (Accessed: 2026-03-01)")
	assert.True(t, guardrail.Passed(policy.ValidateTask(domain.TaskFinalRecommendation, cited)))
}

func TestWriter_FallsBackToEngine(t *testing.T) {
	text, err := local.New().Generate(context.Background(), ports.Task{
		Kind:     domain.TaskFinancialModeling,
		Strategy: domain.StrategyAggressiveGrowth,
		Property: domain.PropertyInput{
			domain.FieldPurchasePrice:           400000.0,
			domain.FieldEstimatedMonthlyRent:    3000.0,
			domain.FieldAnnualOperatingExpenses: 9000.0,
			domain.FieldDownPaymentPercent:      100.0,
			domain.FieldInterestRate:            6.0,
		},
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Net operating income: $27,000.00 per year")
	assert.Contains(t, text, "Annual debt service: $0.00")
}

func TestWriter_UnknownTask(t *testing.T) {
	_, err := local.New().Generate(context.Background(), ports.Task{Kind: "poetry", Metrics: metrics(1, 1)})
	assert.Error(t, err)
}

func TestWriter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := local.New().Generate(ctx, ports.Task{Kind: domain.TaskDataAnalysis})
	assert.ErrorIs(t, err, context.Canceled)
}
