package parcel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/internal/testutils"
	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/ports"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
}

func TestAdvisor_UnknownStrategy(t *testing.T) {
	store := memory.NewStore()
	adv := New(WithStore(store))

	_, err := adv.Analyze(context.Background(), testutils.SampleProperty(), "Day Trading")
	require.ErrorIs(t, err, domain.ErrUnknownStrategy)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "no run is started for an unknown strategy")
}

func TestAdvisor_AnalyzePersists(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	adv := New(
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return clock }),
	)
	ctx := context.Background()

	report, err := adv.Analyze(ctx, testutils.SampleProperty(), " passive income ")
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.ID)
	assert.Equal(t, domain.StrategyPassiveIncome, report.Strategy)
	assert.True(t, report.CreatedAt.Equal(clock))
	assert.Contains(t, report.Recommendation, "PASS")

	stored, err := adv.Report(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, report.Status, stored.Status)

	runs, err := adv.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}

func TestAdvisor_WithoutGeneration(t *testing.T) {
	report, err := New().Analyze(context.Background(), testutils.SampleProperty(), "Fix & Flip", advisory.WithoutGeneration())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, report.Status)
	assert.Empty(t, report.Sections)
}

func TestAdvisor_GeneratorRejected(t *testing.T) {
	attempts := 0
	gen := ports.GeneratorFunc(func(ctx context.Context, task ports.Task) (string, error) {
		attempts++
		return "Act now, this is a once in a lifetime deal!", nil
	})
	cfg := guardrail.DefaultConfig()
	cfg.MaxRetries = 1

	report, err := New(WithGenerator(gen), WithGuardrailConfig(cfg)).
		Analyze(context.Background(), testutils.SampleProperty(), "Aggressive Growth")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.NotEmpty(t, report.Error)
	assert.Greater(t, attempts, 1)
}

func TestAdvisor_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	adv := New(WithMetrics(reg))

	_, err := adv.Analyze(context.Background(), testutils.SampleProperty(), "Passive Income")
	require.NoError(t, err)

	c := adv.Collector()
	require.NotNil(t, c)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues("completed", "Passive Income")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Signals.WithLabelValues("negative_cash_flow")))
	assert.Equal(t, 6, testutil.CollectAndCount(c.Transitions))
	assert.Positive(t, testutil.CollectAndCount(c.Guardrails))

	assert.Nil(t, New().Collector())
}

func TestAdvisor_LifecycleHooks(t *testing.T) {
	var completed []domain.State
	adv := New(WithLifecycleHooks(domain.LifecycleHooks{
		OnRunComplete: func(_ context.Context, r *domain.RunResult) {
			completed = append(completed, r.FinalState)
		},
	}))

	_, err := adv.Analyze(context.Background(), domain.PropertyInput{domain.FieldPropertyAddress: "1 A St"}, "Passive Income")
	require.NoError(t, err)
	assert.Equal(t, []domain.State{domain.StateRequiresHumanInput}, completed)
}

func TestAdvisor_CalculateProperty(t *testing.T) {
	adv := New()

	res, err := adv.CalculateProperty(testutils.SampleProperty())
	require.NoError(t, err)
	require.True(t, res.OK(), res.Error)
	assert.InDelta(t, 26800, res.CashFlow.NetOperatingIncome, 0.001)

	invalid := testutils.SampleProperty()
	invalid[domain.FieldPurchasePrice] = 0.0
	res, err = adv.CalculateProperty(invalid)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "Purchase price must be positive", res.Error)

	bad := testutils.SampleProperty()
	bad[domain.FieldPurchasePrice] = map[string]any{"amount": 1}
	_, err = adv.CalculateProperty(bad)
	assert.Error(t, err)
}

func TestAdvisor_Validate(t *testing.T) {
	adv := New()

	outcomes, err := adv.Validate("Rates will always rise.", "risk_assessment")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, guardrail.CheckAbsoluteCertainty, outcomes[0].Check)
	assert.False(t, outcomes[0].Verdict.Accepted)

	all, err := adv.Validate("Plain text.", "")
	require.NoError(t, err)
	assert.Len(t, all, len(adv.Checks()))

	_, err = adv.Validate("x", "poetry")
	assert.Error(t, err)

	_, err = adv.ValidateChecks("x", []string{"no_such_check"})
	assert.ErrorIs(t, err, guardrail.ErrUnknownCheck)
}

func TestAdvisor_Graph(t *testing.T) {
	adv := New()
	plain := adv.Graph(nil)
	assert.Contains(t, plain, "initialized --> data_collection")
	assert.NotContains(t, plain, "classDef")

	report, err := adv.Analyze(context.Background(), testutils.SampleProperty(), "Passive Income", advisory.WithoutGeneration())
	require.NoError(t, err)
	overlay := adv.Graph(report.Flow)
	assert.Contains(t, overlay, "class completed current;")
	assert.Contains(t, overlay, "class risk_analysis visited;")
}

func TestRunner_Batch(t *testing.T) {
	broken := testutils.SampleProperty()
	broken[domain.FieldDownPaymentPercent] = 140.0

	loader, err := memory.NewLoader(
		ports.Listing{ID: "maple", Strategy: domain.StrategyPassiveIncome, Property: testutils.SampleProperty()},
		ports.Listing{ID: "partial", Strategy: domain.StrategyFixAndFlip, Property: domain.PropertyInput{domain.FieldPropertyAddress: "9 B St"}},
		ports.Listing{ID: "broken", Strategy: domain.StrategyAggressiveGrowth, Property: broken},
	)
	require.NoError(t, err)

	var out bytes.Buffer
	runner := NewRunner(loader)
	runner.Output = &out
	runner.Options = []advisory.AnalyzeOption{advisory.WithoutGeneration()}

	results, err := runner.Run(context.Background(), New())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "maple", results[0].ListingID)
	assert.Equal(t, domain.StatusCompleted, results[0].Report.Status)
	assert.Equal(t, domain.StatusPendingHumanInput, results[1].Report.Status)
	assert.Equal(t, domain.StatusFailed, results[2].Report.Status)

	assert.Equal(t, map[domain.RunStatus]int{
		domain.StatusCompleted:         1,
		domain.StatusPendingHumanInput: 1,
		domain.StatusFailed:            1,
	}, Tally(results))
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}

type failingLoader struct{}

func (failingLoader) Listings(context.Context) ([]ports.Listing, error) {
	return nil, errors.New("disk on fire")
}

func TestRunner_Errors(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background(), New())
	assert.Error(t, err)

	_, err = NewRunner(failingLoader{}).Run(context.Background(), New())
	assert.ErrorContains(t, err, "disk on fire")

	loader, err := memory.NewLoader(ports.Listing{ID: "a", Property: testutils.SampleProperty()})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRunner(loader).Run(ctx, New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, strings.TrimSpace(Version), Version)
}
