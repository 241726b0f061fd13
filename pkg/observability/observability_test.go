package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/internal/runtime"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/observability"
)

func TestCollector_RecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := observability.NewCollector(reg)

	m := runtime.NewMachine(runtime.WithLifecycleHooks(c.Hooks()))
	input := domain.PropertyInput{domain.FieldPropertyAddress: "1 Test St"}
	res := m.Run(context.Background(), input, domain.StrategyPassiveIncome)
	require.Equal(t, domain.StateRequiresHumanInput, res.FinalState)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues("requires_human_input", "Passive Income")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transitions.WithLabelValues("initialized", "requires_human_input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Signals.WithLabelValues("insufficient_data")))

	count, err := testutil.GatherAndCount(reg, "parcel_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_Guardrails(t *testing.T) {
	c := observability.NewCollector(nil)
	hooks := c.Hooks()

	hooks.OnGuardrail(context.Background(), domain.GuardrailEvent{Task: domain.TaskRiskAssessment, Check: "no_absolute_certainty", Accepted: false})
	hooks.OnGuardrail(context.Background(), domain.GuardrailEvent{Task: domain.TaskRiskAssessment, Check: "no_absolute_certainty", Accepted: true})
	hooks.OnGuardrail(context.Background(), domain.GuardrailEvent{Task: domain.TaskRiskAssessment, Check: "no_absolute_certainty", Accepted: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Guardrails.WithLabelValues("risk_assessment", "no_absolute_certainty", "rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Guardrails.WithLabelValues("risk_assessment", "no_absolute_certainty", "accepted")))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.LoggingHooks(logger)

	hooks.OnGuardrail(context.Background(), domain.GuardrailEvent{Check: "no_guaranteed_returns", Accepted: true})
	assert.Empty(t, buf.String())

	hooks.OnGuardrail(context.Background(), domain.GuardrailEvent{Check: "no_guaranteed_returns", Attempt: 2})
	assert.Contains(t, buf.String(), "guardrail_violation")
	assert.Contains(t, buf.String(), "check=no_guaranteed_returns")

	buf.Reset()
	hooks.OnSignal(context.Background(), domain.SignalEvent{RunID: "r1", Signal: domain.SignalHighRisk})
	assert.Contains(t, buf.String(), "signal=high_risk_detected")
}
