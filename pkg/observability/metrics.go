package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/parcel/pkg/domain"
)

const namespace = "parcel"

// Collector holds the advisor's Prometheus metrics.
type Collector struct {
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Transitions *prometheus.CounterVec
	Signals     *prometheus.CounterVec
	Guardrails  *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
// A nil registerer leaves them unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of finished runs by final state.",
			},
			[]string{"final_state", "strategy"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of flow runs.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Total number of state transitions.",
			},
			[]string{"from", "to"},
		),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decision_signals_total",
				Help:      "Total number of dispatched decision signals.",
			},
			[]string{"signal"},
		),
		Guardrails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guardrail_verdicts_total",
				Help:      "Total number of guardrail verdicts by check and outcome.",
			},
			[]string{"task", "check", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(c.Runs, c.RunDuration, c.Transitions, c.Signals, c.Guardrails)
	}
	return c
}

// Hooks returns lifecycle hooks that record into the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, t domain.Transition) {
			c.Transitions.WithLabelValues(t.From.String(), t.To.String()).Inc()
		},
		OnSignal: func(_ context.Context, e domain.SignalEvent) {
			c.Signals.WithLabelValues(e.Signal.String()).Inc()
		},
		OnRunComplete: func(_ context.Context, r *domain.RunResult) {
			c.Runs.WithLabelValues(r.FinalState.String(), r.Strategy.String()).Inc()
			c.RunDuration.Observe(r.ExecutionTime)
		},
		OnGuardrail: func(_ context.Context, e domain.GuardrailEvent) {
			outcome := "rejected"
			if e.Accepted {
				outcome = "accepted"
			}
			c.Guardrails.WithLabelValues(string(e.Task), e.Check, outcome).Inc()
		},
	}
}
