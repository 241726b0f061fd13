package parcel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/internal/presentation/graph"
	"github.com/aretw0/parcel/internal/runtime"
	"github.com/aretw0/parcel/pkg/adapters/local"
	"github.com/aretw0/parcel/pkg/adapters/memory"
	"github.com/aretw0/parcel/pkg/advisory"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/finance"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/observability"
	"github.com/aretw0/parcel/pkg/ports"
)

// Advisor is the high-level entry point of the library.
// It wires the flow state machine, the policy pipeline, a text generator and
// a report store, and is safe for concurrent use.
type Advisor struct {
	service   *advisory.Service
	policy    *guardrail.Pipeline
	collector *observability.Collector
	logger    *slog.Logger

	store      ports.ReportStore
	generator  ports.Generator
	guardrails guardrail.Config
	extensions *guardrail.Extensions
	hooks      domain.LifecycleHooks
	registerer prometheus.Registerer
	clock      func() time.Time
	newID      func() string
}

// Option defines a functional option for configuring the Advisor.
type Option func(*Advisor)

// WithStore persists reports in store. The default is an in-memory store.
func WithStore(store ports.ReportStore) Option {
	return func(a *Advisor) { a.store = store }
}

// WithGenerator drafts report text with gen. The default is the deterministic local writer.
func WithGenerator(gen ports.Generator) Option {
	return func(a *Advisor) { a.generator = gen }
}

// WithGuardrailConfig tunes the policy pipeline.
func WithGuardrailConfig(cfg guardrail.Config) Option {
	return func(a *Advisor) { a.guardrails = cfg }
}

// WithPolicyExtensions adds rules loaded from a policy file.
func WithPolicyExtensions(ext *guardrail.Extensions) Option {
	return func(a *Advisor) { a.extensions = ext }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Advisor) { a.logger = logger }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Advisor) { a.hooks = hooks }
}

// WithMetrics registers Prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(a *Advisor) { a.registerer = reg }
}

// WithClock overrides the time source of runs and reports.
func WithClock(clock func() time.Time) Option {
	return func(a *Advisor) { a.clock = clock }
}

// WithIDGenerator overrides how run IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(a *Advisor) { a.newID = gen }
}

// New creates an Advisor.
func New(opts ...Option) *Advisor {
	a := &Advisor{
		guardrails: guardrail.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.generator == nil {
		a.generator = local.New()
	}

	var policyOpts []guardrail.Option
	if a.extensions != nil {
		policyOpts = append(policyOpts, guardrail.WithExtensions(a.extensions))
	}
	a.policy = guardrail.New(a.guardrails, policyOpts...)

	hooks := observability.LoggingHooks(a.logger)
	if a.registerer != nil {
		a.collector = observability.NewCollector(a.registerer)
		hooks = hooks.Merge(a.collector.Hooks())
	}
	hooks = hooks.Merge(a.hooks)

	machineOpts := []runtime.Option{
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(hooks),
	}
	serviceOpts := []advisory.Option{
		advisory.WithStore(a.store),
		advisory.WithLogger(a.logger),
		advisory.WithWriter(advisory.NewWriter(a.generator, a.policy,
			advisory.WithWriterHooks(hooks),
			advisory.WithWriterLogger(a.logger),
		)),
	}
	if a.clock != nil {
		machineOpts = append(machineOpts, runtime.WithClock(a.clock))
		serviceOpts = append(serviceOpts, advisory.WithClock(a.clock))
	}
	if a.newID != nil {
		serviceOpts = append(serviceOpts, advisory.WithIDGenerator(a.newID))
	}
	serviceOpts = append(serviceOpts, advisory.WithMachine(runtime.NewMachine(machineOpts...)))
	a.service = advisory.NewService(serviceOpts...)

	return a
}

// Analyze validates the strategy label and runs one advisory request.
// An unknown label wraps domain.ErrUnknownStrategy and no run is started.
func (a *Advisor) Analyze(ctx context.Context, input domain.PropertyInput, strategy string, opts ...advisory.AnalyzeOption) (*domain.Report, error) {
	s, err := domain.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	return a.service.Analyze(ctx, input, s, opts...)
}

// Resubmit completes a paused run with patch and analyzes it again.
func (a *Advisor) Resubmit(ctx context.Context, runID string, patch domain.PropertyInput, opts ...advisory.AnalyzeOption) (*domain.Report, error) {
	return a.service.Resubmit(ctx, runID, patch, opts...)
}

// Report loads a stored report.
func (a *Advisor) Report(ctx context.Context, runID string) (*domain.Report, error) {
	return a.service.Load(ctx, runID)
}

// Runs lists the IDs of stored reports.
func (a *Advisor) Runs(ctx context.Context) ([]string, error) {
	return a.service.List(ctx)
}

// Calculate runs the financial engine on explicit inputs.
func (a *Advisor) Calculate(in finance.Inputs) finance.Result {
	return finance.Run(in)
}

// CalculateProperty runs the financial engine on a property description.
func (a *Advisor) CalculateProperty(input domain.PropertyInput) (finance.Result, error) {
	details, err := input.Details()
	if err != nil {
		return finance.Result{}, fmt.Errorf("decode property: %w", err)
	}
	return finance.Run(finance.FromProperty(details)), nil
}

// Validate checks text against the policy subset of task. An empty task
// applies every check.
func (a *Advisor) Validate(text, task string) ([]guardrail.Outcome, error) {
	kind, err := domain.ParseTaskKind(task)
	if err != nil {
		return nil, err
	}
	return a.policy.ValidateTask(kind, text), nil
}

// ValidateChecks checks text against the named checks.
func (a *Advisor) ValidateChecks(text string, checks []string) ([]guardrail.Outcome, error) {
	ids := make([]guardrail.CheckID, 0, len(checks))
	for _, name := range checks {
		id, err := a.policy.ParseCheck(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return a.policy.Validate(text, ids)
}

// Checks lists the policy checks in pipeline order.
func (a *Advisor) Checks() []guardrail.CheckID {
	return a.policy.Checks()
}

// Graph renders the flow as a Mermaid flowchart. A non-nil run highlights
// the states it visited.
func (a *Advisor) Graph(run *domain.RunResult) string {
	return graph.GenerateMermaid(a.service.Machine().Table(), graph.OverlayFromRun(run))
}

// Collector returns the Prometheus collectors, or nil without WithMetrics.
func (a *Advisor) Collector() *observability.Collector {
	return a.collector
}
