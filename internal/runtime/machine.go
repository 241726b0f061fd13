package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/pkg/decision"
	"github.com/aretw0/parcel/pkg/domain"
)

// Machine drives runs through a stage table. A Machine holds no per-run
// state: every call to Run builds its own FlowContext, so one Machine may
// serve concurrent runs.
type Machine struct {
	table  Table
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	clock  func() time.Time
	newID  func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithTable replaces the stage table.
func WithTable(t Table) Option {
	return func(m *Machine) { m.table = t }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(m *Machine) { m.hooks = h }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) { m.clock = clock }
}

// WithIDGenerator overrides how run IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(m *Machine) { m.newID = gen }
}

// NewMachine creates a Machine over DefaultTable unless WithTable is given.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		table:  DefaultTable(),
		logger: logging.NewNop(),
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the stage table the machine runs.
func (m *Machine) Table() Table {
	return m.table
}

// RunOption adjusts a single run.
type RunOption func(*FlowContext)

// WithRunID fixes the ID of the run.
func WithRunID(id string) RunOption {
	return func(c *FlowContext) { c.runID = id }
}

// WithMetrics injects metrics computed before the run. The financial stage
// then uses them instead of invoking the engine again.
func WithMetrics(metrics *domain.FinancialMetrics) RunOption {
	return func(c *FlowContext) { c.SetMetrics(metrics) }
}

// Run executes a run until it reaches a terminal state and returns its result.
// Handler errors and panics end the run in StateFailed; Run itself never fails.
func (m *Machine) Run(ctx context.Context, input domain.PropertyInput, strategy domain.Strategy, opts ...RunOption) *domain.RunResult {
	start := m.clock()
	fc := &FlowContext{
		ctx:      ctx,
		runID:    m.newID(),
		input:    input.Clone(),
		strategy: strategy,
		state:    domain.StateInitialized,
		results:  domain.Results{},
		fired:    make(map[domain.Signal]bool),
		meta:     domain.RunMetadata{StartTime: start, FlowVersion: domain.FlowVersion},
		clock:    m.clock,
		hooks:    m.hooks,
	}
	for _, opt := range opts {
		opt(fc)
	}

	logger := m.logger.With("run_id", fc.runID)
	fc.Emit(domain.EventFlowInitialized, map[string]any{
		"property": fc.input.Address(),
		"strategy": strategy.String(),
	})

	for !fc.state.IsTerminal() {
		current := fc.state

		if err := ctx.Err(); err != nil {
			m.fail(fc, logger, current, err)
			break
		}

		stage, ok := m.table[current]
		if !ok {
			m.fail(fc, logger, current, fmt.Errorf("no handler for state: %s", current))
			break
		}

		next, err := invoke(stage, fc)
		if err == nil && !stage.Allows(next) {
			err = fmt.Errorf("undeclared transition %s -> %s", current, next)
		}
		if err != nil {
			m.fail(fc, logger, current, err)
			break
		}

		fc.transition(next)
		logger.Debug("State transition", "from", current, "to", next)

		for _, sig := range decision.Evaluate(fc.results) {
			if fc.Dispatch(sig) {
				logger.Debug("Decision point triggered", "signal", sig)
			}
		}
	}

	res := fc.result()
	logger.Info("Run finished",
		"state", res.FinalState,
		"signals", len(res.Signals),
		"events", len(res.Events),
		"duration", time.Duration(res.ExecutionTime*float64(time.Second)),
	)
	if m.hooks.OnRunComplete != nil {
		m.hooks.OnRunComplete(ctx, res)
	}
	return res
}

func (m *Machine) fail(fc *FlowContext, logger *slog.Logger, state domain.State, err error) {
	logger.Error("Stage failed", "state", state, "error", err)
	fc.Emit(domain.EventError, map[string]any{
		"error": err.Error(),
		"state": state.String(),
	})
	fc.transition(domain.StateFailed)
}

func invoke(stage Stage, fc *FlowContext) (next domain.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", stage.State, r)
		}
	}()
	return stage.Handler(fc)
}
