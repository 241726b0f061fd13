package runtime

import (
	"context"
	"slices"
	"time"

	"github.com/aretw0/parcel/pkg/decision"
	"github.com/aretw0/parcel/pkg/domain"
)

// FlowContext is the mutable aggregate of a single run. It is created by
// Machine.Run, handed to the stage handlers of that run only, and discarded
// once the run result has been built.
type FlowContext struct {
	ctx      context.Context
	runID    string
	input    domain.PropertyInput
	strategy domain.Strategy
	state    domain.State
	events   []domain.FlowEvent
	results  domain.Results
	signals  []domain.Signal
	fired    map[domain.Signal]bool
	human    bool
	metrics  *domain.FinancialMetrics
	meta     domain.RunMetadata
	clock    func() time.Time
	hooks    domain.LifecycleHooks
}

// RunID identifies the run.
func (c *FlowContext) RunID() string { return c.runID }

// Input returns the property input. Handlers must treat it as read-only.
func (c *FlowContext) Input() domain.PropertyInput { return c.input }

// Strategy returns the strategy of the run.
func (c *FlowContext) Strategy() domain.Strategy { return c.strategy }

// State returns the current state.
func (c *FlowContext) State() domain.State { return c.state }

// Results returns the analysis results accumulated so far.
func (c *FlowContext) Results() domain.Results { return c.results }

// Metrics returns the financial metrics of the run, if already computed.
func (c *FlowContext) Metrics() *domain.FinancialMetrics { return c.metrics }

// SetResult records a named analysis result.
func (c *FlowContext) SetResult(key string, value any) {
	c.results[key] = value
}

// SetMetrics records the run's metrics and stores their sections in the results.
// Metrics are authoritative for the run; later calls are ignored.
func (c *FlowContext) SetMetrics(m *domain.FinancialMetrics) {
	if c.metrics != nil || m == nil {
		return
	}
	c.metrics = m
	c.results.PutMetrics(m)
}

// Emit appends an event stamped with the current state.
func (c *FlowContext) Emit(typ domain.EventType, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	e := domain.FlowEvent{
		Type:      typ,
		Timestamp: c.clock(),
		State:     c.state,
		Data:      data,
	}
	c.events = append(c.events, e)
	if c.hooks.OnEvent != nil {
		c.hooks.OnEvent(c.ctx, &e)
	}
}

// Dispatch records sig and its response unless it has already fired in this run.
// It reports whether the signal was newly recorded.
func (c *FlowContext) Dispatch(sig domain.Signal) bool {
	if c.fired[sig] {
		return false
	}
	c.fired[sig] = true
	c.signals = append(c.signals, sig)

	action := decision.Respond(sig, c.input)
	c.Emit(domain.EventDecisionPoint, map[string]any{
		"decision_point": sig.String(),
		"action":         action.Action,
	})
	c.results[sig.ResultKey()] = action
	if sig == domain.SignalInsufficientData {
		c.human = true
	}

	if c.hooks.OnSignal != nil {
		c.hooks.OnSignal(c.ctx, domain.SignalEvent{
			RunID:  c.runID,
			Signal: sig,
			State:  c.state,
			Action: action,
		})
	}
	return true
}

func (c *FlowContext) transition(to domain.State) {
	from := c.state
	c.state = to
	c.Emit(domain.EventStateTransition, map[string]any{
		"from_state": from.String(),
		"to_state":   to.String(),
	})
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(c.ctx, domain.Transition{RunID: c.runID, From: from, To: to})
	}
}

func (c *FlowContext) result() *domain.RunResult {
	return &domain.RunResult{
		RunID:              c.runID,
		Property:           c.input.Address(),
		Strategy:           c.strategy,
		FinalState:         c.state,
		ExecutionTime:      c.clock().Sub(c.meta.StartTime).Seconds(),
		Events:             slices.Clone(c.events),
		Signals:            slices.Clone(c.signals),
		Results:            c.results.Clone(),
		HumanInputRequired: c.human,
		Metadata:           c.meta,
	}
}
