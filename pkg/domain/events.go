package domain

import (
	"context"
	"time"
)

// EventType tags a FlowEvent.
type EventType string

const (
	EventFlowInitialized        EventType = "FLOW_INITIALIZED"
	EventValidationStart        EventType = "VALIDATION_START"
	EventValidationFailed       EventType = "VALIDATION_FAILED"
	EventValidationPassed       EventType = "VALIDATION_PASSED"
	EventDataCollectionStart    EventType = "DATA_COLLECTION_START"
	EventDataCollectionComplete EventType = "DATA_COLLECTION_COMPLETE"
	EventFinancialAnalysisStart EventType = "FINANCIAL_ANALYSIS_START"
	EventFinancialAnalysisDone  EventType = "FINANCIAL_ANALYSIS_COMPLETE"
	EventRiskAnalysisStart      EventType = "RISK_ANALYSIS_START"
	EventStrategyEvaluation     EventType = "STRATEGY_EVALUATION_START"
	EventRecommendationStart    EventType = "RECOMMENDATION_GENERATION_START"
	EventStateTransition        EventType = "STATE_TRANSITION"
	EventDecisionPoint          EventType = "DECISION_POINT_TRIGGERED"
	EventError                  EventType = "ERROR"
)

// FlowEvent is one entry of a run's append-only audit trail.
type FlowEvent struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	State     State          `json:"state"`
	Data      map[string]any `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Transition is a single state change of a run.
type Transition struct {
	RunID string `json:"run_id"`
	From  State  `json:"from_state"`
	To    State  `json:"to_state"`
}

// DecisionAction is the static response recorded when a signal fires.
type DecisionAction struct {
	Action       string   `json:"action"`
	Message      string   `json:"message"`
	NextSteps    []string `json:"next_steps,omitempty"`
	RequiredData []string `json:"required_data,omitempty"`
}

// SignalEvent reports a dispatched decision signal.
type SignalEvent struct {
	RunID  string         `json:"run_id"`
	Signal Signal         `json:"signal"`
	State  State          `json:"state"`
	Action DecisionAction `json:"action"`
}

// GuardrailEvent reports the outcome of one policy check against generated text.
type GuardrailEvent struct {
	Task     TaskKind `json:"task"`
	Check    string   `json:"check"`
	Accepted bool     `json:"accepted"`
	Attempt  int      `json:"attempt"`
}

// LifecycleHooks defines callbacks for observing runs. Nil hooks are skipped.
type LifecycleHooks struct {
	OnEvent       func(context.Context, *FlowEvent)
	OnTransition  func(context.Context, Transition)
	OnSignal      func(context.Context, SignalEvent)
	OnRunComplete func(context.Context, *RunResult)
	OnGuardrail   func(context.Context, GuardrailEvent)
}

// Merge returns hooks that call h first and then other for every callback.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEvent:       chain(h.OnEvent, other.OnEvent),
		OnTransition:  chain(h.OnTransition, other.OnTransition),
		OnSignal:      chain(h.OnSignal, other.OnSignal),
		OnRunComplete: chain(h.OnRunComplete, other.OnRunComplete),
		OnGuardrail:   chain(h.OnGuardrail, other.OnGuardrail),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
