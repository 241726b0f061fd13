package domain

import (
	"fmt"
)

// State is a stage of an analysis run.
// The set is closed: every value outside the constants below is invalid.
type State uint8

const (
	StateInitialized State = iota
	StateDataCollection
	StateFinancialAnalysis
	StateRiskAnalysis
	StateStrategyEvaluation
	StateFinalRecommendation
	StateCompleted          // Terminal success
	StateFailed             // Terminal error
	StateRequiresHumanInput // Terminal pause, recoverable by resubmission
)

// States lists every state in pipeline order.
var States = []State{
	StateInitialized,
	StateDataCollection,
	StateFinancialAnalysis,
	StateRiskAnalysis,
	StateStrategyEvaluation,
	StateFinalRecommendation,
	StateCompleted,
	StateFailed,
	StateRequiresHumanInput,
}

// String returns the wire label of the state.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateDataCollection:
		return "data_collection"
	case StateFinancialAnalysis:
		return "financial_analysis"
	case StateRiskAnalysis:
		return "risk_analysis"
	case StateStrategyEvaluation:
		return "strategy_evaluation"
	case StateFinalRecommendation:
		return "final_recommendation"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateRequiresHumanInput:
		return "requires_human_input"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s <= StateRequiresHumanInput
}

// IsTerminal reports whether the run loop stops at s.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateRequiresHumanInput:
		return true
	}
	return false
}

// ParseState converts a wire label back into a State.
func ParseState(label string) (State, error) {
	for _, s := range States {
		if s.String() == label {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", label)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
