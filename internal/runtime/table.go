package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/parcel/pkg/domain"
)

// Handler performs the work of one stage and returns the next state.
type Handler func(*FlowContext) (domain.State, error)

// Stage binds a non-terminal state to its handler and the states it may move to.
// Every stage may additionally move to StateFailed when its handler errors.
type Stage struct {
	State   domain.State
	Handler Handler
	Next    []domain.State
}

// Allows reports whether the stage declares a transition to s.
func (s Stage) Allows(next domain.State) bool {
	return slices.Contains(s.Next, next)
}

// Table is the stage graph of a run, keyed by state.
type Table map[domain.State]Stage

// Edge is one declared transition of a Table.
type Edge struct {
	From    domain.State
	To      domain.State
	OnError bool
}

// DefaultTable returns the analysis pipeline:
// INITIALIZED → DATA_COLLECTION → FINANCIAL_ANALYSIS → RISK_ANALYSIS →
// STRATEGY_EVALUATION → FINAL_RECOMMENDATION → COMPLETED, with
// INITIALIZED able to pause at REQUIRES_HUMAN_INPUT.
func DefaultTable() Table {
	return Table{
		domain.StateInitialized: {
			State:   domain.StateInitialized,
			Handler: handleInitialization,
			Next:    []domain.State{domain.StateDataCollection, domain.StateRequiresHumanInput},
		},
		domain.StateDataCollection: {
			State:   domain.StateDataCollection,
			Handler: handleDataCollection,
			Next:    []domain.State{domain.StateFinancialAnalysis},
		},
		domain.StateFinancialAnalysis: {
			State:   domain.StateFinancialAnalysis,
			Handler: handleFinancialAnalysis,
			Next:    []domain.State{domain.StateRiskAnalysis},
		},
		domain.StateRiskAnalysis: {
			State:   domain.StateRiskAnalysis,
			Handler: handleRiskAnalysis,
			Next:    []domain.State{domain.StateStrategyEvaluation},
		},
		domain.StateStrategyEvaluation: {
			State:   domain.StateStrategyEvaluation,
			Handler: handleStrategyEvaluation,
			Next:    []domain.State{domain.StateFinalRecommendation},
		},
		domain.StateFinalRecommendation: {
			State:   domain.StateFinalRecommendation,
			Handler: handleFinalRecommendation,
			Next:    []domain.State{domain.StateCompleted},
		},
	}
}

// Validate checks that every non-terminal state has a stage, that terminal
// states have none, and that every declared target is a known state.
func (t Table) Validate() error {
	for _, s := range domain.States {
		stage, ok := t[s]
		switch {
		case s.IsTerminal() && ok:
			return fmt.Errorf("terminal state %s must not have a stage", s)
		case !s.IsTerminal() && !ok:
			return fmt.Errorf("state %s has no stage", s)
		case !ok:
			continue
		}
		if stage.Handler == nil {
			return fmt.Errorf("state %s has no handler", s)
		}
		if len(stage.Next) == 0 {
			return fmt.Errorf("state %s declares no next state", s)
		}
		for _, next := range stage.Next {
			if !next.Valid() {
				return fmt.Errorf("state %s declares invalid next state %d", s, uint8(next))
			}
		}
	}
	return nil
}

// Edges enumerates every declared transition in state order, followed by the
// implicit failure edge of each stage.
func (t Table) Edges() []Edge {
	var edges []Edge
	for _, s := range domain.States {
		stage, ok := t[s]
		if !ok {
			continue
		}
		for _, next := range stage.Next {
			edges = append(edges, Edge{From: s, To: next})
		}
		edges = append(edges, Edge{From: s, To: domain.StateFailed, OnError: true})
	}
	return edges
}

// Reachable returns the states reachable from start, in discovery order.
func (t Table) Reachable(start domain.State) []domain.State {
	seen := map[domain.State]bool{start: true}
	queue := []domain.State{start}
	var order []domain.State
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		order = append(order, s)
		stage, ok := t[s]
		if !ok {
			continue
		}
		for _, next := range append(slices.Clone(stage.Next), domain.StateFailed) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return order
}
