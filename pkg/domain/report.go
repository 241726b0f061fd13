package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FlowVersion tags every run with the version of the stage graph that produced it.
const FlowVersion = "1.0.0"

// RunMetadata describes a run independently of its outcome.
type RunMetadata struct {
	StartTime   time.Time `json:"start_time"`
	FlowVersion string    `json:"flow_version"`
}

// RunResult is what a caller receives when a run reaches a terminal state.
type RunResult struct {
	RunID              string      `json:"run_id"`
	Property           string      `json:"property"`
	Strategy           Strategy    `json:"strategy"`
	FinalState         State       `json:"final_state"`
	ExecutionTime      float64     `json:"execution_time"`
	Events             []FlowEvent `json:"events"`
	// Signals holds each fired signal once, in firing order. A signal that
	// holds again at a later transition is not dispatched a second time.
	Signals            []Signal    `json:"decision_points"`
	Results            Results     `json:"analysis_results"`
	HumanInputRequired bool        `json:"human_input_required"`
	Metadata           RunMetadata `json:"metadata"`
}

// HasSignal reports whether sig fired during the run.
func (r *RunResult) HasSignal(sig Signal) bool {
	for _, s := range r.Signals {
		if s == sig {
			return true
		}
	}
	return false
}

// Summary renders a human-readable timeline of the run.
func (r *RunResult) Summary() string {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	b.WriteString("FLOW EXECUTION SUMMARY\n")
	b.WriteString(rule + "\n\n")

	property := r.Property
	if property == "" {
		property = "N/A"
	}
	fmt.Fprintf(&b, "Property: %s\n", property)
	fmt.Fprintf(&b, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(&b, "Final State: %s\n", r.FinalState)
	fmt.Fprintf(&b, "Execution Time: %.3fs\n\n", r.ExecutionTime)

	b.WriteString("Events Timeline:\n")
	for i, e := range r.Events {
		fmt.Fprintf(&b, "%d. [%s] %s (%s)\n", i+1, e.Timestamp.Format(time.TimeOnly), e.Type, e.State)
	}

	if len(r.Signals) > 0 {
		b.WriteString("\nDecision Points Triggered:\n")
		for _, s := range r.Signals {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	return b.String()
}

// RunStatus is the overall outcome of an advisory request.
type RunStatus string

const (
	StatusCompleted         RunStatus = "completed"
	StatusPendingHumanInput RunStatus = "pending_human_input"
	StatusFailed            RunStatus = "failed"
)

// Section is one accepted piece of generated text.
type Section struct {
	Task     TaskKind `json:"task"`
	Text     string   `json:"text"`
	Attempts int      `json:"attempts"`
}

// Report is the persisted record of an advisory request.
type Report struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	Strategy       Strategy          `json:"strategy"`
	Property       PropertyInput     `json:"property"`
	Status         RunStatus         `json:"status"`
	Flow           *RunResult        `json:"flow_result,omitempty"`
	Summary        string            `json:"flow_summary,omitempty"`
	Preliminary    *FinancialMetrics `json:"preliminary_financials,omitempty"`
	Sections       []Section         `json:"sections,omitempty"`
	Recommendation string            `json:"recommendation,omitempty"`
	RequiredAction string            `json:"required_action,omitempty"`
	RequiredData   []string          `json:"required_data,omitempty"`
	Error          string            `json:"error,omitempty"`
	ParentID       string            `json:"parent_id,omitempty"`
}

// Clone returns a copy of the report that shares no mutable top-level state
// with r. The flow result and preliminary metrics are treated as immutable
// and are shared.
func (r *Report) Clone() *Report {
	c := *r
	c.Property = r.Property.Clone()
	c.Sections = slices.Clone(r.Sections)
	c.RequiredData = slices.Clone(r.RequiredData)
	return &c
}
