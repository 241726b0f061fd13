// Package graph renders the stage table of a run as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parcel/internal/runtime"
	"github.com/aretw0/parcel/pkg/domain"
)

// Overlay contains run data to highlight on the graph.
type Overlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
	HasCurrent    bool
}

// OverlayFromRun builds an overlay from the transition events of a run.
// The final state of the run becomes the current state.
func OverlayFromRun(res *domain.RunResult) *Overlay {
	if res == nil {
		return nil
	}
	overlay := &Overlay{CurrentState: res.FinalState, HasCurrent: true}
	for _, e := range res.Events {
		if e.Type != domain.EventStateTransition {
			continue
		}
		if label, ok := e.Data["from_state"].(string); ok {
			if s, err := domain.ParseState(label); err == nil {
				overlay.VisitedStates = append(overlay.VisitedStates, s)
			}
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the stage table.
// Shapes follow the role of each state:
// - Initial: ((Circle))
// - Completed: ([Stadium])
// - Requires human input: [/Parallelogram/]
// - Failed: {{Hexagon}}
// - Stages: [Rectangle]
// Failure edges are drawn dotted. Overlay styles are applied if provided.
func GenerateMermaid(table runtime.Table, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range table.Reachable(domain.StateInitialized) {
		opener, closer := "[", "]"
		switch s {
		case domain.StateInitialized:
			opener, closer = "((", "))"
		case domain.StateCompleted:
			opener, closer = "([", "])"
		case domain.StateRequiresHumanInput:
			opener, closer = "[/", "/]"
		case domain.StateFailed:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", s, opener, s, closer)
	}

	for _, e := range table.Edges() {
		arrow := "-->"
		if e.OnError {
			arrow = "-. error .->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.From, arrow, e.To)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.State]bool)
		for _, s := range overlay.VisitedStates {
			if !seen[s] && s.Valid() {
				seen[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", s)
			}
		}
		if overlay.HasCurrent && overlay.CurrentState.Valid() {
			fmt.Fprintf(&sb, "    class %s current;\n", overlay.CurrentState)
		}
	}

	return sb.String()
}
