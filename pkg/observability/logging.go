package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/parcel/pkg/domain"
)

// LoggingHooks logs signals, completed runs and rejected drafts.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSignal: func(ctx context.Context, e domain.SignalEvent) {
			logger.InfoContext(ctx, "decision_point",
				"run_id", e.RunID,
				"signal", e.Signal,
				"state", e.State,
				"action", e.Action.Action,
			)
		},
		OnRunComplete: func(ctx context.Context, r *domain.RunResult) {
			logger.InfoContext(ctx, "run_complete",
				"run_id", r.RunID,
				"final_state", r.FinalState,
				"signals", len(r.Signals),
				"human_input_required", r.HumanInputRequired,
			)
		},
		OnGuardrail: func(ctx context.Context, e domain.GuardrailEvent) {
			if e.Accepted {
				return
			}
			logger.WarnContext(ctx, "guardrail_violation",
				"task", e.Task,
				"check", e.Check,
				"attempt", e.Attempt,
			)
		},
	}
}
