package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/parcel/internal/logging"
	"github.com/aretw0/parcel/pkg/domain"
	"github.com/aretw0/parcel/pkg/guardrail"
	"github.com/aretw0/parcel/pkg/ports"
)

// ErrRetriesExhausted is wrapped by RetryError when every attempt of a task was rejected.
var ErrRetriesExhausted = errors.New("guardrail retries exhausted")

// RetryError reports the last violation of a task whose retry budget is spent.
type RetryError struct {
	Task      domain.TaskKind
	Attempts  int
	Violation guardrail.Outcome
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s: %d attempts rejected, last by %s: %s",
		e.Task, e.Attempts, e.Violation.Check, e.Violation.Verdict.Payload)
}

func (e *RetryError) Unwrap() error {
	return ErrRetriesExhausted
}

// Writer drafts task text with a Generator and only returns drafts the policy accepts.
type Writer struct {
	gen    ports.Generator
	policy *guardrail.Pipeline
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterHooks registers the OnGuardrail callback.
func WithWriterHooks(h domain.LifecycleHooks) WriterOption {
	return func(w *Writer) { w.hooks = h }
}

// WithWriterLogger sets the logger.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a Writer.
func NewWriter(gen ports.Generator, policy *guardrail.Pipeline, opts ...WriterOption) *Writer {
	w := &Writer{
		gen:    gen,
		policy: policy,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write drafts the task until a draft passes every check of the task's subset.
// A draft is attempted once plus MaxRetries corrections; each correction
// receives the previous violation message as Task.Feedback.
func (w *Writer) Write(ctx context.Context, task ports.Task) (domain.Section, error) {
	if w.gen == nil {
		return domain.Section{}, domain.ErrNoGenerator
	}
	attempts := 1 + w.policy.MaxRetries()
	checks := w.policy.ChecksFor(task.Kind)

	var last guardrail.Outcome
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Section{}, err
		}

		task.Attempt = attempt
		text, err := w.gen.Generate(ctx, task)
		if err != nil {
			return domain.Section{}, fmt.Errorf("generate %s: %w", task.Kind, err)
		}

		outcomes, err := w.policy.Validate(text, checks)
		if err != nil {
			return domain.Section{}, err
		}
		w.report(ctx, task, outcomes)

		violation, failed := guardrail.FirstViolation(outcomes)
		if !failed {
			w.logger.Debug("Draft accepted", "task", task.Kind, "attempt", attempt)
			return domain.Section{Task: task.Kind, Text: text, Attempts: attempt}, nil
		}

		w.logger.Warn("Draft rejected", "task", task.Kind, "attempt", attempt, "check", violation.Check)
		last = violation
		task.Feedback = violation.Verdict.Payload
	}
	return domain.Section{}, &RetryError{Task: task.Kind, Attempts: attempts, Violation: last}
}

func (w *Writer) report(ctx context.Context, task ports.Task, outcomes []guardrail.Outcome) {
	if w.hooks.OnGuardrail == nil {
		return
	}
	for _, o := range outcomes {
		w.hooks.OnGuardrail(ctx, domain.GuardrailEvent{
			Task:     task.Kind,
			Check:    string(o.Check),
			Accepted: o.Verdict.Accepted,
			Attempt:  task.Attempt,
		})
	}
}
