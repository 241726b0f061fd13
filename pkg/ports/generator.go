package ports

import (
	"context"

	"github.com/aretw0/parcel/pkg/domain"
)

// Task is the input of one generation request.
type Task struct {
	Kind     domain.TaskKind
	Strategy domain.Strategy
	Property domain.PropertyInput
	Metrics  *domain.FinancialMetrics
	Results  domain.Results

	// Feedback carries the remediation message of the previous rejected
	// attempt. It is empty on the first attempt.
	Feedback string
	Attempt  int
}

// Generator drafts the text of an advisory task. Implementations are not
// trusted: every draft is checked by the policy pipeline before it is accepted.
type Generator interface {
	Generate(ctx context.Context, task Task) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, task Task) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, task Task) (string, error) {
	return f(ctx, task)
}
