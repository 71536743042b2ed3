package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// DecisionService decides what happens after each answer.
// It receives the full AnswerSet on every call and returns exactly one Outcome.
// Failures of the round trip are reported as *domain.TransportError.
type DecisionService interface {
	Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error)
}

// DecisionFunc adapts a function to DecisionService.
type DecisionFunc func(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error)

// Next calls f.
func (f DecisionFunc) Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
	return f(ctx, answers)
}
