package dsl

import (
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
)

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question decision.BankQuestion
}

// Boolean makes it a yes/no question.
func (q *QuestionBuilder) Boolean(label string) *QuestionBuilder {
	q.question.Type = domain.InputBoolean
	q.question.Label = label
	return q
}

// Number makes it a numeric question.
func (q *QuestionBuilder) Number(label string) *QuestionBuilder {
	q.question.Type = domain.InputNumber
	q.question.Label = label
	return q
}

// Choice makes it a single-choice question. The first option is the default.
func (q *QuestionBuilder) Choice(label string, options ...string) *QuestionBuilder {
	q.question.Type = domain.InputChoice
	q.question.Label = label
	q.question.Options = options
	return q
}

// Range bounds a numeric answer.
func (q *QuestionBuilder) Range(minValue, maxValue float64) *QuestionBuilder {
	q.question.Min = &minValue
	q.question.Max = &maxValue
	return q
}

// Min sets only the lower bound.
func (q *QuestionBuilder) Min(v float64) *QuestionBuilder {
	q.question.Min = &v
	return q
}

// Max sets only the upper bound.
func (q *QuestionBuilder) Max(v float64) *QuestionBuilder {
	q.question.Max = &v
	return q
}

// Step sets the increment hint of a numeric question.
func (q *QuestionBuilder) Step(v float64) *QuestionBuilder {
	q.question.Step = &v
	return q
}

// ID sets the question identifier sent to clients.
func (q *QuestionBuilder) ID(id string) *QuestionBuilder {
	q.question.ID = id
	return q
}

// If asks the question only while condition holds.
func (q *QuestionBuilder) If(condition string) *QuestionBuilder {
	q.question.AskIf = condition
	return q
}

// Build returns the underlying decision.BankQuestion.
// This is primarily used by the Builder, but exposed for advanced usage.
func (q *QuestionBuilder) Build() decision.BankQuestion {
	return q.question
}
