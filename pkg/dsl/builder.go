package dsl

import (
	"fmt"

	"github.com/aretw0/intake/pkg/decision"
)

// Builder manages the bank construction.
type Builder struct {
	name        string
	description string
	questions   []*QuestionBuilder
	rules       []*RuleBuilder
	byVariable  map[string]*QuestionBuilder
	byID        map[string]*RuleBuilder
}

// New creates a new bank builder.
func New(name string) *Builder {
	return &Builder{
		name:       name,
		byVariable: make(map[string]*QuestionBuilder),
		byID:       make(map[string]*RuleBuilder),
	}
}

// Describe sets the bank description.
func (b *Builder) Describe(description string) *Builder {
	b.description = description
	return b
}

// Ask appends a question saved to variable.
// If the variable already exists, it returns the existing builder.
func (b *Builder) Ask(variable string) *QuestionBuilder {
	if qb, ok := b.byVariable[variable]; ok {
		return qb
	}
	qb := &QuestionBuilder{}
	qb.question.Variable = variable
	b.questions = append(b.questions, qb)
	b.byVariable[variable] = qb
	return qb
}

// Conclude appends a conclusion rule, after every rule added before it.
// If the rule already exists, it returns the existing builder.
func (b *Builder) Conclude(id string) *RuleBuilder {
	if rb, ok := b.byID[id]; ok {
		return rb
	}
	rb := &RuleBuilder{rule: decision.Rule{ID: id}}
	b.rules = append(b.rules, rb)
	b.byID[id] = rb
	return rb
}

// Build compiles the bank.
func (b *Builder) Build() (*decision.Bank, error) {
	bank := &decision.Bank{
		Name:        b.name,
		Description: b.description,
		Questions:   make([]decision.BankQuestion, 0, len(b.questions)),
		Conclusions: make([]decision.Rule, 0, len(b.rules)),
	}
	for _, qb := range b.questions {
		bank.Questions = append(bank.Questions, qb.Build())
	}
	for _, rb := range b.rules {
		bank.Conclusions = append(bank.Conclusions, rb.Build())
	}

	if err := bank.Compile(); err != nil {
		return nil, fmt.Errorf("failed to build bank %q: %w", b.name, err)
	}
	return bank, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *decision.Bank {
	bank, err := b.Build()
	if err != nil {
		panic(err)
	}
	return bank
}
