package dsl

import "github.com/aretw0/intake/pkg/decision"

// RuleBuilder provides a fluent API for configuring a conclusion.
type RuleBuilder struct {
	rule decision.Rule
}

// Label sets the text shown when the rule fires.
func (r *RuleBuilder) Label(label string) *RuleBuilder {
	r.rule.Label = label
	return r
}

// Severity sets the severity reported with the conclusion.
func (r *RuleBuilder) Severity(severity string) *RuleBuilder {
	r.rule.Severity = severity
	return r
}

// When sets the condition under which the rule fires.
func (r *RuleBuilder) When(condition string) *RuleBuilder {
	r.rule.When = condition
	return r
}

// Requires holds the rule back until every variable is answered.
func (r *RuleBuilder) Requires(variables ...string) *RuleBuilder {
	r.rule.Requires = append(r.rule.Requires, variables...)
	return r
}

// Fallback marks the rule as the conclusion used once the bank is exhausted.
func (r *RuleBuilder) Fallback() *RuleBuilder {
	r.rule.Fallback = true
	return r
}

// Build returns the underlying decision.Rule.
func (r *RuleBuilder) Build() decision.Rule {
	return r.rule
}
