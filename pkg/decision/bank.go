// Package decision implements a reference decision service over a question bank.
//
// A Bank holds an ordered list of questions and a priority-ordered list of
// conclusions. For a given AnswerSet the Engine concludes with the first rule
// whose condition holds and whose required variables are answered, otherwise
// asks the next unanswered question, otherwise falls back or refuses.
package decision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// ErrInvalidBank is returned when a bank fails validation.
var ErrInvalidBank = errors.New("invalid question bank")

// BankQuestion is a question of the bank, optionally guarded by a condition.
type BankQuestion struct {
	domain.Question `yaml:",inline" mapstructure:",squash"`

	// AskIf skips the question while it does not hold.
	AskIf string `json:"ask_if,omitempty" yaml:"ask_if,omitempty" mapstructure:"ask_if"`

	askIf *Condition
}

// Rule is a conclusion the engine may reach.
type Rule struct {
	ID       string `json:"id" yaml:"id" mapstructure:"id"`
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty" mapstructure:"severity"`

	// When must hold for the rule to fire.
	When string `json:"when,omitempty" yaml:"when,omitempty" mapstructure:"when"`

	// Requires lists variables that must be answered before the rule may fire.
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty" mapstructure:"requires"`

	// Fallback marks the conclusion used when the bank is exhausted.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty" mapstructure:"fallback"`

	when *Condition
}

// Bank is a complete decision configuration.
type Bank struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []BankQuestion `json:"questions" yaml:"questions"`
	Conclusions []Rule         `json:"conclusions" yaml:"conclusions"`
}

// Compile normalizes input types, parses every condition and validates the bank.
// It must be called before the bank is handed to an Engine; the loaders do so.
func (b *Bank) Compile() error {
	var errs []error
	seen := make(map[string]bool)

	for i := range b.Questions {
		q := &b.Questions[i]
		if t, err := domain.ParseInputType(string(q.Type)); err == nil {
			q.Type = t
		}
		if q.ID == "" {
			q.ID = q.Variable
		}
		if err := q.Question.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", i+1, err))
		}
		if q.Label == "" {
			errs = append(errs, fmt.Errorf("question %q: empty label", q.Variable))
		}
		if seen[q.Variable] {
			errs = append(errs, fmt.Errorf("question %q: duplicate variable", q.Variable))
		}
		seen[q.Variable] = true

		cond, err := ParseCondition(q.AskIf)
		if err != nil {
			errs = append(errs, fmt.Errorf("question %q: ask_if: %w", q.Variable, err))
		}
		q.askIf = cond
	}

	ids := make(map[string]bool)
	fallbacks := 0
	for i := range b.Conclusions {
		r := &b.Conclusions[i]
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("conclusion %d: empty id", i+1))
		} else if ids[r.ID] {
			errs = append(errs, fmt.Errorf("conclusion %q: duplicate id", r.ID))
		}
		ids[r.ID] = true
		if r.Label == "" {
			errs = append(errs, fmt.Errorf("conclusion %q: empty label", r.ID))
		}
		if r.Fallback {
			fallbacks++
		}

		cond, err := ParseCondition(r.When)
		if err != nil {
			errs = append(errs, fmt.Errorf("conclusion %q: %w", r.ID, err))
		}
		r.when = cond
		if cond != nil {
			for _, v := range cond.Variables() {
				if !seen[v] {
					errs = append(errs, fmt.Errorf("conclusion %q: unknown variable %q", r.ID, v))
				}
			}
		}
		for _, v := range r.Requires {
			if !seen[v] {
				errs = append(errs, fmt.Errorf("conclusion %q: requires unknown variable %q", r.ID, v))
			}
		}
	}
	if fallbacks > 1 {
		errs = append(errs, errors.New("more than one fallback conclusion"))
	}
	if len(b.Questions) == 0 {
		errs = append(errs, errors.New("no questions"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBank, errors.Join(errs...))
	}
	return nil
}

// Question returns the bank question asking for variable.
func (b *Bank) Question(variable string) (BankQuestion, bool) {
	for _, q := range b.Questions {
		if q.Variable == variable {
			return q, true
		}
	}
	return BankQuestion{}, false
}

// CheckAnswers verifies every answer whose variable belongs to the bank.
// Unknown variables are reported too.
func (b *Bank) CheckAnswers(answers map[string]any) error {
	var errs []error
	for k, v := range answers {
		q, ok := b.Question(k)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown variable %q", domain.ErrInvalidAnswer, k))
			continue
		}
		if err := q.CheckAnswer(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var severities = map[string]string{
	"mild":     "low",
	"moderate": "medium",
	"severe":   "high",
	"critical": "critical",
	"info":     "info",
	"low":      "low",
	"medium":   "medium",
	"high":     "high",
}

// NormalizeSeverity maps clinical grades (Mild, Moderate, Severe, Critical, Info)
// to the wire scale. Unknown grades map to "low"; empty stays empty.
func NormalizeSeverity(raw string) string {
	if raw == "" {
		return ""
	}
	if s, ok := severities[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return "low"
}
