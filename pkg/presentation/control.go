// Package presentation holds the input controls shared by every Presenter.
//
// A Control turns raw user text into a typed answer following the question's
// input shape. Controls never talk to the Interview Controller; presenters hand
// accepted answers to the ports.SubmitFunc they were given.
package presentation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
)

// ErrEmptyInput is returned when nothing was entered. Presenters treat it as a no-op.
var ErrEmptyInput = errors.New("empty input")

// Rejection is returned for input the control refuses. Message is meant for the user.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Answer is an accepted input.
type Answer struct {
	Value any    // bool, float64 or string
	Text  string // human-readable rendering for the user turn
}

// Control is the active input widget for one question.
type Control interface {
	Question() domain.Question
	// Hint describes how to answer.
	Hint() string
	// Choices lists selectable entries, in display order. Empty for free input.
	Choices() []string
	// Accept validates raw input.
	Accept(input string) (Answer, error)
}

// NewControl builds the control for q.
func NewControl(q domain.Question, m locale.Messages) (Control, error) {
	switch q.Type {
	case domain.InputBoolean:
		return &BooleanControl{q: q, m: m}, nil
	case domain.InputNumber:
		return &NumberControl{q: q, m: m}, nil
	case domain.InputChoice:
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: %s: choice without options", domain.ErrInvalidQuestion, q.Variable)
		}
		return &ChoiceControl{q: q, m: m}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownInputType, q.Type)
	}
}

// BooleanControl offers two mutually exclusive actions.
type BooleanControl struct {
	q domain.Question
	m locale.Messages
}

func (c *BooleanControl) Question() domain.Question { return c.q }
func (c *BooleanControl) Hint() string              { return c.m.BooleanPrompt }
func (c *BooleanControl) Choices() []string         { return []string{c.m.Yes, c.m.No} }

// Accept takes the localized labels, their 1-based index, or common yes/no spellings.
func (c *BooleanControl) Accept(input string) (Answer, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return Answer{}, &Rejection{Message: c.m.BooleanInvalid}
	}
	switch {
	case strings.EqualFold(in, c.m.Yes), in == "1", matchesAny(in, "y", "yes", "co", "có", "true"):
		return Answer{Value: true, Text: c.m.Yes}, nil
	case strings.EqualFold(in, c.m.No), in == "2", matchesAny(in, "n", "no", "khong", "không", "false"):
		return Answer{Value: false, Text: c.m.No}, nil
	}
	return Answer{}, &Rejection{Message: c.m.BooleanInvalid}
}

// NumberControl is a numeric field with optional bounds.
type NumberControl struct {
	q domain.Question
	m locale.Messages
}

func (c *NumberControl) Question() domain.Question { return c.q }
func (c *NumberControl) Choices() []string         { return nil }

func (c *NumberControl) Hint() string {
	if r := FormatBounds(c.q); r != "" {
		return fmt.Sprintf("%s %s", c.m.NumberPrompt, r)
	}
	return c.m.NumberPrompt
}

// Accept parses a number. Empty input is a no-op; a decimal comma is accepted.
// The rendered text is the number as entered.
func (c *NumberControl) Accept(input string) (Answer, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return Answer{}, ErrEmptyInput
	}
	v, err := strconv.ParseFloat(strings.Replace(in, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Answer{}, &Rejection{Message: c.m.NumberInvalid}
	}
	if !c.q.InBounds(v) {
		return Answer{}, &Rejection{Message: fmt.Sprintf(c.m.NumberRange, FormatBounds(c.q))}
	}
	return Answer{Value: v, Text: in}, nil
}

// ChoiceControl is a single-select list with the first option selected.
type ChoiceControl struct {
	q domain.Question
	m locale.Messages
}

func (c *ChoiceControl) Question() domain.Question { return c.q }
func (c *ChoiceControl) Hint() string              { return c.m.ChoicePrompt }
func (c *ChoiceControl) Choices() []string         { return c.q.Options }

// Accept keeps the default selection on empty input, and takes the option text
// or a 1-based index otherwise.
func (c *ChoiceControl) Accept(input string) (Answer, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		opt, ok := c.q.DefaultOption()
		if !ok {
			return Answer{}, ErrEmptyInput
		}
		return Answer{Value: opt, Text: opt}, nil
	}
	// Option text wins over an index, so numeric labels stay answerable.
	for _, opt := range c.q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), in) {
			return Answer{Value: opt, Text: opt}, nil
		}
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(c.q.Options) {
		opt := c.q.Options[n-1]
		return Answer{Value: opt, Text: opt}, nil
	}
	return Answer{}, &Rejection{Message: c.m.ChoiceInvalid}
}

// FormatBounds renders the numeric range of q, or "" when it is unbounded.
func FormatBounds(q domain.Question) string {
	switch {
	case q.Min != nil && q.Max != nil:
		return fmt.Sprintf("[%s, %s]", formatNumber(*q.Min), formatNumber(*q.Max))
	case q.Min != nil:
		return "≥ " + formatNumber(*q.Min)
	case q.Max != nil:
		return "≤ " + formatNumber(*q.Max)
	default:
		return ""
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func matchesAny(in string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(in, c) {
			return true
		}
	}
	return false
}
