package domain

import (
	"fmt"
	"slices"
)

// InputType is the input shape a question asks for.
type InputType string

const (
	InputBoolean InputType = "boolean"
	InputNumber  InputType = "number"
	InputChoice  InputType = "choice"
)

// WireChoiceTag is the tag the decision service uses for InputChoice.
const WireChoiceTag = "radio"

// ParseInputType maps a wire tag to an InputType.
// Both "radio" and "choice" are accepted for single-choice questions.
func ParseInputType(tag string) (InputType, error) {
	switch tag {
	case "boolean":
		return InputBoolean, nil
	case "number":
		return InputNumber, nil
	case WireChoiceTag, "choice":
		return InputChoice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownInputType, tag)
	}
}

// WireTag returns the tag used on the decision-service wire.
func (t InputType) WireTag() string {
	if t == InputChoice {
		return WireChoiceTag
	}
	return string(t)
}

// DefaultStep is the numeric step used when a question does not define one.
const DefaultStep = 1.0

// Question describes the next prompt of the interview.
type Question struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Label    string    `json:"label" yaml:"label"`
	Variable string    `json:"variable" yaml:"variable"`
	Type     InputType `json:"type" yaml:"type"`

	// Choice constraints. The first option is the default selection.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Number constraints. Nil bounds are open.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Validate checks the descriptor invariants.
func (q Question) Validate() error {
	if q.Variable == "" {
		return fmt.Errorf("%w: empty variable", ErrInvalidQuestion)
	}
	switch q.Type {
	case InputBoolean:
	case InputNumber:
		if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
			return fmt.Errorf("%w: %s: min %v greater than max %v", ErrInvalidQuestion, q.Variable, *q.Min, *q.Max)
		}
		if q.Step != nil && *q.Step <= 0 {
			return fmt.Errorf("%w: %s: step must be positive", ErrInvalidQuestion, q.Variable)
		}
	case InputChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: %s: choice without options", ErrInvalidQuestion, q.Variable)
		}
	default:
		return fmt.Errorf("%w: %s: %q", ErrUnknownInputType, q.Variable, q.Type)
	}
	return nil
}

// StepOrDefault returns the numeric step, falling back to DefaultStep.
func (q Question) StepOrDefault() float64 {
	if q.Step == nil {
		return DefaultStep
	}
	return *q.Step
}

// InBounds reports whether v satisfies the numeric bounds.
func (q Question) InBounds(v float64) bool {
	if q.Min != nil && v < *q.Min {
		return false
	}
	if q.Max != nil && v > *q.Max {
		return false
	}
	return true
}

// DefaultOption returns the pre-selected option of a choice question.
func (q Question) DefaultOption() (string, bool) {
	if len(q.Options) == 0 {
		return "", false
	}
	return q.Options[0], true
}

// HasOption reports whether opt is one of the choice options.
func (q Question) HasOption(opt string) bool {
	return slices.Contains(q.Options, opt)
}

// CheckAnswer verifies that value has the type the question expects.
func (q Question) CheckAnswer(value any) error {
	switch q.Type {
	case InputBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s expects a boolean, got %T", ErrInvalidAnswer, q.Variable, value)
		}
	case InputNumber:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: %s expects a number, got %T", ErrInvalidAnswer, q.Variable, value)
		}
		if !q.InBounds(v) {
			return fmt.Errorf("%w: %s: %v out of bounds", ErrInvalidAnswer, q.Variable, v)
		}
	case InputChoice:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects an option, got %T", ErrInvalidAnswer, q.Variable, value)
		}
		if !q.HasOption(s) {
			return fmt.Errorf("%w: %s: %q is not an option", ErrInvalidAnswer, q.Variable, s)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInputType, q.Type)
	}
	return nil
}

// Float returns a pointer to v. Handy for building numeric constraints.
func Float(v float64) *float64 {
	return &v
}
