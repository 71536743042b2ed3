package http

import (
	"github.com/aretw0/intake/pkg/domain"
)

// DefaultEndpoint is the interview-progression path of the decision service.
const DefaultEndpoint = "/sinusitis/api/next_question"

// NextQuestionRequest is the body of every round trip.
type NextQuestionRequest struct {
	Answers *domain.AnswerSet `json:"answers"`
}

// Question is the wire form of a question descriptor. Choice questions use the "radio" tag.
type Question struct {
	ID       string   `json:"id,omitempty" mapstructure:"id"`
	Label    string   `json:"label" mapstructure:"label"`
	Variable string   `json:"variable" mapstructure:"variable"`
	Type     string   `json:"type" mapstructure:"type"`
	Options  []string `json:"options,omitempty" mapstructure:"options"`
	Min      *float64 `json:"min,omitempty" mapstructure:"min"`
	Max      *float64 `json:"max,omitempty" mapstructure:"max"`
	Step     *float64 `json:"step,omitempty" mapstructure:"step"`
}

// Summary is the wire form of a conclusion.
type Summary struct {
	Label    string `json:"label" mapstructure:"label"`
	Severity string `json:"severity,omitempty" mapstructure:"severity"`
}

// NextQuestionResponse is what the decision service answers.
type NextQuestionResponse struct {
	OK        bool      `json:"ok"`
	Done      bool      `json:"done"`
	Question  *Question `json:"question,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
	ResultURL string    `json:"result_url,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ToDomain converts a wire question, mapping the type tag.
func (q Question) ToDomain() (domain.Question, error) {
	t, err := domain.ParseInputType(q.Type)
	if err != nil {
		return domain.Question{}, err
	}
	return domain.Question{
		ID:       q.ID,
		Label:    q.Label,
		Variable: q.Variable,
		Type:     t,
		Options:  q.Options,
		Min:      q.Min,
		Max:      q.Max,
		Step:     q.Step,
	}, nil
}

// FromDomain converts a domain question to its wire form.
func FromDomain(q domain.Question) Question {
	return Question{
		ID:       q.ID,
		Label:    q.Label,
		Variable: q.Variable,
		Type:     q.Type.WireTag(),
		Options:  q.Options,
		Min:      q.Min,
		Max:      q.Max,
		Step:     q.Step,
	}
}

// ResponseFor encodes an outcome.
func ResponseFor(o domain.Outcome) NextQuestionResponse {
	switch v := o.(type) {
	case domain.NextQuestion:
		q := FromDomain(v.Question)
		return NextQuestionResponse{OK: true, Question: &q}
	case domain.Conclusion:
		return NextQuestionResponse{
			OK:        true,
			Done:      true,
			Summary:   &Summary{Label: v.Label, Severity: v.Severity},
			ResultURL: v.ResultURL,
		}
	case domain.Refusal:
		return NextQuestionResponse{OK: false, Error: v.Reason}
	}
	return NextQuestionResponse{OK: false}
}
