package domain

// OutcomeKind names the active case of an Outcome.
type OutcomeKind string

const (
	OutcomeRefusal    OutcomeKind = "refusal"
	OutcomeQuestion   OutcomeKind = "question"
	OutcomeConclusion OutcomeKind = "conclusion"
)

// Outcome is the decision service's answer to one request.
// Exactly one of Refusal, NextQuestion or Conclusion.
type Outcome interface {
	Kind() OutcomeKind
	isOutcome()
}

// Refusal means the service lacks the data for a safe determination.
type Refusal struct {
	// Reason is diagnostic detail from the service. It is never shown to the user.
	Reason string
}

// NextQuestion carries the next prompt.
type NextQuestion struct {
	Question Question
}

// Conclusion is the terminal summary of a successful interview.
type Conclusion struct {
	Label     string
	Severity  string
	ResultURL string
}

func (Refusal) Kind() OutcomeKind      { return OutcomeRefusal }
func (NextQuestion) Kind() OutcomeKind { return OutcomeQuestion }
func (Conclusion) Kind() OutcomeKind   { return OutcomeConclusion }

func (Refusal) isOutcome()      {}
func (NextQuestion) isOutcome() {}
func (Conclusion) isOutcome()   {}

// IsTerminal reports whether o ends the session.
func IsTerminal(o Outcome) bool {
	switch o.(type) {
	case Refusal, Conclusion:
		return true
	default:
		return false
	}
}
