package loam

// Kinds of bank documents.
const (
	KindBank       = "bank"
	KindQuestion   = "question"
	KindConclusion = "conclusion"
)

// DocumentMetadata is the frontmatter of a bank document.
// The markdown body is the label of the question or conclusion.
// Numeric keys are untyped because strict mode yields json.Number.
type DocumentMetadata struct {
	Kind  string `json:"kind" mapstructure:"kind"`
	Order any    `json:"order" mapstructure:"order"`

	// Bank header
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	// Question
	Variable string   `json:"variable" mapstructure:"variable"`
	Type     string   `json:"type" mapstructure:"type"`
	Options  []string `json:"options" mapstructure:"options"`
	Min      any      `json:"min" mapstructure:"min"`
	Max      any      `json:"max" mapstructure:"max"`
	Step     any      `json:"step" mapstructure:"step"`
	AskIf    string   `json:"ask_if" mapstructure:"ask_if"`

	// Conclusion
	ID       string   `json:"id" mapstructure:"id"`
	Severity string   `json:"severity" mapstructure:"severity"`
	When     string   `json:"when" mapstructure:"when"`
	Requires []string `json:"requires" mapstructure:"requires"`
	Fallback bool     `json:"fallback" mapstructure:"fallback"`

	// Label overrides the document body.
	Label string `json:"label" mapstructure:"label"`
}
