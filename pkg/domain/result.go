package domain

import "time"

// Result is the record a decision service keeps for a concluded interview.
// ResultURL in a Conclusion points at it.
type Result struct {
	ID           string         `json:"id"`
	ConclusionID string         `json:"conclusion_id"`
	Label        string         `json:"label"`
	Severity     string         `json:"severity,omitempty"`
	Answers      map[string]any `json:"answers"`
	CreatedAt    time.Time      `json:"created_at"`
}
