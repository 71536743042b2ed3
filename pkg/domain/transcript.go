package domain

import (
	"sync"
	"time"
)

// Role tags the author of a turn.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Turn is one entry of the conversation.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript is an append-only list of turns. Safe for concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
	now   func() time.Time
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append records a turn and returns it.
func (t *Transcript) Append(role Role, text string) Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	turn := Turn{Role: role, Text: text, At: now()}
	t.turns = append(t.turns, turn)
	return turn
}

// Turns returns a copy of the recorded turns.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
