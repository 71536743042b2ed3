package domain

import (
	"bytes"
	"encoding/json"
	"maps"
)

// AnswerSet maps question variables to typed answer values.
// Keys keep the order in which they were first written; a rewrite of an existing
// key replaces its value in place. Keys are never removed.
// AnswerSet is not safe for concurrent use; the Interview Controller owns it.
type AnswerSet struct {
	keys   []string
	values map[string]any
}

// NewAnswerSet creates an empty AnswerSet.
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{values: make(map[string]any)}
}

// Set writes value under variable.
func (a *AnswerSet) Set(variable string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[variable]; !ok {
		a.keys = append(a.keys, variable)
	}
	a.values[variable] = value
}

// Get returns the value stored for variable.
func (a *AnswerSet) Get(variable string) (any, bool) {
	v, ok := a.values[variable]
	return v, ok
}

// Has reports whether variable has been answered.
func (a *AnswerSet) Has(variable string) bool {
	_, ok := a.values[variable]
	return ok
}

// Len returns the number of answered variables.
func (a *AnswerSet) Len() int {
	return len(a.keys)
}

// Keys returns the variables in first-write order.
func (a *AnswerSet) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Map returns a flat copy of the answers.
func (a *AnswerSet) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	maps.Copy(out, a.values)
	return out
}

// Clone returns an independent copy.
func (a *AnswerSet) Clone() *AnswerSet {
	return &AnswerSet{keys: a.Keys(), values: a.Map()}
}

// MarshalJSON encodes the answers as a flat JSON object in first-write order.
func (a *AnswerSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
