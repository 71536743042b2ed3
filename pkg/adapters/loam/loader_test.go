package loam

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

var feverBank = map[string]string{
	"bank.md": `---
kind: bank
name: fever
---
Fever triage`,
	"q_temperature.md": `---
kind: question
order: 2
variable: temp
type: number
min: 35
max: 43
step: 0.1
ask_if: "fever"
---
What is your temperature?`,
	"q_fever.md": `---
kind: question
order: 1
variable: fever
type: boolean
---
Do you have a fever?`,
	"q_side.md": `---
kind: question
order: 3
variable: side
type: radio
options: ["Left", "Right"]
---
Which side hurts?`,
	"high.md": `---
kind: conclusion
order: 1
severity: Severe
when: "temp >= 39"
---
High fever`,
	"none.md": `---
kind: conclusion
order: 2
id: no_fever
severity: Info
fallback: true
---
No fever`,
}

func TestLoadBank(t *testing.T) {
	dir := writeDocs(t, feverBank)

	bank, err := LoadBank(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "fever", bank.Name)
	assert.Equal(t, "Fever triage", bank.Description)

	require.Len(t, bank.Questions, 3)
	assert.Equal(t, "fever", bank.Questions[0].Variable)
	assert.Equal(t, "Do you have a fever?", bank.Questions[0].Label)

	temp := bank.Questions[1]
	assert.Equal(t, domain.InputNumber, temp.Type)
	assert.Equal(t, domain.Float(35), temp.Min)
	assert.Equal(t, domain.Float(43), temp.Max)
	assert.Equal(t, domain.Float(0.1), temp.Step)
	assert.Equal(t, "fever", temp.AskIf)

	side := bank.Questions[2]
	assert.Equal(t, domain.InputChoice, side.Type)
	assert.Equal(t, []string{"Left", "Right"}, side.Options)
	assert.Nil(t, side.Min)

	require.Len(t, bank.Conclusions, 2)
	assert.Equal(t, "high", bank.Conclusions[0].ID)
	assert.Equal(t, "High fever", bank.Conclusions[0].Label)
	assert.Equal(t, "no_fever", bank.Conclusions[1].ID)
	assert.True(t, bank.Conclusions[1].Fallback)
}

func TestLoadBank_DrivesEngine(t *testing.T) {
	dir := writeDocs(t, feverBank)
	bank, err := LoadBank(context.Background(), dir)
	require.NoError(t, err)

	engine := decision.NewEngine(bank)
	out, err := engine.Decide(context.Background(), map[string]any{"fever": true, "temp": 39.5})
	require.NoError(t, err)

	c, ok := out.(domain.Conclusion)
	require.True(t, ok)
	assert.Equal(t, "High fever", c.Label)
	assert.Equal(t, "high", c.Severity)

	out, err = engine.Decide(context.Background(), map[string]any{"fever": false})
	require.NoError(t, err)
	q, ok := out.(domain.NextQuestion)
	require.True(t, ok)
	assert.Equal(t, "side", q.Question.Variable)
}

func TestLoadBank_Errors(t *testing.T) {
	tests := []struct {
		name string
		docs map[string]string
	}{
		{"Unknown Kind", map[string]string{"x.md": "---\nkind: widget\n---\nx"}},
		{"Bad Order", map[string]string{"x.md": "---\nkind: question\norder: first\nvariable: v\ntype: boolean\n---\nx"}},
		{"Bad Bound", map[string]string{"x.md": "---\nkind: question\nvariable: v\ntype: number\nmin: low\n---\nx"}},
		{"Unknown Variable In Rule", map[string]string{
			"q.md": "---\nkind: question\nvariable: v\ntype: boolean\n---\nV?",
			"c.md": "---\nkind: conclusion\nwhen: \"w\"\n---\nC",
		}},
		{"No Questions", map[string]string{"c.md": "---\nkind: conclusion\nfallback: true\n---\nC"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBank(context.Background(), writeDocs(t, tt.docs))
			assert.Error(t, err)
		})
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{json.Number("1.5"), 1.5, float32(1.5), "1.5"} {
		f, err := toFloat(v)
		require.NoError(t, err)
		assert.Equal(t, 1.5, *f)
	}
	f, err := toFloat(nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = toFloat(true)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := writeDocs(t, feverBank)
	bank, err := Open(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "fever", bank.Name)

	file := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(file, []byte("questions:\n  - variable: v\n    type: boolean\n    label: V?\n"), 0o644))
	bank, err = Open(context.Background(), file)
	require.NoError(t, err)
	assert.Len(t, bank.Questions, 1)

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
