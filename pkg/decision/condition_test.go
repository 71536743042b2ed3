package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition_Eval(t *testing.T) {
	answers := map[string]any{
		"nhiet_do":      38.6,
		"ho":            true,
		"nghet_mui":     false,
		"loai_dich_mui": "Đặc, vàng/xanh",
		"tuoi":          "70",
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"nhiet_do > 38", true},
		{"nhiet_do > 38.6", false},
		{"nhiet_do >= 38.6", true},
		{"nhiet_do < 37", false},
		{"nhiet_do <= 38.6", true},
		{"nhiet_do == 38.6", true},
		{"ho", true},
		{"nghet_mui", false},
		{"!nghet_mui", true},
		{"!missing", true},
		{"missing", false},
		{"ho === true", true},
		{"nghet_mui === false", true},
		{"nghet_mui !== false", false},
		{"loai_dich_mui === 'Đặc, vàng/xanh'", true},
		{`loai_dich_mui == "Trong, loãng"`, false},
		{"loai_dich_mui != 'Không có'", true},
		{"missing != 'x'", false},
		{"missing < 10", false},
		{"tuoi >= 60", true},
		{"ho && nhiet_do > 38", true},
		{"ho ^ nghet_mui", false},
		{"nghet_mui || ho", true},
		{"nghet_mui v missing", false},
		{"nghet_mui && ho || nhiet_do > 38.5", true},
		{"nghet_mui || ho && nhiet_do > 39", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			c, err := ParseCondition(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Eval(answers))
		})
	}
}

func TestCondition_ParseErrors(t *testing.T) {
	for _, expr := range []string{
		"nhiet_do >",
		"> 38",
		"nhiet_do > 'high'",
		"ho && ",
		"9lives",
		"nhiet do > 3",
		"x == abc",
	} {
		_, err := ParseCondition(expr)
		assert.ErrorIs(t, err, ErrInvalidCondition, expr)
	}
}

func TestCondition_Variables(t *testing.T) {
	c := MustParseCondition("a > 1 && b || !c && a == 'x'")
	assert.Equal(t, []string{"a", "b", "c"}, c.Variables())
	assert.Equal(t, "a > 1 && b || !c && a == 'x'", c.String())
}

func TestNilConditionHolds(t *testing.T) {
	var c *Condition
	assert.True(t, c.Eval(nil))
}
