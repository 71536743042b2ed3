package presentation

import (
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooleanControl(t *testing.T) {
	ctrl, err := NewControl(domain.Question{Label: "Sốt?", Variable: "fever", Type: domain.InputBoolean}, locale.Vietnamese)
	require.NoError(t, err)
	assert.Equal(t, []string{"Có", "Không"}, ctrl.Choices())

	tests := []struct {
		input string
		value bool
		text  string
	}{
		{"Có", true, "Có"},
		{"có", true, "Có"},
		{"1", true, "Có"},
		{"y", true, "Có"},
		{"Không", false, "Không"},
		{"2", false, "Không"},
		{"no", false, "Không"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ans, err := ctrl.Accept(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.value, ans.Value)
			assert.Equal(t, tt.text, ans.Text)
		})
	}

	_, err = ctrl.Accept("maybe")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, locale.Vietnamese.BooleanInvalid, rej.Message)
}

func TestNumberControl(t *testing.T) {
	q := domain.Question{Variable: "days", Type: domain.InputNumber, Min: domain.Float(0), Max: domain.Float(10), Step: domain.Float(1)}
	ctrl, err := NewControl(q, locale.English)
	require.NoError(t, err)
	assert.Equal(t, "Enter a number [0, 10]", ctrl.Hint())

	t.Run("Empty Is A No-Op", func(t *testing.T) {
		_, err := ctrl.Accept("   ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("Valid", func(t *testing.T) {
		ans, err := ctrl.Accept("7")
		require.NoError(t, err)
		assert.Equal(t, 7.0, ans.Value)
		assert.Equal(t, "7", ans.Text)
	})

	t.Run("Decimal Comma", func(t *testing.T) {
		ans, err := ctrl.Accept("2,5")
		require.NoError(t, err)
		assert.Equal(t, 2.5, ans.Value)
		assert.Equal(t, "2,5", ans.Text)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		_, err := ctrl.Accept("11")
		var rej *Rejection
		require.ErrorAs(t, err, &rej)
		assert.Contains(t, rej.Message, "[0, 10]")
	})

	t.Run("Not A Number", func(t *testing.T) {
		_, err := ctrl.Accept("NaN")
		var rej *Rejection
		assert.ErrorAs(t, err, &rej)
	})
}

func TestNumberControl_OpenBounds(t *testing.T) {
	ctrl, err := NewControl(domain.Question{Variable: "t", Type: domain.InputNumber}, locale.English)
	require.NoError(t, err)
	assert.Equal(t, "Enter a number", ctrl.Hint())

	ans, err := ctrl.Accept("-400")
	require.NoError(t, err)
	assert.Equal(t, -400.0, ans.Value)
}

func TestChoiceControl(t *testing.T) {
	q := domain.Question{Variable: "pain_side", Type: domain.InputChoice, Options: []string{"Left", "Right", "Both"}}
	ctrl, err := NewControl(q, locale.English)
	require.NoError(t, err)

	t.Run("Default Selection", func(t *testing.T) {
		ans, err := ctrl.Accept("")
		require.NoError(t, err)
		assert.Equal(t, "Left", ans.Value)
		assert.Equal(t, "Left", ans.Text)
	})

	t.Run("Index", func(t *testing.T) {
		ans, err := ctrl.Accept("3")
		require.NoError(t, err)
		assert.Equal(t, "Both", ans.Value)
	})

	t.Run("Text", func(t *testing.T) {
		ans, err := ctrl.Accept("right")
		require.NoError(t, err)
		assert.Equal(t, "Right", ans.Value)
	})

	t.Run("Rejected", func(t *testing.T) {
		for _, in := range []string{"0", "4", "Middle"} {
			_, err := ctrl.Accept(in)
			var rej *Rejection
			assert.ErrorAs(t, err, &rej, in)
		}
	})
}

func TestChoiceControl_NumericOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		input   string
		want    string
	}{
		{"text before index", []string{"2", "1"}, "1", "1"},
		{"text before index reversed", []string{"2", "1"}, "2", "2"},
		{"label larger than the list", []string{"10", "20", "30"}, "20", "20"},
		{"index still works", []string{"10", "20", "30"}, "3", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := domain.Question{Variable: "days", Type: domain.InputChoice, Options: tt.options}
			ctrl, err := NewControl(q, locale.English)
			require.NoError(t, err)

			ans, err := ctrl.Accept(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ans.Value)
			assert.Equal(t, tt.want, ans.Text)
		})
	}

	q := domain.Question{Variable: "days", Type: domain.InputChoice, Options: []string{"10", "20", "30"}}
	ctrl, err := NewControl(q, locale.English)
	require.NoError(t, err)
	var rej *Rejection
	_, err = ctrl.Accept("40")
	assert.ErrorAs(t, err, &rej)
}

func TestNewControl_Invalid(t *testing.T) {
	_, err := NewControl(domain.Question{Variable: "x", Type: domain.InputChoice}, locale.English)
	assert.ErrorIs(t, err, domain.ErrInvalidQuestion)

	_, err = NewControl(domain.Question{Variable: "x", Type: "slider"}, locale.English)
	assert.ErrorIs(t, err, domain.ErrUnknownInputType)
}

func TestFormatBounds(t *testing.T) {
	assert.Equal(t, "[35, 43]", FormatBounds(domain.Question{Min: domain.Float(35), Max: domain.Float(43)}))
	assert.Equal(t, "≥ 0", FormatBounds(domain.Question{Min: domain.Float(0)}))
	assert.Equal(t, "≤ 0.5", FormatBounds(domain.Question{Max: domain.Float(0.5)}))
	assert.Empty(t, FormatBounds(domain.Question{}))
}
