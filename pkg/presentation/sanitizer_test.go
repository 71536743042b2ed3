package presentation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputPolicy_SizeLimit(t *testing.T) {
	policy := InputPolicy{MaxSize: 16}

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", 15, false},
		{"Exact Limit", 16, false},
		{"Over Limit", 17, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.Clean(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInputPolicy_Clean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", "  Trong, loãng \n", "Trong, loãng"},
		{"ANSI Code", "\x1b[31m38.5", "[31m38.5"},
		{"Null Byte", "Có\x00", "Có"},
		{"Carriage Return", "yes\r\n", "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InputPolicy{}.Clean(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputPolicy_InvalidUTF8(t *testing.T) {
	_, err := InputPolicy{}.Clean("\xbd\xb2\x3d")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDefaultInputPolicy_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, DefaultInputPolicy().MaxSize)

	t.Setenv(EnvMaxInputSize, "nope")
	assert.Equal(t, DefaultMaxInputSize, DefaultInputPolicy().MaxSize)
}
