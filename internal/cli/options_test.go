package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOr(t *testing.T) {
	t.Setenv(EnvServiceURL, "")
	assert.Equal(t, DefaultServiceURL, EnvOr(EnvServiceURL, DefaultServiceURL))

	t.Setenv(EnvServiceURL, " http://svc:8080 ")
	assert.Equal(t, "http://svc:8080", EnvOr(EnvServiceURL, DefaultServiceURL))
}

func TestEnvDuration(t *testing.T) {
	def := 15 * time.Second
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", def},
		{"3s", 3 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"2.5", 2500 * time.Millisecond},
		{"soon", def},
		{"-1", def},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvTimeout, tt.value)
			assert.Equal(t, tt.want, EnvDuration(EnvTimeout, def))
		})
	}
}
