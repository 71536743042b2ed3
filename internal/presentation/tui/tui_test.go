package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "v0.1.0")
	assert.Contains(t, buf.String(), "|_|_| |_|")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60)
	require.NoError(t, err)

	out, err := render("Kết luận sơ bộ: **Viêm xoang cấp**.")
	require.NoError(t, err)
	assert.Contains(t, out, "Viêm xoang cấp")
}
