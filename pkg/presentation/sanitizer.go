package presentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxInputSize is 4KB; answers are short.
	DefaultMaxInputSize = 4096

	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "INTAKE_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// InputPolicy bounds and cleans raw text typed by the user before it reaches a control.
type InputPolicy struct {
	MaxSize int
}

// DefaultInputPolicy returns the policy configured by the environment.
func DefaultInputPolicy() InputPolicy {
	size := DefaultMaxInputSize
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			size = n
		}
	}
	return InputPolicy{MaxSize: size}
}

// Clean rejects oversized or invalid UTF-8 input, drops control characters
// (ANSI escapes, NUL, BEL...) and trims surrounding whitespace.
// Oversized input is rejected rather than truncated so that an answer is never altered silently.
func (p InputPolicy) Clean(input string) (string, error) {
	limit := p.MaxSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(cleaned), nil
}
