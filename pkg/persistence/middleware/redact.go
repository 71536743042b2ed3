package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Redacted replaces the value of every masked answer.
const Redacted = "***"

type redactMiddleware struct {
	next     ports.ResultStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks the answers whose variable matches one of the patterns.
// The masked record is what reaches the store; the caller's record is left untouched.
func NewRedactMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, 0, len(patternStrings))
	for _, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return func(next ports.ResultStore) ports.ResultStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, result *domain.Result) error {
	cloned := *result
	cloned.Answers = make(map[string]any, len(result.Answers))
	for k, v := range result.Answers {
		if m.masked(k) {
			v = Redacted
		}
		cloned.Answers[k] = v
	}
	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) masked(variable string) bool {
	for _, p := range m.patterns {
		if p.MatchString(variable) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Result, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
