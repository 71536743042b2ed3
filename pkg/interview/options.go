package interview

import (
	"log/slog"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
)

// DefaultRequestTimeout bounds a single round trip to the decision service.
const DefaultRequestTimeout = 15 * time.Second

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithMessages sets the user-facing wording (default: locale.Vietnamese).
func WithMessages(m locale.Messages) Option {
	return func(c *Controller) {
		c.messages = m
	}
}

// WithRequestTimeout bounds each round trip. Zero disables the timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithSessionID sets the session identifier used in logs and events.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}
