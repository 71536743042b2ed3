package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/aretw0/intake/internal/logging"
	httpadapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/interview"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/presentation/text"
)

// Runner is implemented by presenters that own an input loop.
// Run returns io.EOF when the user leaves before the interview ends.
type Runner interface {
	Run(ctx context.Context) error
}

// Session wires a decision service and a presenter to an interview controller.
type Session struct {
	controller *interview.Controller
	presenter  ports.Presenter
	logger     *slog.Logger
}

type config struct {
	decision   ports.DecisionService
	presenter  ports.Presenter
	httpClient *http.Client
	messages   locale.Messages
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	timeout    time.Duration
	sessionID  string
}

// Option configures a Session.
type Option func(*config)

// WithDecisionService replaces the HTTP client with any DecisionService.
// The service URL passed to New is then only used to resolve result links.
func WithDecisionService(d ports.DecisionService) Option {
	return func(c *config) {
		c.decision = d
	}
}

// WithPresenter replaces the default terminal presenter on stdin/stdout.
func WithPresenter(p ports.Presenter) Option {
	return func(c *config) {
		c.presenter = p
	}
}

// WithHTTPClient configures the client used to reach the decision service.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithMessages sets the user-facing wording.
func WithMessages(m locale.Messages) Option {
	return func(c *config) {
		c.messages = m
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithRequestTimeout bounds each round trip to the decision service.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithSessionID sets the identifier used in logs and events.
func WithSessionID(id string) Option {
	return func(c *config) {
		c.sessionID = id
	}
}

// New creates a session against the decision service at serviceURL.
func New(serviceURL string, opts ...Option) (*Session, error) {
	cfg := &config{
		messages: locale.Vietnamese,
		logger:   logging.NewNop(),
		timeout:  interview.DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var base *url.URL
	if serviceURL != "" {
		u, err := url.Parse(serviceURL)
		if err != nil {
			return nil, fmt.Errorf("invalid service url: %w", err)
		}
		base = u
	}

	if cfg.decision == nil {
		clientOpts := []httpadapter.ClientOption{httpadapter.WithLogger(cfg.logger)}
		if cfg.httpClient != nil {
			clientOpts = append(clientOpts, httpadapter.WithHTTPClient(cfg.httpClient))
		}
		client, err := httpadapter.NewClient(serviceURL, clientOpts...)
		if err != nil {
			return nil, err
		}
		cfg.decision = client
	}

	if cfg.presenter == nil {
		presenterOpts := []text.Option{text.WithMessages(cfg.messages), text.WithLogger(cfg.logger)}
		if base != nil {
			presenterOpts = append(presenterOpts, text.WithBaseURL(base))
		}
		cfg.presenter = text.New(os.Stdin, os.Stdout, presenterOpts...)
	}

	ctrlOpts := []interview.Option{
		interview.WithLogger(cfg.logger),
		interview.WithLifecycleHooks(cfg.hooks),
		interview.WithMessages(cfg.messages),
		interview.WithRequestTimeout(cfg.timeout),
	}
	if cfg.sessionID != "" {
		ctrlOpts = append(ctrlOpts, interview.WithSessionID(cfg.sessionID))
	}

	return &Session{
		controller: interview.New(cfg.decision, cfg.presenter, ctrlOpts...),
		presenter:  cfg.presenter,
		logger:     cfg.logger,
	}, nil
}

// Controller exposes the underlying controller.
func (s *Session) Controller() *interview.Controller {
	return s.controller
}

// Run starts the interview and, when the presenter owns an input loop, drives it
// until the session is terminal. Leaving early abandons the session.
func (s *Session) Run(ctx context.Context) error {
	if err := s.controller.Start(ctx); err != nil {
		return err
	}

	runner, ok := s.presenter.(Runner)
	if !ok {
		return nil
	}

	err := runner.Run(ctx)
	if s.controller.Phase() != domain.PhaseTerminal {
		s.controller.Abandon()
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		if err != nil {
			s.logger.Info("interview abandoned", "err", err)
		}
		return nil
	}
	return err
}
