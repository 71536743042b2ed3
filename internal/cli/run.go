package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/metrics"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/presentation/jsonl"
	"github.com/aretw0/intake/pkg/presentation/text"
	"github.com/aretw0/lifecycle"
)

// RunInterview runs one interview on stdin/stdout until it concludes, is refused
// or the user leaves. With MetricsAddr set, the interview metrics are served there
// for the lifetime of the interview.
func RunInterview(ctx context.Context, opts RunOptions, stdin io.Reader, stdout io.Writer) error {
	logger := createLogger(opts.Debug)

	var m *metrics.Metrics
	if opts.MetricsAddr != "" {
		m = metrics.New(nil)
		stop := serveMetrics(ctx, opts.MetricsAddr, m.Handler(), logger)
		defer stop()
	}
	return runInterview(ctx, opts, stdin, stdout, logger, m)
}

func runInterview(ctx context.Context, opts RunOptions, stdin io.Reader, stdout io.Writer, logger *slog.Logger, m *metrics.Metrics) error {
	messages, err := locale.Lookup(opts.Locale)
	if err != nil {
		return err
	}

	sessionOpts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithMessages(messages),
		intake.WithRequestTimeout(opts.Timeout),
	}
	if opts.Debug {
		sessionOpts = append(sessionOpts, intake.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if m != nil {
		sessionOpts = append(sessionOpts, intake.WithLifecycleHooks(m.Hooks()))
	}

	serviceURL := opts.ServiceURL
	if opts.Local {
		bank, err := LoadBank(ctx, opts.Bank)
		if err != nil {
			return fmt.Errorf("failed to load bank: %w", err)
		}
		engine := decision.NewEngine(bank,
			decision.WithResultStore(memory.NewStore()),
			decision.WithLogger(logger),
		)
		sessionOpts = append(sessionOpts, intake.WithDecisionService(engine))
		serviceURL = ""
		logger.Info("Deciding locally", "bank", bank.Name)
	}

	var presenter ports.Presenter
	if opts.JSON {
		presenter = jsonl.New(stdin, stdout, messages)
	} else {
		textOpts := []text.Option{text.WithMessages(messages), text.WithLogger(logger)}
		if serviceURL != "" {
			base, err := url.Parse(serviceURL)
			if err != nil {
				return fmt.Errorf("invalid service url: %w", err)
			}
			textOpts = append(textOpts, text.WithBaseURL(base))
		}
		if isTerminal(stdout) {
			if !opts.NoBanner {
				tui.PrintBanner(stdout, intake.Version)
			}
			renderer, err := tui.NewRenderer(terminalWidth(stdout))
			if err != nil {
				logger.Warn("markdown renderer unavailable", "err", err)
			} else {
				textOpts = append(textOpts, text.WithRenderer(renderer))
			}
			stdin = resolveInputReader(stdin)
		}
		presenter = text.New(stdin, stdout, textOpts...)
	}
	sessionOpts = append(sessionOpts, intake.WithPresenter(presenter))

	session, err := intake.New(serviceURL, sessionOpts...)
	if err != nil {
		return err
	}
	logger.Debug("Session Created", "session_id", session.Controller().SessionID())

	return handleExecutionError(session.Run(ctx))
}

// serveMetrics exposes h on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		logger.Info("Serving interview metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", "err", err)
		}
		return nil
	})

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
