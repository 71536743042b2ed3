package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/metrics"
	httpadapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/lifecycle"
)

// DefaultResultTTL bounds how long result records are kept.
const DefaultResultTTL = 24 * time.Hour

// NewServiceHandler builds the reference decision service described by opts.
// The returned cleanup releases the result store.
func NewServiceHandler(ctx context.Context, opts ServeOptions, logger *slog.Logger) (http.Handler, func(), error) {
	bank, err := LoadBank(ctx, opts.Bank)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load bank: %w", err)
	}

	var store ports.ResultStore
	cleanup := func() {}
	if opts.RedisURL != "" {
		rs, err := redis.New(opts.RedisURL, redis.WithTTL(opts.ResultTTL))
		if err != nil {
			return nil, nil, err
		}
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		store = rs
		cleanup = func() { rs.Close() }
		logger.Info("Result store: redis", "ttl", opts.ResultTTL)
	} else {
		store = memory.NewStore(memory.WithTTL(opts.ResultTTL))
		logger.Info("Result store: memory", "ttl", opts.ResultTTL)
	}

	store, err = protectStore(store, opts, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	engine := decision.NewEngine(bank,
		decision.WithResultStore(store),
		decision.WithLogger(logger),
	)

	serverOpts := []httpadapter.ServerOption{
		httpadapter.WithResultStore(store),
		httpadapter.WithServerLogger(logger),
		httpadapter.WithVersion(intake.Version),
		httpadapter.WithBankName(bank.Name),
	}
	if opts.Endpoint != "" {
		serverOpts = append(serverOpts, httpadapter.WithEndpoint(opts.Endpoint))
	}
	if opts.Metrics {
		d := metrics.NewDecisions(nil)
		serverOpts = append(serverOpts,
			httpadapter.WithMetricsHandler(d.Handler()),
			httpadapter.WithDecisionObserver(d.Observe),
		)
	}

	srv, err := httpadapter.NewServer(engine, serverOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv.Handler(), cleanup, nil
}

// protectStore applies answer redaction, then encryption, as configured.
func protectStore(store ports.ResultStore, opts ServeOptions, logger *slog.Logger) (ports.ResultStore, error) {
	var mws []middleware.Middleware
	if len(opts.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(opts.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
		logger.Info("Result answers redacted", "patterns", opts.Redact)
	}
	if opts.ResultKey != "" {
		key, err := middleware.ParseKey(opts.ResultKey)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvResultKey, err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
		logger.Info("Result answers encrypted")
	}
	return middleware.Chain(store, mws...), nil
}

// Serve runs the reference decision service until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	level := slog.LevelInfo
	if opts.LogLevel != "" {
		parsed, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		level = parsed
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewJSON(os.Stderr, level)

	handler, cleanup, err := NewServiceHandler(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		logger.Info("Starting Intake Server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("Intake Server stopped gracefully")
		return nil
	}
}
