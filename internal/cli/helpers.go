package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/intake/internal/logging"
	loamadapter "github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/lifecycle"
	"golang.org/x/term"
)

// BuiltinPrefix selects a bank shipped with the binary, as in "builtin:sinusitis".
const BuiltinPrefix = "builtin:"

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from the Stdout transcript).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequest: func(ctx context.Context, e *domain.RequestEvent) {
			logger.Debug("Request", "answers", e.Answers)
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			logger.Debug("Outcome", "kind", e.Kind, "variable", e.Variable, "duration", e.Duration)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("Answer", "variable", e.Variable, "type", e.InputType)
		},
		OnTransportError: func(ctx context.Context, e *domain.TransportErrorEvent) {
			logger.Debug("Transport Error", "err", e.Err, "duration", e.Duration)
		},
	}
}

// LoadBank resolves a bank reference: empty for the default bank,
// "builtin:<name>", a YAML/JSON file or a directory of bank documents.
func LoadBank(ctx context.Context, ref string) (*decision.Bank, error) {
	switch {
	case ref == "":
		return decision.BuiltinBank(decision.DefaultBankName)
	case strings.HasPrefix(ref, BuiltinPrefix):
		return decision.BuiltinBank(strings.TrimPrefix(ref, BuiltinPrefix))
	default:
		return loamadapter.Open(ctx, ref)
	}
}

// resolveInputReader opens the platform terminal reader (CONIN$ on Windows) when
// stdin is a terminal. Otherwise the reader is returned unchanged.
func resolveInputReader(r io.Reader) io.Reader {
	if upgraded, err := lifecycle.UpgradeTerminal(r); err == nil && upgraded != nil {
		return upgraded
	}
	return r
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 0 when unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
