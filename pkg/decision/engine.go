package decision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/google/uuid"
)

// DefaultResultPath is the prefix of result locators handed out with conclusions.
const DefaultResultPath = "/sinusitis/results/"

// Engine decides the next step of an interview from a compiled Bank.
type Engine struct {
	bank       *Bank
	store      ports.ResultStore
	logger     *slog.Logger
	resultPath string
	newID      func() string
	now        func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithResultStore keeps a Result record for every conclusion.
func WithResultStore(store ports.ResultStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithResultPath sets the prefix of result locators.
func WithResultPath(path string) EngineOption {
	return func(e *Engine) {
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		e.resultPath = path
	}
}

// WithIDGenerator overrides result ID generation.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an Engine. The bank must have been compiled.
func NewEngine(bank *Bank, opts ...EngineOption) *Engine {
	e := &Engine{
		bank:       bank,
		logger:     logging.NewNop(),
		resultPath: DefaultResultPath,
		newID:      func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bank returns the bank the engine decides on.
func (e *Engine) Bank() *Bank {
	return e.bank
}

// Decide returns the outcome for answers.
func (e *Engine) Decide(ctx context.Context, answers map[string]any) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range e.bank.Conclusions {
		if r.Fallback || !r.satisfied(answers) {
			continue
		}
		return e.conclude(ctx, r, answers)
	}

	if q, ok := e.nextQuestion(answers); ok {
		e.logger.Debug("asking", "variable", q.Variable, "answers", len(answers))
		return domain.NextQuestion{Question: q.Question}, nil
	}

	for _, r := range e.bank.Conclusions {
		if r.Fallback {
			return e.conclude(ctx, r, answers)
		}
	}

	e.logger.Info("bank exhausted without conclusion", "answers", len(answers))
	return domain.Refusal{Reason: "no conclusion reached"}, nil
}

// Next implements ports.DecisionService so the engine can run in process.
func (e *Engine) Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
	return e.Decide(ctx, answers.Map())
}

func (e *Engine) nextQuestion(answers map[string]any) (BankQuestion, bool) {
	for _, q := range e.bank.Questions {
		if _, answered := answers[q.Variable]; answered {
			continue
		}
		if !q.askIf.Eval(answers) {
			continue
		}
		return q, true
	}
	return BankQuestion{}, false
}

func (e *Engine) conclude(ctx context.Context, r Rule, answers map[string]any) (domain.Outcome, error) {
	id := e.newID()
	severity := NormalizeSeverity(r.Severity)

	if e.store != nil {
		rec := &domain.Result{
			ID:           id,
			ConclusionID: r.ID,
			Label:        r.Label,
			Severity:     severity,
			Answers:      answers,
			CreatedAt:    e.now().UTC(),
		}
		if err := e.store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save result: %w", err)
		}
	}

	e.logger.Info("concluded", "conclusion", r.ID, "severity", severity, "answers", len(answers))
	return domain.Conclusion{
		Label:     r.Label,
		Severity:  severity,
		ResultURL: e.resultPath + id,
	}, nil
}

func (r Rule) satisfied(answers map[string]any) bool {
	for _, v := range r.Requires {
		if _, ok := answers[v]; !ok {
			return false
		}
	}
	if r.when == nil || len(r.when.any) == 0 {
		// A rule without condition only fires as a fallback.
		return false
	}
	return r.when.Eval(answers)
}
