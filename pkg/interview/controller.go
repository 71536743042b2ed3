package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/google/uuid"
)

// Controller drives one interview session.
// Its methods are safe to call from a presenter callback; the controller never
// holds its lock while talking to the presenter or the decision service.
type Controller struct {
	decision  ports.DecisionService
	presenter ports.Presenter
	messages  locale.Messages
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	timeout   time.Duration
	sessionID string
	now       func() time.Time

	mu       sync.Mutex
	phase    domain.Phase
	answers  *domain.AnswerSet
	active   *domain.Question
	inflight context.CancelFunc
	lastErr  error
}

// New creates a Controller for a single session.
func New(decision ports.DecisionService, presenter ports.Presenter, opts ...Option) *Controller {
	c := &Controller{
		decision:  decision,
		presenter: presenter,
		messages:  locale.Vietnamese,
		logger:    logging.NewNop(),
		timeout:   DefaultRequestTimeout,
		now:       time.Now,
		phase:     domain.PhaseIdle,
		answers:   domain.NewAnswerSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
	c.logger = c.logger.With("session_id", c.sessionID)
	return c
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Phase returns the current state of the machine.
func (c *Controller) Phase() domain.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Answers returns a copy of the accumulated answers.
func (c *Controller) Answers() *domain.AnswerSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers.Clone()
}

// Active returns the question currently presented, if any.
func (c *Controller) Active() (domain.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return domain.Question{}, false
	}
	return *c.active, true
}

// Err returns the error of the last failed round trip while the session is in PhaseFailed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != domain.PhaseFailed {
		return nil
	}
	return c.lastErr
}

// Start creates a fresh AnswerSet and performs the first round trip.
// It must be called exactly once per session.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != domain.PhaseIdle {
		c.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	c.answers = domain.NewAnswerSet()
	c.phase = domain.PhaseAwaitingResponse
	c.mu.Unlock()

	c.logger.Debug("interview started")
	return c.requestNext(ctx)
}

// SubmitAnswer records the answer to the active question and requests the next step.
// The user turn is appended before the request is issued.
func (c *Controller) SubmitAnswer(ctx context.Context, q domain.Question, value any, rendered string) error {
	c.mu.Lock()
	switch c.phase {
	case domain.PhaseTerminal:
		c.mu.Unlock()
		return domain.ErrTerminal
	case domain.PhaseIdle:
		c.mu.Unlock()
		return domain.ErrNotStarted
	case domain.PhasePresentingQuestion:
	default:
		c.mu.Unlock()
		return domain.ErrNotAwaitingAnswer
	}
	if c.active == nil || c.active.Variable != q.Variable {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrQuestionMismatch, q.Variable)
	}
	if err := c.active.CheckAnswer(value); err != nil {
		c.mu.Unlock()
		return err
	}
	answered := *c.active
	c.active = nil
	c.phase = domain.PhaseAwaitingResponse
	c.mu.Unlock()

	if err := c.presenter.AppendUserTurn(ctx, rendered); err != nil {
		c.restoreQuestion(answered)
		return fmt.Errorf("presenter: %w", err)
	}
	if err := c.presenter.RenderInputControl(ctx, nil, nil); err != nil {
		c.restoreQuestion(answered)
		return fmt.Errorf("presenter: %w", err)
	}

	c.mu.Lock()
	c.answers.Set(answered.Variable, value)
	c.mu.Unlock()

	if c.hooks.OnAnswer != nil {
		c.hooks.OnAnswer(ctx, &domain.AnswerEvent{
			EventBase: c.event(domain.EventAnswer),
			Variable:  answered.Variable,
			InputType: answered.Type,
		})
	}
	c.logger.Debug("answer recorded", "variable", answered.Variable, "type", answered.Type)

	return c.requestNext(ctx)
}

// Retry re-issues the request that failed, with the AnswerSet unchanged.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	switch c.phase {
	case domain.PhaseTerminal:
		c.mu.Unlock()
		return domain.ErrTerminal
	case domain.PhaseFailed:
	default:
		c.mu.Unlock()
		return domain.ErrNothingToRetry
	}
	c.phase = domain.PhaseAwaitingResponse
	c.lastErr = nil
	c.mu.Unlock()

	if err := c.presenter.RenderInputControl(ctx, nil, nil); err != nil {
		c.mu.Lock()
		if c.phase == domain.PhaseAwaitingResponse {
			c.phase = domain.PhaseFailed
			c.lastErr = err
		}
		c.mu.Unlock()
		return fmt.Errorf("presenter: %w", err)
	}
	c.logger.Debug("retrying request")
	return c.requestNext(ctx)
}

// restoreQuestion puts q back as the active question after a presenter failure,
// so the same answer can be submitted again. An abandoned session stays terminal.
func (c *Controller) restoreQuestion(q domain.Question) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != domain.PhaseAwaitingResponse {
		return
	}
	c.active = &q
	c.phase = domain.PhasePresentingQuestion
}

// Abandon ends the session, cancelling a request in flight.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == domain.PhaseTerminal {
		return
	}
	c.phase = domain.PhaseTerminal
	c.active = nil
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.logger.Debug("interview abandoned")
}

// requestNext sends the whole AnswerSet to the decision service and dispatches the outcome.
// Transport failures are rendered, not returned; the returned error is reserved for
// presenter failures and an abandoned session.
func (c *Controller) requestNext(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != domain.PhaseAwaitingResponse {
		c.mu.Unlock()
		return domain.ErrTerminal
	}
	snapshot := c.answers.Clone()
	reqCtx, cancel := c.requestContext(ctx)
	c.inflight = cancel
	c.mu.Unlock()

	if c.hooks.OnRequest != nil {
		c.hooks.OnRequest(ctx, &domain.RequestEvent{
			EventBase: c.event(domain.EventRequest),
			Answers:   snapshot.Len(),
		})
	}

	start := c.now()
	outcome, err := c.decision.Next(reqCtx, snapshot)
	cancel()
	elapsed := c.now().Sub(start)

	c.mu.Lock()
	c.inflight = nil
	if c.phase != domain.PhaseAwaitingResponse {
		// Abandoned while waiting.
		c.mu.Unlock()
		return domain.ErrTerminal
	}
	c.mu.Unlock()

	if err == nil {
		err = checkOutcome(outcome)
	}
	if err != nil {
		return c.fail(ctx, err, elapsed)
	}

	if c.hooks.OnOutcome != nil {
		ev := &domain.OutcomeEvent{
			EventBase: c.event(domain.EventOutcome),
			Kind:      outcome.Kind(),
			Duration:  elapsed,
		}
		if nq, ok := outcome.(domain.NextQuestion); ok {
			ev.Variable = nq.Question.Variable
		}
		c.hooks.OnOutcome(ctx, ev)
	}
	c.logger.Debug("outcome received", "kind", outcome.Kind(), "duration", elapsed)

	return c.dispatch(ctx, outcome)
}

func (c *Controller) dispatch(ctx context.Context, outcome domain.Outcome) error {
	switch o := outcome.(type) {
	case domain.Refusal:
		c.terminate()
		if o.Reason != "" {
			c.logger.Info("decision service refused", "reason", o.Reason)
		}
		if err := c.presenter.AppendSystemTurn(ctx, c.messages.Refusal); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		if err := c.presenter.RenderInputControl(ctx, nil, nil); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		return nil

	case domain.NextQuestion:
		q := o.Question
		c.mu.Lock()
		c.active = &q
		c.phase = domain.PhasePresentingQuestion
		c.mu.Unlock()
		if err := c.presenter.AppendSystemTurn(ctx, q.Label); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		if err := c.presenter.RenderInputControl(ctx, &q, c.submitFor(q)); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		return nil

	case domain.Conclusion:
		c.terminate()
		c.logger.Info("interview concluded", "label", o.Label, "severity", o.Severity)
		if err := c.presenter.AppendSystemTurn(ctx, c.messages.Conclusion(o.Label)); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		if err := c.presenter.RenderTerminalAction(ctx, c.messages.FollowUp, o.ResultURL); err != nil {
			return fmt.Errorf("presenter: %w", err)
		}
		return nil
	}
	// checkOutcome rejects every other value before dispatch.
	return fmt.Errorf("%w: %T", domain.ErrMalformedResponse, outcome)
}

func (c *Controller) fail(ctx context.Context, err error, elapsed time.Duration) error {
	var te *domain.TransportError
	if !errors.As(err, &te) {
		err = &domain.TransportError{Err: err}
	}

	c.mu.Lock()
	c.phase = domain.PhaseFailed
	c.lastErr = err
	c.mu.Unlock()

	if c.hooks.OnTransportError != nil {
		c.hooks.OnTransportError(ctx, &domain.TransportErrorEvent{
			EventBase: c.event(domain.EventTransportError),
			Err:       err,
			Duration:  elapsed,
		})
	}
	c.logger.Warn("decision request failed", "error", err, "duration", elapsed)

	if perr := c.presenter.AppendSystemTurn(ctx, c.messages.TransportFailure); perr != nil {
		return fmt.Errorf("presenter: %w", perr)
	}
	if perr := c.presenter.RenderRetryAction(ctx, c.messages.Retry, c.Retry); perr != nil {
		return fmt.Errorf("presenter: %w", perr)
	}
	return nil
}

func (c *Controller) terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = domain.PhaseTerminal
	c.active = nil
}

func (c *Controller) submitFor(q domain.Question) ports.SubmitFunc {
	return func(ctx context.Context, value any, rendered string) error {
		return c.SubmitAnswer(ctx, q, value, rendered)
	}
}

func (c *Controller) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(parent, c.timeout)
	}
	return context.WithCancel(parent)
}

func (c *Controller) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: c.now(),
		Type:      t,
		SessionID: c.sessionID,
	}
}

// checkOutcome rejects outcomes missing the fields of their case.
func checkOutcome(o domain.Outcome) error {
	switch v := o.(type) {
	case domain.Refusal:
		return nil
	case domain.NextQuestion:
		if err := v.Question.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
		}
		return nil
	case domain.Conclusion:
		if v.Label == "" {
			return fmt.Errorf("%w: conclusion without label", domain.ErrMalformedResponse)
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected outcome %T", domain.ErrMalformedResponse, o)
	}
}
