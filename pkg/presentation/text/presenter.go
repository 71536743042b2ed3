// Package text implements a line-oriented terminal Presenter.
package text

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/presentation"
	"github.com/muesli/termenv"
)

// ContentRenderer transforms system turns before printing (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// Presenter renders the interview on a terminal and reads answers line by line.
type Presenter struct {
	out        *termenv.Output
	writer     io.Writer
	reader     *bufio.Reader
	renderer   ContentRenderer
	messages   locale.Messages
	policy     presentation.InputPolicy
	transcript *domain.Transcript
	baseURL    *url.URL
	logger     *slog.Logger

	mu         sync.Mutex
	control    presentation.Control
	submit     ports.SubmitFunc
	retry      ports.RetryFunc
	retryLabel string

	lines     chan lineResult
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

type lineResult struct {
	text string
	err  error
}

// Option configures the Presenter.
type Option func(*Presenter)

// WithRenderer sets the renderer for system turns.
func WithRenderer(r ContentRenderer) Option {
	return func(p *Presenter) {
		p.renderer = r
	}
}

// WithMessages sets the wording of controls and hints.
func WithMessages(m locale.Messages) Option {
	return func(p *Presenter) {
		p.messages = m
	}
}

// WithInputPolicy overrides the input sanitation policy.
func WithInputPolicy(policy presentation.InputPolicy) Option {
	return func(p *Presenter) {
		p.policy = policy
	}
}

// WithBaseURL resolves relative follow-up links for display.
func WithBaseURL(base *url.URL) Option {
	return func(p *Presenter) {
		p.baseURL = base
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// New creates a Presenter reading answers from r and writing the conversation to w.
func New(r io.Reader, w io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:        termenv.NewOutput(w),
		writer:     w,
		reader:     bufio.NewReader(r),
		messages:   locale.Vietnamese,
		policy:     presentation.DefaultInputPolicy(),
		transcript: domain.NewTranscript(),
		logger:     logging.NewNop(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transcript returns the conversation rendered so far.
func (p *Presenter) Transcript() *domain.Transcript {
	return p.transcript
}

// AppendSystemTurn prints a system turn.
func (p *Presenter) AppendSystemTurn(ctx context.Context, text string) error {
	p.transcript.Append(domain.RoleSystem, text)

	output := text
	if p.renderer != nil {
		if rendered, err := p.renderer(text); err == nil {
			output = rendered
		} else {
			p.logger.Debug("render failed, printing raw text", "error", err)
		}
	}
	_, err := fmt.Fprintf(p.writer, "\n%s\n", strings.TrimSpace(output))
	return err
}

// AppendUserTurn echoes the rendered answer.
func (p *Presenter) AppendUserTurn(ctx context.Context, text string) error {
	p.transcript.Append(domain.RoleUser, text)
	styled := p.out.String("» " + text).Foreground(p.out.Color("#0891b2")).Bold()
	_, err := fmt.Fprintf(p.writer, "%s\n", styled)
	return err
}

// RenderInputControl prints the choices and hint of q and makes it the active control.
// A nil question clears the control. An unusable question renders nothing.
func (p *Presenter) RenderInputControl(ctx context.Context, q *domain.Question, submit ports.SubmitFunc) error {
	p.mu.Lock()
	p.retry = nil
	p.control = nil
	p.submit = nil
	p.mu.Unlock()

	if q == nil {
		return nil
	}
	ctrl, err := presentation.NewControl(*q, p.messages)
	if err != nil {
		p.logger.Warn("no control for question", "variable", q.Variable, "error", err)
		return nil
	}

	var b strings.Builder
	for i, choice := range ctrl.Choices() {
		marker := " "
		if q.Type == domain.InputChoice && i == 0 {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %d) %s\n", marker, i+1, choice)
	}
	fmt.Fprintf(&b, "  (%s)\n", ctrl.Hint())
	if _, err := io.WriteString(p.writer, p.out.String(b.String()).Faint().String()); err != nil {
		return err
	}

	p.mu.Lock()
	p.control = ctrl
	p.submit = submit
	p.mu.Unlock()
	return nil
}

// RenderTerminalAction prints the follow-up link and clears the control.
func (p *Presenter) RenderTerminalAction(ctx context.Context, label, href string) error {
	p.mu.Lock()
	p.control, p.submit, p.retry = nil, nil, nil
	p.mu.Unlock()

	link := p.resolve(href)
	styled := p.out.String(label).Underline()
	_, err := fmt.Fprintf(p.writer, "\n→ %s: %s\n", styled, link)
	return err
}

// RenderRetryAction offers a retry; pressing Enter triggers it.
func (p *Presenter) RenderRetryAction(ctx context.Context, label string, retry ports.RetryFunc) error {
	p.mu.Lock()
	p.control, p.submit = nil, nil
	p.retry = retry
	p.retryLabel = label
	p.mu.Unlock()

	_, err := fmt.Fprintf(p.writer, "  [%s ⏎]\n", label)
	return err
}

// Run reads lines and feeds the active control until nothing awaits input.
// It returns io.EOF when the input ends or the user types "quit" or "exit".
// Input is not read after Run returns.
func (p *Presenter) Run(ctx context.Context) error {
	defer p.stop()
	for {
		p.mu.Lock()
		ctrl, submit, retry := p.control, p.submit, p.retry
		p.mu.Unlock()

		if ctrl == nil && retry == nil {
			return nil
		}

		line, err := p.readLine(ctx)
		if err != nil {
			return err
		}
		if line == "quit" || line == "exit" {
			return io.EOF
		}

		if retry != nil {
			if err := retry(ctx); err != nil {
				return err
			}
			continue
		}

		ans, err := ctrl.Accept(line)
		var rej *presentation.Rejection
		switch {
		case errors.Is(err, presentation.ErrEmptyInput):
			continue
		case errors.As(err, &rej):
			fmt.Fprintf(p.writer, "  %s\n", p.out.String(rej.Message).Foreground(p.out.Color("#dc2626")))
			continue
		case err != nil:
			return err
		}

		if err := submit(ctx, ans.Value, ans.Text); err != nil {
			return err
		}
	}
}

func (p *Presenter) readLine(ctx context.Context) (string, error) {
	p.startOnce.Do(func() {
		p.lines = make(chan lineResult)
		go p.pump()
	})
	select {
	case <-p.done:
		return "", io.EOF
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(p.writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-p.lines:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := p.policy.Clean(res.text)
			if err != nil {
				p.logger.Debug("input rejected", "err", err)
				fmt.Fprintf(p.writer, "  %s\n", p.out.String(p.messages.InputRejected).Foreground(p.out.Color("#dc2626")))
				continue
			}
			return clean, nil
		}
	}
}

func (p *Presenter) pump() {
	defer close(p.lines)
	for {
		text, err := p.reader.ReadString('\n')
		if text != "" && !p.send(lineResult{text: text}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				p.send(lineResult{err: err})
			}
			return
		}
	}
}

// send hands a line to readLine, or gives up once the presenter stopped.
func (p *Presenter) send(res lineResult) bool {
	select {
	case p.lines <- res:
		return true
	case <-p.done:
		return false
	}
}

func (p *Presenter) stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

func (p *Presenter) resolve(href string) string {
	if p.baseURL == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.baseURL.ResolveReference(ref).String()
}
