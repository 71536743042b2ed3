// Package jsonl implements a headless Presenter speaking JSON Lines.
//
// Every rendering call emits one event object on the writer. Answers are read one
// per line, either as a JSON value (true, 38.5, "Left") or as raw text.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/presentation"
)

// EventType tags an emitted line.
type EventType string

const (
	EventSystem   EventType = "system"
	EventUser     EventType = "user"
	EventQuestion EventType = "question"
	EventClear    EventType = "clear"
	EventAction   EventType = "action"
	EventRetry    EventType = "retry"
	EventError    EventType = "error"
)

// Event is one emitted line.
type Event struct {
	Type     EventType        `json:"type"`
	Text     string           `json:"text,omitempty"`
	Question *domain.Question `json:"question,omitempty"`
	Choices  []string         `json:"choices,omitempty"`
	Label    string           `json:"label,omitempty"`
	Href     string           `json:"href,omitempty"`
}

// Presenter emits interview events as JSON Lines.
type Presenter struct {
	reader   *bufio.Reader
	encoder  *json.Encoder
	messages locale.Messages
	policy   presentation.InputPolicy

	mu      sync.Mutex
	writeMu sync.Mutex
	control presentation.Control
	submit  ports.SubmitFunc
	retry   ports.RetryFunc
}

// New creates a Presenter reading from r and writing to w.
func New(r io.Reader, w io.Writer, m locale.Messages) *Presenter {
	return &Presenter{
		reader:   bufio.NewReader(r),
		encoder:  json.NewEncoder(w),
		messages: m,
		policy:   presentation.DefaultInputPolicy(),
	}
}

func (p *Presenter) emit(ev Event) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.encoder.Encode(ev)
}

func (p *Presenter) AppendSystemTurn(ctx context.Context, text string) error {
	return p.emit(Event{Type: EventSystem, Text: text})
}

func (p *Presenter) AppendUserTurn(ctx context.Context, text string) error {
	return p.emit(Event{Type: EventUser, Text: text})
}

// RenderInputControl emits the question descriptor, or a clear event for nil.
// Questions without a usable control produce no event.
func (p *Presenter) RenderInputControl(ctx context.Context, q *domain.Question, submit ports.SubmitFunc) error {
	p.set(nil, nil, nil)
	if q == nil {
		return p.emit(Event{Type: EventClear})
	}
	ctrl, err := presentation.NewControl(*q, p.messages)
	if err != nil {
		return nil
	}
	if err := p.emit(Event{Type: EventQuestion, Question: q, Choices: ctrl.Choices(), Text: ctrl.Hint()}); err != nil {
		return err
	}
	p.set(ctrl, submit, nil)
	return nil
}

func (p *Presenter) RenderTerminalAction(ctx context.Context, label, href string) error {
	p.set(nil, nil, nil)
	return p.emit(Event{Type: EventAction, Label: label, Href: href})
}

func (p *Presenter) RenderRetryAction(ctx context.Context, label string, retry ports.RetryFunc) error {
	p.set(nil, nil, retry)
	return p.emit(Event{Type: EventRetry, Label: label})
}

func (p *Presenter) set(ctrl presentation.Control, submit ports.SubmitFunc, retry ports.RetryFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.control, p.submit, p.retry = ctrl, submit, retry
}

// Run consumes input lines until nothing awaits input. It returns io.EOF when input ends early.
func (p *Presenter) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.mu.Lock()
		ctrl, submit, retry := p.control, p.submit, p.retry
		p.mu.Unlock()
		if ctrl == nil && retry == nil {
			return nil
		}

		line, err := p.reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return err
		}
		raw, cerr := p.policy.Clean(line)
		if cerr != nil {
			if err := p.emit(Event{Type: EventError, Text: cerr.Error()}); err != nil {
				return err
			}
			continue
		}

		if retry != nil {
			if err := retry(ctx); err != nil {
				return err
			}
			continue
		}

		ans, aerr := ctrl.Accept(p.decode(raw))
		var rej *presentation.Rejection
		switch {
		case errors.Is(aerr, presentation.ErrEmptyInput):
			continue
		case errors.As(aerr, &rej):
			if err := p.emit(Event{Type: EventError, Text: rej.Message}); err != nil {
				return err
			}
			continue
		case aerr != nil:
			return aerr
		}
		if err := submit(ctx, ans.Value, ans.Text); err != nil {
			return err
		}
	}
}

// decode maps a JSON scalar to the text form controls accept. Anything else is used verbatim.
func (p *Presenter) decode(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch val := v.(type) {
	case bool:
		return p.messages.BoolText(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strings.TrimSpace(val)
	default:
		return raw
	}
}
