package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRequest        EventType = "request"
	EventOutcome        EventType = "outcome"
	EventAnswer         EventType = "answer"
	EventTransportError EventType = "transport_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// RequestEvent is emitted before a request is sent to the decision service.
type RequestEvent struct {
	EventBase
	Answers int `json:"answers"`
}

// OutcomeEvent is emitted once a response has been interpreted.
type OutcomeEvent struct {
	EventBase
	Kind     OutcomeKind   `json:"kind"`
	Variable string        `json:"variable,omitempty"`
	Duration time.Duration `json:"duration"`
}

// AnswerEvent is emitted when an answer is written to the AnswerSet.
type AnswerEvent struct {
	EventBase
	Variable  string    `json:"variable"`
	InputType InputType `json:"input_type"`
}

// TransportErrorEvent is emitted when a round trip fails.
type TransportErrorEvent struct {
	EventBase
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnRequest        func(context.Context, *RequestEvent)
	OnOutcome        func(context.Context, *OutcomeEvent)
	OnAnswer         func(context.Context, *AnswerEvent)
	OnTransportError func(context.Context, *TransportErrorEvent)
}

// Merge returns hooks calling h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRequest:        chain(h.OnRequest, other.OnRequest),
		OnOutcome:        chain(h.OnOutcome, other.OnOutcome),
		OnAnswer:         chain(h.OnAnswer, other.OnAnswer),
		OnTransportError: chain(h.OnTransportError, other.OnTransportError),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
