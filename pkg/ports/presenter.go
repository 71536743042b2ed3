package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// SubmitFunc is invoked by a Presenter exactly once per confirmed answer.
// value is typed per the question (bool, float64 or string); rendered is the
// human readable text of the answer.
type SubmitFunc func(ctx context.Context, value any, rendered string) error

// RetryFunc re-issues the last failed request.
type RetryFunc func(ctx context.Context) error

// Presenter renders the conversation. It holds no decision logic.
type Presenter interface {
	// AppendSystemTurn appends a system turn to the transcript.
	AppendSystemTurn(ctx context.Context, text string) error

	// AppendUserTurn appends a user turn with the rendered answer.
	AppendUserTurn(ctx context.Context, text string) error

	// RenderInputControl replaces the active control. A nil question clears it.
	RenderInputControl(ctx context.Context, q *domain.Question, submit SubmitFunc) error

	// RenderTerminalAction replaces the control area with a single follow-up action.
	RenderTerminalAction(ctx context.Context, label, href string) error

	// RenderRetryAction replaces the control area with a retry action.
	RenderRetryAction(ctx context.Context, label string, retry RetryFunc) error
}
