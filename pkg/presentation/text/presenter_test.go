package text

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/interview"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/presentation"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers each request with the next outcome and records the requests.
type scripted struct {
	mu       sync.Mutex
	outcomes []func() (domain.Outcome, error)
	seen     []map[string]any
}

func (s *scripted) Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, answers.Map())
	if len(s.outcomes) == 0 {
		return domain.Refusal{}, nil
	}
	next := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return next()
}

func ok(o domain.Outcome) func() (domain.Outcome, error) {
	return func() (domain.Outcome, error) { return o, nil }
}

func runInterview(t *testing.T, svc ports.DecisionService, input string, opts ...Option) (*interview.Controller, *Presenter, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithMessages(locale.English)}, opts...)
	p := New(strings.NewReader(input), &out, opts...)
	c := interview.New(svc, p, interview.WithMessages(locale.English))

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	err := p.Run(ctx)
	return c, p, out.String(), err
}

func TestPresenter_NumberThenConclusion(t *testing.T) {
	svc := &scripted{outcomes: []func() (domain.Outcome, error){
		ok(domain.NextQuestion{Question: domain.Question{
			Label: "How many days?", Variable: "days", Type: domain.InputNumber,
			Min: domain.Float(0), Max: domain.Float(10),
		}}),
		ok(domain.Conclusion{Label: "Acute sinusitis", ResultURL: "/sinusitis/results/42"}),
	}}

	base, _ := url.Parse("http://localhost:8080")
	c, p, out, err := runInterview(t, svc, "\nabc\n12\n7\n", WithBaseURL(base))
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseTerminal, c.Phase())
	require.Len(t, svc.seen, 2, "empty and rejected input must not issue requests")
	assert.Equal(t, map[string]any{"days": 7.0}, svc.seen[1])

	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "The value must be within [0, 10].")
	assert.Contains(t, out, "http://localhost:8080/sinusitis/results/42")

	turns := p.Transcript().Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
	assert.Equal(t, domain.RoleUser, turns[1].Role)
	assert.Equal(t, "7", turns[1].Text)
	assert.Equal(t, locale.English.Conclusion("Acute sinusitis"), turns[2].Text)
}

func TestPresenter_ChoiceDefault(t *testing.T) {
	svc := &scripted{outcomes: []func() (domain.Outcome, error){
		ok(domain.NextQuestion{Question: domain.Question{
			Label: "Which side?", Variable: "pain_side", Type: domain.InputChoice,
			Options: []string{"Left", "Right", "Both"},
		}}),
		ok(domain.Refusal{}),
	}}

	c, p, out, err := runInterview(t, svc, "\n")
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseTerminal, c.Phase())
	assert.Equal(t, map[string]any{"pain_side": "Left"}, svc.seen[1])
	assert.Contains(t, out, "* 1) Left")
	last, found := p.Transcript().Last()
	require.True(t, found)
	assert.Equal(t, locale.English.Refusal, last.Text)
}

func TestPresenter_RetryAfterTransportError(t *testing.T) {
	svc := &scripted{outcomes: []func() (domain.Outcome, error){
		ok(domain.NextQuestion{Question: domain.Question{Label: "Fever?", Variable: "fever", Type: domain.InputBoolean}}),
		func() (domain.Outcome, error) { return nil, errors.New("connection refused") },
		ok(domain.Conclusion{Label: "Not sinusitis", ResultURL: "/r/1"}),
	}}

	c, _, out, err := runInterview(t, svc, "yes\n\n")
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseTerminal, c.Phase())
	require.Len(t, svc.seen, 3)
	assert.Equal(t, svc.seen[1], svc.seen[2], "retry resends the same answers")
	assert.Contains(t, out, locale.English.TransportFailure)
	assert.Contains(t, out, "[Try again ⏎]")
}

func TestPresenter_QuitAndEOF(t *testing.T) {
	question := ok(domain.NextQuestion{Question: domain.Question{Label: "Fever?", Variable: "fever", Type: domain.InputBoolean}})

	t.Run("Quit", func(t *testing.T) {
		svc := &scripted{outcomes: []func() (domain.Outcome, error){question}}
		_, _, _, err := runInterview(t, svc, "quit\n")
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("EOF", func(t *testing.T) {
		svc := &scripted{outcomes: []func() (domain.Outcome, error){question}}
		_, _, _, err := runInterview(t, svc, "")
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestPresenter_StopsReadingAfterRun(t *testing.T) {
	svc := &scripted{outcomes: []func() (domain.Outcome, error){
		ok(domain.NextQuestion{Question: domain.Question{Label: "Fever?", Variable: "fever", Type: domain.InputBoolean}}),
	}}

	_, p, _, err := runInterview(t, svc, "quit\nmore\nlines\n")
	require.ErrorIs(t, err, io.EOF)

	require.Eventually(t, func() bool {
		select {
		case _, open := <-p.lines:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "reader goroutine must exit once Run returns")
}

func TestPresenter_RejectedInputIsLocalized(t *testing.T) {
	question := ok(domain.NextQuestion{Question: domain.Question{Label: "Fever?", Variable: "fever", Type: domain.InputBoolean}})
	policy := WithInputPolicy(presentation.InputPolicy{MaxSize: 5})

	t.Run("English", func(t *testing.T) {
		svc := &scripted{outcomes: []func() (domain.Outcome, error){question, ok(domain.Refusal{})}}
		c, _, out, err := runInterview(t, svc, "yesyesyes\nyes\n", policy)
		require.NoError(t, err)

		assert.Equal(t, domain.PhaseTerminal, c.Phase())
		require.Len(t, svc.seen, 2, "rejected input must not issue a request")
		assert.Contains(t, out, locale.English.InputRejected)
		assert.NotContains(t, out, "Error:")
	})

	t.Run("Vietnamese", func(t *testing.T) {
		svc := &scripted{outcomes: []func() (domain.Outcome, error){question, ok(domain.Refusal{})}}
		_, _, out, err := runInterview(t, svc, "cococococo\nco\n", policy, WithMessages(locale.Vietnamese))
		require.NoError(t, err)

		assert.Contains(t, out, locale.Vietnamese.InputRejected)
		assert.NotContains(t, out, locale.English.InputRejected)
	})
}

func TestPresenter_Renderer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, WithRenderer(func(s string) (string, error) {
		return "<" + s + ">", nil
	}))
	require.NoError(t, p.AppendSystemTurn(context.Background(), "hello"))
	assert.Contains(t, out.String(), "<hello>")
	last, _ := p.Transcript().Last()
	assert.Equal(t, "hello", last.Text)
}

func TestPresenter_UnknownTypeRendersNothing(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out)
	err := p.RenderInputControl(context.Background(), &domain.Question{Variable: "x", Type: "slider"}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	require.NoError(t, p.Run(context.Background()), "nothing awaits input")
}
