package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/interview"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEvents(t *testing.T, out string) []Event {
	t.Helper()
	var events []Event
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), sc.Text())
		events = append(events, ev)
	}
	return events
}

func TestPresenter_Session(t *testing.T) {
	var seen []map[string]any
	svc := ports.DecisionFunc(func(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
		seen = append(seen, answers.Map())
		switch answers.Len() {
		case 0:
			return domain.NextQuestion{Question: domain.Question{Label: "Fever?", Variable: "fever", Type: domain.InputBoolean}}, nil
		case 1:
			return domain.NextQuestion{Question: domain.Question{Label: "Temperature?", Variable: "temp", Type: domain.InputNumber, Min: domain.Float(35), Max: domain.Float(43)}}, nil
		default:
			return domain.Conclusion{Label: "Viral sinusitis", ResultURL: "/sinusitis/results/abc"}, nil
		}
	})

	var out bytes.Buffer
	p := New(strings.NewReader("true\n50\n38.5\n"), &out, locale.English)
	c := interview.New(svc, p, interview.WithMessages(locale.English))

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, domain.PhaseTerminal, c.Phase())
	require.Len(t, seen, 3)
	assert.Equal(t, map[string]any{"fever": true, "temp": 38.5}, seen[2])

	events := decodeEvents(t, out.String())
	var types []EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventSystem, EventQuestion,
		EventUser, EventClear, EventSystem, EventQuestion,
		EventError,
		EventUser, EventClear, EventSystem, EventAction,
	}, types)

	assert.Equal(t, []string{"Yes", "No"}, events[1].Choices)
	assert.Equal(t, "Yes", events[2].Text)
	assert.Equal(t, "The value must be within [35, 43].", events[6].Text)
	assert.Equal(t, "/sinusitis/results/abc", events[10].Href)
}

func TestPresenter_EOF(t *testing.T) {
	svc := ports.DecisionFunc(func(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
		return domain.NextQuestion{Question: domain.Question{Label: "Side?", Variable: "side", Type: domain.InputChoice, Options: []string{"Left", "Right"}}}, nil
	})
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, locale.English)
	c := interview.New(svc, p)

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, p.Run(context.Background()), io.EOF)
}

func TestPresenter_Decode(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard, locale.Vietnamese)
	assert.Equal(t, "Có", p.decode("true"))
	assert.Equal(t, "Không", p.decode("false"))
	assert.Equal(t, "37.2", p.decode("37.2"))
	assert.Equal(t, "Trong, loãng", p.decode(`"Trong, loãng"`))
	assert.Equal(t, "2", p.decode("2"))
	assert.Equal(t, "yes", p.decode("yes"))
}
