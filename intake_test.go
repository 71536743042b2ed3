package intake_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/intake"
	httpadapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/locale"
	"github.com/aretw0/intake/pkg/presentation/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceService(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	srv, err := httpadapter.NewServer(
		decision.NewEngine(decision.DefaultBank(), decision.WithResultStore(store)),
		httpadapter.WithResultStore(store),
	)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func events(t *testing.T, out *bytes.Buffer) []jsonl.Event {
	t.Helper()
	var evs []jsonl.Event
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var ev jsonl.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		evs = append(evs, ev)
	}
	return evs
}

func TestSession_RunToConclusion(t *testing.T) {
	ts := referenceService(t)

	var out bytes.Buffer
	in := strings.NewReader("4\ntrue\n")
	s, err := intake.New(ts.URL,
		intake.WithPresenter(jsonl.New(in, &out, locale.English)),
		intake.WithMessages(locale.English),
		intake.WithSessionID("test-session"),
	)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, domain.PhaseTerminal, s.Controller().Phase())
	assert.Equal(t, "test-session", s.Controller().SessionID())

	evs := events(t, &out)
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	assert.Equal(t, jsonl.EventAction, last.Type)
	assert.Equal(t, locale.English.FollowUp, last.Label)
	assert.True(t, strings.HasPrefix(last.Href, httpadapter.DefaultResultsPath+"/"))

	answers := s.Controller().Answers()
	assert.Equal(t, []string{"thoi_gian_trieu_chung", "sung_quanh_mat"}, answers.Keys())
}

func TestSession_EOFAbandons(t *testing.T) {
	ts := referenceService(t)

	var out bytes.Buffer
	s, err := intake.New(ts.URL, intake.WithPresenter(jsonl.New(strings.NewReader(""), &out, locale.English)))
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, domain.PhaseTerminal, s.Controller().Phase())
	assert.Equal(t, 0, s.Controller().Answers().Len())
}

type refusing struct{}

func (refusing) Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
	return domain.Refusal{}, nil
}

func TestSession_WithDecisionService(t *testing.T) {
	var out bytes.Buffer
	s, err := intake.New("", intake.WithDecisionService(refusing{}), intake.WithPresenter(jsonl.New(strings.NewReader(""), &out, locale.English)))
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background()))
	evs := events(t, &out)
	require.NotEmpty(t, evs)
	assert.Equal(t, locale.English.Refusal, evs[0].Text)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := intake.New("ftp://example.test")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(intake.Version))
}
