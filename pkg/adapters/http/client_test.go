package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubService(t *testing.T, status int, body string, seen *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultEndpoint, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		if seen != nil {
			*seen = append(*seen, string(data))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RequestBody(t *testing.T) {
	var seen []string
	srv := stubService(t, 200, `{"ok":false}`, &seen)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	answers := domain.NewAnswerSet()
	answers.Set("fever", true)
	answers.Set("days", 7.0)
	answers.Set("pain_side", "Left")

	_, err = c.Next(context.Background(), answers)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.JSONEq(t, `{"answers":{"fever":true,"days":7,"pain_side":"Left"}}`, seen[0])
}

func TestClient_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.Outcome
	}{
		{
			name: "Refusal",
			body: `{"ok":false}`,
			want: domain.Refusal{},
		},
		{
			name: "Refusal With Reason",
			body: `{"ok":false,"error":"Finalize error"}`,
			want: domain.Refusal{Reason: "Finalize error"},
		},
		{
			name: "Conclusion",
			body: `{"ok":true,"done":true,"summary":{"label":"Likely sinusitis"},"result_url":"/r/123"}`,
			want: domain.Conclusion{Label: "Likely sinusitis", ResultURL: "/r/123"},
		},
		{
			name: "Conclusion With Severity",
			body: `{"ok":true,"done":true,"summary":{"label":"Viêm xoang cấp","severity":"medium"},"result_url":"/sinusitis/results/abc"}`,
			want: domain.Conclusion{Label: "Viêm xoang cấp", Severity: "medium", ResultURL: "/sinusitis/results/abc"},
		},
		{
			name: "Boolean Question",
			body: `{"ok":true,"done":false,"question":{"id":"fever","label":"Sốt?","variable":"fever","type":"boolean"}}`,
			want: domain.NextQuestion{Question: domain.Question{ID: "fever", Label: "Sốt?", Variable: "fever", Type: domain.InputBoolean}},
		},
		{
			name: "Radio Question Without Done",
			body: `{"ok":true,"question":{"label":"Side?","variable":"pain_side","type":"radio","options":["Left","Right","Both"]}}`,
			want: domain.NextQuestion{Question: domain.Question{Label: "Side?", Variable: "pain_side", Type: domain.InputChoice, Options: []string{"Left", "Right", "Both"}}},
		},
		{
			name: "Number Question With Null Bounds",
			body: `{"ok":true,"done":false,"question":{"label":"Temp?","variable":"t","type":"number","min":35,"max":null,"step":0.1}}`,
			want: domain.NextQuestion{Question: domain.Question{Label: "Temp?", Variable: "t", Type: domain.InputNumber, Min: domain.Float(35), Step: domain.Float(0.1)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := stubService(t, 200, tt.body, nil)
			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			got, err := c.Next(context.Background(), domain.NewAnswerSet())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_TransportErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{"Server Error", 500, `internal error`, false},
		{"Server Error With Question", 503, `{"ok":true,"question":{"label":"x","variable":"v","type":"boolean"}}`, false},
		{"Client Error Refusal", 400, `{"ok":false}`, false},
		{"Not Found", 404, `not found`, false},
		{"Invalid JSON", 200, `<html>`, false},
		{"Missing ok", 200, `{"done":true}`, true},
		{"Summary Without Label", 200, `{"ok":true,"done":true,"summary":{},"result_url":"/r"}`, true},
		{"Summary Without URL", 200, `{"ok":true,"done":true,"summary":{"label":"x"}}`, true},
		{"Done Not Boolean", 200, `{"ok":true,"done":"yes"}`, true},
		{"Missing Question", 200, `{"ok":true,"done":false}`, true},
		{"Question Wrong Types", 200, `{"ok":true,"question":{"label":"x","variable":"v","type":"number","min":"0"}}`, true},
		{"Empty Variable", 200, `{"ok":true,"question":{"label":"x","variable":"","type":"boolean"}}`, true},
		{"Unknown Type", 200, `{"ok":true,"question":{"label":"x","variable":"v","type":"slider"}}`, true},
		{"Radio Without Options", 200, `{"ok":true,"question":{"label":"x","variable":"v","type":"radio","options":[]}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := stubService(t, tt.status, tt.body, nil)
			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.Next(context.Background(), domain.NewAnswerSet())
			require.Error(t, err)

			var te *domain.TransportError
			require.ErrorAs(t, err, &te)
			assert.ErrorIs(t, err, domain.ErrTransport)
			assert.Equal(t, tt.status, te.StatusCode)
			if tt.malformed {
				assert.ErrorIs(t, err, domain.ErrMalformedResponse)
			}
		})
	}
}

func TestClient_ServerErrorRefusal(t *testing.T) {
	srv := stubService(t, 500, `{"ok":false,"error":"Finalize error: x"}`, nil)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	got, err := c.Next(context.Background(), domain.NewAnswerSet())
	require.NoError(t, err)
	assert.Equal(t, domain.Refusal{Reason: "Finalize error: x"}, got)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)
	_, err = c.Next(context.Background(), domain.NewAnswerSet())

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
}

func TestClient_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Next(ctx, domain.NewAnswerSet())
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("http://localhost:5000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/sinusitis/api/next_question", c.Endpoint())

	c, err = NewClient("https://example.test/custom/next")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/custom/next", c.Endpoint())

	_, err = NewClient("ftp://example.test")
	assert.Error(t, err)
	_, err = NewClient("://bad")
	assert.Error(t, err)
}

func TestClient_Header(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("X-Session")
		json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHeader("X-Session", "abc"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, err = c.Next(context.Background(), domain.NewAnswerSet())
	require.NoError(t, err)
	assert.Equal(t, "abc", <-got)
}
