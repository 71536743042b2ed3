package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// maxResponseSize bounds the body read from the decision service.
const maxResponseSize = 1 << 20

// Client is a ports.DecisionService reached over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
	header   http.Header
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// NewClient creates a client for the service at baseURL.
// A baseURL without path gets DefaultEndpoint appended.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid service url %q: scheme must be http or https", baseURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultEndpoint
	}

	c := &Client{
		endpoint: u.String(),
		http:     http.DefaultClient,
		logger:   logging.NewNop(),
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Next posts the full AnswerSet and interprets the response.
// Every failure is returned as *domain.TransportError.
func (c *Client) Next(ctx context.Context, answers *domain.AnswerSet) (domain.Outcome, error) {
	body, err := json.Marshal(NextQuestionRequest{Answers: answers})
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to encode answers: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode >= 500 {
		// The service reports a failed decision as a 5xx carrying {"ok":false}.
		if outcome, err := Decode(data); err == nil && outcome.Kind() == domain.OutcomeRefusal {
			c.logger.Debug("decision service refused", "status", resp.StatusCode, "body", truncate(string(data), 200))
			return outcome, nil
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("decision service error", "status", resp.StatusCode, "body", truncate(string(data), 200))
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode))}
	}

	outcome, err := Decode(data)
	if err != nil {
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	return outcome, nil
}

// Decode interprets a response body. The shape is determined by the fields present.
func Decode(data []byte) (domain.Outcome, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	ok, present := raw["ok"].(bool)
	if !present {
		return nil, fmt.Errorf("%w: missing ok", domain.ErrMalformedResponse)
	}
	if !ok {
		reason, _ := raw["error"].(string)
		return domain.Refusal{Reason: reason}, nil
	}

	done := false
	if v, exists := raw["done"]; exists && v != nil {
		b, isBool := v.(bool)
		if !isBool {
			return nil, fmt.Errorf("%w: done is not a boolean", domain.ErrMalformedResponse)
		}
		done = b
	}

	if done {
		var s Summary
		if err := decodeStrict(raw["summary"], &s); err != nil {
			return nil, fmt.Errorf("%w: summary: %w", domain.ErrMalformedResponse, err)
		}
		href, _ := raw["result_url"].(string)
		if s.Label == "" || href == "" {
			return nil, fmt.Errorf("%w: summary needs label and result_url", domain.ErrMalformedResponse)
		}
		return domain.Conclusion{Label: s.Label, Severity: s.Severity, ResultURL: href}, nil
	}

	var wq Question
	if err := decodeStrict(raw["question"], &wq); err != nil {
		return nil, fmt.Errorf("%w: question: %w", domain.ErrMalformedResponse, err)
	}
	q, err := wq.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return domain.NextQuestion{Question: q}, nil
}

// decodeStrict decodes a JSON object into out, rejecting values of the wrong type.
// Unknown keys are ignored.
func decodeStrict(in any, out any) error {
	obj, ok := in.(map[string]any)
	if !ok {
		return fmt.Errorf("expected an object, got %T", in)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(obj)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
