package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/presentation"
	"github.com/go-chi/chi/v5"
)

// DefaultResultsPath is where result records are served.
const DefaultResultsPath = "/sinusitis/results"

// Decider is the engine behind the reference service.
type Decider interface {
	Decide(ctx context.Context, answers map[string]any) (domain.Outcome, error)
}

// Server is the reference decision service.
type Server struct {
	decider  Decider
	store    ports.ResultStore
	logger   *slog.Logger
	contract *contract
	policy   presentation.InputPolicy

	endpoint    string
	resultsPath string
	version     string
	bankName    string
	metrics     http.Handler
	onDecision  func(domain.OutcomeKind)
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithResultStore serves result records from store.
func WithResultStore(store ports.ResultStore) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithServerLogger configures the structured logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithEndpoint mounts the next-question operation at path.
func WithEndpoint(path string) ServerOption {
	return func(s *Server) {
		s.endpoint = path
	}
}

// WithResultsPath mounts result records under path.
func WithResultsPath(path string) ServerOption {
	return func(s *Server) {
		s.resultsPath = strings.TrimSuffix(path, "/")
	}
}

// WithVersion reports version on /info.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithBankName reports the bank on /info.
func WithBankName(name string) ServerOption {
	return func(s *Server) {
		s.bankName = name
	}
}

// WithMetricsHandler exposes h on /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithDecisionObserver is called with the kind of every decided outcome.
func WithDecisionObserver(fn func(domain.OutcomeKind)) ServerOption {
	return func(s *Server) {
		s.onDecision = fn
	}
}

// WithInputPolicy sanitizes text answers before they reach the engine.
func WithInputPolicy(policy presentation.InputPolicy) ServerOption {
	return func(s *Server) {
		s.policy = policy
	}
}

// NewServer creates the reference service around decider.
func NewServer(decider Decider, opts ...ServerOption) (*Server, error) {
	c, err := loadContract(context.Background())
	if err != nil {
		return nil, err
	}
	s := &Server{
		decider:     decider,
		logger:      logging.NewNop(),
		contract:    c,
		policy:      presentation.DefaultInputPolicy(),
		endpoint:    DefaultEndpoint,
		resultsPath: DefaultResultsPath,
		version:     "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	reject := func(req *http.Request, err error) {
		s.logger.Warn("request rejected by contract", "path", req.URL.Path, "err", err)
	}

	r.With(s.contract.validate("nextQuestion", reject)).Post(s.endpoint, s.NextQuestion)
	r.With(s.contract.validate("getResult", reject)).Get(s.resultsPath+"/{id}", s.GetResult)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NextQuestion handles POST on the interview-progression endpoint.
func (s *Server) NextQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answers map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, NextQuestionResponse{OK: false, Error: "invalid request body"})
		s.logger.Warn("NextQuestion: invalid request body", "err", err)
		return
	}
	if body.Answers == nil {
		body.Answers = map[string]any{}
	}

	// Sanitize text answers (global input policy)
	for k, v := range body.Answers {
		text, ok := v.(string)
		if !ok {
			continue
		}
		clean, err := s.policy.Clean(text)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, NextQuestionResponse{OK: false, Error: fmt.Sprintf("invalid answer %q: %v", k, err)})
			s.logger.Warn("NextQuestion: answer rejected", "variable", k, "err", err)
			return
		}
		body.Answers[k] = clean
	}

	outcome, err := s.decider.Decide(r.Context(), body.Answers)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, NextQuestionResponse{OK: false, Error: "decision failed"})
		s.logger.Error("NextQuestion: decide failed", "err", err)
		return
	}
	if s.onDecision != nil {
		s.onDecision(outcome.Kind())
	}
	s.logger.Debug("NextQuestion: decided", "kind", outcome.Kind(), "answers", len(body.Answers))

	writeJSON(w, http.StatusOK, ResponseFor(outcome))
}

// GetResult handles GET on a result record.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Result not found or expired", http.StatusNotFound)
		return
	}
	id := chi.URLParam(r, "id")
	result, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			http.Error(w, "Result not found or expired", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load result", http.StatusInternalServerError)
		s.logger.Error("GetResult: load failed", "id", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "intake",
		"version":     strings.TrimSpace(s.version),
		"api_version": s.contract.APIVersion(),
		"bank":        s.bankName,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
