package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/intake"
	httpadapter "github.com/aretw0/intake/pkg/adapters/http"
	loamadapter "github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/presentation"
	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BankURI is the resource exposing the active bank.
const BankURI = "intake://bank"

// Engine defines what the MCP server needs from the decision engine.
type Engine interface {
	Decide(ctx context.Context, answers map[string]any) (domain.Outcome, error)
	Bank() *decision.Bank
}

// AnswersArgs carries the answers collected so far.
type AnswersArgs struct {
	Answers map[string]any `json:"answers"`
}

// BankArgs points at a bank file or directory.
type BankArgs struct {
	Path string `json:"path"`
}

// ValidationReport lists the problems found in a set of answers.
type ValidationReport struct {
	Valid  bool     `json:"valid" jsonschema_description:"True when every answer matches its question"`
	Errors []string `json:"errors,omitempty" jsonschema_description:"One entry per rejected answer"`
}

// BankReport summarizes a compiled bank.
type BankReport struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name,omitempty"`
	Questions   int    `json:"questions"`
	Conclusions int    `json:"conclusions"`
	Error       string `json:"error,omitempty"`
}

// Server exposes the decision engine as an MCP Server.
type Server struct {
	engine    Engine
	policy    presentation.InputPolicy
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		policy:    presentation.DefaultInputPolicy(),
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: next_question
	nextTool := mcp.NewTool("next_question",
		mcp.WithDescription("Decide the next step of the interview from every answer collected so far. Returns a question, a conclusion or a refusal."),
		mcp.WithObject("answers", mcp.Required(), mcp.Description("Answers keyed by question variable (boolean, number or option text)")),
		mcp.WithOutputSchema[httpadapter.NextQuestionResponse](),
	)
	s.mcpServer.AddTool(nextTool, mcp.NewStructuredToolHandler(s.handleNextQuestion))

	// TOOL: validate_answers
	answersTool := mcp.NewTool("validate_answers",
		mcp.WithDescription("Check answers against the questions of the active bank."),
		mcp.WithObject("answers", mcp.Required(), mcp.Description("Answers keyed by question variable")),
		mcp.WithOutputSchema[ValidationReport](),
	)
	s.mcpServer.AddTool(answersTool, mcp.NewStructuredToolHandler(s.handleValidateAnswers))

	// TOOL: validate_bank
	bankTool := mcp.NewTool("validate_bank",
		mcp.WithDescription("Compile a bank file (YAML or JSON) or a directory of markdown documents and report problems."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the bank")),
		mcp.WithOutputSchema[BankReport](),
	)
	s.mcpServer.AddTool(bankTool, mcp.NewStructuredToolHandler(s.handleValidateBank))
}

func (s *Server) handleNextQuestion(ctx context.Context, request mcp.CallToolRequest, args AnswersArgs) (httpadapter.NextQuestionResponse, error) {
	answers := make(map[string]any, len(args.Answers))
	for k, v := range args.Answers {
		if text, ok := v.(string); ok {
			clean, err := s.policy.Clean(text)
			if err != nil {
				slog.Warn("MCP next_question: answer rejected", "variable", k, "error", err)
				return httpadapter.NextQuestionResponse{}, fmt.Errorf("answer %q rejected: %w", k, err)
			}
			v = clean
		}
		answers[k] = v
	}

	outcome, err := s.engine.Decide(ctx, answers)
	if err != nil {
		return httpadapter.NextQuestionResponse{}, fmt.Errorf("decide failed: %w", err)
	}
	return httpadapter.ResponseFor(outcome), nil
}

func (s *Server) handleValidateAnswers(ctx context.Context, request mcp.CallToolRequest, args AnswersArgs) (ValidationReport, error) {
	err := s.engine.Bank().CheckAnswers(args.Answers)
	if err == nil {
		return ValidationReport{Valid: true}, nil
	}

	report := ValidationReport{}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			report.Errors = append(report.Errors, e.Error())
		}
	} else {
		report.Errors = []string{err.Error()}
	}
	sort.Strings(report.Errors)
	return report, nil
}

func (s *Server) handleValidateBank(ctx context.Context, request mcp.CallToolRequest, args BankArgs) (BankReport, error) {
	if args.Path == "" {
		return BankReport{}, errors.New("path is required")
	}
	bank, err := loamadapter.Open(ctx, args.Path)
	if err != nil {
		return BankReport{Error: err.Error()}, nil
	}
	return BankReport{
		Valid:       true,
		Name:        bank.Name,
		Questions:   len(bank.Questions),
		Conclusions: len(bank.Conclusions),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: intake://bank
	s.mcpServer.AddResource(mcp.NewResource(BankURI, "Active Question Bank",
		mcp.WithMIMEType("application/json"),
	), s.readBank)
}

func (s *Server) readBank(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Bank())
	if err != nil {
		return nil, fmt.Errorf("failed to encode bank: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      BankURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
