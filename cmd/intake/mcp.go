package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/adapters/mcp"
	"github.com/aretw0/intake/pkg/decision"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the reference decision engine as an MCP Server, so agents can drive
an interview with the next_question tool.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		bankRef, _ := cmd.Flags().GetString("bank")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)
		slog.SetDefault(logger)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		bank, err := cli.LoadBank(ctx, bankRef)
		if err != nil {
			return fmt.Errorf("failed to load bank: %w", err)
		}
		srv := mcp.NewServer(decision.NewEngine(bank, decision.WithLogger(logger)))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Intake MCP Server (Stdio)", "bank", bank.Name)
			return srv.ServeStdio()
		case "sse":
			slog.Info("Starting Intake MCP Server (SSE)", "port", port, "bank", bank.Name)
			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			slog.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("bank", cli.EnvOr(cli.EnvBank, ""), "builtin:<name>, a YAML/JSON file or a directory of bank documents")
}
