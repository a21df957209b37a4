// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use the corpus and verifier via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/sciencedecoder/decoder/internal/mcp"
	"github.com/sciencedecoder/decoder/internal/textsource"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the decoder as an MCP (Model Context Protocol) server over
stdio, exposing add_study, search_studies, and verify_claims tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  decoder mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "decoder": {
  #       "command": "decoder",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	server := mcpserver.NewMCPServer(
		"Science Decoder",
		"0.1.0",
	)

	handlers := mcp.RegisterTools(server, app.studies, app.articles, app.claimStore,
		app.embedder, app.ranker, app.pipeline, app.index)
	handlers.SetFetcher(textsource.NewURLFetcher(app.cfg.Timeout))

	if !quiet {
		log.Println("Decoder MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
