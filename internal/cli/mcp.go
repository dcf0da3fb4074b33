package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	guardmcp "github.com/cortezalberto/aulaguard/internal/mcp"
)

var (
	mcpConfig  string
	mcpTraceDB string
	mcpAPIKey  string
	mcpBaseURL string
	mcpModel   string
	mcpWatch   bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpConfig, "config", "", "Path to governance YAML (default ~/.aulaguard/governance.yaml)")
	mcpCmd.Flags().StringVar(&mcpTraceDB, "trace-db", "", "SQLite trace database path (optional)")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "Chat API key; also read from AULAGUARD_API_KEY")
	mcpCmd.Flags().StringVar(&mcpBaseURL, "base-url", "", "Chat API base URL override (Ollama, Groq, vLLM)")
	mcpCmd.Flags().StringVar(&mcpModel, "model", "", "Chat model name")
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Hot-reload the governance config on change")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for host integration",
	Long: "Runs aulaguard as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes governance tools: tutor_evaluate, tutor_sanitize, tutor_risks,\n" +
		"tutor_policy.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	apiKey := mcpAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("AULAGUARD_API_KEY")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	srv, err := guardmcp.New(guardmcp.Config{
		ConfigPath: mcpConfig,
		TracePath:  mcpTraceDB,
		APIKey:     apiKey,
		BaseURL:    mcpBaseURL,
		Model:      mcpModel,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	if mcpWatch && mcpConfig != "" {
		reloader, err := guardmcp.NewReloader(srv, []string{mcpConfig})
		if err != nil {
			return fmt.Errorf("failed to create reloader: %w", err)
		}
		go reloader.Run(ctx)
	}

	fmt.Fprintln(os.Stderr, "aulaguard MCP server running on stdio")
	return srv.Run(ctx)
}
