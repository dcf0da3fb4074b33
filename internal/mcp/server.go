// Package mcp exposes the governance pipeline as MCP tools over stdio, so
// an editor or agent host can evaluate student messages without linking the
// module directly.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/generate"
	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/pipeline"
	"github.com/cortezalberto/aulaguard/internal/trace"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string // governance YAML, empty for the default location
	TracePath  string // SQLite trace db, empty disables tracing
	APIKey     string // chat API key, empty disables generation
	BaseURL    string // chat API base URL override
	Model      string // chat model name
}

// Server wraps the MCP SDK server around the governance pipeline.
type Server struct {
	mcpServer *mcpsdk.Server
	cfg       Config
	logger    *zap.Logger

	mu      sync.RWMutex
	pipe    *pipeline.Pipeline
	govCfg  *governance.Config
	cfgHash string
	store   *trace.Store
	hasGen  bool
}

// New creates an MCP server with the governance config loaded and tools
// registered.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	govCfg, hash, err := governance.LoadConfigWithHash(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load governance config: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		govCfg:  govCfg,
		cfgHash: hash,
	}

	if cfg.TracePath != "" {
		store, err := trace.Open(cfg.TracePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open trace store: %w", err)
		}
		s.store = store
	}

	s.pipe = s.buildPipeline(govCfg, hash)

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "aulaguard",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

func (s *Server) buildPipeline(cfg *governance.Config, hash string) *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithLogger(s.logger)}
	if s.cfg.APIKey != "" {
		genOpts := []generate.Option{generate.WithLogger(s.logger)}
		if s.cfg.Model != "" {
			genOpts = append(genOpts, generate.WithModel(s.cfg.Model))
		}
		opts = append(opts, pipeline.WithGenerator(generate.New(s.cfg.APIKey, s.cfg.BaseURL, genOpts...)))
		s.hasGen = true
	}
	if s.store != nil {
		opts = append(opts, pipeline.WithTraceSink(s.store))
	}
	return pipeline.New(cfg, hash, opts...)
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// ReloadConfig re-reads the governance YAML and swaps the pipeline.
// Called by the hot-reloader on file change.
func (s *Server) ReloadConfig() error {
	govCfg, hash, err := governance.LoadConfigWithHash(s.cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("reload governance config: %w", err)
	}

	s.mu.Lock()
	old := s.pipe
	s.pipe = s.buildPipeline(govCfg, hash)
	s.govCfg = govCfg
	s.cfgHash = hash
	s.mu.Unlock()

	// Drain the replaced analyzer off the swap path.
	go old.Close()

	s.logger.Info("governance config reloaded", zap.String("hash", hash))
	return nil
}

// Close drains the pipeline and closes the trace store.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// registerTools adds all aulaguard tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tutor_evaluate",
		Description: "Evaluate a student message: sanitize, classify, decide semaphore and select a pedagogical strategy. Generates a tutor reply when a model is configured and the turn is not blocked.",
	}, s.handleEvaluate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tutor_sanitize",
		Description: "Redact personal data (emails, phone numbers, ID numbers, card numbers) from a text.",
	}, s.handleSanitize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tutor_risks",
		Description: "Run the risk detectors on a student message and report risks, score and severity band without generating a reply.",
	}, s.handleRisks)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tutor_policy",
		Description: "Show the active governance thresholds and config hash.",
	}, s.handlePolicy)
}
