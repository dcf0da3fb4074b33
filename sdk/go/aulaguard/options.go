package aulaguard

import (
	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/pipeline"
)

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath string
	tracePath  string
	generator  pipeline.ResponseGenerator
	logger     *zap.Logger
}

// WithConfig sets the path to a governance YAML file.
func WithConfig(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithTraceDB enables SQLite trace recording at the given path.
func WithTraceDB(path string) Option {
	return func(c *clientConfig) { c.tracePath = path }
}

// WithGenerator sets the response generator for non-blocked turns.
// Without one, Process returns the governance decision with no reply.
func WithGenerator(g pipeline.ResponseGenerator) Option {
	return func(c *clientConfig) { c.generator = g }
}

// WithLogger sets the structured logger. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
