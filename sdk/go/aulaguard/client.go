package aulaguard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/pipeline"
	"github.com/cortezalberto/aulaguard/internal/trace"
)

// Client holds the governance pipeline for in-process evaluation.
// Thread-safe for concurrent calls.
type Client struct {
	pipe  *pipeline.Pipeline
	store *trace.Store
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}

	govCfg, hash, err := governance.LoadConfigWithHash(cfg.configPath)
	if err != nil {
		return nil, fmt.Errorf("aulaguard: failed to load governance config: %w", err)
	}

	c := &Client{}
	pipeOpts := []pipeline.Option{pipeline.WithLogger(cfg.logger)}
	if cfg.generator != nil {
		pipeOpts = append(pipeOpts, pipeline.WithGenerator(cfg.generator))
	}
	if cfg.tracePath != "" {
		store, err := trace.Open(cfg.tracePath, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("aulaguard: failed to open trace store: %w", err)
		}
		c.store = store
		pipeOpts = append(pipeOpts, pipeline.WithTraceSink(store))
	}

	c.pipe = pipeline.New(govCfg, hash, pipeOpts...)
	return c, nil
}

// Evaluate runs the governance stages without generating a reply or
// recording a trace. Pure and deterministic for a given request.
func (c *Client) Evaluate(req Request) Result {
	d := c.pipe.Evaluate(toInternalRequest(req))
	return toResult(d)
}

// Process evaluates the message and, when allowed and a generator is
// configured, returns the generated tutor reply. A governance rejection
// returns a *BlockedError carrying the full decision.
func (c *Client) Process(ctx context.Context, req Request) (string, Result, error) {
	out, err := c.pipe.Process(ctx, toInternalRequest(req))
	if out == nil {
		return "", Result{}, err
	}
	result := toResult(out.Decision)
	if result.Blocked {
		return "", result, &BlockedError{Result: result}
	}
	return out.Response, result, err
}

// Close drains background analysis and closes the trace store.
func (c *Client) Close() error {
	c.pipe.Close()
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func toInternalRequest(req Request) pipeline.Request {
	history := make([]model.Turn, len(req.History))
	for i, t := range req.History {
		history[i] = model.Turn{Role: t.Role, Content: t.Content}
	}
	return pipeline.Request{
		SessionID: req.SessionID,
		StudentID: req.StudentID,
		Message:   req.Message,
		History:   history,
		Aggregates: model.SessionAggregates{
			AverageAIDependency:            req.AIDependency,
			ConsecutiveRequestsWithoutWork: req.NoWorkStreak,
		},
	}
}

func toResult(d pipeline.Decision) Result {
	restrictions := make([]string, len(d.Governance.Restrictions))
	for i, r := range d.Governance.Restrictions {
		restrictions[i] = string(r)
	}
	return Result{
		Semaphore:    Semaphore(d.Governance.Semaphore),
		Reason:       d.Governance.Reason,
		RuleID:       d.Governance.RuleID,
		Intent:       string(d.Classification.Intent),
		ResponseType: string(d.Strategy.ResponseType),
		HelpLevel:    string(d.Strategy.HelpLevel),
		Restrictions: restrictions,
		Blocked:      d.Strategy.ShouldBlock,
		BlockReason:  d.Strategy.BlockReason,
		Sanitized:    d.Sanitized,
		PIIFound:     d.PIIFound,
	}
}
