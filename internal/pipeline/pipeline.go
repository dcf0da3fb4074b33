// Package pipeline wires the governance stages into a single per-message
// evaluation: sanitize → classify → semaphore → strategy, then response
// generation and background risk analysis through collaborator interfaces.
// The evaluation itself is a pure function of its inputs; all I/O lives
// behind the collaborators.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cortezalberto/aulaguard/internal/classify"
	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/sanitize"
	"github.com/cortezalberto/aulaguard/internal/strategy"
)

// ResponseGenerator produces the tutor reply. The pipeline decides whether
// and how it is called; it never talks to a model API itself.
type ResponseGenerator interface {
	Generate(ctx context.Context, strat model.Strategy, prompt string, history []model.Turn) (string, error)
}

// TraceSink persists evaluation records. Fire-and-forget from the
// pipeline's perspective: failures are logged and swallowed.
type TraceSink interface {
	Record(ctx context.Context, rec Record) error
}

// Request is one student message plus its session context.
type Request struct {
	SessionID  string
	StudentID  string
	Message    string
	History    []model.Turn
	Aggregates model.SessionAggregates
}

// Decision is the synchronous output of the governance stages. It is fully
// computed before any generation happens and does not depend on whether
// generation later succeeds.
type Decision struct {
	Sanitized      string               `json:"sanitized"`
	PIIFound       bool                 `json:"pii_found"`
	Classification model.Classification `json:"classification"`
	Governance     governance.Decision  `json:"governance"`
	Strategy       model.Strategy       `json:"strategy"`
}

// Outcome is a Decision plus the generated response, when one was allowed.
type Outcome struct {
	Decision
	Response string `json:"response,omitempty"`
}

// Pipeline executes the governance stages. Safe for concurrent use: it
// holds no per-request mutable state.
type Pipeline struct {
	cfg      *governance.Config
	cfgHash  string
	gen      ResponseGenerator
	analyzer *Analyzer
	logger   *zap.Logger
}

// Option configures a Pipeline at creation time.
type Option func(*Pipeline)

// WithGenerator sets the response generator collaborator.
func WithGenerator(g ResponseGenerator) Option {
	return func(p *Pipeline) { p.gen = g }
}

// WithTraceSink enables background risk analysis and trace recording into
// the given sink.
func WithTraceSink(s TraceSink) Option {
	return func(p *Pipeline) { p.analyzer = newAnalyzer(s, p.cfg, p.cfgHash, p.logger, defaultQueueSize) }
}

// WithLogger sets the structured logger. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline with the given governance config (nil for
// defaults). Apply WithLogger before WithTraceSink so the analyzer
// inherits the logger.
func New(cfg *governance.Config, cfgHash string, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = governance.DefaultConfig()
	}
	p := &Pipeline{cfg: cfg, cfgHash: cfgHash, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Evaluate runs the synchronous stages. No I/O, no side effects, total
// over its input domain.
func (p *Pipeline) Evaluate(req Request) Decision {
	clean, piiFound := sanitize.Sanitize(req.Message)
	c := classify.ClassifyWithExtra(clean, req.History, p.cfg.DelegationPhrases, p.cfg.EvasionPhrases)
	gd := governance.DecideSemaphore(c, req.Aggregates, p.cfg)
	strat := strategy.Select(c, gd.Semaphore, gd.Restrictions)

	return Decision{
		Sanitized:      clean,
		PIIFound:       piiFound,
		Classification: c,
		Governance:     gd,
		Strategy:       strat,
	}
}

// Process evaluates the message, generates a response when the strategy
// allows one, and dispatches risk analysis plus trace recording in the
// background. A blocked turn is a normal outcome, not an error. When
// generation fails the governance decision is still returned alongside the
// error so the caller can fall back to a template response.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Outcome, error) {
	d := p.Evaluate(req)
	out := &Outcome{Decision: d}

	if d.Strategy.ShouldBlock || p.gen == nil {
		p.dispatch(req, d, "")
		return out, nil
	}

	resp, err := p.gen.Generate(ctx, d.Strategy, d.Sanitized, req.History)
	if err != nil {
		// The decision stands regardless of generation failure; the risk
		// pass simply runs without response text.
		p.dispatch(req, d, "")
		return out, fmt.Errorf("response generation: %w", err)
	}
	out.Response = resp

	p.dispatch(req, d, resp)
	return out, nil
}

// dispatch hands the turn to the background analyzer, if one is attached.
func (p *Pipeline) dispatch(req Request, d Decision, response string) {
	if p.analyzer == nil {
		return
	}
	p.analyzer.Submit(analysisJob{
		sessionID:  req.SessionID,
		studentID:  req.StudentID,
		aggregates: req.Aggregates,
		decision:   d,
		response:   response,
	})
}

// Close drains the background analyzer. Call once the pipeline is done.
func (p *Pipeline) Close() {
	if p.analyzer != nil {
		p.analyzer.Close()
	}
}

// utcNow returns the current UTC time in ISO format with Z suffix.
func utcNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
