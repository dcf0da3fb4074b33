package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/pipeline"
	"github.com/cortezalberto/aulaguard/internal/risk"
	"github.com/cortezalberto/aulaguard/internal/sanitize"
)

// --- Input/Output types ---

// HistoryTurn is one prior exchange passed with a message.
type HistoryTurn struct {
	Role    string `json:"role" jsonschema:"student or tutor"`
	Content string `json:"content"`
}

// EvaluateInput defines parameters for the tutor_evaluate tool.
type EvaluateInput struct {
	SessionID    string        `json:"session_id,omitempty" jsonschema:"session identifier for tracing"`
	StudentID    string        `json:"student_id,omitempty" jsonschema:"student identifier for tracing"`
	Message      string        `json:"message" jsonschema:"the student message to evaluate"`
	History      []HistoryTurn `json:"history,omitempty" jsonschema:"prior conversation turns"`
	AIDependency float64       `json:"ai_dependency,omitempty" jsonschema:"average AI dependency for the session, 0 to 1"`
	NoWorkStreak int           `json:"no_work_streak,omitempty" jsonschema:"consecutive requests without own work shown"`
}

// EvaluateOutput carries the governance decision and, when allowed and
// configured, the generated tutor reply.
type EvaluateOutput struct {
	Semaphore    string   `json:"semaphore"`
	Reason       string   `json:"reason"`
	RuleID       string   `json:"rule_id"`
	Intent       string   `json:"intent"`
	ResponseType string   `json:"response_type"`
	HelpLevel    string   `json:"help_level"`
	Restrictions []string `json:"restrictions,omitempty"`
	Blocked      bool     `json:"blocked,omitempty"`
	BlockReason  string   `json:"block_reason,omitempty"`
	PIIFound     bool     `json:"pii_found,omitempty"`
	Response     string   `json:"response,omitempty"`
}

// SanitizeInput defines parameters for the tutor_sanitize tool.
type SanitizeInput struct {
	Text string `json:"text" jsonschema:"text to redact"`
}

// SanitizeOutput contains the redacted text.
type SanitizeOutput struct {
	Sanitized string `json:"sanitized"`
	PIIFound  bool   `json:"pii_found"`
}

// RisksInput defines parameters for the tutor_risks tool.
type RisksInput struct {
	Message      string  `json:"message" jsonschema:"the student message to analyze"`
	AIDependency float64 `json:"ai_dependency,omitempty" jsonschema:"average AI dependency for the session, 0 to 1"`
	NoWorkStreak int     `json:"no_work_streak,omitempty" jsonschema:"consecutive requests without own work shown"`
}

// RiskItem describes one detected risk.
type RiskItem struct {
	Dimension      string   `json:"dimension"`
	Type           string   `json:"type"`
	Level          string   `json:"level"`
	Evidence       []string `json:"evidence,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// RisksOutput lists detected risks with the aggregate score and band.
type RisksOutput struct {
	Risks []RiskItem `json:"risks"`
	Score int        `json:"score"`
	Band  string     `json:"band"`
}

// PolicyInput is empty.
type PolicyInput struct{}

// PolicyOutput shows the active thresholds and config hash.
type PolicyOutput struct {
	DependencyYellow float64 `json:"dependency_yellow"`
	NoWorkStreak     int     `json:"no_work_streak"`
	ConfigHash       string  `json:"config_hash"`
	Generation       bool    `json:"generation_enabled"`
	Tracing          bool    `json:"tracing_enabled"`
}

// --- Handlers ---

func (s *Server) handleEvaluate(ctx context.Context, req *mcpsdk.CallToolRequest, input EvaluateInput) (*mcpsdk.CallToolResult, EvaluateOutput, error) {
	history := make([]model.Turn, len(input.History))
	for i, h := range input.History {
		history[i] = model.Turn{Role: h.Role, Content: h.Content}
	}

	s.mu.RLock()
	pipe := s.pipe
	s.mu.RUnlock()

	out, err := pipe.Process(ctx, pipeline.Request{
		SessionID: input.SessionID,
		StudentID: input.StudentID,
		Message:   input.Message,
		History:   history,
		Aggregates: model.SessionAggregates{
			AverageAIDependency:            input.AIDependency,
			ConsecutiveRequestsWithoutWork: input.NoWorkStreak,
		},
	})
	if err != nil && out == nil {
		return nil, EvaluateOutput{}, err
	}

	restrictions := make([]string, len(out.Governance.Restrictions))
	for i, r := range out.Governance.Restrictions {
		restrictions[i] = string(r)
	}

	result := EvaluateOutput{
		Semaphore:    string(out.Governance.Semaphore),
		Reason:       out.Governance.Reason,
		RuleID:       out.Governance.RuleID,
		Intent:       string(out.Classification.Intent),
		ResponseType: string(out.Strategy.ResponseType),
		HelpLevel:    string(out.Strategy.HelpLevel),
		Restrictions: restrictions,
		Blocked:      out.Strategy.ShouldBlock,
		BlockReason:  out.Strategy.BlockReason,
		PIIFound:     out.PIIFound,
		Response:     out.Response,
	}
	if out.Strategy.ShouldBlock {
		return &mcpsdk.CallToolResult{IsError: true}, result, nil
	}
	// Generation failure still returns the decision; the host falls back
	// to a template reply.
	return nil, result, nil
}

func (s *Server) handleSanitize(ctx context.Context, req *mcpsdk.CallToolRequest, input SanitizeInput) (*mcpsdk.CallToolResult, SanitizeOutput, error) {
	clean, found := sanitize.Sanitize(input.Text)
	return nil, SanitizeOutput{Sanitized: clean, PIIFound: found}, nil
}

func (s *Server) handleRisks(ctx context.Context, req *mcpsdk.CallToolRequest, input RisksInput) (*mcpsdk.CallToolResult, RisksOutput, error) {
	agg := model.SessionAggregates{
		AverageAIDependency:            input.AIDependency,
		ConsecutiveRequestsWithoutWork: input.NoWorkStreak,
	}

	s.mu.RLock()
	pipe := s.pipe
	cfg := s.govCfg
	s.mu.RUnlock()

	d := pipe.Evaluate(pipeline.Request{Message: input.Message, Aggregates: agg})
	risks := risk.Analyze(d.Classification, agg, "", cfg)
	score := model.Score(risks)

	items := make([]RiskItem, len(risks))
	for i, r := range risks {
		items[i] = RiskItem{
			Dimension:      string(r.Dimension),
			Type:           string(r.Type),
			Level:          string(r.Level),
			Evidence:       r.Evidence,
			Recommendation: r.Recommendation,
		}
	}

	return nil, RisksOutput{
		Risks: items,
		Score: score,
		Band:  string(model.Band(score)),
	}, nil
}

func (s *Server) handlePolicy(ctx context.Context, req *mcpsdk.CallToolRequest, input PolicyInput) (*mcpsdk.CallToolResult, PolicyOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return nil, PolicyOutput{
		DependencyYellow: s.govCfg.Thresholds.DependencyYellow,
		NoWorkStreak:     s.govCfg.Thresholds.NoWorkStreak,
		ConfigHash:       s.cfgHash,
		Generation:       s.hasGen,
		Tracing:          s.store != nil,
	}, nil
}
