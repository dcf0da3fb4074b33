package model

// Intent classifies what the student is asking for.
type Intent string

const (
	IntentExploration   Intent = "exploration"
	IntentDebugging     Intent = "debugging"
	IntentDelegation    Intent = "delegation"
	IntentClarification Intent = "clarification"
	IntentValidation    Intent = "validation"
)

// IntentPriority orders intents for tie-breaking: when two intent
// categories score the same match count, the higher-priority one wins.
// Delegation is highest-risk and must never be masked by a co-occurring
// lower-risk signal.
var IntentPriority = map[Intent]int{
	IntentDelegation:    4,
	IntentDebugging:     3,
	IntentClarification: 2,
	IntentValidation:    1,
	IntentExploration:   0,
}

// CognitiveState estimates where the student is in the work cycle.
type CognitiveState string

const (
	StateExploration    CognitiveState = "exploration"
	StatePlanning       CognitiveState = "planning"
	StateImplementation CognitiveState = "implementation"
	StateDebugging      CognitiveState = "debugging"
	StateValidation     CognitiveState = "validation"
)

// Semaphore is the three-valued governance gate for the current turn.
// It is recomputed from scratch on every message; there is no sticky
// semaphore state anywhere in this core.
type Semaphore string

const (
	Green  Semaphore = "green"
	Yellow Semaphore = "yellow"
	Red    Semaphore = "red"
)

// Restriction is a constraint token attached to a governance decision.
type Restriction string

const (
	RestrictBlockCodeGeneration   Restriction = "block_code_generation"
	RestrictRequireJustification  Restriction = "require_justification"
	RestrictReduceHelpLevel       Restriction = "reduce_help_level"
	RestrictIncreaseQuestionRatio Restriction = "increase_question_ratio"
	RestrictRequireWorkShown      Restriction = "require_work_shown"
)

// HasRestriction reports whether the token is present in the set.
func HasRestriction(set []Restriction, r Restriction) bool {
	for _, x := range set {
		if x == r {
			return true
		}
	}
	return false
}

// Classification is the per-message analysis of a student prompt.
// Created once per incoming message, then read-only.
type Classification struct {
	Intent                 Intent         `json:"intent"`
	CognitiveState         CognitiveState `json:"cognitive_state"`
	IsTotalDelegation      bool           `json:"is_total_delegation"`
	IsQuestion             bool           `json:"is_question"`
	RequestsExplanation    bool           `json:"requests_explanation"`
	AttemptsEvasion        bool           `json:"attempts_evasion"`
	AlternativesConsidered int            `json:"alternatives_considered"`
	AutonomyEstimate       float64        `json:"autonomy_estimate"`
	MatchedSignals         []string       `json:"matched_signals"`
}

// InterventionType tags prior tutor interventions counted in session aggregates.
type InterventionType string

const (
	InterventionDelegationBlock InterventionType = "delegation_block"
	InterventionHelpReduction   InterventionType = "help_reduction"
	InterventionWorkRequest     InterventionType = "work_request"
	InterventionDebugging       InterventionType = "debugging_guidance"
)

// SessionAggregates is the rolling session context supplied by the caller.
// The store that owns it lives outside this core; here it is read-only input.
type SessionAggregates struct {
	AverageAIDependency            float64                  `json:"average_ai_dependency"`
	ConsecutiveRequestsWithoutWork int                      `json:"consecutive_requests_without_work"`
	PriorInterventions             map[InterventionType]int `json:"prior_interventions,omitempty"`
}

// Clamped returns a copy with all fields forced into their documented
// domains: floats into [0,1], counts non-negative. Out-of-range input is a
// caller bug, but it must never crash or push a decision past the boundary.
func (a SessionAggregates) Clamped() SessionAggregates {
	c := a
	if c.AverageAIDependency < 0 {
		c.AverageAIDependency = 0
	}
	if c.AverageAIDependency > 1 {
		c.AverageAIDependency = 1
	}
	if c.ConsecutiveRequestsWithoutWork < 0 {
		c.ConsecutiveRequestsWithoutWork = 0
	}
	return c
}

// TotalInterventions sums prior interventions across all types.
func (a SessionAggregates) TotalInterventions() int {
	total := 0
	for _, n := range a.PriorInterventions {
		total += n
	}
	return total
}

// ResponseType selects the pedagogical shape of the tutor reply.
type ResponseType string

const (
	SocraticQuestioning   ResponseType = "socratic_questioning"
	ConceptualExplanation ResponseType = "conceptual_explanation"
	GuidedHints           ResponseType = "guided_hints"
	ClarificationRequest  ResponseType = "clarification_request"
	Rejection             ResponseType = "rejection"
)

// HelpLevel bounds how much of the answer the tutor may hand over.
type HelpLevel string

const (
	HelpMinimal HelpLevel = "minimal"
	HelpLow     HelpLevel = "low"
	HelpMedium  HelpLevel = "medium"
	HelpHigh    HelpLevel = "high"
)

// HelpRank maps help levels to a comparable integer. Downgrades step down
// this scale and stop at minimal.
var HelpRank = map[HelpLevel]int{
	HelpMinimal: 0,
	HelpLow:     1,
	HelpMedium:  2,
	HelpHigh:    3,
}

// helpByRank is the inverse of HelpRank.
var helpByRank = [...]HelpLevel{HelpMinimal, HelpLow, HelpMedium, HelpHigh}

// Downgrade returns the help level one step below h, floored at minimal.
func (h HelpLevel) Downgrade() HelpLevel {
	r := HelpRank[h]
	if r <= 0 {
		return HelpMinimal
	}
	return helpByRank[r-1]
}

// Strategy is the response plan for one turn. Built once, then read-only.
type Strategy struct {
	ResponseType     ResponseType  `json:"response_type"`
	HelpLevel        HelpLevel     `json:"help_level"`
	RequiredElements []string      `json:"required_elements,omitempty"`
	Restrictions     []Restriction `json:"restrictions,omitempty"`
	ShouldBlock      bool          `json:"should_block"`
	BlockReason      string        `json:"block_reason,omitempty"`
}

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role    string `json:"role"` // "student" or "tutor"
	Content string `json:"content"`
}
