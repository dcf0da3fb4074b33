package risk

import (
	"fmt"
	"strings"

	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
)

// input bundles everything a trigger predicate may consult. responseText is
// empty when analysis runs before (or without) generation; only a few
// rules look at it, and they simply stay silent when it is absent.
type input struct {
	c        model.Classification
	agg      model.SessionAggregates
	response string
	cfg      *governance.Config
}

// rule is one entry of the fixed 18-code catalog. Each predicate is
// independent: multiple rules may fire on the same message, and a rule
// either produces its one risk or nothing.
type rule struct {
	dimension model.RiskDimension
	riskType  model.RiskType
	level     model.RiskLevel
	trigger   func(in input) (evidence []string, fired bool)
	recommend string
}

// rules is evaluated in declared order for a stable output sequence; the
// result is semantically a set.
var rules = []rule{
	// --- Cognitive ---
	{
		dimension: model.DimCognitive,
		riskType:  model.RiskCognitiveDelegation,
		level:     model.LevelHigh,
		trigger: func(in input) ([]string, bool) {
			if !in.c.IsTotalDelegation {
				return nil, false
			}
			return delegationEvidence(in.c), true
		},
		recommend: "redirect to guided work; do not deliver a complete solution",
	},
	{
		dimension: model.DimCognitive,
		riskType:  model.RiskAIDependency,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.agg.AverageAIDependency <= in.cfg.Risk.DependencyMedium {
				return nil, false
			}
			return []string{fmt.Sprintf("average_ai_dependency=%.2f", in.agg.AverageAIDependency)}, true
		},
		recommend: "reduce help level and increase question ratio over the next turns",
	},
	{
		dimension: model.DimCognitive,
		riskType:  model.RiskLackJustification,
		level:     model.LevelLow,
		trigger: func(in input) ([]string, bool) {
			if in.c.RequestsExplanation || in.c.IsQuestion {
				return nil, false
			}
			return []string{"no question asked", "no explanation requested"}, true
		},
		recommend: "ask the student to justify their request before helping",
	},
	{
		dimension: model.DimCognitive,
		riskType:  model.RiskShallowReasoning,
		level:     model.LevelLow,
		trigger: func(in input) ([]string, bool) {
			// Delegation already carries its own high-severity risk.
			if in.c.IsTotalDelegation || in.c.AutonomyEstimate >= 0.3 {
				return nil, false
			}
			return []string{fmt.Sprintf("autonomy_estimate=%.2f", in.c.AutonomyEstimate)}, true
		},
		recommend: "prompt for the student's own hypothesis first",
	},

	// --- Ethical ---
	{
		dimension: model.DimEthical,
		riskType:  model.RiskPlagiarismSignal,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if !in.c.IsTotalDelegation || in.agg.AverageAIDependency <= 0.5 {
				return nil, false
			}
			return []string{
				"full-solution request",
				fmt.Sprintf("average_ai_dependency=%.2f", in.agg.AverageAIDependency),
			}, true
		},
		recommend: "flag the session for academic-integrity review",
	},
	{
		dimension: model.DimEthical,
		riskType:  model.RiskAcademicIntegrity,
		level:     model.LevelHigh,
		trigger: func(in input) ([]string, bool) {
			if !in.c.IsTotalDelegation || in.agg.ConsecutiveRequestsWithoutWork < in.cfg.Risk.IntegrityStreak {
				return nil, false
			}
			return []string{
				"full-solution request",
				fmt.Sprintf("no_work_streak=%d", in.agg.ConsecutiveRequestsWithoutWork),
			}, true
		},
		recommend: "notify the instructor; repeated delegation without own work",
	},
	{
		dimension: model.DimEthical,
		riskType:  model.RiskPIIDisclosure,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.response == "" || !strings.Contains(in.response, "[REDACTED-") {
				return nil, false
			}
			return []string{"generated response echoes redacted PII tokens"}, true
		},
		recommend: "strip redaction tokens from the reply before delivery",
	},
	{
		dimension: model.DimEthical,
		riskType:  model.RiskAuthorshipMisrep,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.response == "" || !in.c.IsTotalDelegation {
				return nil, false
			}
			return []string{"complete artifact generated on a delegation request"}, true
		},
		recommend: "require an authorship declaration on the next submission",
	},

	// --- Epistemic ---
	{
		dimension: model.DimEpistemic,
		riskType:  model.RiskUncriticalAcceptance,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.c.AlternativesConsidered > 0 || in.agg.AverageAIDependency <= 0.5 {
				return nil, false
			}
			return []string{
				"no alternatives considered",
				fmt.Sprintf("average_ai_dependency=%.2f", in.agg.AverageAIDependency),
			}, true
		},
		recommend: "ask the student to name one alternative before proceeding",
	},
	{
		dimension: model.DimEpistemic,
		riskType:  model.RiskSingleSourceReliance,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.agg.AverageAIDependency <= in.cfg.Risk.DependencySole {
				return nil, false
			}
			return []string{fmt.Sprintf("average_ai_dependency=%.2f", in.agg.AverageAIDependency)}, true
		},
		recommend: "point the student at course material and documentation",
	},
	{
		dimension: model.DimEpistemic,
		riskType:  model.RiskUnverifiedClaim,
		level:     model.LevelLow,
		trigger: func(in input) ([]string, bool) {
			if in.c.Intent != model.IntentValidation || in.c.RequestsExplanation {
				return nil, false
			}
			return []string{"validation requested without stated grounds"}, true
		},
		recommend: "ask what evidence supports the claim before confirming it",
	},
	{
		dimension: model.DimEpistemic,
		riskType:  model.RiskOverconfidence,
		level:     model.LevelInfo,
		trigger: func(in input) ([]string, bool) {
			if in.c.Intent != model.IntentValidation || in.c.AutonomyEstimate <= 0.9 {
				return nil, false
			}
			return []string{fmt.Sprintf("autonomy_estimate=%.2f", in.c.AutonomyEstimate)}, true
		},
		recommend: "probe edge cases the student may not have considered",
	},

	// --- Technical ---
	{
		dimension: model.DimTechnical,
		riskType:  model.RiskUntestedCode,
		level:     model.LevelLow,
		trigger: func(in input) ([]string, bool) {
			if in.response == "" || !strings.Contains(in.response, "```") {
				return nil, false
			}
			if in.c.CognitiveState == model.StateValidation {
				return nil, false
			}
			return []string{"code block delivered outside a validation context"}, true
		},
		recommend: "require the student to run and report the result",
	},
	{
		dimension: model.DimTechnical,
		riskType:  model.RiskErrorPatternRepeat,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.c.CognitiveState != model.StateDebugging {
				return nil, false
			}
			n := in.agg.PriorInterventions[model.InterventionDebugging]
			if n < in.cfg.Risk.DebugStreak {
				return nil, false
			}
			return []string{fmt.Sprintf("debugging_interventions=%d", n)}, true
		},
		recommend: "step back to the underlying concept instead of another fix",
	},
	{
		dimension: model.DimTechnical,
		riskType:  model.RiskComplexityMismatch,
		level:     model.LevelLow,
		trigger: func(in input) ([]string, bool) {
			if in.c.CognitiveState != model.StatePlanning || in.agg.AverageAIDependency <= in.cfg.Risk.DependencyMedium {
				return nil, false
			}
			return []string{
				"architecture being sourced from the assistant",
				fmt.Sprintf("average_ai_dependency=%.2f", in.agg.AverageAIDependency),
			}, true
		},
		recommend: "have the student sketch the design before discussing it",
	},

	// --- Governance ---
	{
		dimension: model.DimGovernance,
		riskType:  model.RiskWorkNotShown,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			if in.agg.ConsecutiveRequestsWithoutWork < in.cfg.Thresholds.NoWorkStreak {
				return nil, false
			}
			return []string{fmt.Sprintf("no_work_streak=%d", in.agg.ConsecutiveRequestsWithoutWork)}, true
		},
		recommend: "require work shown before the next substantive answer",
	},
	{
		dimension: model.DimGovernance,
		riskType:  model.RiskRepeatedIntervention,
		level:     model.LevelMedium,
		trigger: func(in input) ([]string, bool) {
			total := in.agg.TotalInterventions()
			if total < in.cfg.Risk.InterventionRepeat {
				return nil, false
			}
			return []string{fmt.Sprintf("total_interventions=%d", total)}, true
		},
		recommend: "escalate to the instructor; automated interventions are not landing",
	},
	{
		dimension: model.DimGovernance,
		riskType:  model.RiskPromptManipulation,
		level:     model.LevelHigh,
		trigger: func(in input) ([]string, bool) {
			if !in.c.AttemptsEvasion {
				return nil, false
			}
			return evasionEvidence(in.c), true
		},
		recommend: "do not relax restrictions; record the attempt",
	},
}

func delegationEvidence(c model.Classification) []string {
	var ev []string
	for _, s := range c.MatchedSignals {
		if strings.HasPrefix(s, "delegation:") {
			ev = append(ev, s)
		}
	}
	if len(ev) == 0 {
		ev = []string{"total delegation flagged"}
	}
	return ev
}

func evasionEvidence(c model.Classification) []string {
	var ev []string
	for _, s := range c.MatchedSignals {
		if strings.HasPrefix(s, "evasion:") {
			ev = append(ev, s)
		}
	}
	if len(ev) == 0 {
		ev = []string{"evasion attempt flagged"}
	}
	return ev
}
