// Package governance decides, per message, how much unsupervised help the
// student may receive. The decision is memoryless: every call recomputes
// the semaphore from the classification and the session aggregates passed
// in, so horizontally-scaled instances can never drift on stale state.
package governance

import (
	"fmt"

	"github.com/cortezalberto/aulaguard/internal/model"
)

// Decision is the output of a semaphore evaluation.
type Decision struct {
	Semaphore    model.Semaphore     `json:"semaphore"`
	Restrictions []model.Restriction `json:"restrictions,omitempty"`
	Reason       string              `json:"reason"`
	RuleID       string              `json:"rule_id"`
}

// DecideSemaphore evaluates the governance rules in fixed priority order,
// first match wins (no blending of partial outcomes):
//
//  1. Total delegation: Red, absolute override. A single full-solution
//     request is a bright-line violation regardless of otherwise-good
//     aggregate history.
//  2. Average AI dependency strictly above the threshold: Yellow.
//  3. No-work-shown streak at or above the threshold: Yellow.
//  4. Otherwise: Green, no restrictions.
//
// Aggregates are clamped to their documented domains before evaluation;
// out-of-range input never crashes and never crosses a boundary it could
// not cross from inside [0,1].
func DecideSemaphore(c model.Classification, agg model.SessionAggregates, cfg *Config) Decision {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	agg = agg.Clamped()

	if c.IsTotalDelegation {
		return Decision{
			Semaphore: model.Red,
			Restrictions: []model.Restriction{
				model.RestrictBlockCodeGeneration,
				model.RestrictRequireJustification,
			},
			Reason: "full-solution request detected",
			RuleID: "semaphore.delegation.red",
		}
	}

	if agg.AverageAIDependency > cfg.Thresholds.DependencyYellow {
		return Decision{
			Semaphore: model.Yellow,
			Restrictions: []model.Restriction{
				model.RestrictReduceHelpLevel,
				model.RestrictIncreaseQuestionRatio,
			},
			Reason: fmt.Sprintf("average AI dependency %.2f above %.2f",
				agg.AverageAIDependency, cfg.Thresholds.DependencyYellow),
			RuleID: "semaphore.dependency.yellow",
		}
	}

	if agg.ConsecutiveRequestsWithoutWork >= cfg.Thresholds.NoWorkStreak {
		return Decision{
			Semaphore: model.Yellow,
			Restrictions: []model.Restriction{
				model.RestrictRequireWorkShown,
			},
			Reason: fmt.Sprintf("%d consecutive requests without work shown",
				agg.ConsecutiveRequestsWithoutWork),
			RuleID: "semaphore.nowork.yellow",
		}
	}

	return Decision{
		Semaphore: model.Green,
		Reason:    "no governance rule triggered",
		RuleID:    "semaphore.green",
	}
}
