package governance

import (
	"testing"

	"github.com/cortezalberto/aulaguard/internal/model"
)

func TestTotalDelegationAlwaysRed(t *testing.T) {
	c := model.Classification{IsTotalDelegation: true}

	// Red regardless of how good the aggregate history looks.
	aggs := []model.SessionAggregates{
		{},
		{AverageAIDependency: 0.0, ConsecutiveRequestsWithoutWork: 0},
		{AverageAIDependency: 0.99, ConsecutiveRequestsWithoutWork: 10},
	}
	for _, agg := range aggs {
		d := DecideSemaphore(c, agg, nil)
		if d.Semaphore != model.Red {
			t.Errorf("aggregates %+v: expected red, got %s", agg, d.Semaphore)
		}
		if !model.HasRestriction(d.Restrictions, model.RestrictBlockCodeGeneration) {
			t.Error("expected block_code_generation restriction")
		}
		if !model.HasRestriction(d.Restrictions, model.RestrictRequireJustification) {
			t.Error("expected require_justification restriction")
		}
	}
}

func TestHighDependencyYellow(t *testing.T) {
	d := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 0.75,
	}, nil)

	if d.Semaphore != model.Yellow {
		t.Fatalf("expected yellow, got %s", d.Semaphore)
	}
	if !model.HasRestriction(d.Restrictions, model.RestrictReduceHelpLevel) {
		t.Error("expected reduce_help_level restriction")
	}
	if !model.HasRestriction(d.Restrictions, model.RestrictIncreaseQuestionRatio) {
		t.Error("expected increase_question_ratio restriction")
	}
}

func TestDependencyBoundaryIsStrict(t *testing.T) {
	// Exactly at the threshold does NOT trigger; strictly above does.
	at := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 0.7,
	}, nil)
	if at.Semaphore != model.Green {
		t.Errorf("dependency exactly 0.7 must stay green, got %s", at.Semaphore)
	}

	above := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 0.7001,
	}, nil)
	if above.Semaphore != model.Yellow {
		t.Errorf("dependency 0.7001 must go yellow, got %s", above.Semaphore)
	}
}

func TestNoWorkStreakYellow(t *testing.T) {
	under := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		ConsecutiveRequestsWithoutWork: 4,
	}, nil)
	if under.Semaphore != model.Green {
		t.Errorf("streak 4 must stay green, got %s", under.Semaphore)
	}

	at := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		ConsecutiveRequestsWithoutWork: 5,
	}, nil)
	if at.Semaphore != model.Yellow {
		t.Fatalf("streak 5 must go yellow, got %s", at.Semaphore)
	}
	if !model.HasRestriction(at.Restrictions, model.RestrictRequireWorkShown) {
		t.Error("expected require_work_shown restriction")
	}
}

func TestCleanSessionGreen(t *testing.T) {
	d := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency:            0.2,
		ConsecutiveRequestsWithoutWork: 0,
	}, nil)

	if d.Semaphore != model.Green {
		t.Errorf("expected green, got %s", d.Semaphore)
	}
	if len(d.Restrictions) != 0 {
		t.Errorf("expected no restrictions, got %v", d.Restrictions)
	}
}

func TestOutOfRangeAggregatesClamped(t *testing.T) {
	// 1.5 must behave exactly like 1.0: clamped, not crashed.
	over := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 1.5,
	}, nil)
	exact := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 1.0,
	}, nil)

	if over.Semaphore != exact.Semaphore {
		t.Errorf("1.5 gave %s, 1.0 gave %s, clamping broken", over.Semaphore, exact.Semaphore)
	}
	if over.RuleID != exact.RuleID {
		t.Errorf("1.5 hit rule %s, 1.0 hit rule %s", over.RuleID, exact.RuleID)
	}

	neg := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency:            -3,
		ConsecutiveRequestsWithoutWork: -7,
	}, nil)
	if neg.Semaphore != model.Green {
		t.Errorf("negative aggregates must clamp to green, got %s", neg.Semaphore)
	}
}

func TestDelegationRuleOutranksDependencyRule(t *testing.T) {
	d := DecideSemaphore(model.Classification{IsTotalDelegation: true}, model.SessionAggregates{
		AverageAIDependency: 0.9,
	}, nil)

	if d.RuleID != "semaphore.delegation.red" {
		t.Errorf("delegation must be matched first, got rule %s", d.RuleID)
	}
}

func TestCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.DependencyYellow = 0.5
	cfg.Thresholds.NoWorkStreak = 2

	d := DecideSemaphore(model.Classification{}, model.SessionAggregates{
		AverageAIDependency: 0.6,
	}, cfg)
	if d.Semaphore != model.Yellow {
		t.Errorf("expected yellow with lowered threshold, got %s", d.Semaphore)
	}

	d = DecideSemaphore(model.Classification{}, model.SessionAggregates{
		ConsecutiveRequestsWithoutWork: 2,
	}, cfg)
	if d.Semaphore != model.Yellow {
		t.Errorf("expected yellow with lowered streak, got %s", d.Semaphore)
	}
}
