package strategy

import (
	"testing"

	"github.com/cortezalberto/aulaguard/internal/model"
)

func TestRedSemaphoreBlocks(t *testing.T) {
	s := Select(model.Classification{IsTotalDelegation: true}, model.Red, []model.Restriction{
		model.RestrictBlockCodeGeneration,
	})

	if !s.ShouldBlock {
		t.Fatal("red semaphore must block")
	}
	if s.ResponseType != model.Rejection {
		t.Errorf("expected rejection, got %s", s.ResponseType)
	}
	if s.HelpLevel != model.HelpMinimal {
		t.Errorf("expected minimal help, got %s", s.HelpLevel)
	}
	if s.BlockReason == "" {
		t.Error("expected a block reason")
	}
}

// ShouldBlock ⇔ semaphore red, over the whole input grid.
func TestBlockBiconditional(t *testing.T) {
	intents := []model.Intent{
		model.IntentExploration, model.IntentDebugging, model.IntentDelegation,
		model.IntentClarification, model.IntentValidation,
	}
	semaphores := []model.Semaphore{model.Green, model.Yellow, model.Red}
	restrictionSets := [][]model.Restriction{
		nil,
		{model.RestrictReduceHelpLevel},
		{model.RestrictRequireWorkShown, model.RestrictIncreaseQuestionRatio},
		{model.RestrictBlockCodeGeneration, model.RestrictRequireJustification},
	}

	for _, intent := range intents {
		for _, delegation := range []bool{false, true} {
			for _, sem := range semaphores {
				for _, rs := range restrictionSets {
					c := model.Classification{Intent: intent, IsTotalDelegation: delegation}
					s := Select(c, sem, rs)
					if s.ShouldBlock != (sem == model.Red) {
						t.Fatalf("intent=%s delegation=%v sem=%s restrictions=%v: should_block=%v",
							intent, delegation, sem, rs, s.ShouldBlock)
					}
				}
			}
		}
	}
}

func TestIntentMapping(t *testing.T) {
	cases := []struct {
		intent model.Intent
		want   model.ResponseType
	}{
		{model.IntentDelegation, model.SocraticQuestioning},
		{model.IntentDebugging, model.GuidedHints},
		{model.IntentClarification, model.ConceptualExplanation},
		{model.IntentExploration, model.SocraticQuestioning},
		{model.IntentValidation, model.SocraticQuestioning},
	}

	for _, tc := range cases {
		s := Select(model.Classification{Intent: tc.intent}, model.Green, nil)
		if s.ResponseType != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.intent, tc.want, s.ResponseType)
		}
	}
}

func TestUnblockedDelegationRequiresCounterQuestion(t *testing.T) {
	s := Select(model.Classification{Intent: model.IntentDelegation}, model.Yellow, nil)

	found := false
	for _, e := range s.RequiredElements {
		if e == "counter_question" {
			found = true
		}
	}
	if !found {
		t.Error("delegation strategy must require a counter question")
	}
}

func TestReduceHelpLevelDowngradesOneStep(t *testing.T) {
	base := Select(model.Classification{Intent: model.IntentClarification}, model.Green, nil)
	if base.HelpLevel != model.HelpHigh {
		t.Fatalf("expected high default for clarification, got %s", base.HelpLevel)
	}

	reduced := Select(model.Classification{Intent: model.IntentClarification}, model.Yellow,
		[]model.Restriction{model.RestrictReduceHelpLevel})
	if reduced.HelpLevel != model.HelpMedium {
		t.Errorf("expected one-step downgrade to medium, got %s", reduced.HelpLevel)
	}

	// Two reduce tokens step down twice.
	twice := Select(model.Classification{Intent: model.IntentClarification}, model.Yellow,
		[]model.Restriction{model.RestrictReduceHelpLevel, model.RestrictReduceHelpLevel})
	if twice.HelpLevel != model.HelpLow {
		t.Errorf("expected two-step downgrade to low, got %s", twice.HelpLevel)
	}
}

func TestHelpLevelNeverUpgrades(t *testing.T) {
	// Non-reducing restrictions must not touch the help level.
	s := Select(model.Classification{Intent: model.IntentDebugging}, model.Yellow,
		[]model.Restriction{model.RestrictRequireWorkShown})
	if s.HelpLevel != model.HelpMedium {
		t.Errorf("expected medium unchanged, got %s", s.HelpLevel)
	}
}

func TestDowngradeFloorsAtMinimal(t *testing.T) {
	rs := []model.Restriction{
		model.RestrictReduceHelpLevel, model.RestrictReduceHelpLevel,
		model.RestrictReduceHelpLevel, model.RestrictReduceHelpLevel,
		model.RestrictReduceHelpLevel,
	}
	s := Select(model.Classification{Intent: model.IntentDelegation}, model.Yellow, rs)
	if s.HelpLevel != model.HelpMinimal {
		t.Errorf("expected floor at minimal, got %s", s.HelpLevel)
	}
}

func TestWorkShownRestrictionAddsRequiredElement(t *testing.T) {
	s := Select(model.Classification{Intent: model.IntentDebugging}, model.Yellow,
		[]model.Restriction{model.RestrictRequireWorkShown})

	found := false
	for _, e := range s.RequiredElements {
		if e == "work_request" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected work_request element, got %v", s.RequiredElements)
	}
}
