// Package classify derives intent, cognitive state, and delegation signals
// from a sanitized student message. Pure pattern matching over fixed
// keyword tables: deterministic, total, and cheap enough to run on every
// turn.
package classify

import (
	"fmt"
	"strings"

	"github.com/cortezalberto/aulaguard/internal/model"
)

// autonomy heuristic constants.
const (
	autonomyBase            = 0.5
	autonomyReasoningBonus  = 0.2
	autonomyDelegationPenal = 0.3
)

// Classify analyzes a single message in the context of prior turns and
// returns an immutable Classification. It never fails: empty or
// whitespace-only text falls back to the most conservative classification
// (clarification, autonomy 0.5, no signals).
func Classify(text string, history []model.Turn) model.Classification {
	return ClassifyWithExtra(text, history, nil, nil)
}

// ClassifyWithExtra is Classify with extra delegation and evasion phrases
// appended to the compiled defaults, typically sourced from the governance
// config file.
func ClassifyWithExtra(text string, history []model.Turn, extraDelegation, extraEvasion []string) model.Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Classification{
			Intent:           model.IntentClarification,
			CognitiveState:   model.StateImplementation,
			AutonomyEstimate: autonomyBase,
		}
	}

	lower := strings.ToLower(trimmed)
	var signals []string

	// Intent: highest match count wins, ties break by fixed priority so
	// delegation is never masked by a co-occurring lower-risk category.
	intent := model.IntentClarification
	bestCount := 0
	for _, cand := range intentOrder {
		count := 0
		for _, kw := range intentKeywords[cand] {
			if strings.Contains(lower, kw) {
				count++
				signals = append(signals, fmt.Sprintf("intent:%s:%s", cand, kw))
			}
		}
		if count > bestCount {
			bestCount = count
			intent = cand
		}
	}

	// Total delegation is an independent check against the dedicated
	// phrase list, regardless of the winning intent.
	totalDelegation := false
	for _, phrase := range append(delegationPhrases, extraDelegation...) {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			totalDelegation = true
			signals = append(signals, "delegation:"+phrase)
		}
	}

	evasion := false
	for _, phrase := range append(evasionPhrases, extraEvasion...) {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			evasion = true
			signals = append(signals, "evasion:"+phrase)
		}
	}

	alternatives := 0
	for _, marker := range alternativeMarkers {
		if strings.Contains(lower, marker) {
			alternatives++
			signals = append(signals, "alternative:"+marker)
		}
	}

	autonomy := autonomyBase
	for _, marker := range firstPersonMarkers {
		if strings.Contains(lower, marker) {
			autonomy += autonomyReasoningBonus
			signals = append(signals, "reasoning:"+marker)
			break
		}
	}
	if totalDelegation {
		autonomy -= autonomyDelegationPenal
	}
	autonomy = clamp01(autonomy)

	requestsExplanation := false
	for _, marker := range explanationMarkers {
		if strings.Contains(lower, marker) {
			requestsExplanation = true
			signals = append(signals, "explanation:"+marker)
			break
		}
	}

	return model.Classification{
		Intent:                 intent,
		CognitiveState:         cognitiveState(lower),
		IsTotalDelegation:      totalDelegation,
		IsQuestion:             strings.Contains(trimmed, "?") || strings.Contains(trimmed, "¿"),
		RequestsExplanation:    requestsExplanation,
		AttemptsEvasion:        evasion,
		AlternativesConsidered: alternatives,
		AutonomyEstimate:       autonomy,
		MatchedSignals:         signals,
	}
}

// intentOrder fixes the evaluation order for scoring so that on equal match
// counts the earlier (higher-risk) category keeps the win. Mirrors
// model.IntentPriority.
var intentOrder = []model.Intent{
	model.IntentDelegation,
	model.IntentDebugging,
	model.IntentClarification,
	model.IntentValidation,
	model.IntentExploration,
}

// cognitiveState consults the second keyword table. First row with any
// match wins; default is implementation.
func cognitiveState(lower string) model.CognitiveState {
	for _, row := range cognitiveStateKeywords {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				return row.state
			}
		}
	}
	return model.StateImplementation
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
