// Package strategy turns a classification and a semaphore decision into a
// concrete response plan: what shape the reply takes, how much help it may
// contain, and whether generation is blocked outright.
package strategy

import "github.com/cortezalberto/aulaguard/internal/model"

// intentResponse maps each intent to its response type, default help level,
// and required reply elements. Enum-keyed and built at compile time so a
// new intent without a row is caught by tests, not discovered in
// production.
var intentResponse = map[model.Intent]struct {
	responseType model.ResponseType
	helpLevel    model.HelpLevel
	required     []string
}{
	// Delegation that was not blocked outright still gets turned back into
	// a question: the counter-question is mandatory.
	model.IntentDelegation:    {model.SocraticQuestioning, model.HelpLow, []string{"counter_question"}},
	model.IntentDebugging:     {model.GuidedHints, model.HelpMedium, []string{"next_step_hint"}},
	model.IntentClarification: {model.ConceptualExplanation, model.HelpHigh, nil},
	model.IntentExploration:   {model.SocraticQuestioning, model.HelpHigh, nil},
	model.IntentValidation:    {model.SocraticQuestioning, model.HelpMedium, []string{"reasoning_prompt"}},
}

// Select builds the response strategy for one turn.
//
// INVARIANT: ShouldBlock is true if and only if the semaphore is red. This
// holds for every classification/semaphore/restriction combination.
func Select(c model.Classification, sem model.Semaphore, restrictions []model.Restriction) model.Strategy {
	if sem == model.Red {
		return model.Strategy{
			ResponseType: model.Rejection,
			HelpLevel:    model.HelpMinimal,
			Restrictions: restrictions,
			ShouldBlock:  true,
			BlockReason:  blockReason(c),
		}
	}

	row, ok := intentResponse[c.Intent]
	if !ok {
		// Unknown intent is treated like a clarification request back to
		// the student rather than a hard failure.
		row.responseType = model.ClarificationRequest
		row.helpLevel = model.HelpMedium
	}

	help := row.helpLevel
	// Restrictions can only lower the help ceiling, never raise it.
	for _, r := range restrictions {
		if r == model.RestrictReduceHelpLevel {
			help = help.Downgrade()
		}
	}

	required := row.required
	if model.HasRestriction(restrictions, model.RestrictRequireWorkShown) {
		required = append(append([]string{}, required...), "work_request")
	}

	return model.Strategy{
		ResponseType:     row.responseType,
		HelpLevel:        help,
		RequiredElements: required,
		Restrictions:     restrictions,
		ShouldBlock:      false,
	}
}

func blockReason(c model.Classification) string {
	if c.IsTotalDelegation {
		return "full-solution request: the tutor does not deliver complete, ready-to-submit work"
	}
	return "governance semaphore is red for this session"
}
