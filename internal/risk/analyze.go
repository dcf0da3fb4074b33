// Package risk scans a classified message and its session context across
// five dimensions and emits zero or more risk records. Detection is a pure
// function: the same inputs always yield the same set of risks, so the
// analyzer can run before, after, or concurrently with response generation
// without coordination.
package risk

import (
	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
)

// Analyze evaluates the full rule catalog. responseText may be empty; the
// few response-consulting rules then stay silent. Aggregates are clamped
// the same way the governance engine clamps them.
func Analyze(c model.Classification, agg model.SessionAggregates, responseText string, cfg *governance.Config) []model.Risk {
	if cfg == nil {
		cfg = governance.DefaultConfig()
	}
	in := input{c: c, agg: agg.Clamped(), response: responseText, cfg: cfg}

	var out []model.Risk
	for _, r := range rules {
		evidence, fired := r.trigger(in)
		if !fired {
			continue
		}
		out = append(out, model.Risk{
			Dimension:      r.dimension,
			Type:           r.riskType,
			Level:          r.level,
			Evidence:       evidence,
			Recommendation: r.recommend,
		})
	}
	return out
}
