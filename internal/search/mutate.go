package search

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/rules"
)

// GetScheduleMutate performs one mutation step on a state. The manual path
// is a passthrough reserved for human-authored schedules; the random path
// does the weighted draw. When cost-model use is enabled the new state's
// cost is predicted and stored on it.
func (s *Space) GetScheduleMutate(state *State) *State {
	hasManualSchedule := false
	if hasManualSchedule {
		return s.ManualScheduleMutate(state)
	}
	ret := s.RandomScheduleMutate(state)
	if s.cfg.UseCostModel && s.model != nil {
		predicted, err := s.model.Predict(ret.Sched, s.cfg.Target)
		if err != nil {
			slog.Warn("cost prediction failed, keeping cost unset",
				"fingerprint", ret.Fingerprint(),
				"error", err,
			)
		} else {
			ret.PredictedCost = predicted
		}
	}
	return ret
}

// ManualScheduleMutate is the reserved human-authored mutation path.
// Currently a passthrough.
func (s *Space) ManualScheduleMutate(state *State) *State {
	return state
}

// ruleSpan is one entry of the weight table: a rule and the cumulative
// weight offset where its span starts. Spans partition [0, totalWeight).
type ruleSpan struct {
	offset int
	rule   rules.Rule
}

// RandomScheduleMutate performs the weighted-sampling core: one uniform
// draw over all currently fireable (rule, position) pairs, weighted by each
// rule's position count.
//
// Rules reporting "skip this rule" leave the applicable set immediately,
// sampled or not. A rule reporting "skip all" clears the set and stops the
// scan, but stays weighted for this round's draw. If nothing can apply the
// state is returned unchanged; a normal outcome, not an error.
func (s *Space) RandomScheduleMutate(state *State) *State {
	ret := state.Clone()

	var spans []ruleSpan
	totalWeight := 0
	remaining := make([]rules.Rule, 0, len(ret.ApplicableRules))
	skipAll := false
	for _, rule := range ret.ApplicableRules {
		applyType := rule.Init(ret.Sched)
		slog.Debug("rule evaluated", "rule", rule.Name(), "apply_type", applyType.String())
		if applyType != rules.CannotApply {
			spans = append(spans, ruleSpan{offset: totalWeight, rule: rule})
			totalWeight += rule.NumberApplicable()
			if applyType == rules.ApplyAndSkipThisRule {
				continue
			}
			if applyType == rules.ApplyAndSkipAllRules {
				skipAll = true
				break
			}
		}
		remaining = append(remaining, rule)
	}
	if skipAll {
		remaining = nil
	}
	ret.ApplicableRules = remaining

	if len(spans) == 0 {
		slog.Debug("no applicable rule, state unchanged")
		return ret
	}

	sampleIndex := rng.SampleInt(0, totalWeight, &s.seed)
	// Greatest span offset <= sampleIndex. spans[0].offset is 0 and
	// sampleIndex >= 0, so the search never lands before the first span.
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].offset > sampleIndex
	}) - 1
	chosen := spans[i]
	localIndex := sampleIndex - chosen.offset

	slog.Debug("rule sampled",
		"rule", chosen.rule.Name(),
		"sample_index", sampleIndex,
		"local_index", localIndex,
	)
	if err := chosen.rule.Apply(localIndex); err != nil {
		// The local index is derived from the rule's own reported weight;
		// a failure here is a broken rule contract, not a search condition.
		panic(fmt.Sprintf("search: rule %s broke its apply contract: %v", chosen.rule.Name(), err))
	}
	return ret
}
