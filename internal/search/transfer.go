package search

import (
	"log/slog"

	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/rules"
	"github.com/quarrylab/autosketch/internal/sampler"
)

// CollectStateTransfer expands a frontier of states breadth-first with
// rewrites restricted to one named block.
//
// Each step draws the next rule from the sampler and offers it to every
// live state still containing the block. Applicable rules fan out into
// successor states; the expanded state is then pruned from the live set
// either on the rule's skip-all signal (pruneByRule) or with
// pruneProbability per state per step, drawn from the space's engine.
// Survivors and successors together form the next step's frontier.
//
// steps == 0 means unbounded: the loop ends when the sampler is exhausted.
// The final frontier is returned in full, no truncation.
func (s *Space) CollectStateTransfer(
	state *State,
	blockName string,
	ruleSampler *sampler.RuleSampler,
	steps int,
	pruneByRule bool,
	pruneProbability float64,
) []*State {
	layer := []*State{state}
	for step := 0; steps == 0 || step < steps; step++ {
		rule := ruleSampler.NextRule()
		if rule == nil {
			break
		}

		var successors []*State
		survivors := make([]*State, 0, len(layer))
		for _, st := range layer {
			if !st.Sched.HasBlock(blockName) {
				survivors = append(survivors, st)
				continue
			}
			applyType := rule.AnalyseApplyType(st.Sched, blockName)
			if applyType == rules.CannotApply {
				survivors = append(survivors, st)
				continue
			}

			for _, mod := range rule.ApplyOnBlock(st.Sched, blockName) {
				successors = append(successors, NewState(mod, st.ApplicableRules))
			}

			prune := false
			if pruneByRule {
				prune = applyType == rules.ApplyAndSkipAllRules
			} else {
				prune = rng.SampleFloat(0, 1, &s.seed) < pruneProbability
			}
			if !prune {
				survivors = append(survivors, st)
			}
		}
		slog.Debug("state transfer step",
			"block", blockName,
			"rule", rule.Name(),
			"step", step+1,
			"successors", len(successors),
			"survivors", len(survivors),
		)
		layer = append(survivors, successors...)
	}
	return layer
}
