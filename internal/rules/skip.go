package rules

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/schedule"
)

// Skip is the veto meta-rule: it always applies, transforms nothing, and
// signals that every remaining rule should be dropped for the state that
// sampled it. Registering it last gives each sampling round a weighted
// chance of freezing the schedule as-is, which is how partially transformed
// sketches survive into the candidate set.
type Skip struct {
	bound *schedule.Module
}

// NewSkip creates the veto rule.
func NewSkip() *Skip {
	return &Skip{}
}

// Name implements Rule.
func (r *Skip) Name() string { return "skip" }

// Init implements Rule. Always one applicable position.
func (r *Skip) Init(m *schedule.Module) ApplyType {
	r.bound = m
	return ApplyAndSkipAllRules
}

// NumberApplicable implements Rule.
func (r *Skip) NumberApplicable() int { return 1 }

// Apply implements Rule. Identity transform.
func (r *Skip) Apply(localIndex int) error {
	if localIndex != 0 {
		return fmt.Errorf("skip: position %d out of range [0, 1)", localIndex)
	}
	return nil
}

// AnalyseApplyType implements Rule.
func (r *Skip) AnalyseApplyType(m *schedule.Module, blockName string) ApplyType {
	if !m.HasBlock(blockName) {
		return CannotApply
	}
	return ApplyAndSkipAllRules
}

// ApplyOnBlock implements Rule. Returns one untransformed clone.
func (r *Skip) ApplyOnBlock(m *schedule.Module, blockName string) []*schedule.Module {
	if !m.HasBlock(blockName) {
		return nil
	}
	return []*schedule.Module{m.Clone()}
}
