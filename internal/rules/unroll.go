package rules

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/schedule"
)

// unrollFactors are the candidate unroll widths for the innermost loop.
var unrollFactors = []int{4, 16, 64}

// Unroll annotates the innermost loop of a block with an unroll factor.
// Each (block, factor) pair where the innermost extent covers the factor is
// one applicable position. A block is unrolled at most once; the rule drops
// itself from future rounds after firing.
type Unroll struct {
	bound     *schedule.Module
	positions []unrollPosition
}

type unrollPosition struct {
	block  string
	factor int
}

// NewUnroll creates the unroll rule.
func NewUnroll() *Unroll {
	return &Unroll{}
}

// Name implements Rule.
func (r *Unroll) Name() string { return "unroll" }

// Init implements Rule.
func (r *Unroll) Init(m *schedule.Module) ApplyType {
	r.bound = m
	r.positions = r.positions[:0]
	for _, name := range m.BlockNames() {
		for _, factor := range blockUnrollFactors(m.Block(name)) {
			r.positions = append(r.positions, unrollPosition{block: name, factor: factor})
		}
	}
	if len(r.positions) == 0 {
		return CannotApply
	}
	return ApplyAndSkipThisRule
}

// NumberApplicable implements Rule.
func (r *Unroll) NumberApplicable() int { return len(r.positions) }

// Apply implements Rule.
func (r *Unroll) Apply(localIndex int) error {
	if localIndex < 0 || localIndex >= len(r.positions) {
		return fmt.Errorf("unroll: position %d out of range [0, %d)", localIndex, len(r.positions))
	}
	pos := r.positions[localIndex]
	return unrollBlock(r.bound, pos.block, pos.factor)
}

// AnalyseApplyType implements Rule.
func (r *Unroll) AnalyseApplyType(m *schedule.Module, blockName string) ApplyType {
	if len(blockUnrollFactors(m.Block(blockName))) == 0 {
		return CannotApply
	}
	return ApplyAndSkipThisRule
}

// ApplyOnBlock implements Rule. Fan-out: one successor per viable factor.
func (r *Unroll) ApplyOnBlock(m *schedule.Module, blockName string) []*schedule.Module {
	factors := blockUnrollFactors(m.Block(blockName))
	states := make([]*schedule.Module, 0, len(factors))
	for _, factor := range factors {
		clone := m.Clone()
		if err := unrollBlock(clone, blockName, factor); err != nil {
			continue
		}
		states = append(states, clone)
	}
	return states
}

// blockUnrollFactors returns the applicable unroll factors: block live and
// not yet unrolled, innermost loop extent at least the factor.
func blockUnrollFactors(b *schedule.Block) []int {
	if b == nil || b.UnrollFactor > 0 || len(b.Loops) == 0 {
		return nil
	}
	innermost := b.Loops[len(b.Loops)-1]
	var factors []int
	for _, factor := range unrollFactors {
		if innermost.Extent >= int64(factor) {
			factors = append(factors, factor)
		}
	}
	return factors
}

func unrollBlock(m *schedule.Module, name string, factor int) error {
	b := m.Block(name)
	if b == nil {
		return fmt.Errorf("unroll: block %q not found", name)
	}
	b.UnrollFactor = factor
	return nil
}
