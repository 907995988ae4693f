package rules

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/schedule"
)

// Inline folds a producer block into the program's output block. Output
// blocks themselves are never inlined, so the rule runs dry once only
// outputs remain. The rule stays eligible between rounds: inlining one
// producer can leave others still foldable.
type Inline struct {
	bound     *schedule.Module
	positions []string // inlinable block names, declaration order
}

// NewInline creates the inline rule.
func NewInline() *Inline {
	return &Inline{}
}

// Name implements Rule.
func (r *Inline) Name() string { return "inline" }

// Init implements Rule. A block is inlinable when it is live, is not a
// program output, and an output block exists to absorb it.
func (r *Inline) Init(m *schedule.Module) ApplyType {
	r.bound = m
	r.positions = r.positions[:0]
	if len(m.Outputs) == 0 {
		return CannotApply
	}
	for _, name := range m.BlockNames() {
		if !m.IsOutput(name) {
			r.positions = append(r.positions, name)
		}
	}
	if len(r.positions) == 0 {
		return CannotApply
	}
	return Apply
}

// NumberApplicable implements Rule.
func (r *Inline) NumberApplicable() int { return len(r.positions) }

// Apply implements Rule.
func (r *Inline) Apply(localIndex int) error {
	if localIndex < 0 || localIndex >= len(r.positions) {
		return fmt.Errorf("inline: position %d out of range [0, %d)", localIndex, len(r.positions))
	}
	return inlineBlock(r.bound, r.positions[localIndex])
}

// AnalyseApplyType implements Rule.
func (r *Inline) AnalyseApplyType(m *schedule.Module, blockName string) ApplyType {
	if len(m.Outputs) == 0 || m.IsOutput(blockName) {
		return CannotApply
	}
	if !m.HasBlock(blockName) {
		return CannotApply
	}
	return Apply
}

// ApplyOnBlock implements Rule.
func (r *Inline) ApplyOnBlock(m *schedule.Module, blockName string) []*schedule.Module {
	if r.AnalyseApplyType(m, blockName) == CannotApply {
		return nil
	}
	clone := m.Clone()
	if err := inlineBlock(clone, blockName); err != nil {
		return nil
	}
	return []*schedule.Module{clone}
}

// inlineBlock marks the named block as folded into the first output block.
func inlineBlock(m *schedule.Module, name string) error {
	b := m.Block(name)
	if b == nil {
		return fmt.Errorf("inline: block %q not found", name)
	}
	if len(m.Outputs) == 0 {
		return fmt.Errorf("inline: module has no output block to absorb %q", name)
	}
	b.InlinedInto = m.Outputs[0]
	return nil
}
