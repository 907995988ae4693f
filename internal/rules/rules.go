// Package rules defines the transformation-rule contract and the built-in
// rule variants the sketch search applies to loop-nest programs.
//
// A rule is a stateless strategy object from the search's point of view:
// one instance per registry, shared by every search state. Between Init and
// Apply a rule holds a binding to the module it analysed; the search
// guarantees each Init/Apply sequence completes before the next sampling
// round starts, so the binding is never observed concurrently.
//
// Rules signal how their application affects future rounds through
// ApplyType. "Skip this rule" and "skip all rules" are distinct outcomes on
// purpose: a rule reporting either is still weighted and samplable in the
// round that observed it, but is excluded (alone, or with everything else)
// from rounds after that.
package rules

import "github.com/quarrylab/autosketch/internal/schedule"

// ApplyType classifies the outcome of asking a rule about a program.
type ApplyType int

const (
	// CannotApply means the rule found no applicable position.
	CannotApply ApplyType = iota

	// Apply means the rule can fire and stays eligible for future rounds.
	Apply

	// ApplyAndSkipThisRule means the rule can fire but must be removed
	// from the applicable set after this round.
	ApplyAndSkipThisRule

	// ApplyAndSkipAllRules means the rule can fire and vetoes every
	// remaining rule for this state.
	ApplyAndSkipAllRules
)

// String returns the apply type name for logs and diagnostics.
func (t ApplyType) String() string {
	switch t {
	case CannotApply:
		return "cannot_apply"
	case Apply:
		return "apply"
	case ApplyAndSkipThisRule:
		return "apply_and_skip_this_rule"
	case ApplyAndSkipAllRules:
		return "apply_and_skip_all_rules"
	default:
		return "unknown"
	}
}

// Rule is the capability contract every transformation variant implements.
//
// The two usage protocols:
//
// Whole-program (single-step mutation): Init analyses the module and binds
// it; NumberApplicable reports the fan-out; Apply(localIndex) mutates the
// bound module in place at the chosen position.
//
// Per-block (layered state transfer): AnalyseApplyType classifies
// applicability against one named block without binding; ApplyOnBlock
// clones the module once per applicable position and returns the
// transformed copies, leaving the input untouched.
type Rule interface {
	// Init analyses the whole module and binds it for a following Apply.
	Init(m *schedule.Module) ApplyType

	// NumberApplicable reports how many positions the last Init found.
	// Only meaningful after an Init that did not return CannotApply.
	NumberApplicable() int

	// Apply fires the rule at the given local position on the module
	// bound by the last Init. localIndex must be < NumberApplicable.
	Apply(localIndex int) error

	// AnalyseApplyType classifies applicability restricted to one block.
	AnalyseApplyType(m *schedule.Module, blockName string) ApplyType

	// ApplyOnBlock applies the rule restricted to one block, returning
	// zero or more transformed clones of the input module.
	ApplyOnBlock(m *schedule.Module, blockName string) []*schedule.Module

	// Name returns the rule's stable identifier for logs and samplers.
	Name() string
}
