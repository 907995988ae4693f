package search

import (
	"github.com/quarrylab/autosketch/internal/rules"
	"github.com/quarrylab/autosketch/internal/schedule"
)

// NotInitCost is the sentinel predicted cost of a state the cost model has
// not evaluated yet.
const NotInitCost float64 = -1

// State is one point in the search tree: a schedule snapshot, its predicted
// cost, and the rules still eligible to fire on it.
//
// States are immutable by convention. The applicable-rule list only ever
// shrinks after construction and is always a subsequence of the space's
// registry, except the explicitly empty list the pruned strategies start
// from. Rule handles are shared across states (rules are registry-owned
// strategy objects); the module is never shared between states.
type State struct {
	Sched           *schedule.Module
	PredictedCost   float64
	ApplicableRules []rules.Rule
}

// NewState builds a state over the module with an unevaluated cost.
// The rule slice is copied so later self-exclusions cannot reach the
// caller's slice.
func NewState(m *schedule.Module, applicable []rules.Rule) *State {
	var rs []rules.Rule
	if applicable != nil {
		rs = make([]rules.Rule, len(applicable))
		copy(rs, applicable)
	}
	return &State{
		Sched:           m,
		PredictedCost:   NotInitCost,
		ApplicableRules: rs,
	}
}

// Clone produces the copy-on-branch snapshot every mutation path starts
// from: a deep copy of the module, a fresh rule slice sharing the same
// handles, and the parent's predicted cost carried over.
func (s *State) Clone() *State {
	c := NewState(s.Sched.Clone(), s.ApplicableRules)
	c.PredictedCost = s.PredictedCost
	return c
}

// Fingerprint returns the content-addressed identity of the state's module.
func (s *State) Fingerprint() string {
	return schedule.Fingerprint(s.Sched)
}

// DebugString renders the state's module for logs and traces.
func (s *State) DebugString() string {
	return s.Sched.DebugString()
}
