// Package sampler produces blocks and rules one at a time under a named
// strategy, feeding the sketch-generation loops.
//
// Two strategies exist:
//
//   - "traversal": deterministic, yields every candidate exactly once in
//     input order.
//   - "probabilistic": yields candidates in a randomized order without
//     replacement, drawn from the deterministic random engine bound to the
//     caller's seed cell. Given a fixed root seed the order is reproducible.
//
// Both samplers signal exhaustion with a zero value (empty string for
// blocks, nil for rules) rather than an error: running a sampler dry is the
// normal termination condition of the loops that consume them.
package sampler

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/rules"
)

// Strategy names accepted by the sampler constructors.
const (
	StrategyTraversal     = "traversal"
	StrategyProbabilistic = "probabilistic"
)

// order produces the visit order for n candidates under a strategy.
// Traversal is the identity; probabilistic is a seeded Fisher-Yates
// shuffle driven by the shared random engine.
func order(n int, strategy string, seed *int64) ([]int, error) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	switch strategy {
	case StrategyTraversal:
		return idx, nil
	case StrategyProbabilistic:
		for i := n - 1; i > 0; i-- {
			j := rng.SampleInt(0, i+1, seed)
			idx[i], idx[j] = idx[j], idx[i]
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("sampler: unknown strategy %q (want %q or %q)",
			strategy, StrategyTraversal, StrategyProbabilistic)
	}
}

// BlockSampler yields block names until exhaustion.
type BlockSampler struct {
	blocks []string
	order  []int
	pos    int
}

// NewBlockSampler builds a sampler over the candidate blocks. The seed cell
// is only consumed by the probabilistic strategy. An unrecognized strategy
// is a configuration error.
func NewBlockSampler(blocks []string, strategy string, seed *int64) (*BlockSampler, error) {
	ord, err := order(len(blocks), strategy, seed)
	if err != nil {
		return nil, err
	}
	return &BlockSampler{blocks: blocks, order: ord}, nil
}

// NextBlock returns the next block name, or "" when exhausted.
func (s *BlockSampler) NextBlock() string {
	if s.pos >= len(s.order) {
		return ""
	}
	name := s.blocks[s.order[s.pos]]
	s.pos++
	return name
}

// RuleSampler yields rules until exhaustion.
type RuleSampler struct {
	rules []rules.Rule
	order []int
	pos   int
}

// NewRuleSampler builds a sampler over the candidate rules. The seed cell
// is only consumed by the probabilistic strategy. An unrecognized strategy
// is a configuration error.
func NewRuleSampler(candidates []rules.Rule, strategy string, seed *int64) (*RuleSampler, error) {
	ord, err := order(len(candidates), strategy, seed)
	if err != nil {
		return nil, err
	}
	return &RuleSampler{rules: candidates, order: ord}, nil
}

// NextRule returns the next rule, or nil when exhausted.
func (s *RuleSampler) NextRule() rules.Rule {
	if s.pos >= len(s.order) {
		return nil
	}
	r := s.rules[s.order[s.pos]]
	s.pos++
	return r
}
