// Package cost defines the cost-model contract the search consults when
// scoring mutated schedules, plus a deterministic heuristic model so the
// repository runs end-to-end without an external learned predictor.
package cost

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/schedule"
)

// Model predicts the execution cost of a module on a target platform.
// Lower is better. Implementations must be deterministic for a given
// (module, target) pair: the search stores predictions on immutable
// snapshots and replays must reproduce them.
type Model interface {
	Predict(m *schedule.Module, target string) (float64, error)
}

// OpCountModel is a closed-form heuristic: iteration count of every live
// block, discounted for tiling (locality) and unrolling (issue width), and
// zero-cost for inlined blocks. It is not a performance model; it exists to
// give the search a stable, monotone scoring signal.
type OpCountModel struct{}

// NewOpCountModel creates the heuristic model.
func NewOpCountModel() *OpCountModel {
	return &OpCountModel{}
}

// Predict implements Model.
func (c *OpCountModel) Predict(m *schedule.Module, target string) (float64, error) {
	if m == nil {
		return 0, fmt.Errorf("cost: nil module")
	}
	total := 0.0
	for _, b := range m.Blocks {
		if b.InlinedInto != "" {
			continue
		}
		iters := 1.0
		for _, l := range b.Loops {
			iters *= float64(l.Extent)
		}
		// Tiling improves locality, unrolling widens issue. The discounts
		// are fixed so identical schedules always score identically.
		for i := 0; i < b.TileLevels; i++ {
			iters *= 0.75
		}
		if b.UnrollFactor > 0 {
			iters *= 0.9
		}
		total += iters
	}
	return total, nil
}
