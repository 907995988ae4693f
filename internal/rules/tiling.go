package rules

import (
	"fmt"

	"github.com/quarrylab/autosketch/internal/schedule"
)

// tileFactors are the candidate tile widths, tried smallest first.
var tileFactors = []int64{4, 8, 16}

// MultiLevelTiling splits the loops of an untiled block by a tile factor,
// turning each divisible loop into an outer/inner pair. Each (block, factor)
// pair is a distinct applicable position, so blocks with more viable tile
// shapes weigh proportionally more in the sampling round. The rule excludes
// itself after firing: one tiling decision per state per round is enough,
// re-tiling an already tiled nest is never profitable here.
type MultiLevelTiling struct {
	bound     *schedule.Module
	positions []tilePosition
}

type tilePosition struct {
	block  string
	factor int64
}

// NewMultiLevelTiling creates the tiling rule.
func NewMultiLevelTiling() *MultiLevelTiling {
	return &MultiLevelTiling{}
}

// Name implements Rule.
func (r *MultiLevelTiling) Name() string { return "multi_level_tiling" }

// Init implements Rule.
func (r *MultiLevelTiling) Init(m *schedule.Module) ApplyType {
	r.bound = m
	r.positions = r.positions[:0]
	for _, name := range m.BlockNames() {
		for _, factor := range blockTileFactors(m.Block(name)) {
			r.positions = append(r.positions, tilePosition{block: name, factor: factor})
		}
	}
	if len(r.positions) == 0 {
		return CannotApply
	}
	return ApplyAndSkipThisRule
}

// NumberApplicable implements Rule.
func (r *MultiLevelTiling) NumberApplicable() int { return len(r.positions) }

// Apply implements Rule.
func (r *MultiLevelTiling) Apply(localIndex int) error {
	if localIndex < 0 || localIndex >= len(r.positions) {
		return fmt.Errorf("multi_level_tiling: position %d out of range [0, %d)", localIndex, len(r.positions))
	}
	pos := r.positions[localIndex]
	return tileBlock(r.bound, pos.block, pos.factor)
}

// AnalyseApplyType implements Rule.
func (r *MultiLevelTiling) AnalyseApplyType(m *schedule.Module, blockName string) ApplyType {
	if len(blockTileFactors(m.Block(blockName))) == 0 {
		return CannotApply
	}
	return ApplyAndSkipThisRule
}

// ApplyOnBlock implements Rule. Fan-out: one successor per viable tile
// factor for the block.
func (r *MultiLevelTiling) ApplyOnBlock(m *schedule.Module, blockName string) []*schedule.Module {
	factors := blockTileFactors(m.Block(blockName))
	states := make([]*schedule.Module, 0, len(factors))
	for _, factor := range factors {
		clone := m.Clone()
		if err := tileBlock(clone, blockName, factor); err != nil {
			continue
		}
		states = append(states, clone)
	}
	return states
}

// blockTileFactors returns the tile factors applicable to a block: the
// block must be live and untiled, and a factor applies when at least one
// loop extent is divisible by it with a non-trivial outer part.
func blockTileFactors(b *schedule.Block) []int64 {
	if b == nil || b.TileLevels > 0 {
		return nil
	}
	var factors []int64
	for _, factor := range tileFactors {
		for _, l := range b.Loops {
			if l.Extent%factor == 0 && l.Extent > factor {
				factors = append(factors, factor)
				break
			}
		}
	}
	return factors
}

// tileBlock splits every divisible loop of the block into an outer/inner
// pair and bumps the tile level.
func tileBlock(m *schedule.Module, name string, factor int64) error {
	b := m.Block(name)
	if b == nil {
		return fmt.Errorf("multi_level_tiling: block %q not found", name)
	}
	tiled := make([]schedule.Loop, 0, len(b.Loops)*2)
	split := false
	for _, l := range b.Loops {
		if l.Extent%factor == 0 && l.Extent > factor {
			tiled = append(tiled,
				schedule.Loop{Var: l.Var + "_outer", Extent: l.Extent / factor},
				schedule.Loop{Var: l.Var + "_inner", Extent: factor},
			)
			split = true
		} else {
			tiled = append(tiled, l)
		}
	}
	if !split {
		return fmt.Errorf("multi_level_tiling: factor %d splits no loop of block %q", factor, name)
	}
	b.Loops = tiled
	b.TileLevels++
	return nil
}
