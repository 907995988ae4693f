// Package task loads and validates tuning-task definitions.
//
// A task file is YAML describing the program to tune (its blocks and loop
// nests) and the search knobs (seed, strategy, sketch count and depth).
// Files are validated against an embedded CUE schema before use, so a task
// that decodes but violates a constraint (empty block list, unknown
// strategy, non-positive extent) is rejected with a field-level diagnostic
// instead of failing somewhere inside the search.
package task

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/schedule"
	"github.com/quarrylab/autosketch/internal/search"
)

// TuneTask is one tuning task: the subject program plus search
// configuration.
type TuneTask struct {
	// Name identifies the task in stores and logs.
	Name string `yaml:"name"`

	// Target names the platform the cost model predicts for.
	Target string `yaml:"target"`

	// Seed is the root random seed. -1 requests host entropy.
	Seed int64 `yaml:"seed"`

	// Strategy selects the sketch-generation mode:
	// "rule_prune" or "random_prune".
	Strategy string `yaml:"strategy"`

	// SketchCount is how many initial sketches to generate.
	SketchCount int `yaml:"sketch_count"`

	// SketchDepth bounds mutation steps per sketch. Zero means the
	// search default.
	SketchDepth int `yaml:"sketch_depth"`

	// UseCostModel enables cost prediction during mutation.
	UseCostModel bool `yaml:"use_cost_model"`

	// Blocks describes the program's loop nests in declaration order.
	Blocks []BlockDef `yaml:"blocks"`

	// Outputs names the blocks producing program results.
	Outputs []string `yaml:"outputs"`
}

// BlockDef describes one named loop nest.
type BlockDef struct {
	Name  string    `yaml:"name"`
	Loops []LoopDef `yaml:"loops"`
}

// LoopDef describes one loop level.
type LoopDef struct {
	Var    string `yaml:"var"`
	Extent int64  `yaml:"extent"`
}

// Defaults applied after validation when the file omits optional fields.
const (
	DefaultTarget      = "llvm"
	DefaultStrategy    = search.StrategyRulePrune
	DefaultSketchCount = 5
)

// Load reads, validates, and normalizes a task file.
func Load(path string) (*TuneTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes task YAML.
func Parse(data []byte) (*TuneTask, error) {
	// Decode generically first so the CUE schema sees exactly what the
	// file says, including fields the struct would silently default.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	t := &TuneTask{Seed: rng.SeedUnset, UseCostModel: true}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	t.normalize()
	return t, nil
}

// normalize fills omitted optional fields with defaults.
func (t *TuneTask) normalize() {
	if t.Target == "" {
		t.Target = DefaultTarget
	}
	if t.Strategy == "" {
		t.Strategy = DefaultStrategy
	}
	if t.SketchCount == 0 {
		t.SketchCount = DefaultSketchCount
	}
}

// BuildModule constructs the initial schedule from the block definitions.
func (t *TuneTask) BuildModule() *schedule.Module {
	blocks := make([]*schedule.Block, len(t.Blocks))
	for i, bd := range t.Blocks {
		loops := make([]schedule.Loop, len(bd.Loops))
		for j, ld := range bd.Loops {
			loops[j] = schedule.Loop{Var: ld.Var, Extent: ld.Extent}
		}
		blocks[i] = &schedule.Block{Name: bd.Name, Loops: loops}
	}
	return schedule.NewModule(blocks, t.Outputs)
}

// SearchConfig maps the task onto the search space configuration.
func (t *TuneTask) SearchConfig() search.Config {
	return search.Config{
		Seed:         t.Seed,
		Target:       t.Target,
		UseCostModel: t.UseCostModel,
		SketchDepth:  t.SketchDepth,
	}
}
