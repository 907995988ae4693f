package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/autosketch/internal/rng"
	"github.com/quarrylab/autosketch/internal/search"
)

const validTask = `
name: matmul
target: x86
seed: 42
strategy: rule_prune
sketch_count: 5
sketch_depth: 6
use_cost_model: true
blocks:
  - name: init
    loops:
      - {var: i, extent: 512}
      - {var: j, extent: 512}
  - name: update
    loops:
      - {var: i, extent: 512}
      - {var: j, extent: 512}
      - {var: k, extent: 256}
outputs: [update]
`

func TestParse_Valid(t *testing.T) {
	tk, err := Parse([]byte(validTask))
	require.NoError(t, err)

	assert.Equal(t, "matmul", tk.Name)
	assert.Equal(t, "x86", tk.Target)
	assert.Equal(t, int64(42), tk.Seed)
	assert.Equal(t, "rule_prune", tk.Strategy)
	assert.Equal(t, 5, tk.SketchCount)
	assert.True(t, tk.UseCostModel)
	require.Len(t, tk.Blocks, 2)
	assert.Equal(t, []string{"update"}, tk.Outputs)
}

func TestParse_Defaults(t *testing.T) {
	minimal := `
name: tiny
blocks:
  - name: a
    loops:
      - {var: i, extent: 8}
`
	tk, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, DefaultTarget, tk.Target)
	assert.Equal(t, DefaultStrategy, tk.Strategy)
	assert.Equal(t, DefaultSketchCount, tk.SketchCount)
	assert.Equal(t, rng.SeedUnset, tk.Seed)
	assert.True(t, tk.UseCostModel, "cost model defaults to enabled")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "blocks: [{name: a, loops: [{var: i, extent: 8}]}]"},
		{"empty blocks", "name: t\nblocks: []"},
		{"missing blocks", "name: t"},
		{"zero extent", "name: t\nblocks: [{name: a, loops: [{var: i, extent: 0}]}]"},
		{"block without loops", "name: t\nblocks: [{name: a, loops: []}]"},
		{"unknown strategy", "name: t\nstrategy: greedy\nblocks: [{name: a, loops: [{var: i, extent: 8}]}]"},
		{"negative sketch count", "name: t\nsketch_count: -1\nblocks: [{name: a, loops: [{var: i, extent: 8}]}]"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTask), 0o644))

	tk, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "matmul", tk.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestBuildModule(t *testing.T) {
	tk, err := Parse([]byte(validTask))
	require.NoError(t, err)

	m := tk.BuildModule()
	assert.Equal(t, []string{"init", "update"}, m.BlockNames())
	assert.True(t, m.IsOutput("update"))

	b := m.Block("update")
	require.NotNil(t, b)
	require.Len(t, b.Loops, 3)
	assert.Equal(t, int64(256), b.Loops[2].Extent)
}

func TestSearchConfig(t *testing.T) {
	tk, err := Parse([]byte(validTask))
	require.NoError(t, err)

	cfg := tk.SearchConfig()
	assert.Equal(t, search.Config{
		Seed:         42,
		Target:       "x86",
		UseCostModel: true,
		SketchDepth:  6,
	}, cfg)
}
