package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/autosketch/internal/schedule"
)

func TestOpCountModel_Predict(t *testing.T) {
	m := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 10}, {Var: "j", Extent: 10}}},
		{Name: "b", Loops: []schedule.Loop{{Var: "i", Extent: 5}}},
	}, []string{"b"})

	model := NewOpCountModel()
	got, err := model.Predict(m, "x86")
	require.NoError(t, err)
	assert.Equal(t, 105.0, got)
}

func TestOpCountModel_TransformsReduceCost(t *testing.T) {
	m := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 100}}},
	}, []string{"a"})
	model := NewOpCountModel()

	base, err := model.Predict(m, "x86")
	require.NoError(t, err)

	tiled := m.Clone()
	tiled.Blocks[0].TileLevels = 1
	tiledCost, err := model.Predict(tiled, "x86")
	require.NoError(t, err)
	assert.Less(t, tiledCost, base)

	unrolled := m.Clone()
	unrolled.Blocks[0].UnrollFactor = 8
	unrolledCost, err := model.Predict(unrolled, "x86")
	require.NoError(t, err)
	assert.Less(t, unrolledCost, base)
}

func TestOpCountModel_InlinedBlocksFree(t *testing.T) {
	m := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 100}}, InlinedInto: "b"},
		{Name: "b", Loops: []schedule.Loop{{Var: "i", Extent: 10}}},
	}, []string{"b"})

	got, err := NewOpCountModel().Predict(m, "x86")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)
}

func TestOpCountModel_NilModule(t *testing.T) {
	_, err := NewOpCountModel().Predict(nil, "x86")
	assert.Error(t, err)
}

func TestOpCountModel_Deterministic(t *testing.T) {
	m := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 64}}, TileLevels: 2, UnrollFactor: 4},
	}, []string{"a"})
	model := NewOpCountModel()

	first, err := model.Predict(m, "x86")
	require.NoError(t, err)
	second, err := model.Predict(m, "x86")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
