package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/autosketch/internal/schedule"
)

func twoBlockModule() *schedule.Module {
	return schedule.NewModule([]*schedule.Block{
		{Name: "producer", Loops: []schedule.Loop{{Var: "i", Extent: 64}}},
		{Name: "consumer", Loops: []schedule.Loop{{Var: "i", Extent: 64}, {Var: "j", Extent: 32}}},
	}, []string{"consumer"})
}

func TestInline_Init(t *testing.T) {
	r := NewInline()
	m := twoBlockModule()

	assert.Equal(t, Apply, r.Init(m))
	assert.Equal(t, 1, r.NumberApplicable(), "only the non-output block is inlinable")
}

func TestInline_Apply(t *testing.T) {
	r := NewInline()
	m := twoBlockModule()

	require.Equal(t, Apply, r.Init(m))
	require.NoError(t, r.Apply(0))

	assert.False(t, m.HasBlock("producer"))
	assert.True(t, m.HasBlock("consumer"))
	assert.Equal(t, "consumer", m.Blocks[0].InlinedInto)
}

func TestInline_CannotApply(t *testing.T) {
	r := NewInline()

	noOutputs := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 8}}},
	}, nil)
	assert.Equal(t, CannotApply, r.Init(noOutputs))

	onlyOutput := schedule.NewModule([]*schedule.Block{
		{Name: "a", Loops: []schedule.Loop{{Var: "i", Extent: 8}}},
	}, []string{"a"})
	assert.Equal(t, CannotApply, r.Init(onlyOutput))
}

func TestInline_ApplyOnBlock_LeavesInputUntouched(t *testing.T) {
	r := NewInline()
	m := twoBlockModule()

	successors := r.ApplyOnBlock(m, "producer")
	require.Len(t, successors, 1)
	assert.False(t, successors[0].HasBlock("producer"))
	assert.True(t, m.HasBlock("producer"), "input module must not be mutated")
}

func TestInline_ApplyOnBlock_OutputBlock(t *testing.T) {
	r := NewInline()
	m := twoBlockModule()

	assert.Equal(t, CannotApply, r.AnalyseApplyType(m, "consumer"))
	assert.Empty(t, r.ApplyOnBlock(m, "consumer"))
}

func TestMultiLevelTiling_Init(t *testing.T) {
	r := NewMultiLevelTiling()
	m := twoBlockModule()

	assert.Equal(t, ApplyAndSkipThisRule, r.Init(m))
	// producer: 64 divisible by 4, 8, 16. consumer: same plus j=32.
	assert.Equal(t, 6, r.NumberApplicable())
}

func TestMultiLevelTiling_Apply(t *testing.T) {
	r := NewMultiLevelTiling()
	m := twoBlockModule()

	require.Equal(t, ApplyAndSkipThisRule, r.Init(m))
	require.NoError(t, r.Apply(0)) // producer, factor 4

	b := m.Block("producer")
	require.NotNil(t, b)
	assert.Equal(t, 1, b.TileLevels)
	require.Len(t, b.Loops, 2)
	assert.Equal(t, int64(16), b.Loops[0].Extent)
	assert.Equal(t, int64(4), b.Loops[1].Extent)
	assert.Equal(t, "i_outer", b.Loops[0].Var)
	assert.Equal(t, "i_inner", b.Loops[1].Var)
}

func TestMultiLevelTiling_TiledBlockExcluded(t *testing.T) {
	r := NewMultiLevelTiling()
	m := twoBlockModule()
	m.Block("producer").TileLevels = 1
	m.Block("consumer").TileLevels = 1

	assert.Equal(t, CannotApply, r.Init(m))
	assert.Equal(t, CannotApply, r.AnalyseApplyType(m, "producer"))
}

func TestMultiLevelTiling_ApplyOnBlock_FanOut(t *testing.T) {
	r := NewMultiLevelTiling()
	m := twoBlockModule()

	successors := r.ApplyOnBlock(m, "consumer")
	require.Len(t, successors, 3, "one successor per viable tile factor")
	for _, s := range successors {
		assert.Equal(t, 1, s.Block("consumer").TileLevels)
	}
	assert.Equal(t, 0, m.Block("consumer").TileLevels, "input module must not be mutated")
}

func TestUnroll_Init(t *testing.T) {
	r := NewUnroll()
	m := twoBlockModule()

	assert.Equal(t, ApplyAndSkipThisRule, r.Init(m))
	// producer innermost 64: factors 4, 16, 64. consumer innermost 32: 4, 16.
	assert.Equal(t, 5, r.NumberApplicable())
}

func TestUnroll_Apply(t *testing.T) {
	r := NewUnroll()
	m := twoBlockModule()

	require.Equal(t, ApplyAndSkipThisRule, r.Init(m))
	require.NoError(t, r.Apply(4)) // consumer, factor 16

	assert.Equal(t, 16, m.Block("consumer").UnrollFactor)
	assert.Equal(t, 0, m.Block("producer").UnrollFactor)
}

func TestUnroll_AlreadyUnrolledExcluded(t *testing.T) {
	r := NewUnroll()
	m := twoBlockModule()
	m.Block("producer").UnrollFactor = 4
	m.Block("consumer").UnrollFactor = 4

	assert.Equal(t, CannotApply, r.Init(m))
}

func TestSkip_AlwaysApplies(t *testing.T) {
	r := NewSkip()
	m := twoBlockModule()

	assert.Equal(t, ApplyAndSkipAllRules, r.Init(m))
	assert.Equal(t, 1, r.NumberApplicable())
	assert.NoError(t, r.Apply(0))
	assert.Equal(t, schedule.Fingerprint(twoBlockModule()), schedule.Fingerprint(m),
		"skip must not transform the module")
}

func TestSkip_ApplyOnBlock(t *testing.T) {
	r := NewSkip()
	m := twoBlockModule()

	successors := r.ApplyOnBlock(m, "producer")
	require.Len(t, successors, 1)
	assert.Equal(t, schedule.Fingerprint(m), schedule.Fingerprint(successors[0]))

	assert.Empty(t, r.ApplyOnBlock(m, "missing"))
}

func TestApply_OutOfRange(t *testing.T) {
	m := twoBlockModule()
	for _, r := range DefaultRegistry() {
		r.Init(m)
		assert.Error(t, r.Apply(-1), r.Name())
		assert.Error(t, r.Apply(r.NumberApplicable()), r.Name())
	}
}

func TestDefaultRegistry_Order(t *testing.T) {
	reg := DefaultRegistry()
	require.Len(t, reg, 4)

	names := make([]string, len(reg))
	for i, r := range reg {
		names[i] = r.Name()
	}
	assert.Equal(t, []string{"inline", "multi_level_tiling", "unroll", "skip"}, names)
}

func TestApplyType_String(t *testing.T) {
	assert.Equal(t, "cannot_apply", CannotApply.String())
	assert.Equal(t, "apply", Apply.String())
	assert.Equal(t, "apply_and_skip_this_rule", ApplyAndSkipThisRule.String())
	assert.Equal(t, "apply_and_skip_all_rules", ApplyAndSkipAllRules.String())
}
