package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matmulModule() *Module {
	return NewModule([]*Block{
		{Name: "init", Loops: []Loop{{Var: "i", Extent: 512}, {Var: "j", Extent: 512}}},
		{Name: "update", Loops: []Loop{{Var: "i", Extent: 512}, {Var: "j", Extent: 512}, {Var: "k", Extent: 256}}},
	}, []string{"update"})
}

func TestModule_BlockNames(t *testing.T) {
	m := matmulModule()
	assert.Equal(t, []string{"init", "update"}, m.BlockNames())
}

func TestModule_BlockNames_ExcludesInlined(t *testing.T) {
	m := matmulModule()
	m.Blocks[0].InlinedInto = "update"
	assert.Equal(t, []string{"update"}, m.BlockNames())
	assert.False(t, m.HasBlock("init"))
	assert.True(t, m.HasBlock("update"))
}

func TestModule_IsOutput(t *testing.T) {
	m := matmulModule()
	assert.True(t, m.IsOutput("update"))
	assert.False(t, m.IsOutput("init"))
}

func TestModule_Clone_Independent(t *testing.T) {
	m := matmulModule()
	c := m.Clone()

	c.Blocks[0].UnrollFactor = 8
	c.Blocks[1].Loops[0].Extent = 64
	c.Outputs[0] = "other"

	assert.Equal(t, 0, m.Blocks[0].UnrollFactor, "clone mutation leaked into original")
	assert.Equal(t, int64(512), m.Blocks[1].Loops[0].Extent)
	assert.Equal(t, "update", m.Outputs[0])
}

func TestModule_DebugString(t *testing.T) {
	m := matmulModule()
	m.Blocks[1].UnrollFactor = 4

	out := m.DebugString()
	assert.Contains(t, out, "block init:")
	assert.Contains(t, out, "for k in 0..256 unroll(4)")

	m.Blocks[0].InlinedInto = "update"
	assert.Contains(t, m.DebugString(), "block init: inlined into update")
}

func TestFingerprint_StableAcrossClones(t *testing.T) {
	m := matmulModule()
	require.Equal(t, Fingerprint(m), Fingerprint(m.Clone()))
}

func TestFingerprint_SensitiveToStructure(t *testing.T) {
	m := matmulModule()
	base := Fingerprint(m)

	tiled := m.Clone()
	tiled.Blocks[1].TileLevels = 2
	assert.NotEqual(t, base, Fingerprint(tiled))

	unrolled := m.Clone()
	unrolled.Blocks[1].UnrollFactor = 16
	assert.NotEqual(t, base, Fingerprint(unrolled))

	renamed := m.Clone()
	renamed.Blocks[0].Name = "prologue"
	assert.NotEqual(t, base, Fingerprint(renamed))
}

func TestFingerprint_Hex(t *testing.T) {
	fp := Fingerprint(matmulModule())
	assert.Len(t, fp, 64)
	assert.Equal(t, strings.ToLower(fp), fp)
}
