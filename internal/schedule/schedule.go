package schedule

import (
	"fmt"
	"strings"
)

// Loop is one level of a block's loop nest.
type Loop struct {
	Var    string `json:"var"`
	Extent int64  `json:"extent"`
}

// Block is a named, addressable region of the program. Rules target blocks
// individually; annotations record which transforms have already fired.
type Block struct {
	Name  string `json:"name"`
	Loops []Loop `json:"loops"`

	// TileLevels counts how many tiling passes have split this nest.
	// Zero means the block is untiled.
	TileLevels int `json:"tile_levels,omitempty"`

	// UnrollFactor annotates the innermost loop. Zero means no unroll.
	UnrollFactor int `json:"unroll_factor,omitempty"`

	// InlinedInto names the consumer this block was folded into.
	// An inlined block is removed from the module's live block list.
	InlinedInto string `json:"inlined_into,omitempty"`
}

// Module is an ordered set of named blocks. Block declaration order is
// significant: samplers and rule evaluation walk blocks in this order, so
// the order must survive cloning unchanged.
type Module struct {
	Blocks []*Block `json:"blocks"`

	// Outputs names the blocks that produce program results.
	// Output blocks are never inlined away.
	Outputs []string `json:"outputs,omitempty"`
}

// NewModule builds a module from blocks in declaration order.
func NewModule(blocks []*Block, outputs []string) *Module {
	return &Module{Blocks: blocks, Outputs: outputs}
}

// BlockNames returns the names of live (non-inlined) blocks in declaration
// order.
func (m *Module) BlockNames() []string {
	names := make([]string, 0, len(m.Blocks))
	for _, b := range m.Blocks {
		if b.InlinedInto == "" {
			names = append(names, b.Name)
		}
	}
	return names
}

// HasBlock reports whether a live block with the given name exists.
func (m *Module) HasBlock(name string) bool {
	b := m.Block(name)
	return b != nil
}

// Block returns the live block with the given name, or nil.
func (m *Module) Block(name string) *Block {
	for _, b := range m.Blocks {
		if b.Name == name && b.InlinedInto == "" {
			return b
		}
	}
	return nil
}

// IsOutput reports whether the named block is a program output.
func (m *Module) IsOutput(name string) bool {
	for _, out := range m.Outputs {
		if out == name {
			return true
		}
	}
	return false
}

// Clone produces a deep copy. The copy shares nothing with the original;
// mutating one never affects the other.
func (m *Module) Clone() *Module {
	blocks := make([]*Block, len(m.Blocks))
	for i, b := range m.Blocks {
		nb := *b
		nb.Loops = make([]Loop, len(b.Loops))
		copy(nb.Loops, b.Loops)
		blocks[i] = &nb
	}
	outputs := make([]string, len(m.Outputs))
	copy(outputs, m.Outputs)
	return &Module{Blocks: blocks, Outputs: outputs}
}

// DebugString renders the module as an indented loop-nest listing.
// The rendering is deterministic: declaration order, stable annotation
// placement. Inlined blocks appear as one-line tombstones.
func (m *Module) DebugString() string {
	var sb strings.Builder
	for _, b := range m.Blocks {
		if b.InlinedInto != "" {
			fmt.Fprintf(&sb, "block %s: inlined into %s\n", b.Name, b.InlinedInto)
			continue
		}
		fmt.Fprintf(&sb, "block %s:\n", b.Name)
		for depth, l := range b.Loops {
			indent := strings.Repeat("  ", depth+1)
			fmt.Fprintf(&sb, "%sfor %s in 0..%d", indent, l.Var, l.Extent)
			if depth == len(b.Loops)-1 && b.UnrollFactor > 0 {
				fmt.Fprintf(&sb, " unroll(%d)", b.UnrollFactor)
			}
			sb.WriteString("\n")
		}
		if b.TileLevels > 0 {
			fmt.Fprintf(&sb, "  # tiled x%d\n", b.TileLevels)
		}
	}
	return sb.String()
}
