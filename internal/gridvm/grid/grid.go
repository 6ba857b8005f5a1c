// Package grid holds the 2x2 cell container the step engine mutates. It is
// pure data: no method here advances execution, mirroring VMState
// (internal/vybium-starks-vm/vm/vm_state.go), which separates "what the
// machine looks like" from "how it steps".
package grid

import (
	"fmt"
	"strings"

	"github.com/vybium/gridvm/internal/gridvm/isa"
)

// Flags mirrors the processor condition flags after the last accumulator write.
type Flags struct {
	Z bool
	N bool
}

// MakeFlags derives flags from a 32-bit accumulator value: Z iff the value
// is zero, N iff the value's high bit is set (i.e. it is negative when
// interpreted as two's-complement).
func MakeFlags(acc uint32) Flags {
	return Flags{
		Z: acc == 0,
		N: (acc>>31)&1 == 1,
	}
}

// NodeState is the per-cell register file, PC, and scheduling flags.
type NodeState struct {
	Acc     uint32
	Bak     uint32
	PC      uint32
	Last    *isa.PortTag // last port successfully used; nil until one is
	Flags   Flags
	Halted  bool
	Blocked bool
}

// NewNodeState returns a cell's initial state: acc=0, bak=0, pc=0, last=None,
// flags={Z:true,N:false}, halted=false, blocked=false.
func NewNodeState() NodeState {
	return NodeState{Flags: MakeFlags(0)}
}

// GridState is the 2x2 grid of cells plus its programs and I/O streams.
type GridState struct {
	Nodes    [2][2]NodeState
	Programs [2][2][]isa.Instruction

	InStream  []uint32
	InCursor  uint32
	OutStream []uint32

	Cycles uint64
	Msgs   uint64
}

// CreateEmptyGrid returns a grid with four freshly-initialized cells and
// empty programs.
func CreateEmptyGrid() *GridState {
	g := &GridState{}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			g.Nodes[r][c] = NewNodeState()
		}
	}
	return g
}

// WithinGrid reports whether (r, c) addresses one of the four cells.
func WithinGrid(r, c int) bool {
	return r >= 0 && r < 2 && c >= 0 && c < 2
}

// GetNode is a total, bounds-checked accessor: ok is false for any (r, c)
// outside the grid.
func (g *GridState) GetNode(r, c int) (*NodeState, bool) {
	if !WithinGrid(r, c) {
		return nil, false
	}
	return &g.Nodes[r][c], true
}

// GetProgram is the program-table counterpart of GetNode.
func (g *GridState) GetProgram(r, c int) ([]isa.Instruction, bool) {
	if !WithinGrid(r, c) {
		return nil, false
	}
	return g.Programs[r][c], true
}

// FetchInstruction returns the instruction the cell at (r, c) would execute
// this cycle, auto-wrapping the PC at fetch time per invariant 2. ok is
// false when the program is empty (the cell has no intent this cycle and
// the caller must treat it as a fetch failure).
func (g *GridState) FetchInstruction(r, c int) (isa.Instruction, bool) {
	prog, inGrid := g.GetProgram(r, c)
	if !inGrid || len(prog) == 0 {
		return isa.Instruction{}, false
	}
	node, _ := g.GetNode(r, c)
	idx := int(node.PC) % len(prog)
	return prog[idx], true
}

// NodesUsed counts cells whose program is non-empty, used by the driver's
// scoring step (§6).
func (g *GridState) NodesUsed() int {
	n := 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if len(g.Programs[r][c]) > 0 {
				n++
			}
		}
	}
	return n
}

// Dump renders one line per cell (acc/bak/pc/flags/halted/blocked). It backs
// the driver binary's -trace output (cmd/gridvm-driver's cycleTrace).
func (g *GridState) Dump() string {
	var b strings.Builder
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			n := g.Nodes[r][c]
			fmt.Fprintf(&b, "(%d,%d) acc=%d bak=%d pc=%d Z=%v N=%v halted=%v blocked=%v\n",
				r, c, n.Acc, n.Bak, n.PC, n.Flags.Z, n.Flags.N, n.Halted, n.Blocked)
		}
	}
	return b.String()
}
