// Package engine implements the lock-step cycle of the 2x2 grid VM: intent
// collection over a frozen snapshot, rendezvous matching between neighbors,
// instruction effects, and halt/deadlock classification.
//
// This follows VMState.Step/ExecuteInstruction's dispatch shape
// (internal/vybium-starks-vm/vm/vm_state.go) in spirit — fetch, dispatch,
// mutate, advance the cycle counter — but differs on purpose: that VM is a
// single sequential stack machine, this one is four cells advancing
// together with a synchronization step wedged in the middle.
package engine

import (
	"github.com/vybium/gridvm/internal/gridvm/grid"
	"github.com/vybium/gridvm/internal/gridvm/isa"
)

// StepResult classifies the outcome of one call to StepCycle.
type StepResult int

const (
	Continue StepResult = iota
	Halted
	Deadlock
)

func (r StepResult) String() string {
	switch r {
	case Continue:
		return "Continue"
	case Halted:
		return "Halted"
	case Deadlock:
		return "Deadlock"
	default:
		return "StepResult(?)"
	}
}

// intent is a cell's declared port read or write for the current cycle,
// collected on a frozen snapshot before any cell mutates. value is computed
// once in pass 1 from that snapshot, so a matched reader can reuse a
// neighbor's intent value during pass 2 without ever observing the
// neighbor's post-mutation state.
type intent struct {
	present bool
	isRead  bool
	port    isa.PortTag
	value   uint32 // meaningful when !isRead
}

type intentGrid = [2][2]intent

// StepCycle advances the whole grid by one cycle. It is the sole mutator of
// GridState; everything else in this package is a helper it calls.
//
// Halted is detected a call late on purpose: the call whose processing
// causes the last cell to halt still returns Continue, and the following
// call — which does no cell processing at all — observes that the grid is
// already fully halted and returns Halted. That trailing, work-free call
// still increments cycles, so every run ends one cycle later than the call
// that last touched a cell.
func StepCycle(g *grid.GridState) StepResult {
	if allHalted(g) {
		g.Cycles++
		return Halted
	}

	var intents intentGrid
	var fetched [2][2]isa.Instruction
	var hasInst [2][2]bool

	// Pass 1: intent collection, observing only the pre-cycle snapshot.
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			node, _ := g.GetNode(r, c)
			if node.Halted {
				continue
			}
			inst, ok := g.FetchInstruction(r, c)
			if !ok {
				continue // empty program: handled as a fetch failure in pass 2
			}
			fetched[r][c] = inst
			hasInst[r][c] = true
			intents[r][c] = collectIntent(g, r, c, inst)
		}
	}

	// Pass 2: matching and effect application.
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			node, _ := g.GetNode(r, c)
			if node.Halted {
				continue
			}
			node.Blocked = false

			if !hasInst[r][c] {
				// Fetch failure: empty program converts the cell to permanently halted.
				node.Halted = true
				continue
			}

			matched := matchFor(g, intents, r, c)
			if !applyEffect(g, intents, r, c, fetched[r][c], matched) {
				node.Blocked = true
			}
		}
	}

	g.Cycles++

	activeCount, blockedCount := 0, 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			node, _ := g.GetNode(r, c)
			if !node.Halted {
				activeCount++
				if node.Blocked {
					blockedCount++
				}
			}
		}
	}
	if activeCount > 0 && blockedCount == activeCount {
		return Deadlock
	}
	return Continue
}

func allHalted(g *grid.GridState) bool {
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			node, _ := g.GetNode(r, c)
			if !node.Halted {
				return false
			}
		}
	}
	return true
}

// collectIntent records the port intent (if any) an instruction produces.
// Lit/Acc/Nil/In sources and Acc/Nil/Out destinations never block on a
// rendezvous and so never produce an intent.
func collectIntent(g *grid.GridState, r, c int, inst isa.Instruction) intent {
	switch inst.Op {
	case isa.MOV:
		// Last (as source or destination) and an In that cannot be read
		// (off (0,0), or the stream exhausted) block in pass 2, so they
		// offer nothing a neighbor could rendezvous with.
		if inst.Src.Tag == isa.SrcLast || inst.Dst.Tag == isa.DstLast ||
			(inst.Src.Tag == isa.SrcIn && (r != 0 || c != 0 || g.InCursor >= uint32(len(g.InStream)))) {
			return intent{}
		}
		if inst.Dst.Tag == isa.DstPort {
			value, ok := evalNonPortSrc(g, r, c, inst.Src)
			if !ok {
				// Src is itself a port read; this ISA never emits both src
				// and dst as ports in one instruction, but stay defensive
				// and prefer the read intent.
				return intent{present: true, isRead: true, port: inst.Src.Port}
			}
			return intent{present: true, isRead: false, port: inst.Dst.Port, value: value}
		}
		if inst.Src.Tag == isa.SrcPort {
			return intent{present: true, isRead: true, port: inst.Src.Port}
		}
	case isa.ADD, isa.SUB, isa.JMP, isa.JZ, isa.JNZ, isa.JGZ, isa.JLZ:
		if inst.Src.Tag == isa.SrcPort {
			return intent{present: true, isRead: true, port: inst.Src.Port}
		}
	}
	return intent{}
}

// evalNonPortSrc evaluates a source operand that is not Port, for building
// a write intent's payload during pass 1. ok is false if src is Port.
func evalNonPortSrc(g *grid.GridState, r, c int, src isa.Src) (uint32, bool) {
	node, _ := g.GetNode(r, c)
	switch src.Tag {
	case isa.SrcLit:
		return src.Lit, true
	case isa.SrcAcc:
		return node.Acc, true
	case isa.SrcNil:
		return 0, true
	case isa.SrcIn:
		if r == 0 && c == 0 && g.InCursor < uint32(len(g.InStream)) {
			return g.InStream[g.InCursor], true
		}
		return 0, true // blocks; value is irrelevant
	case isa.SrcPort:
		return 0, false
	default: // SrcLast: always blocks, value irrelevant
		return 0, true
	}
}

// matchFor finds the rendezvous partner (if any) for cell (r, c)'s intent:
// a write at (r,c) on port p matches a read at the neighbor in direction p
// on its opposite port, and vice versa.
func matchFor(g *grid.GridState, intents intentGrid, r, c int) bool {
	self := intents[r][c]
	if !self.present {
		return true // no port involvement; nothing to match
	}

	dr, dc := self.port.Delta()
	nr, nc := r+dr, c+dc
	if !grid.WithinGrid(nr, nc) {
		return false
	}
	neighborNode, _ := g.GetNode(nr, nc)
	if neighborNode.Halted {
		return false
	}
	other := intents[nr][nc]
	if !other.present {
		return false
	}
	if other.port != self.port.Opposite() {
		return false
	}
	return other.isRead != self.isRead
}

// applyEffect executes inst against the cell at (r, c), using the frozen
// pass-1 intents for any port operand. It returns whether the cell made
// progress this cycle (progress = PC advanced, Out produced, In consumed,
// or the cell halted outright). A false return means the cell blocked.
func applyEffect(g *grid.GridState, intents intentGrid, r, c int, inst isa.Instruction, matched bool) bool {
	node, _ := g.GetNode(r, c)
	in := intents[r][c]

	if in.present && !matched {
		return false
	}

	switch inst.Op {
	case isa.NOP:
		node.PC++
		return true

	case isa.HLT:
		node.Halted = true
		return true

	case isa.MOV:
		value, blocked := readOperand(g, intents, r, c, inst.Src, matched)
		if blocked {
			return false
		}
		if !writeOperand(g, intents, r, c, inst.Dst, value, matched) {
			return false
		}
		node.PC++
		return true

	case isa.ADD:
		value, blocked := readOperand(g, intents, r, c, inst.Src, matched)
		if blocked {
			return false
		}
		node.Acc = node.Acc + value
		node.Flags = grid.MakeFlags(node.Acc)
		node.PC++
		return true

	case isa.SUB:
		value, blocked := readOperand(g, intents, r, c, inst.Src, matched)
		if blocked {
			return false
		}
		node.Acc = node.Acc - value
		node.Flags = grid.MakeFlags(node.Acc)
		node.PC++
		return true

	case isa.NEG:
		node.Acc = 0 - node.Acc
		node.Flags = grid.MakeFlags(node.Acc)
		node.PC++
		return true

	case isa.SAV:
		node.Bak = node.Acc
		node.PC++
		return true

	case isa.SWP:
		node.Acc, node.Bak = node.Bak, node.Acc
		node.Flags = grid.MakeFlags(node.Acc)
		node.PC++
		return true

	case isa.JMP:
		target, blocked := readOperand(g, intents, r, c, inst.Src, matched)
		if blocked {
			return false
		}
		node.PC = target
		return true

	case isa.JZ, isa.JNZ, isa.JGZ, isa.JLZ:
		target, blocked := readOperand(g, intents, r, c, inst.Src, matched)
		if blocked {
			return false
		}
		if predicateHolds(inst.Op, node.Flags) {
			node.PC = target
		} else {
			node.PC++
		}
		return true

	default:
		node.PC++
		return true
	}
}

func predicateHolds(op isa.Opcode, f grid.Flags) bool {
	switch op {
	case isa.JZ:
		return f.Z
	case isa.JNZ:
		return !f.Z
	case isa.JGZ:
		return !f.Z && !f.N
	case isa.JLZ:
		return f.N
	default:
		return false
	}
}

// readOperand evaluates a source operand during effect application. Port
// reads consume the matched writer's pass-1 intent value; In consumes the
// input stream only on a successful read (never on a blocked attempt);
// Last always blocks per the documented open-question resolution.
func readOperand(g *grid.GridState, intents intentGrid, r, c int, src isa.Src, matched bool) (uint32, bool) {
	node, _ := g.GetNode(r, c)
	in := intents[r][c]
	switch src.Tag {
	case isa.SrcLit:
		return src.Lit, false
	case isa.SrcAcc:
		return node.Acc, false
	case isa.SrcNil:
		return 0, false
	case isa.SrcIn:
		if r != 0 || c != 0 {
			return 0, true // In off (0,0) blocks permanently
		}
		if g.InCursor >= uint32(len(g.InStream)) {
			return 0, true
		}
		value := g.InStream[g.InCursor]
		g.InCursor++
		return value, false
	case isa.SrcPort:
		if !in.present || !in.isRead || !matched {
			return 0, true
		}
		dr, dc := src.Port.Delta()
		nr, nc := r+dr, c+dc
		neighbor, _ := g.GetNode(nr, nc)
		value := intents[nr][nc].value
		last := src.Port
		node.Last = &last
		neighborLast := src.Port.Opposite()
		neighbor.Last = &neighborLast
		return value, false
	default: // SrcLast
		return 0, true
	}
}

// writeOperand evaluates a destination operand during effect application.
func writeOperand(g *grid.GridState, intents intentGrid, r, c int, dst isa.Dst, value uint32, matched bool) bool {
	node, _ := g.GetNode(r, c)
	in := intents[r][c]
	switch dst.Tag {
	case isa.DstAcc:
		node.Acc = value
		node.Flags = grid.MakeFlags(node.Acc)
		return true
	case isa.DstNil:
		return true
	case isa.DstOut:
		if r == 1 && c == 1 {
			g.OutStream = append(g.OutStream, value)
			g.Msgs++
		}
		// Out at any other cell is absorbed with no observable effect.
		return true
	case isa.DstPort:
		if !in.present || in.isRead || !matched {
			return false
		}
		last := dst.Port
		node.Last = &last
		dr, dc := dst.Port.Delta()
		nr, nc := r+dr, c+dc
		neighbor, _ := g.GetNode(nr, nc)
		neighborLast := dst.Port.Opposite()
		neighbor.Last = &neighborLast
		return true
	default: // DstLast
		return false
	}
}
