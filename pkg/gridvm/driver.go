package gridvm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/gridvm/internal/gridvm/commit"
	"github.com/vybium/gridvm/internal/gridvm/engine"
	"github.com/vybium/gridvm/internal/gridvm/grid"
	"github.com/vybium/gridvm/internal/gridvm/isa"
)

// cellOrder is the row-major cell order prog_words is flattened in.
var cellOrder = [4][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

// Driver owns one run of the VM end to end: decode prog_words, load the
// grid, step to completion, score, and commit.
type Driver struct {
	config *Config
}

// NewDriver creates a Driver bound to config. Callers with no overrides
// should pass DefaultConfig().
func NewDriver(config *Config) (*Driver, error) {
	if config == nil {
		return nil, &DriverError{Code: ErrInvalidConfig, Message: "config must not be nil"}
	}
	if err := config.Validate(); err != nil {
		return nil, &DriverError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}
	return &Driver{config: config}, nil
}

// Trace is called once per cycle, right after StepCycle returns, with the
// grid's state for that cycle. RunTraced passes the grid itself rather than
// a copy, so a Trace must not mutate it; it exists purely for the driver
// binary's verbose mode to render a cycle-by-cycle disassembly via
// grid.GridState.Dump and isa.Instruction.String without pkg/gridvm itself
// taking a logging dependency.
type Trace func(cycle uint64, g *grid.GridState)

// Run decodes prog_words into the four programs, derives program_commit,
// runs the grid to Halted, Deadlock, or MaxCycles, and returns the public
// outputs record along with the terminal step result (useful for logging;
// it is not part of the 7-element record itself).
func (d *Driver) Run(inputs, expected []uint32, progWords []field.Element) (commit.PublicOutputs, engine.StepResult, error) {
	return d.run(inputs, expected, progWords, nil)
}

// RunTraced behaves like Run but invokes trace after every cycle. Pass nil
// to get Run's behavior back.
func (d *Driver) RunTraced(inputs, expected []uint32, progWords []field.Element, trace Trace) (commit.PublicOutputs, engine.StepResult, error) {
	return d.run(inputs, expected, progWords, trace)
}

func (d *Driver) run(inputs, expected []uint32, progWords []field.Element, trace Trace) (commit.PublicOutputs, engine.StepResult, error) {
	programs := decodeProgWords(progWords)

	programCommit, err := commit.ProgramCommitment(programs)
	if err != nil {
		return commit.PublicOutputs{}, engine.Continue, &DriverError{
			Code:    ErrCommitment,
			Message: "program commitment failed",
			Cause:   err,
		}
	}

	g := grid.CreateEmptyGrid()
	g.Programs = programs
	g.InStream = inputs

	var result engine.StepResult
	for {
		result = engine.StepCycle(g)
		if trace != nil {
			trace(g.Cycles, g)
		}
		if result != engine.Continue || g.Cycles >= d.config.MaxCycles {
			break
		}
	}

	outputs := commit.PublicOutputs{
		ChallengeCommit: commit.ChallengeCommitment(inputs, expected),
		ProgramCommit:   programCommit,
		OutputCommit:    commit.OutputCommitment(g.OutStream),
		Cycles:          g.Cycles,
		Msgs:            g.Msgs,
		NodesUsed:       uint32(g.NodesUsed()),
		Solved:          outMatches(g.OutStream, expected),
	}
	return outputs, result, nil
}

// decodeProgWords implements the §4.E layout: for each cell in row-major
// order, a length prefix n followed by n encoded instructions. Truncated
// input is tolerated by leaving the current cell and every cell after it
// empty — decoding never fails.
func decodeProgWords(progWords []field.Element) [2][2][]isa.Instruction {
	var programs [2][2][]isa.Instruction
	idx := 0
	for _, cell := range cellOrder {
		if idx >= len(progWords) {
			break
		}
		n := int(progWords[idx].Value())
		idx++
		if n < 0 || idx+n > len(progWords) {
			break
		}
		instructions := make([]isa.Instruction, n)
		for j := 0; j < n; j++ {
			word := uint32(progWords[idx].Value())
			instructions[j] = isa.Decode(word)
			idx++
		}
		programs[cell[0]][cell[1]] = instructions
	}
	return programs
}

// outMatches reports whether the produced output stream is element-wise
// equal to expected (§4.E step 5).
func outMatches(out, expected []uint32) bool {
	if len(out) != len(expected) {
		return false
	}
	for i, v := range out {
		if v != expected[i] {
			return false
		}
	}
	return true
}
