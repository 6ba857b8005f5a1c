package gridvm

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/gridvm/internal/gridvm/commit"
	"github.com/vybium/gridvm/internal/gridvm/engine"
	"github.com/vybium/gridvm/internal/gridvm/isa"
)

// encodeProgWords flattens the four cell programs into the §4.E
// length-prefixed, row-major payload a Driver decodes.
func encodeProgWords(t *testing.T, programs [2][2][]isa.Instruction) []field.Element {
	t.Helper()
	var words []field.Element
	for _, cell := range cellOrder {
		prog := programs[cell[0]][cell[1]]
		words = append(words, field.New(uint64(len(prog))))
		for _, inst := range prog {
			word, err := isa.Encode(inst)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			words = append(words, field.New(uint64(word)))
		}
	}
	return words
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := NewDriver(DefaultConfig())
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}
	return d
}

func TestDriverPassThroughConstant(t *testing.T) {
	var programs [2][2][]isa.Instruction
	programs[1][1] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.LitSrc(42), Dst: isa.OutDst()},
		{Op: isa.HLT},
	}

	outputs, result, err := newTestDriver(t).Run(nil, []uint32{42}, encodeProgWords(t, programs))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Halted {
		t.Fatalf("result = %v, want Halted", result)
	}
	if outputs.Cycles != 3 {
		t.Errorf("cycles = %d, want 3", outputs.Cycles)
	}
	if outputs.Msgs != 1 {
		t.Errorf("msgs = %d, want 1", outputs.Msgs)
	}
	if outputs.NodesUsed != 1 {
		t.Errorf("nodes_used = %d, want 1", outputs.NodesUsed)
	}
	if !outputs.Solved {
		t.Error("solved = false, want true")
	}
}

func TestDriverSimpleArithmeticNoIO(t *testing.T) {
	var programs [2][2][]isa.Instruction
	programs[0][0] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.LitSrc(5), Dst: isa.AccDst()},
		{Op: isa.ADD, Src: isa.LitSrc(10)},
		{Op: isa.HLT},
	}

	outputs, result, err := newTestDriver(t).Run(nil, nil, encodeProgWords(t, programs))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Halted {
		t.Fatalf("result = %v, want Halted", result)
	}
	if outputs.Cycles != 4 {
		t.Errorf("cycles = %d, want 4", outputs.Cycles)
	}
	if outputs.Msgs != 0 {
		t.Errorf("msgs = %d, want 0", outputs.Msgs)
	}
	if !outputs.Solved {
		t.Error("solved = false, want true (empty out_stream == empty expected)")
	}
}

func TestDriverInputToOutputViaRendezvous(t *testing.T) {
	var programs [2][2][]isa.Instruction
	programs[0][0] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.InSrc(), Dst: isa.PortDst(isa.Right)},
		{Op: isa.HLT},
	}
	programs[0][1] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.PortSrc(isa.Left), Dst: isa.AccDst()},
		{Op: isa.MOV, Src: isa.AccSrc(), Dst: isa.PortDst(isa.Down)},
		{Op: isa.HLT},
	}
	programs[1][1] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.PortSrc(isa.Up), Dst: isa.OutDst()},
		{Op: isa.HLT},
	}

	outputs, result, err := newTestDriver(t).Run([]uint32{42}, []uint32{42}, encodeProgWords(t, programs))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Halted {
		t.Fatalf("result = %v, want Halted", result)
	}
	if outputs.Msgs != 1 {
		t.Errorf("msgs = %d, want 1", outputs.Msgs)
	}
	if outputs.NodesUsed != 3 {
		t.Errorf("nodes_used = %d, want 3", outputs.NodesUsed)
	}
	if !outputs.Solved {
		t.Error("solved = false, want true")
	}
}

func TestDriverEmptyProgramGrid(t *testing.T) {
	progWords := []field.Element{field.Zero, field.Zero, field.Zero, field.Zero}

	outputs, result, err := newTestDriver(t).Run(nil, nil, progWords)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Halted {
		t.Fatalf("result = %v, want Halted", result)
	}
	if !outputs.Solved {
		t.Error("solved = false, want true")
	}
	wantProgramCommit := commit.MerkleRoot([]field.Element{field.Zero, field.Zero, field.Zero, field.Zero})
	if !outputs.ProgramCommit.Equal(wantProgramCommit) {
		t.Errorf("program_commit = %v, want merkle_root([0,0,0,0]) = %v", outputs.ProgramCommit, wantProgramCommit)
	}
}

func TestDriverDeadlock(t *testing.T) {
	var programs [2][2][]isa.Instruction
	programs[0][0] = []isa.Instruction{
		{Op: isa.MOV, Src: isa.PortSrc(isa.Right), Dst: isa.AccDst()},
		{Op: isa.HLT},
	}

	outputs, result, err := newTestDriver(t).Run(nil, nil, encodeProgWords(t, programs))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Deadlock {
		t.Fatalf("result = %v, want Deadlock", result)
	}
	if !outputs.Solved {
		t.Error("solved = false, want true (empty out_stream == empty expected even on deadlock)")
	}
}

func TestDriverCycleCapTimeout(t *testing.T) {
	var programs [2][2][]isa.Instruction
	programs[0][0] = []isa.Instruction{
		{Op: isa.JMP, Src: isa.LitSrc(0)},
		{Op: isa.HLT},
	}

	d, err := NewDriver(DefaultConfig().WithMaxCycles(50))
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	outputs, result, err := d.Run(nil, nil, encodeProgWords(t, programs))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != engine.Continue {
		t.Fatalf("result = %v, want Continue (driver stops on the cycle cap, not a terminal StepResult)", result)
	}
	if outputs.Cycles != 50 {
		t.Errorf("cycles = %d, want 50", outputs.Cycles)
	}
}

func TestDecodeProgWordsToleratesTruncation(t *testing.T) {
	// Only enough words for cell (0,0)'s prefix and one instruction; the
	// other three cells must come out empty rather than erroring.
	word, err := isa.Encode(isa.Instruction{Op: isa.HLT})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	progWords := []field.Element{field.New(1), field.New(uint64(word))}

	programs := decodeProgWords(progWords)
	if len(programs[0][0]) != 1 {
		t.Fatalf("programs[0][0] has %d instructions, want 1", len(programs[0][0]))
	}
	if len(programs[0][1]) != 0 || len(programs[1][0]) != 0 || len(programs[1][1]) != 0 {
		t.Error("cells past the truncation point must be empty")
	}
}

func TestDecodeProgWordsToleratesOversizedLengthPrefix(t *testing.T) {
	// A length prefix claiming more instructions than remain in the payload
	// must stop decoding, not panic or read out of bounds.
	progWords := []field.Element{field.New(99)}

	programs := decodeProgWords(progWords)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if len(programs[r][c]) != 0 {
				t.Errorf("programs[%d][%d] has %d instructions, want 0", r, c, len(programs[r][c]))
			}
		}
	}
}

func TestNewDriverRejectsNilConfig(t *testing.T) {
	if _, err := NewDriver(nil); err == nil {
		t.Error("expected an error for a nil config")
	}
}

func TestConfigValidateRejectsRescue(t *testing.T) {
	cfg := DefaultConfig().WithHashFamily(HashFamilyRescue)
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject HashFamilyRescue for a driver run")
	}
}

func TestScoreTotal(t *testing.T) {
	s := Score{Cycles: 100, Msgs: 8, NodesUsed: 3}
	want := uint64(100 + 5*3 + 8/4)
	if got := s.Total(); got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
}
