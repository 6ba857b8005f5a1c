// Command gridvm-driver runs one grid-VM challenge and prints its public
// outputs record. It reads a JSON document from stdin:
//
//	{
//	  "inputs":     [u32, ...],
//	  "expected":   [u32, ...],
//	  "prog_words": [u64, ...]
//	}
//
// inputs/expected are the challenge file format of spec.md §4.E/§6.
// prog_words is the flattened, length-prefixed program payload an external
// assembler produces; loading it from JSON here is a convenience for local
// runs, not the binary-stable ABI itself (that is Driver.Run).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/gridvm/internal/gridvm/commit"
	"github.com/vybium/gridvm/internal/gridvm/engine"
	"github.com/vybium/gridvm/internal/gridvm/grid"
	"github.com/vybium/gridvm/pkg/gridvm"
)

type challenge struct {
	Inputs    []uint32 `json:"inputs"`
	Expected  []uint32 `json:"expected"`
	ProgWords []uint64 `json:"prog_words"`
}

func main() {
	maxCycles := flag.Uint64("max-cycles", gridvm.MaxCycles, "cycle cap for this run")
	verbose := flag.Bool("trace", false, "log a per-cycle grid/instruction trace at glog -v=2")
	flag.Parse()
	defer glog.Flush()

	ch, err := readChallenge(os.Stdin)
	if err != nil {
		glog.Exitf("reading challenge: %v", err)
	}
	glog.Infof("decoded challenge: %d input(s), %d expected, %d prog_word(s)",
		len(ch.Inputs), len(ch.Expected), len(ch.ProgWords))

	progWords := make([]field.Element, len(ch.ProgWords))
	for i, w := range ch.ProgWords {
		progWords[i] = field.New(w)
	}

	config := gridvm.DefaultConfig().WithMaxCycles(*maxCycles)
	driver, err := gridvm.NewDriver(config)
	if err != nil {
		glog.Exitf("building driver: %v", err)
	}

	var trace gridvm.Trace
	if *verbose {
		trace = cycleTrace
	}

	glog.Info("running grid to completion")
	outputs, result, err := driver.RunTraced(ch.Inputs, ch.Expected, progWords, trace)
	if err != nil {
		glog.Exitf("run failed: %v", err)
	}

	switch result {
	case engine.Deadlock:
		glog.Warningf("run ended in Deadlock after %d cycles", outputs.Cycles)
	case engine.Continue:
		glog.Warningf("run hit the cycle cap (%d) without halting", config.MaxCycles)
	default:
		glog.V(2).Infof("run halted cleanly after %d cycles", outputs.Cycles)
	}

	score := gridvm.Score{Cycles: outputs.Cycles, Msgs: outputs.Msgs, NodesUsed: outputs.NodesUsed}
	glog.Infof("solved=%v cycles=%d msgs=%d nodes_used=%d score=%d",
		outputs.Solved, outputs.Cycles, outputs.Msgs, outputs.NodesUsed, score.Total())

	if err := printPublicOutputs(os.Stdout, outputs); err != nil {
		glog.Exitf("printing public outputs: %v", err)
	}
}

// cycleTrace renders one cycle's grid state and each cell's next
// instruction at glog -v=2, using grid.GridState.Dump and
// isa.Instruction.String (%s drives Instruction.String via fmt.Stringer).
func cycleTrace(cycle uint64, g *grid.GridState) {
	glog.V(2).Infof("cycle %d:\n%s", cycle, g.Dump())
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if inst, ok := g.FetchInstruction(r, c); ok {
				glog.V(2).Infof("  (%d,%d) next: %s", r, c, inst)
			}
		}
	}
}

func readChallenge(r io.Reader) (challenge, error) {
	var ch challenge
	if err := json.NewDecoder(r).Decode(&ch); err != nil {
		return challenge{}, fmt.Errorf("decode challenge JSON: %w", err)
	}
	return ch, nil
}

func printPublicOutputs(w io.Writer, outputs commit.PublicOutputs) error {
	serialized := outputs.Serialize()
	values := make([]uint64, len(serialized))
	for i, e := range serialized {
		values[i] = e.Value()
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
