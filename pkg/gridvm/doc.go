// Package gridvm is the public driver for the 2x2 grid VM: decode a
// flattened program-words payload, run the grid to completion, and produce
// the signed public-outputs record a zero-knowledge prover consumes.
//
// # Quick start
//
//	driver, err := gridvm.NewDriver(gridvm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outputs, result, err := driver.Run(inputs, expected, progWords)
//	if err != nil {
//		log.Fatal(err)
//	}
//	score := gridvm.Score{Cycles: outputs.Cycles, Msgs: outputs.Msgs, NodesUsed: outputs.NodesUsed}
//	fmt.Println(result, score.Total())
//
// # Architecture
//
//   - pkg/gridvm: this package, the stable entry point.
//   - internal/gridvm/isa: the instruction algebra and its 32-bit encoding.
//   - internal/gridvm/grid: the 2x2 cell container.
//   - internal/gridvm/engine: the two-pass lock-step cycle algorithm.
//   - internal/gridvm/commit: Merkle commitments and the public-outputs record.
package gridvm
