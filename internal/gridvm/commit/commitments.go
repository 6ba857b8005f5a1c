package commit

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/gridvm/internal/gridvm/isa"
)

// ProgramCommitment encodes every instruction of every cell (row-major
// order) to a field element via isa.Encode, Merkle-roots each cell's
// encodings into a per-cell digest, then Merkle-roots the four per-cell
// digests. A cell with an empty program contributes the empty-sequence
// root, 0.
func ProgramCommitment(programs [2][2][]isa.Instruction) (field.Element, error) {
	var cellDigests [4]field.Element
	i := 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			elements := make([]field.Element, len(programs[r][c]))
			for j, inst := range programs[r][c] {
				word, err := isa.Encode(inst)
				if err != nil {
					return field.Zero, err
				}
				elements[j] = field.New(uint64(word))
			}
			cellDigests[i] = MerkleRoot(elements)
			i++
		}
	}
	return MerkleRoot(cellDigests[:]), nil
}

// OutputCommitment is the Merkle root of the produced output stream, each
// value zero-extended into a field element.
func OutputCommitment(outStream []uint32) field.Element {
	return MerkleRoot(u32sToElements(outStream))
}

// ChallengeCommitment roots the two-element sequence
// [Merkle_root(inputs), Merkle_root(expected)], preserving a clean
// homomorphism for provers that commit to the two streams separately.
func ChallengeCommitment(inputs, expected []uint32) field.Element {
	inputsRoot := MerkleRoot(u32sToElements(inputs))
	expectedRoot := MerkleRoot(u32sToElements(expected))
	return MerkleRoot([]field.Element{inputsRoot, expectedRoot})
}

func u32sToElements(values []uint32) []field.Element {
	elements := make([]field.Element, len(values))
	for i, v := range values {
		elements[i] = field.New(uint64(v))
	}
	return elements
}
