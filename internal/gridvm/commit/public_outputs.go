package commit

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// PublicOutputs is the fixed seven-element record bound to a proof:
// [challenge_commit, program_commit, output_commit, cycles, msgs,
// nodes_used, solved]. Every field but the three commitments is a plain
// counter lifted into the field; Solved is 0 or 1.
type PublicOutputs struct {
	ChallengeCommit field.Element
	ProgramCommit   field.Element
	OutputCommit    field.Element
	Cycles          uint64
	Msgs            uint64
	NodesUsed       uint32
	Solved          bool
}

const publicOutputsLen = 7

// Serialize lays the record out in the fixed order required by the
// external ABI. It never fails: every field is already well-formed.
func (p PublicOutputs) Serialize() [publicOutputsLen]field.Element {
	var solved uint64
	if p.Solved {
		solved = 1
	}
	return [publicOutputsLen]field.Element{
		p.ChallengeCommit,
		p.ProgramCommit,
		p.OutputCommit,
		field.New(p.Cycles),
		field.New(p.Msgs),
		field.New(uint64(p.NodesUsed)),
		field.New(solved),
	}
}

// DeserializePublicOutputs is Serialize's total inverse on well-formed
// input; it fails iff the slice length is not exactly seven.
func DeserializePublicOutputs(elements []field.Element) (PublicOutputs, error) {
	if len(elements) != publicOutputsLen {
		return PublicOutputs{}, fmt.Errorf("commit: public outputs must have exactly %d elements, got %d", publicOutputsLen, len(elements))
	}
	return PublicOutputs{
		ChallengeCommit: elements[0],
		ProgramCommit:   elements[1],
		OutputCommit:    elements[2],
		Cycles:          elements[3].Value(),
		Msgs:            elements[4].Value(),
		NodesUsed:       uint32(elements[5].Value()),
		Solved:          elements[6].Value() != 0,
	}, nil
}
