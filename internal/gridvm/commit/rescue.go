package commit

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// RescueHash is the second, historical hash family mentioned alongside
// Poseidon: simple alternating forward/backward S-box rounds over a
// two-element state, following core.RescueHash's round structure
// (internal/vybium-starks-vm/core/hash.go), adapted here to vybium-crypto's
// field.Element.
//
// It is not collision-resistant in this shortened, fixed-round form and
// must never be used to compute a commitment compared across
// implementations — it is kept only so tests can demonstrate the two
// families are intentionally non-interoperable.
func RescueHash(inputs []field.Element) field.Element {
	state := [2]field.Element{field.Zero, field.Zero}
	for _, in := range inputs {
		state[1] = state[1].Add(in)
		state = rescuePermutation(state)
	}
	return state[0]
}

const rescueRounds = 10

func rescuePermutation(state [2]field.Element) [2]field.Element {
	for round := 0; round < rescueRounds; round++ {
		if round%2 == 0 {
			state = rescueForwardRound(state, round)
		} else {
			state = rescueBackwardRound(state, round)
		}
	}
	return state
}

func rescueForwardRound(state [2]field.Element, round int) [2]field.Element {
	rc := field.New(uint64(round + 1))
	state[0] = rescueSbox(state[0].Add(rc))
	state[1] = rescueSbox(state[1].Add(rc))
	state[0], state[1] = state[0].Add(state[1]), state[1].Add(state[0])
	return state
}

func rescueBackwardRound(state [2]field.Element, round int) [2]field.Element {
	rc := field.New(uint64(round + 101))
	state[0] = rescueInverseSbox(state[0]).Add(rc)
	state[1] = rescueInverseSbox(state[1]).Add(rc)
	state[0], state[1] = state[1], state[0].Add(state[1])
	return state
}

// rescueSbox raises x to the third power, the classic Rescue forward S-box.
func rescueSbox(x field.Element) field.Element {
	return x.Mul(x).Mul(x)
}

// rescueInverseSbox stands in for the inverse S-box by cubing again (the
// same map as rescueSbox, not a true inverse); the shortened round count here means it is not a faithful Rescue
// construction and must stay confined to the legacy-compatibility test.
func rescueInverseSbox(x field.Element) field.Element {
	return x.Mul(x).Mul(x)
}
