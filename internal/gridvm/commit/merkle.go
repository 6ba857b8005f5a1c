// Package commit is the public-output commitment layer: a Poseidon Merkle
// tree over field elements, and the program/output/challenge commitments and
// fixed 7-element public-outputs record built on top of it.
//
// Follows core.MerkleTree's shape (internal/vybium-starks-vm/core/merkle.go):
// levels built bottom-up, Proof walking sibling indices, VerifyProof
// recombining up to the root — but rebuilt over field.Element leaves and
// Poseidon pairing instead of core's byte-slice/SHA-256 tree, since this
// commitment layer must match leaf-for-leaf with a witness generator
// running the same construction.
package commit

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// MerkleTree holds every level of a padded, bottom-up Poseidon tree so that
// Proof can walk back down from any leaf index.
type MerkleTree struct {
	root   field.Element
	leaves []field.Element // original, unpadded
	levels [][]field.Element
}

// NewMerkleTree builds the tree per the root rules: empty -> root 0 (no
// levels to walk), single leaf -> that leaf is the root with no hashing,
// otherwise pad to the next power of two with zero leaves and reduce
// pairwise with HashPair.
func NewMerkleTree(leaves []field.Element) *MerkleTree {
	if len(leaves) == 0 {
		return &MerkleTree{root: field.Zero}
	}
	if len(leaves) == 1 {
		return &MerkleTree{root: leaves[0], leaves: leaves}
	}

	padded := make([]field.Element, nextPowerOfTwo(len(leaves)))
	copy(padded, leaves)
	for i := len(leaves); i < len(padded); i++ {
		padded[i] = field.Zero
	}

	levels := [][]field.Element{padded}
	current := padded
	for len(current) > 1 {
		next := make([]field.Element, len(current)/2)
		for i := range next {
			next[i] = HashPair(current[2*i], current[2*i+1])
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{root: current[0], leaves: leaves, levels: levels}
}

// MerkleRoot is the convenience entry point for callers that only need the
// root, not a proof-capable tree.
func MerkleRoot(leaves []field.Element) field.Element {
	return NewMerkleTree(leaves).Root()
}

// Root returns the tree's root, as computed at construction time.
func (t *MerkleTree) Root() field.Element {
	return t.root
}

// Proof returns the sibling path from leaf index to the root, bottom-up.
// It is only defined for trees with two or more leaves (fewer than that
// have no intermediate levels to prove against).
func (t *MerkleTree) Proof(index int) ([]field.Element, error) {
	if index < 0 || index >= len(t.leaves) {
		return nil, fmt.Errorf("commit: leaf index %d out of range [0, %d)", index, len(t.leaves))
	}
	if len(t.levels) == 0 {
		return nil, fmt.Errorf("commit: no proof for a tree with fewer than two leaves")
	}

	proof := make([]field.Element, 0, len(t.levels)-1)
	current := index
	for level := 0; level < len(t.levels)-1; level++ {
		siblingIndex := current ^ 1
		proof = append(proof, t.levels[level][siblingIndex])
		current /= 2
	}
	return proof, nil
}

// VerifyProof walks the sibling path bottom-up: at an even index the
// current value is the left operand, otherwise the right, halving the
// index at each step, and accepts iff the final value equals root.
func VerifyProof(root field.Element, leaf field.Element, proof []field.Element, index int) bool {
	current := leaf
	for _, sibling := range proof {
		if index%2 == 0 {
			current = HashPair(current, sibling)
		} else {
			current = HashPair(sibling, current)
		}
		index /= 2
	}
	return current.Equal(root)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
