package commit

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

func TestMerkleRootEmpty(t *testing.T) {
	root := MerkleRoot(nil)
	if !root.Equal(field.Zero) {
		t.Errorf("MerkleRoot(nil) = %v, want 0", root)
	}
}

func TestMerkleRootSingleLeafIsIdentity(t *testing.T) {
	leaf := field.New(7)
	root := MerkleRoot([]field.Element{leaf})
	if !root.Equal(leaf) {
		t.Errorf("MerkleRoot([x]) = %v, want %v (no hashing)", root, leaf)
	}
}

func TestHashPairNotCommutative(t *testing.T) {
	a, b := field.New(1), field.New(2)
	if HashPair(a, b).Equal(HashPair(b, a)) {
		t.Error("HashPair(a,b) == HashPair(b,a); expected order-sensitivity")
	}
}

func TestMerkleProofRoundTrip(t *testing.T) {
	leaves := []field.Element{field.New(10), field.New(20), field.New(30), field.New(40), field.New(50)}
	tree := NewMerkleTree(leaves)
	root := tree.Root()

	for i, leaf := range leaves {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("Proof(%d) failed: %v", i, err)
		}
		if !VerifyProof(root, leaf, proof, i) {
			t.Errorf("VerifyProof failed for leaf index %d", i)
		}
	}
}

func TestMerkleProofRejectsWrongLeaf(t *testing.T) {
	leaves := []field.Element{field.New(1), field.New(2), field.New(3), field.New(4)}
	tree := NewMerkleTree(leaves)
	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("Proof(0) failed: %v", err)
	}
	if VerifyProof(tree.Root(), field.New(999), proof, 0) {
		t.Error("VerifyProof accepted a leaf that was never in the tree")
	}
}

func TestMerkleProofOutOfRange(t *testing.T) {
	tree := NewMerkleTree([]field.Element{field.New(1), field.New(2)})
	if _, err := tree.Proof(5); err == nil {
		t.Error("expected an error for an out-of-range leaf index")
	}
}

func TestMerkleRootPadsToPowerOfTwo(t *testing.T) {
	// Three leaves pad to four; this should not panic and should equal
	// the root of the same three leaves plus an explicit fourth zero.
	three := MerkleRoot([]field.Element{field.New(1), field.New(2), field.New(3)})
	four := MerkleRoot([]field.Element{field.New(1), field.New(2), field.New(3), field.Zero})
	if !three.Equal(four) {
		t.Errorf("padding mismatch: root(3 leaves)=%v root(3 leaves + explicit zero)=%v", three, four)
	}
}
