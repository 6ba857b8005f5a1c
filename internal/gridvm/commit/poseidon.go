// Poseidon hashing and the Merkle construction built on it. Grounded on the
// teacher's program-attestation helper (internal/vybium-starks-vm/vm/vm_state.go's
// computeProgramDigest, which folds a slice of field.Element through
// hash.PoseidonHash) and its Program Hash Table
// (internal/vybium-starks-vm/vm/program_hash_table.go), both of which use the
// same vybium-crypto Poseidon to produce a single digest from many field
// elements.
package commit

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// HashPair is the two-element Poseidon span the Merkle construction folds
// with. It is intentionally order-sensitive: HashPair(a,b) != HashPair(b,a)
// with overwhelming probability, which is what gives the tree its
// left/right distinction.
func HashPair(left, right field.Element) field.Element {
	return hash.PoseidonHash([]field.Element{left, right})
}
