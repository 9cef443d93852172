// Copyright 2025 Certen Protocol
//
// Digest primitives for the reasoning executor.
//
// Adapted from pkg/merkle's duplicate-last binary tree (hashPair, build):
// this package keeps exactly that pairing rule but strips the tree/proof
// machinery that package carried (GenerateProof, VerifyProof, inclusion
// paths) since nothing here needs an audit proof — only a root over an
// ordered leaf list, recomputed fresh on every call.
package digest

import "crypto/sha256"

// Size is the fixed width of every digest produced by this package.
const Size = sha256.Size

// Hash returns the SHA-256 digest of data.
func Hash(data []byte) [Size]byte {
	return sha256.Sum256(data)
}

// emptyRoot is the defined Merkle root of an empty leaf list: the hash of
// the empty byte string, not the zero-filled digest.
var emptyRoot = sha256.Sum256(nil)

// MerkleRoot computes the duplicate-last binary Merkle root over leaves, in
// the order given. The empty-list root is SHA256(""), not a zero digest.
//
// The rule is bottom-up: at each level, pair adjacent leaves left-to-right;
// an odd leaf at the end of a level pairs with itself; each parent is
// SHA256(left || right). This matches pkg/merkle's build() exactly.
func MerkleRoot(leaves [][Size]byte) [Size]byte {
	if len(leaves) == 0 {
		return emptyRoot
	}

	level := make([][Size]byte, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := make([][Size]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashPair(level[i], level[i+1]))
			} else {
				next = append(next, hashPair(level[i], level[i]))
			}
		}
		level = next
	}

	return level[0]
}

// hashPair combines two digests into one: SHA256(left || right).
func hashPair(left, right [Size]byte) [Size]byte {
	var combined [2 * Size]byte
	copy(combined[:Size], left[:])
	copy(combined[Size:], right[:])
	return sha256.Sum256(combined[:])
}
