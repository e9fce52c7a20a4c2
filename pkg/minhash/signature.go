// Package minhash builds MinHash signatures over token shingles and
// clusters them with an LSH-banded index.
package minhash

import (
	"encoding/binary"
	"strings"

	"github.com/zeebo/blake3"
)

// Builder produces MinHash signatures from normalized snippet text.
type Builder struct {
	shingleSize  int
	permutations int
}

// NewBuilder creates a signature builder for k-token shingles and p
// permutations.
func NewBuilder(shingleSize, permutations int) *Builder {
	return &Builder{
		shingleSize:  shingleSize,
		permutations: permutations,
	}
}

// Permutations returns the signature width.
func (b *Builder) Permutations() int {
	return b.permutations
}

// Build tokenizes text on whitespace, forms overlapping k-token shingles,
// and returns a p-slot MinHash signature. Texts with fewer than k tokens
// produce no shingles and a nil signature; that is not an error. Identical
// text always yields a bit-identical signature.
func (b *Builder) Build(text string) []uint64 {
	shingles := b.shingleHashes(text)
	if len(shingles) == 0 {
		return nil
	}

	sig := make([]uint64, b.permutations)
	for i := range sig {
		sig[i] = ^uint64(0)
	}

	for _, sh := range shingles {
		for i := 0; i < b.permutations; i++ {
			h := mix(sh, uint64(i))
			if h < sig[i] {
				sig[i] = h
			}
		}
	}

	return sig
}

// shingleHashes returns the deduplicated blake3 hashes of all space-joined
// k-token windows.
func (b *Builder) shingleHashes(text string) []uint64 {
	tokens := strings.Fields(text)
	if len(tokens) < b.shingleSize {
		return nil
	}

	set := make(map[uint64]struct{})
	h := blake3.New()
	for i := 0; i <= len(tokens)-b.shingleSize; i++ {
		h.Reset()
		for j := i; j < i+b.shingleSize; j++ {
			if j > i {
				h.Write([]byte{' '})
			}
			h.Write([]byte(tokens[j]))
		}
		sum := h.Sum(nil)
		set[binary.LittleEndian.Uint64(sum[:8])] = struct{}{}
	}

	hashes := make([]uint64, 0, len(set))
	for v := range set {
		hashes = append(hashes, v)
	}
	return hashes
}

// mix combines a shingle hash with a permutation seed using murmur-style
// finalization. Avoids allocating a hasher per slot.
func mix(value, seed uint64) uint64 {
	h := value ^ seed
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// Similarity estimates Jaccard similarity as the fraction of matching
// signature slots. Mismatched widths or empty signatures score zero.
func Similarity(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}
