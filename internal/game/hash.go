package game

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// StructuralHash hashes the raw words of a position (bitboards, side to
// move, last move) into a 64-bit value. The stone-placement games use it
// in place of a Zobrist table: their state is a handful of words and the
// hash only has to be stable and well-distributed, not incrementally
// updatable.
func StructuralHash(words ...uint64) uint64 {
	var d xxhash.Digest
	d.Reset()
	var buf [8]byte
	for _, w := range words {
		binary.LittleEndian.PutUint64(buf[:], w)
		d.Write(buf[:])
	}
	return d.Sum64()
}
