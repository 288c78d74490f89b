// Package rngseed derives independent, reproducible random streams for
// simulation entities from one global seed.
package rngseed

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/sha3"
)

// Kinds of entities that own a random stream.
const (
	KindAgent    = "agent"
	KindLocation = "location"
	KindTrace    = "trace"
	KindRun      = "run"
)

// Derive hashes (seed, kind, id) into a 128-bit PCG state.
func Derive(seed uint64, kind string, id int64) (uint64, uint64) {
	h := sha3.New256()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])
	h.Write([]byte(kind))
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	h.Write(buf[:])
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[0:8]), binary.LittleEndian.Uint64(sum[8:16])
}

// New returns a generator for the entity. Streams for distinct (kind, id)
// pairs are independent of each other and of the order they are created in.
func New(seed uint64, kind string, id int64) *rand.Rand {
	s1, s2 := Derive(seed, kind, id)
	return rand.New(rand.NewPCG(s1, s2))
}
