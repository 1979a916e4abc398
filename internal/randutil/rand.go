// Package randutil derives the random sources used for shuffling.
package randutil

import (
	"hash/fnv"
	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForHand returns the source for one hand at one table. A zero seed draws
// from the runtime's entropy; any other seed gives a reproducible sequence
// per (table, hand number).
func ForHand(seed int64, tableID string, handNumber int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(tableID))
	u := uint64(seed) ^ h.Sum64() ^ mix(uint64(handNumber))
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
