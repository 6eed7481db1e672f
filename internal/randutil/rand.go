// Package randutil derives reproducible random sources for games and
// simulation batches.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from the one seed so every caller that shares a seed
// replays the same dice, chance cards and tax percentages.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewUnseeded returns a generator seeded from the wall clock, for live games
// that do not need to be replayed.
func NewUnseeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Derive returns the seed for the n-th child of a batch seeded with seed.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed) + uint64(n+1)*goldenRatio64))
}

// Pick returns a uniformly chosen element of values. It panics on an empty
// slice.
func Pick[T any](rng *rand.Rand, values []T) T {
	if len(values) == 0 {
		panic("randutil: Pick from empty slice")
	}
	return values[rng.IntN(len(values))]
}

// Between returns a uniform integer in [lo, hi].
func Between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
