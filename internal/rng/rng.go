// internal/rng/rng.go
//
// Randomness helpers shared by every game mode.
// Responsibilities:
//   - Unbiased Fisher–Yates shuffle that never mutates its input.
//   - Distinct index sampling for target placement.
//   - Uniform float sampling for the duel opponent timing model.
//
// Every helper takes an explicit Source so callers (and tests) control
// seeding; nothing in this package holds hidden state.
package rng

import (
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the engine relies on.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a deterministic source for the given seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSeeded returns a source seeded from the wall clock.
func NewTimeSeeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Shuffle returns a uniformly random permutation of in as a new slice.
// Iterates from the last element down to the second, swapping each with a
// uniformly chosen index in [0, i].
func Shuffle[T any](src Source, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns k distinct indices drawn from [0, n) in random order.
// k is clamped to n.
func Sample(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return Shuffle(src, all)[:k]
}

// Uniform returns a float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntBetween returns an int in [lo, hi] inclusive.
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
