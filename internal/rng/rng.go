// Package rng provides a seed-based random number generator shared by the
// generative components that need reproducible randomness (tempo drift,
// Markov chain chord selection, preset/part remapping).
package rng

import "math/rand"

// RNG wraps a seeded random source.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a non-negative random int in [0, n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// Float64 returns a random float64 in [0.0, 1.0).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// FloatRange returns a random float64 in [lo, hi).
func (g *RNG) FloatRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Float64()*(hi-lo)
}

// Seed resets the RNG with a new seed.
func (g *RNG) Seed(seed int64) {
	g.r = rand.New(rand.NewSource(seed))
}

// BoundedWalk advances value by a random step proportional to its own
// magnitude, then clamps into [lo, hi]. This is Maestro's tempo drift rule:
// step = value*U(-ratio,ratio); value += U(-step, step).
func (g *RNG) BoundedWalk(value, ratio, lo, hi float64) float64 {
	step := value * g.FloatRange(-ratio, ratio)
	next := value + g.FloatRange(-step, step)
	if next < lo {
		return lo
	}
	if next > hi {
		return hi
	}
	return next
}

// Pick returns a uniformly random element of items. Panics if items is empty.
func Pick[T any](g *RNG, items []T) T {
	return items[g.Intn(len(items))]
}
