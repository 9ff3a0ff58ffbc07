// Package rng provides the single seeded pseudo-random source threaded
// through a simulation run. Every stochastic decision in the core — node
// role/opinion assignment, peer sampling, modifier coin-flips, and Byzantine
// role draws — goes through one *Source so that a fixed seed reproduces a
// bit-identical run (spec §5, §8 property 1).
//
// The underlying algorithm is Go's standard math/rand additive generator,
// seeded via rand.NewSource(seed). That algorithm is stable across Go
// releases for a given seed, which is all determinism within one
// implementation requires (spec §9's "Shared RNG" note).
package rng

import "math/rand"

// Source wraps *rand.Rand with the specific draws the simulation needs, in
// one place, so call sites never reach for math/rand directly and silently
// perturb the draw order.
type Source struct {
	r *rand.Rand
}

// New builds a Source seeded deterministically from seed.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewSource(int64(seed)))} //nolint:gosec
}

// IntN returns a uniform value in [0, n). Panics if n <= 0, same as
// math/rand.
func (s *Source) IntN(n int) int {
	return s.r.Intn(n)
}

// Float32 returns a uniform value in [0, 1).
func (s *Source) Float32() float32 {
	return s.r.Float32()
}

// Bool returns true with probability p, clamped to [0, 1].
func (s *Source) Bool(p float32) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float32() < p
}

// ShuffleInts shuffles xs in place using Fisher-Yates via rand.Shuffle.
func (s *Source) ShuffleInts(xs []int) {
	s.r.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}

// SampleExcluding draws k distinct integers from [0, n) without replacement,
// never returning exclude, and returns them in draw order. It is used to
// pick an honest node's query peers (spec §4.2): the driver asks for k peers
// out of the population excluding the querying node itself.
//
// If k exceeds the number of candidates (n-1 when exclude is in range),
// every candidate is returned.
func (s *Source) SampleExcluding(n, k, exclude int) []int {
	pool := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i == exclude {
			continue
		}
		pool = append(pool, i)
	}
	s.ShuffleInts(pool)
	if k > len(pool) {
		k = len(pool)
	}
	return pool[:k]
}

// ChooseUint picks a single index in [0, n) uniformly. Used by Glauber
// dynamics to pick the one node that activates this iteration.
func (s *Source) ChooseUint(n int) int {
	return s.r.Intn(n)
}

// WeightedIndex draws an index into weights proportionally to its weight.
// weights need not sum to 1; a weight of 0 is never chosen unless every
// weight is 0, in which case the draw is uniform.
func (s *Source) WeightedIndex(weights []float32) int {
	var total float32
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return s.IntN(len(weights))
	}
	target := s.Float32() * total
	var acc float32
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
