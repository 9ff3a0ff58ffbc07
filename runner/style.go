// Package runner implements the simulation driver (spec §4.1): population
// construction, the four stepping disciplines, ward evaluation, and
// result-table assembly.
package runner

// Style selects a round's active-node discipline (spec §4.1, plus the
// additive Layered discipline from original_source).
type Style interface {
	isStyle()
}

// Sync activates every node each round.
type Sync struct{}

func (Sync) isStyle() {}

// Async partitions the population into Chunks disjoint round-robin subsets;
// each chunk is its own round against a freshly rebuilt view.
type Async struct {
	Chunks int
}

func (Async) isStyle() {}

// Glauber activates exactly one uniformly chosen node per iteration,
// recording a column only every UpdateRate iterations, running for exactly
// MaximumIterations iterations regardless of wards (wards may still stop
// the run earlier).
type Glauber struct {
	UpdateRate        int
	MaximumIterations int
}

func (Glauber) isStyle() {}

// Layered refines Glauber dynamics with a ring of Gap+1 node-id buckets
// (original_source/simulations/snow-family/src/runner/layered_runner.rs,
// dropped from the distilled spec and added back here). Each undecided
// node, once stepped, moves one bucket further back in the ring; the
// last bucket in the ring is a parking slot that is never itself drawn
// from, only drained once the ring rotates. Distribution has Gap entries
// weighting which of the Gap drawable buckets is picked each iteration;
// nil or a mismatched length means uniform over non-empty drawable
// buckets.
type Layered struct {
	Gap          int
	Distribution []float32
}

func (Layered) isStyle() {}
