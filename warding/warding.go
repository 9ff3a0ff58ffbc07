// Package warding implements the pluggable stop-condition evaluators (spec
// §4.6) the driver consults after every round. Multiple wards compose
// disjunctively: any one signaling stop ends the run.
package warding

import "github.com/snowfam/simulator/vote"

// Snapshot is one recorded column of the result table: one cell per node.
type Snapshot []vote.Cell

func (s Snapshot) equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Ward evaluates the run's history after a round completes and reports
// whether the run should stop. snapshots holds every recorded column so
// far, oldest first, including round 0; decided/total give the current
// finalize ratio.
type Ward interface {
	ShouldStop(snapshots []Snapshot, decided, total int) bool
}

// Any reports whether any ward in wards signals stop.
func Any(wards []Ward, snapshots []Snapshot, decided, total int) bool {
	for _, w := range wards {
		if w.ShouldStop(snapshots, decided, total) {
			return true
		}
	}
	return false
}

// TimeToFinality stops once the current round index reaches Threshold.
// The current round index is len(snapshots)-1, since snapshots includes
// round 0.
type TimeToFinality struct {
	Threshold int
}

func (w TimeToFinality) ShouldStop(snapshots []Snapshot, _, _ int) bool {
	return len(snapshots)-1 >= w.Threshold
}

// Converged stops once the fraction of decided nodes reaches Ratio.
type Converged struct {
	Ratio float32
}

func (w Converged) ShouldStop(_ []Snapshot, decided, total int) bool {
	if total == 0 {
		return false
	}
	return float32(decided)/float32(total) >= w.Ratio
}

// CheckGranularity selects which recorded snapshots Stabilised inspects.
type CheckGranularity interface {
	// indices returns, in ascending order, the snapshot indices this
	// granularity considers "recorded" for stabilisation purposes.
	indices(total int) []int
}

// Rounds inspects every recorded snapshot.
type Rounds struct{}

func (Rounds) indices(total int) []int {
	out := make([]int, total)
	for i := range out {
		out[i] = i
	}
	return out
}

// Iterations inspects only every Chunk-th snapshot, counting from the most
// recent backward — useful under Glauber dynamics, where per-iteration
// variance between adjacent recorded columns is high (spec §4.6).
type Iterations struct {
	Chunk int
}

func (g Iterations) indices(total int) []int {
	if g.Chunk <= 0 {
		g.Chunk = 1
	}
	var out []int
	for i := total - 1; i >= 0; i -= g.Chunk {
		out = append(out, i)
	}
	// restore ascending order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Stabilised stops once the last Buffer snapshots selected by Check are
// pairwise identical.
type Stabilised struct {
	Buffer int
	Check  CheckGranularity
}

func (w Stabilised) ShouldStop(snapshots []Snapshot, _, _ int) bool {
	check := w.Check
	if check == nil {
		check = Rounds{}
	}
	idx := check.indices(len(snapshots))
	if len(idx) < w.Buffer {
		return false
	}
	window := idx[len(idx)-w.Buffer:]
	first := snapshots[window[0]]
	for _, i := range window[1:] {
		if !snapshots[i].equal(first) {
			return false
		}
	}
	return true
}
