// Package node implements the four node roles (spec §4.3) and the
// network-view/sampling contract (spec §4.2) they query each round.
package node

import "github.com/snowfam/simulator/vote"

// ID is a dense integer node identifier in [0, N).
type ID int

// View is the read-only per-round opinion snapshot every node reads from
// (spec §3 "Network view"). It is rebuilt once per round (or once per async
// chunk) before any node in that round steps, so every reader in the round
// sees a consistent world regardless of step order.
type View struct {
	opinions []vote.Opinion
}

func newView(opinions []vote.Opinion) View {
	return View{opinions: opinions}
}

// Snapshot captures the current opinion of every node in nodes into a new
// View, in id order. The driver calls this once per round (or once per
// async chunk) so every node stepping within that window reads the same
// world (spec §3).
func Snapshot(nodes []*Node) View {
	opinions := make([]vote.Opinion, len(nodes))
	for _, n := range nodes {
		opinions[n.id] = n.opinion
	}
	return newView(opinions)
}

// Len is the population size this view was captured over.
func (v View) Len() int { return len(v.opinions) }

// Opinion returns the opinion node id had at snapshot time.
func (v View) Opinion(id ID) vote.Opinion { return v.opinions[id] }
