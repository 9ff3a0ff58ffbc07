package node

import "github.com/snowfam/simulator/vote"

// Population is the full fixed-size roster for one simulation run.
type Population struct {
	nodes []*Node
}

// NewPopulation wires nodes together: it records which ids are honest and
// shares that list with every Omniscient node, since Omniscient nodes need
// the whole roster to count votes (spec §4.3).
func NewPopulation(nodes []*Node) *Population {
	honest := make([]ID, 0, len(nodes))
	for _, n := range nodes {
		if n.role == Honest {
			honest = append(honest, n.id)
		}
	}
	for _, n := range nodes {
		if n.role == Omniscient {
			n.SetHonestIDs(honest)
		}
	}
	return &Population{nodes: nodes}
}

// Len is the population size N.
func (p *Population) Len() int { return len(p.nodes) }

// Nodes returns the roster in id order. Callers must not mutate the slice
// itself, though stepping the returned nodes is expected.
func (p *Population) Nodes() []*Node { return p.nodes }

// Node looks up a single node by id.
func (p *Population) Node(id ID) *Node { return p.nodes[id] }

// Snapshot captures the current View over the whole population.
func (p *Population) Snapshot() View { return Snapshot(p.nodes) }

// AllDecided reports whether every Honest node has finalized. Byzantine
// nodes are excluded: they have no decision state to converge (spec §4.1's
// stopping-condition note).
func (p *Population) AllDecided() bool {
	for _, n := range p.nodes {
		if n.role == Honest && !n.Decided() {
			return false
		}
	}
	return true
}

// Row encodes the current opinion of every node, in id order, as result
// table cell values (spec §3).
func (p *Population) Row() []vote.Cell {
	row := make([]vote.Cell, len(p.nodes))
	for i, n := range p.nodes {
		row[i] = n.opinion.Encode()
	}
	return row
}
