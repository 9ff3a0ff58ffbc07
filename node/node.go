package node

import (
	"github.com/snowfam/simulator/consensus/claro"
	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/network"
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/vote"
)

// Node is one participant in the simulated population. Its behavior is
// selected by Role at construction and never changes afterward (spec §4.3:
// roles are assigned once, at population build time).
type Node struct {
	id      ID
	role    Role
	backend backend // valid only when role == Honest

	// infantileOpinion is the fixed internal opinion an Infantile node
	// draws once at construction; it never updates (spec §4.3).
	infantileOpinion vote.Opinion

	// honestIDs is a shared slice (same backing array for every Omniscient
	// node in the population) listing which ids are honest, so Omniscient
	// nodes can count votes without seeing the whole Population.
	honestIDs []ID

	// opinion is the externally visible opinion this node reported as of
	// its last Step: what peers sampling it this round will read out of
	// the next View, and what the result table records for this round.
	opinion vote.Opinion
}

// NewHonestSnowball builds an Honest node backed by a Snowball solver.
func NewHonestSnowball(id ID, cfg snowball.Configuration, initial vote.Opinion) *Node {
	n := &Node{id: id, role: Honest, backend: newSnowballBackend(cfg, initial), opinion: initial}
	return n
}

// NewHonestClaro builds an Honest node backed by a Claro solver.
func NewHonestClaro(id ID, cfg claro.Configuration, initial vote.Opinion) *Node {
	n := &Node{id: id, role: Honest, backend: newClaroBackend(cfg, initial), opinion: initial}
	return n
}

// NewInfantile builds an Infantile node. internalOpinion is fixed for the
// node's lifetime; the node's externally visible opinion is always its
// flip (spec §4.3: "always answers inverted").
func NewInfantile(id ID, internalOpinion vote.Opinion) *Node {
	return &Node{id: id, role: Infantile, infantileOpinion: internalOpinion, opinion: internalOpinion.Flip()}
}

// NewRandom builds a Random node. Its initial opinion is drawn immediately
// so the first round's View already reflects a Random draw rather than a
// placeholder.
func NewRandom(id ID, r *rng.Source) *Node {
	return &Node{id: id, role: Random, opinion: randomOpinion(r)}
}

// NewOmniscient builds an Omniscient node. honestIDs must be the same slice
// shared by every Omniscient node in the population (set via SetHonestIDs),
// so all Omniscient nodes agree on who counts as honest.
func NewOmniscient(id ID) *Node {
	return &Node{id: id, role: Omniscient}
}

// SetHonestIDs wires the population's honest-id list into an Omniscient
// node. Population construction calls this once, after every node's role
// is known, since an Omniscient node needs the full roster to count votes.
func (n *Node) SetHonestIDs(ids []ID) { n.honestIDs = ids }

func (n *Node) ID() ID       { return n.id }
func (n *Node) Role() Role   { return n.role }
func (n *Node) Opinion() vote.Opinion { return n.opinion }

// Decided reports whether this node has finalized. Byzantine roles never
// decide: they have no stopping condition of their own (spec §4.3).
func (n *Node) Decided() bool {
	if n.role != Honest {
		return false
	}
	return n.backend.Decided()
}

// SampleFunc draws k peer votes for the querying node, applying the
// configured modifier pipeline, given the round's frozen View.
type SampleFunc func(size int) []vote.Vote

// sampler builds the SampleFunc an Honest node's backend calls into: pick k
// distinct peers excluding self (spec §4.2 step 1), read their opinions out
// of view, drop any that are None (abstaining, spec §4.2 step 2), and run
// the result through the modifier pipeline (spec §4.2 step 3).
func sampler(id ID, view View, r *rng.Source, modifiers []network.Modifier) SampleFunc {
	return func(size int) []vote.Vote {
		peers := r.SampleExcluding(view.Len(), size, int(id))
		votes := make([]vote.Vote, 0, len(peers))
		for _, p := range peers {
			if v, ok := view.Opinion(ID(p)).Vote(); ok {
				votes = append(votes, v)
			}
		}
		return network.Apply(modifiers, votes, r)
	}
}

// Step runs one round for this node against the frozen view, updating its
// opinion. Decided honest nodes are no-ops — their opinion stays frozen
// (spec §4.4 step 1, §4.5's equivalent rule, and spec §8 property: decided
// nodes never change color again).
func (n *Node) Step(view View, r *rng.Source, modifiers []network.Modifier) {
	switch n.role {
	case Honest:
		if n.backend.Decided() {
			return
		}
		n.backend.step(sampler(n.id, view, r, modifiers))
		n.opinion = n.backend.Opinion()
	case Infantile:
		// Fixed by construction; nothing to recompute.
	case Random:
		n.opinion = randomOpinion(r)
	case Omniscient:
		n.opinion = omniscientOpinion(view, n.honestIDs)
	}
}
