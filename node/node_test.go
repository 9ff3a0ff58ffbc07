package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/network"
	"github.com/snowfam/simulator/node"
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/vote"
)

func TestInfantileAlwaysReportsFlippedFixedOpinion(t *testing.T) {
	n := node.NewInfantile(0, vote.OpinionYes)
	assert.Equal(t, vote.OpinionNo, n.Opinion())

	r := rng.New(1)
	view := node.Snapshot([]*node.Node{n})
	n.Step(view, r, nil)
	assert.Equal(t, vote.OpinionNo, n.Opinion(), "infantile opinion never changes across rounds")
}

func TestRandomNodeNeverDecides(t *testing.T) {
	n := node.NewRandom(0, rng.New(1))
	r := rng.New(2)
	for i := 0; i < 5; i++ {
		n.Step(node.View{}, r, nil)
		assert.False(t, n.Decided())
	}
}

func TestOmniscientReturnsMinorityTiesToNo(t *testing.T) {
	honest := []*node.Node{
		node.NewHonestSnowball(0, snowball.Configuration{QuorumSize: 1, SampleSize: 1, DecisionThreshold: 1000}, vote.OpinionYes),
		node.NewHonestSnowball(1, snowball.Configuration{QuorumSize: 1, SampleSize: 1, DecisionThreshold: 1000}, vote.OpinionNo),
	}
	omni := node.NewOmniscient(2)
	all := append(append([]*node.Node{}, honest...), omni)
	pop := node.NewPopulation(all)

	view := pop.Snapshot()
	omni.Step(view, rng.New(1), nil)
	assert.Equal(t, vote.OpinionNo, omni.Opinion(), "tied 1-1 honest vote breaks to No")
}

func TestOmniscientPicksMinority(t *testing.T) {
	cfg := snowball.Configuration{QuorumSize: 1, SampleSize: 1, DecisionThreshold: 1000}
	nodes := []*node.Node{
		node.NewHonestSnowball(0, cfg, vote.OpinionYes),
		node.NewHonestSnowball(1, cfg, vote.OpinionYes),
		node.NewHonestSnowball(2, cfg, vote.OpinionNo),
	}
	omni := node.NewOmniscient(3)
	pop := node.NewPopulation(append(append([]*node.Node{}, nodes...), omni))

	omni.Step(pop.Snapshot(), rng.New(1), nil)
	assert.Equal(t, vote.OpinionNo, omni.Opinion(), "No is the minority (1 vs 2), Omniscient bolsters the minority by voting No")
}

func TestHonestNodeIgnoresDroppedVotesFromModifier(t *testing.T) {
	cfg := snowball.Configuration{QuorumSize: 1, SampleSize: 5, DecisionThreshold: 1000}
	self := node.NewHonestSnowball(0, cfg, vote.OpinionYes)
	peers := make([]*node.Node, 0, 5)
	for i := 1; i <= 5; i++ {
		peers = append(peers, node.NewHonestSnowball(node.ID(i), cfg, vote.OpinionNo))
	}
	pop := node.NewPopulation(append([]*node.Node{self}, peers...))
	view := pop.Snapshot()

	// DropRate 1 discards every sampled vote; with no votes neither color
	// reaches quorum so the node's opinion must not move this round.
	self.Step(view, rng.New(1), []network.Modifier{network.RandomDrop{DropRate: 1}})
	assert.Equal(t, vote.OpinionYes, self.Opinion())
}

func TestPopulationAllDecidedWaitsForUndecidedHonestNode(t *testing.T) {
	cfg := snowball.Configuration{QuorumSize: 1, SampleSize: 1, DecisionThreshold: 1000}
	honest := node.NewHonestSnowball(0, cfg, vote.OpinionYes)
	rnd := node.NewRandom(1, rng.New(1))
	pop := node.NewPopulation([]*node.Node{honest, rnd})

	require.False(t, pop.AllDecided(), "undecided honest node must block AllDecided")

	// A population of one honest node plus one Random node must not report
	// AllDecided after a handful of rounds: the honest node can't cross a
	// threshold of 1000 in that time, so it keeps blocking AllDecided.
	for i := 0; i < 5; i++ {
		honest.Step(pop.Snapshot(), rng.New(1), nil)
	}
	assert.False(t, pop.AllDecided())
}
