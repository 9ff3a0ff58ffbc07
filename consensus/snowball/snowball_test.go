package snowball_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/vote"
)

func cfg() snowball.Configuration {
	return snowball.Configuration{QuorumSize: 1, SampleSize: 10, DecisionThreshold: 10}
}

func votesOf(n int, v vote.Vote) []vote.Vote {
	out := make([]vote.Vote, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestValidateRejectsQuorumAboveSample(t *testing.T) {
	c := snowball.Configuration{QuorumSize: 11, SampleSize: 10, DecisionThreshold: 1}
	require.Error(t, c.Validate())
}

func TestValidateRejectsZeroThreshold(t *testing.T) {
	c := snowball.Configuration{QuorumSize: 1, SampleSize: 10, DecisionThreshold: 0}
	require.Error(t, c.Validate())
}

func TestChangeOpinion(t *testing.T) {
	s := snowball.New(cfg(), vote.OpinionYes)
	s.Step(votesOf(10, vote.No))
	assert.False(t, s.Decided())
	assert.Equal(t, vote.OpinionNo, s.Opinion())
	assert.Equal(t, uint64(1), s.ConsecutiveSuccess())
}

func TestMakesDecision(t *testing.T) {
	c := cfg()
	s := snowball.New(c, vote.OpinionYes)
	for i := 0; i < c.DecisionThreshold+1; i++ {
		s.Step(votesOf(10, vote.No))
	}
	assert.True(t, s.Decided())
	assert.Equal(t, vote.OpinionNo, s.Opinion())
}

func TestResetConsecutiveCounterOnSplitVotes(t *testing.T) {
	c := snowball.Configuration{QuorumSize: 2, SampleSize: 10, DecisionThreshold: 10}
	s := snowball.New(c, vote.OpinionYes)
	s.Step([]vote.Vote{vote.No, vote.Yes})
	assert.Equal(t, uint64(0), s.ConsecutiveSuccess())
	assert.Equal(t, vote.OpinionYes, s.Opinion())
	assert.False(t, s.Decided())
}

func TestDecidedNodeIgnoresFurtherSteps(t *testing.T) {
	c := snowball.Configuration{QuorumSize: 1, SampleSize: 10, DecisionThreshold: 1}
	s := snowball.New(c, vote.OpinionYes)
	s.Step(votesOf(10, vote.Yes))
	require.True(t, s.Decided())
	s.Step(votesOf(10, vote.No))
	assert.Equal(t, vote.OpinionYes, s.Opinion(), "decided nodes must keep their opinion frozen")
}
