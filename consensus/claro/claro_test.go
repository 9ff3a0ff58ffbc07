package claro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfam/simulator/consensus/claro"
	"github.com/snowfam/simulator/vote"
)

func cfg() claro.Configuration {
	return claro.Configuration{
		EvidenceAlpha:  0.6,
		EvidenceAlpha2: 0.6,
		ConfidenceBeta: 2,
		LookAhead:      2,
		Query: claro.QueryConfiguration{
			QuerySize:        10,
			InitialQuerySize: 10,
			QueryMultiplier:  2,
			MaxMultiplier:    4,
		},
	}
}

func fixedSample(v vote.Vote) func(int) []vote.Vote {
	return func(size int) []vote.Vote {
		out := make([]vote.Vote, size)
		for i := range out {
			out[i] = v
		}
		return out
	}
}

func TestValidateRejectsAlpha2AboveAlpha(t *testing.T) {
	c := cfg()
	c.EvidenceAlpha2 = c.EvidenceAlpha + 0.1
	require.Error(t, c.Validate())
}

func TestAllApprovedConverges(t *testing.T) {
	c := cfg()
	s := claro.New(c, vote.OpinionYes)
	for i := 0; i < 3 && !s.Decided(); i++ {
		s.Step(fixedSample(vote.Yes))
	}
	assert.True(t, s.Decided())
	assert.Equal(t, vote.OpinionYes, s.Opinion())
}

func TestAllRejectedConverges(t *testing.T) {
	c := cfg()
	s := claro.New(c, vote.OpinionYes)
	for i := 0; i < 3 && !s.Decided(); i++ {
		s.Step(fixedSample(vote.No))
	}
	assert.True(t, s.Decided())
	assert.Equal(t, vote.OpinionNo, s.Opinion())
}

func TestGrowsQueryWhenInconclusive(t *testing.T) {
	c := cfg()
	var sizesSeen []int
	s := claro.New(c, vote.OpinionYes)
	s.Step(func(size int) []vote.Vote {
		sizesSeen = append(sizesSeen, size)
		// exactly balanced: never clears alpha, forcing growth to the cap
		out := make([]vote.Vote, size)
		for i := range out {
			if i%2 == 0 {
				out[i] = vote.Yes
			} else {
				out[i] = vote.No
			}
		}
		return out
	})
	require.NotEmpty(t, sizesSeen)
	assert.Equal(t, c.Query.InitialQuerySize, sizesSeen[0])
	assert.Equal(t, c.Query.QuerySize*c.Query.MaxMultiplier, sizesSeen[len(sizesSeen)-1])
}

func TestDecidedNodeIgnoresFurtherSteps(t *testing.T) {
	c := cfg()
	s := claro.New(c, vote.OpinionYes)
	for i := 0; i < 3 && !s.Decided(); i++ {
		s.Step(fixedSample(vote.Yes))
	}
	require.True(t, s.Decided())
	s.Step(fixedSample(vote.No))
	assert.Equal(t, vote.OpinionYes, s.Opinion())
}
