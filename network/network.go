// Package network implements the pluggable vote-transform pipeline applied
// to every sample an honest node draws from its peers (spec §4.2, §4.6).
package network

import (
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/vote"
)

// Modifier transforms a sampled vote slice before it reaches a consensus
// backend. Modifiers run in configuration order; each sees the previous
// modifier's output.
type Modifier interface {
	Apply(votes []vote.Vote, r *rng.Source) []vote.Vote
}

// Apply runs votes through the full modifier pipeline in order.
func Apply(modifiers []Modifier, votes []vote.Vote, r *rng.Source) []vote.Vote {
	for _, m := range modifiers {
		votes = m.Apply(votes, r)
	}
	return votes
}

// RandomDrop independently discards each vote in a sample with probability
// DropRate (spec §4.6's random_drop): a stand-in for message loss between an
// honest node and a queried peer.
type RandomDrop struct {
	DropRate float32
}

func (m RandomDrop) Apply(votes []vote.Vote, r *rng.Source) []vote.Vote {
	if m.DropRate <= 0 {
		return votes
	}
	out := votes[:0:0]
	for _, v := range votes {
		if r.Bool(m.DropRate) {
			continue
		}
		out = append(out, v)
	}
	return out
}
