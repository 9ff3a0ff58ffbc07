package node

import (
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/vote"
)

// randomOpinion draws a fresh, uniform opinion over {Yes, No, None} (spec
// §4.3's Random role): the node holds no state, so every round is an
// independent draw.
func randomOpinion(r *rng.Source) vote.Opinion {
	switch r.IntN(3) {
	case 0:
		return vote.OpinionYes
	case 1:
		return vote.OpinionNo
	default:
		return vote.None
	}
}

// omniscientOpinion computes the minority opinion among honest nodes as
// seen in view, breaking ties toward No (spec §4.3's Omniscient role, and
// spec §9's recorded resolution of the tie-break Open Question). It never
// returns None: an omniscient node always has an answer.
//
// Because the computation is a pure function of the shared view and the
// static set of honest ids, every Omniscient node in the population lands
// on the same answer independently — there is no need for the
// master/puppet broadcast the original implementation used to keep several
// omniscient nodes in sync.
func omniscientOpinion(view View, honestIDs []ID) vote.Opinion {
	var yes, no int
	for _, id := range honestIDs {
		switch view.Opinion(id) {
		case vote.OpinionYes:
			yes++
		case vote.OpinionNo:
			no++
		}
	}
	switch {
	case yes < no:
		return vote.OpinionYes
	case no < yes:
		return vote.OpinionNo
	default:
		return vote.OpinionNo
	}
}
