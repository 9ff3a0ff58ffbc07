// Package snowball implements the Snowball consensus backend (spec §4.4):
// an honest node accumulates consecutive per-round quorum wins for a color
// and finalizes once the streak crosses a threshold.
package snowball

import (
	"github.com/pkg/errors"

	"github.com/snowfam/simulator/vote"
)

// Configuration holds Snowball's three tunables. QuorumSize (alpha) is the
// per-round vote count needed for a color to count as evidence; SampleSize
// (K) is how many peers an honest node queries each round; DecisionThreshold
// (beta) is the number of consecutive matching rounds needed to finalize.
type Configuration struct {
	QuorumSize        int
	SampleSize        int
	DecisionThreshold int
}

// Validate checks the invariants spec §4.4 requires: alpha <= K, beta > 0.
// beta's range is deliberately unconstrained beyond positivity — spec §9's
// Open Question notes the source documentation uses beta == K, which isn't
// canonical Snowball's usual small-integer beta, so implementations must not
// assume an upper bound.
func (c Configuration) Validate() error {
	if c.SampleSize <= 0 {
		return errors.Errorf("snowball: sample_size must be positive, got %d", c.SampleSize)
	}
	if c.QuorumSize <= 0 || c.QuorumSize > c.SampleSize {
		return errors.Errorf("snowball: quorum_size must be in (0, sample_size=%d], got %d", c.SampleSize, c.QuorumSize)
	}
	if c.DecisionThreshold <= 0 {
		return errors.Errorf("snowball: decision_threshold must be positive, got %d", c.DecisionThreshold)
	}
	return nil
}

// Solver is the per-honest-node Snowball state machine.
type Solver struct {
	cfg         Configuration
	opinion     vote.Opinion
	cntYes      uint64
	cntNo       uint64
	lastWinning vote.Opinion
	decided     bool
}

// New builds a Solver with the given initial opinion (spec §3: honest nodes
// draw their initial opinion from the scenario's distribution).
func New(cfg Configuration, initial vote.Opinion) *Solver {
	return &Solver{cfg: cfg, opinion: initial}
}

// Decided reports whether this node has finalized.
func (s *Solver) Decided() bool { return s.decided }

// Opinion returns the node's current stance.
func (s *Solver) Opinion() vote.Opinion { return s.opinion }

// SampleSize is the number of peers to query this round.
func (s *Solver) SampleSize() int { return s.cfg.SampleSize }

// ConsecutiveSuccess exposes the streak counter of the current opinion (0
// while the opinion is None), mirroring the original implementation's
// per-node serialized state field of the same name. Step compares it
// against DecisionThreshold to decide.
func (s *Solver) ConsecutiveSuccess() uint64 {
	switch s.opinion {
	case vote.OpinionYes:
		return s.cntYes
	case vote.OpinionNo:
		return s.cntNo
	default:
		return 0
	}
}

// Step runs one round of Snowball given the votes sampled from peers this
// round (None opinions never appear here — they simply don't contribute a
// vote). It is a no-op once the node is decided (spec §4.4 step 1).
func (s *Solver) Step(votes []vote.Vote) {
	if s.decided {
		return
	}

	var yes, no int
	for _, v := range votes {
		if v == vote.Yes {
			yes++
		} else {
			no++
		}
	}

	yesQuorum := yes >= s.cfg.QuorumSize
	noQuorum := no >= s.cfg.QuorumSize

	var winner vote.Opinion
	switch {
	case yesQuorum && noQuorum:
		// Only reachable when alpha <= K/2 (spec §4.4 tie-break rule).
		// Favor the current opinion; if the node is still undecided
		// between colors, fall back to No as the deterministic default.
		if s.opinion == vote.OpinionYes {
			winner = vote.OpinionYes
		} else {
			winner = vote.OpinionNo
		}
	case yesQuorum:
		winner = vote.OpinionYes
	case noQuorum:
		winner = vote.OpinionNo
	default:
		winner = vote.None
	}

	switch winner {
	case vote.OpinionYes:
		if s.opinion != vote.OpinionYes {
			s.opinion = vote.OpinionYes
			s.cntYes = 1
		} else {
			s.cntYes++
		}
		s.lastWinning = vote.OpinionYes
	case vote.OpinionNo:
		if s.opinion != vote.OpinionNo {
			s.opinion = vote.OpinionNo
			s.cntNo = 1
		} else {
			s.cntNo++
		}
		s.lastWinning = vote.OpinionNo
	default:
		// Neither color reached quorum this round: the current opinion's
		// consecutive streak breaks.
		switch s.opinion {
		case vote.OpinionYes:
			s.cntYes = 0
		case vote.OpinionNo:
			s.cntNo = 0
		}
	}

	if s.ConsecutiveSuccess() >= uint64(s.cfg.DecisionThreshold) {
		s.decided = true
	}
}
