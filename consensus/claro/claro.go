// Package claro implements the Claro consensus backend (spec §4.5): an
// honest node grows its query size within a round until a color clears an
// evidence threshold, then uses a look-ahead window of the node's opinion
// after each recent round to decide when to finalize.
//
// The exact confidence-decay rule is a specification gap (spec §9's Open
// Question): the source documentation describes the shape but not the
// precise formula, and the original Rust implementation uses a smoothing
// factor rather than a rolling window. This package implements the
// rolling-window reading spec §4.5 gives at face value; see DESIGN.md for
// the recorded decision.
package claro

import (
	"github.com/pkg/errors"

	"github.com/snowfam/simulator/vote"
)

// QueryConfiguration controls how a round's query grows when neither color
// clears EvidenceAlpha on the first attempt.
type QueryConfiguration struct {
	QuerySize        int
	InitialQuerySize int
	QueryMultiplier  int
	MaxMultiplier    int
}

func (q QueryConfiguration) Validate() error {
	if q.QuerySize <= 0 {
		return errors.Errorf("claro: query_size must be positive, got %d", q.QuerySize)
	}
	if q.InitialQuerySize <= 0 {
		return errors.Errorf("claro: initial_query_size must be positive, got %d", q.InitialQuerySize)
	}
	if q.QueryMultiplier < 1 {
		return errors.Errorf("claro: query_multiplier must be >= 1, got %d", q.QueryMultiplier)
	}
	if q.MaxMultiplier < 1 {
		return errors.Errorf("claro: max_multiplier must be >= 1, got %d", q.MaxMultiplier)
	}
	return nil
}

// querySizes returns the sequence of query sizes a round will try, in
// order: Q0, then Q*m^1, Q*m^2, ... capped at Q*M (spec §4.5 step 1).
func (q QueryConfiguration) querySizes() []int {
	sizes := []int{q.InitialQuerySize}
	capSize := q.QuerySize * q.MaxMultiplier
	if q.QueryMultiplier <= 1 {
		return append(sizes, capSize)
	}
	for size := q.QuerySize * q.QueryMultiplier; ; size *= q.QueryMultiplier {
		if size >= capSize {
			sizes = append(sizes, capSize)
			break
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// Configuration holds Claro's tunables (spec §4.5).
type Configuration struct {
	EvidenceAlpha  float32
	EvidenceAlpha2 float32
	ConfidenceBeta float32
	LookAhead      int
	Query          QueryConfiguration
}

func (c Configuration) Validate() error {
	if c.EvidenceAlpha <= 0 || c.EvidenceAlpha > 1 {
		return errors.Errorf("claro: evidence_alpha must be in (0, 1], got %f", c.EvidenceAlpha)
	}
	if c.EvidenceAlpha2 <= 0 || c.EvidenceAlpha2 > 1 {
		return errors.Errorf("claro: evidence_alpha_2 must be in (0, 1], got %f", c.EvidenceAlpha2)
	}
	if c.EvidenceAlpha2 > c.EvidenceAlpha {
		return errors.Errorf("claro: evidence_alpha_2 (%f) must be <= evidence_alpha (%f)", c.EvidenceAlpha2, c.EvidenceAlpha)
	}
	if c.ConfidenceBeta <= 0 {
		return errors.Errorf("claro: confidence_beta must be positive, got %f", c.ConfidenceBeta)
	}
	if c.LookAhead < 1 {
		return errors.Errorf("claro: look_ahead must be >= 1, got %d", c.LookAhead)
	}
	return c.Query.Validate()
}

// Solver is the per-honest-node Claro state machine.
type Solver struct {
	cfg          Configuration
	opinion      vote.Opinion
	evidenceYes  uint64
	evidenceNo   uint64
	confidence   uint64
	window       []vote.Opinion // ring buffer, oldest-first, length <= cfg.LookAhead
	decided      bool
}

// New builds a Solver with the given initial opinion.
func New(cfg Configuration, initial vote.Opinion) *Solver {
	return &Solver{
		cfg:     cfg,
		opinion: initial,
		window:  make([]vote.Opinion, 0, cfg.LookAhead),
	}
}

func (s *Solver) Decided() bool        { return s.decided }
func (s *Solver) Opinion() vote.Opinion { return s.opinion }
func (s *Solver) Confidence() uint64   { return s.confidence }

// InitialQuerySize is the size of the first query a round issues. Step
// issues that query and any larger follow-up queries itself, through its
// sample callback.
func (s *Solver) InitialQuerySize() int { return s.cfg.Query.InitialQuerySize }

// Step runs one Claro round. sample is called with successively larger
// requested sizes until a color clears EvidenceAlpha or the query size cap
// is reached (spec §4.5 step 1); it is the driver's job to turn a requested
// size into an actual peer sample plus modifier pipeline application.
func (s *Solver) Step(sample func(size int) []vote.Vote) {
	if s.decided {
		return
	}

	var winner vote.Opinion
	var reachedAlpha2 bool

	for _, size := range s.cfg.Query.querySizes() {
		votes := sample(size)
		if len(votes) == 0 {
			continue
		}
		yes := 0
		for _, v := range votes {
			if v == vote.Yes {
				yes++
			}
		}
		total := len(votes)
		fracYes := float32(yes) / float32(total)
		fracNo := 1 - fracYes

		if fracYes >= s.cfg.EvidenceAlpha {
			winner, reachedAlpha2 = vote.OpinionYes, fracYes >= s.cfg.EvidenceAlpha2
			break
		}
		if fracNo >= s.cfg.EvidenceAlpha {
			winner, reachedAlpha2 = vote.OpinionNo, fracNo >= s.cfg.EvidenceAlpha2
			break
		}
	}

	switch winner {
	case vote.OpinionYes:
		s.evidenceYes++
	case vote.OpinionNo:
		s.evidenceNo++
	}

	if reachedAlpha2 {
		s.confidence++
	} else {
		s.confidence = 0
	}

	switch {
	case s.evidenceYes > s.evidenceNo:
		s.opinion = vote.OpinionYes
	case s.evidenceNo > s.evidenceYes:
		s.opinion = vote.OpinionNo
	}

	s.pushWindow(s.opinion)

	if float32(s.confidence) >= s.cfg.ConfidenceBeta && s.windowAgrees() {
		s.decided = true
	}
}

func (s *Solver) pushWindow(o vote.Opinion) {
	if len(s.window) == s.cfg.LookAhead {
		copy(s.window, s.window[1:])
		s.window[len(s.window)-1] = o
		return
	}
	s.window = append(s.window, o)
}

func (s *Solver) windowAgrees() bool {
	if len(s.window) < s.cfg.LookAhead {
		return false
	}
	first := s.window[0]
	if first == vote.None {
		return false
	}
	for _, o := range s.window[1:] {
		if o != first {
			return false
		}
	}
	return true
}
