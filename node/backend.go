package node

import (
	"github.com/snowfam/simulator/consensus/claro"
	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/vote"
)

// backend is a tagged variant over the two consensus solvers an Honest node
// can run (spec §4.3's "Backend" note: modeled as a sum type, not an open
// interface, since the set of backends is fixed and their Step contracts
// differ in shape). Exactly one of snow/claro is non-nil.
type backend struct {
	snow  *snowball.Solver
	claro *claro.Solver
}

func newSnowballBackend(cfg snowball.Configuration, initial vote.Opinion) backend {
	return backend{snow: snowball.New(cfg, initial)}
}

func newClaroBackend(cfg claro.Configuration, initial vote.Opinion) backend {
	return backend{claro: claro.New(cfg, initial)}
}

func (b backend) Decided() bool {
	if b.snow != nil {
		return b.snow.Decided()
	}
	return b.claro.Decided()
}

func (b backend) Opinion() vote.Opinion {
	if b.snow != nil {
		return b.snow.Opinion()
	}
	return b.claro.Opinion()
}

// step runs one round, pulling as many samples as the backend needs via
// sample. Snowball always calls sample exactly once; Claro may call it
// several times as its query size grows.
func (b backend) step(sample func(size int) []vote.Vote) {
	if b.snow != nil {
		b.snow.Step(sample(b.snow.SampleSize()))
		return
	}
	b.claro.Step(sample)
}
