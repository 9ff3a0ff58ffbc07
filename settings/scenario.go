// Package settings decodes and validates the YAML scenario description
// that drives one simulation run (spec §4.7, §6).
package settings

import (
	"crypto/rand"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/snowfam/simulator/consensus/claro"
	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/network"
	"github.com/snowfam/simulator/runner"
	"github.com/snowfam/simulator/util"
	"github.com/snowfam/simulator/util/logging"
	"github.com/snowfam/simulator/warding"
)

var errInvalidScenario = util.NewError("invalid scenario")

// Distribution is a probability distribution over {Yes, No, None}, used
// both for initial honest opinions and (via ByzantineDistribution) roles.
type Distribution struct {
	Yes  float32 `yaml:"yes"`
	No   float32 `yaml:"no"`
	None float32 `yaml:"none"`
}

func (d Distribution) sum() float32 { return d.Yes + d.No + d.None }

// ByzantineDistribution is the role mix over {honest, infantile, random,
// omniscient}.
type ByzantineDistribution struct {
	Honest     float32 `yaml:"honest"`
	Infantile  float32 `yaml:"infantile"`
	Random     float32 `yaml:"random"`
	Omniscient float32 `yaml:"omniscient"`
}

func (d ByzantineDistribution) sum() float32 {
	return d.Honest + d.Infantile + d.Random + d.Omniscient
}

// ByzantineSettings fixes the population size and its role mix.
type ByzantineSettings struct {
	TotalSize    int                   `yaml:"total_size"`
	Distribution ByzantineDistribution `yaml:"distribution"`
}

// Scenario is the full decoded configuration for one run (spec §3's
// "Scenario", §6's table).
type Scenario struct {
	ConsensusSettings ConsensusSettings   `yaml:"consensus_settings"`
	Distribution      Distribution        `yaml:"distribution"`
	ByzantineSettings ByzantineSettings   `yaml:"byzantine_settings"`
	SimulationStyle   SimulationStyle     `yaml:"simulation_style"`
	Wards             []Ward              `yaml:"wards"`
	NetworkModifiers  []NetworkModifier   `yaml:"network_modifiers"`
	Seed              *uint64             `yaml:"seed"`
}

const distributionTolerance = 1e-6

// Load reads path, decodes it as YAML into a Scenario, validates it, and
// fills in a random seed (logging that it did so) if the document omitted
// one. Grounded on contestlib.LoadDesignFromFile's read-decode-validate
// shape.
func Load(path string, log *logging.Logging) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario file %q", path)
	}

	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrapf(err, "decode scenario file %q", path)
	}

	if s.Seed == nil {
		seed, err := randomSeed()
		if err != nil {
			return nil, errors.Wrap(err, "generate default seed")
		}
		s.Seed = &seed
		if log != nil {
			log.Log().Info().Uint64("seed", seed).Msg("no seed given in scenario, generated one")
		}
	}

	if err := s.IsValid(nil); err != nil {
		return nil, err
	}

	return &s, nil
}

func randomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// IsValid checks every invariant spec §4.7 lists, mirroring
// NodeDesign.IsValid's style of delegating to nested IsValid checks and
// wrapping descriptive errors. The []byte parameter is unused; it matches
// the teacher's IsValid([]byte) error convention so
// Scenario composes with the rest of the codebase's validation style.
func (s Scenario) IsValid([]byte) error {
	if d := s.Distribution.sum(); d < 1-distributionTolerance || d > 1+distributionTolerance {
		return errInvalidScenario.Errorf("distribution must sum to 1.0 (+/- 1e-6), got %f", d)
	}
	if s.ByzantineSettings.TotalSize <= 0 {
		return errInvalidScenario.Errorf("byzantine_settings.total_size must be positive, got %d", s.ByzantineSettings.TotalSize)
	}
	if d := s.ByzantineSettings.Distribution.sum(); d < 1-distributionTolerance || d > 1+distributionTolerance {
		return errInvalidScenario.Errorf("byzantine_settings.distribution must sum to 1.0 (+/- 1e-6), got %f", d)
	}
	if err := s.ConsensusSettings.IsValid(nil); err != nil {
		return errInvalidScenario.Wrap(err)
	}
	if err := s.SimulationStyle.IsValid(nil); err != nil {
		return errInvalidScenario.Wrap(err)
	}
	for i, m := range s.NetworkModifiers {
		if err := m.IsValid(nil); err != nil {
			return errInvalidScenario.Wrap(errors.Wrapf(err, "network_modifiers[%d]", i))
		}
	}
	for i, w := range s.Wards {
		if err := w.IsValid(nil); err != nil {
			return errInvalidScenario.Wrap(errors.Wrapf(err, "wards[%d]", i))
		}
	}
	return nil
}

// SnowballConfiguration converts ConsensusSettings into the snowball
// package's configuration type. Callers must check Kind first.
func (c ConsensusSettings) SnowballConfiguration() snowball.Configuration {
	return snowball.Configuration{
		QuorumSize:        c.SnowBall.QuorumSize,
		SampleSize:        c.SnowBall.SampleSize,
		DecisionThreshold: c.SnowBall.DecisionThreshold,
	}
}

// ClaroConfiguration converts ConsensusSettings into the claro package's
// configuration type. Callers must check Kind first.
func (c ConsensusSettings) ClaroConfiguration() claro.Configuration {
	return claro.Configuration{
		EvidenceAlpha:  c.Claro.EvidenceAlpha,
		EvidenceAlpha2: c.Claro.EvidenceAlpha2,
		ConfidenceBeta: c.Claro.ConfidenceBeta,
		LookAhead:      c.Claro.LookAhead,
		Query: claro.QueryConfiguration{
			QuerySize:        c.Claro.Query.QuerySize,
			InitialQuerySize: c.Claro.Query.InitialQuerySize,
			QueryMultiplier:  c.Claro.Query.QueryMultiplier,
			MaxMultiplier:    c.Claro.Query.MaxMultiplier,
		},
	}
}

// Style converts SimulationStyle into the runner package's stepping
// discipline type.
func (s SimulationStyle) Style() runner.Style {
	switch s.Kind {
	case StyleAsync:
		return runner.Async{Chunks: s.AsyncSettings.Chunks}
	case StyleGlauber:
		return runner.Glauber{
			UpdateRate:       s.GlauberSettings.UpdateRate,
			MaximumIterations: s.GlauberSettings.MaximumIterations,
		}
	case StyleLayered:
		return runner.Layered{
			Gap:          s.LayeredSettings.Gap,
			Distribution: s.LayeredSettings.Distribution,
		}
	default:
		return runner.Sync{}
	}
}

// Modifiers converts NetworkModifiers into the network package's pipeline.
func (s Scenario) Modifiers() []network.Modifier {
	out := make([]network.Modifier, 0, len(s.NetworkModifiers))
	for _, m := range s.NetworkModifiers {
		out = append(out, m.modifier())
	}
	return out
}

// Wardens converts Wards into the warding package's evaluators.
func (s Scenario) Wardens() []warding.Ward {
	out := make([]warding.Ward, 0, len(s.Wards))
	for _, w := range s.Wards {
		out = append(out, w.ward())
	}
	return out
}
