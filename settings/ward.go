package settings

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/snowfam/simulator/warding"
)

// WardKind tags which stop-condition evaluator a `wards` entry selects
// (spec §4.6).
type WardKind string

const (
	WardTimeToFinality WardKind = "time_to_finality"
	WardStabilised     WardKind = "stabilised"
	WardConverged      WardKind = "converged"
)

type timeToFinalitySettings struct {
	TTFThreshold int `yaml:"ttf_threshold"`
}

type stabilisedSettings struct {
	Buffer int          `yaml:"buffer"`
	Check  checkSetting `yaml:"check"`
}

// checkSetting decodes `check`'s two shapes: the bare string "rounds" or a
// single-key mapping `{iterations: {chunk}}`.
type checkSetting struct {
	iterationsChunk int
	isIterations    bool
}

func (c *checkSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var tag string
		if err := value.Decode(&tag); err != nil {
			return err
		}
		if tag != "rounds" {
			return errors.Errorf("wards.stabilised.check: unknown bare variant %q", tag)
		}
		c.isIterations = false
		return nil
	}

	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "wards.stabilised.check must be \"rounds\" or {iterations: {...}}")
	}
	n, ok := raw["iterations"]
	if !ok {
		return errors.Errorf("wards.stabilised.check: unknown mapping variant, expected \"iterations\"")
	}
	var it struct {
		Chunk int `yaml:"chunk"`
	}
	if err := n.Decode(&it); err != nil {
		return errors.Wrap(err, "decode check.iterations")
	}
	c.isIterations, c.iterationsChunk = true, it.Chunk
	return nil
}

func (c checkSetting) granularity() warding.CheckGranularity {
	if c.isIterations {
		return warding.Iterations{Chunk: c.iterationsChunk}
	}
	return warding.Rounds{}
}

type convergedSettings struct {
	Ratio float32 `yaml:"ratio"`
}

// Ward is a `wards[]` entry: a single-key tagged union naming one of the
// three ward kinds (spec §4.6, §6).
type Ward struct {
	Kind        WardKind
	TTF         timeToFinalitySettings
	Stabilised  stabilisedSettings
	Converged   convergedSettings
}

func (w *Ward) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "wards entries must be single-key mappings")
	}

	if n, ok := raw[string(WardTimeToFinality)]; ok {
		var s timeToFinalitySettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode time_to_finality settings")
		}
		w.Kind, w.TTF = WardTimeToFinality, s
		return nil
	}
	if n, ok := raw[string(WardStabilised)]; ok {
		var s stabilisedSettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode stabilised settings")
		}
		w.Kind, w.Stabilised = WardStabilised, s
		return nil
	}
	if n, ok := raw[string(WardConverged)]; ok {
		var s convergedSettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode converged settings")
		}
		w.Kind, w.Converged = WardConverged, s
		return nil
	}

	return errors.Errorf("wards: unknown variant, expected one of %q, %q, %q", WardTimeToFinality, WardStabilised, WardConverged)
}

// IsValid checks the selected variant's parameters.
func (w Ward) IsValid([]byte) error {
	switch w.Kind {
	case WardTimeToFinality:
		if w.TTF.TTFThreshold < 0 {
			return errors.Errorf("time_to_finality.ttf_threshold must be >= 0, got %d", w.TTF.TTFThreshold)
		}
		return nil
	case WardStabilised:
		if w.Stabilised.Buffer <= 0 {
			return errors.Errorf("stabilised.buffer must be positive, got %d", w.Stabilised.Buffer)
		}
		return nil
	case WardConverged:
		if w.Converged.Ratio < 0 || w.Converged.Ratio > 1 {
			return errors.Errorf("converged.ratio must be in [0, 1], got %f", w.Converged.Ratio)
		}
		return nil
	default:
		return errors.Errorf("wards: unknown variant %q", w.Kind)
	}
}

// ward converts the decoded settings into a warding.Ward.
func (w Ward) ward() warding.Ward {
	switch w.Kind {
	case WardTimeToFinality:
		return warding.TimeToFinality{Threshold: w.TTF.TTFThreshold}
	case WardStabilised:
		return warding.Stabilised{Buffer: w.Stabilised.Buffer, Check: w.Stabilised.Check.granularity()}
	case WardConverged:
		return warding.Converged{Ratio: w.Converged.Ratio}
	default:
		panic("settings: ward() called on an unvalidated Ward")
	}
}
