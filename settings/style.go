package settings

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StyleKind tags which stepping discipline a scenario selects (spec §4.1,
// plus the additive Layered discipline).
type StyleKind string

const (
	StyleSync    StyleKind = "Sync"
	StyleAsync   StyleKind = "Async"
	StyleGlauber StyleKind = "Glauber"
	StyleLayered StyleKind = "Layered"
)

type AsyncSettings struct {
	Chunks int `yaml:"chunks"`
}

type GlauberSettings struct {
	UpdateRate        int `yaml:"update_rate"`
	MaximumIterations int `yaml:"maximum_iterations"`
}

type LayeredSettings struct {
	Gap          int       `yaml:"gap"`
	Distribution []float32 `yaml:"distribution"`
}

// SimulationStyle is the `simulation_style` tagged union. It decodes either
// from a bare scalar "Sync" or from a single-key mapping naming one of the
// other variants (spec §6's table). Omitted entirely, it defaults to Sync.
type SimulationStyle struct {
	Kind            StyleKind
	AsyncSettings   AsyncSettings
	GlauberSettings GlauberSettings
	LayeredSettings LayeredSettings
}

func (s *SimulationStyle) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var tag string
		if err := value.Decode(&tag); err != nil {
			return errors.Wrap(err, "simulation_style scalar must be a string")
		}
		if StyleKind(tag) != StyleSync {
			return errors.Errorf("simulation_style: unknown bare variant %q, only %q has no parameters", tag, StyleSync)
		}
		s.Kind = StyleSync
		return nil
	}

	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "simulation_style must be a string or a single-key mapping")
	}

	if n, ok := raw[string(StyleAsync)]; ok {
		var a AsyncSettings
		if err := n.Decode(&a); err != nil {
			return errors.Wrap(err, "decode Async settings")
		}
		s.Kind, s.AsyncSettings = StyleAsync, a
		return nil
	}
	if n, ok := raw[string(StyleGlauber)]; ok {
		var g GlauberSettings
		if err := n.Decode(&g); err != nil {
			return errors.Wrap(err, "decode Glauber settings")
		}
		s.Kind, s.GlauberSettings = StyleGlauber, g
		return nil
	}
	if n, ok := raw[string(StyleLayered)]; ok {
		var l LayeredSettings
		if err := n.Decode(&l); err != nil {
			return errors.Wrap(err, "decode Layered settings")
		}
		s.Kind, s.LayeredSettings = StyleLayered, l
		return nil
	}

	return errors.Errorf("simulation_style: unknown variant, expected one of %q, %q, %q, %q",
		StyleSync, StyleAsync, StyleGlauber, StyleLayered)
}

// IsValid checks the selected variant's parameters (spec §4.7).
func (s SimulationStyle) IsValid([]byte) error {
	switch s.Kind {
	case "", StyleSync:
		return nil
	case StyleAsync:
		if s.AsyncSettings.Chunks <= 0 {
			return errors.Errorf("simulation_style.Async.chunks must be positive, got %d", s.AsyncSettings.Chunks)
		}
		return nil
	case StyleGlauber:
		if s.GlauberSettings.UpdateRate <= 0 {
			return errors.Errorf("simulation_style.Glauber.update_rate must be positive, got %d", s.GlauberSettings.UpdateRate)
		}
		if s.GlauberSettings.MaximumIterations <= 0 {
			return errors.Errorf("simulation_style.Glauber.maximum_iterations must be positive, got %d", s.GlauberSettings.MaximumIterations)
		}
		return nil
	case StyleLayered:
		if s.LayeredSettings.Gap <= 0 {
			return errors.Errorf("simulation_style.Layered.gap must be positive, got %d", s.LayeredSettings.Gap)
		}
		return nil
	default:
		return errors.Errorf("simulation_style: unknown variant %q", s.Kind)
	}
}
