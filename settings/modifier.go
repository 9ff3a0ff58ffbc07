package settings

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/snowfam/simulator/network"
)

// ModifierKind tags which network-effect transform a `network_modifiers`
// entry selects (spec §4.2).
type ModifierKind string

const ModifierRandomDrop ModifierKind = "random_drop"

type randomDropSettings struct {
	DropRate float32 `yaml:"drop_rate"`
}

// NetworkModifier is a `network_modifiers[]` entry.
type NetworkModifier struct {
	Kind       ModifierKind
	RandomDrop randomDropSettings
}

func (m *NetworkModifier) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "network_modifiers entries must be single-key mappings")
	}

	if n, ok := raw[string(ModifierRandomDrop)]; ok {
		var s randomDropSettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode random_drop settings")
		}
		m.Kind, m.RandomDrop = ModifierRandomDrop, s
		return nil
	}

	return errors.Errorf("network_modifiers: unknown variant, expected %q", ModifierRandomDrop)
}

// IsValid checks the selected variant's parameters.
func (m NetworkModifier) IsValid([]byte) error {
	switch m.Kind {
	case ModifierRandomDrop:
		if m.RandomDrop.DropRate < 0 || m.RandomDrop.DropRate > 1 {
			return errors.Errorf("random_drop.drop_rate must be in [0, 1], got %f", m.RandomDrop.DropRate)
		}
		return nil
	default:
		return errors.Errorf("network_modifiers: unknown variant %q", m.Kind)
	}
}

// modifier converts the decoded settings into a network.Modifier.
func (m NetworkModifier) modifier() network.Modifier {
	switch m.Kind {
	case ModifierRandomDrop:
		return network.RandomDrop{DropRate: m.RandomDrop.DropRate}
	default:
		panic("settings: modifier() called on an unvalidated NetworkModifier")
	}
}
