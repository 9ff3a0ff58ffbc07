package settings

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConsensusKind tags which consensus backend a scenario selects.
type ConsensusKind string

const (
	ConsensusSnowBall ConsensusKind = "snow_ball"
	ConsensusClaro    ConsensusKind = "claro"
)

// SnowBallSettings mirrors snowball.Configuration's fields with YAML tags
// matching spec §6's table.
type SnowBallSettings struct {
	QuorumSize        int `yaml:"quorum_size"`
	SampleSize        int `yaml:"sample_size"`
	DecisionThreshold int `yaml:"decision_threshold"`
}

// QuerySettings mirrors claro.QueryConfiguration.
type QuerySettings struct {
	QuerySize        int `yaml:"query_size"`
	InitialQuerySize int `yaml:"initial_query_size"`
	QueryMultiplier  int `yaml:"query_multiplier"`
	MaxMultiplier    int `yaml:"max_multiplier"`
}

// ClaroSettings mirrors claro.Configuration's fields.
type ClaroSettings struct {
	EvidenceAlpha  float32       `yaml:"evidence_alpha"`
	EvidenceAlpha2 float32       `yaml:"evidence_alpha_2"`
	ConfidenceBeta float32       `yaml:"confidence_beta"`
	LookAhead      int           `yaml:"look_ahead"`
	Query          QuerySettings `yaml:"query"`
}

// ConsensusSettings is the `consensus_settings` tagged union: exactly one of
// SnowBall or Claro is populated, selected by the single key present in the
// YAML mapping (spec §6).
type ConsensusSettings struct {
	Kind     ConsensusKind
	SnowBall *SnowBallSettings
	Claro    *ClaroSettings
}

func (c *ConsensusSettings) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, "consensus_settings must be a mapping")
	}

	if n, ok := raw[string(ConsensusSnowBall)]; ok {
		var s SnowBallSettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode snow_ball settings")
		}
		c.Kind, c.SnowBall = ConsensusSnowBall, &s
		return nil
	}
	if n, ok := raw[string(ConsensusClaro)]; ok {
		var s ClaroSettings
		if err := n.Decode(&s); err != nil {
			return errors.Wrap(err, "decode claro settings")
		}
		c.Kind, c.Claro = ConsensusClaro, &s
		return nil
	}

	return errors.Errorf("consensus_settings: unknown variant, expected one of %q, %q", ConsensusSnowBall, ConsensusClaro)
}

// IsValid delegates to the selected variant's own Validate.
func (c ConsensusSettings) IsValid([]byte) error {
	switch c.Kind {
	case ConsensusSnowBall:
		return c.SnowballConfiguration().Validate()
	case ConsensusClaro:
		return c.ClaroConfiguration().Validate()
	default:
		return errors.Errorf("consensus_settings: no variant selected")
	}
}
