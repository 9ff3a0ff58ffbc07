package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfam/simulator/runner"
	"github.com/snowfam/simulator/settings"
)

const validScenario = `
consensus_settings:
  snow_ball:
    quorum_size: 14
    sample_size: 20
    decision_threshold: 20
distribution:
  yes: 1.0
  no: 0.0
  none: 0.0
byzantine_settings:
  total_size: 100
  distribution:
    honest: 1.0
    infantile: 0.0
    random: 0.0
    omniscient: 0.0
wards:
  - time_to_finality:
      ttf_threshold: 50
seed: 18042022
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidScenario(t *testing.T) {
	path := writeScenario(t, validScenario)
	s, err := settings.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, settings.ConsensusSnowBall, s.ConsensusSettings.Kind)
	assert.Equal(t, 100, s.ByzantineSettings.TotalSize)
	require.NotNil(t, s.Seed)
	assert.Equal(t, uint64(18042022), *s.Seed)
}

func TestLoadGeneratesSeedWhenAbsent(t *testing.T) {
	body := `
consensus_settings:
  snow_ball: {quorum_size: 1, sample_size: 2, decision_threshold: 1}
distribution: {yes: 1.0, no: 0.0, none: 0.0}
byzantine_settings:
  total_size: 5
  distribution: {honest: 1.0, infantile: 0.0, random: 0.0, omniscient: 0.0}
`
	path := writeScenario(t, body)
	s, err := settings.Load(path, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.Seed)
}

func TestLoadRejectsBadDistribution(t *testing.T) {
	body := `
consensus_settings:
  snow_ball: {quorum_size: 1, sample_size: 2, decision_threshold: 1}
distribution: {yes: 0.9, no: 0.0, none: 0.0}
byzantine_settings:
  total_size: 5
  distribution: {honest: 1.0, infantile: 0.0, random: 0.0, omniscient: 0.0}
seed: 1
`
	path := writeScenario(t, body)
	_, err := settings.Load(path, nil)
	assert.Error(t, err)
}

func TestLoadRejectsSnowballAlphaAboveK(t *testing.T) {
	body := `
consensus_settings:
  snow_ball: {quorum_size: 25, sample_size: 20, decision_threshold: 1}
distribution: {yes: 1.0, no: 0.0, none: 0.0}
byzantine_settings:
  total_size: 5
  distribution: {honest: 1.0, infantile: 0.0, random: 0.0, omniscient: 0.0}
seed: 1
`
	path := writeScenario(t, body)
	_, err := settings.Load(path, nil)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownConsensusVariant(t *testing.T) {
	body := `
consensus_settings:
  quantum_ball: {}
distribution: {yes: 1.0, no: 0.0, none: 0.0}
byzantine_settings:
  total_size: 5
  distribution: {honest: 1.0, infantile: 0.0, random: 0.0, omniscient: 0.0}
seed: 1
`
	path := writeScenario(t, body)
	_, err := settings.Load(path, nil)
	assert.Error(t, err)
}

func TestSimulationStyleDefaultsToSync(t *testing.T) {
	path := writeScenario(t, validScenario)
	s, err := settings.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, runner.Sync{}, s.SimulationStyle.Style())
}

func TestAsyncRequiresPositiveChunks(t *testing.T) {
	body := `
consensus_settings:
  snow_ball: {quorum_size: 1, sample_size: 2, decision_threshold: 1}
distribution: {yes: 1.0, no: 0.0, none: 0.0}
byzantine_settings:
  total_size: 5
  distribution: {honest: 1.0, infantile: 0.0, random: 0.0, omniscient: 0.0}
simulation_style:
  Async:
    chunks: 0
seed: 1
`
	path := writeScenario(t, body)
	_, err := settings.Load(path, nil)
	assert.Error(t, err)
}
