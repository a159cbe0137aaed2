package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBattery(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

const validBatteryYAML = `
tasks:
  - key: "cpt"
    name: "Continuous Performance Test"
    kind: "cpt"
    settings:
      total_stimuli: 40
      target_probability: 0.25
      stimulus_duration_ms: 1500
      inter_trial_gap_ms: 500
      target_symbol: "X"
      alphabet: ["A", "B"]
  - key: "tmt"
    name: "Trail Making Test"
    kind: "tmt"
    settings:
      total_stimuli: 25
`

func TestLoadBattery(t *testing.T) {
	battery, err := LoadBattery(writeBattery(t, validBatteryYAML))
	require.NoError(t, err)
	require.Len(t, battery.Tasks, 2)

	cpt, found := battery.TaskByKey("cpt")
	require.True(t, found)
	assert.True(t, cpt.IsEngineTask())
	assert.Equal(t, 40, cpt.EngineConfig().TotalStimuli)
	assert.Equal(t, "X", cpt.EngineConfig().TargetSymbol)

	tmt, found := battery.TaskByKey("tmt")
	require.True(t, found)
	assert.False(t, tmt.IsEngineTask())

	_, found = battery.TaskByKey("nope")
	assert.False(t, found)
}

func TestLoadBatteryMissingFile(t *testing.T) {
	_, err := LoadBattery(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBatteryRejectsDuplicateKeys(t *testing.T) {
	yaml := `
tasks:
  - key: "cpt"
    kind: "tmt"
  - key: "cpt"
    kind: "tmt"
`
	_, err := LoadBattery(writeBattery(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated")
}

func TestLoadBatteryValidatesEngineSettings(t *testing.T) {
	// Probability above 1 is a configuration error, caught at load.
	yaml := `
tasks:
  - key: "cpt"
    kind: "cpt"
    settings:
      total_stimuli: 40
      target_probability: 1.5
      stimulus_duration_ms: 1500
      inter_trial_gap_ms: 500
      target_symbol: "X"
      alphabet: ["A", "X"]
`
	_, err := LoadBattery(writeBattery(t, yaml))
	assert.Error(t, err)
}

func TestLoadBatteryRejectsEmpty(t *testing.T) {
	_, err := LoadBattery(writeBattery(t, "tasks: []\n"))
	assert.Error(t, err)
}
