package task

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cptConfig(total int, p float64) Config {
	return Config{
		TotalStimuli:      total,
		TargetProbability: p,
		StimulusDuration:  1500 * time.Millisecond,
		InterTrialGap:     500 * time.Millisecond,
		TargetSymbol:      "X",
		Alphabet:          []string{"A", "B", "C", "D", "E", "F"},
	}
}

func TestSymbolSequencerTargetCount(t *testing.T) {
	seq, err := NewSymbolSequencer(cptConfig(40, 0.25), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 40, seq.Total())
	assert.Equal(t, 10, seq.TargetCount())

	targets := 0
	for i := 0; i < seq.Total(); i++ {
		trial := seq.Next(i)
		assert.Equal(t, i, trial.Index)
		if trial.IsTarget {
			targets++
			assert.Equal(t, "X", trial.Stimulus)
		} else {
			assert.NotEqual(t, "X", trial.Stimulus, "non-target trials never show the target symbol")
		}
	}
	assert.Equal(t, 10, targets)
}

func TestSymbolSequencerRoundsTargetCount(t *testing.T) {
	seq, err := NewSymbolSequencer(cptConfig(10, 0.33), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, seq.TargetCount())

	seq, err = NewSymbolSequencer(cptConfig(10, 0.35), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 4, seq.TargetCount())
}

func TestSymbolSequencerSeededReproducibility(t *testing.T) {
	a, err := NewSymbolSequencer(cptConfig(40, 0.25), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := NewSymbolSequencer(cptConfig(40, 0.25), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := 0; i < 40; i++ {
		assert.Equal(t, a.Next(i), b.Next(i))
	}
}

func TestSymbolSequencerDeterministicIsStateless(t *testing.T) {
	seq, err := NewSymbolSequencer(cptConfig(20, 0.2), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// Re-reading an index must not perturb the plan.
	first := seq.Next(5)
	seq.Next(11)
	assert.Equal(t, first, seq.Next(5))
}

func TestConfigValidate(t *testing.T) {
	base := cptConfig(40, 0.25)
	require.NoError(t, base.Validate())

	bad := base
	bad.TotalStimuli = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.TargetProbability = -0.1
	assert.Error(t, bad.Validate())

	bad = base
	bad.TargetProbability = 1.5
	assert.Error(t, bad.Validate())

	bad = base
	bad.StimulusDuration = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.InterTrialGap = -time.Second
	assert.Error(t, bad.Validate())

	bad = base
	bad.Alphabet = nil
	assert.Error(t, bad.Validate())

	bad = base
	bad.Alphabet = []string{"A", "X"}
	assert.Error(t, bad.Validate(), "alphabet must exclude the target symbol")

	bad = base
	bad.TargetSymbol = ""
	assert.Error(t, bad.Validate())
}

func TestGoNoGoSequencer(t *testing.T) {
	cfg := Config{
		TotalStimuli:      60,
		TargetProbability: 0.75,
		StimulusDuration:  time.Second,
		InterTrialGap:     250 * time.Millisecond,
		TargetSymbol:      "GO",
		Alphabet:          []string{"NOGO"},
	}
	seq, err := NewGoNoGoSequencer(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Equal(t, 45, seq.TargetCount())
}
