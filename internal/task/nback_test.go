package task

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nbackConfig(total, n int, p float64) Config {
	return Config{
		TotalStimuli:      total,
		TargetProbability: p,
		StimulusDuration:  2 * time.Second,
		InterTrialGap:     500 * time.Millisecond,
		Alphabet:          []string{"A", "B", "C", "D", "E", "F", "G", "H"},
		NBackLevel:        n,
	}
}

func TestNBackSequencerMatchesDefineTargets(t *testing.T) {
	seq, err := NewNBackSequencer(nbackConfig(40, 2, 0.25), rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	require.Equal(t, 40, seq.Total())
	require.Equal(t, 10, seq.TargetCount())

	targets := 0
	for i := 0; i < seq.Total(); i++ {
		trial := seq.Next(i)
		if i < 2 {
			assert.False(t, trial.IsTarget, "first n trials can never be targets")
			continue
		}
		back := seq.Next(i - 2)
		if trial.IsTarget {
			targets++
			assert.Equal(t, back.Stimulus, trial.Stimulus, "target must match the stimulus n back")
		} else {
			assert.NotEqual(t, back.Stimulus, trial.Stimulus, "non-target must differ from the stimulus n back")
		}
	}
	assert.Equal(t, 10, targets)
}

func TestNBackSequencerSeededReproducibility(t *testing.T) {
	a, err := NewNBackSequencer(nbackConfig(30, 1, 0.3), rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	b, err := NewNBackSequencer(nbackConfig(30, 1, 0.3), rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		assert.Equal(t, a.Next(i), b.Next(i))
	}
}

func TestNBackSequencerRejectsBadConfig(t *testing.T) {
	_, err := NewNBackSequencer(nbackConfig(40, 0, 0.25), rand.New(rand.NewSource(1)))
	assert.Error(t, err, "level 0 is not an n-back task")

	_, err = NewNBackSequencer(nbackConfig(10, 10, 0.25), rand.New(rand.NewSource(1)))
	assert.Error(t, err, "level must leave room for at least one eligible position")

	// 9 targets in 10 trials with n=2 leaves only 8 eligible slots.
	_, err = NewNBackSequencer(nbackConfig(10, 2, 0.9), rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
