package task

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fastConfig(total int, p float64) Config {
	return Config{
		TotalStimuli:      total,
		TargetProbability: p,
		StimulusDuration:  15 * time.Millisecond,
		InterTrialGap:     time.Millisecond,
		TargetSymbol:      "X",
		Alphabet:          []string{"A", "B", "C", "D"},
	}
}

func newTestRunner(t *testing.T, cfg Config, clock Clock, cb Callbacks) *Runner {
	t.Helper()
	seq, err := NewSymbolSequencer(cfg, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	return NewRunner(cfg, seq, clock, zap.NewNop(), cb)
}

func TestRunnerPerfectRun(t *testing.T) {
	cfg := fastConfig(40, 0.25)
	starts, ends := 0, 0
	var r *Runner
	cb := Callbacks{
		OnTaskStart: func() { starts++ },
		OnTaskEnd:   func(RunReport) { ends++ },
		OnTrialStart: func(trial Trial) {
			if trial.IsTarget {
				require.True(t, r.Respond())
			}
		},
	}
	r = newTestRunner(t, cfg, RealClock(), cb)

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, starts, "OnTaskStart fires exactly once")
	assert.Equal(t, 1, ends, "OnTaskEnd fires exactly once")
	assert.Equal(t, 40, report.TrialsCompleted)
	assert.Equal(t, 10, report.TotalTargets)
	assert.Equal(t, 30, report.TotalNonTargets)
	assert.Equal(t, 10, report.Hits)
	assert.Equal(t, 0, report.Misses)
	assert.Equal(t, 0, report.FalseAlarms)
	assert.Equal(t, 30, report.CorrectRejections)
	assert.Equal(t, 100, report.Accuracy)
	assert.Len(t, report.ReactionTimesMs, 10)
	require.NotNil(t, report.AvgReactionTimeMs)
}

func TestRunnerOutcomePartition(t *testing.T) {
	cfg := fastConfig(30, 0.3)
	var r *Runner
	cb := Callbacks{
		OnTrialStart: func(trial Trial) {
			// Respond on a fixed subset regardless of target status so the
			// run produces all four outcomes.
			if trial.Index%3 == 0 {
				r.Respond()
			}
		},
	}
	r = newTestRunner(t, cfg, RealClock(), cb)

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	sum := report.Hits + report.Misses + report.FalseAlarms + report.CorrectRejections
	assert.Equal(t, report.TrialsCompleted, sum, "outcomes partition the completed trials")
	assert.Len(t, report.ReactionTimesMs, report.Hits)

	records := r.Records()
	require.Len(t, records, 30)
	for i, rec := range records {
		assert.Equal(t, i, rec.Trial.Index, "outcomes recorded in trial order")
	}
}

func TestRunnerRejectsConcurrentRun(t *testing.T) {
	clock := newFakeClock()
	cfg := fastConfig(5, 0.2)
	r := newTestRunner(t, cfg, clock, Callbacks{})

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		errCh <- err
	}()
	waitUntil(t, func() bool { return clock.pending() > 0 })

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunActive)

	r.Reset()
	assert.ErrorIs(t, <-errCh, ErrRunReset)
}

func TestRunnerResetLeavesNoStaleTimer(t *testing.T) {
	clock := newFakeClock()
	cfg := fastConfig(10, 0.5)
	started := make(chan Trial, 1)
	cb := Callbacks{
		OnTrialStart: func(trial Trial) {
			select {
			case started <- trial:
			default:
			}
		},
	}
	r := newTestRunner(t, cfg, clock, cb)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		errCh <- err
	}()
	<-started

	r.Reset()
	require.ErrorIs(t, <-errCh, ErrRunReset)

	// The deadline armed for the aborted trial fires long after the reset;
	// it must find nothing to mutate.
	clock.Advance(time.Hour)
	report := r.Snapshot()
	assert.Equal(t, 0, report.TrialsCompleted)
	assert.Equal(t, 0, report.Hits)
	assert.Equal(t, 0, report.Misses)
	assert.Empty(t, report.ReactionTimesMs)
	assert.Empty(t, r.Records())
	assert.False(t, r.Respond(), "respond signals after reset are dropped")
}

func TestRunnerRunsAgainAfterReset(t *testing.T) {
	cfg := fastConfig(6, 0.5)
	started := make(chan struct{}, 1)
	cb := Callbacks{
		OnTrialStart: func(Trial) {
			select {
			case started <- struct{}{}:
			default:
			}
		},
	}
	r := newTestRunner(t, cfg, RealClock(), cb)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		errCh <- err
	}()
	<-started
	r.Reset()
	require.ErrorIs(t, <-errCh, ErrRunReset)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, report.TrialsCompleted)
	assert.Equal(t, 0, report.Hits)
	assert.Equal(t, 3, report.Misses)
	assert.Equal(t, 3, report.CorrectRejections)
	assert.Equal(t, 0, report.Accuracy)
	assert.Nil(t, report.AvgReactionTimeMs, "no hits must report a nil average")
}

func TestRunnerContextCancellation(t *testing.T) {
	clock := newFakeClock()
	cfg := fastConfig(5, 0.2)
	r := newTestRunner(t, cfg, clock, Callbacks{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx)
		errCh <- err
	}()
	waitUntil(t, func() bool { return clock.pending() > 0 })

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
