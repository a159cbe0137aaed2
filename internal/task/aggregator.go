package task

import (
	"math"
	"sync"
)

// Aggregator owns RunState. It is mutated only by Record, called from the
// runner's trial-completion step, and never retroactively. Snapshot is safe
// to call from other goroutines for live progress display.
type Aggregator struct {
	totalTrials  int
	totalTargets int

	mu            sync.Mutex
	completed     int
	hits          int
	misses        int
	falseAlarms   int
	rejections    int
	reactionTimes []float64
}

// NewAggregator sizes the run: totals are fixed by the sequencer's plan, so
// the report can state them before the first trial completes.
func NewAggregator(totalTrials, totalTargets int) *Aggregator {
	return &Aggregator{totalTrials: totalTrials, totalTargets: totalTargets}
}

// Record appends one trial's outcome. Hit latencies enter reactionTimes in
// trial order; no other outcome records a latency.
func (a *Aggregator) Record(outcome Outcome, latencyMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed++
	switch outcome {
	case Hit:
		a.hits++
		a.reactionTimes = append(a.reactionTimes, latencyMs)
	case Miss:
		a.misses++
	case FalseAlarm:
		a.falseAlarms++
	case CorrectRejection:
		a.rejections++
	}
}

// Reset zeroes the run state.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed = 0
	a.hits = 0
	a.misses = 0
	a.falseAlarms = 0
	a.rejections = 0
	a.reactionTimes = nil
}

// Snapshot projects the current RunState into a report. Accuracy is 0 when
// no target trial has completed, and the average reaction time is nil (not
// numeric 0) when there are no hits.
func (a *Aggregator) Snapshot() RunReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := RunReport{
		TrialsCompleted:   a.completed,
		TotalTrials:       a.totalTrials,
		TotalTargets:      a.totalTargets,
		TotalNonTargets:   a.totalTrials - a.totalTargets,
		Hits:              a.hits,
		Misses:            a.misses,
		FalseAlarms:       a.falseAlarms,
		CorrectRejections: a.rejections,
		ReactionTimesMs:   append([]float64(nil), a.reactionTimes...),
	}

	if a.hits+a.misses > 0 {
		report.Accuracy = int(math.Round(float64(a.hits) / float64(a.hits+a.misses) * 100))
	}
	if len(a.reactionTimes) > 0 {
		var sum float64
		for _, rt := range a.reactionTimes {
			sum += rt
		}
		avg := math.Round(sum/float64(len(a.reactionTimes))*100) / 100
		report.AvgReactionTimeMs = &avg
	}
	return report
}
