package metrics

import (
	"math"
	"testing"

	"cogsuite-go/internal/task"

	"github.com/stretchr/testify/assert"
)

func record(isTarget, responded bool, latency float64) task.TrialRecord {
	trial := task.Trial{IsTarget: isTarget}
	resp := task.Response{Occurred: responded, LatencyMs: latency}
	return task.TrialRecord{Trial: trial, Response: resp, Outcome: task.Classify(trial, resp)}
}

func TestDetectionAndErrorRates(t *testing.T) {
	records := []task.TrialRecord{
		record(true, true, 300),
		record(true, true, 500),
		record(true, false, 0),
		record(false, true, 250),
		record(false, false, 0),
		record(false, false, 0),
	}

	assert.InDelta(t, 2.0/3.0, DetectionRate(records), 1e-9)
	assert.InDelta(t, 1.0/3.0, OmissionErrorRate(records), 1e-9)
	assert.InDelta(t, 1.0/3.0, CommissionErrorRate(records), 1e-9)
}

func TestRatesZeroGuarded(t *testing.T) {
	assert.Equal(t, 0.0, DetectionRate(nil))
	assert.Equal(t, 0.0, OmissionErrorRate(nil))
	assert.Equal(t, 0.0, CommissionErrorRate(nil))

	onlyNonTargets := []task.TrialRecord{record(false, false, 0)}
	assert.Equal(t, 0.0, DetectionRate(onlyNonTargets))

	onlyTargets := []task.TrialRecord{record(true, true, 300)}
	assert.Equal(t, 0.0, CommissionErrorRate(onlyTargets))
}

func TestReactionTimeSD(t *testing.T) {
	records := []task.TrialRecord{
		record(true, true, 300),
		record(true, true, 500),
		// False alarm latency must not enter the spread.
		record(false, true, 10000),
	}
	assert.InDelta(t, 100, ReactionTimeSD(records), 1e-9)

	single := []task.TrialRecord{record(true, true, 300)}
	assert.Equal(t, 0.0, ReactionTimeSD(single))
}

func TestReactionTimeSDMatchesPopulationFormula(t *testing.T) {
	latencies := []float64{280, 310, 350, 420}
	var records []task.TrialRecord
	for _, l := range latencies {
		records = append(records, record(true, true, l))
	}

	mean := (280 + 310 + 350 + 420) / 4.0
	var ss float64
	for _, l := range latencies {
		ss += (l - mean) * (l - mean)
	}
	assert.InDelta(t, math.Sqrt(ss/4), ReactionTimeSD(records), 1e-9)
}
