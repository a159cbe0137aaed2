package metrics

import (
	"math"

	"cogsuite-go/internal/task"
)

// Derived statistics over an engine run's trial log. These go beyond the
// run report's raw counts: rate metrics are normalized by the presented
// target/non-target totals, and all are zero-guarded.

// hitLatencies extracts the reaction times of hits, in trial order.
func hitLatencies(records []task.TrialRecord) []float64 {
	var latencies []float64
	for _, r := range records {
		if r.Outcome == task.Hit {
			latencies = append(latencies, r.Response.LatencyMs)
		}
	}
	return latencies
}

func countTargets(records []task.TrialRecord) int {
	count := 0
	for _, r := range records {
		if r.Trial.IsTarget {
			count++
		}
	}
	return count
}

func countOutcome(records []task.TrialRecord, outcome task.Outcome) int {
	count := 0
	for _, r := range records {
		if r.Outcome == outcome {
			count++
		}
	}
	return count
}

// ReactionTimeSD is the population standard deviation of hit latencies.
func ReactionTimeSD(records []task.TrialRecord) float64 {
	latencies := hitLatencies(records)
	if len(latencies) <= 1 {
		return 0
	}

	var sum float64
	for _, rt := range latencies {
		sum += rt
	}
	avg := sum / float64(len(latencies))

	var sumSquaredDiff float64
	for _, rt := range latencies {
		diff := rt - avg
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(latencies)))
}

// DetectionRate is hits over presented targets.
func DetectionRate(records []task.TrialRecord) float64 {
	targets := countTargets(records)
	if targets == 0 {
		return 0
	}
	return float64(countOutcome(records, task.Hit)) / float64(targets)
}

// OmissionErrorRate is misses over presented targets.
func OmissionErrorRate(records []task.TrialRecord) float64 {
	targets := countTargets(records)
	if targets == 0 {
		return 0
	}
	return float64(countOutcome(records, task.Miss)) / float64(targets)
}

// CommissionErrorRate is false alarms over presented non-targets.
func CommissionErrorRate(records []task.TrialRecord) float64 {
	nonTargets := len(records) - countTargets(records)
	if nonTargets == 0 {
		return 0
	}
	return float64(countOutcome(records, task.FalseAlarm)) / float64(nonTargets)
}
