package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorRecordAndSnapshot(t *testing.T) {
	agg := NewAggregator(40, 10)
	agg.Record(Hit, 350)
	agg.Record(Hit, 450)
	agg.Record(Miss, 0)
	agg.Record(FalseAlarm, 0)
	agg.Record(CorrectRejection, 0)

	report := agg.Snapshot()
	assert.Equal(t, 5, report.TrialsCompleted)
	assert.Equal(t, 40, report.TotalTrials)
	assert.Equal(t, 10, report.TotalTargets)
	assert.Equal(t, 30, report.TotalNonTargets)
	assert.Equal(t, 2, report.Hits)
	assert.Equal(t, 1, report.Misses)
	assert.Equal(t, 1, report.FalseAlarms)
	assert.Equal(t, 1, report.CorrectRejections)
	assert.Equal(t, []float64{350, 450}, report.ReactionTimesMs)

	// 2 hits / 3 target trials -> 67%.
	assert.Equal(t, 67, report.Accuracy)
	require.NotNil(t, report.AvgReactionTimeMs)
	assert.Equal(t, 400.0, *report.AvgReactionTimeMs)
}

func TestAggregatorAccuracyZeroWithoutTargetTrials(t *testing.T) {
	agg := NewAggregator(10, 0)
	agg.Record(CorrectRejection, 0)
	agg.Record(FalseAlarm, 0)

	report := agg.Snapshot()
	assert.Equal(t, 0, report.Accuracy, "zero hits+misses must report accuracy 0, not NaN")
	assert.Nil(t, report.AvgReactionTimeMs, "no hits must report a nil average, distinct from 0 ms")
	assert.Empty(t, report.ReactionTimesMs)
}

func TestAggregatorReactionTimesTrackHitsExactly(t *testing.T) {
	agg := NewAggregator(6, 3)
	agg.Record(Hit, 300)
	agg.Record(Miss, 0)
	agg.Record(Hit, 200)
	agg.Record(FalseAlarm, 0)

	report := agg.Snapshot()
	assert.Len(t, report.ReactionTimesMs, report.Hits)
	assert.Equal(t, []float64{300, 200}, report.ReactionTimesMs, "latencies stay in trial order")
}

func TestAggregatorAverageRoundsToTwoDecimals(t *testing.T) {
	agg := NewAggregator(3, 3)
	agg.Record(Hit, 100)
	agg.Record(Hit, 100)
	agg.Record(Hit, 101)

	report := agg.Snapshot()
	require.NotNil(t, report.AvgReactionTimeMs)
	assert.Equal(t, 100.33, *report.AvgReactionTimeMs)
}

func TestAggregatorReset(t *testing.T) {
	agg := NewAggregator(40, 10)
	agg.Record(Hit, 350)
	agg.Record(FalseAlarm, 0)
	agg.Reset()

	report := agg.Snapshot()
	assert.Equal(t, 0, report.TrialsCompleted)
	assert.Equal(t, 0, report.Hits)
	assert.Equal(t, 0, report.FalseAlarms)
	assert.Empty(t, report.ReactionTimesMs)
	assert.Nil(t, report.AvgReactionTimeMs)
}

func TestAggregatorSnapshotIsDetachedCopy(t *testing.T) {
	agg := NewAggregator(4, 2)
	agg.Record(Hit, 250)
	report := agg.Snapshot()
	report.ReactionTimesMs[0] = 999

	assert.Equal(t, 250.0, agg.Snapshot().ReactionTimesMs[0])
}
