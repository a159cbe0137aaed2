package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFlankerMetrics(t *testing.T) {
	data := &FlankerData{
		Trials: []FlankerTrial{
			{Congruent: true, Correct: true, ReactionTime: 400},
			{Congruent: true, Correct: true, ReactionTime: 420},
			{Congruent: true, Correct: false, ReactionTime: 380},
			{Congruent: false, Correct: true, ReactionTime: 480},
			{Congruent: false, Correct: true, ReactionTime: 500},
			{Congruent: false, Correct: false, ReactionTime: 450},
		},
	}

	result := CalculateFlankerMetrics(data)
	assert.Equal(t, 6, result.TotalTrials)
	assert.InDelta(t, 2.0/3.0, result.CongruentAccuracy, 1e-9)
	assert.InDelta(t, 2.0/3.0, result.IncongruentAccuracy, 1e-9)
	assert.InDelta(t, 410, result.CongruentMeanRT, 1e-9)
	assert.InDelta(t, 490, result.IncongruentMeanRT, 1e-9)
	assert.InDelta(t, 80, result.InterferenceCost, 1e-9)
	assert.NotEmpty(t, result.RawData)
}

func TestCalculateFlankerMetricsEmptySubmission(t *testing.T) {
	result := CalculateFlankerMetrics(&FlankerData{})
	assert.Equal(t, 0, result.TotalTrials)
	assert.Equal(t, 0.0, result.CongruentAccuracy)
	assert.Equal(t, 0.0, result.InterferenceCost)
}

func TestCalculateFlankerMetricsAllIncorrect(t *testing.T) {
	data := &FlankerData{
		Trials: []FlankerTrial{
			{Congruent: true, Correct: false, ReactionTime: 400},
			{Congruent: false, Correct: false, ReactionTime: 500},
		},
	}
	result := CalculateFlankerMetrics(data)
	assert.Equal(t, 0.0, result.CongruentMeanRT)
	assert.Equal(t, 0.0, result.IncongruentMeanRT)
	assert.Equal(t, 0.0, result.InterferenceCost, "no correct trials means no interference estimate")
}
