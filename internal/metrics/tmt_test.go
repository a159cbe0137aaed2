package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTrailMetrics(t *testing.T) {
	data := &TrailMakingData{
		PartACompletionTime: 20000,
		PartAErrors:         1,
		PartBCompletionTime: 45000,
		PartBErrors:         3,
		Clicks: []Click{
			{X: 10, Y: 20, Time: 100, TargetItem: 1, CurrentPart: "A"},
		},
	}

	result := CalculateTrailMetrics(data)
	assert.Equal(t, 20000.0, result.PartACompletionTime)
	assert.Equal(t, 1, result.PartAErrors)
	assert.Equal(t, 45000.0, result.PartBCompletionTime)
	assert.Equal(t, 3, result.PartBErrors)
	assert.InDelta(t, 2.25, result.BToARatio, 1e-9)
	assert.NotEmpty(t, result.RawData)
}

func TestBToARatioZeroGuard(t *testing.T) {
	result := CalculateTrailMetrics(&TrailMakingData{PartBCompletionTime: 30000})
	assert.Equal(t, 0.0, result.BToARatio)
}
