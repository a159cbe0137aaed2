package metrics

import (
	"encoding/json"
	"time"

	"cogsuite-go/internal/models"
)

// Trail Making test results processing. The task runs in the browser (it is
// a click sequence, not a trial loop) and posts its raw data for scoring.

// TrailMakingData represents the raw data from a Trail Making test.
type TrailMakingData struct {
	TestStartTime       float64        `json:"testStartTime"`
	TestEndTime         float64        `json:"testEndTime"`
	PartAErrors         int            `json:"partAErrors"`
	PartBErrors         int            `json:"partBErrors"`
	PartACompletionTime float64        `json:"partACompletionTime"`
	PartBCompletionTime float64        `json:"partBCompletionTime"`
	Clicks              []Click        `json:"clicks"`
	Settings            map[string]any `json:"settings"`
}

// Click represents a single interaction during the Trail Making test.
type Click struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Time        float64 `json:"time"`
	TargetItem  int     `json:"targetItem"`
	CurrentPart string  `json:"currentPart"`
}

// CalculateTrailMetrics scores a Trail Making submission.
func CalculateTrailMetrics(data *TrailMakingData) *models.TMTResult {
	return &models.TMTResult{
		PartACompletionTime: data.PartACompletionTime,
		PartAErrors:         data.PartAErrors,
		PartBCompletionTime: data.PartBCompletionTime,
		PartBErrors:         data.PartBErrors,
		BToARatio:           calculateBToARatio(data),
		RawData:             serializeTrailData(data),
		CreatedAt:           time.Now(),
	}
}

// B/A ratio; guarded because an aborted part A reports time 0.
func calculateBToARatio(data *TrailMakingData) float64 {
	if data.PartACompletionTime <= 0 {
		return 0
	}
	return data.PartBCompletionTime / data.PartACompletionTime
}

func serializeTrailData(data *TrailMakingData) json.RawMessage {
	result, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage("{}")
	}
	return result
}
