package models

import (
	"encoding/json"
	"time"
)

// FlankerResult holds the processed metrics from a Flanker test. The
// interference cost is the incongruent-congruent mean reaction time gap.
type FlankerResult struct {
	ID                  uint `gorm:"primaryKey"`
	UserID              uint
	CongruentAccuracy   float64
	IncongruentAccuracy float64
	CongruentMeanRT     float64
	IncongruentMeanRT   float64
	InterferenceCost    float64
	TotalTrials         int
	RawData             json.RawMessage `gorm:"type:jsonb"`
	CreatedAt           time.Time
}

// FlankerTrialRow is a single trial of a Flanker test.
type FlankerTrialRow struct {
	ID           uint `gorm:"primaryKey"`
	ResultID     uint
	TrialIndex   int
	Congruent    bool
	Direction    string
	Response     string
	Correct      bool
	ReactionTime float64
}
