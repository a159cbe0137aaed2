package models

import (
	"time"

	"github.com/lib/pq"
)

// TaskRun holds the terminal report of one engine run.
type TaskRun struct {
	ID                uint   `gorm:"primaryKey"`
	RunID             string `gorm:"uniqueIndex"` // uuid assigned at start
	UserID            uint
	User              User `gorm:"foreignKey:UserID"`
	TaskKey           string
	TotalTrials       int
	TotalTargets      int
	TotalNonTargets   int
	Hits              int
	Misses            int
	FalseAlarms       int
	CorrectRejections int
	Accuracy          int
	AvgReactionTimeMs *float64        // nil when the run recorded no hits
	ReactionTimesMs   pq.Float64Array `gorm:"type:float8[]"`
	ReactionTimeSD    float64
	DetectionRate     float64
	OmissionRate      float64
	CommissionRate    float64
	CreatedAt         time.Time
}

// TrialEvent is one completed trial of a run.
type TrialEvent struct {
	ID            uint `gorm:"primaryKey"`
	TaskRunID     uint
	TrialIndex    int
	Stimulus      string
	IsTarget      bool
	Responded     bool
	LatencyMs     *float64 // nil when no response occurred
	Outcome       string
	PresentedAtMs float64 // offset from run start
}
