// internal/repository/runs.go
package repository

import (
	"context"
	"time"

	"cogsuite-go/internal/database"
	"cogsuite-go/internal/metrics"
	"cogsuite-go/internal/models"
	"cogsuite-go/internal/task"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SaveTaskRunTx saves the terminal report and all granular trial events of
// an engine run in a single transaction.
func SaveTaskRunTx(ctx context.Context, userID uint, taskKey, runID string, report task.RunReport, records []task.TrialRecord, runStart time.Time) (*models.TaskRun, error) {
	run := &models.TaskRun{
		RunID:             runID,
		UserID:            userID,
		TaskKey:           taskKey,
		TotalTrials:       report.TotalTrials,
		TotalTargets:      report.TotalTargets,
		TotalNonTargets:   report.TotalNonTargets,
		Hits:              report.Hits,
		Misses:            report.Misses,
		FalseAlarms:       report.FalseAlarms,
		CorrectRejections: report.CorrectRejections,
		Accuracy:          report.Accuracy,
		AvgReactionTimeMs: report.AvgReactionTimeMs,
		ReactionTimesMs:   pq.Float64Array(report.ReactionTimesMs),
		ReactionTimeSD:    metrics.ReactionTimeSD(records),
		DetectionRate:     metrics.DetectionRate(records),
		OmissionRate:      metrics.OmissionErrorRate(records),
		CommissionRate:    metrics.CommissionErrorRate(records),
		CreatedAt:         time.Now(),
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for _, rec := range records {
			event := models.TrialEvent{
				TaskRunID:     run.ID,
				TrialIndex:    rec.Trial.Index,
				Stimulus:      rec.Trial.Stimulus,
				IsTarget:      rec.Trial.IsTarget,
				Responded:     rec.Response.Occurred,
				Outcome:       rec.Outcome.String(),
				PresentedAtMs: float64(rec.Trial.PresentedAt.Sub(runStart)) / float64(time.Millisecond),
			}
			if rec.Response.Occurred {
				latency := rec.Response.LatencyMs
				event.LatencyMs = &latency
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRunsForUser returns a user's saved runs for one task, newest first.
func GetRunsForUser(ctx context.Context, userID uint, taskKey string, limit int) ([]models.TaskRun, error) {
	var runs []models.TaskRun
	q := database.DB.WithContext(ctx).
		Where("user_id = ? AND task_key = ?", userID, taskKey).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&runs).Error
	return runs, err
}

// GetTrialEvents returns the per-trial rows of a saved run, in trial order.
func GetTrialEvents(ctx context.Context, taskRunID uint) ([]models.TrialEvent, error) {
	var events []models.TrialEvent
	err := database.DB.WithContext(ctx).
		Where("task_run_id = ?", taskRunID).
		Order("trial_index ASC").
		Find(&events).Error
	return events, err
}
