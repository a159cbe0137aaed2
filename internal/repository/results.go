// internal/repository/results.go
package repository

import (
	"context"

	"cogsuite-go/internal/database"
	"cogsuite-go/internal/metrics"
	"cogsuite-go/internal/models"

	"gorm.io/gorm"
)

// SaveTMTResultTx saves the summary and all clicks of a Trail Making
// submission in a single transaction.
func SaveTMTResultTx(ctx context.Context, summary *models.TMTResult, clicks []metrics.Click) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(summary).Error; err != nil {
			return err
		}
		for _, click := range clicks {
			row := models.TMTClick{
				ResultID:    summary.ID,
				X:           click.X,
				Y:           click.Y,
				Time:        click.Time,
				TargetItem:  click.TargetItem,
				CurrentPart: click.CurrentPart,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveFlankerResultTx saves the summary and all trials of a Flanker
// submission in a single transaction.
func SaveFlankerResultTx(ctx context.Context, summary *models.FlankerResult, trials []metrics.FlankerTrial) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(summary).Error; err != nil {
			return err
		}
		for i, trial := range trials {
			row := models.FlankerTrialRow{
				ResultID:     summary.ID,
				TrialIndex:   i,
				Congruent:    trial.Congruent,
				Direction:    trial.Direction,
				Response:     trial.Response,
				Correct:      trial.Correct,
				ReactionTime: trial.ReactionTime,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
