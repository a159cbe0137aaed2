// internal/repository/charts.go
package repository

import (
	"context"
	"fmt"
	"time"

	"cogsuite-go/internal/database"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type CorrelationDataPoint struct {
	XValue float64 `json:"xValue"`
	YValue float64 `json:"yValue"`
}

// getMetricsCTE flattens every result table into (user_id, run_id, created_at,
// task_key, metric_key, metric_value) rows so chart queries stay uniform.
func getMetricsCTE() string {
	return `
	WITH all_metrics AS (
		-- Engine run metrics (CPT, Go/No-Go, N-Back)
		SELECT user_id, id AS run_id, created_at, task_key, 'reaction_time' AS metric_key, avg_reaction_time_ms AS metric_value FROM task_runs WHERE avg_reaction_time_ms IS NOT NULL UNION ALL
		SELECT user_id, id AS run_id, created_at, task_key, 'reaction_time_sd' AS metric_key, reaction_time_sd AS metric_value FROM task_runs UNION ALL
		SELECT user_id, id AS run_id, created_at, task_key, 'accuracy' AS metric_key, accuracy::float AS metric_value FROM task_runs UNION ALL
		SELECT user_id, id AS run_id, created_at, task_key, 'detection_rate' AS metric_key, detection_rate AS metric_value FROM task_runs UNION ALL
		SELECT user_id, id AS run_id, created_at, task_key, 'omission_error_rate' AS metric_key, omission_rate AS metric_value FROM task_runs UNION ALL
		SELECT user_id, id AS run_id, created_at, task_key, 'commission_error_rate' AS metric_key, commission_rate AS metric_value FROM task_runs

		UNION ALL

		-- Trail Making results
		SELECT user_id, id AS run_id, created_at, 'tmt' AS task_key, 'part_a_time' AS metric_key, part_a_completion_time AS metric_value FROM tmt_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'tmt' AS task_key, 'part_b_time' AS metric_key, part_b_completion_time AS metric_value FROM tmt_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'tmt' AS task_key, 'part_a_errors' AS metric_key, part_a_errors::float AS metric_value FROM tmt_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'tmt' AS task_key, 'part_b_errors' AS metric_key, part_b_errors::float AS metric_value FROM tmt_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'tmt' AS task_key, 'b_a_ratio' AS metric_key, b_to_a_ratio AS metric_value FROM tmt_results

		UNION ALL

		-- Flanker results
		SELECT user_id, id AS run_id, created_at, 'flanker' AS task_key, 'congruent_accuracy' AS metric_key, congruent_accuracy AS metric_value FROM flanker_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'flanker' AS task_key, 'incongruent_accuracy' AS metric_key, incongruent_accuracy AS metric_value FROM flanker_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'flanker' AS task_key, 'congruent_rt' AS metric_key, congruent_mean_rt AS metric_value FROM flanker_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'flanker' AS task_key, 'incongruent_rt' AS metric_key, incongruent_mean_rt AS metric_value FROM flanker_results UNION ALL
		SELECT user_id, id AS run_id, created_at, 'flanker' AS task_key, 'interference_cost' AS metric_key, interference_cost AS metric_value FROM flanker_results
	)
	`
}

// GetTimelineData returns one metric of one task over time for a user.
func GetTimelineData(ctx context.Context, userID uint, taskKey string, metricKey string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint

	query := fmt.Sprintf(`
		%s
		SELECT created_at AS date, metric_value AS value
		FROM all_metrics
		WHERE user_id = ? AND task_key = ? AND metric_key = ?
		ORDER BY created_at;
	`, getMetricsCTE())

	err := database.DB.WithContext(ctx).Raw(query, userID, taskKey, metricKey).Scan(&data).Error
	return data, err
}

// GetCorrelationData pairs two metrics of the same task run, e.g. reaction
// time against accuracy, across a user's history.
func GetCorrelationData(ctx context.Context, userID uint, taskKey, xMetric, yMetric string) ([]CorrelationDataPoint, error) {
	var data []CorrelationDataPoint
	query := fmt.Sprintf(`
		%s
		SELECT
			x.metric_value AS x_value,
			y.metric_value AS y_value
		FROM
			(SELECT run_id, metric_value FROM all_metrics WHERE user_id = ? AND task_key = ? AND metric_key = ?) AS x
		JOIN
			(SELECT run_id, metric_value FROM all_metrics WHERE user_id = ? AND task_key = ? AND metric_key = ?) AS y
			ON x.run_id = y.run_id;
	`, getMetricsCTE())

	err := database.DB.WithContext(ctx).Raw(query, userID, taskKey, xMetric, userID, taskKey, yMetric).Scan(&data).Error
	return data, err
}
