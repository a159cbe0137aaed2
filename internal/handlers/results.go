// internal/handlers/results.go
package handlers

import (
	"net/http"
	"strings"

	"cogsuite-go/internal/models"
	"cogsuite-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type ResultsHandler struct {
	log     *zap.Logger
	battery *models.Battery
}

func NewResultsHandler(log *zap.Logger, battery *models.Battery) *ResultsHandler {
	return &ResultsHandler{log: log, battery: battery}
}

// MetricOption is one selectable metric of a task.
type MetricOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ShowResults renders a timeline of the chosen metric across a user's
// sessions, plus a within-task correlation scatter for engine tasks.
func (h *ResultsHandler) ShowResults(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	taskKey := c.Query("task")
	metricKey := c.Query("metric")

	if taskKey == "" && len(h.battery.Tasks) > 0 {
		taskKey = h.battery.Tasks[0].Key
	}
	def, found := h.battery.TaskByKey(taskKey)
	if !found {
		c.String(http.StatusBadRequest, "Invalid task selected")
		return
	}

	available := availableMetrics(def)
	metricLabel := strings.Title(strings.ReplaceAll(metricKey, "_", " "))
	isMetricValid := false
	for _, metric := range available {
		if metric.Value == metricKey {
			isMetricValid = true
			metricLabel = metric.Label
			break
		}
	}
	if !isMetricValid && len(available) > 0 {
		metricKey = available[0].Value
		metricLabel = available[0].Label
	}

	timelineData, err := repository.GetTimelineData(c.Request.Context(), user.ID, def.Key, metricKey)
	if err != nil {
		h.log.Error("Failed to get timeline data", zap.Error(err), zap.String("task", def.Key), zap.String("metricKey", metricKey))
		c.String(http.StatusInternalServerError, "Failed to load timeline data")
		return
	}

	page := components.NewPage()
	page.SetPageTitle("Results: " + def.Name)
	page.AddCharts(generateTimelineChart(timelineData, metricLabel))

	// Engine tasks get a speed/accuracy scatter across sessions.
	if def.IsEngineTask() {
		correlationData, err := repository.GetCorrelationData(c.Request.Context(), user.ID, def.Key, "reaction_time", "accuracy")
		if err != nil {
			h.log.Error("Failed to get correlation data", zap.Error(err), zap.String("task", def.Key))
			c.String(http.StatusInternalServerError, "Failed to load correlation data")
			return
		}
		page.AddCharts(generateCorrelationChart(correlationData, "Reaction Time (ms)", "Accuracy (%)"))
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render results page", zap.Error(err))
	}
}

// Metrics lists the selectable metrics of a task for the UI dropdown.
func (h *ResultsHandler) Metrics(c *gin.Context) {
	def, found := h.battery.TaskByKey(c.Param("key"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": availableMetrics(def)})
}

func availableMetrics(def models.TaskDef) []MetricOption {
	switch def.Kind {
	case models.KindCPT, models.KindGoNoGo, models.KindNBack:
		return []MetricOption{
			{Value: "reaction_time", Label: "Reaction Time (ms)"},
			{Value: "reaction_time_sd", Label: "Reaction Time SD (ms)"},
			{Value: "accuracy", Label: "Accuracy (%)"},
			{Value: "detection_rate", Label: "Detection Rate"},
			{Value: "omission_error_rate", Label: "Omission Error Rate"},
			{Value: "commission_error_rate", Label: "Commission Error Rate"},
		}
	case models.KindTMT:
		return []MetricOption{
			{Value: "part_a_time", Label: "Part A Time (ms)"},
			{Value: "part_b_time", Label: "Part B Time (ms)"},
			{Value: "b_a_ratio", Label: "B/A Ratio"},
			{Value: "part_a_errors", Label: "Part A Errors"},
			{Value: "part_b_errors", Label: "Part B Errors"},
		}
	case models.KindFlanker:
		return []MetricOption{
			{Value: "congruent_accuracy", Label: "Congruent Accuracy"},
			{Value: "incongruent_accuracy", Label: "Incongruent Accuracy"},
			{Value: "congruent_rt", Label: "Congruent RT (ms)"},
			{Value: "incongruent_rt", Label: "Incongruent RT (ms)"},
			{Value: "interference_cost", Label: "Interference Cost (ms)"},
		}
	default:
		return nil
	}
}

func generateTimelineChart(data []repository.TimelineDataPoint, metricLabel string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Metric Over Time",
			Subtitle: metricLabel,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0)
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(metricLabel, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func generateCorrelationChart(data []repository.CorrelationDataPoint, xLabel, yLabel string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Speed vs. Accuracy",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: xLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: yLabel,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.ScatterData, 0)
	for _, point := range data {
		items = append(items, opts.ScatterData{Value: []interface{}{point.XValue, point.YValue}})
	}

	scatter.AddSeries("Sessions", items)
	return scatter
}
