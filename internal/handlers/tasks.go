package handlers

import (
	"errors"
	"net/http"

	"cogsuite-go/internal/config"
	"cogsuite-go/internal/metrics"
	"cogsuite-go/internal/models"
	"cogsuite-go/internal/repository"
	"cogsuite-go/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type TasksHandler struct {
	log      *zap.Logger
	battery  *models.Battery
	runs     *services.RunManager
	upgrader websocket.Upgrader
}

func NewTasksHandler(log *zap.Logger, battery *models.Battery, runs *services.RunManager) *TasksHandler {
	return &TasksHandler{
		log:     log,
		battery: battery,
		runs:    runs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Session auth happens before the upgrade; the origin check is
			// same-host by default via the cookie requirement.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ListTasks returns the battery, optionally in shuffled presentation order.
func (h *TasksHandler) ListTasks(c *gin.Context) {
	tasks := make([]models.TaskDef, len(h.battery.Tasks))
	copy(tasks, h.battery.Tasks)
	if config.Conf != nil && config.Conf.Battery.Shuffle {
		models.ShuffleTasks(tasks)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// StartRun launches a server-side engine run for an engine task.
func (h *TasksHandler) StartRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	def, found := h.battery.TaskByKey(c.Param("key"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown task"})
		return
	}
	if !def.IsEngineTask() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task does not run on the engine; submit raw results instead"})
		return
	}

	run, err := h.runs.Start(user.ID, def)
	if err != nil {
		h.log.Error("Failed to start run", zap.String("task", def.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"runId":              run.ID,
		"task":               def.Key,
		"totalTrials":        def.Settings.TotalStimuli,
		"stimulusDurationMs": def.Settings.StimulusDurationMs,
		"interTrialGapMs":    def.Settings.InterTrialGapMs,
	})
}

// socketInbound is what the browser sends over the run socket.
type socketInbound struct {
	Type string `json:"type"` // respond
}

// RunSocket streams the run's stimulus/result events to the browser and
// accepts respond signals back on the same connection.
func (h *TasksHandler) RunSocket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.runs.Get(c.Param("id"), user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown run"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Reader: respond signals. A signal outside an open window is dropped by
	// the engine, not an error.
	go func() {
		for {
			var msg socketInbound
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "respond" {
				run.Touch()
				run.Runner.Respond()
			}
		}
	}()

	// Writer: mirror the event stream until the run finishes or the client
	// goes away. The channel closes after task_end or reset.
	for ev := range run.Events {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
		if ev.Type == "task_end" {
			break
		}
	}
	h.runs.Remove(run.ID)
}

// Respond is the HTTP fallback for clients without a socket.
func (h *TasksHandler) Respond(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accepted, err := h.runs.Respond(c.Param("id"), user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

// Snapshot returns the live progress report of a run.
func (h *TasksHandler) Snapshot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.runs.Snapshot(c.Param("id"), user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown run"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ResetRun aborts a live run; nothing is persisted for it.
func (h *TasksHandler) ResetRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.runs.Reset(c.Param("id"), user.ID); err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown run"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset run"})
		return
	}
	c.Status(http.StatusNoContent)
}

// History returns a user's saved reports for one task.
func (h *TasksHandler) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	runs, err := repository.GetRunsForUser(c.Request.Context(), user.ID, c.Param("key"), 50)
	if err != nil {
		h.log.Error("Failed to load run history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// SubmitTMT scores and saves a raw Trail Making submission.
func (h *TasksHandler) SubmitTMT(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var data metrics.TrailMakingData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.log.Error("Failed to bind trail making data", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	result := metrics.CalculateTrailMetrics(&data)
	result.UserID = user.ID
	if err := repository.SaveTMTResultTx(c.Request.Context(), result, data.Clicks); err != nil {
		h.log.Error("Failed to save trail making result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// SubmitFlanker scores and saves a raw Flanker submission.
func (h *TasksHandler) SubmitFlanker(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var data metrics.FlankerData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.log.Error("Failed to bind flanker data", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	result := metrics.CalculateFlankerMetrics(&data)
	result.UserID = user.ID
	if err := repository.SaveFlankerResultTx(c.Request.Context(), result, data.Trials); err != nil {
		h.log.Error("Failed to save flanker result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}
	c.JSON(http.StatusCreated, result)
}
