package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cogsuite-go/internal/models"
	"cogsuite-go/internal/repository"
	"cogsuite-go/internal/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrRunNotFound = errors.New("services: run not found")

// Event is one message on a live run's stream, mirrored to the browser over
// the websocket.
type Event struct {
	Type   string            `json:"type"` // task_start, stimulus, trial_result, task_end
	Trial  *task.Trial       `json:"trial,omitempty"`
	Record *task.TrialRecord `json:"record,omitempty"`
	Report *task.RunReport   `json:"report,omitempty"`
}

// LiveRun is one in-flight engine run owned by a user session.
type LiveRun struct {
	ID        string
	UserID    uint
	TaskKey   string
	Runner    *task.Runner
	StartedAt time.Time
	// Events carries the run's lifecycle to the websocket writer. It is
	// closed when the run finishes or is reset.
	Events chan Event

	mu         sync.Mutex
	lastActive time.Time
}

// Touch marks client activity so the reaper leaves the run alone.
func (r *LiveRun) Touch() {
	r.mu.Lock()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

func (r *LiveRun) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// RunManager owns every live run. Handlers start, feed and reset runs
// through it; the reaper cancels the ones their users walked away from.
type RunManager struct {
	log *zap.Logger

	mu   sync.Mutex
	runs map[string]*LiveRun
}

func NewRunManager(log *zap.Logger) *RunManager {
	return &RunManager{
		log:  log,
		runs: make(map[string]*LiveRun),
	}
}

// newSequencer builds the task-kind-appropriate sequencer with a fresh seed.
func newSequencer(def models.TaskDef, rng *rand.Rand) (task.Sequencer, error) {
	cfg := def.EngineConfig()
	switch def.Kind {
	case models.KindCPT:
		return task.NewSymbolSequencer(cfg, rng)
	case models.KindGoNoGo:
		return task.NewGoNoGoSequencer(cfg, rng)
	case models.KindNBack:
		return task.NewNBackSequencer(cfg, rng)
	default:
		return nil, fmt.Errorf("services: task kind %q does not run on the engine", def.Kind)
	}
}

// Start creates and launches a live run for the given task definition. The
// trial loop runs in its own goroutine; its lifecycle is streamed on the
// returned run's Events channel and the terminal report is persisted.
func (m *RunManager) Start(userID uint, def models.TaskDef) (*LiveRun, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seq, err := newSequencer(def, rng)
	if err != nil {
		return nil, err
	}

	cfg := def.EngineConfig()
	run := &LiveRun{
		ID:         uuid.NewString(),
		UserID:     userID,
		TaskKey:    def.Key,
		StartedAt:  time.Now(),
		Events:     make(chan Event, cfg.TotalStimuli*2+4),
		lastActive: time.Now(),
	}

	cb := task.Callbacks{
		OnTaskStart: func() {
			run.emit(Event{Type: "task_start"})
		},
		OnTrialStart: func(trial task.Trial) {
			run.emit(Event{Type: "stimulus", Trial: &trial})
		},
		OnTrialResult: func(record task.TrialRecord) {
			run.emit(Event{Type: "trial_result", Record: &record})
		},
	}
	run.Runner = task.NewRunner(cfg, seq, task.RealClock(), m.log.With(zap.String("run_id", run.ID)), cb)

	m.mu.Lock()
	m.runs[run.ID] = run
	m.mu.Unlock()

	go m.drive(run)

	m.log.Info("live run started",
		zap.String("run_id", run.ID),
		zap.String("task", def.Key),
		zap.Uint("user_id", userID))
	return run, nil
}

// drive executes the trial loop and persists the terminal report.
func (m *RunManager) drive(run *LiveRun) {
	report, err := run.Runner.Run(context.Background())
	if err != nil {
		// A reset run is incomplete on purpose; nothing is persisted.
		if !errors.Is(err, task.ErrRunReset) {
			m.log.Error("live run failed", zap.String("run_id", run.ID), zap.Error(err))
		}
		close(run.Events)
		return
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := repository.SaveTaskRunTx(saveCtx, run.UserID, run.TaskKey, run.ID, *report, run.Runner.Records(), run.StartedAt); err != nil {
		m.log.Error("failed to save run report", zap.String("run_id", run.ID), zap.Error(err))
	}

	run.emit(Event{Type: "task_end", Report: report})
	close(run.Events)
}

// emit never blocks the trial loop; the channel is sized for a full run and
// a stalled consumer only loses its mirror of the stream.
func (r *LiveRun) emit(ev Event) {
	select {
	case r.Events <- ev:
	default:
	}
}

// Get returns a live run by id, scoped to its owner.
func (m *RunManager) Get(runID string, userID uint) (*LiveRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok || run.UserID != userID {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Respond forwards a respond signal into the run's active window. Signals
// outside an open window report false and are otherwise ignored.
func (m *RunManager) Respond(runID string, userID uint) (bool, error) {
	run, err := m.Get(runID, userID)
	if err != nil {
		return false, err
	}
	run.Touch()
	return run.Runner.Respond(), nil
}

// Snapshot returns the live progress report of a run.
func (m *RunManager) Snapshot(runID string, userID uint) (task.RunReport, error) {
	run, err := m.Get(runID, userID)
	if err != nil {
		return task.RunReport{}, err
	}
	run.Touch()
	return run.Runner.Snapshot(), nil
}

// Reset aborts a live run, cancels its timing commitments and forgets it.
func (m *RunManager) Reset(runID string, userID uint) error {
	run, err := m.Get(runID, userID)
	if err != nil {
		return err
	}
	run.Runner.Reset()

	m.mu.Lock()
	delete(m.runs, runID)
	m.mu.Unlock()

	m.log.Info("live run reset", zap.String("run_id", runID))
	return nil
}

// Remove forgets a finished run.
func (m *RunManager) Remove(runID string) {
	m.mu.Lock()
	delete(m.runs, runID)
	m.mu.Unlock()
}

// reapIdle cancels runs with no client activity since the cutoff and
// removes finished runs nobody collected.
func (m *RunManager) reapIdle(cutoff time.Time) []string {
	m.mu.Lock()
	var stale []*LiveRun
	for _, run := range m.runs {
		if run.idleSince().Before(cutoff) {
			stale = append(stale, run)
		}
	}
	m.mu.Unlock()

	var reaped []string
	for _, run := range stale {
		run.Runner.Reset()
		m.Remove(run.ID)
		reaped = append(reaped, run.ID)
	}
	return reaped
}
