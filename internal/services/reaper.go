package services

import (
	"time"

	"cogsuite-go/internal/config"

	"go.uber.org/zap"
)

// Reaper cancels live runs their users abandoned, so orphaned response
// windows and gap timers never outlive a session.
type Reaper struct {
	log  *zap.Logger
	runs *RunManager
}

func NewReaper(log *zap.Logger, runs *RunManager) *Reaper {
	return &Reaper{
		log:  log,
		runs: runs,
	}
}

// Start runs the reaper in a goroutine.
func (r *Reaper) Start() {
	r.log.Info("Starting live run reaper...")
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			r.sweep()
		}
	}()
}

func (r *Reaper) sweep() {
	maxIdle := 15 * time.Minute
	if config.Conf != nil && config.Conf.Runs.MaxIdleMinutes > 0 {
		maxIdle = time.Duration(config.Conf.Runs.MaxIdleMinutes) * time.Minute
	}

	cutoff := time.Now().Add(-maxIdle)
	reaped := r.runs.reapIdle(cutoff)
	for _, id := range reaped {
		r.log.Info("Reaped abandoned live run", zap.String("run_id", id))
	}
}
