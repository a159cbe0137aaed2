package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Callbacks are the lifecycle hooks exposed to the host. OnTaskStart and
// OnTaskEnd fire exactly once per completed run; the per-trial hooks feed
// the transport layer. Nil hooks are skipped.
type Callbacks struct {
	OnTaskStart   func()
	OnTaskEnd     func(RunReport)
	OnTrialStart  func(Trial)
	OnTrialResult func(TrialRecord)
}

// Runner drives the trial loop: sequencer, window, classifier, aggregator,
// repeated until the configured trial count is exhausted. All timing flows
// through the injected clock; every deadline and gap timer it starts is
// cancelled by Reset before Reset returns, so a stale timer can never mutate
// run state after the fact.
type Runner struct {
	cfg    Config
	seq    Sequencer
	clock  Clock
	log    *zap.Logger
	cb     Callbacks
	window *ResponseWindow
	agg    *Aggregator

	mu      sync.Mutex
	running bool
	reset   bool
	cancel  context.CancelFunc
	done    chan struct{}
	records []TrialRecord
}

// NewRunner wires a runner for one task configuration. The sequencer fixes
// the run's target totals up front.
func NewRunner(cfg Config, seq Sequencer, clock Clock, log *zap.Logger, cb Callbacks) *Runner {
	return &Runner{
		cfg:    cfg,
		seq:    seq,
		clock:  clock,
		log:    log,
		cb:     cb,
		window: NewResponseWindow(clock),
		agg:    NewAggregator(seq.Total(), seq.TargetCount()),
	}
}

// Run executes the full trial loop and returns the terminal report. It
// blocks until the run completes, the context is cancelled, or Reset aborts
// it. Only one run may be active at a time.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrRunActive
	}
	ctx, cancel := context.WithCancel(ctx)
	r.running = true
	r.reset = false
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.mu.Unlock()
		close(done)
	}()

	if r.cb.OnTaskStart != nil {
		r.cb.OnTaskStart()
	}
	r.log.Info("task run started",
		zap.Int("total_trials", r.seq.Total()),
		zap.Int("total_targets", r.seq.TargetCount()))

	for i := 0; i < r.seq.Total(); i++ {
		trial := r.seq.Next(i)
		resolved, err := r.window.Open(trial, r.cfg.StimulusDuration)
		if err != nil {
			return nil, err
		}
		if r.cb.OnTrialStart != nil {
			r.cb.OnTrialStart(trial)
		}

		var res Resolution
		select {
		case res = <-resolved:
		case <-ctx.Done():
			r.window.Cancel()
			return nil, r.abortErr(ctx)
		}

		// The outcome for trial i is recorded before trial i+1 can open.
		outcome := Classify(res.Trial, res.Response)
		r.agg.Record(outcome, res.Response.LatencyMs)
		record := TrialRecord{Trial: res.Trial, Response: res.Response, Outcome: outcome}
		r.mu.Lock()
		r.records = append(r.records, record)
		r.mu.Unlock()
		if r.cb.OnTrialResult != nil {
			r.cb.OnTrialResult(record)
		}

		// Inter-trial gap: pacing only, never a response opportunity.
		if r.cfg.InterTrialGap > 0 && i < r.seq.Total()-1 {
			if err := r.pause(ctx, r.cfg.InterTrialGap); err != nil {
				return nil, err
			}
		}
	}

	report := r.agg.Snapshot()
	if r.cb.OnTaskEnd != nil {
		r.cb.OnTaskEnd(report)
	}
	r.log.Info("task run finished",
		zap.Int("hits", report.Hits),
		zap.Int("misses", report.Misses),
		zap.Int("false_alarms", report.FalseAlarms),
		zap.Int("accuracy", report.Accuracy))
	return &report, nil
}

// pause waits out the inter-trial gap on the injected clock, abandoning the
// wait if the run is cancelled.
func (r *Runner) pause(ctx context.Context, d time.Duration) error {
	elapsed := make(chan struct{})
	t := r.clock.AfterFunc(d, func() { close(elapsed) })
	select {
	case <-elapsed:
		return nil
	case <-ctx.Done():
		t.Stop()
		return r.abortErr(ctx)
	}
}

func (r *Runner) abortErr(ctx context.Context) error {
	r.mu.Lock()
	wasReset := r.reset
	r.mu.Unlock()
	if wasReset {
		return ErrRunReset
	}
	return ctx.Err()
}

// Respond forwards the user's respond signal into the active window. Signals
// outside an open window are dropped; the return value reports acceptance.
func (r *Runner) Respond() bool {
	return r.window.Respond()
}

// Reset aborts any active run and returns the runner to its pre-run state.
// It blocks until the run loop has exited, then cancels the window and
// zeroes the aggregator, so no timing commitment made before the reset can
// record an outcome after it.
func (r *Runner) Reset() {
	r.mu.Lock()
	if r.running {
		r.reset = true
		r.cancel()
		done := r.done
		r.mu.Unlock()
		<-done
	} else {
		r.mu.Unlock()
	}

	r.window.Cancel()
	r.agg.Reset()

	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
	r.log.Info("task run reset")
}

// Snapshot returns the live run report for progress display.
func (r *Runner) Snapshot() RunReport {
	return r.agg.Snapshot()
}

// Records returns the per-trial log of the run so far, in trial order.
func (r *Runner) Records() []TrialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TrialRecord(nil), r.records...)
}
