package task

import (
	"errors"
	"sync"
	"time"
)

// ErrWindowOpen is returned when Open is called on a window that is still
// accepting a response. No two windows are ever open concurrently.
var ErrWindowOpen = errors.New("task: response window already open")

type windowState int

const (
	windowIdle windowState = iota
	windowOpen
	windowResponded
	windowTimedOut
)

// Resolution is delivered exactly once per opened window, on either the
// response path or the timeout path.
type Resolution struct {
	Trial    Trial
	Response Response
}

// ResponseWindow owns a single active trial's timing contract: presentation
// time, the timeout deadline, and the single allowed response. The state
// field, guarded by the mutex, is the authoritative "already resolved" flag;
// a response and the deadline racing in the same instant resolve to whichever
// takes the lock first, and the loser is a silent no-op. Stopping the timer
// is only an optimization on the response path.
type ResponseWindow struct {
	clock Clock

	mu       sync.Mutex
	state    windowState
	trial    Trial
	openedAt time.Time
	timer    Timer
	resolved chan Resolution
}

// NewResponseWindow returns a reusable window. The same window serves every
// trial of a run, one at a time.
func NewResponseWindow(clock Clock) *ResponseWindow {
	return &ResponseWindow{clock: clock}
}

// Open starts timing trial and arms the deadline. The returned channel
// delivers exactly one Resolution unless the window is cancelled first.
func (w *ResponseWindow) Open(trial Trial, deadline time.Duration) (<-chan Resolution, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == windowOpen {
		return nil, ErrWindowOpen
	}

	trial.PresentedAt = w.clock.Now()
	w.state = windowOpen
	w.trial = trial
	w.openedAt = trial.PresentedAt
	w.resolved = make(chan Resolution, 1)
	w.timer = w.clock.AfterFunc(deadline, w.timeout)
	return w.resolved, nil
}

// Respond records the user's response if the window is open and unresolved.
// It reports whether the response was accepted; a response outside an open
// window is dropped without error.
func (w *ResponseWindow) Respond() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != windowOpen {
		return false
	}

	latency := float64(w.clock.Now().Sub(w.openedAt)) / float64(time.Millisecond)
	w.state = windowResponded
	if w.timer != nil {
		w.timer.Stop()
	}
	w.resolved <- Resolution{
		Trial:    w.trial,
		Response: Response{Occurred: true, LatencyMs: latency},
	}
	return true
}

// timeout fires at the deadline. The state check makes it a no-op when a
// response won the race, even if Stop came too late to prevent the fire.
func (w *ResponseWindow) timeout() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != windowOpen {
		return
	}
	w.state = windowTimedOut
	w.resolved <- Resolution{Trial: w.trial, Response: Response{Occurred: false}}
}

// Cancel abandons an open window without delivering a resolution. A deadline
// that fires after Cancel finds the window idle and does nothing.
func (w *ResponseWindow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != windowOpen {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.state = windowIdle
	w.resolved = nil
}
