package task

import "time"

// Clock is the timer facility the engine schedules against. The runner and
// response window never touch package time directly, so tests can drive
// deadlines deterministically and reset-cancellation can be proven without
// real sleeps.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was prevented
	// from running, but callers must never rely on Stop alone for race
	// prevention: a timer may already be mid-fire.
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the system timer.
func RealClock() Clock { return realClock{} }
