package overlay

import "time"

// Task is a handle to a scheduled callback
type Task interface {
	// Stop cancels the task if it has not fired yet
	Stop() bool
}

// Scheduler abstracts one-shot timer creation so tests can drive time
// manually instead of sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// clockScheduler is the production Scheduler backed by the runtime timer
type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// NewClockScheduler returns a Scheduler backed by real timers
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

// oneShot is an owned, cancellable scheduled task.  Start replaces any
// in-flight timer, and the generation number lets the owner discard a fire
// from a superseded timer: a stale timer must never act on newer state.
type oneShot struct {
	sched Scheduler
	task  Task
	gen   int
}

func newOneShot(sched Scheduler) *oneShot {
	return &oneShot{sched: sched}
}

// Start schedules fn after d, cancelling any in-flight timer first.  The
// returned generation must be checked with IsCurrent when the fire is
// delivered.
func (t *oneShot) Start(d time.Duration, fire func(gen int)) int {
	if t.task != nil {
		t.task.Stop()
	}
	t.gen++
	gen := t.gen
	t.task = t.sched.AfterFunc(d, func() { fire(gen) })
	return gen
}

// IsCurrent reports whether a delivered fire belongs to the live timer
func (t *oneShot) IsCurrent(gen int) bool {
	return t.task != nil && gen == t.gen
}

// Stop cancels the in-flight timer, if any
func (t *oneShot) Stop() {
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
}
