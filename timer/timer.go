// Package timer provides cancellable deferred tasks polled from the game loop.
//
// A Scheduler never spawns goroutines: callbacks run inside Run, which the
// owner calls once per frame, so task callbacks may freely touch world state.
package timer

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Used by tests and headless runs.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Task is a callback scheduled to run once at a deadline.
type Task struct {
	deadline time.Time
	seq      uint64
	fn       func()
	owner    *Scheduler
	done     bool
}

// Cancel prevents the task from running. It reports whether the task was
// still pending.
func (t *Task) Cancel() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	if t.owner != nil {
		t.owner.remove(t)
	}
	return true
}

// Pending reports whether the task has neither run nor been cancelled.
func (t *Task) Pending() bool {
	return t != nil && !t.done
}

// Deadline returns when the task is due.
func (t *Task) Deadline() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.deadline
}

type Scheduler struct {
	clock Clock
	tasks []*Task
	seq   uint64
}

func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

func (s *Scheduler) Clock() Clock {
	if s == nil {
		return nil
	}
	return s.clock
}

func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run once d has elapsed. A non-positive d runs fn on
// the next call to Run.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	if s == nil || fn == nil {
		return nil
	}
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Task{deadline: s.clock.Now().Add(d), seq: s.seq, fn: fn, owner: s}
	s.tasks = append(s.tasks, t)
	return t
}

// Run fires every task whose deadline is at or before now, earliest first.
// Ties run in scheduling order. Tasks scheduled by a callback run in the same
// pass only if they are already due.
func (s *Scheduler) Run() int {
	if s == nil {
		return 0
	}
	now := s.clock.Now()
	fired := 0
	for {
		t := s.nextDue(now)
		if t == nil {
			return fired
		}
		t.done = true
		s.remove(t)
		t.fn()
		fired++
	}
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	if s == nil {
		return
	}
	for _, t := range s.tasks {
		t.done = true
	}
	s.tasks = nil
}

func (s *Scheduler) nextDue(now time.Time) *Task {
	var best *Task
	for _, t := range s.tasks {
		if t.deadline.After(now) {
			continue
		}
		if best == nil || t.deadline.Before(best.deadline) || (t.deadline.Equal(best.deadline) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) remove(target *Task) {
	for i, t := range s.tasks {
		if t == target {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}
