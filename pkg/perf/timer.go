package perf

import (
	"time"

	"github.com/psantana5/perfy/pkg/clock"
)

// Timer is a single named stopwatch tracking one start/end cycle.
// A Timer is not safe for concurrent use on its own; the Registry
// serializes access to the timers it owns.
type Timer struct {
	name  string
	clock clock.Clock

	started   bool
	startMark time.Time // monotonic reading, duration math only
	startWall time.Time
	endWall   time.Time
	elapsed   time.Duration

	result *Result
}

// NewTimer creates an unstarted timer. A nil clock means the system clock.
func NewTimer(name string, c clock.Clock) *Timer {
	if c == nil {
		c = clock.System()
	}
	return &Timer{name: name, clock: c}
}

// Name returns the name the timer was created with
func (t *Timer) Name() string {
	return t.name
}

// Reset clears marks and the result
func (t *Timer) Reset() {
	t.started = false
	t.startMark = time.Time{}
	t.startWall = time.Time{}
	t.endWall = time.Time{}
	t.elapsed = 0
	t.result = nil
}

// Start resets the timer and records the start marks
func (t *Timer) Start() {
	t.Reset()
	now := t.clock.Now()
	t.startMark = now
	t.startWall = now
	t.started = true
}

// End stops the timer and returns its result.
// Once ended, further calls return the same result until the next Start.
func (t *Timer) End() (*Result, error) {
	if !t.started {
		return nil, errNotStarted(t.name)
	}
	if t.result != nil {
		return t.result, nil
	}

	t.elapsed = t.clock.Since(t.startMark)
	t.endWall = t.clock.Now()
	t.result = NewResult(t.name, t.elapsed, t.startWall, t.endWall)
	return t.result, nil
}

// Result returns the stored result, nil until End succeeds
func (t *Timer) Result() *Result {
	return t.result
}

// Running reports whether the timer was started and not yet ended
func (t *Timer) Running() bool {
	return t.started && t.result == nil
}
