// Package clock abstracts the time source used to measure elapsed time.
package clock

import (
	"sync"
	"time"
)

// Clock supplies instants and elapsed durations.
// Now carries both the monotonic reading and the wall-clock time.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type systemClock struct{}

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// System returns the process clock backed by the monotonic runtime timer
func System() Clock {
	return systemClock{}
}

// Split decomposes d into whole seconds and the nanosecond remainder.
// Negative durations are treated as zero.
func Split(d time.Duration) (seconds int64, nanoseconds int64) {
	if d < 0 {
		return 0, 0
	}
	return int64(d / time.Second), int64(d % time.Second)
}

// Manual is a Clock that only moves when told to
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock frozen at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Since returns the manual time elapsed since t
func (m *Manual) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set jumps the clock to t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
