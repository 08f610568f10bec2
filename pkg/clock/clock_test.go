package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		wantSec int64
		wantNs  int64
	}{
		{"zero", 0, 0, 0},
		{"sub-second", 250 * time.Millisecond, 0, 250_000_000},
		{"exact seconds", 3 * time.Second, 3, 0},
		{"mixed", 2*time.Second + 7*time.Nanosecond, 2, 7},
		{"negative clamps", -time.Second, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, ns := Split(tt.d)
			assert.Equal(t, tt.wantSec, sec)
			assert.Equal(t, tt.wantNs, ns)
		})
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManual(start)

	mark := c.Now()
	assert.True(t, mark.Equal(start), "Now() = %v, want %v", mark, start)

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, c.Since(mark))

	c.Set(start.Add(time.Minute))
	assert.Equal(t, time.Minute, c.Since(mark))
}

func TestSystemClockMonotonic(t *testing.T) {
	c := System()
	mark := c.Now()
	time.Sleep(5 * time.Millisecond)

	assert.GreaterOrEqual(t, c.Since(mark), 5*time.Millisecond)
}
