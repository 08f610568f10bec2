package perf

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/psantana5/perfy/pkg/clock"
)

// Result is the measurement produced by ending a timer.
// Built once per start/end cycle and never modified afterwards.
type Result struct {
	Name string `json:"name" yaml:"name"`

	// Elapsed duration split as reported by the clock
	Seconds     int64 `json:"seconds" yaml:"seconds"`
	Nanoseconds int64 `json:"nanoseconds" yaml:"nanoseconds"`

	// Sub-second remainder in milliseconds (Nanoseconds / 1e6)
	Milliseconds float64 `json:"milliseconds" yaml:"milliseconds"`

	// Totals. Millisecond and second totals are rounded to 3 decimals,
	// the nanosecond total is exact.
	FullMilliseconds float64 `json:"full_milliseconds" yaml:"full_milliseconds"`
	FullSeconds      float64 `json:"full_seconds" yaml:"full_seconds"`
	Time             float64 `json:"time" yaml:"time"`
	FullNanoseconds  int64   `json:"full_nanoseconds" yaml:"full_nanoseconds"`

	// Wall-clock milliseconds since the Unix epoch
	StartTime int64 `json:"start_time" yaml:"start_time"`
	EndTime   int64 `json:"end_time" yaml:"end_time"`

	Summary string `json:"summary" yaml:"summary"`
}

// NewResult computes every unit of a measurement from the elapsed duration
// and the wall-clock endpoints.
func NewResult(name string, elapsed time.Duration, startWall, endWall time.Time) *Result {
	sec, nsec := clock.Split(elapsed)

	r := &Result{
		Name:         name,
		Seconds:      sec,
		Nanoseconds:  nsec,
		Milliseconds: float64(nsec) / 1e6,
		StartTime:    startWall.UnixMilli(),
		EndTime:      endWall.UnixMilli(),
	}

	fullMs := float64(sec)*1000 + r.Milliseconds
	r.FullMilliseconds = round3(fullMs)
	r.FullSeconds = round3(fullMs / 1000)
	r.Time = r.FullSeconds
	r.FullNanoseconds = sec*int64(time.Second) + nsec
	r.Summary = summarize(name, r.Time)

	return r
}

// Duration returns the exact elapsed time
func (r *Result) Duration() time.Duration {
	return time.Duration(r.FullNanoseconds)
}

// Started returns the wall-clock start
func (r *Result) Started() time.Time {
	return time.UnixMilli(r.StartTime)
}

// Ended returns the wall-clock end
func (r *Result) Ended() time.Time {
	return time.UnixMilli(r.EndTime)
}

func (r *Result) String() string {
	return r.Summary
}

// summarize renders "<name>: <time> sec." with the shortest decimal form of time
func summarize(name string, seconds float64) string {
	s := strconv.FormatFloat(seconds, 'f', -1, 64) + " sec."
	if name == "" {
		return s
	}
	return name + ": " + s
}

// round3 rounds to 3 decimals from the exact binary value of v, halves away
// from zero. 1.0005 is stored as 1.000499... and so rounds to 1.
func round3(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(1000))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)
	f, _ := new(big.Float).SetInt(n).Float64()
	return math.Copysign(f/1000, v)
}
