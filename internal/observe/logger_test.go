package observe

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/perfy/pkg/clock"
	"github.com/psantana5/perfy/pkg/logging"
	"github.com/psantana5/perfy/pkg/perf"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.DEBUG, false)
	logger.SetOutput(&buf)

	c := clock.NewManual(time.Unix(1_700_000_000, 0))
	r := perf.New(perf.WithClock(c), perf.WithObserver(NewLogObserver(logger)))

	_, err := r.Start("build")
	require.NoError(t, err)
	c.Advance(1500 * time.Millisecond)
	_, err = r.End("build")
	require.NoError(t, err)
	_, err = r.MeasureSync(func() {})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"DEBUG: timer started component=timers timer=build",
		"INFO: build: 1.5 sec.",
		"full_nanoseconds=1500000000",
		"DEBUG: timer destroyed component=timers timer=build",
		"timer=<anonymous>",
	} {
		assert.Contains(t, out, want)
	}
}

func TestLogObserver_InfoLevelHidesLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.INFO, false)
	logger.SetOutput(&buf)

	r := perf.New(perf.WithObserver(NewLogObserver(logger)))
	_, err := r.Start("quiet")
	require.NoError(t, err)
	_, err = r.End("quiet")
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "timer started", "DEBUG events should be filtered at INFO")
	assert.Contains(t, out, "quiet: ")
}
