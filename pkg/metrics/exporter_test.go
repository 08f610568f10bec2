package metrics

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/perfy/pkg/clock"
	"github.com/psantana5/perfy/pkg/perf"
)

func newRegistry(t *testing.T) (*perf.Registry, *Exporter, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Unix(1_700_000_000, 0))

	exp := NewExporter()
	r := perf.New(perf.WithClock(c), perf.WithObserver(exp))
	require.NoError(t, exp.TrackActive(r))
	return r, exp, c
}

func TestExporter_Counters(t *testing.T) {
	r, exp, c := newRegistry(t)

	r.Start("encode", perf.WithAutoDestroy(false))
	r.Start("upload")
	c.Advance(250 * time.Millisecond)
	r.End("encode")
	r.MeasureSync(func() { c.Advance(time.Second) })

	assert.Equal(t, 3.0, testutil.ToFloat64(exp.started))
	assert.Equal(t, 1.0, testutil.ToFloat64(exp.ended.WithLabelValues("named")))
	assert.Equal(t, 1.0, testutil.ToFloat64(exp.ended.WithLabelValues("anonymous")))
	assert.Equal(t, 0.25, testutil.ToFloat64(exp.lastDuration.WithLabelValues("encode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(exp.lastDuration.WithLabelValues(anonymousLabel)))
}

func TestExporter_DestroyDropsSeries(t *testing.T) {
	r, exp, _ := newRegistry(t)

	r.Start("gone")
	r.End("gone")
	assert.Equal(t, 0, testutil.CollectAndCount(exp.lastDuration), "auto-destroyed timer keeps no series")

	r.Start("kept", perf.WithAutoDestroy(false))
	r.End("kept")
	assert.Equal(t, 1, testutil.CollectAndCount(exp.lastDuration))

	r.DestroyAll()
	assert.Equal(t, 0, testutil.CollectAndCount(exp.lastDuration))
}

func TestExporter_ActiveGauge(t *testing.T) {
	r, exp, _ := newRegistry(t)
	r.Start("a")
	r.Start("b")

	var buf bytes.Buffer
	require.NoError(t, exp.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE perfy_timers_active gauge")
	assert.Contains(t, out, "perfy_timers_active 2")
	assert.Contains(t, out, "perfy_timers_started_total 2")
}

func TestExporter_Handler(t *testing.T) {
	r, exp, _ := newRegistry(t)
	r.Start("http")

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "perfy_timers_active 1"), string(body))
}

func TestExporter_WithoutActiveGauge(t *testing.T) {
	exp := NewExporter()

	var buf bytes.Buffer
	require.NoError(t, exp.WriteText(&buf))
	assert.NotContains(t, buf.String(), "perfy_timers_active")
}

func TestExporter_TrackActiveTwice(t *testing.T) {
	exp := NewExporter()
	r := perf.New()

	require.NoError(t, exp.TrackActive(r))
	assert.Error(t, exp.TrackActive(r))
}
