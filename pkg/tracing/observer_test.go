package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/psantana5/perfy/pkg/clock"
	"github.com/psantana5/perfy/pkg/logging"
	"github.com/psantana5/perfy/pkg/perf"
)

func TestSpanObserver(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	provider := NewProvider(tp, "perfy-test")
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	c := clock.NewManual(time.UnixMilli(1_700_000_000_000))
	r := perf.New(perf.WithClock(c), perf.WithObserver(NewSpanObserver(nil, provider)))

	r.Start("compile")
	c.Advance(1200 * time.Millisecond)
	_, err := r.End("compile")
	require.NoError(t, err)

	r.MeasureSync(func() { c.Advance(time.Millisecond) })

	spans := sr.Ended()
	require.Len(t, spans, 2)

	first := spans[0]
	assert.Equal(t, "timer compile", first.Name())
	assert.Equal(t, 1200*time.Millisecond, first.EndTime().Sub(first.StartTime()))
	assert.True(t, first.StartTime().Equal(time.UnixMilli(1_700_000_000_000)), "span start %v", first.StartTime())

	attrs := map[string]interface{}{}
	for _, kv := range first.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "compile", attrs["perfy.timer.name"])
	assert.Equal(t, int64(1_200_000_000), attrs["perfy.timer.full_nanoseconds"])
	assert.Equal(t, "compile: 1.2 sec.", attrs["perfy.timer.summary"])

	assert.Equal(t, "timer anonymous", spans[1].Name())
}

func TestInitTracer_Disabled(t *testing.T) {
	p, err := InitTracer(Config{ServiceName: "perfy", Enabled: false}, logging.NewLogger(logging.ERROR, false))
	require.NoError(t, err)
	require.NotNil(t, p.Tracer())

	_, span := p.StartSpan(context.Background(), "noop")
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}
