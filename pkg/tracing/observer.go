package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/psantana5/perfy/pkg/perf"
)

// SpanObserver turns every ended timer into a span that covers the
// measured interval. Spans are emitted after the fact, so they are
// parented to the observer's context rather than to the measured code.
type SpanObserver struct {
	ctx    context.Context
	tracer trace.Tracer
}

// NewSpanObserver creates an observer emitting spans through p
func NewSpanObserver(ctx context.Context, p *Provider) *SpanObserver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SpanObserver{ctx: ctx, tracer: p.Tracer()}
}

// TimerStarted is a no-op; spans are emitted once the result is known
func (o *SpanObserver) TimerStarted(string) {}

// TimerEnded records one span covering the measured interval
func (o *SpanObserver) TimerEnded(r *perf.Result) {
	name := r.Name
	if name == "" {
		name = "anonymous"
	}

	start := r.Started()
	_, span := o.tracer.Start(o.ctx, "timer "+name,
		trace.WithTimestamp(start),
		trace.WithAttributes(
			attribute.String("perfy.timer.name", r.Name),
			attribute.Int64("perfy.timer.full_nanoseconds", r.FullNanoseconds),
			attribute.Float64("perfy.timer.full_seconds", r.FullSeconds),
			attribute.String("perfy.timer.summary", r.Summary),
		),
	)
	span.End(trace.WithTimestamp(start.Add(r.Duration())))
}

// TimerDestroyed is a no-op
func (o *SpanObserver) TimerDestroyed(string) {}
