// Package metrics exposes timer registry activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/psantana5/perfy/pkg/perf"
)

// anonymousLabel is the name label used for unnamed measurements
const anonymousLabel = "_anonymous"

// Counter is the part of the registry the active gauge needs
type Counter interface {
	Count() int
}

// Exporter is a perf.Observer that records plain counters and the last
// duration per timer name. No histograms: every value maps to a single
// measurement.
type Exporter struct {
	registry *prometheus.Registry

	started      prometheus.Counter
	ended        *prometheus.CounterVec
	lastDuration *prometheus.GaugeVec
}

// NewExporter creates an exporter with its own Prometheus registry
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perfy_timers_started_total",
			Help: "Total number of timers started",
		}),
		ended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfy_timers_ended_total",
				Help: "Total number of timers ended",
			},
			[]string{"kind"},
		),
		lastDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "perfy_timer_last_duration_seconds",
				Help: "Elapsed time of the most recent measurement per timer name",
			},
			[]string{"name"},
		),
	}

	e.registry.MustRegister(e.started, e.ended, e.lastDuration)
	return e
}

// TrackActive reports timers.Count() as perfy_timers_active.
// It fails if called twice on the same exporter.
func (e *Exporter) TrackActive(timers Counter) error {
	return e.registry.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "perfy_timers_active",
			Help: "Number of timers currently held by the registry",
		},
		func() float64 { return float64(timers.Count()) },
	))
}

// Registry returns the underlying Prometheus registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// TimerStarted counts a started timer
func (e *Exporter) TimerStarted(string) {
	e.started.Inc()
}

// TimerEnded counts the result by kind and records its duration
func (e *Exporter) TimerEnded(r *perf.Result) {
	kind := "named"
	label := r.Name
	if label == "" {
		kind = "anonymous"
		label = anonymousLabel
	}
	e.ended.WithLabelValues(kind).Inc()
	e.lastDuration.WithLabelValues(label).Set(r.Duration().Seconds())
}

// TimerDestroyed drops the per-name series so destroyed timers stop reporting
func (e *Exporter) TimerDestroyed(name string) {
	if name == "" {
		return
	}
	e.lastDuration.DeleteLabelValues(name)
}

// Handler serves the metrics in the Prometheus exposition format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// WriteText renders the current metrics in the text exposition format
func (e *Exporter) WriteText(w io.Writer) error {
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
