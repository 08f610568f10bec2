package observe

// Observers attach side channels to a timer registry.
// The registry stays silent; anything that talks goes through here.

import (
	"github.com/psantana5/perfy/pkg/logging"
	"github.com/psantana5/perfy/pkg/perf"
)

// LogObserver writes timer lifecycle events to a logger.
// Starts and destroys go to DEBUG, results to INFO.
type LogObserver struct {
	log *logging.Logger
}

// NewLogObserver creates an observer bound to logger
func NewLogObserver(logger *logging.Logger) *LogObserver {
	return &LogObserver{log: logger.WithField("component", "timers")}
}

// TimerStarted logs at debug
func (o *LogObserver) TimerStarted(name string) {
	o.log.Debug("timer started", map[string]interface{}{"timer": displayName(name)})
}

// TimerEnded logs the summary at info
func (o *LogObserver) TimerEnded(r *perf.Result) {
	o.log.Info(r.Summary, map[string]interface{}{
		"timer":            displayName(r.Name),
		"full_nanoseconds": r.FullNanoseconds,
		"start_time":       r.StartTime,
		"end_time":         r.EndTime,
	})
}

// TimerDestroyed logs at debug
func (o *LogObserver) TimerDestroyed(name string) {
	o.log.Debug("timer destroyed", map[string]interface{}{"timer": displayName(name)})
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
