package perf

// DoneFunc ends an asynchronous measurement and returns its result.
// Calling it more than once returns the first result.
type DoneFunc func() (*Result, error)

// MeasureSync times work as an anonymous measurement. The timer never
// enters the registry, so Count is unaffected.
func (r *Registry) MeasureSync(work func()) (*Result, error) {
	if work == nil {
		return nil, errWorkRequired("measure")
	}

	t := r.begin("", false)
	work()
	return r.finish("", t)
}

// Measure times work under name. The timer is kept after it ends so the
// result stays available through Result(name).
func (r *Registry) Measure(name string, work func()) (*Result, error) {
	if name == "" {
		return nil, errNameRequired("measure")
	}
	if work == nil {
		return nil, errWorkRequired("measure")
	}

	t := r.begin(name, false)
	work()
	return r.finish(name, t)
}

// MeasureAsync starts a timer, hands work a DoneFunc and returns at once.
// work (or whatever it schedules) must call done when the asynchronous
// activity completes. An empty name makes the measurement anonymous;
// a named timer is kept in the registry after done.
func (r *Registry) MeasureAsync(name string, work func(done DoneFunc)) (*Registry, error) {
	if work == nil {
		return r, errWorkRequired("measure")
	}

	t := r.begin(name, false)
	work(func() (*Result, error) {
		return r.finish(name, t)
	})
	return r, nil
}
