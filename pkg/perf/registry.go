// Package perf implements a registry of named high-resolution timers.
//
// Callers start a timer under a name, end it later, and get back a Result
// describing the elapsed time in seconds, milliseconds and nanoseconds
// together with a one-line summary. Timers are auto-destroyed on End
// unless started with WithAutoDestroy(false).
package perf

import (
	"sync"

	"github.com/psantana5/perfy/pkg/clock"
)

type entry struct {
	timer       *Timer
	autoDestroy bool
}

// Registry owns a set of named timers. Safe for concurrent use.
type Registry struct {
	clock     clock.Clock
	observers []Observer

	mu      sync.Mutex
	entries map[string]*entry
	order   []string // insertion order of entries
}

// Option configures a Registry
type Option func(*Registry)

// WithClock sets the time source. Defaults to clock.System().
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithObserver adds an observer notified of timer lifecycle events
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		clock:   clock.System(),
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type startConfig struct {
	autoDestroy bool
}

// StartOption configures a single Start call
type StartOption func(*startConfig)

// WithAutoDestroy controls whether End removes the timer from the registry.
// The default is true.
func WithAutoDestroy(enabled bool) StartOption {
	return func(c *startConfig) {
		c.autoDestroy = enabled
	}
}

// Start creates a fresh timer under name and starts it. An existing timer
// with the same name is replaced and its result discarded.
func (r *Registry) Start(name string, opts ...StartOption) (*Registry, error) {
	if name == "" {
		return r, errNameRequired("start")
	}

	cfg := startConfig{autoDestroy: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	r.begin(name, cfg.autoDestroy)
	return r, nil
}

// End stops the named timer and returns its result. Auto-destroyed timers
// are removed from the registry. Ending a kept timer again returns the
// result from the first End.
func (r *Registry) End(name string) (*Result, error) {
	if name == "" {
		return nil, errNameRequired("end")
	}

	r.mu.Lock()
	e, ok := r.entries[name]
	if !ok {
		r.mu.Unlock()
		return nil, errNoTimer("end", name)
	}
	if res := e.timer.Result(); res != nil {
		r.mu.Unlock()
		return res, nil
	}
	return r.finishLocked(name, e.timer)
}

// Result returns the stored result for name. It returns nil without error
// when no timer exists under name or the timer has not ended yet.
func (r *Registry) Result(name string) (*Result, error) {
	if name == "" {
		return nil, errNameRequired("result")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, nil
	}
	return e.timer.Result(), nil
}

// Exists reports whether a timer is registered under name
func (r *Registry) Exists(name string) (bool, error) {
	if name == "" {
		return false, errNameRequired("exists")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[name]
	return ok, nil
}

// Names returns the registered names in insertion order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered timers
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Destroy removes the named timer if present
func (r *Registry) Destroy(name string) (*Registry, error) {
	if name == "" {
		return r, errNameRequired("destroy")
	}

	r.mu.Lock()
	removed := r.removeLocked(name)
	r.mu.Unlock()

	if removed {
		r.notify(func(o Observer) { o.TimerDestroyed(name) })
	}
	return r, nil
}

// DestroyAll removes every timer
func (r *Registry) DestroyAll() *Registry {
	r.mu.Lock()
	names := r.order
	r.entries = make(map[string]*entry)
	r.order = nil
	r.mu.Unlock()

	for _, name := range names {
		name := name
		r.notify(func(o Observer) { o.TimerDestroyed(name) })
	}
	return r
}

// begin registers (for a non-empty name) and starts a new timer
func (r *Registry) begin(name string, autoDestroy bool) *Timer {
	t := NewTimer(name, r.clock)

	r.mu.Lock()
	if name != "" {
		if _, exists := r.entries[name]; !exists {
			r.order = append(r.order, name)
		}
		r.entries[name] = &entry{timer: t, autoDestroy: autoDestroy}
	}
	t.Start()
	r.mu.Unlock()

	r.notify(func(o Observer) { o.TimerStarted(name) })
	return t
}

// finish ends t and applies the auto-destroy rule of its entry
func (r *Registry) finish(name string, t *Timer) (*Result, error) {
	r.mu.Lock()
	return r.finishLocked(name, t)
}

// finishLocked must be called with r.mu held; it releases the lock.
func (r *Registry) finishLocked(name string, t *Timer) (*Result, error) {
	already := t.Result() != nil
	res, err := t.End()
	if err != nil || already {
		r.mu.Unlock()
		return res, err
	}

	destroyed := false
	if name != "" {
		// Only touch the entry if it still belongs to this timer; a later
		// Start under the same name replaces it.
		if e, ok := r.entries[name]; ok && e.timer == t && e.autoDestroy {
			destroyed = r.removeLocked(name)
		}
	}
	r.mu.Unlock()

	r.notify(func(o Observer) { o.TimerEnded(res) })
	if destroyed {
		r.notify(func(o Observer) { o.TimerDestroyed(name) })
	}
	return res, nil
}

func (r *Registry) removeLocked(name string) bool {
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) notify(fn func(Observer)) {
	for _, o := range r.observers {
		fn(o)
	}
}
