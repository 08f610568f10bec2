package perf

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared process-wide registry on the system clock.
// Code that needs isolation, including tests, should use New instead.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Start starts a timer on the default registry
func Start(name string, opts ...StartOption) (*Registry, error) {
	return Default().Start(name, opts...)
}

// End ends a timer on the default registry
func End(name string) (*Result, error) {
	return Default().End(name)
}

// ResultOf looks up a result on the default registry
func ResultOf(name string) (*Result, error) {
	return Default().Result(name)
}

// Exists reports whether the default registry holds name
func Exists(name string) (bool, error) { return Default().Exists(name) }

// Names lists the default registry's timers in start order
func Names() []string { return Default().Names() }

// Count is the number of timers in the default registry
func Count() int { return Default().Count() }

// Destroy removes a timer from the default registry
func Destroy(name string) (*Registry, error) { return Default().Destroy(name) }

// DestroyAll empties the default registry
func DestroyAll() *Registry { return Default().DestroyAll() }

// MeasureSync times work anonymously on the default registry
func MeasureSync(work func()) (*Result, error) {
	return Default().MeasureSync(work)
}

// Measure times work under name on the default registry
func Measure(name string, work func()) (*Result, error) {
	return Default().Measure(name, work)
}

// MeasureAsync starts a timer on the default registry that ends when work calls done
func MeasureAsync(name string, work func(done DoneFunc)) (*Registry, error) {
	return Default().MeasureAsync(name, work)
}
