package perf

// Observer receives timer lifecycle events from a Registry.
// Callbacks run on the caller's goroutine after the registry lock is
// released, so an Observer may query the registry but must not block.
type Observer interface {
	TimerStarted(name string)
	TimerEnded(result *Result)
	TimerDestroyed(name string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart   func(name string)
	OnEnd     func(result *Result)
	OnDestroy func(name string)
}

// TimerStarted calls OnStart
func (o ObserverFuncs) TimerStarted(name string) {
	if o.OnStart != nil {
		o.OnStart(name)
	}
}

// TimerEnded calls OnEnd
func (o ObserverFuncs) TimerEnded(result *Result) {
	if o.OnEnd != nil {
		o.OnEnd(result)
	}
}

// TimerDestroyed calls OnDestroy
func (o ObserverFuncs) TimerDestroyed(name string) {
	if o.OnDestroy != nil {
		o.OnDestroy(name)
	}
}
