package perf

import (
	"errors"
	"fmt"
)

// Kind categorizes registry and timer failures
type Kind int

const (
	KindUnknown         Kind = iota
	KindInvalidArgument      // missing name or work function
	KindNotFound             // no entry registered under the name
	KindInvalidState         // timer ended before it was started
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is
var (
	ErrInvalidArgument = errors.New(KindInvalidArgument.String())
	ErrNotFound        = errors.New(KindNotFound.String())
	ErrInvalidState    = errors.New(KindInvalidState.String())
)

// Error carries the kind of failure plus the operation and timer name involved
type Error struct {
	Kind    Kind
	Op      string // "start", "end", "result", "measure", ...
	Name    string
	Message string
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("perf %s %q: %s: %s", e.Op, e.Name, e.Kind, e.Message)
	}
	return fmt.Sprintf("perf %s: %s: %s", e.Op, e.Kind, e.Message)
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidState:
		return e.Kind == KindInvalidState
	}
	return false
}

// KindOf returns the Kind of a perf error anywhere in err's chain
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func errNameRequired(op string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: "timer name required"}
}

func errNoTimer(op, name string) error {
	return &Error{Kind: KindNotFound, Op: op, Name: name, Message: "no timer with this name"}
}

func errWorkRequired(op string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: "work function is nil"}
}

func errNotStarted(name string) error {
	return &Error{Kind: KindInvalidState, Op: "end", Name: name, Message: "Start must be called before End"}
}
