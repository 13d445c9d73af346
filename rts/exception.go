package rts

import (
	"fmt"

	"github.com/wippyai/lazy-runtime/errors"
)

// Exception is the error a host caller receives when a thread ends with
// an uncaught raised value.
type Exception struct {
	Value any
}

func (e *Exception) Error() string {
	return fmt.Sprintf("uncaught exception: %v", e.Value)
}

// Unwrap exposes a raised Go error to errors.Is/As.
func (e *Exception) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// raised carries a value thrown with Raise through a Go panic.
type raised struct {
	value any
}

// fatalPanic carries an engine condition that must bypass every
// exception handler.
type fatalPanic struct {
	err *errors.Error
}

// Raise throws v as a program exception. It must be called from code run
// by the interpreter (an Entry, Continuation or Handler); the interpreter
// catches it and unwinds to the nearest exception frame.
func Raise(v any) {
	panic(raised{value: v})
}

// RaiseIO is Raise for actions in the IO world; the token is ignored.
func RaiseIO(v any, _ ...any) {
	Raise(v)
}

// Abort ends the running thread with a fatal engine condition that no
// exception handler observes.
func Abort(err *errors.Error) {
	panic(fatalPanic{err: err})
}

func raisedValue(p any) any {
	if r, ok := p.(raised); ok {
		return r.value
	}
	return p
}

// TryCatch runs action on args with handler installed as an exception
// frame. If action raises e, handler is applied to e followed by args.
func TryCatch(action, handler Closure, args ...any) any {
	return Catch{
		Next: Apply(action, args...),
		Handler: func(e any) any {
			return Apply(handler, append([]any{e}, args...)...)
		},
	}
}

// MaskAsyncExceptions runs action. There is no preemptive interruption in
// a cooperative scheduler, so masking has nothing to do.
func MaskAsyncExceptions(action Closure, args ...any) any {
	return Apply(action, args...)
}

// MaskUninterruptible runs action; see MaskAsyncExceptions.
func MaskUninterruptible(action Closure, args ...any) any {
	return Apply(action, args...)
}

// UnmaskAsyncExceptions runs action; see MaskAsyncExceptions.
func UnmaskAsyncExceptions(action Closure, args ...any) any {
	return Apply(action, args...)
}

// MaskingState always reports unmasked (0).
func MaskingState() any {
	return Result{Value: 0}
}
