package rts

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/errors"
)

// State is the lifecycle state of a logical thread.
type State uint8

const (
	Running State = iota
	Returned
	Threw
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Returned:
		return "returned"
	case Threw:
		return "threw"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// frame is one entry of a thread's explicit stack. At most one of the two
// handlers is set.
type frame struct {
	ret   Continuation
	catch Handler
}

// Thread is a cooperatively scheduled logical thread with its own frame
// stack. It is mutated only by its own interpreter loop.
type Thread struct {
	sched    *Scheduler
	value    any
	stack    []frame
	joiners  []*Thread
	owned    []*Thunk
	id       uint64
	maxStack int
	state    State
}

// ID returns the thread id assigned by the scheduler.
func (t *Thread) ID() uint64 { return t.id }

// State returns the current lifecycle state.
func (t *Thread) State() State { return t.state }

// Finished reports whether the thread has run to completion.
func (t *Thread) Finished() bool { return t.state != Running }

// Scheduler returns the scheduler that owns the thread.
func (t *Thread) Scheduler() *Scheduler { return t.sched }

// Depth returns the current frame stack depth.
func (t *Thread) Depth() int { return len(t.stack) }

// Value returns the final value of a finished thread. A thread that threw
// yields an *Exception carrying the raised value, or the fatal engine
// error that ended it.
func (t *Thread) Value() (any, error) {
	switch t.state {
	case Returned:
		return t.value, nil
	case Threw:
		if err, ok := t.value.(*errors.Error); ok && err.Fatal() {
			return nil, err
		}
		return nil, &Exception{Value: t.value}
	}
	return nil, errors.NotComplete(t.id)
}

// Join suspends the calling thread until t is finished, then resumes with
// t's value. Joining a finished thread resolves without suspending; if t
// threw, the joiner raises the same value.
func (t *Thread) Join() any {
	return WithThread{Fn: func(current *Thread) any {
		switch t.state {
		case Returned:
			return Result{Value: t.value}
		case Threw:
			Raise(t.value)
		}
		if current == t {
			Raise(errors.Cycle(t.id))
		}
		t.joiners = append(t.joiners, current)
		t.sched.traceThread(current, "join", zap.Uint64("target", t.id))
		return Suspend{}
	}}
}

// Wake reschedules a parked thread with v as its resume value.
func (t *Thread) Wake(v any) {
	t.sched.Schedule(t, v, false)
}

func (t *Thread) String() string {
	return fmt.Sprintf("<thread %d %s>", t.id, t.state)
}

func (t *Thread) push(f frame) {
	t.stack = append(t.stack, f)
}

func (t *Thread) disown(th *Thunk) {
	for i := len(t.owned) - 1; i >= 0; i-- {
		if t.owned[i] == th {
			t.owned = append(t.owned[:i], t.owned[i+1:]...)
			return
		}
	}
}

func (t *Thread) popReturnHandler() Continuation {
	for len(t.stack) > 0 {
		f := t.stack[len(t.stack)-1]
		t.stack[len(t.stack)-1] = frame{}
		t.stack = t.stack[:len(t.stack)-1]
		if f.ret != nil {
			return f.ret
		}
	}
	return nil
}

func (t *Thread) popCatcher() Handler {
	for len(t.stack) > 0 {
		f := t.stack[len(t.stack)-1]
		t.stack[len(t.stack)-1] = frame{}
		t.stack = t.stack[:len(t.stack)-1]
		if f.catch != nil {
			return f.catch
		}
	}
	return nil
}

// run drains control objects until the thread parks or finishes. A
// non-nil error is a fatal engine condition; the thread has already been
// finished as Threw with that error.
func (t *Thread) run(r any, isException bool) error {
	for t.state == Running {
		var fatal *errors.Error
		r, isException, fatal = t.step(r, isException)
		if fatal != nil {
			t.finish(Threw, fatal)
			return fatal
		}
		if r == parked {
			return nil
		}
	}
	return nil
}

// parked is returned by step when the thread gave control back to the
// scheduler.
var parked = &struct{ byte }{}

// step performs one interpreter transition. Panics raised by entries and
// handlers are recovered and turned into an exception unwind.
func (t *Thread) step(r any, isException bool) (next any, exc bool, fatal *errors.Error) {
	defer func() {
		if p := recover(); p != nil {
			if err, ok := p.(fatalPanic); ok {
				next, exc, fatal = nil, false, err.err
				return
			}
			next, exc = raisedValue(p), true
			t.sched.traceException(t, "raise", zap.Any("value", next))
		}
	}()

	if len(t.stack) > t.maxStack {
		return nil, false, errors.StackOverflow(t.id, len(t.stack))
	}

	if isException {
		catcher := t.popCatcher()
		if catcher == nil {
			t.finish(Threw, r)
			return parked, false, nil
		}
		t.sched.traceException(t, "caught", zap.Any("value", r))
		return catcher(r), false, nil
	}

	switch c := r.(type) {
	case Jump:
		if c.Target == nil {
			return nil, false, errors.Protocol(t.id, "jump with nil target")
		}
		return c.Target(c.Args), false, nil

	case Call:
		if c.Target == nil {
			return nil, false, errors.Protocol(t.id, "call with nil target")
		}
		t.push(frame{ret: c.Then})
		return c.Target(c.Args), false, nil

	case Catch:
		t.push(frame{catch: c.Handler})
		return c.Next, false, nil

	case WithThread:
		if c.Fn == nil {
			return nil, false, errors.Protocol(t.id, "thread context request with nil function")
		}
		return c.Fn(t), false, nil

	case Suspend:
		if c.Resume != nil {
			t.push(frame{ret: c.Resume})
		}
		t.sched.traceThread(t, "suspend")
		return parked, false, nil

	case Yield:
		t.sched.traceThread(t, "yield")
		t.sched.Schedule(t, c.Next, false)
		return parked, false, nil

	case Result:
		return t.deliver(c.Value), false, nil

	default:
		return t.deliver(r), false, nil
	}
}

func (t *Thread) deliver(v any) any {
	handler := t.popReturnHandler()
	if handler == nil {
		t.finish(Returned, v)
		return parked
	}
	return handler(v)
}

// finish moves the thread to a terminal state and wakes its joiners.
func (t *Thread) finish(state State, v any) {
	if t.state != Running {
		return
	}
	t.state = state
	t.value = v
	t.stack = nil
	t.sched.threadFinished(t)

	// Thunks still under evaluation lost their owner to a fatal condition
	// that skipped their handlers.
	owned := t.owned
	t.owned = nil
	if state == Threw {
		for i := len(owned) - 1; i >= 0; i-- {
			owned[i].abandon(t, v)
		}
	}

	joiners := t.joiners
	t.joiners = nil
	for _, j := range joiners {
		t.sched.Schedule(j, v, state == Threw)
	}
}
