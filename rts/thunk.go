package rts

import (
	"fmt"

	"github.com/wippyai/lazy-runtime/errors"
)

type thunkState uint8

const (
	thunkPending thunkState = iota
	thunkBlackhole
	thunkEvaluated
	thunkFailed
)

// Thunk is a zero-argument deferred computation evaluated at most once.
//
// The first thread to force a pending thunk owns its evaluation and
// blackholes it. Other threads forcing it meanwhile park and are woken
// when the owner updates the thunk; the owner forcing it again is a cycle.
// A computation that raises memoizes the raised value, so every later
// force re-raises it without re-running the computation. The same holds
// when the owner ends with a fatal engine condition.
type Thunk struct {
	compute func() any
	value   any
	owner   *Thread
	blocked []*Thread
	state   thunkState
}

// NewThunk creates a pending thunk. compute returns a control object or a
// plain value.
func NewThunk(compute func() any) *Thunk {
	return &Thunk{compute: compute}
}

// Evaluated creates a thunk that already holds v.
func Evaluated(v any) *Thunk {
	return &Thunk{value: v, state: thunkEvaluated}
}

func (t *Thunk) Arity() int { return 0 }

// IsEvaluated reports whether the thunk holds its memoized result.
func (t *Thunk) IsEvaluated() bool { return t.state == thunkEvaluated }

// Value returns the memoized result, if any.
func (t *Thunk) Value() (any, bool) {
	if t.state != thunkEvaluated {
		return nil, false
	}
	return t.value, true
}

func (t *Thunk) Evaluate([]any) any {
	switch t.state {
	case thunkEvaluated:
		return Result{Value: t.value}
	case thunkFailed:
		Raise(t.value)
	}
	return WithThread{Fn: t.enter}
}

func (t *Thunk) enter(th *Thread) any {
	switch t.state {
	case thunkEvaluated:
		return Result{Value: t.value}
	case thunkFailed:
		Raise(t.value)
	case thunkBlackhole:
		if t.owner == th {
			Raise(errors.Cycle(th.ID()))
		}
		t.blocked = append(t.blocked, th)
		th.sched.traceThread(th, "blocked on thunk")
		return Suspend{Resume: func(any) any { return t.Evaluate(nil) }}
	}

	compute := t.compute
	t.state = thunkBlackhole
	t.owner = th
	t.compute = nil
	th.owned = append(th.owned, t)
	return Catch{
		Next: Call{
			Target: func([]any) any { return compute() },
			Then:   t.update,
		},
		Handler: t.fail,
	}
}

func (t *Thunk) update(v any) any {
	t.state = thunkEvaluated
	t.value = v
	t.release()
	return Result{Value: v}
}

func (t *Thunk) fail(exc any) any {
	t.state = thunkFailed
	t.value = exc
	t.release()
	Raise(exc)
	return nil
}

// abandon memoizes the condition that ended the owning thread as the
// thunk's failure.
func (t *Thunk) abandon(owner *Thread, v any) {
	if t.state != thunkBlackhole || t.owner != owner {
		return
	}
	t.state = thunkFailed
	t.value = v
	t.release()
}

func (t *Thunk) release() {
	if t.owner != nil {
		t.owner.disown(t)
	}
	t.owner = nil
	blocked := t.blocked
	t.blocked = nil
	for _, th := range blocked {
		th.Wake(nil)
	}
}

func (t *Thunk) String() string {
	switch t.state {
	case thunkEvaluated:
		return fmt.Sprintf("<thunk %v>", t.value)
	case thunkFailed:
		return fmt.Sprintf("<thunk raised %v>", t.value)
	case thunkBlackhole:
		return "<thunk blackhole>"
	}
	return "<thunk>"
}
