// Package mvar implements MVar, a single-slot synchronizing variable for
// threads of an rts.Scheduler.
//
// An MVar is either empty or full. Take empties a full MVar and Put fills
// an empty one; either blocks the calling thread while the slot is in the
// wrong state. Blocked threads wait in one FIFO queue shared by takers
// and putters. A successful Take wakes the oldest waiting putter and a
// successful Put wakes the oldest waiting taker; waiters of the other kind
// stay queued. The woken thread retries its operation from the top. If
// another thread got to the slot first, the woken thread goes back to the
// head of the queue, so queued puts fill the MVar in submission order and
// queued takes drain it in submission order.
//
// Operations return control objects that inspect and change the MVar only
// when a thread runs them; building one has no effect. No locking is
// needed: only one thread runs at a time.
package mvar

import (
	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/rts"
)

// MVar is a single-slot mailbox. The zero value is an empty MVar.
type MVar struct {
	value   any
	waiting []waiter
	full    bool
}

type waiter struct {
	thread *rts.Thread
	put    bool
}

// TryResult is the outcome of a non-blocking operation.
type TryResult struct {
	Value any
	OK    bool
}

// New creates an empty MVar.
func New() *MVar {
	return &MVar{}
}

// NewFull creates an MVar holding v.
func NewFull(v any) *MVar {
	return &MVar{value: v, full: true}
}

// NewEntry is New in rts.Entry form, for use as a primitive.
func NewEntry([]any) any {
	return rts.Result{Value: New()}
}

// Take removes and returns the value, blocking while the MVar is empty.
func Take(m *MVar) any {
	return take(m, false)
}

func take(m *MVar, retry bool) any {
	return rts.WithThread{Fn: func(t *rts.Thread) any {
		if !m.full {
			return m.wait(t, false, retry, func(any) any { return take(m, true) })
		}
		return rts.Result{Value: m.take()}
	}}
}

// TryTake removes the value if present. It never blocks.
func TryTake(m *MVar) any {
	return rts.WithThread{Fn: func(*rts.Thread) any {
		if !m.full {
			return rts.Result{Value: TryResult{}}
		}
		return rts.Result{Value: TryResult{Value: m.take(), OK: true}}
	}}
}

// Put stores v, blocking while the MVar is full.
func Put(m *MVar, v any) any {
	return put(m, v, false)
}

func put(m *MVar, v any, retry bool) any {
	return rts.WithThread{Fn: func(t *rts.Thread) any {
		if m.full {
			return m.wait(t, true, retry, func(any) any { return put(m, v, true) })
		}
		m.put(v)
		return rts.Result{Value: nil}
	}}
}

// TryPut stores v if the MVar is empty and reports whether it did.
func TryPut(m *MVar, v any) any {
	return rts.WithThread{Fn: func(*rts.Thread) any {
		if m.full {
			return rts.Result{Value: false}
		}
		m.put(v)
		return rts.Result{Value: true}
	}}
}

// Read returns the value without leaving the MVar empty: it takes the
// value and puts it straight back.
func Read(m *MVar) any {
	return rts.Bind(Take(m), func(v any) any {
		return rts.Bind(Put(m, v), func(any) any {
			return rts.Result{Value: v}
		})
	})
}

// Swap takes the current value and puts v in its place.
func Swap(m *MVar, v any) any {
	return rts.Bind(Take(m), func(old any) any {
		return rts.Bind(Put(m, v), func(any) any {
			return rts.Result{Value: old}
		})
	})
}

// IsEmpty reports whether the MVar is empty at this instant.
func IsEmpty(m *MVar) bool {
	return !m.full
}

// Same reports whether a and b are the same MVar.
func Same(a, b *MVar) bool {
	return a == b
}

// Waiting returns the number of blocked threads.
func (m *MVar) Waiting() int {
	return len(m.waiting)
}

// wait parks the calling thread. First-time waiters join the tail of the
// queue; woken waiters that lost the race rejoin at the head.
func (m *MVar) wait(t *rts.Thread, put, retry bool, resume rts.Continuation) any {
	w := waiter{thread: t, put: put}
	if retry {
		m.waiting = append([]waiter{w}, m.waiting...)
	} else {
		m.waiting = append(m.waiting, w)
	}
	msg := "take waiting"
	if put {
		msg = "put waiting"
	}
	t.Scheduler().TraceMVar(t, msg, zap.Int("waiters", len(m.waiting)), zap.Bool("retry", retry))
	return rts.Suspend{Resume: resume}
}

func (m *MVar) take() any {
	v := m.value
	m.value = nil
	m.full = false
	m.wakeOne("take", true)
	return v
}

func (m *MVar) put(v any) {
	m.value = v
	m.full = true
	m.wakeOne("put", false)
}

// wakeOne wakes the oldest waiter whose operation can now proceed.
func (m *MVar) wakeOne(op string, put bool) {
	for i, w := range m.waiting {
		if w.put != put {
			continue
		}
		m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
		w.thread.Scheduler().TraceMVar(w.thread, op+" waking waiter")
		w.thread.Wake(nil)
		return
	}
}
