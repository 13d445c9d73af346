package prim

import (
	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/rts"
)

// MutVar is a mutable reference cell.
type MutVar struct {
	value any
}

// NewMutVar creates a cell holding v.
func NewMutVar(v any) *MutVar {
	return &MutVar{value: v}
}

// Read returns the current contents.
func (m *MutVar) Read() any { return m.value }

// Write replaces the contents.
func (m *MutVar) Write(v any) { m.value = v }

// SameMutVar reports whether a and b are the same cell.
func SameMutVar(a, b *MutVar) bool { return a == b }

// AtomicModify applies f to the current contents. f must produce a
// two-field Data: field 0 becomes the new contents and field 1 is the
// result of the operation. Nothing else runs between reading the old
// value and storing the new one.
func AtomicModify(m *MutVar, f rts.Closure) any {
	return rts.Bind(rts.Apply(f, m.value), func(v any) any {
		pair, ok := v.(*rts.Data)
		if !ok || len(pair.Fields) < 2 {
			rts.Raise(errors.TypeMismatch(errors.PhaseEval, []string{"atomicModify"}, "pair", v))
		}
		m.value = pair.Fields[0]
		return rts.Result{Value: pair.Fields[1]}
	})
}
