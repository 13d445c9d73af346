package prim

import (
	"github.com/wippyai/lazy-runtime/errors"
)

// Array is a fixed-size mutable array of boxed values.
type Array struct {
	elems []any
}

// Frozen is an immutable snapshot of an Array.
type Frozen struct {
	elems []any
}

// NewArray creates an array of n elements, each set to init.
func NewArray(n int, init any) (*Array, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseEval, "array size must not be negative")
	}
	elems := make([]any, n)
	for i := range elems {
		elems[i] = init
	}
	return &Array{elems: elems}, nil
}

// Size returns the number of elements.
func (a *Array) Size() int { return len(a.elems) }

// Read returns element i.
func (a *Array) Read(i int) (any, error) {
	if i < 0 || i >= len(a.elems) {
		return nil, errors.OutOfBounds(errors.PhaseEval, []string{"array.read"}, i, len(a.elems))
	}
	return a.elems[i], nil
}

// Write sets element i.
func (a *Array) Write(i int, v any) error {
	if i < 0 || i >= len(a.elems) {
		return errors.OutOfBounds(errors.PhaseEval, []string{"array.write"}, i, len(a.elems))
	}
	a.elems[i] = v
	return nil
}

// SameArray reports whether a and b are the same array.
func SameArray(a, b *Array) bool { return a == b }

// Freeze copies elements [off, off+n) into an immutable snapshot.
func (a *Array) Freeze(off, n int) (*Frozen, error) {
	if err := checkRange("array.freeze", off, n, len(a.elems)); err != nil {
		return nil, err
	}
	elems := make([]any, n)
	copy(elems, a.elems[off:off+n])
	return &Frozen{elems: elems}, nil
}

// UnsafeFreeze turns the array into a snapshot without copying. The array
// must not be written afterwards.
func (a *Array) UnsafeFreeze() *Frozen {
	return &Frozen{elems: a.elems}
}

// Size returns the number of elements.
func (f *Frozen) Size() int { return len(f.elems) }

// Index returns element i.
func (f *Frozen) Index(i int) (any, error) {
	if i < 0 || i >= len(f.elems) {
		return nil, errors.OutOfBounds(errors.PhaseEval, []string{"array.index"}, i, len(f.elems))
	}
	return f.elems[i], nil
}

// Thaw copies elements [off, off+n) into a new mutable array.
func (f *Frozen) Thaw(off, n int) (*Array, error) {
	if err := checkRange("array.thaw", off, n, len(f.elems)); err != nil {
		return nil, err
	}
	elems := make([]any, n)
	copy(elems, f.elems[off:off+n])
	return &Array{elems: elems}, nil
}

// UnsafeThaw makes the snapshot mutable again without copying.
func (f *Frozen) UnsafeThaw() *Array {
	return &Array{elems: f.elems}
}

// CopyArray copies n elements from src[srcOff:] into dst[dstOff:].
// Overlapping ranges of the same array are handled.
func CopyArray(src *Array, srcOff int, dst *Array, dstOff int, n int) error {
	if err := checkRange("array.copy", srcOff, n, len(src.elems)); err != nil {
		return err
	}
	if err := checkRange("array.copy", dstOff, n, len(dst.elems)); err != nil {
		return err
	}
	copy(dst.elems[dstOff:dstOff+n], src.elems[srcOff:srcOff+n])
	return nil
}

func checkRange(path string, off, n, length int) error {
	if off < 0 || n < 0 || off > length || n > length-off {
		return errors.OutOfBounds(errors.PhaseEval, []string{path}, off+n, length)
	}
	return nil
}
