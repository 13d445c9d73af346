// Package interop converts between runtime values and Go values.
//
// Runtime data uses these layouts:
//
//	Int     tag 1, one int32 field
//	Char    tag 1, one rune field
//	String  a list: nil is tag 1 with no fields, cons is tag 2 with
//	        fields (head Char, tail String)
//	IO      an action applied to its arguments and the RealWorld token,
//	        producing a tag 0 pair (world, result)
//
// Any field may hold an unevaluated thunk. The From functions force what
// they need by running a single thread on the given scheduler, so they
// must be called from outside the interpreter.
package interop

import (
	"context"
	"strings"

	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/rts"
)

const (
	tagNil  = 1
	tagCons = 2
	tagBox  = 1
	tagPair = 0
)

// RealWorld is the state token threaded through IO actions.
var RealWorld = rts.NewData(1)

// ToInt boxes i as a runtime Int. Values are truncated to 32 bits.
func ToInt(i int) *rts.Data {
	return rts.NewData(tagBox, int32(i))
}

// ToChar boxes c as a runtime Char.
func ToChar(c rune) *rts.Data {
	return rts.NewData(tagBox, c)
}

// ToString builds a fully evaluated runtime string.
func ToString(s string) *rts.Data {
	runes := []rune(s)
	list := rts.NewData(tagNil)
	for i := len(runes) - 1; i >= 0; i-- {
		list = rts.NewData(tagCons, ToChar(runes[i]), list)
	}
	return list
}

// IOResult builds the pair an IO action returns.
func IOResult(v any) *rts.Data {
	return rts.NewData(tagPair, RealWorld, v)
}

// FromInt forces v and unboxes it.
func FromInt(ctx context.Context, s *rts.Scheduler, v any) (int32, error) {
	r, err := s.Run(ctx, rts.Bind(Force(v), func(r any) any {
		return rts.Result{Value: unbox[int32](r, "int")}
	}))
	if err != nil {
		return 0, err
	}
	return r.(int32), nil
}

// FromString forces the spine and every character of v.
func FromString(ctx context.Context, s *rts.Scheduler, v any) (string, error) {
	var b strings.Builder
	var walk func(cell any) any
	walk = func(cell any) any {
		return rts.Bind(Force(cell), func(r any) any {
			d := data(r, "list")
			switch d.Tag {
			case tagNil:
				return rts.Result{Value: nil}
			case tagCons:
				return rts.Bind(Force(d.Field(0)), func(ch any) any {
					b.WriteRune(unbox[rune](ch, "char"))
					return walk(d.Field(1))
				})
			}
			rts.Raise(errors.InvalidData(errors.PhaseMarshal, []string{"list"}, "unknown list constructor"))
			return nil
		})
	}
	if _, err := s.Run(ctx, walk(v)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FromIO runs action applied to args and the RealWorld token and returns
// the action's result.
func FromIO(ctx context.Context, s *rts.Scheduler, action rts.Closure, args ...any) (any, error) {
	all := append(append(make([]any, 0, len(args)+1), args...), RealWorld)
	return s.Run(ctx, rts.Bind(rts.Apply(action, all...), func(r any) any {
		return rts.Bind(Force(r), func(r any) any {
			d := data(r, "io")
			if d.Tag != tagPair || len(d.Fields) != 2 {
				rts.Raise(errors.InvalidData(errors.PhaseMarshal, []string{"io"}, "IO action did not return a (world, result) pair"))
			}
			return rts.Result{Value: d.Fields[1]}
		})
	}))
}

// Force evaluates v to weak head normal form, following thunks that
// evaluate to further thunks.
func Force(v any) any {
	return rts.Bind(rts.Eval(v), func(r any) any {
		if t, ok := r.(*rts.Thunk); ok {
			return Force(t)
		}
		return rts.Result{Value: r}
	})
}

func data(v any, what string) *rts.Data {
	d, ok := v.(*rts.Data)
	if !ok {
		rts.Raise(errors.TypeMismatch(errors.PhaseMarshal, []string{what}, "data", v))
	}
	return d
}

func unbox[T any](v any, what string) T {
	d := data(v, what)
	x, ok := d.Field(0).(T)
	if !ok || d.Tag != tagBox {
		var zero T
		rts.Raise(errors.TypeMismatch(errors.PhaseMarshal, []string{what}, what, d.Field(0)))
		return zero
	}
	return x
}
