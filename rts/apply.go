package rts

import (
	"github.com/wippyai/lazy-runtime/errors"
)

// Apply dispatches args to c according to the arity rules of the call
// protocol and returns the control object describing the next step:
//
//	len(args) == arity      Jump into c.Evaluate
//	len(args) >  arity      Call c.Evaluate on the first arity args, then
//	                        apply the result to the rest
//	len(args) == 0          Result(c)
//	c is a Pap, too few     Result of a merged Pap over the same target
//	0 < len(args) < arity   Result of a new Pap
func Apply(c Closure, args ...any) any {
	arity := c.Arity()
	switch {
	case len(args) == arity:
		return Jump{Target: c.Evaluate, Args: args}

	case len(args) > arity:
		rest := args[arity:]
		return Call{
			Target: c.Evaluate,
			Args:   args[:arity:arity],
			Then: func(result any) any {
				return Jump{Target: reapply(result), Args: rest}
			},
		}

	case len(args) == 0:
		return Result{Value: c}

	default:
		if p, ok := c.(*Pap); ok {
			return Result{Value: &Pap{target: p.target, saved: concatArgs(p.saved, args)}}
		}
		return Result{Value: &Pap{target: c, saved: concatArgs(nil, args)}}
	}
}

// reapply returns an entry applying the result of an over-application to
// the remaining arguments.
func reapply(result any) Entry {
	return func(args []any) any {
		c, ok := result.(Closure)
		if !ok {
			Raise(errors.TypeMismatch(errors.PhaseDispatch, []string{"apply"}, "closure", result))
		}
		return Apply(c, args...)
	}
}

// ApplyEntry is Apply in Entry form: its first argument is the closure.
func ApplyEntry(args []any) any {
	c, ok := args[0].(Closure)
	if !ok {
		Raise(errors.TypeMismatch(errors.PhaseDispatch, []string{"apply"}, "closure", args[0]))
	}
	return Apply(c, args[1:]...)
}

// Eval forces a value to weak head normal form: closures of arity zero are
// entered, everything else is returned as is.
func Eval(v any) any {
	if c, ok := v.(Closure); ok && c.Arity() == 0 {
		return Apply(c)
	}
	return Result{Value: v}
}
