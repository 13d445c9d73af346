package rts

import "go.uber.org/zap"

// Fork starts action applied to args on a new thread of the current
// scheduler and returns the new *Thread to the caller.
func Fork(action Closure, args ...any) any {
	start := Apply(action, args...)
	return WithThread{Fn: func(current *Thread) any {
		t := current.sched.Start(start)
		current.sched.traceThread(current, "fork", zap.Uint64("child", t.id))
		return Result{Value: t}
	}}
}

// ForkOn is Fork with a capability hint. There is one driver goroutine,
// so the hint is ignored.
func ForkOn(_ int, action Closure, args ...any) any {
	return Fork(action, args...)
}

// NoDuplicate returns v. Threads never run in parallel, so there is no
// duplicated work to prevent.
func NoDuplicate(v any) any {
	return Result{Value: v}
}

// YieldThread lets every other runnable thread run before continuing
// with v.
func YieldThread(v any) any {
	return Yield{Next: Result{Value: v}}
}

// MyThread returns the running *Thread.
func MyThread() any {
	return WithThread{Fn: func(t *Thread) any {
		return Result{Value: t}
	}}
}

// Seq evaluates first, discards its result and continues with next().
func Seq(first any, next func() any) any {
	return Call{
		Target: func([]any) any { return first },
		Then:   func(any) any { return next() },
	}
}

// Bind evaluates first and passes its result to k.
func Bind(first any, k Continuation) any {
	return Call{
		Target: func([]any) any { return first },
		Then:   k,
	}
}
