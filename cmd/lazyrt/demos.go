package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/wippyai/lazy-runtime/interop"
	"github.com/wippyai/lazy-runtime/mvar"
	"github.com/wippyai/lazy-runtime/rts"
	"github.com/wippyai/lazy-runtime/runtime"
)

// demo is a small program built directly from runtime closures.
type demo struct {
	name    string
	summary string
	// run receives the numeric argument, or the default when none is given
	run func(ctx context.Context, rt *runtime.Runtime, n int) (string, error)
	def int
}

var demos = map[string]demo{
	"fib": {
		name:    "fib",
		summary: "n-th Fibonacci number from a memoized list of thunks",
		def:     30,
		run:     runFib,
	},
	"count": {
		name:    "count",
		summary: "count down from n with tail calls in constant stack",
		def:     1000000,
		run:     runCount,
	},
	"pingpong": {
		name:    "pingpong",
		summary: "two threads passing a counter through a pair of MVars n times",
		def:     1000,
		run:     runPingPong,
	},
	"overflow": {
		name:    "overflow",
		summary: "non-tail recursion n deep, exceeding the stack limit when n is large",
		def:     100000,
		run:     runOverflow,
	},
	"catch": {
		name:    "catch",
		summary: "raise n inside a handler that adds one",
		def:     6,
		run:     runCatch,
	},
	"shout": {
		name:    "shout",
		summary: "upper-case a lazily produced string of n letters",
		def:     26,
		run:     runShout,
	},
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fibs builds the list fib(0), fib(1), ... as cons cells whose tails and
// heads are thunks, so each element is computed once.
func fibs(a, b int) *rts.Data {
	return rts.NewData(2,
		rts.Evaluated(a),
		rts.NewThunk(func() any { return fibs(b, a+b) }))
}

func nth(list any, n int) any {
	return rts.Bind(rts.Eval(list), func(v any) any {
		cell := v.(*rts.Data)
		if n == 0 {
			return rts.Eval(cell.Field(0))
		}
		return rts.Jump{Target: func([]any) any { return nth(cell.Field(1), n-1) }}
	})
}

func runFib(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("fib: negative index %d", n)
	}
	v, err := rt.Run(ctx, nth(fibs(0, 1), n))
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func runCount(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	var loop *rts.Func
	loop = rts.NewNamedFunc("count", 2, func(args []any) any {
		left, acc := args[0].(int), args[1].(int)
		if left <= 0 {
			return acc
		}
		return rts.Apply(loop, left-1, acc+1)
	})
	v, err := rt.Force(ctx, loop, n, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func runPingPong(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	ping, pong := mvar.New(), mvar.New()

	var ponger func() any
	ponger = func() any {
		return rts.Bind(mvar.Take(ping), func(v any) any {
			i := v.(int)
			if i >= n {
				return mvar.Put(pong, i)
			}
			return rts.Seq(mvar.Put(pong, i+1), ponger)
		})
	}
	var pinger func() any
	pinger = func() any {
		return rts.Bind(mvar.Take(pong), func(v any) any {
			j := v.(int)
			if j >= n {
				return j
			}
			return rts.Seq(mvar.Put(ping, j+1), pinger)
		})
	}

	start := rts.Bind(rts.Fork(rts.NewFunc(0, func([]any) any { return ponger() })), func(any) any {
		return rts.Seq(mvar.Put(ping, 0), pinger)
	})
	v, err := rt.Run(ctx, start)
	if err != nil {
		return "", err
	}
	st := rt.Scheduler().Stats()
	return fmt.Sprintf("%v (%d threads started)", v, st.Started), nil
}

func runOverflow(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	var depth func(i int) any
	depth = func(i int) any {
		if i == 0 {
			return 0
		}
		return rts.Call{
			Target: func([]any) any { return depth(i - 1) },
			Then:   func(v any) any { return v.(int) + 1 },
		}
	}
	v, err := rt.Run(ctx, depth(n))
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func runCatch(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	boom := rts.NewFunc(0, func([]any) any {
		rts.Raise(n)
		return nil
	})
	handler := rts.NewFunc(1, func(args []any) any { return args[0].(int) + 1 })
	v, err := rt.Run(ctx, rts.TryCatch(boom, handler))
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// letters lazily produces the first n lower-case letters, wrapping at z.
func letters(i, n int) any {
	return rts.NewThunk(func() any {
		if i >= n {
			return rts.NewData(1)
		}
		return rts.NewData(2, interop.ToChar(rune('a'+i%26)), letters(i+1, n))
	})
}

func shout(list any) any {
	return rts.NewThunk(func() any {
		return rts.Bind(rts.Eval(list), func(v any) any {
			cell := v.(*rts.Data)
			if cell.Tag == 1 {
				return cell
			}
			c := cell.Field(0).(*rts.Data).Field(0).(rune)
			return rts.NewData(2, interop.ToChar(c-'a'+'A'), shout(cell.Field(1)))
		})
	})
}

func runShout(ctx context.Context, rt *runtime.Runtime, n int) (string, error) {
	return rt.String(ctx, shout(letters(0, n)))
}
