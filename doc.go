// Package lazyruntime is the runtime core for lazily evaluated, closure
// based programs: a trampoline interpreter, a cooperative scheduler and
// the primitives compiled code needs at run time.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	lazyruntime/         Root package with the Buffer interface
//	├── runtime/         High-level facade bundling the pieces below
//	├── rts/             Closures, thunks, control objects, threads, scheduler
//	├── mvar/            Single-slot synchronizing variables
//	├── prim/            Mutable cells and boxed arrays
//	├── buffer/          Byte buffers on the Go heap and in pinned arenas
//	├── numeric/         32-bit word arithmetic helpers
//	├── stable/          Stable pointer handle table
//	├── interop/         Conversions between runtime and Go values
//	├── loader/          Module registration and dependency-ordered init
//	├── logsink/         Severity-tagged log sinks
//	├── config/          CUE configuration files
//	├── errors/          Structured error types for debugging
//	└── cmd/lazyrt/      Demo runner with an interactive TUI
//
// # Quick Start
//
// Evaluate a closure to completion:
//
//	rt, err := runtime.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	double := rts.NewFunc(1, func(args []any) any {
//	    return args[0].(int) * 2
//	})
//	v, err := rt.Force(ctx, double, 21)
//	fmt.Println(v) // 42
//
// # Evaluation Model
//
// Runtime code never calls other runtime code directly. A closure body
// returns a control object describing what should happen next (a tail
// jump, a call with a continuation, a result, a handler installation or a
// suspension) and the interpreter loop of the current logical thread acts
// on it. Deep recursion therefore grows an explicit frame stack, bounded
// by rts.Config.MaxStackDepth, instead of the Go stack.
//
// # Thread Safety
//
// A Scheduler and everything it runs belong to one goroutine. Logical
// threads interleave cooperatively on that goroutine and never run in
// parallel, so thunks, MVars and mutable cells need no locks. The stable
// pointer table, the module loader and buffer arenas are safe for
// concurrent use.
package lazyruntime
