// Package rts is the execution core of the lazy runtime: the closure call
// protocol, the trampoline interpreter, the cooperative scheduler and the
// stack-encoded exception mechanism.
//
// # Closures
//
// Every callable runtime value implements Closure. There are four shapes:
//
//	Func   fixed arity n, Evaluate consumes exactly n arguments
//	Thunk  arity 0, evaluated at most once, result memoized in place
//	Pap    partial application: target closure + saved arguments
//	Data   constructor tag + fields, always evaluated
//
// Apply adapts any number of arguments to any arity: exact calls jump,
// over-application calls and re-applies the result, under-application
// builds a Pap.
//
// # Control objects
//
// Code never calls other closures on the Go stack. It returns a control
// object describing what should happen next:
//
//	Jump        tail call, no frame pushed
//	Call        push a return handler, then call
//	Result      deliver a value to the nearest return handler
//	Catch       push an exception handler, then continue
//	WithThread  receive the running *Thread
//	Suspend     park the thread (optionally with a resume handler)
//	Yield       requeue the thread behind the other runnable threads
//
// Any other value returned by an Entry is treated as a Result.
//
// # Threads and the scheduler
//
// A Thread owns an explicit frame stack bounded by Config.MaxStackDepth.
// The Scheduler keeps a FIFO run queue and runs exactly one thread at a
// time until it finishes or parks, so the state shared between threads
// (MVar slots, thunk cells) needs no locking.
//
//	s := rts.NewScheduler()
//	v, err := s.Force(ctx, fib, 25)
//
// # Exceptions
//
// Raise panics with the thrown value; the interpreter recovers it and
// unwinds frames until one carries an exception handler (see TryCatch).
// An uncaught value ends the thread in the Threw state and is re-raised
// in every thread joining it. Frame stack overflow and protocol
// violations are fatal: they end the thread without consulting any
// handler.
package rts
