package rts

// Entry is the code pointer of a closure or primitive: it receives its
// arguments and returns the next control object, or a plain value which
// the interpreter treats as a Result.
type Entry func(args []any) any

// Continuation receives the value a frame is waiting on.
type Continuation func(v any) any

// Handler receives a raised exception value.
type Handler func(exc any) any

// Control is a description of the next interpreter action. The set of
// implementations is closed: Jump, Call, Result, Catch, WithThread,
// Suspend and Yield.
type Control interface {
	control()
}

// Jump transfers to Target without pushing a frame (tail call).
type Jump struct {
	Target Entry
	Args   []any
}

// Call pushes Then as a return handler, then transfers to Target.
type Call struct {
	Target Entry
	Args   []any
	Then   Continuation
}

// Result delivers Value to the nearest return handler.
type Result struct {
	Value any
}

// Catch pushes Handler as an exception frame and continues with Next.
type Catch struct {
	Next    any
	Handler Handler
}

// WithThread hands the running thread to Fn.
type WithThread struct {
	Fn func(t *Thread) any
}

// Suspend parks the running thread. Resume, when set, becomes a return
// handler that receives the value the thread is rescheduled with.
type Suspend struct {
	Resume Continuation
}

// Yield requeues the running thread behind every runnable thread and
// continues with Next when it comes around again.
type Yield struct {
	Next any
}

func (Jump) control()       {}
func (Call) control()       {}
func (Result) control()     {}
func (Catch) control()      {}
func (WithThread) control() {}
func (Suspend) control()    {}
func (Yield) control()      {}

// Return wraps v as a Result. Useful as a Continuation or Entry tail.
func Return(v any) any {
	return Result{Value: v}
}
