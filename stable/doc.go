// Package stable implements stable pointers: 32-bit handles that name host
// values for as long as they are registered.
//
// Runtime values are Go values that can move between Data fields, thunks
// and threads freely, but some consumers can only hold integers. A byte
// buffer slot or a callback registered with host code needs a handle
// that survives independently of the value it names. A Table hands out
// such handles.
//
// # Handles
//
// Ptr 0 is never issued and always invalid. Freed handles are reused
// in LIFO order, so a stale Ptr may later name a different value; callers
// own the lifetime discipline just like with C stable pointers.
//
// # Concurrency
//
// Unlike the rest of the runtime, a Table may be shared with host
// goroutines outside the scheduler, so all operations are guarded by a
// mutex. Observers are invoked synchronously after the table lock is
// released.
//
// # Releasing values
//
// A value that implements Releaser is notified when its handle is freed
// or when the table is closed.
package stable
