// Package errors provides structured error types for the lazy-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, a detail message, the thread
// that raised it (when known) and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuffer, errors.KindOutOfBounds).
//		Path("arena", "buf#3").
//		Detail("index %d out of bounds (length %d)", 12, 8).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.StackOverflow(threadID, depth)
//	err := errors.OutOfBounds(errors.PhaseBuffer, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
