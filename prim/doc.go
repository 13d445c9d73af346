// Package prim provides mutable primitives for runtime code: MutVar, a
// single mutable cell, and Array, a boxed mutable array with frozen
// snapshots.
//
// Reads and writes are plain Go operations. They are safe without locking
// because only one logical thread runs at a time; code that mutates these
// values from outside the interpreter must not do so while a scheduler is
// draining.
//
// AtomicModify is the one operation that runs runtime code and therefore
// returns a control object rather than a value.
package prim
