// Package buffer provides byte buffers for primitive array operations.
//
// Two implementations of lazyruntime.Buffer are available. Heap buffers
// are plain Go byte slices and suit unpinned arrays. Arena buffers live
// inside a wazero linear memory, never move, and expose a stable address,
// which is what pinned arrays need when their contents are handed to
// foreign code.
//
// The typed accessors in this package (Int32, SetWideChar, ...) address
// elements by index rather than by byte offset: element i of a 32-bit view
// starts at byte 4*i. All values are little-endian.
//
// Text helpers operate on 16-bit code units, as used by UTF-16 text
// arrays.
package buffer
