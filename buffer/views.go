package buffer

import (
	"math"

	lazyruntime "github.com/wippyai/lazy-runtime"
	"github.com/wippyai/lazy-runtime/errors"
	"github.com/wippyai/lazy-runtime/stable"
)

// elem converts element index i of a size-byte view to a byte offset.
func elem(b lazyruntime.Buffer, i int, size uint32) (uint32, error) {
	off := uint64(i) * uint64(size)
	if i < 0 || off+uint64(size) > uint64(b.Len()) {
		return 0, errors.OutOfBounds(errors.PhaseBuffer, []string{"index"}, i, int(b.Len()/size))
	}
	return uint32(off), nil
}

func Int8(b lazyruntime.Buffer, i int) (int8, error) {
	v, err := Word8(b, i)
	return int8(v), err
}

func Int16(b lazyruntime.Buffer, i int) (int16, error) {
	v, err := Word16(b, i)
	return int16(v), err
}

func Int32(b lazyruntime.Buffer, i int) (int32, error) {
	v, err := Word32(b, i)
	return int32(v), err
}

func Int64(b lazyruntime.Buffer, i int) (int64, error) {
	v, err := Word64(b, i)
	return int64(v), err
}

func Word8(b lazyruntime.Buffer, i int) (uint8, error) {
	off, err := elem(b, i, 1)
	if err != nil {
		return 0, err
	}
	return b.ReadU8(off)
}

func Word16(b lazyruntime.Buffer, i int) (uint16, error) {
	off, err := elem(b, i, 2)
	if err != nil {
		return 0, err
	}
	return b.ReadU16(off)
}

func Word32(b lazyruntime.Buffer, i int) (uint32, error) {
	off, err := elem(b, i, 4)
	if err != nil {
		return 0, err
	}
	return b.ReadU32(off)
}

func Word64(b lazyruntime.Buffer, i int) (uint64, error) {
	off, err := elem(b, i, 8)
	if err != nil {
		return 0, err
	}
	return b.ReadU64(off)
}

func Float32(b lazyruntime.Buffer, i int) (float32, error) {
	v, err := Word32(b, i)
	return math.Float32frombits(v), err
}

func Float64(b lazyruntime.Buffer, i int) (float64, error) {
	v, err := Word64(b, i)
	return math.Float64frombits(v), err
}

// Char reads an 8-bit character.
func Char(b lazyruntime.Buffer, i int) (rune, error) {
	v, err := Word8(b, i)
	return rune(v), err
}

// WideChar reads a 32-bit character.
func WideChar(b lazyruntime.Buffer, i int) (rune, error) {
	v, err := Word32(b, i)
	return rune(v), err
}

// StablePtr reads a stable pointer handle stored as a 32-bit word.
func StablePtr(b lazyruntime.Buffer, i int) (stable.Ptr, error) {
	v, err := Word32(b, i)
	return stable.Ptr(v), err
}

func SetInt8(b lazyruntime.Buffer, i int, v int8) error   { return SetWord8(b, i, uint8(v)) }
func SetInt16(b lazyruntime.Buffer, i int, v int16) error { return SetWord16(b, i, uint16(v)) }
func SetInt32(b lazyruntime.Buffer, i int, v int32) error { return SetWord32(b, i, uint32(v)) }
func SetInt64(b lazyruntime.Buffer, i int, v int64) error { return SetWord64(b, i, uint64(v)) }

func SetWord8(b lazyruntime.Buffer, i int, v uint8) error {
	off, err := elem(b, i, 1)
	if err != nil {
		return err
	}
	return b.WriteU8(off, v)
}

func SetWord16(b lazyruntime.Buffer, i int, v uint16) error {
	off, err := elem(b, i, 2)
	if err != nil {
		return err
	}
	return b.WriteU16(off, v)
}

func SetWord32(b lazyruntime.Buffer, i int, v uint32) error {
	off, err := elem(b, i, 4)
	if err != nil {
		return err
	}
	return b.WriteU32(off, v)
}

func SetWord64(b lazyruntime.Buffer, i int, v uint64) error {
	off, err := elem(b, i, 8)
	if err != nil {
		return err
	}
	return b.WriteU64(off, v)
}

func SetFloat32(b lazyruntime.Buffer, i int, v float32) error {
	return SetWord32(b, i, math.Float32bits(v))
}

func SetFloat64(b lazyruntime.Buffer, i int, v float64) error {
	return SetWord64(b, i, math.Float64bits(v))
}

// SetChar stores c as an 8-bit character. Characters above U+00FF do not
// fit and are rejected.
func SetChar(b lazyruntime.Buffer, i int, c rune) error {
	if c < 0 || c > 0xFF {
		return errors.InvalidInput(errors.PhaseBuffer, "character does not fit in 8 bits")
	}
	return SetWord8(b, i, uint8(c))
}

// SetWideChar stores c as a 32-bit character.
func SetWideChar(b lazyruntime.Buffer, i int, c rune) error {
	return SetWord32(b, i, uint32(c))
}

// SetStablePtr stores a stable pointer handle as a 32-bit word.
func SetStablePtr(b lazyruntime.Buffer, i int, p stable.Ptr) error {
	return SetWord32(b, i, uint32(p))
}
