package buffer

import (
	lazyruntime "github.com/wippyai/lazy-runtime"
	"github.com/wippyai/lazy-runtime/errors"
)

// Same reports whether a and b are the same buffer.
func Same(a, b lazyruntime.Buffer) bool {
	return a == b
}

// Copy copies n bytes from src at srcOff to dst at dstOff. Overlapping
// ranges within one buffer are handled.
func Copy(src lazyruntime.Buffer, srcOff uint32, dst lazyruntime.Buffer, dstOff uint32, n uint32) error {
	if err := checkSpan("copy.src", src, srcOff, n); err != nil {
		return err
	}
	if err := checkSpan("copy.dst", dst, dstOff, n); err != nil {
		return err
	}
	data, err := src.Read(srcOff, n)
	if err != nil {
		return err
	}
	return dst.Write(dstOff, data)
}

// TextCopy copies count 16-bit code units from src to dst. Offsets are in
// code units.
func TextCopy(dst lazyruntime.Buffer, dstOff uint32, src lazyruntime.Buffer, srcOff uint32, count uint32) error {
	return Copy(src, srcOff*2, dst, dstOff*2, count*2)
}

// TextCompare compares count 16-bit code units of a and b starting at the
// given code-unit offsets. It returns -1, 0 or 1.
func TextCompare(a lazyruntime.Buffer, aOff uint32, b lazyruntime.Buffer, bOff uint32, count uint32) (int, error) {
	if err := checkSpan("compare.a", a, aOff*2, count*2); err != nil {
		return 0, err
	}
	if err := checkSpan("compare.b", b, bOff*2, count*2); err != nil {
		return 0, err
	}
	for i := uint32(0); i < count; i++ {
		x, err := a.ReadU16((aOff + i) * 2)
		if err != nil {
			return 0, err
		}
		y, err := b.ReadU16((bOff + i) * 2)
		if err != nil {
			return 0, err
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
	}
	return 0, nil
}

func checkSpan(op string, b lazyruntime.Buffer, off, n uint32) error {
	end := uint64(off) + uint64(n)
	if end > uint64(b.Len()) {
		return errors.OutOfBounds(errors.PhaseBuffer, []string{op}, int(end), int(b.Len()))
	}
	return nil
}
