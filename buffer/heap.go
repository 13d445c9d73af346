package buffer

import (
	"encoding/binary"

	lazyruntime "github.com/wippyai/lazy-runtime"
	"github.com/wippyai/lazy-runtime/errors"
)

// Heap is a buffer backed by a Go byte slice.
type Heap struct {
	data []byte
}

// New allocates a zeroed heap buffer of n bytes.
func New(n uint32) *Heap {
	return &Heap{data: make([]byte, n)}
}

// FromBytes wraps data without copying.
func FromBytes(data []byte) *Heap {
	return &Heap{data: data}
}

// Bytes returns the underlying slice.
func (h *Heap) Bytes() []byte { return h.data }

func (h *Heap) Len() uint32 { return uint32(len(h.data)) }

func (h *Heap) span(op string, offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(h.data)) {
		return nil, errors.OutOfBounds(errors.PhaseBuffer, []string{op}, int(end), len(h.data))
	}
	return h.data[offset:end], nil
}

func (h *Heap) Read(offset uint32, length uint32) ([]byte, error) {
	b, err := h.span("read", offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, b)
	return out, nil
}

func (h *Heap) Write(offset uint32, data []byte) error {
	b, err := h.span("write", offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (h *Heap) ReadU8(offset uint32) (uint8, error) {
	b, err := h.span("read", offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (h *Heap) ReadU16(offset uint32) (uint16, error) {
	b, err := h.span("read", offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (h *Heap) ReadU32(offset uint32) (uint32, error) {
	b, err := h.span("read", offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (h *Heap) ReadU64(offset uint32) (uint64, error) {
	b, err := h.span("read", offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (h *Heap) WriteU8(offset uint32, value uint8) error {
	b, err := h.span("write", offset, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (h *Heap) WriteU16(offset uint32, value uint16) error {
	b, err := h.span("write", offset, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (h *Heap) WriteU32(offset uint32, value uint32) error {
	b, err := h.span("write", offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (h *Heap) WriteU64(offset uint32, value uint64) error {
	b, err := h.span("write", offset, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

var _ lazyruntime.Buffer = (*Heap)(nil)
