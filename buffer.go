package lazyruntime

// Buffer is a mutable byte array addressed by byte offset. Multi-byte
// values are little-endian.
type Buffer interface {
	Len() uint32
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// Pinned is a Buffer with a fixed address that host code may hold on to.
type Pinned interface {
	Buffer
	Addr() uint32
}
