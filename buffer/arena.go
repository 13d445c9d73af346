package buffer

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	lazyruntime "github.com/wippyai/lazy-runtime"
	"github.com/wippyai/lazy-runtime/errors"
)

const (
	pageSize = 65536

	// arenaBase keeps address 0 unused so it can act as a null address.
	arenaBase = 8

	arenaModuleName = "lazyrt-arena"
)

// ArenaConfig holds configuration for arena creation
type ArenaConfig struct {
	// Logger receives growth and reset events. nil selects the package logger.
	Logger *zap.Logger

	// InitialPages is the memory size at creation in 64KiB pages.
	// 0 means 1 page.
	InitialPages uint32

	// MaxPages caps growth. 0 means 256 pages (16MiB).
	MaxPages uint32
}

// Arena allocates pinned buffers inside a wazero linear memory. Buffers
// are bump allocated and released together by Reset or Close.
type Arena struct {
	log     *zap.Logger
	runtime wazero.Runtime
	module  api.Module
	mem     api.Memory
	next    uint32
	gen     uint64
	max     uint32
	mu      sync.Mutex
	closed  bool
}

// NewArena creates an arena with default configuration.
func NewArena(ctx context.Context) (*Arena, error) {
	return NewArenaWithConfig(ctx, nil)
}

// NewArenaWithConfig creates an arena backed by a fresh wazero runtime
// holding a single exported memory.
func NewArenaWithConfig(ctx context.Context, cfg *ArenaConfig) (*Arena, error) {
	var c ArenaConfig
	if cfg != nil {
		c = *cfg
	}
	if c.InitialPages == 0 {
		c.InitialPages = 1
	}
	if c.MaxPages == 0 {
		c.MaxPages = 256
	}
	if c.InitialPages > c.MaxPages {
		return nil, errors.InvalidInput(errors.PhaseBuffer,
			fmt.Sprintf("initial pages %d exceed max pages %d", c.InitialPages, c.MaxPages))
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(c.MaxPages))
	compiled, err := rt.CompileModule(ctx, memoryModule(c.InitialPages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseBuffer, errors.KindAllocation, err, "compile arena module")
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(arenaModuleName))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseBuffer, errors.KindAllocation, err, "instantiate arena module")
	}
	mem := mod.ExportedMemory("mem")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.NilPointer(errors.PhaseBuffer, []string{"arena"}, "exported memory")
	}

	return &Arena{
		log:     c.Logger,
		runtime: rt,
		module:  mod,
		mem:     mem,
		next:    arenaBase,
		max:     c.MaxPages,
	}, nil
}

// memoryModule encodes a minimal WebAssembly module that exports one
// memory named "mem" with the given initial size and no declared maximum.
func memoryModule(pages uint32) []byte {
	b := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	limits := append([]byte{0x01, 0x00}, uleb128(pages)...)
	b = append(b, 0x05)
	b = append(b, uleb128(uint32(len(limits)))...)
	b = append(b, limits...)

	export := []byte{0x01, 0x03, 'm', 'e', 'm', 0x02, 0x00}
	b = append(b, 0x07)
	b = append(b, uleb128(uint32(len(export)))...)
	return append(b, export...)
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		out = append(out, c)
		if v == 0 {
			return out
		}
	}
}

// Alloc returns a zeroed pinned buffer of size bytes aligned to align,
// which must be a power of two (0 means 8). The memory grows as needed.
func (a *Arena) Alloc(size, align uint32) (*ArenaBuffer, error) {
	if align == 0 {
		align = 8
	}
	if align&(align-1) != 0 {
		return nil, errors.InvalidInput(errors.PhaseBuffer, fmt.Sprintf("alignment %d is not a power of two", align))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, errors.Closed(errors.PhaseBuffer, "arena")
	}

	start := (uint64(a.next) + uint64(align) - 1) &^ (uint64(align) - 1)
	end := start + uint64(size)
	if end > uint64(a.max)*pageSize {
		return nil, errors.AllocationFailed(errors.PhaseBuffer, size, align)
	}
	if end > uint64(a.mem.Size()) {
		need := uint32((end - uint64(a.mem.Size()) + pageSize - 1) / pageSize)
		prev, ok := a.mem.Grow(need)
		if !ok {
			return nil, errors.AllocationFailed(errors.PhaseBuffer, size, align)
		}
		a.log.Debug("arena grown", zap.Uint32("from_pages", prev), zap.Uint32("delta_pages", need))
	}

	// Memory handed out after a Reset may hold stale bytes.
	if size > 0 {
		view, _ := a.mem.Read(uint32(start), size)
		clear(view)
	}
	a.next = uint32(end)
	return &ArenaBuffer{arena: a, addr: uint32(start), size: size, gen: a.gen}, nil
}

// Used returns the number of bytes handed out, including alignment
// padding and the reserved null area.
func (a *Arena) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// Pages returns the current memory size in pages.
func (a *Arena) Pages() uint32 {
	return a.mem.Size() / pageSize
}

// Reset releases every buffer at once. Buffers allocated before the reset
// fail all further operations.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = arenaBase
	a.gen++
	a.log.Debug("arena reset", zap.Uint64("generation", a.gen))
}

// Close releases the wazero runtime backing the arena.
func (a *Arena) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.gen++
	a.mu.Unlock()

	return a.runtime.Close(ctx)
}

// ArenaBuffer is a pinned buffer inside an Arena.
type ArenaBuffer struct {
	arena *Arena
	addr  uint32
	size  uint32
	gen   uint64
}

// Addr returns the buffer's address in the arena memory.
func (b *ArenaBuffer) Addr() uint32 { return b.addr }

func (b *ArenaBuffer) Len() uint32 { return b.size }

// at validates an access and returns the absolute address.
func (b *ArenaBuffer) at(op string, offset, length uint32) (uint32, error) {
	b.arena.mu.Lock()
	stale := b.gen != b.arena.gen
	b.arena.mu.Unlock()
	if stale {
		return 0, errors.Closed(errors.PhaseBuffer, "arena buffer")
	}
	end := uint64(offset) + uint64(length)
	if end > uint64(b.size) {
		return 0, errors.OutOfBounds(errors.PhaseBuffer, []string{op}, int(end), int(b.size))
	}
	return b.addr + offset, nil
}

func (b *ArenaBuffer) Read(offset uint32, length uint32) ([]byte, error) {
	addr, err := b.at("read", offset, length)
	if err != nil {
		return nil, err
	}
	view, ok := b.arena.mem.Read(addr, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseBuffer, []string{"read"}, int(addr), int(b.arena.mem.Size()))
	}
	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

func (b *ArenaBuffer) Write(offset uint32, data []byte) error {
	addr, err := b.at("write", offset, uint32(len(data)))
	if err != nil {
		return err
	}
	if !b.arena.mem.Write(addr, data) {
		return errors.OutOfBounds(errors.PhaseBuffer, []string{"write"}, int(addr), int(b.arena.mem.Size()))
	}
	return nil
}

func (b *ArenaBuffer) ReadU8(offset uint32) (uint8, error) {
	addr, err := b.at("read", offset, 1)
	if err != nil {
		return 0, err
	}
	v, _ := b.arena.mem.ReadByte(addr)
	return v, nil
}

func (b *ArenaBuffer) ReadU16(offset uint32) (uint16, error) {
	addr, err := b.at("read", offset, 2)
	if err != nil {
		return 0, err
	}
	v, _ := b.arena.mem.ReadUint16Le(addr)
	return v, nil
}

func (b *ArenaBuffer) ReadU32(offset uint32) (uint32, error) {
	addr, err := b.at("read", offset, 4)
	if err != nil {
		return 0, err
	}
	v, _ := b.arena.mem.ReadUint32Le(addr)
	return v, nil
}

func (b *ArenaBuffer) ReadU64(offset uint32) (uint64, error) {
	addr, err := b.at("read", offset, 8)
	if err != nil {
		return 0, err
	}
	v, _ := b.arena.mem.ReadUint64Le(addr)
	return v, nil
}

func (b *ArenaBuffer) WriteU8(offset uint32, value uint8) error {
	addr, err := b.at("write", offset, 1)
	if err != nil {
		return err
	}
	b.arena.mem.WriteByte(addr, value)
	return nil
}

func (b *ArenaBuffer) WriteU16(offset uint32, value uint16) error {
	addr, err := b.at("write", offset, 2)
	if err != nil {
		return err
	}
	b.arena.mem.WriteUint16Le(addr, value)
	return nil
}

func (b *ArenaBuffer) WriteU32(offset uint32, value uint32) error {
	addr, err := b.at("write", offset, 4)
	if err != nil {
		return err
	}
	b.arena.mem.WriteUint32Le(addr, value)
	return nil
}

func (b *ArenaBuffer) WriteU64(offset uint32, value uint64) error {
	addr, err := b.at("write", offset, 8)
	if err != nil {
		return err
	}
	b.arena.mem.WriteUint64Le(addr, value)
	return nil
}

var _ lazyruntime.Pinned = (*ArenaBuffer)(nil)
