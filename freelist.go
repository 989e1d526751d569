package fixedblock

import (
	"fmt"
	"unsafe"
)

// headWord is the surface the free list needs from its head word. The
// single-threaded allocator satisfies it with a plain integer, the concurrent
// allocator with sync/atomic.Uint32.
type headWord interface {
	Load() uint32
	Store(val uint32)
	CompareAndSwap(old, new uint32) bool
}

// plainHead is a head word without atomics.
type plainHead struct {
	v uint32
}

func (h *plainHead) Load() uint32 { return h.v }

func (h *plainHead) Store(val uint32) { h.v = val }

func (h *plainHead) CompareAndSwap(old, new uint32) bool {
	if h.v != old {
		return false
	}
	h.v = new
	return true
}

// freeList is the intrusive free list shared by Allocator and
// ConcurrentAllocator. Each free block stores the index of the next free block
// in its first IndexSize[I]() bytes; the head word holds a tag and the index of
// the first free block.
type freeList[I Index, H any, PH interface {
	*H
	headWord
}] struct {
	head   H
	blocks []byte // nil while unbound
	count  int    // blocks linked by the last bind or reset
}

func (f *freeList[I, H, PH]) word() PH {
	return PH(&f.head)
}

// checkLayout validates a bind or reset request without touching the arena.
func checkLayout[I Index](arena []byte, blockSize, numBlocks, align int) error {
	switch {
	case len(arena) == 0:
		return fmt.Errorf("%w: empty arena", ErrInvalidArgument)
	case blockSize < IndexSize[I]():
		return fmt.Errorf("%w: block size %d cannot hold a %d-byte index",
			ErrInvalidArgument, blockSize, IndexSize[I]())
	case numBlocks < 0:
		return fmt.Errorf("%w: negative block count %d", ErrInvalidArgument, numBlocks)
	case uint64(numBlocks) >= uint64(InvalidIndex[I]()):
		return fmt.Errorf("%w: %d blocks, index type addresses at most %d",
			ErrInvalidArgument, numBlocks, MaxBlocks[I]())
	case numBlocks > 0 && blockSize > len(arena)/numBlocks:
		return fmt.Errorf("%w: arena of %d bytes cannot hold %d blocks of %d bytes",
			ErrInvalidArgument, len(arena), numBlocks, blockSize)
	case !isAligned(arena, align):
		return fmt.Errorf("%w: arena at %p is not %d-byte aligned",
			ErrInvalidArgument, unsafe.SliceData(arena), align)
	}
	return nil
}

func (f *freeList[I, H, PH]) bind(arena []byte, blockSize, numBlocks, align int) error {
	if err := checkLayout[I](arena, blockSize, numBlocks, align); err != nil {
		return err
	}
	f.blocks = arena
	f.format(blockSize, numBlocks)
	return nil
}

// format chains every block in ascending order and points the head at block 0.
func (f *freeList[I, H, PH]) format(blockSize, numBlocks int) {
	invalid := InvalidIndex[I]()
	for i := 0; i < numBlocks; i++ {
		next := uint32(i + 1)
		if i == numBlocks-1 {
			next = invalid
		}
		storeLink[I](f.blocks[i*blockSize:], next)
	}
	first := uint32(0)
	if numBlocks == 0 {
		first = invalid
	}
	f.count = numBlocks
	f.word().Store(PackHead(0, first))
}

// Allocate pops the first free block and returns it as a blockSize-byte slice
// with len == cap. The contents are whatever the block held when it was freed.
// Returns nil when every block is in use or the allocator is unbound.
func (f *freeList[I, H, PH]) Allocate(blockSize int) []byte {
	if f.blocks == nil {
		return nil
	}
	invalid := InvalidIndex[I]()
	h := f.word()
	for {
		old := h.Load()
		_, idx := UnpackHead(old)
		if idx == invalid {
			return nil
		}
		off := int(idx) * blockSize
		next := loadLink[I](f.blocks[off:])
		if h.CompareAndSwap(old, nextHead(old, next)) {
			return f.blocks[off : off+blockSize : off+blockSize]
		}
	}
}

// AllocatePointer is Allocate returning the address of the block.
func (f *freeList[I, H, PH]) AllocatePointer(blockSize int) unsafe.Pointer {
	b := f.Allocate(blockSize)
	if b == nil {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b))
}

// offset returns the byte offset of p if it starts one of the first numBlocks
// blocks of the arena. numBlocks is capped at the bound block count, which
// keeps every accepted index below the sentinel.
func (f *freeList[I, H, PH]) offset(blockSize, numBlocks int, p unsafe.Pointer) (int, bool) {
	numBlocks = min(numBlocks, f.count)
	if f.blocks == nil || p == nil || blockSize <= 0 || numBlocks <= 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(f.blocks)))
	addr := uintptr(p)
	if addr < base {
		return 0, false
	}
	off := addr - base
	if off/uintptr(blockSize) >= uintptr(numBlocks) || off%uintptr(blockSize) != 0 {
		return 0, false
	}
	if off+uintptr(blockSize) > uintptr(len(f.blocks)) {
		return 0, false
	}
	return int(off), true
}

// ValidPointer reports whether p is the start of a block within the first
// numBlocks blocks. It does not mutate and is safe alongside Allocate and
// Deallocate.
func (f *freeList[I, H, PH]) ValidPointer(blockSize, numBlocks int, p unsafe.Pointer) bool {
	_, ok := f.offset(blockSize, numBlocks, p)
	return ok
}

// Valid is ValidPointer for the first byte of b.
func (f *freeList[I, H, PH]) Valid(blockSize, numBlocks int, b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return f.ValidPointer(blockSize, numBlocks, unsafe.Pointer(unsafe.SliceData(b)))
}

// DeallocatePointer pushes the block at p back onto the free list. A pointer
// outside the arena or off a block boundary returns ErrOutOfRange and changes
// nothing. Freeing a block that is already free is not detected.
func (f *freeList[I, H, PH]) DeallocatePointer(blockSize, numBlocks int, p unsafe.Pointer) error {
	off, ok := f.offset(blockSize, numBlocks, p)
	if !ok {
		return fmt.Errorf("%w: %p is not one of %d blocks of %d bytes at %p",
			ErrOutOfRange, p, numBlocks, blockSize, unsafe.SliceData(f.blocks))
	}
	idx := uint32(off / blockSize)
	link := f.blocks[off:]
	h := f.word()
	for {
		old := h.Load()
		_, first := UnpackHead(old)
		storeLink[I](link, first)
		if h.CompareAndSwap(old, nextHead(old, idx)) {
			return nil
		}
	}
}

// Deallocate is DeallocatePointer for the first byte of b.
func (f *freeList[I, H, PH]) Deallocate(blockSize, numBlocks int, b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty block", ErrOutOfRange)
	}
	return f.DeallocatePointer(blockSize, numBlocks, unsafe.Pointer(unsafe.SliceData(b)))
}

// CountAvailable walks the free list and returns its length. It is O(n) and
// only meaningful while no other goroutine allocates or deallocates.
func (f *freeList[I, H, PH]) CountAvailable(blockSize int) (int, error) {
	if f.blocks == nil {
		return 0, nil
	}
	if blockSize < IndexSize[I]() {
		return 0, fmt.Errorf("%w: block size %d cannot hold a %d-byte index",
			ErrInvalidArgument, blockSize, IndexSize[I]())
	}
	invalid, limit := InvalidIndex[I](), MaxBlocks[I]()
	_, idx := UnpackHead(f.word().Load())
	n := 0
	for idx != invalid {
		n++
		if n > limit {
			return n, fmt.Errorf("%w: walked %d links, index type addresses at most %d",
				ErrLengthExceeded, n, limit)
		}
		off := int(idx) * blockSize
		if int(idx) >= f.count || off+IndexSize[I]() > len(f.blocks) {
			return n, fmt.Errorf("%w: link to block %d, only %d blocks are bound",
				ErrLengthExceeded, idx, f.count)
		}
		idx = loadLink[I](f.blocks[off:])
	}
	return n, nil
}

// Size returns how many of numBlocks blocks are handed out. Same cost and
// caveats as CountAvailable.
func (f *freeList[I, H, PH]) Size(blockSize, numBlocks int) (int, error) {
	avail, err := f.CountAvailable(blockSize)
	if err != nil {
		return 0, err
	}
	return numBlocks - avail, nil
}

// Empty reports whether no block is handed out.
func (f *freeList[I, H, PH]) Empty(blockSize, numBlocks int) (bool, error) {
	n, err := f.Size(blockSize, numBlocks)
	return n == 0, err
}

// Full reports in O(1) whether every block is handed out.
func (f *freeList[I, H, PH]) Full() bool {
	if f.blocks == nil {
		return true
	}
	_, idx := UnpackHead(f.word().Load())
	return idx == InvalidIndex[I]()
}

// Bound reports whether an arena is attached.
func (f *freeList[I, H, PH]) Bound() bool {
	return f.blocks != nil
}

// Reset returns every block to the free list in ascending order. Blocks still
// held by callers must not be used afterwards.
func (f *freeList[I, H, PH]) Reset(blockSize, numBlocks int) error {
	if f.blocks == nil {
		return fmt.Errorf("%w: allocator is unbound", ErrInvalidArgument)
	}
	if err := checkLayout[I](f.blocks, blockSize, numBlocks, 1); err != nil {
		return err
	}
	f.format(blockSize, numBlocks)
	return nil
}

// Index returns the block index of p, or -1 if p does not start a block.
func (f *freeList[I, H, PH]) Index(blockSize int, p unsafe.Pointer) int {
	if blockSize <= 0 {
		return -1
	}
	off, ok := f.offset(blockSize, f.count, p)
	if !ok {
		return -1
	}
	return off / blockSize
}

// Block returns block i of the arena, or nil if i is not a bound block.
func (f *freeList[I, H, PH]) Block(blockSize, i int) []byte {
	if blockSize <= 0 || i < 0 || i >= f.count || (i+1)*blockSize > len(f.blocks) {
		return nil
	}
	off := i * blockSize
	return f.blocks[off : off+blockSize : off+blockSize]
}

// HeadWord returns the raw tagged head word.
func (f *freeList[I, H, PH]) HeadWord() uint32 {
	return f.word().Load()
}

// Arena returns the attached arena, or nil while unbound.
func (f *freeList[I, H, PH]) Arena() []byte {
	return f.blocks
}

// Unbind detaches and returns the arena without modifying it. The allocator
// is unbound afterwards and may be bound again.
func (f *freeList[I, H, PH]) Unbind() []byte {
	arena := f.blocks
	f.blocks = nil
	f.count = 0
	f.word().Store(PackHead(0, InvalidIndex[I]()))
	return arena
}

// moveTo hands the arena and head word to dst and unbinds f.
func (f *freeList[I, H, PH]) moveTo(dst *freeList[I, H, PH]) {
	dst.word().Store(f.word().Load())
	dst.blocks = f.blocks
	dst.count = f.count
	f.Unbind()
}
