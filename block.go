package fixedblock

import "unsafe"

// BlockAllocator stores both block size and block count, for slabs whose
// layout is only known at run time but never changes once bound. None of its
// calls take size arguments.
//
// The zero value is unbound and hands out nothing; use NewBlock.
type BlockAllocator[I Index] struct {
	sized     SizedAllocator[I]
	numBlocks int
}

// NewBlock binds a BlockAllocator to arena.
func NewBlock[I Index](arena []byte, blockSize, numBlocks int, opts ...Option) (*BlockAllocator[I], error) {
	b := &BlockAllocator[I]{numBlocks: numBlocks}
	if err := b.sized.init(arena, blockSize, numBlocks, buildConfig(opts)); err != nil {
		return nil, err
	}
	return b, nil
}

// BlockSize returns the size of every block in bytes.
func (b *BlockAllocator[I]) BlockSize() int {
	return b.sized.blockSize
}

// NumBlocks returns the number of blocks in the arena.
func (b *BlockAllocator[I]) NumBlocks() int {
	return b.numBlocks
}

// Allocate returns a free block, or nil when the arena is exhausted.
func (b *BlockAllocator[I]) Allocate() []byte {
	return b.sized.Allocate()
}

// AllocatePointer is Allocate returning the block address.
func (b *BlockAllocator[I]) AllocatePointer() unsafe.Pointer {
	return b.sized.allocatePointer()
}

// Deallocate returns blk to the free list.
func (b *BlockAllocator[I]) Deallocate(blk []byte) error {
	return b.sized.Deallocate(b.numBlocks, blk)
}

// DeallocatePointer returns the block at p to the free list.
func (b *BlockAllocator[I]) DeallocatePointer(p unsafe.Pointer) error {
	return b.sized.deallocatePointer(b.numBlocks, p)
}

// Valid reports whether blk starts a block of this allocator.
func (b *BlockAllocator[I]) Valid(blk []byte) bool {
	return b.sized.Valid(b.numBlocks, blk)
}

// CountAvailable walks the free list. Slow; call it only while quiescent.
func (b *BlockAllocator[I]) CountAvailable() (int, error) {
	return b.sized.CountAvailable()
}

// Size returns the number of blocks handed out.
func (b *BlockAllocator[I]) Size() (int, error) {
	return b.sized.Size(b.numBlocks)
}

// Empty reports whether no block is handed out.
func (b *BlockAllocator[I]) Empty() (bool, error) {
	return b.sized.Empty(b.numBlocks)
}

// Full reports whether every block is handed out.
func (b *BlockAllocator[I]) Full() bool {
	return b.sized.Full()
}

// Reset puts every block back on the free list.
func (b *BlockAllocator[I]) Reset() error {
	return b.sized.Reset(b.numBlocks)
}

// Index returns the block index of blk, or -1.
func (b *BlockAllocator[I]) Index(blk []byte) int {
	i := b.sized.Index(blk)
	if i >= b.numBlocks {
		return -1
	}
	return i
}

// Block returns block i, or nil if i is out of range.
func (b *BlockAllocator[I]) Block(i int) []byte {
	if i >= b.numBlocks {
		return nil
	}
	return b.sized.Block(i)
}

// Arena returns the attached arena.
func (b *BlockAllocator[I]) Arena() []byte {
	return b.sized.Arena()
}

// Unbind detaches and returns the arena. The allocator cannot be used again.
func (b *BlockAllocator[I]) Unbind() []byte {
	b.numBlocks = 0
	return b.sized.Unbind()
}

// Metrics returns a snapshot of block usage. Same caveats as CountAvailable.
func (b *BlockAllocator[I]) Metrics() (Metrics, error) {
	avail, err := b.CountAvailable()
	if err != nil {
		return Metrics{}, err
	}
	return newMetrics(b.sized.blockSize, b.numBlocks, avail), nil
}
