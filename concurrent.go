package fixedblock

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ConcurrentAllocator is the lock-free variant of Allocator. Allocate,
// Deallocate and Valid may be called from any number of goroutines at once.
// Each successful call changes the head word with one compare-and-swap; a
// failed swap is retried, nothing ever blocks.
//
// The head word carries an 8-bit tag that is bumped on every change, so a
// block popped and pushed back between another goroutine's load and swap makes
// that swap fail instead of corrupting the list. A stale swap can still
// succeed after exactly 256 interleaved changes; that window is accepted.
//
// CountAvailable, Size, Empty, Reset, Unbind and Move need quiescence.
type ConcurrentAllocator[I Index] struct {
	_ cpu.CacheLinePad
	freeList[I, atomic.Uint32, *atomic.Uint32]
	_ cpu.CacheLinePad
}

// NewConcurrent binds a new ConcurrentAllocator to arena.
func NewConcurrent[I Index](arena []byte, blockSize, numBlocks int) (*ConcurrentAllocator[I], error) {
	a := &ConcurrentAllocator[I]{}
	if err := a.Bind(arena, blockSize, numBlocks); err != nil {
		return nil, err
	}
	return a, nil
}

// Bind attaches arena and links its numBlocks blocks into the free list in
// ascending order. On error the allocator is left as it was.
func (a *ConcurrentAllocator[I]) Bind(arena []byte, blockSize, numBlocks int) error {
	return a.bind(arena, blockSize, numBlocks, concurrentAlignment)
}

// Move returns a new ConcurrentAllocator that owns a's arena and free list,
// leaving a unbound.
func (a *ConcurrentAllocator[I]) Move() *ConcurrentAllocator[I] {
	dst := &ConcurrentAllocator[I]{}
	a.moveTo(&dst.freeList)
	return dst
}
