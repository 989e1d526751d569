package fixedblock

// Allocator hands out fixed-size blocks of a caller-owned arena in O(1).
// It uses no atomics and must not be shared between goroutines without
// external locking; use ConcurrentAllocator for that.
//
// Block size and block count are passed on each call, exactly as they were
// given to Bind. The wrapper types (SizedAllocator, TypedAllocator,
// StaticAllocator, BlockAllocator) remember them instead.
//
// The zero value is unbound. An Allocator must not be copied; use Move.
type Allocator[I Index] struct {
	_ noCopy
	freeList[I, plainHead, *plainHead]
}

// New binds a new Allocator to arena.
func New[I Index](arena []byte, blockSize, numBlocks int) (*Allocator[I], error) {
	a := &Allocator[I]{}
	if err := a.Bind(arena, blockSize, numBlocks); err != nil {
		return nil, err
	}
	return a, nil
}

// Bind attaches arena and links its numBlocks blocks into the free list in
// ascending order. On error the allocator is left as it was.
func (a *Allocator[I]) Bind(arena []byte, blockSize, numBlocks int) error {
	return a.bind(arena, blockSize, numBlocks, RequiredAlignment)
}

// Move returns a new Allocator that owns a's arena and free list, leaving a
// unbound.
func (a *Allocator[I]) Move() *Allocator[I] {
	dst := &Allocator[I]{}
	a.moveTo(&dst.freeList)
	return dst
}

// noCopy trips go vet's copylocks check on structs that embed it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
