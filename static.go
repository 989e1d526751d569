package fixedblock

import (
	"fmt"
	"unsafe"
)

// StaticAllocator is a TypedAllocator that owns its arena. The capacity is
// fixed when it is created and the storage is handed back by Release.
// A zero StaticAllocator behaves like a released one.
type StaticAllocator[T any, I Index] struct {
	typed     TypedAllocator[T, I]
	numBlocks int
	release   func([]byte) error
}

// NewStatic allocates storage for numBlocks values of T and binds a
// StaticAllocator to it. With WithMappedStorage the storage is an anonymous
// mapping; otherwise it comes from NewArena.
func NewStatic[T any, I Index](numBlocks int, opts ...Option) (*StaticAllocator[T, I], error) {
	c := buildConfig(opts)
	if numBlocks <= 0 {
		return nil, fmt.Errorf("%w: static capacity %d", ErrInvalidArgument, numBlocks)
	}
	if err := checkPayload[T](); err != nil {
		return nil, err
	}
	if uint64(numBlocks) >= uint64(InvalidIndex[I]()) {
		return nil, fmt.Errorf("%w: %d blocks, index type addresses at most %d",
			ErrInvalidArgument, numBlocks, MaxBlocks[I]())
	}
	size := ArenaSize(sizeOf[T](), numBlocks)

	var (
		storage []byte
		release = func([]byte) error { return nil }
	)
	if c.mapped {
		b, err := MapArena(size)
		if err != nil {
			return nil, err
		}
		storage, release = b, UnmapArena
	} else {
		storage = NewArena(size)
	}

	s := &StaticAllocator[T, I]{numBlocks: numBlocks, release: release}
	if err := s.typed.init(storage, numBlocks, c); err != nil {
		_ = release(storage)
		return nil, err
	}
	return s, nil
}

// Cap returns the number of values the allocator was created for.
func (s *StaticAllocator[T, I]) Cap() int {
	return s.numBlocks
}

// BlockSize returns unsafe.Sizeof(T).
func (s *StaticAllocator[T, I]) BlockSize() int {
	return s.typed.blockSize
}

// New returns a zeroed *T, or nil when every value is in use.
func (s *StaticAllocator[T, I]) New() *T {
	return s.typed.New()
}

// Create returns a *T holding v, or nil when every value is in use.
func (s *StaticAllocator[T, I]) Create(v T) *T {
	return s.typed.Create(v)
}

// Destroy zeroes *p and returns it to the free list.
func (s *StaticAllocator[T, I]) Destroy(p *T) error {
	return s.typed.Destroy(s.numBlocks, p)
}

// Allocate returns a raw block, or nil when every block is in use.
func (s *StaticAllocator[T, I]) Allocate() []byte {
	return s.typed.Allocate()
}

// Deallocate returns a raw block to the free list.
func (s *StaticAllocator[T, I]) Deallocate(b []byte) error {
	return s.typed.Deallocate(s.numBlocks, b)
}

// Valid reports whether b starts a block of this allocator.
func (s *StaticAllocator[T, I]) Valid(b []byte) bool {
	return s.typed.Valid(s.numBlocks, b)
}

// ValidValue reports whether p points at a value of this allocator.
func (s *StaticAllocator[T, I]) ValidValue(p *T) bool {
	return s.typed.ValidValue(s.numBlocks, p)
}

// Index returns the block index of p, or -1.
func (s *StaticAllocator[T, I]) Index(p *T) int {
	if p == nil {
		return -1
	}
	return s.typed.list().Index(s.typed.blockSize, unsafe.Pointer(p))
}

// CountAvailable walks the free list. Slow; call it only while quiescent.
func (s *StaticAllocator[T, I]) CountAvailable() (int, error) {
	return s.typed.CountAvailable()
}

// Size returns the number of values handed out.
func (s *StaticAllocator[T, I]) Size() (int, error) {
	return s.typed.Size(s.numBlocks)
}

// Empty reports whether no value is handed out.
func (s *StaticAllocator[T, I]) Empty() (bool, error) {
	return s.typed.Empty(s.numBlocks)
}

// Full reports whether every value is handed out.
func (s *StaticAllocator[T, I]) Full() bool {
	return s.typed.Full()
}

// Reset puts every value back on the free list.
func (s *StaticAllocator[T, I]) Reset() error {
	if !s.typed.list().Bound() {
		return ErrReleased
	}
	return s.typed.Reset(s.numBlocks)
}

// Metrics returns a snapshot of block usage.
func (s *StaticAllocator[T, I]) Metrics() (Metrics, error) {
	if !s.typed.list().Bound() {
		return Metrics{}, ErrReleased
	}
	avail, err := s.CountAvailable()
	if err != nil {
		return Metrics{}, err
	}
	return newMetrics(s.typed.blockSize, s.numBlocks, avail), nil
}

// Release unbinds the allocator and returns its storage. Values still held
// by callers become invalid. Calling Release again is a no-op.
func (s *StaticAllocator[T, I]) Release() error {
	storage := s.typed.Unbind()
	if storage == nil {
		return nil
	}
	s.typed.logger().Debug("fixedblock: static storage released", "bytes", len(storage))
	return s.release(storage)
}
