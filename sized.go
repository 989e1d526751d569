package fixedblock

import (
	"log/slog"
	"unsafe"
)

// SizedAllocator fixes the block size at construction. The block count is
// still passed to the calls that need it.
//
// The zero value is unbound: Allocate returns nil and Deallocate reports
// ErrOutOfRange. Use NewSized to get a working allocator.
type SizedAllocator[I Index] struct {
	base      Base
	blockSize int
	log       *slog.Logger
}

// NewSized binds a SizedAllocator to arena. By default the free list is the
// lock-free one; see WithConcurrency.
func NewSized[I Index](arena []byte, blockSize, numBlocks int, opts ...Option) (*SizedAllocator[I], error) {
	s := &SizedAllocator[I]{}
	if err := s.init(arena, blockSize, numBlocks, buildConfig(opts)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SizedAllocator[I]) init(arena []byte, blockSize, numBlocks int, c config) error {
	base := newBase[I](c)
	if err := base.Bind(arena, blockSize, numBlocks); err != nil {
		return err
	}
	s.base, s.blockSize, s.log = base, blockSize, c.logger
	s.logger().Debug("fixedblock: arena bound",
		"block_size", blockSize, "num_blocks", numBlocks, "concurrent", c.concurrent)
	return nil
}

// list returns the bound free list, or an unbound one for the zero value.
func (s *SizedAllocator[I]) list() Base {
	if s.base == nil {
		return &Allocator[I]{}
	}
	return s.base
}

func (s *SizedAllocator[I]) logger() *slog.Logger {
	if s.log == nil {
		return discardLogger
	}
	return s.log
}

// BlockSize returns the size of every block in bytes.
func (s *SizedAllocator[I]) BlockSize() int {
	return s.blockSize
}

// Allocate returns a free block, or nil when the arena is exhausted.
func (s *SizedAllocator[I]) Allocate() []byte {
	b := s.list().Allocate(s.blockSize)
	if b == nil {
		s.logger().Debug("fixedblock: arena exhausted", "block_size", s.blockSize)
	}
	return b
}

func (s *SizedAllocator[I]) allocatePointer() unsafe.Pointer {
	p := s.list().AllocatePointer(s.blockSize)
	if p == nil {
		s.logger().Debug("fixedblock: arena exhausted", "block_size", s.blockSize)
	}
	return p
}

// Deallocate returns b to the free list.
func (s *SizedAllocator[I]) Deallocate(numBlocks int, b []byte) error {
	if err := s.list().Deallocate(s.blockSize, numBlocks, b); err != nil {
		s.logger().Warn("fixedblock: deallocation rejected", "error", err)
		return err
	}
	return nil
}

func (s *SizedAllocator[I]) deallocatePointer(numBlocks int, p unsafe.Pointer) error {
	if err := s.list().DeallocatePointer(s.blockSize, numBlocks, p); err != nil {
		s.logger().Warn("fixedblock: deallocation rejected", "error", err)
		return err
	}
	return nil
}

// Valid reports whether b starts one of the first numBlocks blocks.
func (s *SizedAllocator[I]) Valid(numBlocks int, b []byte) bool {
	return s.list().Valid(s.blockSize, numBlocks, b)
}

// CountAvailable walks the free list. Slow; call it only while quiescent.
func (s *SizedAllocator[I]) CountAvailable() (int, error) {
	return s.list().CountAvailable(s.blockSize)
}

// Size returns the number of blocks handed out.
func (s *SizedAllocator[I]) Size(numBlocks int) (int, error) {
	return s.list().Size(s.blockSize, numBlocks)
}

// Empty reports whether no block is handed out.
func (s *SizedAllocator[I]) Empty(numBlocks int) (bool, error) {
	return s.list().Empty(s.blockSize, numBlocks)
}

// Full reports whether every block is handed out.
func (s *SizedAllocator[I]) Full() bool {
	return s.list().Full()
}

// Reset puts every block back on the free list.
func (s *SizedAllocator[I]) Reset(numBlocks int) error {
	if err := s.list().Reset(s.blockSize, numBlocks); err != nil {
		return err
	}
	s.logger().Debug("fixedblock: free list reset", "block_size", s.blockSize, "num_blocks", numBlocks)
	return nil
}

// Index returns the block index of b, or -1.
func (s *SizedAllocator[I]) Index(b []byte) int {
	if len(b) == 0 {
		return -1
	}
	return s.list().Index(s.blockSize, unsafe.Pointer(unsafe.SliceData(b)))
}

// Block returns block i, or nil if i is out of range.
func (s *SizedAllocator[I]) Block(i int) []byte {
	return s.list().Block(s.blockSize, i)
}

// Arena returns the attached arena.
func (s *SizedAllocator[I]) Arena() []byte {
	return s.list().Arena()
}

// Unbind detaches and returns the arena.
func (s *SizedAllocator[I]) Unbind() []byte {
	return s.list().Unbind()
}
