// Package fixedblock implements fixed-block allocators over a caller-owned
// memory arena.
//
// # Overview
//
// A fixed-block allocator carves one pre-allocated arena into equally sized
// blocks and hands them out and takes them back in O(1). The free list lives
// inside the free blocks themselves: the first bytes of every free block hold
// the index of the next free block, so the only bookkeeping outside the arena
// is a single 32-bit head word. This is useful for:
//
//   - Object pools for one record type
//   - Slab allocators that want O(1) allocation without a lock
//   - Keeping long-lived, pointer-free records out of the garbage collector's way
//   - Memory budgets that must never grow
//
// # Basic Usage
//
//	arena := fixedblock.NewArena(64 * 1024)
//	a, err := fixedblock.NewConcurrent[uint16](arena, 64, 1024)
//	if err != nil {
//		return err
//	}
//
//	blk := a.Allocate(64) // nil when all 1024 blocks are in use
//	// use blk...
//	if err := a.Deallocate(64, 1024, blk); err != nil {
//		return err // blk was not a block of this arena
//	}
//
// # Allocator Family
//
// The base allocators take the block size (and, where needed, the block count)
// on every call:
//
//   - Allocator: single-threaded, no atomics
//   - ConcurrentAllocator: lock-free, one compare-and-swap per call
//
// The wrappers remember those parameters:
//
//   - SizedAllocator: block size fixed at construction
//   - TypedAllocator: block size is unsafe.Sizeof(T); adds New, Create, Destroy
//   - StaticAllocator: typed, and owns its storage (heap or mmap)
//   - BlockAllocator: block size and block count both stored
//
// Wrappers are lock-free by default; pass WithConcurrency(false) for the
// single-threaded base.
//
// # Index Types
//
// The type parameter I (uint8, uint16 or uint32) is the block index type. It
// decides how many bytes of each free block hold the link and how many blocks
// one arena may have:
//
//	uint8:  up to 254 blocks, 1-byte link
//	uint16: up to 65534 blocks, 2-byte link
//	uint32: up to 16777214 blocks, 4-byte link
//
// The largest value of the index width is reserved as the end-of-list
// sentinel (see InvalidIndex).
//
// # Memory Layout
//
// A freshly bound arena links its blocks in ascending order, so the first
// Allocate returns block 0. Freed blocks are reused last-in, first-out. The
// head word keeps an 8-bit tag above a 24-bit index; the tag changes on every
// allocation and deallocation (see PackHead and UnpackHead).
//
// Arenas must be aligned to RequiredAlignment. NewArena and MapArena return
// suitable buffers.
//
// # Errors
//
//   - ErrInvalidArgument: bad block size, block count, arena size or alignment
//   - ErrOutOfRange: a block handed back that does not belong to the arena
//   - ErrLengthExceeded: the free list is corrupt (found by CountAvailable)
//
// Running out of blocks is not an error: Allocate returns nil.
//
// # Important Notes
//
//   - The allocator never frees or grows the arena
//   - Freeing the same block twice corrupts the free list and is not detected
//   - CountAvailable, Size, Empty and Metrics walk the free list; call them
//     only while no other goroutine is allocating or deallocating
//   - Values stored in the arena are invisible to the garbage collector
package fixedblock
