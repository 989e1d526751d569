package fixedblock

import "errors"

var (
	// ErrInvalidArgument indicates a bind or reset precondition failed: block size
	// too small for the index type, block count reaching the sentinel, an arena
	// that is too small, or a misaligned arena.
	ErrInvalidArgument = errors.New("fixedblock: invalid argument")

	// ErrOutOfRange indicates a block handed back to the allocator does not lie
	// on a block boundary inside the arena.
	ErrOutOfRange = errors.New("fixedblock: block out of range")

	// ErrLengthExceeded indicates the free-list walk found more links than the
	// index type can address, or a link pointing outside the arena.
	ErrLengthExceeded = errors.New("fixedblock: free list length exceeded")

	// ErrReleased indicates a StaticAllocator was used after Release.
	ErrReleased = errors.New("fixedblock: storage released")
)
