package fixedblock

import "unsafe"

// DefaultAlignment is the configured minimum alignment of an arena base.
const DefaultAlignment = 16

// RequiredAlignment is the alignment every arena base must satisfy: the larger
// of the natural pointer alignment and DefaultAlignment.
const RequiredAlignment = max(int(unsafe.Alignof(uintptr(0))), DefaultAlignment)

// concurrentAlignment leaves the low three bits of the arena base clear.
const concurrentAlignment = max(RequiredAlignment, 8)

// NewArena returns a size-byte buffer from the Go heap whose base satisfies
// RequiredAlignment. Returns nil if size <= 0.
func NewArena(size int) []byte {
	if size <= 0 {
		return nil
	}
	buf := make([]byte, size+RequiredAlignment)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	off := int(alignUp(base, RequiredAlignment) - base)
	return buf[off : off+size : off+size]
}

// ArenaSize returns the number of bytes numBlocks blocks of blockSize occupy.
func ArenaSize(blockSize, numBlocks int) int {
	return blockSize * numBlocks
}

// alignUp rounds p up to a multiple of align, which must be a power of two.
func alignUp(p uintptr, align int) uintptr {
	mask := uintptr(align) - 1
	return (p + mask) & ^mask
}

// isAligned reports whether the first byte of b sits on an align boundary.
func isAligned(b []byte, align int) bool {
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return p&(uintptr(align)-1) == 0
}
