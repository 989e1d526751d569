package fixedblock

import (
	"encoding/binary"
	"unsafe"
)

// Index is the set of integer types usable as block indices. The width of the
// index bounds how many blocks one allocator can manage and how many bytes of
// each free block are used for the free-list link.
type Index interface {
	~uint8 | ~uint16 | ~uint32
}

// Head word layout: tag in the high byte, free-list head index below it.
const (
	tagBits   = 8
	indexBits = 32 - tagBits

	headIndexMask = 1<<indexBits - 1
)

// IndexSize returns the number of bytes of a free block used for its link.
func IndexSize[I Index]() int {
	var zero I
	return int(unsafe.Sizeof(zero))
}

// IndexBits returns the number of index bits a head word carries for I.
func IndexBits[I Index]() int {
	bits := 8 * IndexSize[I]()
	if bits > indexBits {
		bits = indexBits
	}
	return bits
}

// InvalidIndex returns the reserved end-of-list index for I: all ones in the
// index width. It is never a valid block index.
func InvalidIndex[I Index]() uint32 {
	return 1<<IndexBits[I]() - 1
}

// MaxBlocks returns the largest block count an allocator indexed by I accepts.
func MaxBlocks[I Index]() int {
	return int(InvalidIndex[I]()) - 1
}

// PackHead combines a tag and a free-list head index into a head word.
func PackHead(tag uint8, index uint32) uint32 {
	return uint32(tag)<<indexBits | index&headIndexMask
}

// UnpackHead splits a head word into its tag and index.
func UnpackHead(word uint32) (tag uint8, index uint32) {
	return uint8(word >> indexBits), word & headIndexMask
}

// nextHead returns the head word following old with the given index.
func nextHead(old, index uint32) uint32 {
	tag, _ := UnpackHead(old)
	return PackHead(tag+1, index)
}

// loadLink reads the next-index stored in the first bytes of a free block.
func loadLink[I Index](b []byte) uint32 {
	switch IndexSize[I]() {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(binary.NativeEndian.Uint16(b))
	default:
		return binary.NativeEndian.Uint32(b)
	}
}

// storeLink writes next into the first bytes of a free block.
func storeLink[I Index](b []byte, next uint32) {
	switch IndexSize[I]() {
	case 1:
		b[0] = byte(next)
	case 2:
		binary.NativeEndian.PutUint16(b, uint16(next))
	default:
		binary.NativeEndian.PutUint32(b, next)
	}
}
