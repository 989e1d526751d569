package fixedblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexWidths(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		bits      int
		invalid   uint32
		maxBlocks int
		gotSize   func() int
		gotBits   func() int
		gotInv    func() uint32
		gotMax    func() int
	}{
		{"uint8", 1, 8, 0xFF, 254, IndexSize[uint8], IndexBits[uint8], InvalidIndex[uint8], MaxBlocks[uint8]},
		{"uint16", 2, 16, 0xFFFF, 65534, IndexSize[uint16], IndexBits[uint16], InvalidIndex[uint16], MaxBlocks[uint16]},
		{"uint32", 4, 24, 0xFFFFFF, 1<<24 - 2, IndexSize[uint32], IndexBits[uint32], InvalidIndex[uint32], MaxBlocks[uint32]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.gotSize())
			assert.Equal(t, tt.bits, tt.gotBits())
			assert.Equal(t, tt.invalid, tt.gotInv())
			assert.Equal(t, tt.maxBlocks, tt.gotMax())
		})
	}
}

type blockID uint16

func TestIndexNamedType(t *testing.T) {
	assert.Equal(t, 2, IndexSize[blockID]())
	assert.Equal(t, uint32(0xFFFF), InvalidIndex[blockID]())
}

func TestPackHead(t *testing.T) {
	tests := []struct {
		tag   uint8
		index uint32
		word  uint32
	}{
		{0, 0, 0x00000000},
		{1, 0, 0x01000000},
		{0xAB, 0x123456, 0xAB123456},
		{0xFF, 0xFFFFFF, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		word := PackHead(tt.tag, tt.index)
		assert.Equal(t, tt.word, word, "PackHead(%d, %#x)", tt.tag, tt.index)

		tag, index := UnpackHead(word)
		assert.Equal(t, tt.tag, tag)
		assert.Equal(t, tt.index, index)
	}

	// index bits above the field are dropped
	_, index := UnpackHead(PackHead(3, 0x1FFFFFF))
	assert.Equal(t, uint32(0xFFFFFF), index)
}

func TestNextHeadTagWraps(t *testing.T) {
	tag, index := UnpackHead(nextHead(PackHead(0xFF, 5), 7))
	assert.Equal(t, uint8(0), tag)
	assert.Equal(t, uint32(7), index)

	tag, _ = UnpackHead(nextHead(PackHead(41, 5), 9))
	assert.Equal(t, uint8(42), tag)
}

func TestLinkWidth(t *testing.T) {
	fill := func() []byte {
		b := make([]byte, 8)
		for i := range b {
			b[i] = 0xAA
		}
		return b
	}

	b := fill()
	storeLink[uint8](b, 0x12)
	assert.Equal(t, uint32(0x12), loadLink[uint8](b))
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}, b[1:])

	b = fill()
	storeLink[uint16](b, 0x1234)
	assert.Equal(t, uint32(0x1234), loadLink[uint16](b))
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}, b[2:])

	b = fill()
	storeLink[uint32](b, 0xFFFFFF)
	assert.Equal(t, uint32(0xFFFFFF), loadLink[uint32](b))
	require.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA}, b[4:])
}
