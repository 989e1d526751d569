package fixedblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArena(t *testing.T) {
	for _, size := range []int{1, 3, 16, 24, 100, 4096, 1 << 20} {
		b := NewArena(size)
		require.Len(t, b, size)
		assert.Equal(t, size, cap(b))
		assert.True(t, isAligned(b, RequiredAlignment), "size %d at %#x", size, addrOf(b))
	}

	assert.Nil(t, NewArena(0))
	assert.Nil(t, NewArena(-1))
}

func TestMapArena(t *testing.T) {
	b, err := MapArena(8192)
	require.NoError(t, err)
	require.Len(t, b, 8192)
	assert.True(t, isAligned(b, RequiredAlignment))

	b[0], b[8191] = 1, 2
	assert.Equal(t, byte(2), b[8191])
	require.NoError(t, UnmapArena(b))
	require.NoError(t, UnmapArena(nil))

	_, err = MapArena(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		p     uintptr
		align int
		want  uintptr
	}{
		{0, 16, 0},
		{1, 16, 16},
		{15, 16, 16},
		{16, 16, 16},
		{17, 8, 24},
		{33, 1, 33},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, alignUp(tt.p, tt.align), "alignUp(%d, %d)", tt.p, tt.align)
	}
}

func TestArenaSize(t *testing.T) {
	assert.Equal(t, 1024, ArenaSize(16, 64))
	assert.Zero(t, ArenaSize(16, 0))
}

func TestRequiredAlignment(t *testing.T) {
	assert.GreaterOrEqual(t, RequiredAlignment, DefaultAlignment)
	assert.GreaterOrEqual(t, concurrentAlignment, 8)
}
