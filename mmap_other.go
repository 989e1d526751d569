//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package fixedblock

import "fmt"

// MapArena falls back to an aligned heap buffer where anonymous mappings are
// not available.
func MapArena(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: arena size %d", ErrInvalidArgument, size)
	}
	return NewArena(size), nil
}

// UnmapArena is a no-op for heap-backed arenas.
func UnmapArena(b []byte) error {
	return nil
}
