//go:build linux || darwin || freebsd || netbsd || openbsd

package fixedblock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MapArena returns a size-byte anonymous private mapping. The mapping is page
// aligned, lives outside the Go heap and must be returned with UnmapArena.
func MapArena(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: arena size %d", ErrInvalidArgument, size)
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return b, nil
}

// UnmapArena releases a mapping obtained from MapArena.
func UnmapArena(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
