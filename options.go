package fixedblock

import (
	"log/slog"
	"unsafe"
)

// Base is the per-call block-list surface of Allocator and
// ConcurrentAllocator that the wrapper types delegate to.
type Base interface {
	Bind(arena []byte, blockSize, numBlocks int) error
	Allocate(blockSize int) []byte
	AllocatePointer(blockSize int) unsafe.Pointer
	Deallocate(blockSize, numBlocks int, b []byte) error
	DeallocatePointer(blockSize, numBlocks int, p unsafe.Pointer) error
	Valid(blockSize, numBlocks int, b []byte) bool
	ValidPointer(blockSize, numBlocks int, p unsafe.Pointer) bool
	CountAvailable(blockSize int) (int, error)
	Size(blockSize, numBlocks int) (int, error)
	Empty(blockSize, numBlocks int) (bool, error)
	Full() bool
	Bound() bool
	Reset(blockSize, numBlocks int) error
	Index(blockSize int, p unsafe.Pointer) int
	Block(blockSize, i int) []byte
	HeadWord() uint32
	Arena() []byte
	Unbind() []byte
}

var (
	_ Base = (*Allocator[uint32])(nil)
	_ Base = (*ConcurrentAllocator[uint32])(nil)
)

// Option configures a wrapper allocator.
type Option func(*config)

type config struct {
	concurrent bool
	logger     *slog.Logger
	mapped     bool
}

var discardLogger = slog.New(slog.DiscardHandler)

func defaultConfig() config {
	return config{
		concurrent: true,
		logger:     discardLogger,
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithConcurrency selects the lock-free ConcurrentAllocator (the default) or,
// when disabled, the single-threaded Allocator.
func WithConcurrency(enabled bool) Option {
	return func(c *config) {
		c.concurrent = enabled
	}
}

// WithLogger sets the logger used for bind, release, exhaustion and rejected
// deallocations. Nil keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMappedStorage makes NewStatic take its storage from an anonymous memory
// mapping instead of the Go heap. Other constructors ignore it.
func WithMappedStorage() Option {
	return func(c *config) {
		c.mapped = true
	}
}

func newBase[I Index](c config) Base {
	if c.concurrent {
		return &ConcurrentAllocator[I]{}
	}
	return &Allocator[I]{}
}
