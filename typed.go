package fixedblock

import (
	"fmt"
	"reflect"
	"unsafe"
)

// TypedAllocator hands out blocks of exactly unsafe.Sizeof(T) bytes as *T.
//
// The arena is a []byte, so the garbage collector does not scan values stored
// in it. T must therefore hold no Go pointers (pointers, slices, strings,
// maps, channels, funcs or interfaces); NewTyped rejects such types.
//
// The zero value is unbound: New returns nil.
type TypedAllocator[T any, I Index] struct {
	SizedAllocator[I]
}

// NewTyped binds a TypedAllocator for numBlocks values of T to arena.
func NewTyped[T any, I Index](arena []byte, numBlocks int, opts ...Option) (*TypedAllocator[T, I], error) {
	t := &TypedAllocator[T, I]{}
	if err := t.init(arena, numBlocks, buildConfig(opts)); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TypedAllocator[T, I]) init(arena []byte, numBlocks int, c config) error {
	if err := checkPayload[T](); err != nil {
		return err
	}
	return t.SizedAllocator.init(arena, sizeOf[T](), numBlocks, c)
}

// New returns a zeroed *T from the arena, or nil when it is exhausted.
func (t *TypedAllocator[T, I]) New() *T {
	p := t.allocatePointer()
	if p == nil {
		return nil
	}
	v := (*T)(p)
	var zero T
	*v = zero
	return v
}

// Create returns a *T from the arena holding v, or nil when it is exhausted.
func (t *TypedAllocator[T, I]) Create(v T) *T {
	p := t.allocatePointer()
	if p == nil {
		return nil
	}
	ptr := (*T)(p)
	*ptr = v
	return ptr
}

// Destroy zeroes *p and returns its block to the free list. A p that did not
// come from this allocator returns ErrOutOfRange and is left untouched.
// Destroying nil is a no-op.
func (t *TypedAllocator[T, I]) Destroy(numBlocks int, p *T) error {
	if p == nil {
		return nil
	}
	if !t.list().ValidPointer(t.blockSize, numBlocks, unsafe.Pointer(p)) {
		// reports ErrOutOfRange without touching *p
		return t.deallocatePointer(numBlocks, unsafe.Pointer(p))
	}
	var zero T
	*p = zero
	return t.deallocatePointer(numBlocks, unsafe.Pointer(p))
}

// ValidValue reports whether p is one of the first numBlocks values.
func (t *TypedAllocator[T, I]) ValidValue(numBlocks int, p *T) bool {
	return t.list().ValidPointer(t.blockSize, numBlocks, unsafe.Pointer(p))
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// checkPayload rejects types the garbage collector would need to scan.
func checkPayload[T any]() error {
	typ := reflect.TypeFor[T]()
	if hasPointers(typ) {
		return fmt.Errorf("%w: %s holds Go pointers and cannot live in an arena",
			ErrInvalidArgument, typ)
	}
	return nil
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Slice, reflect.String,
		reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
