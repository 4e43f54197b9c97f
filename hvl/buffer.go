package hvl

import (
	"unsafe"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// resolve picks the explicit allocator or falls back to the process-wide
// default installed via varlen.SetAllocator.
func resolve(a varlen.Allocator, op string) (varlen.Allocator, error) {
	if a != nil {
		return a, nil
	}
	if d := varlen.Default(); d != nil {
		return d, nil
	}
	return nil, verrors.NilAllocator(op)
}

// copyIn deep-copies src into a freshly allocated foreign buffer and
// returns the buffer pointer and element count. An empty source yields the
// normalized (0, nil) pair without touching the allocator. Construction
// either succeeds fully or not at all; there is no partially-allocated
// state to observe.
func copyIn[T any](a varlen.Allocator, src []T, op string) (unsafe.Pointer, uintptr, error) {
	if err := VetElement[T](); err != nil {
		return nil, 0, err
	}
	n := uintptr(len(src))
	if n == 0 {
		return nil, 0, nil
	}

	ra, err := resolve(a, op)
	if err != nil {
		return nil, 0, err
	}

	elemSize := unsafe.Sizeof(src[0])
	if n > ^uintptr(0)/elemSize {
		return nil, 0, verrors.Overflow(n, elemSize)
	}

	size := n * elemSize
	p, err := ra.Alloc(size)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, verrors.AllocationFailed(size, nil)
	}

	copy(unsafe.Slice((*T)(p), len(src)), src)
	return p, n, nil
}
