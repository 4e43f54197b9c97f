//go:build cgo

package cmalloc

// #include <stdlib.h>
import "C"

import (
	"unsafe"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// Allocator allocates through the C runtime's malloc/free, the allocator
// HDF5-style foreign runtimes use for variable-length storage.
type Allocator struct{}

var _ varlen.Allocator = (*Allocator)(nil)

// New returns the C-heap allocator.
func New() *Allocator {
	return &Allocator{}
}

// Alloc obtains zeroed storage from the C heap. calloc rather than malloc:
// handing uninitialized C memory to Go code risks stray bytes that look
// like Go pointers (see the cgo pointer passing rules).
func (*Allocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, verrors.AllocationFailed(0, nil)
	}
	p := C.calloc(C.size_t(size), 1)
	if p == nil {
		return nil, verrors.AllocationFailed(size, nil)
	}
	return p, nil
}

// Free releases storage obtained from Alloc. Free(nil) is a no-op.
func (*Allocator) Free(p unsafe.Pointer) {
	if p != nil {
		C.free(p)
	}
}
