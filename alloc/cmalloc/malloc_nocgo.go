//go:build !cgo

package cmalloc

import (
	"sync"
	"unsafe"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// Allocator is the cgo-less fallback: Go-heap blocks held live in a table
// so their pointers stay valid until freed. Pointers from this allocator
// must not cross to a real foreign runtime's free routine.
type Allocator struct {
	mu   sync.Mutex
	live map[unsafe.Pointer][]uint64
}

var _ varlen.Allocator = (*Allocator)(nil)

// New returns the fallback allocator.
func New() *Allocator {
	return &Allocator{live: map[unsafe.Pointer][]uint64{}}
}

// Alloc returns zeroed storage backed by the Go heap. The uint64 backing
// keeps every pointer 8-byte aligned, matching malloc's guarantee.
func (a *Allocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, verrors.AllocationFailed(0, nil)
	}
	buf := make([]uint64, (size+7)/8)
	p := unsafe.Pointer(&buf[0])
	a.mu.Lock()
	a.live[p] = buf
	a.mu.Unlock()
	return p, nil
}

// Free drops the block from the table, releasing it to the garbage
// collector. Free(nil) is a no-op.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	a.mu.Lock()
	delete(a.live, p)
	a.mu.Unlock()
}
