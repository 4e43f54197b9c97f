package hvl

import (
	"fmt"
	"unsafe"

	"github.com/h5bridge/varlen"
)

// LeakyVarLenArray is the non-owning variable-length array record. It has
// the same two-word count+pointer layout as VarLenArray and is safe to
// copy bitwise: copying the record copies the pair, not the buffer, so it
// can be embedded by value in compound records that are themselves copied
// across the foreign boundary, at any nesting depth.
//
// Nothing frees a leaky record automatically. Every construction must be
// balanced by exactly one Drop across all aliases of the buffer; a record
// discarded without Drop is a leak by design, not a bug. The zero value is
// a valid empty record.
type LeakyVarLenArray[T any] struct {
	len uintptr
	ptr unsafe.Pointer
}

var (
	_ varlen.VarLenRecord     = LeakyVarLenArray[int32]{}
	_ varlen.AllocatorDropper = (*LeakyVarLenArray[int32])(nil)
)

// NewLeaky deep-copies src into foreign storage obtained from a, or from
// the process-default allocator when a is nil. Allocation and copy
// behavior match New; only the teardown obligation differs.
func NewLeaky[T any](a varlen.Allocator, src []T) (LeakyVarLenArray[T], error) {
	p, n, err := copyIn(a, src, "hvl.NewLeaky")
	if err != nil {
		return LeakyVarLenArray[T]{}, err
	}
	return LeakyVarLenArray[T]{len: n, ptr: p}, nil
}

// EmptyLeaky returns the normalized empty record: length 0, nil pointer.
func EmptyLeaky[T any]() LeakyVarLenArray[T] {
	return LeakyVarLenArray[T]{}
}

// Len returns the element count.
func (l LeakyVarLenArray[T]) Len() int {
	return int(l.len)
}

// IsEmpty reports whether the record holds no elements.
func (l LeakyVarLenArray[T]) IsEmpty() bool {
	return l.len == 0
}

// Slice returns a view over the record's elements, nil when empty. The
// view aliases the foreign buffer; writes through it are visible to every
// record sharing the buffer.
func (l LeakyVarLenArray[T]) Slice() []T {
	if l.len == 0 || l.ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(l.ptr), l.len)
}

// Ptr returns the raw buffer pointer, nil when empty.
func (l LeakyVarLenArray[T]) Ptr() unsafe.Pointer {
	return l.ptr
}

// VarLenLayout exposes the raw (length, data pointer) pair.
func (l LeakyVarLenArray[T]) VarLenLayout() (uintptr, unsafe.Pointer) {
	return l.len, l.ptr
}

// String formats the record as its element slice.
func (l LeakyVarLenArray[T]) String() string {
	return fmt.Sprint(l.Slice())
}

// needsDrop reports whether elements of type T carry teardown logic.
// Nested leaky records do (via DropWith); plain data does not.
func needsDrop[T any]() bool {
	switch any((*T)(nil)).(type) {
	case varlen.AllocatorDropper, varlen.Dropper:
		return true
	}
	return false
}

// Drop tears the record down explicitly: drop every element in index
// order, free the buffer through a (or the process default), reset to the
// empty state. Dropping an empty record is a no-op, so Drop is idempotent
// on any single record. Only one record aliasing a given buffer may ever
// be dropped.
//
// If an element's teardown panics, the remaining elements are still
// dropped and the buffer is still freed; the first panic is re-raised
// afterwards.
func (l *LeakyVarLenArray[T]) Drop(a varlen.Allocator) {
	if l.ptr == nil {
		l.len = 0
		return
	}
	ra, err := resolve(a, "LeakyVarLenArray.Drop")
	if err != nil {
		panic(err)
	}

	var firstPanic any
	if needsDrop[T]() {
		elems := unsafe.Slice((*T)(l.ptr), l.len)
		for i := range elems {
			func() {
				defer func() {
					if r := recover(); r != nil && firstPanic == nil {
						firstPanic = r
					}
				}()
				switch d := any(&elems[i]).(type) {
				case varlen.AllocatorDropper:
					d.DropWith(ra)
				case varlen.Dropper:
					d.Drop()
				}
			}()
		}
	}

	ra.Free(l.ptr)
	l.ptr = nil
	l.len = 0

	if firstPanic != nil {
		panic(firstPanic)
	}
}

// DropWith makes nested leaky records reachable from an outer record's
// teardown, carrying the outer allocator down the recursion.
func (l *LeakyVarLenArray[T]) DropWith(a varlen.Allocator) {
	l.Drop(a)
}
