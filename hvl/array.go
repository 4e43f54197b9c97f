package hvl

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/h5bridge/varlen"
)

// VarLenArray is the owning variable-length array record. The struct is
// exactly two machine words, element count then data pointer, matching the
// foreign runtime's native representation; the field order must not change.
//
// An owning record never shares its buffer with another live record: Clone
// deep-copies, and Free releases the buffer exactly once and resets the
// record to the empty state. The zero value is a valid empty record.
//
// A populated record is read-only until freed, so it may be shared across
// goroutines for reads and handed off between goroutines freely. Callers
// must serialize Free against concurrent reads of the same record.
type VarLenArray[T any] struct {
	len uintptr
	ptr unsafe.Pointer
}

var _ varlen.VarLenRecord = VarLenArray[int32]{}

// New deep-copies src into foreign storage obtained from a, or from the
// process-default allocator when a is nil. An empty src yields the
// normalized empty record without allocating.
func New[T any](a varlen.Allocator, src []T) (VarLenArray[T], error) {
	p, n, err := copyIn(a, src, "hvl.New")
	if err != nil {
		return VarLenArray[T]{}, err
	}
	return VarLenArray[T]{len: n, ptr: p}, nil
}

// Empty returns the normalized empty record: length 0, nil pointer.
func Empty[T any]() VarLenArray[T] {
	return VarLenArray[T]{}
}

// Len returns the element count.
func (v VarLenArray[T]) Len() int {
	return int(v.len)
}

// IsEmpty reports whether the record holds no elements.
func (v VarLenArray[T]) IsEmpty() bool {
	return v.len == 0
}

// Slice returns a view over the record's elements, nil when empty. The
// view aliases the foreign buffer and must not outlive the record; treat
// it as read-only.
func (v VarLenArray[T]) Slice() []T {
	if v.len == 0 || v.ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(v.ptr), v.len)
}

// Ptr returns the raw buffer pointer, nil when empty.
func (v VarLenArray[T]) Ptr() unsafe.Pointer {
	return v.ptr
}

// VarLenLayout exposes the raw (length, data pointer) pair.
func (v VarLenArray[T]) VarLenLayout() (uintptr, unsafe.Pointer) {
	return v.len, v.ptr
}

// Clone returns an independently allocated deep copy. The clone never
// shares a buffer with the original, so each may be freed exactly once.
func (v VarLenArray[T]) Clone(a varlen.Allocator) (VarLenArray[T], error) {
	return New(a, v.Slice())
}

// Free releases the buffer through a (or the process default) and resets
// the record to the empty state. Freeing an empty record is a no-op, which
// makes a second Free on the same record safe.
func (v *VarLenArray[T]) Free(a varlen.Allocator) {
	if v.ptr == nil {
		v.len = 0
		return
	}
	ra, err := resolve(a, "VarLenArray.Free")
	if err != nil {
		// Freeing a populated record with no allocator in reach is a
		// programmer error: the buffer cannot be released any other way.
		panic(err)
	}
	ra.Free(v.ptr)
	v.ptr = nil
	v.len = 0
}

// String formats the record as its element slice.
func (v VarLenArray[T]) String() string {
	return fmt.Sprint(v.Slice())
}

func (v VarLenArray[T]) ownedRecord() {}

// Equal reports element-wise equality. Two records with different buffers
// but identical content compare equal.
func Equal[T comparable](a, b VarLenArray[T]) bool {
	return slices.Equal(a.Slice(), b.Slice())
}
