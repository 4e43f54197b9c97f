package varlen

import (
	"reflect"
	"sync"
	"unsafe"
)

// Allocator allocates and releases storage on the foreign runtime's heap.
// Buffers handed to the foreign runtime must come from the same allocator
// the runtime itself uses, or its deallocation hooks will corrupt the heap.
type Allocator interface {
	// Alloc returns a pointer to size bytes of foreign-heap storage.
	// It is never called with size 0 by this module.
	Alloc(size uintptr) (unsafe.Pointer, error)

	// Free releases a pointer previously returned by Alloc, exactly once.
	// Free(nil) must be a no-op.
	Free(ptr unsafe.Pointer)
}

// Dropper is implemented by element types that need per-element teardown
// before their containing buffer is released.
type Dropper interface {
	Drop()
}

// AllocatorDropper is implemented by element types whose teardown releases
// foreign storage and therefore needs the allocator that produced it.
// Nested variable-length records implement this.
type AllocatorDropper interface {
	DropWith(a Allocator)
}

// VarLenRecord exposes the raw two-word (length, data pointer) layout of a
// variable-length array record. Both record variants implement it.
type VarLenRecord interface {
	VarLenLayout() (length uintptr, data unsafe.Pointer)
}

// TypeDescriptor describes a type to the foreign runtime's type system.
// Descriptor derivation lives outside this module; the interface exists so
// compound-record tooling can be handed one without depending on it.
type TypeDescriptor interface {
	String() string
}

// DescriptorProvider derives the foreign type descriptor for a Go type.
type DescriptorProvider interface {
	TypeDescriptorOf(t reflect.Type) (TypeDescriptor, error)
}

var (
	defaultMu    sync.RWMutex
	defaultAlloc Allocator
)

// SetAllocator installs the process-wide foreign allocator. Record teardown
// falls back to it when no allocator is passed explicitly, which is how
// records buried inside compound structures get released where the
// allocator is not in scope.
func SetAllocator(a Allocator) {
	defaultMu.Lock()
	defaultAlloc = a
	defaultMu.Unlock()
}

// Default returns the process-wide foreign allocator, or nil if none has
// been installed.
func Default() Allocator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAlloc
}
