package hvl

import (
	"errors"
	"unsafe"
)

// mockAllocator implements varlen.Allocator for testing. It backs foreign
// allocations with Go memory and records every call so tests can assert
// exactly-once free behavior.
type mockAllocator struct {
	live     map[unsafe.Pointer][]uint64
	allocs   int
	frees    int
	failNext bool
}

func newMockAllocator() *mockAllocator {
	return &mockAllocator{live: map[unsafe.Pointer][]uint64{}}
}

func (m *mockAllocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		panic("mockAllocator: zero-size allocation (empty arrays must not allocate)")
	}
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock allocation failure")
	}
	// uint64 backing keeps every pointer 8-byte aligned.
	buf := make([]uint64, (size+7)/8)
	p := unsafe.Pointer(&buf[0])
	m.live[p] = buf
	m.allocs++
	return p, nil
}

func (m *mockAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if _, ok := m.live[p]; !ok {
		panic("mockAllocator: free of unknown pointer (double free?)")
	}
	delete(m.live, p)
	m.frees++
}

func (m *mockAllocator) liveCount() int {
	return len(m.live)
}
