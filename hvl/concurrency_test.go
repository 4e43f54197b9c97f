package hvl

import (
	"sync"
	"testing"
)

// A populated record carries no mutable state until freed, so concurrent
// readers need no synchronization among themselves.
func TestVarLenArray_ConcurrentReads(t *testing.T) {
	alloc := newMockAllocator()

	src := make([]uint64, 256)
	for i := range src {
		src[i] = uint64(i)
	}
	a, err := New(alloc, src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Free(alloc)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 100; iter++ {
				s := a.Slice()
				if len(s) != 256 || s[100] != 100 {
					t.Error("concurrent read observed bad view")
					return
				}
				if a.Len() != 256 || a.IsEmpty() {
					t.Error("concurrent accessor observed bad state")
					return
				}
			}
		}()
	}
	wg.Wait()
}

// Records hand off between goroutines: the buffer is plain foreign-heap
// memory with no thread affinity.
func TestVarLenArray_TransferBetweenGoroutines(t *testing.T) {
	alloc := newMockAllocator()

	a, err := New(alloc, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ch := make(chan VarLenArray[int32])
	done := make(chan struct{})
	go func() {
		defer close(done)
		got := <-ch
		if got.Len() != 3 || got.Slice()[2] != 3 {
			t.Error("transferred record unreadable")
		}
		got.Free(alloc)
	}()
	ch <- a
	<-done

	if alloc.frees != 1 {
		t.Errorf("frees=%d after cross-goroutine free", alloc.frees)
	}
}
