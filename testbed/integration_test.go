// Package testbed holds integration tests that exercise the record types,
// allocators, and compound-record checks together.
package testbed

import (
	"testing"

	"github.com/h5bridge/varlen"
	"github.com/h5bridge/varlen/alloc/cmalloc"
	"github.com/h5bridge/varlen/alloc/tracked"
	"github.com/h5bridge/varlen/hvl"
	"github.com/h5bridge/varlen/record"
)

// spectrum is the kind of compound record that crosses the foreign
// boundary: fixed fields plus one owning and one nested variable-length
// field.
type spectrum struct {
	Channel uint32
	Gain    float64
	Counts  hvl.VarLenArray[uint32]
	Bursts  hvl.LeakyVarLenArray[hvl.LeakyVarLenArray[int16]]
}

func TestCompoundRecordLifecycle(t *testing.T) {
	tr := tracked.New(cmalloc.New())

	if err := record.Check[spectrum](); err != nil {
		t.Fatalf("compound record rejected: %v", err)
	}

	counts, err := hvl.New(tr, []uint32{100, 200, 300})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}

	b1, err := hvl.NewLeaky(tr, []int16{1, 2})
	if err != nil {
		t.Fatalf("burst 1: %v", err)
	}
	b2, err := hvl.NewLeaky(tr, []int16{3})
	if err != nil {
		t.Fatalf("burst 2: %v", err)
	}
	bursts, err := hvl.NewLeaky(tr, []hvl.LeakyVarLenArray[int16]{b1, b2})
	if err != nil {
		t.Fatalf("bursts: %v", err)
	}

	s := spectrum{Channel: 7, Gain: 1.5, Counts: counts, Bursts: bursts}

	// The foreign side reads count+pointer pairs straight out of the
	// struct; verify the views they would see.
	if s.Counts.Len() != 3 || s.Counts.Slice()[2] != 300 {
		t.Errorf("counts view: %v", s.Counts.Slice())
	}
	if s.Bursts.Len() != 2 || s.Bursts.Slice()[0].Slice()[1] != 2 {
		t.Error("nested burst view wrong")
	}

	// Ownership returns to the host side: owning field frees itself,
	// leaky field is torn down explicitly and recursively.
	s.Counts.Free(tr)
	s.Bursts.Drop(tr)

	if tr.Live() != 0 {
		t.Errorf("%d live buffers after teardown", tr.Live())
	}
	if tr.Allocs() != 4 || tr.Frees() != 4 {
		t.Errorf("allocs=%d frees=%d, want 4 and 4", tr.Allocs(), tr.Frees())
	}
	if leaks := tr.Report(); len(leaks) != 0 {
		t.Errorf("leak report not empty: %v", leaks)
	}
}

func TestRecursiveTeardownCounting(t *testing.T) {
	tr := tracked.New(cmalloc.New())

	const k = 16
	inner := make([]hvl.LeakyVarLenArray[int32], k)
	for i := range inner {
		var err error
		inner[i], err = hvl.NewLeaky(tr, []int32{int32(i)})
		if err != nil {
			t.Fatalf("inner %d: %v", i, err)
		}
	}
	outer, err := hvl.NewLeaky(tr, inner)
	if err != nil {
		t.Fatalf("outer: %v", err)
	}

	outer.Drop(tr)

	// k inner buffers plus the outer buffer, each freed exactly once.
	if tr.Frees() != k+1 {
		t.Errorf("frees=%d, want %d", tr.Frees(), k+1)
	}
	if tr.Live() != 0 {
		t.Errorf("live=%d after teardown", tr.Live())
	}
}

func TestProcessDefaultAllocatorWorkflow(t *testing.T) {
	tr := tracked.New(cmalloc.New())
	varlen.SetAllocator(tr)
	defer varlen.SetAllocator(nil)

	a, err := hvl.New(nil, []float64{1.5, 2.5})
	if err != nil {
		t.Fatalf("New via default allocator: %v", err)
	}
	c, err := a.Clone(nil)
	if err != nil {
		t.Fatalf("Clone via default allocator: %v", err)
	}
	if !hvl.Equal(a, c) {
		t.Error("clone differs")
	}

	a.Free(nil)
	c.Free(nil)
	if tr.Live() != 0 {
		t.Errorf("live=%d after frees", tr.Live())
	}
}

func TestLeakIsObservable(t *testing.T) {
	tr := tracked.New(cmalloc.New())

	l, err := hvl.NewLeaky(tr, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("NewLeaky: %v", err)
	}
	_ = l // discarded without Drop: a leak by design

	leaks := tr.Report()
	if len(leaks) != 1 {
		t.Fatalf("leak report has %d entries, want 1", len(leaks))
	}
	if leaks[0].Size != 12 {
		t.Errorf("leaked size %d, want 12", leaks[0].Size)
	}

	// Cleanup so the C heap does not actually leak in the test binary.
	tr.Free(leaks[0].Ptr)
}
