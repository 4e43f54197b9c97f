package tracked

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/h5bridge/varlen/alloc/cmalloc"
	verrors "github.com/h5bridge/varlen/errors"
)

// failingAllocator fails every allocation.
type failingAllocator struct{}

func (failingAllocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	return nil, errors.New("exhausted")
}

func (failingAllocator) Free(p unsafe.Pointer) {}

func TestTracker_Counts(t *testing.T) {
	tr := New(cmalloc.New())

	p1, err := tr.Alloc(16)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	p2, err := tr.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	if tr.Allocs() != 2 || tr.Frees() != 0 || tr.Live() != 2 {
		t.Errorf("allocs=%d frees=%d live=%d", tr.Allocs(), tr.Frees(), tr.Live())
	}
	if tr.LiveBytes() != 48 || tr.PeakBytes() != 48 {
		t.Errorf("liveBytes=%d peakBytes=%d", tr.LiveBytes(), tr.PeakBytes())
	}

	tr.Free(p1)
	if tr.Live() != 1 || tr.LiveBytes() != 32 {
		t.Errorf("after free: live=%d liveBytes=%d", tr.Live(), tr.LiveBytes())
	}
	if tr.PeakBytes() != 48 {
		t.Errorf("peak dropped to %d", tr.PeakBytes())
	}

	tr.Free(p2)
	if tr.Live() != 0 || tr.Frees() != 2 {
		t.Errorf("after all frees: live=%d frees=%d", tr.Live(), tr.Frees())
	}
}

func TestTracker_EventLedger(t *testing.T) {
	tr := New(cmalloc.New())

	p, _ := tr.Alloc(8)
	tr.Free(p)

	events := tr.Events()
	if len(events) != 2 {
		t.Fatalf("ledger has %d events, want 2", len(events))
	}
	if events[0].Type != EventAlloc || events[0].Ptr != p || events[0].Size != 8 {
		t.Errorf("event 0: %+v", events[0])
	}
	if events[1].Type != EventFree || events[1].Ptr != p {
		t.Errorf("event 1: %+v", events[1])
	}
	if events[0].Seq >= events[1].Seq {
		t.Error("event sequence not monotonic")
	}
}

func TestTracker_DoubleFreePanics(t *testing.T) {
	tr := New(cmalloc.New())

	p, _ := tr.Alloc(8)
	tr.Free(p)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("double free did not panic")
		}
		err, ok := r.(*verrors.Error)
		if !ok || err.Kind != verrors.KindUnknownPointer {
			t.Fatalf("panic value %v, want unknown_pointer error", r)
		}
	}()
	tr.Free(p)
}

func TestTracker_ForeignPointerPanics(t *testing.T) {
	tr := New(cmalloc.New())

	var x uint64
	defer func() {
		if recover() == nil {
			t.Fatal("free of foreign pointer did not panic")
		}
	}()
	tr.Free(unsafe.Pointer(&x))
}

func TestTracker_FreeNil(t *testing.T) {
	tr := New(cmalloc.New())
	tr.Free(nil) // no-op, no panic
	if tr.Frees() != 0 {
		t.Error("Free(nil) counted as a free")
	}
}

func TestTracker_Report(t *testing.T) {
	tr := New(cmalloc.New())

	p1, _ := tr.Alloc(8)
	p2, _ := tr.Alloc(16)
	p3, _ := tr.Alloc(24)
	tr.Free(p2)

	leaks := tr.Report()
	if len(leaks) != 2 {
		t.Fatalf("report has %d leaks, want 2", len(leaks))
	}
	if leaks[0].Ptr != p1 || leaks[1].Ptr != p3 {
		t.Error("report not ordered by allocation time")
	}
	if leaks[0].Size != 8 || leaks[1].Size != 24 {
		t.Errorf("leak sizes %d, %d", leaks[0].Size, leaks[1].Size)
	}

	tr.Free(p1)
	tr.Free(p3)
	if len(tr.Report()) != 0 {
		t.Error("report not empty after balanced frees")
	}
}

// recordingObserver collects events.
type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) OnAllocEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTracker_Observers(t *testing.T) {
	tr := New(cmalloc.New())
	obs := &recordingObserver{}
	tr.Subscribe(obs)

	p, _ := tr.Alloc(8)
	tr.Free(p)

	if len(obs.events) != 2 {
		t.Fatalf("observer saw %d events, want 2", len(obs.events))
	}
	if obs.events[0].Type != EventAlloc || obs.events[1].Type != EventFree {
		t.Errorf("observer events: %+v", obs.events)
	}

	tr.Unsubscribe(obs)
	p2, _ := tr.Alloc(8)
	tr.Free(p2)
	if len(obs.events) != 2 {
		t.Error("unsubscribed observer still notified")
	}
}

func TestTracker_AllocationFailurePassthrough(t *testing.T) {
	tr := New(failingAllocator{})

	if _, err := tr.Alloc(8); err == nil {
		t.Fatal("failure not propagated")
	}
	if tr.Allocs() != 0 || tr.Live() != 0 {
		t.Error("failed allocation entered the ledger")
	}
}

func TestEventType_String(t *testing.T) {
	if EventAlloc.String() != "alloc" || EventFree.String() != "free" {
		t.Error("EventType names wrong")
	}
	if EventType(9).String() != "unknown" {
		t.Error("unknown EventType name wrong")
	}
}
