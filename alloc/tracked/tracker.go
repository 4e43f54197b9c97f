package tracked

import (
	"sort"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// EventType identifies an allocator lifecycle event.
type EventType uint8

const (
	EventAlloc EventType = iota
	EventFree
)

func (e EventType) String() string {
	switch e {
	case EventAlloc:
		return "alloc"
	case EventFree:
		return "free"
	default:
		return "unknown"
	}
}

// Event records one allocator call.
type Event struct {
	Ptr  unsafe.Pointer
	Size uintptr
	Seq  uint64
	Type EventType
}

// Observer receives notifications about allocator lifecycle events.
type Observer interface {
	OnAllocEvent(Event)
}

// Leak describes a buffer that was allocated and never freed.
type Leak struct {
	Ptr  unsafe.Pointer
	Size uintptr
	Seq  uint64
}

type entry struct {
	size uintptr
	seq  uint64
}

// Tracker wraps an Allocator with a ledger of every allocate and free
// call. Tests use it to verify exactly-once free behavior; the inspector
// tool uses it to report leaks. A free of a pointer the tracker does not
// know panics: that is a double free or a foreign pointer, a programmer
// error the misuse contract says must not be handled gracefully.
type Tracker struct {
	inner     varlen.Allocator
	live      map[unsafe.Pointer]entry
	events    []Event
	observers []Observer
	mu        sync.Mutex
	obsMu     sync.RWMutex
	seq       uint64
	allocs    uint64
	frees     uint64
	liveBytes uintptr
	peakBytes uintptr
}

// New wraps inner with a fresh ledger.
func New(inner varlen.Allocator) *Tracker {
	return &Tracker{
		inner: inner,
		live:  map[unsafe.Pointer]entry{},
	}
}

// Alloc delegates to the wrapped allocator and records the outcome.
func (t *Tracker) Alloc(size uintptr) (unsafe.Pointer, error) {
	p, err := t.inner.Alloc(size)
	if err != nil {
		Logger().Warn("allocation failed",
			zap.Uint64("size", uint64(size)),
			zap.Error(err))
		return nil, err
	}

	t.mu.Lock()
	t.seq++
	ev := Event{Type: EventAlloc, Ptr: p, Size: size, Seq: t.seq}
	t.live[p] = entry{size: size, seq: t.seq}
	t.events = append(t.events, ev)
	t.allocs++
	t.liveBytes += size
	if t.liveBytes > t.peakBytes {
		t.peakBytes = t.liveBytes
	}
	t.mu.Unlock()

	t.notify(ev)
	Logger().Debug("alloc",
		zap.Uint64("seq", ev.Seq),
		zap.Uint64("size", uint64(size)),
		zap.Uintptr("ptr", uintptr(p)))
	return p, nil
}

// Free verifies the pointer is live in the ledger, records the free, and
// delegates to the wrapped allocator. Free(nil) is a no-op.
func (t *Tracker) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	t.mu.Lock()
	e, ok := t.live[p]
	if !ok {
		t.mu.Unlock()
		panic(verrors.UnknownPointer(uintptr(p)))
	}
	delete(t.live, p)
	t.seq++
	ev := Event{Type: EventFree, Ptr: p, Size: e.size, Seq: t.seq}
	t.events = append(t.events, ev)
	t.frees++
	t.liveBytes -= e.size
	t.mu.Unlock()

	t.notify(ev)
	Logger().Debug("free",
		zap.Uint64("seq", ev.Seq),
		zap.Uint64("size", uint64(e.size)),
		zap.Uintptr("ptr", uintptr(p)))
	t.inner.Free(p)
}

// Allocs returns the total number of successful allocations.
func (t *Tracker) Allocs() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs
}

// Frees returns the total number of frees.
func (t *Tracker) Frees() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frees
}

// Live returns the number of outstanding allocations.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// LiveBytes returns the total size of outstanding allocations.
func (t *Tracker) LiveBytes() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.liveBytes
}

// PeakBytes returns the high-water mark of outstanding allocation size.
func (t *Tracker) PeakBytes() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peakBytes
}

// Events returns a copy of the full ledger in call order.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Report returns the outstanding allocations ordered by allocation time.
// A non-empty report at the end of a balanced workload is a leak.
func (t *Tracker) Report() []Leak {
	t.mu.Lock()
	defer t.mu.Unlock()
	leaks := make([]Leak, 0, len(t.live))
	for p, e := range t.live {
		leaks = append(leaks, Leak{Ptr: p, Size: e.size, Seq: e.seq})
	}
	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Seq < leaks[j].Seq })
	return leaks
}

// Subscribe adds an observer for allocator events.
func (t *Tracker) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Tracker) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Tracker) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnAllocEvent(e)
	}
}
