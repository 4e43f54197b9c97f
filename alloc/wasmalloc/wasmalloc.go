package wasmalloc

import (
	"context"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero/api"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// Allocator adapts a WASM guest's exported allocator to the foreign
// allocator capability. Alloc calls the guest's malloc and translates the
// returned linear-memory offset into a host pointer; Free maps the pointer
// back to its offset and calls the guest's free.
//
// The guest memory must be fixed-size: growth reallocates the backing
// buffer and would invalidate every outstanding host pointer, so New
// rejects modules whose memory can grow.
type Allocator struct {
	ctx     context.Context
	malloc  api.Function
	free    api.Function
	mem     api.Memory
	mu      sync.Mutex
	offsets map[unsafe.Pointer]uint32
}

var _ varlen.Allocator = (*Allocator)(nil)

// New wraps the guest module's exported "malloc" and "free" functions and
// its exported memory. ctx is used for every guest call the allocator
// makes.
func New(ctx context.Context, mod api.Module) (*Allocator, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, verrors.Unsupported(verrors.PhaseAlloc,
			"guest module exports no memory")
	}
	def := mem.Definition()
	if max, ok := def.Max(); !ok || max != def.Min() {
		return nil, verrors.Unsupported(verrors.PhaseAlloc,
			"guest memory must be fixed-size (min == max); growth invalidates host pointers")
	}

	malloc := mod.ExportedFunction("malloc")
	free := mod.ExportedFunction("free")
	if malloc == nil || free == nil {
		return nil, verrors.Unsupported(verrors.PhaseAlloc,
			"guest module does not export malloc and free")
	}

	return &Allocator{
		ctx:     ctx,
		malloc:  malloc,
		free:    free,
		mem:     mem,
		offsets: map[unsafe.Pointer]uint32{},
	}, nil
}

// Alloc obtains storage from the guest allocator and returns a host
// pointer into the guest's linear memory.
func (a *Allocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 || size > 0xffffffff {
		return nil, verrors.AllocationFailed(size, nil)
	}

	res, err := a.malloc.Call(a.ctx, uint64(size))
	if err != nil {
		return nil, verrors.AllocationFailed(size, err)
	}
	off := uint32(res[0])
	if off == 0 {
		// Guest allocators signal exhaustion with a null offset.
		return nil, verrors.AllocationFailed(size, nil)
	}

	view, ok := a.mem.Read(off, uint32(size))
	if !ok {
		return nil, verrors.AllocationFailed(size, nil)
	}
	p := unsafe.Pointer(&view[0])

	a.mu.Lock()
	a.offsets[p] = off
	a.mu.Unlock()
	return p, nil
}

// Free releases storage back to the guest allocator. Free(nil) is a
// no-op; a pointer this allocator did not produce panics.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	a.mu.Lock()
	off, ok := a.offsets[p]
	delete(a.offsets, p)
	a.mu.Unlock()
	if !ok {
		panic(verrors.UnknownPointer(uintptr(p)))
	}

	if _, err := a.free.Call(a.ctx, uint64(off)); err != nil {
		panic(verrors.Wrap(verrors.PhaseTeardown, verrors.KindAllocation, err,
			"guest free failed"))
	}
}

// offsetOf returns the linear-memory offset backing a live host pointer.
func (a *Allocator) offsetOf(p unsafe.Pointer) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	off, ok := a.offsets[p]
	return off, ok
}

// Outstanding returns the number of live allocations the adapter has
// handed out.
func (a *Allocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.offsets)
}
