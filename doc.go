// Package varlen provides variable-length array records whose in-memory
// layout is bit-compatible with a foreign runtime's native representation.
//
// The foreign runtime (an HDF5-style scientific data library) expects a
// fixed two-word record wherever a variable-length field appears: an
// element count followed by a pointer to storage allocated on the foreign
// heap. This library builds such records from Go slices, hands the buffer
// to the runtime, and tears it down through the runtime's own allocator.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	varlen/              Root package with the Allocator and descriptor interfaces
//	├── hvl/             Owning and non-owning variable-length array records
//	├── alloc/cmalloc/   Default allocator backed by the C runtime's malloc/free
//	├── alloc/tracked/   Instrumented allocator for tests and leak diagnosis
//	├── alloc/wasmalloc/ Allocator backed by a WASM guest's exported malloc/free
//	├── errors/          Structured error types
//	├── record/          Compound-record embedding checks
//	└── cmd/hvl-inspect/ Allocation ledger inspector
//
// # Quick Start
//
// Build a record, read it back, free it:
//
//	a := cmalloc.New()
//
//	arr, err := hvl.New(a, []uint16{1, 2, 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer arr.Free(a)
//
//	fmt.Println(arr.Len(), arr.Slice()) // 3 [1 2 3]
//
// # Ownership
//
// Two record variants share the same two-word layout and differ only in
// destructor policy:
//
//   - hvl.VarLenArray frees its buffer exactly once via Free, deep-copies
//     on Clone, and never shares a buffer between two live records.
//   - hvl.LeakyVarLenArray is bit-copyable and never frees automatically;
//     Drop is explicit, idempotent, and recursively tears down nested
//     records. Discarding one without calling Drop leaks by design.
//
// Element types must be plain data: no Go-heap pointers, since the foreign
// heap is invisible to the Go garbage collector. Constructors enforce this.
package varlen
