// Package wasmalloc exposes a WASM guest's exported malloc/free as a
// foreign allocator.
//
// A guest compiled with its own heap (a wasm build of the data-format
// library, for instance) owns its linear memory the same way a native
// foreign runtime owns its heap: storage it will later free must come
// from its own allocator. The adapter translates between host pointers
// and linear-memory offsets so variable-length records can be built
// directly inside guest memory.
//
// The guest memory must be declared with min == max. wazero may move the
// backing buffer when memory grows, which would silently invalidate every
// host pointer the adapter has handed out.
package wasmalloc
