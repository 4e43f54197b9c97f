// Package cmalloc provides the default foreign allocator, backed by the C
// runtime's malloc/free. Buffers it produces can be released by a foreign
// runtime that frees variable-length storage through the C heap, and vice
// versa.
//
// When cgo is disabled the package falls back to Go-heap blocks pinned in
// a table. The fallback keeps the same interface and exact-free semantics
// and is suitable for tests and tooling, but its pointers cannot be handed
// to a real foreign runtime for deallocation.
package cmalloc
