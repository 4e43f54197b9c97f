// Package hvl implements variable-length array records with the foreign
// runtime's native two-word layout: an element count followed by a pointer
// to foreign-heap storage.
//
// Two variants share that layout and differ only in destructor policy:
//
//	VarLenArray       owning; Free releases the buffer exactly once
//	LeakyVarLenArray  non-owning; bit-copyable, Drop is explicit and recursive
//
// The owning variant never shares its buffer: Clone deep-copies, and Free
// resets the record to the empty state so a second Free is a no-op. It
// supports a single level of variable-length nesting (it may hold plain
// data only) and is the right choice for records the host side controls.
//
// The non-owning variant exists for unbounded nesting inside compound
// records that cross the foreign boundary by value. Copying one copies the
// count+pointer pair, not the buffer, so any number of records may alias
// one allocation; exactly one of them may ever be dropped. Drop tears down
// nested records element by element before freeing its own buffer.
//
// Both variants normalize the empty state: length 0 if and only if the
// data pointer is nil, and empty construction performs no allocation.
package hvl
