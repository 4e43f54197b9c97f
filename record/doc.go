// Package record validates Go struct types for by-value embedding in
// foreign compound records.
//
// The foreign runtime reads compound records field by field at natural
// alignment; a variable-length field is the two-word count+pointer record
// from package hvl. Check rejects anything the runtime could not read
// back, Go-heap references above all. Describe forwards to the external
// type-descriptor capability, which is consumed, never implemented, by
// this module.
package record
