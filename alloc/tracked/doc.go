// Package tracked provides an instrumented allocator wrapper.
//
// Tracker delegates to any varlen.Allocator while keeping a ledger of
// every allocate and free call: per-pointer state, counts, a high-water
// mark, and an ordered event log. It is the test double the library's
// exactly-once-free and recursive-teardown properties are verified
// against, and the data source for the hvl-inspect tool.
//
// Misuse detection is deliberately harsh: freeing a pointer the ledger
// does not list (a double free, or a pointer from some other allocator)
// panics instead of returning an error, because the single-ownership
// contract makes that a programmer error rather than a runtime condition.
package tracked
