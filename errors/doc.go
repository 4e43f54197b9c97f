// Package errors provides structured error types for the varlen library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The taxonomy is deliberately small: allocation failure
// is the only failure mode intrinsic to record construction, and the
// remaining kinds describe programmer errors surfaced by assertions and
// the instrumented allocator.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(size, cause)
//	err := errors.InvalidElement("chan int", "contains Go-heap references")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
