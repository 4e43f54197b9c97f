package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc     Phase = "alloc"     // foreign-heap allocation
	PhaseConstruct Phase = "construct" // record construction
	PhaseTeardown  Phase = "teardown"  // record destruction
	PhaseLayout    Phase = "layout"    // ABI layout validation
	PhaseRecord    Phase = "record"    // compound-record checks
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation     Kind = "allocation"
	KindOverflow       Kind = "overflow"
	KindInvalidElement Kind = "invalid_element"
	KindUnknownPointer Kind = "unknown_pointer"
	KindNilAllocator   Kind = "nil_allocator"
	KindUnsupported    Kind = "unsupported"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// AllocationFailed creates an allocation failure error
func AllocationFailed(size uintptr, cause error) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// Overflow creates a size computation overflow error
func Overflow(count, elemSize uintptr) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("%d elements of %d bytes overflow the address space", count, elemSize),
	}
}

// InvalidElement creates an error for element types that are not plain data
func InvalidElement(goType, detail string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidElement,
		GoType: goType,
		Detail: detail,
	}
}

// InvalidField is InvalidElement with a field path, for compound-record checks
func InvalidField(path []string, goType, detail string) *Error {
	return &Error{
		Phase:  PhaseRecord,
		Kind:   KindInvalidElement,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// UnknownPointer creates an error for a free of a pointer the allocator
// never produced, or produced and already released
func UnknownPointer(ptr uintptr) *Error {
	return &Error{
		Phase:  PhaseTeardown,
		Kind:   KindUnknownPointer,
		Detail: fmt.Sprintf("free of untracked pointer 0x%x (double free or foreign pointer)", ptr),
	}
}

// NilAllocator creates an error for operations that need an allocator and
// found neither an explicit one nor a process default
func NilAllocator(op string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindNilAllocator,
		Detail: fmt.Sprintf("%s requires an allocator and no process default is installed", op),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// LayoutMismatch creates an error for record layouts that deviate from the
// foreign two-word ABI
func LayoutMismatch(goType, detail string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindUnsupported,
		GoType: goType,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
