package hvl

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
)

// owned marks the owning record type so element vetting can reject it:
// an owning record inside another variable-length buffer would free on a
// path the buffer's teardown never runs.
type owned interface {
	ownedRecord()
}

var (
	ownedType   = reflect.TypeOf((*owned)(nil)).Elem()
	recordType  = reflect.TypeOf((*varlen.VarLenRecord)(nil)).Elem()
	elemVetting sync.Map // reflect.Type -> error (nil on success)
)

// VetElement reports whether T may be stored in a variable-length buffer.
// Element types must be plain data: byte-copyable with no Go-heap
// references, since foreign storage is invisible to the Go garbage
// collector. Owning records are rejected; nest LeakyVarLenArray instead.
func VetElement[T any]() error {
	t := reflect.TypeFor[T]()
	if v, ok := elemVetting.Load(t); ok {
		if v == nil {
			return nil
		}
		return v.(error)
	}
	err := vetElementType(t)
	elemVetting.Store(t, err)
	return err
}

func vetElementType(t reflect.Type) error {
	if t.Size() == 0 {
		return verrors.InvalidElement(t.String(), "zero-size element type")
	}
	return vet(t, true)
}

// VetEmbedded validates a type for by-value embedding in a compound record
// that crosses the foreign boundary. Unlike element vetting, owning records
// are permitted: a compound record is the single supported nesting level
// for the owning variant.
func VetEmbedded(t reflect.Type) error {
	return vet(t, false)
}

// IsVarLen reports whether t is one of the two-word record types.
func IsVarLen(t reflect.Type) bool {
	return t.Implements(recordType) || reflect.PointerTo(t).Implements(recordType)
}

// IsOwned reports whether t is the owning record type.
func IsOwned(t reflect.Type) bool {
	return t.Implements(ownedType) || reflect.PointerTo(t).Implements(ownedType)
}

func vet(t reflect.Type, rejectOwned bool) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil
	case reflect.Array:
		return vet(t.Elem(), rejectOwned)
	case reflect.Struct:
		if rejectOwned && IsOwned(t) {
			return verrors.InvalidElement(t.String(),
				"owning records cannot nest inside a variable-length buffer; use LeakyVarLenArray")
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := vet(f.Type, rejectOwned); err != nil {
				return verrors.InvalidElement(t.String(),
					fmt.Sprintf("field %s: %v", f.Name, err))
			}
		}
		return nil
	default:
		return verrors.InvalidElement(t.String(),
			"contains Go-heap references and is not plain data")
	}
}
