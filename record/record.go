package record

import (
	"reflect"

	"github.com/h5bridge/varlen"
	verrors "github.com/h5bridge/varlen/errors"
	"github.com/h5bridge/varlen/hvl"
)

// Field describes one field of a compound record as the foreign runtime
// sees it: declaration order, byte offset at natural alignment, and
// whether the field is a two-word variable-length record.
type Field struct {
	Name   string
	Offset uintptr
	Size   uintptr
	VarLen bool
}

// Check validates that T can be embedded by value in a foreign compound
// record: a struct whose fields are plain data, where variable-length
// fields are the two-word record types. Owning records are allowed here;
// a compound record is their single supported nesting level.
func Check[T any]() error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return verrors.InvalidField(nil, t.String(), "compound records must be struct types")
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if err := hvl.VetEmbedded(f.Type); err != nil {
			return &verrors.Error{
				Phase:  verrors.PhaseRecord,
				Kind:   verrors.KindInvalidElement,
				Path:   []string{t.Name(), f.Name},
				GoType: f.Type.String(),
				Cause:  err,
			}
		}
	}
	return nil
}

// Layout returns the fields of a validated compound record in declaration
// order.
func Layout[T any]() ([]Field, error) {
	if err := Check[T](); err != nil {
		return nil, err
	}
	t := reflect.TypeFor[T]()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fields = append(fields, Field{
			Name:   f.Name,
			Offset: f.Offset,
			Size:   f.Type.Size(),
			VarLen: hvl.IsVarLen(f.Type),
		})
	}
	return fields, nil
}

// Describe asks the external descriptor capability for T's foreign type
// descriptor. Descriptor derivation is not implemented here; this module
// only guarantees that the record layout Check validates is what the
// descriptor mechanism expects to describe.
func Describe[T any](p varlen.DescriptorProvider) (varlen.TypeDescriptor, error) {
	if err := Check[T](); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, verrors.Unsupported(verrors.PhaseRecord, "no descriptor provider configured")
	}
	return p.TypeDescriptorOf(reflect.TypeFor[T]())
}
