package hvl

import (
	"unsafe"

	verrors "github.com/h5bridge/varlen/errors"
)

// WordSize is the native machine word width in bytes.
const WordSize = unsafe.Sizeof(uintptr(0))

// RecordSize is the size of every variable-length record: two words,
// element count then data pointer, as mandated by the foreign ABI.
const RecordSize = 2 * WordSize

func init() {
	// The two-word layout is a hard ABI constraint, not a convenience.
	// Refuse to run at all on a platform or build where it does not hold.
	assertLayout("hvl.VarLenArray",
		unsafe.Sizeof(VarLenArray[byte]{}),
		unsafe.Offsetof(VarLenArray[byte]{}.len),
		unsafe.Offsetof(VarLenArray[byte]{}.ptr))
	assertLayout("hvl.LeakyVarLenArray",
		unsafe.Sizeof(LeakyVarLenArray[byte]{}),
		unsafe.Offsetof(LeakyVarLenArray[byte]{}.len),
		unsafe.Offsetof(LeakyVarLenArray[byte]{}.ptr))
}

func assertLayout(name string, size, lenOff, ptrOff uintptr) {
	if size != RecordSize || lenOff != 0 || ptrOff != WordSize {
		panic(verrors.LayoutMismatch(name,
			"record is not two machine words in count, pointer order"))
	}
}
