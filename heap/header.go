package heap

import "github.com/luacore/vm/value"

// CellState is the GC color of a heap object (spec §3.2, §5).
type CellState uint8

const (
	CellBlack CellState = 0 // default, not awaiting scan
	CellWhite CellState = 1
)

// ArrayType encodes a table's array-part discipline (spec §3.5). Every
// non-table object carries ArrayTypeInvalid so that "ArrayType ==
// ArrayTypeInvalid" is equivalent to "not a table" (spec §3.8 invariant).
type ArrayType uint8

const (
	ArrayTypeNone ArrayType = iota
	ArrayTypeInt32Only
	ArrayTypeDoubleOnly
	ArrayTypeAny
	ArrayTypeInvalid ArrayType = 0xFF
)

const (
	ArrayFlagContinuous   ArrayType = 0x40
	ArrayFlagHasSparseMap ArrayType = 0x20
)

// Widen returns the narrowest array type that covers both t and other,
// enforcing the monotonic widening order none < int32 < double < any
// (spec §3.5 "Array-type discipline", §8 "Array-type monotonicity").
func (t ArrayType) Widen(other ArrayType) ArrayType {
	base := t &^ (ArrayFlagContinuous | ArrayFlagHasSparseMap)
	otherBase := other &^ (ArrayFlagContinuous | ArrayFlagHasSparseMap)
	flags := (t | other) & (ArrayFlagContinuous | ArrayFlagHasSparseMap)
	if rank(otherBase) > rank(base) {
		base = otherBase
	}
	return base | flags
}

func rank(t ArrayType) int {
	switch t {
	case ArrayTypeNone:
		return 0
	case ArrayTypeInt32Only:
		return 1
	case ArrayTypeDoubleOnly:
		return 2
	case ArrayTypeAny:
		return 3
	default:
		return 3
	}
}

// ObjectHeader is the common 8-byte header every user-heap object begins
// with (spec §3.2).
type ObjectHeader struct {
	HiddenClass SystemHeapPointer // pointer to the object's Structure
	Type        value.HeapKind
	State       CellState
	Opaque      uint8
	ArrayType   ArrayType
}

// IsTable reports whether the header describes a table object — the
// single bit test the inline-cache engine relies on to skip a separate
// type check (spec §3.2).
func (h ObjectHeader) IsTable() bool { return h.ArrayType != ArrayTypeInvalid }

// SystemHeader is the narrower 2-byte header system-heap objects carry.
type SystemHeader struct {
	Type  value.HeapKind
	State CellState
}
