package structure

import (
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
)

// AnchorThreshold is the property count past which a structure's linear
// property list is abandoned in favor of a shared AnchorTable (spec
// §3.4 "Past a threshold (currently 8)...").
const AnchorThreshold = 8

// MetatableMode discriminates how a structure's metatable is recorded
// (spec §3.5 "Metatable discipline").
type MetatableMode uint8

const (
	MetatableNone MetatableMode = iota
	MetatableUnique
	MetatablePoly // stored in a property slot, not the structure
)

// property is one named-property entry in insertion order.
type property struct {
	name *luastring.String
	slot uint8
}

// Structure describes the shape of a family of table objects that
// reached it via identical add-property/change-metatable transitions
// (spec §3.4). Structures are immutable once published as a transition
// target; forking always allocates a new Structure.
type Structure struct {
	Parent *Structure

	InlineCapacity         uint8
	ButterflyNamedCapacity uint8
	NumSlots               uint8
	ArrayType              heap.ArrayType

	MetaMode    MetatableMode
	MetaPointer any   // identity of the unique metatable, when MetaMode == MetatableUnique
	MetaSlot    uint8 // slot index holding the metatable, when MetaMode == MetatablePoly

	// mayHaveMetatable/noSuchMetamethod cache negative metamethod lookups
	// (spec §3.5): once set, a bit here means "no table reaching this
	// structure has ever installed this metamethod", letting PrepareGetById
	// skip the metatable walk entirely.
	mayHaveMetatable bool
	noMetamethodBits uint32

	properties []property // linear list, used directly while len <= AnchorThreshold
	anchor     *anchorTable

	dict *dictionary // non-nil once this structure has fallen back (spec §3.4 "Dictionary fallback")

	transitions transitionTable
}

// NewRoot creates the empty root structure with the given inline
// property capacity.
func NewRoot(inlineCapacity uint8) *Structure {
	return &Structure{
		InlineCapacity: inlineCapacity,
		ArrayType:      heap.ArrayTypeNone,
	}
}

// IsDictionary reports whether this structure has fallen back to
// per-object dictionary mode (spec §3.4).
func (s *Structure) IsDictionary() bool { return s.dict != nil }

// MayHaveMetatable reports the structure's cached "could have a
// metatable" bit (spec §3.5), used by table access to decide whether
// the §4.2 metatable-fallback step is even worth attempting.
func (s *Structure) MayHaveMetatable() bool {
	return s.mayHaveMetatable || s.MetaMode != MetatableNone
}

// DefinitelyLacksMetamethod reports whether this structure's negative
// cache proves no reachable metatable defines the metamethod at bit
// position mm (spec §3.5 "per metamethod kind, a bit indicating this
// metatable definitely has no such metamethod").
func (s *Structure) DefinitelyLacksMetamethod(mm uint) bool {
	if mm >= 32 {
		return false
	}
	return s.noMetamethodBits&(1<<mm) != 0
}

// SetDefinitelyLacksMetamethod records the negative cache bit.
func (s *Structure) SetDefinitelyLacksMetamethod(mm uint) {
	if mm < 32 {
		s.noMetamethodBits |= 1 << mm
	}
}

// totalNamedCapacity is inline + butterfly named-property capacity.
func (s *Structure) totalNamedCapacity() uint8 {
	return s.InlineCapacity + s.ButterflyNamedCapacity
}

// needsButterflyGrowth reports whether slot index idx requires outlined
// (butterfly) storage rather than inline storage.
func (s *Structure) needsButterflyGrowth(idx uint8) bool {
	return idx >= s.InlineCapacity
}
