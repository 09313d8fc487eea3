package structure

import "github.com/luacore/vm/luastring"

// ICInfoKind is the result shape PrepareGetById/PrepareGetByIntegerIndex
// return for table access to act on (spec §4.2).
type ICInfoKind uint8

const (
	InlinedStorage ICInfoKind = iota
	OutlinedStorage
	MustBeNil
	MustBeNilButUncacheable
	UncachableDictionary
)

// ICInfo is the outcome of a property-lookup prepare step: where to read
// the value from (or that it's known absent), the slot index when
// applicable, and whether the owning structure might still redirect
// through a metatable on a nil result.
type ICInfo struct {
	Kind             ICInfoKind
	Slot             uint8
	MayHaveMetatable bool
}

// PrepareGetById resolves name against s, returning an O(1)-average
// ICInfo. The returned slot, when Kind is Inlined/OutlinedStorage, is
// stable for s's lifetime — every live object whose hidden class is s
// will always find name at that slot (spec §8 "Structure slot
// stability"), which is exactly what makes it safe for an inline cache
// to remember.
func (s *Structure) PrepareGetById(name *luastring.String) ICInfo {
	mayHaveMeta := s.MayHaveMetatable()

	if s.dict != nil {
		slot, ok := s.dict.lookup(name)
		if !ok {
			if s.dict.cacheable {
				return ICInfo{Kind: MustBeNilButUncacheable, MayHaveMetatable: mayHaveMeta}
			}
			return ICInfo{Kind: UncachableDictionary, MayHaveMetatable: mayHaveMeta}
		}
		if !s.dict.cacheable {
			return ICInfo{Kind: UncachableDictionary, Slot: slot, MayHaveMetatable: mayHaveMeta}
		}
		return s.storageInfo(slot, mayHaveMeta)
	}

	if slot, ok := s.findInline(name); ok {
		return s.storageInfo(slot, mayHaveMeta)
	}
	if s.anchor != nil {
		if slot, ok := s.anchor.lookup(name); ok {
			return s.storageInfo(slot, mayHaveMeta)
		}
	}
	return ICInfo{Kind: MustBeNil, MayHaveMetatable: mayHaveMeta}
}

// LookupSlot reports whether name already has a slot on s, without
// producing IC-oriented metadata. Table Put operations use this to
// decide "overwrite in place" vs. "install a new property" (spec §4.2
// "PutById/PutByVal mirror the above. On 'new property', the structure
// transitions").
func (s *Structure) LookupSlot(name *luastring.String) (uint8, bool) {
	if s.dict != nil {
		return s.dict.lookup(name)
	}
	if slot, ok := s.findInline(name); ok {
		return slot, true
	}
	if s.anchor != nil {
		return s.anchor.lookup(name)
	}
	return 0, false
}

func (s *Structure) storageInfo(slot uint8, mayHaveMeta bool) ICInfo {
	if slot < s.InlineCapacity {
		return ICInfo{Kind: InlinedStorage, Slot: slot, MayHaveMetatable: mayHaveMeta}
	}
	return ICInfo{Kind: OutlinedStorage, Slot: slot, MayHaveMetatable: mayHaveMeta}
}

func (s *Structure) findInline(name *luastring.String) (uint8, bool) {
	for _, p := range s.properties {
		if p.name == name {
			return p.slot, true
		}
	}
	return 0, false
}
