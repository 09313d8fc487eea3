package structure

import (
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
)

// AddPropertyResult reports the outcome of AddProperty: the child
// structure, the slot the new property landed in, and whether the
// caller must grow the object's butterfly to accommodate it (spec §4.3:
// "If the new slot count would cross the inline-capacity boundary, the
// butterfly must grow — record the fact in the resulting Structure and
// let the caller perform the growth").
type AddPropertyResult struct {
	Child                *Structure
	Slot                 uint8
	NeedsButterflyGrowth bool
}

// AddProperty forks s along the {AddProp, name} edge, reusing an
// existing child if one was already installed for this (structure,
// name) pair (spec §4.3).
func (s *Structure) AddProperty(name *luastring.String) AddPropertyResult {
	if s.dict != nil {
		// Dictionary objects mutate in place rather than forking the DAG.
		slot := s.dict.add(name)
		return AddPropertyResult{Child: s, Slot: slot, NeedsButterflyGrowth: slot >= s.InlineCapacity}
	}

	key := transKey{Kind: EdgeAddProperty, Name: name}
	if existing, ok := s.transitions.lookup(key); ok {
		return AddPropertyResult{Child: existing, Slot: existing.NumSlots - 1, NeedsButterflyGrowth: existing.needsButterflyGrowth(existing.NumSlots - 1)}
	}

	newSlot := s.NumSlots

	if int(s.NumSlots)+1 > DictionaryThreshold {
		props := append([]property{}, s.properties...)
		if s.anchor != nil {
			props = props[:0]
			for n, slot := range s.anchor.entries {
				props = append(props, property{name: n, slot: slot})
			}
		}
		props = append(props, property{name: name, slot: newSlot})
		child := s.shallowFork()
		child.dict = newDictionary(true, props)
		child.NumSlots = newSlot + 1
		return AddPropertyResult{Child: child, Slot: newSlot, NeedsButterflyGrowth: newSlot >= child.InlineCapacity}
	}

	child := s.shallowFork()
	child.Parent = s
	child.NumSlots = newSlot + 1
	if newSlot >= child.InlineCapacity && newSlot >= child.totalNamedCapacity() {
		child.ButterflyNamedCapacity = newSlot + 1 - child.InlineCapacity
	}

	if s.anchor != nil {
		// Once a structure has an anchor table, every descendant keeps
		// extending it — the properties list stays retired for good.
		child.anchor = s.anchor.withAdded(name, newSlot)
		child.properties = nil
	} else {
		child.properties = append(append([]property{}, s.properties...), property{name: name, slot: newSlot})
		if len(child.properties) >= AnchorThreshold {
			child.anchor = newAnchorFromProperties(child.properties)
		}
	}

	installed := s.transitions.install(key, child)
	return AddPropertyResult{
		Child:                installed,
		Slot:                 newSlot,
		NeedsButterflyGrowth: installed.needsButterflyGrowth(newSlot),
	}
}

// SetMetatable forks s to record metatable identity m. Polymetatable
// mode (metatable moves into a property slot instead of the structure)
// is entered whenever a second, distinct metatable would otherwise need
// its own Unique structure forked from the same base — either because s
// itself already carries a different one, or because a sibling table
// sharing s already forked off with a different one (spec §3.5 "entered
// when multiple tables with the same base structure receive different
// metatables", §4.3).
func (s *Structure) SetMetatable(m any) *Structure {
	switch s.MetaMode {
	case MetatablePoly:
		return s // already poly; metatable lives in the slot, no structure change
	case MetatableUnique:
		if s.MetaPointer == m {
			return s
		}
		return s.enablePolymetatable()
	}

	key := transKey{Kind: EdgeSetMetatable, Meta: m}
	if existing, ok := s.transitions.lookup(key); ok {
		return existing
	}
	if s.transitions.hasConflictingMetatable(m) {
		return s.enablePolymetatable()
	}
	child := s.shallowFork()
	child.Parent = s
	child.MetaMode = MetatableUnique
	child.MetaPointer = m
	child.mayHaveMetatable = true
	return s.transitions.install(key, child)
}

// enablePolymetatable forks s (or returns its existing poly child) to
// MetatablePoly mode, allocating the sentinel-keyed slot that will carry
// each object's own metatable value.
func (s *Structure) enablePolymetatable() *Structure {
	key := transKey{Kind: EdgeEnablePolymetatable}
	if existing, ok := s.transitions.lookup(key); ok {
		return existing
	}
	child := s.shallowFork()
	child.Parent = s
	child.MetaMode = MetatablePoly
	child.mayHaveMetatable = true

	// Assign the sentinel's slot directly on the not-yet-published child
	// rather than through AddProperty, which would fork again and strand
	// the slot on a discarded structure.
	slot := child.NumSlots
	child.NumSlots = slot + 1
	if slot >= child.InlineCapacity && slot >= child.totalNamedCapacity() {
		child.ButterflyNamedCapacity = slot + 1 - child.InlineCapacity
	}
	sentinel := polymetatableSentinelName()
	if child.anchor != nil {
		child.anchor = child.anchor.withAdded(sentinel, slot)
		child.properties = nil
	} else {
		child.properties = append(append([]property{}, child.properties...), property{name: sentinel, slot: slot})
		if len(child.properties) >= AnchorThreshold {
			child.anchor = newAnchorFromProperties(child.properties)
		}
	}
	child.MetaSlot = slot
	return s.transitions.install(key, child)
}

// TransitionArrayType forks s's array-part type discipline (spec §3.5,
// §4.3). Callers must only ever request a widening per spec §8
// "Array-type monotonicity"; this is enforced by heap.ArrayType.Widen
// at the table-object layer, not re-checked here.
func (s *Structure) TransitionArrayType(newType heap.ArrayType) *Structure {
	if s.ArrayType == newType {
		return s
	}
	key := transKey{Kind: EdgeTransitionArrayType, Arr: newType}
	if existing, ok := s.transitions.lookup(key); ok {
		return existing
	}
	child := s.shallowFork()
	child.Parent = s
	child.ArrayType = newType
	return s.transitions.install(key, child)
}

// shallowFork copies the dense fields of s into a new Structure; the
// caller is responsible for filling in whatever the specific transition
// changes.
func (s *Structure) shallowFork() *Structure {
	return &Structure{
		InlineCapacity:         s.InlineCapacity,
		ButterflyNamedCapacity: s.ButterflyNamedCapacity,
		NumSlots:               s.NumSlots,
		ArrayType:              s.ArrayType,
		MetaMode:               s.MetaMode,
		MetaPointer:            s.MetaPointer,
		MetaSlot:               s.MetaSlot,
		mayHaveMetatable:       s.mayHaveMetatable,
		noMetamethodBits:       s.noMetamethodBits,
		properties:             s.properties,
		anchor:                 s.anchor,
	}
}

var polymetatableSentinel *luastring.String

// polymetatableSentinelName returns the shared sentinel key used to
// store a table's metatable in a property slot under polymetatable mode
// (spec §3.3 "the stored-metatable slot in polymetatable mode", §9
// "Interning sentinel strings").
func polymetatableSentinelName() *luastring.String {
	if polymetatableSentinel == nil {
		polymetatableSentinel = luastring.NewSentinel("@polymetatable")
	}
	return polymetatableSentinel
}
