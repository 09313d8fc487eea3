package table

import (
	"sync"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/structure"
	"github.com/luacore/vm/value"
)

// Table is a Lua table object (spec §3.5): inline named-property slots,
// sized by the current Structure's inline capacity, plus a butterfly
// holding outlined named slots and the array part.
type Table struct {
	Header heap.ObjectHeader

	shape    *structure.Structure
	inline   []value.Value
	outlined []value.Value
	array    arrayPart
	other    map[value.Value]value.Value // keys that are neither array indices nor strings

	boxMu    sync.Mutex
	boxed    value.Value
	hasBoxed bool
}

// New creates an empty table whose initial shape is root.
func New(root *structure.Structure) *Table {
	t := &Table{
		Header: heap.ObjectHeader{Type: value.HeapTable, ArrayType: heap.ArrayTypeNone},
		shape:  root,
		inline: newNilSlice(int(root.InlineCapacity)),
		array:  newArrayPart(),
	}
	return t
}

func newNilSlice(n int) []value.Value {
	s := make([]value.Value, n)
	for i := range s {
		s[i] = value.Nil
	}
	return s
}

// Shape returns the table's current hidden class.
func (t *Table) Shape() *structure.Structure { return t.shape }

// AsValue boxes t into a pointer-class value.Value via reg, caching the
// handle so repeated calls return the same Value (object identity must be
// preserved once a table starts appearing as a Lua value).
func (t *Table) AsValue(reg *heap.Registry) value.Value {
	t.boxMu.Lock()
	defer t.boxMu.Unlock()
	if t.hasBoxed {
		return t.boxed
	}
	v := heap.ToValue(reg.Register(t))
	t.boxed = v
	t.hasBoxed = true
	return v
}

// FromValue recovers the *Table a value.Value was boxed from, if any.
func FromValue(reg *heap.Registry, v value.Value) (*Table, bool) {
	if !v.IsPointer() {
		return nil, false
	}
	t, ok := reg.Lookup(heap.HandleOf(v)).(*Table)
	return t, ok
}

// Len implements the length operator's table case (spec §3.5, §4.5):
// O(1) when the array part's continuous prefix is known, binary search
// otherwise.
func (t *Table) Len() int64 { return t.array.Len() }

// Metatable returns the table's metatable, or nil if it has none. Under
// MetatableUnique the metatable is shared via the structure; under
// MetatablePoly it lives in this object's own slot (spec §3.5).
func (t *Table) Metatable(reg *heap.Registry) *Table {
	switch t.shape.MetaMode {
	case structure.MetatableUnique:
		mt, _ := t.shape.MetaPointer.(*Table)
		return mt
	case structure.MetatablePoly:
		v := t.getSlot(t.shape.MetaSlot)
		mt, _ := FromValue(reg, v)
		return mt
	default:
		return nil
	}
}

// SetMetatable installs m as t's metatable, forking or mutating t's shape
// as needed (spec §3.5, §4.3).
func (t *Table) SetMetatable(reg *heap.Registry, m *Table) {
	var identity any
	if m != nil {
		identity = m
	}
	t.shape = t.shape.SetMetatable(identity)
	if t.shape.MetaMode == structure.MetatablePoly {
		var v value.Value
		if m != nil {
			v = m.AsValue(reg)
		} else {
			v = value.Nil
		}
		t.setSlot(t.shape.MetaSlot, v)
	}
}

// getSlot/setSlot address a named-property slot by its structure-assigned
// index, splitting at the shape's inline capacity (spec §3.5 "inline
// named-property slots... outlined named-property storage").
func (t *Table) getSlot(slot uint8) value.Value {
	if slot < t.shape.InlineCapacity {
		if int(slot) >= len(t.inline) {
			return value.Nil
		}
		return t.inline[slot]
	}
	idx := int(slot - t.shape.InlineCapacity)
	if idx >= len(t.outlined) {
		return value.Nil
	}
	return t.outlined[idx]
}

func (t *Table) setSlot(slot uint8, v value.Value) {
	t.ensureSlotCapacity(slot)
	if slot < t.shape.InlineCapacity {
		t.inline[slot] = v
		return
	}
	t.outlined[slot-t.shape.InlineCapacity] = v
}

// ensureSlotCapacity grows inline/outlined storage so slot is addressable.
func (t *Table) ensureSlotCapacity(slot uint8) {
	if slot < t.shape.InlineCapacity {
		for len(t.inline) <= int(slot) {
			t.inline = append(t.inline, value.Nil)
		}
		return
	}
	idx := int(slot - t.shape.InlineCapacity)
	for len(t.outlined) <= idx {
		t.outlined = append(t.outlined, value.Nil)
	}
}
