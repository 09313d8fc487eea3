package table

import (
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/structure"
	"github.com/luacore/vm/value"
)

// Caller lets table access invoke a __index/__newindex function without
// this package needing to know anything about call frames or the
// interpreter (spec §4.2 step 3, "if it is a function, invoke it").
type Caller interface {
	Call1(fn value.Value, args ...value.Value) (value.Value, error)
}

// MetaNames carries the interned metamethod-name strings table access
// needs, sourced from the VM's single shared Interner (spec §3.3) rather
// than interned locally — every package that compares string pointers
// must agree on one Interner.
type MetaNames struct {
	Index    *luastring.String
	NewIndex *luastring.String
}

// RawGetById reads name with no metatable fallback (spec §4.2 "Raw
// variants... skip both metatable and type checks").
func (t *Table) RawGetById(name *luastring.String) value.Value {
	v, _ := t.rawGetByIdInfo(name)
	return v
}

func (t *Table) rawGetByIdInfo(name *luastring.String) (value.Value, bool) {
	info := t.shape.PrepareGetById(name)
	switch info.Kind {
	case structure.InlinedStorage, structure.OutlinedStorage:
		return t.getSlot(info.Slot), info.MayHaveMetatable
	default:
		return value.Nil, info.MayHaveMetatable
	}
}

// GetById performs the full §4.2 protocol: prepare, execute, and on a nil
// result with a reachable metatable, walk __index.
func (t *Table) GetById(reg *heap.Registry, caller Caller, mm MetaNames, name *luastring.String) (value.Value, error) {
	v, mayHaveMeta := t.rawGetByIdInfo(name)
	if !v.IsNil() || !mayHaveMeta {
		return v, nil
	}
	return t.indexFallback(reg, caller, mm, luastring.ToValue(reg, name))
}

// RawPutById writes name with no metatable consultation and no
// __newindex (spec §4.2 "Raw variants").
func (t *Table) RawPutById(name *luastring.String, v value.Value) {
	if slot, ok := t.shape.LookupSlot(name); ok {
		t.setSlot(slot, v)
		return
	}
	res := t.shape.AddProperty(name)
	t.shape = res.Child
	t.setSlot(res.Slot, v)
}

// PutById performs the full §4.2 write protocol: if the key already
// exists on this object's own shape, write directly; otherwise, if a
// metatable defines __newindex, delegate to it; otherwise install the
// property directly, transitioning the shape (spec §4.2, §4.3).
func (t *Table) PutById(reg *heap.Registry, caller Caller, mm MetaNames, name *luastring.String, v value.Value) error {
	if _, ok := t.shape.LookupSlot(name); ok {
		t.RawPutById(name, v)
		return nil
	}
	if !t.shape.MayHaveMetatable() {
		t.RawPutById(name, v)
		return nil
	}
	mt := t.Metatable(reg)
	if mt == nil {
		t.RawPutById(name, v)
		return nil
	}
	nidx := mt.RawGetById(mm.NewIndex)
	if nidx.IsNil() {
		t.RawPutById(name, v)
		return nil
	}
	if inner, ok := FromValue(reg, nidx); ok {
		return inner.PutById(reg, caller, mm, name, v)
	}
	key := luastring.ToValue(reg, name)
	_, err := caller.Call1(nidx, t.AsValue(reg), key, v)
	return err
}

// indexFallback walks one metatable's __index chain (spec §4.2 step 3).
func (t *Table) indexFallback(reg *heap.Registry, caller Caller, mm MetaNames, key value.Value) (value.Value, error) {
	mt := t.Metatable(reg)
	if mt == nil {
		return value.Nil, nil
	}
	idx := mt.RawGetById(mm.Index)
	if idx.IsNil() {
		return value.Nil, nil
	}
	if inner, ok := FromValue(reg, idx); ok {
		v, mayHaveMeta := inner.rawGetByVal(reg, key)
		if !v.IsNil() || !mayHaveMeta {
			return v, nil
		}
		return inner.indexFallback(reg, caller, mm, key)
	}
	return caller.Call1(idx, t.AsValue(reg), key)
}

// GetByIntegerIndex and PutByIntegerIndex are the array-part-first
// variants (spec §4.2 "For integer indexing, the array part is consulted
// first... only on miss or out-of-range does it fall through to the
// hash/named-property path").
func (t *Table) GetByIntegerIndex(reg *heap.Registry, caller Caller, mm MetaNames, idx int64) (value.Value, error) {
	v := t.array.get(idx)
	if !v.IsNil() || !t.shape.MayHaveMetatable() {
		return v, nil
	}
	return t.indexFallback(reg, caller, mm, value.FromDouble(float64(idx)))
}

// RawGetByIntegerIndex skips the metatable entirely.
func (t *Table) RawGetByIntegerIndex(idx int64) value.Value {
	return t.array.get(idx)
}

func (t *Table) PutByIntegerIndex(reg *heap.Registry, caller Caller, mm MetaNames, idx int64, v value.Value) error {
	existing := t.array.get(idx)
	if !existing.IsNil() || !t.shape.MayHaveMetatable() {
		t.rawPutByIntegerIndex(idx, v)
		return nil
	}
	mt := t.Metatable(reg)
	if mt == nil {
		t.rawPutByIntegerIndex(idx, v)
		return nil
	}
	nidx := mt.RawGetById(mm.NewIndex)
	if nidx.IsNil() {
		t.rawPutByIntegerIndex(idx, v)
		return nil
	}
	if inner, ok := FromValue(reg, nidx); ok {
		return inner.PutByIntegerIndex(reg, caller, mm, idx, v)
	}
	key := value.FromDouble(float64(idx))
	_, err := caller.Call1(nidx, t.AsValue(reg), key, v)
	return err
}

func (t *Table) rawPutByIntegerIndex(idx int64, v value.Value) {
	t.array.put(idx, v)
	t.Header.ArrayType = t.array.kind
}

// RawPutByIntegerIndex skips the metatable entirely (spec §4.2 "Raw
// variants").
func (t *Table) RawPutByIntegerIndex(idx int64, v value.Value) { t.rawPutByIntegerIndex(idx, v) }

// rawGetByVal dispatches a runtime key to the array part, the named-slot
// storage, or the side map for anything else, with no metatable walk.
func (t *Table) rawGetByVal(reg *heap.Registry, key value.Value) (value.Value, bool) {
	if idx, ok := asArrayIndex(key); ok {
		return t.array.get(idx), t.shape.MayHaveMetatable()
	}
	if str, ok := luastring.FromValue(reg, key); ok {
		return t.rawGetByIdInfo(str)
	}
	if v, ok := t.other[key]; ok {
		return v, t.shape.MayHaveMetatable()
	}
	return value.Nil, t.shape.MayHaveMetatable()
}

// GetByVal/PutByVal dispatch on the runtime key's kind: integers (and
// integral doubles) go through the array-part path, interned strings go
// through the named-property path, and everything else (booleans, other
// tables, functions) goes through a side map keyed by Value identity.
func (t *Table) GetByVal(reg *heap.Registry, caller Caller, mm MetaNames, key value.Value) (value.Value, error) {
	if idx, ok := asArrayIndex(key); ok {
		return t.GetByIntegerIndex(reg, caller, mm, idx)
	}
	if str, ok := luastring.FromValue(reg, key); ok {
		return t.GetById(reg, caller, mm, str)
	}
	v, mayHaveMeta := t.rawGetByVal(reg, key)
	if !v.IsNil() || !mayHaveMeta {
		return v, nil
	}
	return t.indexFallback(reg, caller, mm, key)
}

func (t *Table) PutByVal(reg *heap.Registry, caller Caller, mm MetaNames, key, v value.Value) error {
	if idx, ok := asArrayIndex(key); ok {
		return t.PutByIntegerIndex(reg, caller, mm, idx, v)
	}
	if str, ok := luastring.FromValue(reg, key); ok {
		return t.PutById(reg, caller, mm, str, v)
	}
	return t.putByValFallback(reg, caller, mm, key, v)
}

func (t *Table) putByValFallback(reg *heap.Registry, caller Caller, mm MetaNames, key, v value.Value) error {
	if existing, ok := t.other[key]; ok && !existing.IsNil() || !t.shape.MayHaveMetatable() {
		t.rawPutOther(key, v)
		return nil
	}
	mt := t.Metatable(reg)
	if mt == nil {
		t.rawPutOther(key, v)
		return nil
	}
	nidx := mt.RawGetById(mm.NewIndex)
	if nidx.IsNil() {
		t.rawPutOther(key, v)
		return nil
	}
	if inner, ok := FromValue(reg, nidx); ok {
		return inner.PutByVal(reg, caller, mm, key, v)
	}
	_, err := caller.Call1(nidx, t.AsValue(reg), key, v)
	return err
}

func (t *Table) rawPutOther(key, v value.Value) {
	if v.IsNil() {
		delete(t.other, key)
		return
	}
	if t.other == nil {
		t.other = make(map[value.Value]value.Value)
	}
	t.other[key] = v
}

func asArrayIndex(key value.Value) (int64, bool) {
	if key.IsInt32() {
		return int64(key.AsInt32()), true
	}
	if key.IsDouble() {
		f := key.AsDouble()
		i := int64(f)
		if float64(i) == f {
			return i, true
		}
	}
	return 0, false
}
