package table

import (
	"sort"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/value"
)

// Next implements the base library's next(t, key): it walks the array
// part, then named properties, then the side map, in one stable order,
// and returns the key/value pair immediately following key (spec §6.6;
// also the fallback path for KVLoopIter's generic-iteration semantics,
// spec §4.5). Raw — next never consults a metatable.
func (t *Table) Next(reg *heap.Registry, key value.Value) (value.Value, value.Value, bool) {
	keys := t.enumerationKeys(reg)
	if key.IsNil() {
		if len(keys) == 0 {
			return value.Nil, value.Nil, true
		}
		k := keys[0]
		v, _ := t.rawGetByVal(reg, k)
		return k, v, true
	}
	for i, k := range keys {
		if k != key {
			continue
		}
		if i+1 >= len(keys) {
			return value.Nil, value.Nil, true
		}
		nk := keys[i+1]
		v, _ := t.rawGetByVal(reg, nk)
		return nk, v, true
	}
	return value.Nil, value.Nil, false
}

// enumerationKeys snapshots every live key in iteration order. Rebuilt
// on every call rather than cached, since a table may be mutated between
// successive Next calls in ways that would stale a cached ordering —
// acceptable here since this runtime favors correctness over a hot-loop
// iteration fast path.
func (t *Table) enumerationKeys(reg *heap.Registry) []value.Value {
	var keys []value.Value
	for i, v := range t.array.data {
		if v.IsNil() {
			continue
		}
		keys = append(keys, value.FromDouble(float64(i+1)))
	}
	if t.array.hasSparseMap {
		var sparse []int64
		for k, v := range t.array.sparse {
			if v.IsNil() {
				continue
			}
			sparse = append(sparse, k)
		}
		sort.Slice(sparse, func(i, j int) bool { return sparse[i] < sparse[j] })
		for _, k := range sparse {
			keys = append(keys, value.FromDouble(float64(k)))
		}
	}
	props := t.shape.AllProperties()
	sort.Slice(props, func(i, j int) bool { return props[i].Slot < props[j].Slot })
	for _, p := range props {
		if t.getSlot(p.Slot).IsNil() {
			continue
		}
		keys = append(keys, luastring.ToValue(reg, p.Name))
	}
	firstOther := len(keys)
	for k, v := range t.other {
		if v.IsNil() {
			continue
		}
		keys = append(keys, k)
	}
	others := keys[firstOther:]
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
	return keys
}
