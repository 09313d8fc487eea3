package structure

import "github.com/luacore/vm/luastring"

// DictionaryThreshold is the named-property count past which a
// structure falls back to per-object dictionary mode (spec §3.4
// "Dictionary fallback").
const DictionaryThreshold = 64

// dictionary backs an object once its structure has fallen back from
// the transition-DAG representation, either because its property count
// crossed DictionaryThreshold or because a property was deleted (delete
// has no clean "transition back" in a DAG of pure add-operations).
type dictionary struct {
	slots      map[*luastring.String]uint8
	nextSlot   uint8
	cacheable  bool // Cacheable: one dictionary per object, IC may specialize per-dictionary.
}

func newDictionary(cacheable bool, from []property) *dictionary {
	d := &dictionary{slots: make(map[*luastring.String]uint8, len(from)), cacheable: cacheable}
	for _, p := range from {
		d.slots[p.name] = p.slot
		if p.slot >= d.nextSlot {
			d.nextSlot = p.slot + 1
		}
	}
	return d
}

func (d *dictionary) lookup(name *luastring.String) (uint8, bool) {
	slot, ok := d.slots[name]
	return slot, ok
}

// add assigns name a fresh slot, mutating the dictionary in place — a
// CacheableDictionary/UncacheableDictionary is mutable per-object state,
// unlike a DAG Structure which is immutable once published (spec §3.4).
func (d *dictionary) add(name *luastring.String) uint8 {
	slot := d.nextSlot
	d.slots[name] = slot
	d.nextSlot++
	return slot
}

// remove deletes name's slot. Deleting from a cacheable dictionary
// downgrades it to uncacheable: a removed slot invalidates any IC that
// assumed this dictionary's shape was stable (spec §3.4).
func (d *dictionary) remove(name *luastring.String) {
	delete(d.slots, name)
	d.cacheable = false
}
