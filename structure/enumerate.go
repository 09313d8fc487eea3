package structure

import "github.com/luacore/vm/luastring"

// PropertyEntry names one named-property slot, returned by AllProperties
// for table iteration (spec §6.6 pairs/next).
type PropertyEntry struct {
	Name *luastring.String
	Slot uint8
}

// AllProperties enumerates every named property reachable from s,
// regardless of which of the three representations (linear list, anchor
// table, or per-object dictionary) currently backs it. The
// polymetatable sentinel slot, if any, is excluded — it holds a table's
// own metatable, not a user-visible key (spec §3.5).
func (s *Structure) AllProperties() []PropertyEntry {
	var out []PropertyEntry
	switch {
	case s.dict != nil:
		out = make([]PropertyEntry, 0, len(s.dict.slots))
		for name, slot := range s.dict.slots {
			if IsPolymetatableSentinel(name) {
				continue
			}
			out = append(out, PropertyEntry{Name: name, Slot: slot})
		}
	case s.anchor != nil:
		out = make([]PropertyEntry, 0, len(s.anchor.entries))
		for name, slot := range s.anchor.entries {
			if IsPolymetatableSentinel(name) {
				continue
			}
			out = append(out, PropertyEntry{Name: name, Slot: slot})
		}
	default:
		out = make([]PropertyEntry, 0, len(s.properties))
		for _, p := range s.properties {
			if IsPolymetatableSentinel(p.name) {
				continue
			}
			out = append(out, PropertyEntry{Name: p.name, Slot: p.slot})
		}
	}
	return out
}

// IsPolymetatableSentinel reports whether name is the internal slot key
// used to store a table's own metatable under polymetatable mode.
func IsPolymetatableSentinel(name *luastring.String) bool {
	return name == polymetatableSentinelName()
}
