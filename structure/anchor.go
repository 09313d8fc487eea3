package structure

import "github.com/luacore/vm/luastring"

// anchorTable is a dedicated heap object shared by all descendants of a
// common ancestor once their property count passes AnchorThreshold
// (spec §3.4). New anchors are built lazily, copying the parent's
// entries forward ("inherited via pointer-sharing" — since entries here
// are plain value copies of a pointer+uint8 pair, "sharing" means this
// Go map itself is shared by reference across every structure that
// points at it without yet needing its own).
type anchorTable struct {
	entries map[*luastring.String]uint8
}

func newAnchorFromProperties(props []property) *anchorTable {
	a := &anchorTable{entries: make(map[*luastring.String]uint8, len(props))}
	for _, p := range props {
		a.entries[p.name] = p.slot
	}
	return a
}

func (a *anchorTable) withAdded(name *luastring.String, slot uint8) *anchorTable {
	next := &anchorTable{entries: make(map[*luastring.String]uint8, len(a.entries)+1)}
	for k, v := range a.entries {
		next.entries[k] = v
	}
	next.entries[name] = slot
	return next
}

func (a *anchorTable) lookup(name *luastring.String) (uint8, bool) {
	slot, ok := a.entries[name]
	return slot, ok
}
