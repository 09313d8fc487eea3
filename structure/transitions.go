package structure

import (
	"sync"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
)

// EdgeKind discriminates the four transition events a Structure can
// fork on (spec §4.3).
type EdgeKind uint8

const (
	EdgeAddProperty EdgeKind = iota
	EdgeSetMetatable
	EdgeTransitionArrayType
	EdgeEnablePolymetatable
)

// transKey is the comparable key identifying one outgoing transition.
// Only the fields relevant to Kind are meaningful; the rest are zero.
// Keying on the *luastring.String pointer (not its content) works
// because strings are interned (spec §3.3): equal content always means
// equal pointer.
type transKey struct {
	Kind EdgeKind
	Name *luastring.String
	Arr  heap.ArrayType
	Meta any
}

// transitionMode distinguishes how a structure tracks its children
// (spec §3.4 "Transition caching").
type transitionMode uint8

const (
	transNone transitionMode = iota
	transSingle
	transHash
)

// transitionTable holds a Structure's outgoing edges in one of three
// representations depending on fan-out: none, single-child inline, or a
// densely-packed hash table.
type transitionTable struct {
	mode       transitionMode
	singleKey  transKey
	singleNode *Structure
	table      map[transKey]*Structure
}

var transitionInstallMu sync.Mutex

func (t *transitionTable) lookup(k transKey) (*Structure, bool) {
	switch t.mode {
	case transSingle:
		if t.singleKey == k {
			return t.singleNode, true
		}
		return nil, false
	case transHash:
		child, ok := t.table[k]
		return child, ok
	default:
		return nil, false
	}
}

// hasConflictingMetatable reports whether t already routes to a child via
// an EdgeSetMetatable edge keyed on some metatable identity other than m.
// Used to detect the "multiple tables with the same base structure
// receive different metatables" case (spec §3.5) at the moment a second
// distinct metatable is about to fork from the same parent.
func (t *transitionTable) hasConflictingMetatable(m any) bool {
	switch t.mode {
	case transSingle:
		return t.singleKey.Kind == EdgeSetMetatable && t.singleKey.Meta != m
	case transHash:
		for k := range t.table {
			if k.Kind == EdgeSetMetatable && k.Meta != m {
				return true
			}
		}
	}
	return false
}

// install records child under key k. Concurrent installers racing on
// the same key resolve to a single canonical child — last writer to
// grab transitionInstallMu wins and everyone else's pending child
// becomes garbage (spec §4.3: "Concurrent transition attempts must
// resolve to a single canonical child... the losing allocations become
// garbage").
func (t *transitionTable) install(k transKey, child *Structure) *Structure {
	transitionInstallMu.Lock()
	defer transitionInstallMu.Unlock()

	if existing, ok := t.lookup(k); ok {
		return existing
	}

	switch t.mode {
	case transNone:
		t.mode = transSingle
		t.singleKey = k
		t.singleNode = child
	case transSingle:
		t.table = map[transKey]*Structure{t.singleKey: t.singleNode, k: child}
		t.mode = transHash
		t.singleNode = nil
	case transHash:
		t.table[k] = child
	}
	return child
}
