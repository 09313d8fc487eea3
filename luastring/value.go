package luastring

import (
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/value"
)

// ToValue boxes s into a pointer-class value.Value via reg, caching the
// handle on s itself so repeated calls for the same *String — interning
// already guarantees equal content means equal pointer — also return the
// same Value. Without this, string identity (spec §3.8 "equality is
// pointer equality on strings") would only hold at the *String level and
// break once strings travel as value.Value.
func ToValue(reg *heap.Registry, s *String) value.Value {
	s.boxMu.Lock()
	defer s.boxMu.Unlock()
	if s.hasBoxed {
		return s.boxed
	}
	v := heap.ToValue(reg.Register(s))
	s.boxed = v
	s.hasBoxed = true
	return v
}

// FromValue recovers the *String a value.Value was boxed from, if v does
// in fact hold one.
func FromValue(reg *heap.Registry, v value.Value) (*String, bool) {
	if !v.IsPointer() {
		return nil, false
	}
	s, ok := reg.Lookup(heap.HandleOf(v)).(*String)
	return s, ok
}
