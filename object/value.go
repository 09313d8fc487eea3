package object

import (
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/value"
)

// AsValue boxes f into a pointer-class value.Value via reg, caching the
// handle so repeated calls return the same Value — the same
// identity-preservation pattern luastring and table use, needed here
// because Lua closures compare equal only by reference.
func (f *FunctionObject) AsValue(reg *heap.Registry) value.Value {
	f.boxMu.Lock()
	defer f.boxMu.Unlock()
	if f.hasBoxed {
		return f.boxed
	}
	v := heap.ToValue(reg.Register(f))
	f.boxed = v
	f.hasBoxed = true
	return v
}

// FromValue recovers the *FunctionObject a value.Value was boxed from, if
// any.
func FromValue(reg *heap.Registry, v value.Value) (*FunctionObject, bool) {
	if !v.IsPointer() {
		return nil, false
	}
	f, ok := reg.Lookup(heap.HandleOf(v)).(*FunctionObject)
	return f, ok
}
