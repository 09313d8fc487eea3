package heap

import (
	"sync"

	"github.com/luacore/vm/value"
)

// UserHeapTagBase is the NaN-box tag prefix folded onto every handle this
// VM hands back as a value.Value pointer. The spec distinguishes
// UserHeapPointer/SystemHeapPointer/GeneralHeapPointer by literal address
// range; here heap objects are ordinary Go values reached through a
// Registry, so a single tag range suffices — the object's own header
// (ObjectHeader.Type / SystemHeader.Type) carries the HeapKind that real
// NaN-boxing would otherwise infer from which region the pointer fell in.
const UserHeapTagBase value.Value = 0xFFFF000000000000

// Registry stands in for the user heap's address space: Register hands
// back a stable UserHeapPointer handle for a Go object, and Lookup
// resolves it back. This lets heap-resident Lua values (tables, function
// objects, coroutines, userdata, interned strings) travel inside a
// value.Value the same way a real pointer would, without this VM needing
// to actually place Go objects at fixed byte offsets.
type Registry struct {
	mu      sync.RWMutex
	objects []any
}

// NewRegistry creates an empty registry. Handle 0 is never issued so that
// the zero value of UserHeapPointer can serve as an explicit "no object".
func NewRegistry() *Registry {
	return &Registry{objects: make([]any, 1, 64)}
}

// Register assigns obj a fresh handle.
func (r *Registry) Register(obj any) UserHeapPointer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = append(r.objects, obj)
	return UserHeapPointer(len(r.objects) - 1)
}

// Lookup resolves a handle back to its registered object, or nil if p is
// zero or out of range.
func (r *Registry) Lookup(p UserHeapPointer) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := int(p)
	if idx <= 0 || idx >= len(r.objects) {
		return nil
	}
	return r.objects[idx]
}

// ToValue folds handle p into a pointer-class value.Value.
func ToValue(p UserHeapPointer) value.Value {
	return value.FromPointer(UserHeapTagBase, uint64(p))
}

// HandleOf extracts the registry handle from a pointer Value produced by ToValue.
func HandleOf(v value.Value) UserHeapPointer {
	return UserHeapPointer(v.PointerAddr())
}
