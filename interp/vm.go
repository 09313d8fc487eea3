package interp

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/structure"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// VM is the process-wide runtime state every coroutine's dispatch loop
// shares: the string interner, the heap registry, the structure every
// fresh table starts from, and the pre-interned metamethod names (spec
// §3.3, §3.4, §4.2, §4.5).
type VM struct {
	Interner  *luastring.Interner
	Heap      *heap.Registry
	RootShape *structure.Structure
	MetaNames table.MetaNames

	mmAdd, mmSub, mmMul, mmDiv, mmMod, mmPow, mmUnm *luastring.String
	mmConcat, mmLen, mmEq, mmLt, mmLe, mmCall       *luastring.String

	// MaxErrorHandlerDepth bounds nested xpcall error-handler invocations
	// (spec §4.6 "if over a threshold (50), downgrade to pcall behavior
	// with the 'error in error handling' message").
	MaxErrorHandlerDepth int

	// current is the coroutine whose frame is presently executing, kept
	// so Call1 (table.Caller) knows where to run a metamethod invocation
	// without table/ needing to know about coroutines at all. Coroutine
	// bodies hand off control over a channel rather than running
	// concurrently, so exactly one goroutine is ever inside interpreted
	// code at a time and this field never needs synchronization.
	current           *coroutine.Coroutine
	errorHandlerDepth int

	// BuiltinNext is the boxed value of the base library's next function,
	// once library/base.go registers it, enabling KVLoopIter's fast path
	// (spec §4.5 "ValidateIsNextAndBranch").
	BuiltinNext value.Value
}

// New creates a VM with a fresh interner, heap registry, and root table
// shape, interning every metamethod name it needs up front so every
// comparison later is a pointer compare.
func New() *VM {
	interner := luastring.New()
	vm := &VM{
		Interner:             interner,
		Heap:                 heap.NewRegistry(),
		RootShape:            structure.NewRoot(4),
		MaxErrorHandlerDepth: 50,
		BuiltinNext:          value.Nil,
	}
	vm.MetaNames = table.MetaNames{
		Index:    interner.Intern([]byte("__index")),
		NewIndex: interner.Intern([]byte("__newindex")),
	}
	vm.mmAdd = interner.Intern([]byte("__add"))
	vm.mmSub = interner.Intern([]byte("__sub"))
	vm.mmMul = interner.Intern([]byte("__mul"))
	vm.mmDiv = interner.Intern([]byte("__div"))
	vm.mmMod = interner.Intern([]byte("__mod"))
	vm.mmPow = interner.Intern([]byte("__pow"))
	vm.mmUnm = interner.Intern([]byte("__unm"))
	vm.mmConcat = interner.Intern([]byte("__concat"))
	vm.mmLen = interner.Intern([]byte("__len"))
	vm.mmEq = interner.Intern([]byte("__eq"))
	vm.mmLt = interner.Intern([]byte("__lt"))
	vm.mmLe = interner.Intern([]byte("__le"))
	vm.mmCall = interner.Intern([]byte("__call"))
	return vm
}

// NewTable creates an empty table rooted at the VM's shared root shape.
func (vm *VM) NewTable() *table.Table { return table.New(vm.RootShape) }

// Current returns the coroutine whose frame is presently executing, so
// that library functions outside this package (base pcall/xpcall,
// coroutine.*) can reach the same single active coroutine Call1 uses.
func (vm *VM) Current() *coroutine.Coroutine { return vm.current }

// SetCurrent installs co as the presently executing coroutine. Used by
// the coroutine library to hand off vm.current across a Resume, since
// each coroutine body runs on its own goroutine but only ever one of
// them executes interpreted code at a time.
func (vm *VM) SetCurrent(co *coroutine.Coroutine) *coroutine.Coroutine {
	prev := vm.current
	vm.current = co
	return prev
}
