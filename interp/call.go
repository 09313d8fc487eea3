package interp

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// maxCallDepth bounds interpreted call recursion. The Go call stack would
// eventually overflow on its own, but a deliberate cap turns that into a
// catchable Lua error instead of a process crash (spec §4.6 stack
// overflow is a Kind, not a panic).
const maxCallDepth = 220

// Call invokes fn with args on co, the single entry point CALL, TAILCALL,
// CALLM, CALLMT, pcall/xpcall, and every metamethod dispatch go through
// (spec §4.5 "Call / TailCall / CallM / CallMT").
func (vm *VM) Call(co *coroutine.Coroutine, fn value.Value, args []value.Value) ([]value.Value, error) {
	f, ok := vm.LookupFunction(fn)
	if !ok {
		return vm.callNonFunction(co, fn, args)
	}
	return vm.callFunction(co, f, args)
}

// callNonFunction implements "if the callee is not a function, consult
// its metatable's __call; if present, the metamethod is prepended as the
// new callee with the original callee shifted into argument position 0"
// (spec §4.5).
func (vm *VM) callNonFunction(co *coroutine.Coroutine, callee value.Value, args []value.Value) ([]value.Value, error) {
	if mt := vm.metatableOf(callee); mt != nil {
		if h := mt.RawGetById(vm.mmCall); !h.IsNil() {
			newArgs := make([]value.Value, 0, len(args)+1)
			newArgs = append(newArgs, callee)
			newArgs = append(newArgs, args...)
			return vm.Call(co, h, newArgs)
		}
	}
	return nil, errors.TypeError(errors.PhaseCall, "attempt to call a %s value", vm.TypeName(callee))
}

func (vm *VM) callFunction(co *coroutine.Coroutine, f *object.FunctionObject, args []value.Value) ([]value.Value, error) {
	switch f.Executable.Kind {
	case object.KindCFunction, object.KindIntrinsic:
		return f.Executable.Native(args)
	default:
		if depthOf(co) >= maxCallDepth {
			return nil, errors.StackOverflow(errors.PhaseCall)
		}
		return vm.runInterpreted(co, f, args)
	}
}

func depthOf(co *coroutine.Coroutine) int {
	n := 0
	for f := co.CurrentFrame(); f != nil; f = f.Caller {
		n++
	}
	return n
}

// Call1 implements table.Caller, the single-result shape table access
// uses to invoke __index/__newindex functions (spec §4.2 step 3). It
// runs on vm.current, the coroutine whose frame is presently executing —
// there is always exactly one, since coroutine bodies hand off control
// over a channel rather than running concurrently.
func (vm *VM) Call1(fn value.Value, args ...value.Value) (value.Value, error) {
	results, err := vm.Call(vm.current, fn, args)
	if err != nil {
		return value.Nil, err
	}
	if len(results) == 0 {
		return value.Nil, nil
	}
	return results[0], nil
}

var _ table.Caller = (*VM)(nil)

// metatableOf returns v's metatable if v is a table, else nil. Strings,
// functions, and threads carry no user-assignable metatable in this
// runtime's scope (spec §3.5 restricts SetMetatable to tables).
func (vm *VM) metatableOf(v value.Value) *table.Table {
	t, ok := vm.LookupTable(v)
	if !ok {
		return nil
	}
	return t.Metatable(vm.Heap)
}

// runInterpreted pushes a fresh frame for f onto co's stack, copies args
// into its fixed parameters (and overflow into varargs if f is vararg),
// runs the dispatch loop, and tears the frame back down on the way out.
func (vm *VM) runInterpreted(co *coroutine.Coroutine, f *object.FunctionObject, args []value.Value) ([]value.Value, error) {
	prevCurrent := vm.current
	vm.current = co
	defer func() { vm.current = prevCurrent }()

	block := f.Executable.Code
	base := co.Top
	frameSize := int64(block.FrameSize())
	needed := base + frameSize
	for int64(len(co.Stack)) < needed {
		co.Stack = append(co.Stack, value.Nil)
	}
	for i := base; i < needed; i++ {
		co.Stack[i] = value.Nil
	}

	numFixed := int(block.NumFixedParams)
	for i := 0; i < numFixed && i < len(args); i++ {
		co.Stack[base+int64(i)] = args[i]
	}
	var varargs []value.Value
	if block.IsVararg && len(args) > numFixed {
		varargs = append([]value.Value{}, args[numFixed:]...)
	}
	co.Top = needed

	frame := &coroutine.Frame{Function: f, Base: base, NumVariadicArguments: len(varargs)}
	co.PushFrame(frame)

	st := newFrameState(vm, co, frame, f, varargs)
	results, err := vm.dispatch(st)

	co.PopFrame()
	co.CloseUpvaluesFrom(base)
	co.Top = base
	return results, err
}
