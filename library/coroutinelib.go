package library

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/value"
)

// RegisterCoroutine installs coroutine.create/resume/yield/status/wrap/
// running directly on coroutine.Coroutine's Resume/Yield transfer pair
// (spec §4.7), grounded on lib_coroutine.cpp. Scheduling beyond transfer
// of control is out of scope per spec.md's Non-goals.
func RegisterCoroutine(r *Registry) {
	r.DefineModule("coroutine", "create", coroCreate)
	r.DefineModule("coroutine", "resume", coroResume)
	r.DefineModule("coroutine", "yield", coroYield)
	r.DefineModule("coroutine", "status", coroStatus)
	r.DefineModule("coroutine", "wrap", coroWrap)
	r.DefineModule("coroutine", "running", coroRunning)
}

func newLuaCoroutine(vm *interp.VM, fn value.Value) *coroutine.Coroutine {
	var co *coroutine.Coroutine
	co = coroutine.New(nil, func(body *coroutine.Coroutine, args []value.Value) ([]value.Value, error) {
		return vm.Call(body, fn, args)
	})
	return co
}

func coroCreate(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if _, ok := vm.LookupFunction(arg(args, 0)); !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'create' (function expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	co := newLuaCoroutine(vm, args[0])
	return []value.Value{co.AsValue(vm.Heap)}, nil
}

func resolveCoroutine(vm *interp.VM, v value.Value) (*coroutine.Coroutine, error) {
	co, ok := coroutine.FromValue(vm.Heap, v)
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 (coroutine expected, got %s)", vm.TypeName(v))
	}
	return co, nil
}

func coroResume(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	co, err := resolveCoroutine(vm, arg(args, 0))
	if err != nil {
		return nil, err
	}
	prev := vm.SetCurrent(co)
	results, rerr := co.Resume(args[1:])
	vm.SetCurrent(prev)
	if rerr != nil {
		return append([]value.Value{value.False}, vm.ErrorValue(rerr)), nil
	}
	return append([]value.Value{value.True}, results...), nil
}

func coroYield(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	co := vm.Current()
	if co == nil {
		return nil, errors.DomainError(errors.PhaseCoroutine, "attempt to yield from outside a coroutine")
	}
	return co.Yield(args), nil
}

func coroStatus(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	co, err := resolveCoroutine(vm, arg(args, 0))
	if err != nil {
		return nil, err
	}
	return []value.Value{vm.StringValue(co.Status.String())}, nil
}

func coroWrap(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if _, ok := vm.LookupFunction(arg(args, 0)); !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'wrap' (function expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	co := newLuaCoroutine(vm, args[0])
	wrapped := func(vm *interp.VM, callArgs []value.Value) ([]value.Value, error) {
		prev := vm.SetCurrent(co)
		results, err := co.Resume(callArgs)
		vm.SetCurrent(prev)
		return results, err
	}
	return []value.Value{wrap(vm, wrapped)}, nil
}

func coroRunning(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	co := vm.Current()
	if co == nil {
		return []value.Value{value.Nil}, nil
	}
	return []value.Value{co.AsValue(vm.Heap)}, nil
}
