package interp

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/value"
)

// Pcall implements pcall(f, ...) (spec §4.6): invoke f and convert any
// error into a (false, errValue) pair instead of propagating it. Every
// interpreted frame between the error site and here closes its own open
// upvalues as Go's call stack unwinds through runInterpreted's teardown,
// which is this runtime's substitute for the original's explicit
// walk-and-close over upvalues >= protected-frame-base.
func (vm *VM) Pcall(co *coroutine.Coroutine, f value.Value, args []value.Value) []value.Value {
	results, err := vm.Call(co, f, args)
	if err != nil {
		return []value.Value{value.False, vm.errorValue(err)}
	}
	return append([]value.Value{value.True}, results...)
}

// Xpcall implements xpcall(f, handler, ...). On error, handler is
// invoked with the error value; its first result replaces the error in
// the returned pair. Nested handler invocations are capped by
// MaxErrorHandlerDepth, the plain-counter substitute for the original's
// stack-walk recursion guard (spec §4.6, see interp/doc.go).
func (vm *VM) Xpcall(co *coroutine.Coroutine, f, handler value.Value, args []value.Value) []value.Value {
	results, err := vm.Call(co, f, args)
	if err == nil {
		return append([]value.Value{value.True}, results...)
	}
	if vm.errorHandlerDepth >= vm.MaxErrorHandlerDepth {
		return []value.Value{value.False, vm.errorValue(errors.ErrorInErrorHandling())}
	}
	vm.errorHandlerDepth++
	hResults, hErr := vm.Call(co, handler, []value.Value{vm.errorValue(err)})
	vm.errorHandlerDepth--
	if hErr != nil {
		return []value.Value{value.False, vm.errorValue(hErr)}
	}
	return []value.Value{value.False, firstOrNil(hResults)}
}

// errorValue recovers the Lua value an error carries for propagation
// through pcall/xpcall's result slot (spec §4.6, §7 "ThrowError(v)
// propagates the Lua value as-is"): errors raised from Lua code via
// error(v) preserve v verbatim; errors raised internally by the VM are
// rendered to a Lua string.
func (vm *VM) errorValue(err error) value.Value {
	if le, ok := err.(*errors.Error); ok {
		if lv, ok := le.LuaValue.(value.Value); ok {
			return lv
		}
		return vm.stringValue(le.Error())
	}
	return vm.stringValue(err.Error())
}

func (vm *VM) stringValue(s string) value.Value {
	return luastring.ToValue(vm.Heap, vm.Interner.Intern([]byte(s)))
}

// StringValue interns s and boxes it as a Lua string value.Value, for
// callers outside this package (library functions building results).
func (vm *VM) StringValue(s string) value.Value { return vm.stringValue(s) }

// ErrorValue exposes errorValue to callers outside this package (the
// coroutine library renders a failed Resume's error the same way
// pcall does).
func (vm *VM) ErrorValue(err error) value.Value { return vm.errorValue(err) }
