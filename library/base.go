package library

import (
	"fmt"
	"os"
	"strings"

	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// RegisterBase installs the functions grounded on lib_base.cpp: print,
// tostring, tonumber, type, assert, error, pcall, xpcall, ipairs, pairs,
// next, the raw* family, setmetatable/getmetatable, select, unpack.
func RegisterBase(r *Registry, vm *interp.VM) {
	r.Define("print", libPrint)
	r.Define("tostring", libToString)
	r.Define("tonumber", libToNumber)
	r.Define("type", libType)
	r.Define("assert", libAssert)
	r.Define("error", libError)
	r.Define("pcall", libPcall)
	r.Define("xpcall", libXpcall)
	r.Define("ipairs", libIpairs)
	r.Define("pairs", libPairs)
	r.Define("next", libNext)
	r.Define("rawget", libRawGet)
	r.Define("rawset", libRawSet)
	r.Define("rawequal", libRawEqual)
	r.Define("rawlen", libRawLen)
	r.Define("setmetatable", libSetMetatable)
	r.Define("getmetatable", libGetMetatable)
	r.Define("select", libSelect)
	r.Define("unpack", libUnpack)
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Nil
}

func libPrint(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = displayString(vm, a)
	}
	fmt.Fprintln(os.Stdout, strings.Join(parts, "\t"))
	return nil, nil
}

// DisplayString renders v the way print and tostring do, for callers
// outside this package (the luavm CLI printing a chunk's results).
func DisplayString(vm *interp.VM, v value.Value) string {
	return displayString(vm, v)
}

func displayString(vm *interp.VM, v value.Value) string {
	if s, ok := vm.ToDisplayString(v); ok {
		return s
	}
	if v.IsNil() {
		return "nil"
	}
	if v.IsBool() {
		return fmt.Sprintf("%v", v.IsTrue())
	}
	return fmt.Sprintf("%s: %p", vm.TypeName(v), addressOf(vm, v))
}

func addressOf(vm *interp.VM, v value.Value) any {
	if t, ok := vm.LookupTable(v); ok {
		return t
	}
	if f, ok := vm.LookupFunction(v); ok {
		return f
	}
	return nil
}

func libToString(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	return []value.Value{vm.StringValue(displayString(vm, arg(args, 0)))}, nil
}

func libToNumber(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	f, ok := vm.ToNumber(arg(args, 0))
	if !ok {
		return []value.Value{value.Nil}, nil
	}
	return []value.Value{value.FromDouble(f)}, nil
}

func libType(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	return []value.Value{vm.StringValue(vm.TypeName(arg(args, 0)))}, nil
}

func libAssert(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	v := arg(args, 0)
	if v.IsTruthy() {
		return args, nil
	}
	msg := arg(args, 1)
	if msg.IsNil() {
		return nil, &errors.Error{Phase: errors.PhaseLibrary, Kind: errors.KindDomainError, Detail: "assertion failed!", LuaValue: vm.StringValue("assertion failed!")}
	}
	return nil, &errors.Error{Phase: errors.PhaseLibrary, Kind: errors.KindDomainError, LuaValue: msg}
}

// libError implements error(message, level): level is accepted but
// ignored (SPEC_FULL §8-9 Open Question decision).
func libError(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	return nil, &errors.Error{Phase: errors.PhaseLibrary, Kind: errors.KindDomainError, LuaValue: arg(args, 0)}
}

func libPcall(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if len(args) == 0 {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #1 to 'pcall' (value expected)")
	}
	return vm.Pcall(vm.Current(), args[0], args[1:]), nil
}

func libXpcall(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if len(args) < 2 {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #2 to 'xpcall' (value expected)")
	}
	return vm.Xpcall(vm.Current(), args[0], args[1], args[2:]), nil
}

func libIpairs(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'ipairs' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	iter := func(vm *interp.VM, iterArgs []value.Value) ([]value.Value, error) {
		i := int64(arg(iterArgs, 1).AsDouble()) + 1
		v := t.RawGetByIntegerIndex(i)
		if v.IsNil() {
			return []value.Value{value.Nil}, nil
		}
		return []value.Value{value.FromDouble(float64(i)), v}, nil
	}
	return []value.Value{wrap(vm, iter), arg(args, 0), value.FromDouble(0)}, nil
}

func libPairs(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if _, ok := vm.LookupTable(arg(args, 0)); !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'pairs' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	return []value.Value{vm.BuiltinNext, arg(args, 0), value.Nil}, nil
}

func libNext(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'next' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	k, v, valid := t.Next(vm.Heap, arg(args, 1))
	if !valid {
		return nil, errors.DomainError(errors.PhaseLibrary, "invalid key to 'next'")
	}
	if k.IsNil() {
		return []value.Value{value.Nil}, nil
	}
	return []value.Value{k, v}, nil
}

func libRawGet(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'rawget' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	v, _ := rawGetByVal(vm, t, arg(args, 1))
	return []value.Value{v}, nil
}

func rawGetByVal(vm *interp.VM, t *table.Table, key value.Value) (value.Value, bool) {
	if key.IsInt32() {
		return t.RawGetByIntegerIndex(int64(key.AsInt32())), true
	}
	if key.IsDouble() {
		i := int64(key.AsDouble())
		if float64(i) == key.AsDouble() {
			return t.RawGetByIntegerIndex(i), true
		}
	}
	if s, ok := vm.LookupString(key); ok {
		return t.RawGetById(s), true
	}
	return value.Nil, false
}

func libRawSet(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'rawset' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	key, v := arg(args, 1), arg(args, 2)
	if key.IsInt32() {
		t.RawPutByIntegerIndex(int64(key.AsInt32()), v)
	} else if key.IsDouble() {
		t.RawPutByIntegerIndex(int64(key.AsDouble()), v)
	} else if s, ok := vm.LookupString(key); ok {
		t.RawPutById(s, v)
	} else {
		return nil, errors.DomainError(errors.PhaseLibrary, "table index is nil or NaN")
	}
	return []value.Value{arg(args, 0)}, nil
}

func libRawEqual(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	return []value.Value{value.FromBool(arg(args, 0) == arg(args, 1))}, nil
}

func libRawLen(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if t, ok := vm.LookupTable(arg(args, 0)); ok {
		return []value.Value{value.FromDouble(float64(t.Len()))}, nil
	}
	if s, ok := vm.LookupString(arg(args, 0)); ok {
		return []value.Value{value.FromDouble(float64(len(s.Data)))}, nil
	}
	return nil, errors.TypeError(errors.PhaseLibrary, "table or string expected")
}

func libSetMetatable(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'setmetatable' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	mtVal := arg(args, 1)
	if mtVal.IsNil() {
		t.SetMetatable(vm.Heap, nil)
		return []value.Value{arg(args, 0)}, nil
	}
	mt, ok := vm.LookupTable(mtVal)
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #2 to 'setmetatable' (nil or table expected)")
	}
	t.SetMetatable(vm.Heap, mt)
	return []value.Value{arg(args, 0)}, nil
}

func libGetMetatable(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return []value.Value{value.Nil}, nil
	}
	mt := t.Metatable(vm.Heap)
	if mt == nil {
		return []value.Value{value.Nil}, nil
	}
	return []value.Value{mt.AsValue(vm.Heap)}, nil
}

func libSelect(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	first := arg(args, 0)
	if s, ok := vm.LookupString(first); ok && string(s.Data) == "#" {
		return []value.Value{value.FromDouble(float64(len(args) - 1))}, nil
	}
	n, ok := vm.ToNumber(first)
	if !ok || n < 1 {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #1 to 'select' (index out of range)")
	}
	idx := int(n)
	if idx >= len(args) {
		return nil, nil
	}
	return args[idx:], nil
}

func libUnpack(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'unpack' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	start := int64(1)
	if s, ok := vm.ToNumber(arg(args, 1)); ok {
		start = int64(s)
	}
	stop := t.Len()
	if e, ok := vm.ToNumber(arg(args, 2)); ok {
		stop = int64(e)
	}
	if stop < start {
		return nil, nil
	}
	out := make([]value.Value, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		out = append(out, t.RawGetByIntegerIndex(i))
	}
	return out, nil
}
