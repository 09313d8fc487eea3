package interp

import (
	"strconv"
	"strings"

	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// TypeName returns the Lua-visible type name of v (spec §7 error
// messages reference this, e.g. "attempt to call a table value").
func (vm *VM) TypeName(v value.Value) string {
	if !v.IsPointer() {
		switch {
		case v.IsNil():
			return "nil"
		case v.IsBool():
			return "boolean"
		default:
			return "number"
		}
	}
	switch vm.Heap.Lookup(heap.HandleOf(v)).(type) {
	case *luastring.String:
		return "string"
	case *table.Table:
		return "table"
	case *object.FunctionObject:
		return "function"
	case *coroutine.Coroutine:
		return "thread"
	default:
		return "userdata"
	}
}

// ToNumber attempts the coercion arithmetic bytecodes fall back to: a
// double or int32 is itself a number, and a string is parsed as Lua
// number syntax allows, including hex literals (spec §4.5 "attempt
// string-to-number coercion on both operands").
func (vm *VM) ToNumber(v value.Value) (float64, bool) {
	if v.IsDouble() {
		return v.AsDouble(), true
	}
	if v.IsInt32() {
		return float64(v.AsInt32()), true
	}
	s, ok := vm.LookupString(v)
	if !ok {
		return 0, false
	}
	return parseLuaNumber(string(s.Data))
}

func parseLuaNumber(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, false
	}
	neg := false
	rest := t
	if rest[0] == '+' || rest[0] == '-' {
		neg = rest[0] == '-'
		rest = rest[1:]
	}
	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		i, err := strconv.ParseInt(rest[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		f := float64(i)
		if neg {
			f = -f
		}
		return f, true
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToDisplayString renders v the way tostring()/concat's fast path does
// for numbers, and returns the raw bytes unchanged for strings (spec
// §4.5 "coerce numbers to strings in place").
func (vm *VM) ToDisplayString(v value.Value) (string, bool) {
	if v.IsDouble() {
		return formatLuaNumber(v.AsDouble()), true
	}
	if v.IsInt32() {
		return strconv.FormatInt(int64(v.AsInt32()), 10), true
	}
	if s, ok := vm.LookupString(v); ok {
		return string(s.Data), true
	}
	return "", false
}

func formatLuaNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 14, 64)
}

// LookupString resolves v to its *luastring.String if v boxes one.
func (vm *VM) LookupString(v value.Value) (*luastring.String, bool) {
	return luastring.FromValue(vm.Heap, v)
}

// LookupTable resolves v to its *table.Table if v boxes one.
func (vm *VM) LookupTable(v value.Value) (*table.Table, bool) {
	return table.FromValue(vm.Heap, v)
}

// LookupFunction resolves v to its *object.FunctionObject if v boxes one.
func (vm *VM) LookupFunction(v value.Value) (*object.FunctionObject, bool) {
	return object.FromValue(vm.Heap, v)
}
