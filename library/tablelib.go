package library

import (
	"strings"

	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/value"
)

// RegisterTable installs table.insert, table.remove, table.concat, and
// table.getn, grounded on lib_table.cpp. Pattern-free string library
// functions and everything else lib_table.cpp covers (sort, foreachi)
// are out of scope per spec.md's Non-goals.
func RegisterTable(r *Registry) {
	r.DefineModule("table", "insert", tableInsert)
	r.DefineModule("table", "remove", tableRemove)
	r.DefineModule("table", "concat", tableConcat)
	r.DefineModule("table", "getn", tableGetn)
}

func tableInsert(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'insert' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	n := t.Len()
	if len(args) <= 2 {
		t.RawPutByIntegerIndex(n+1, arg(args, 1))
		return nil, nil
	}
	pos, ok := vm.ToNumber(arg(args, 1))
	if !ok {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #2 to 'insert' (number expected)")
	}
	p := int64(pos)
	for i := n + 1; i > p; i-- {
		t.RawPutByIntegerIndex(i, t.RawGetByIntegerIndex(i-1))
	}
	t.RawPutByIntegerIndex(p, arg(args, 2))
	return nil, nil
}

func tableRemove(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'remove' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	n := t.Len()
	if n == 0 {
		return []value.Value{value.Nil}, nil
	}
	pos := n
	if p, ok := vm.ToNumber(arg(args, 1)); ok {
		pos = int64(p)
	}
	removed := t.RawGetByIntegerIndex(pos)
	for i := pos; i < n; i++ {
		t.RawPutByIntegerIndex(i, t.RawGetByIntegerIndex(i+1))
	}
	t.RawPutByIntegerIndex(n, value.Nil)
	return []value.Value{removed}, nil
}

func tableConcat(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'concat' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	sep := ""
	if s, ok := vm.LookupString(arg(args, 1)); ok {
		sep = string(s.Data)
	}
	start := int64(1)
	if s, ok := vm.ToNumber(arg(args, 2)); ok {
		start = int64(s)
	}
	stop := t.Len()
	if e, ok := vm.ToNumber(arg(args, 3)); ok {
		stop = int64(e)
	}
	var parts []string
	for i := start; i <= stop; i++ {
		s, ok := vm.ToDisplayString(t.RawGetByIntegerIndex(i))
		if !ok {
			return nil, errors.TypeError(errors.PhaseLibrary, "invalid value (at index %d) in table for 'concat'", i)
		}
		parts = append(parts, s)
	}
	return []value.Value{vm.StringValue(strings.Join(parts, sep))}, nil
}

func tableGetn(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	t, ok := vm.LookupTable(arg(args, 0))
	if !ok {
		return nil, errors.TypeError(errors.PhaseLibrary, "bad argument #1 to 'getn' (table expected, got %s)", vm.TypeName(arg(args, 0)))
	}
	return []value.Value{value.FromDouble(float64(t.Len()))}, nil
}
