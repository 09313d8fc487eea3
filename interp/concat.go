package interp

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/value"
)

// concat implements CONCAT over a range of values (spec §4.5 "Concat").
// The fast path coerces numbers to strings in place and interns the
// whole slice in one call; the slow path walks right-to-left, folding
// adjacent string/number operands and handing any other pairing to
// __concat.
func (vm *VM) concat(co *coroutine.Coroutine, values []value.Value) (value.Value, error) {
	if len(values) == 1 {
		if _, ok := vm.ToDisplayString(values[0]); ok {
			return values[0], nil
		}
	}
	if allConcatable(vm, values) {
		parts := make([][]byte, len(values))
		for i, v := range values {
			s, _ := vm.ToDisplayString(v)
			parts[i] = []byte(s)
		}
		s := vm.Interner.InternConcat(parts...)
		return luastring.ToValue(vm.Heap, s), nil
	}
	return vm.concatSlow(co, values)
}

func (vm *VM) concatSlow(co *coroutine.Coroutine, values []value.Value) (value.Value, error) {
	tail := values[len(values)-1]
	for i := len(values) - 2; i >= 0; i-- {
		left := values[i]
		ls, lok := vm.ToDisplayString(left)
		ts, tok := vm.ToDisplayString(tail)
		if lok && tok {
			tail = luastring.ToValue(vm.Heap, vm.Interner.InternConcat([]byte(ls), []byte(ts)))
			continue
		}
		r, err := vm.concatMetamethod(co, left, tail)
		if err != nil {
			return value.Nil, err
		}
		tail = r
	}
	return tail, nil
}

func (vm *VM) concatMetamethod(co *coroutine.Coroutine, a, b value.Value) (value.Value, error) {
	v, handled, err := vm.tryBinaryMetamethod(co, vm.mmConcat, a, b)
	if handled {
		return v, err
	}
	bad := a
	if _, ok := vm.ToDisplayString(a); ok {
		bad = b
	}
	return value.Nil, errors.TypeError(errors.PhaseArith, "attempt to concatenate a %s value", vm.TypeName(bad))
}

func allConcatable(vm *VM, values []value.Value) bool {
	for _, v := range values {
		if _, ok := vm.ToDisplayString(v); !ok {
			return false
		}
	}
	return true
}
