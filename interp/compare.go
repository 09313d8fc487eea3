package interp

import (
	"bytes"

	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/value"
)

// lessThan implements LT (spec §4.5 "Comparison"): double/double uses
// IEEE `<` (so NaN compares false both ways; NOTLT is the negation of
// this result, which differs from LE with swapped operands under NaN),
// string/string is lexicographic, table/table requires both operands
// share one __lt metamethod object.
func (vm *VM) lessThan(co *coroutine.Coroutine, a, b value.Value) (bool, error) {
	if af, aok := directNumber(a); aok {
		if bf, bok := directNumber(b); bok {
			return af < bf, nil
		}
	}
	if as, aok := vm.LookupString(a); aok {
		if bs, bok := vm.LookupString(b); bok {
			return bytes.Compare(as.Data, bs.Data) < 0, nil
		}
	}
	return vm.comparisonMetamethod(co, vm.mmLt, a, b)
}

// lessEqual implements LE, with Lua 5.1's additional requirement that
// both operands be the same primitive type.
func (vm *VM) lessEqual(co *coroutine.Coroutine, a, b value.Value) (bool, error) {
	if af, aok := directNumber(a); aok {
		if bf, bok := directNumber(b); bok {
			return af <= bf, nil
		}
	}
	if as, aok := vm.LookupString(a); aok {
		if bs, bok := vm.LookupString(b); bok {
			return bytes.Compare(as.Data, bs.Data) <= 0, nil
		}
	}
	return vm.comparisonMetamethod(co, vm.mmLe, a, b)
}

// comparisonMetamethod requires both operands be tables sharing the same
// metamethod object (spec §4.5 "GetMetamethodFromMetatableForComparisonOperation").
func (vm *VM) comparisonMetamethod(co *coroutine.Coroutine, mm *luastring.String, a, b value.Value) (bool, error) {
	amt := vm.metatableOf(a)
	bmt := vm.metatableOf(b)
	if amt == nil || bmt == nil {
		return false, errors.TypeError(errors.PhaseArith, "attempt to compare %s with %s", vm.TypeName(a), vm.TypeName(b))
	}
	ah := amt.RawGetById(mm)
	bh := bmt.RawGetById(mm)
	if ah.IsNil() || ah != bh {
		return false, errors.TypeError(errors.PhaseArith, "attempt to compare two %s values", vm.TypeName(a))
	}
	r, err := vm.Call(co, ah, []value.Value{a, b})
	if err != nil {
		return false, err
	}
	return firstOrNil(r).IsTruthy(), nil
}

// rawEqual implements EQ/NEQ's reflexive-plus-metamethod shape (spec
// §4.5 "Equality"): two doubles compare with IEEE `==` (so NaN is never
// equal to itself), then bit-identical values are equal (nil, booleans,
// int32, pointer identity), then two strings compare by content, then a
// table-table pair consults a shared __eq.
func (vm *VM) rawEqual(co *coroutine.Coroutine, a, b value.Value) (bool, error) {
	if a.IsDouble() && b.IsDouble() {
		return a.AsDouble() == b.AsDouble(), nil
	}
	if a == b {
		return true, nil
	}
	if as, aok := vm.LookupString(a); aok {
		if bs, bok := vm.LookupString(b); bok {
			return bytes.Equal(as.Data, bs.Data), nil
		}
		return false, nil
	}
	at, aok := vm.LookupTable(a)
	bt, bok := vm.LookupTable(b)
	if aok && bok {
		amt := at.Metatable(vm.Heap)
		bmt := bt.Metatable(vm.Heap)
		if amt != nil && bmt != nil {
			ah := amt.RawGetById(vm.mmEq)
			bh := bmt.RawGetById(vm.mmEq)
			if !ah.IsNil() && ah == bh {
				r, err := vm.Call(co, ah, []value.Value{a, b})
				if err != nil {
					return false, err
				}
				return firstOrNil(r).IsTruthy(), nil
			}
		}
	}
	return false, nil
}

func directNumber(v value.Value) (float64, bool) {
	if v.IsDouble() {
		return v.AsDouble(), true
	}
	if v.IsInt32() {
		return float64(v.AsInt32()), true
	}
	return 0, false
}
