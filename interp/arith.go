package interp

import (
	"math"

	"github.com/luacore/vm/bytecode"
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/value"
)

// arith implements ADD/SUB/MUL/DIV/MOD/POW (spec §4.5 "Arithmetic"): the
// fast path requires both operands already be doubles, the slow path
// tries the left operand's metamethod then the right's, then
// string-to-number coercion on both, erroring only once every option is
// exhausted.
func (vm *VM) arith(co *coroutine.Coroutine, op bytecode.Opcode, a, b value.Value) (value.Value, error) {
	if a.IsDouble() && b.IsDouble() {
		return value.FromDouble(applyArith(op, a.AsDouble(), b.AsDouble())), nil
	}

	mm := vm.arithMetamethod(op)
	if v, handled, err := vm.tryBinaryMetamethod(co, mm, a, b); handled {
		return v, err
	}

	an, aok := vm.ToNumber(a)
	bn, bok := vm.ToNumber(b)
	if aok && bok {
		return value.FromDouble(applyArith(op, an, bn)), nil
	}
	return value.Nil, errors.TypeError(errors.PhaseArith, "invalid types for arithmetic")
}

func applyArith(op bytecode.Opcode, a, b float64) float64 {
	switch op {
	case bytecode.OpAdd:
		return a + b
	case bytecode.OpSub:
		return a - b
	case bytecode.OpMul:
		return a * b
	case bytecode.OpDiv:
		return a / b
	case bytecode.OpMod:
		return luaMod(a, b)
	case bytecode.OpPow:
		return luaPow(a, b)
	default:
		return math.NaN()
	}
}

// luaMod implements Lua's a - floor(a/b)*b via fmod with a sign
// correction, rather than the floor-division formula directly, matching
// the original's "implemented via fmod with sign correction" (spec
// §4.5).
func luaMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// luaPow special-cases small integer exponents with repeated squaring
// before falling back to libm (spec §4.5 "specialized integer-exponent
// fast-path for |e| < 128").
func luaPow(a, b float64) float64 {
	if e := int64(b); float64(e) == b && e > -128 && e < 128 {
		return intPow(a, e)
	}
	return math.Pow(a, b)
}

func intPow(a float64, e int64) float64 {
	neg := e < 0
	if neg {
		e = -e
	}
	result := 1.0
	base := a
	for e > 0 {
		if e&1 == 1 {
			result *= base
		}
		base *= base
		e >>= 1
	}
	if neg {
		return 1 / result
	}
	return result
}

// unm implements UNM, with the same metamethod fallback shape as the
// binary operators but against a single operand and only __unm.
func (vm *VM) unm(co *coroutine.Coroutine, v value.Value) (value.Value, error) {
	if v.IsDouble() {
		return value.FromDouble(-v.AsDouble()), nil
	}
	if n, ok := vm.ToNumber(v); ok {
		return value.FromDouble(-n), nil
	}
	if mt := vm.metatableOf(v); mt != nil {
		if h := mt.RawGetById(vm.mmUnm); !h.IsNil() {
			r, err := vm.Call1(h, v, v)
			return r, err
		}
	}
	return value.Nil, errors.TypeError(errors.PhaseArith, "invalid types for arithmetic")
}

// length implements LEN (spec §4.5 "Length"): strings use their byte
// length, tables consult __len before falling back to the array part's
// length, anything else is an error.
func (vm *VM) length(co *coroutine.Coroutine, v value.Value) (value.Value, error) {
	if s, ok := vm.LookupString(v); ok {
		return value.FromDouble(float64(len(s.Data))), nil
	}
	if t, ok := vm.LookupTable(v); ok {
		if mt := t.Metatable(vm.Heap); mt != nil {
			if h := mt.RawGetById(vm.mmLen); !h.IsNil() {
				r, err := vm.Call(co, h, []value.Value{v})
				if err != nil {
					return value.Nil, err
				}
				return firstOrNil(r), nil
			}
		}
		return value.FromDouble(float64(t.Len())), nil
	}
	return value.Nil, errors.TypeError(errors.PhaseArith, "attempt to get length of a %s value", vm.TypeName(v))
}

func (vm *VM) arithMetamethod(op bytecode.Opcode) *luastring.String {
	switch op {
	case bytecode.OpAdd:
		return vm.mmAdd
	case bytecode.OpSub:
		return vm.mmSub
	case bytecode.OpMul:
		return vm.mmMul
	case bytecode.OpDiv:
		return vm.mmDiv
	case bytecode.OpMod:
		return vm.mmMod
	case bytecode.OpPow:
		return vm.mmPow
	default:
		return nil
	}
}

// tryBinaryMetamethod looks up mm on a's metatable, then b's, calling the
// first one found with (a, b). handled is false if neither operand's
// metatable defines mm, meaning the caller should fall through to its
// own next fallback.
func (vm *VM) tryBinaryMetamethod(co *coroutine.Coroutine, mm *luastring.String, a, b value.Value) (result value.Value, handled bool, err error) {
	if mm == nil {
		return value.Nil, false, nil
	}
	if mt := vm.metatableOf(a); mt != nil {
		if h := mt.RawGetById(mm); !h.IsNil() {
			r, err := vm.Call(co, h, []value.Value{a, b})
			return firstOrNil(r), true, err
		}
	}
	if mt := vm.metatableOf(b); mt != nil {
		if h := mt.RawGetById(mm); !h.IsNil() {
			r, err := vm.Call(co, h, []value.Value{a, b})
			return firstOrNil(r), true, err
		}
	}
	return value.Nil, false, nil
}

func firstOrNil(vs []value.Value) value.Value {
	if len(vs) == 0 {
		return value.Nil
	}
	return vs[0]
}
