package library

import (
	"math"

	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/value"
)

// RegisterMath installs math.floor/ceil/abs/max/min/sqrt and the
// math.huge/math.pi constants. Transcendentals beyond this set
// (sin/cos/log/...) stay stubbed per spec.md's Open Question.
func RegisterMath(r *Registry) {
	r.DefineModule("math", "floor", mathFloor)
	r.DefineModule("math", "ceil", mathCeil)
	r.DefineModule("math", "abs", mathAbs)
	r.DefineModule("math", "max", mathMax)
	r.DefineModule("math", "min", mathMin)
	r.DefineModule("math", "sqrt", mathSqrt)
	r.DefineConstant("math", "huge", func(vm *interp.VM) value.Value { return value.FromDouble(math.Inf(1)) })
	r.DefineConstant("math", "pi", func(vm *interp.VM) value.Value { return value.FromDouble(math.Pi) })

	for _, name := range []string{"sin", "cos", "tan", "log", "exp", "random", "randomseed", "fmod", "modf"} {
		Stub(r, "math", name)
	}
}

func argNumber(vm *interp.VM, args []value.Value, i int, who string) (float64, error) {
	n, ok := vm.ToNumber(arg(args, i))
	if !ok {
		return 0, errors.TypeError(errors.PhaseLibrary, "bad argument #%d to '%s' (number expected, got %s)", i+1, who, vm.TypeName(arg(args, i)))
	}
	return n, nil
}

func mathFloor(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	n, err := argNumber(vm, args, 0, "floor")
	if err != nil {
		return nil, err
	}
	return []value.Value{value.FromDouble(math.Floor(n))}, nil
}

func mathCeil(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	n, err := argNumber(vm, args, 0, "ceil")
	if err != nil {
		return nil, err
	}
	return []value.Value{value.FromDouble(math.Ceil(n))}, nil
}

func mathAbs(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	n, err := argNumber(vm, args, 0, "abs")
	if err != nil {
		return nil, err
	}
	return []value.Value{value.FromDouble(math.Abs(n))}, nil
}

func mathMax(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if len(args) == 0 {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #1 to 'max' (value expected)")
	}
	best, err := argNumber(vm, args, 0, "max")
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		n, err := argNumber(vm, args, i, "max")
		if err != nil {
			return nil, err
		}
		if n > best {
			best = n
		}
	}
	return []value.Value{value.FromDouble(best)}, nil
}

func mathMin(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	if len(args) == 0 {
		return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #1 to 'min' (value expected)")
	}
	best, err := argNumber(vm, args, 0, "min")
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		n, err := argNumber(vm, args, i, "min")
		if err != nil {
			return nil, err
		}
		if n < best {
			best = n
		}
	}
	return []value.Value{value.FromDouble(best)}, nil
}

func mathSqrt(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	n, err := argNumber(vm, args, 0, "sqrt")
	if err != nil {
		return nil, err
	}
	return []value.Value{value.FromDouble(math.Sqrt(n))}, nil
}
