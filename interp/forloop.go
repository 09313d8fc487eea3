package interp

import (
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/value"
)

// forLoopInit implements FORLOOPINIT (spec §4.5 "For-loop"): coerce the
// three loop registers to numbers (string coercion included) and report
// whether the loop body should run at all.
func (vm *VM) forLoopInit(start, stop, step value.Value) (induction value.Value, shouldRun bool, err error) {
	s, ok1 := vm.ToNumber(start)
	e, ok2 := vm.ToNumber(stop)
	t, ok3 := vm.ToNumber(step)
	if !ok1 {
		return value.Nil, false, errors.TypeError(errors.PhaseArith, "'for' initial value must be a number")
	}
	if !ok2 {
		return value.Nil, false, errors.TypeError(errors.PhaseArith, "'for' limit must be a number")
	}
	if !ok3 {
		return value.Nil, false, errors.TypeError(errors.PhaseArith, "'for' step must be a number")
	}
	if t == 0 {
		return value.Nil, false, errors.DomainError(errors.PhaseArith, "'for' step is zero")
	}
	if (t > 0 && s > e) || (t < 0 && s < e) {
		return value.Nil, false, nil
	}
	return value.FromDouble(s), true, nil
}

// forLoopStep implements FORLOOPSTEP: advance the induction variable by
// step and re-run the same bound test.
func (vm *VM) forLoopStep(current, stop, step value.Value) (induction value.Value, shouldContinue bool) {
	next := current.AsDouble() + step.AsDouble()
	e, t := stop.AsDouble(), step.AsDouble()
	if (t > 0 && next > e) || (t < 0 && next < e) {
		return value.Nil, false
	}
	return value.FromDouble(next), true
}
