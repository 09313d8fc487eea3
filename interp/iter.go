package interp

import "github.com/luacore/vm/value"

// validateIsNext implements VALIDATEISNEXTANDBRANCH's check (spec §4.5
// "peeks at the controlling function to see if it's exactly the true
// base.next"): iterFn compares by identity against the builtin next the
// base library installs. Until that registration happens, BuiltinNext is
// value.Nil, which no real function value ever equals, so the generic
// for loop always takes the plain-call slow path — correct, just never
// specialized.
func (vm *VM) validateIsNext(iterFn value.Value) bool {
	return vm.BuiltinNext != value.Nil && iterFn == vm.BuiltinNext
}
