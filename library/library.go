// Package library implements the standard-library entry points SPEC_FULL
// §4 (expansion) pins down: base, table, string, math, and coroutine
// functions registered onto a fresh globals table (SPEC_FULL §6.6,
// grounded on runtime/host.go's namespace/name registry).
package library

import (
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// Func is a Go-native library function: it receives the VM (for heap,
// interner, and the presently-running coroutine via vm.Current()) and
// its Lua call arguments.
type Func func(vm *interp.VM, args []value.Value) ([]value.Value, error)

type constant func(vm *interp.VM) value.Value

// Registry collects base functions and per-module (table., string., ...)
// functions and constants before Install materializes them onto a
// globals table.
type Registry struct {
	baseNames []string
	base      map[string]Func

	moduleNames []string
	members     map[string][]string
	funcs       map[string]map[string]Func
	consts      map[string]map[string]constant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		base:    make(map[string]Func),
		members: make(map[string][]string),
		funcs:   make(map[string]map[string]Func),
		consts:  make(map[string]map[string]constant),
	}
}

// Define registers a top-level global function (print, pcall, ...).
func (r *Registry) Define(name string, fn Func) {
	if _, exists := r.base[name]; !exists {
		r.baseNames = append(r.baseNames, name)
	}
	r.base[name] = fn
}

// DefineModule registers module.name (table.insert, string.sub, ...),
// creating the module's table on first use.
func (r *Registry) DefineModule(module, name string, fn Func) {
	r.touchModule(module, name)
	if r.funcs[module] == nil {
		r.funcs[module] = make(map[string]Func)
	}
	r.funcs[module][name] = fn
}

// DefineConstant registers a non-callable module field (math.huge,
// math.pi), built lazily at Install time.
func (r *Registry) DefineConstant(module, name string, build func(vm *interp.VM) value.Value) {
	r.touchModule(module, name)
	if r.consts[module] == nil {
		r.consts[module] = make(map[string]constant)
	}
	r.consts[module][name] = build
}

func (r *Registry) touchModule(module, name string) {
	if _, ok := r.members[module]; !ok {
		r.moduleNames = append(r.moduleNames, module)
	}
	r.members[module] = append(r.members[module], name)
}

// Install materializes every registered function and constant as real
// Lua values onto globals, wrapping each Func as a native
// object.FunctionObject (spec §6.6 "DEEGEN_DEFINE_LIB_FUNC-equivalent").
func (r *Registry) Install(vm *interp.VM, globals *table.Table) {
	for _, name := range r.baseNames {
		globals.RawPutById(vm.Interner.Intern([]byte(name)), wrap(vm, r.base[name]))
	}
	for _, module := range r.moduleNames {
		mod := vm.NewTable()
		for _, name := range r.members[module] {
			if fn, ok := r.funcs[module][name]; ok {
				mod.RawPutById(vm.Interner.Intern([]byte(name)), wrap(vm, fn))
				continue
			}
			mod.RawPutById(vm.Interner.Intern([]byte(name)), r.consts[module][name](vm))
		}
		globals.RawPutById(vm.Interner.Intern([]byte(module)), mod.AsValue(vm.Heap))
	}
}

func wrap(vm *interp.VM, fn Func) value.Value {
	native := object.NewFunctionObject(object.NewCFunction(func(args []value.Value) ([]value.Value, error) {
		return fn(vm, args)
	}), nil)
	return native.AsValue(vm.Heap)
}

// RegisterAll builds a Registry carrying every function and constant
// this package implements and installs it onto globals. This is the
// single entry point vm.New-style orchestration code calls.
func RegisterAll(vm *interp.VM, globals *table.Table) {
	r := NewRegistry()
	RegisterBase(r, vm)
	RegisterTable(r)
	RegisterString(r)
	RegisterMath(r)
	RegisterCoroutine(r)
	for _, name := range []string{"collectgarbage", "require", "module"} {
		Stub(r, "", name)
	}
	r.Install(vm, globals)

	// KVLOOPITER's ValidateIsNextAndBranch (spec §4.5) recognizes the
	// registered builtin next by pointer identity, so it must be read back
	// from the exact boxed value Install wrote rather than re-wrapped.
	vm.BuiltinNext = globals.RawGetById(vm.Interner.Intern([]byte("next")))
}

// Stub registers name as a function that always raises
// errors.Unsupported instead of running (spec §6.6 expansion's Open
// Question decision: a catchable error, not a panic or silent no-op).
// module == "" registers a top-level global rather than a module member.
func Stub(r *Registry, module, name string) {
	fn := func(vm *interp.VM, args []value.Value) ([]value.Value, error) {
		return nil, errors.Unsupported(errors.PhaseLibrary, name)
	}
	if module == "" {
		r.Define(name, fn)
		return
	}
	r.DefineModule(module, name, fn)
}
