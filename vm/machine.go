// Package vm wires the interpreter, the standard library, and the
// bytecode loader into one runnable unit: construct a Machine, load a
// chunk, run it. This is the single entry point cmd/luavm's run and
// repl subcommands both share, grounded on the teacher's engine
// orchestration shape (one shared state object that every subsystem is
// wired into once at startup).
package vm

import (
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/library"
	"github.com/luacore/vm/loader"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
	"go.uber.org/zap"
)

// Machine is a ready-to-run Lua environment: an interpreter with its
// standard library installed onto a fresh globals table.
type Machine struct {
	Interp  *interp.VM
	Globals *table.Table
	main    *coroutine.Coroutine
}

// New builds a Machine with the full standard library installed.
func New() *Machine {
	vm := interp.New()
	globals := vm.NewTable()
	library.RegisterAll(vm, globals)
	main := coroutine.New(globals, func(*coroutine.Coroutine, []value.Value) ([]value.Value, error) {
		return nil, nil
	})
	Logger().Debug("machine initialized")
	return &Machine{Interp: vm, Globals: globals, main: main}
}

// LoadChunk decodes a JSON bytecode document into a runnable CodeBlock
// tree, wiring every prototype (including nested ones CLOSURE
// instructions reference) to this Machine's globals.
func (m *Machine) LoadChunk(data []byte) (*object.CodeBlock, error) {
	block, err := loader.Load(m.Interp, data)
	if err != nil {
		Logger().Debug("chunk load failed", zap.Error(err))
		return nil, err
	}
	bindGlobals(block, m.Globals)
	return block, nil
}

func bindGlobals(block *object.CodeBlock, globals *table.Table) {
	block.GlobalObject = globals
	for _, child := range block.Protos {
		bindGlobals(child, globals)
	}
}

// Run invokes a loaded chunk's root function on a fresh main coroutine
// with args as its arguments, returning its results (spec §6 "luavm run
// <file.luabc>").
func (m *Machine) Run(block *object.CodeBlock, args []value.Value) ([]value.Value, error) {
	main := object.NewFunctionObject(object.NewInterpreted(block), nil)
	return m.Interp.Call(m.main, main.AsValue(m.Interp.Heap), args)
}

// CallGlobal invokes the global function named name on this Machine's
// main coroutine, the same thread Run executes chunks on. The repl
// subcommand uses this to call into a value the chunk already defined,
// rather than a freshly instantiated one.
func (m *Machine) CallGlobal(name string, args []value.Value) ([]value.Value, error) {
	fn := m.Globals.RawGetById(m.Interp.Interner.Intern([]byte(name)))
	return m.Interp.Call(m.main, fn, args)
}
