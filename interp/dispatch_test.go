package interp

import (
	"testing"

	"github.com/luacore/vm/bytecode"
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

func newTestCoroutine() *coroutine.Coroutine {
	return coroutine.New(nil, func(co *coroutine.Coroutine, args []value.Value) ([]value.Value, error) {
		return nil, nil
	})
}

func buildBlock(t *testing.T, numFixed, numLocals uint32, isVararg bool, build func(b *bytecode.Builder)) *object.CodeBlock {
	t.Helper()
	b := bytecode.NewBuilder()
	build(b)
	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return &object.CodeBlock{
		Program:        prog,
		NumFixedParams: numFixed,
		NumLocals:      numLocals,
		IsVararg:       isVararg,
	}
}

func TestDispatchAddReturnsSum(t *testing.T) {
	vm := New()
	block := buildBlock(t, 0, 3, false, func(b *bytecode.Builder) {
		b.EmitAD(bytecode.OpLoadK, 0, b.Const(value.FromDouble(10)))
		b.EmitAD(bytecode.OpLoadK, 1, b.Const(value.FromDouble(20)))
		b.EmitABC(bytecode.OpAdd, 2, 0, 1)
		b.EmitABC(bytecode.OpReturn, 2, 1, 0)
	})
	fo := object.NewFunctionObject(object.NewInterpreted(block), nil)
	co := newTestCoroutine()

	results, err := vm.Call(co, fo.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || !results[0].IsDouble() || results[0].AsDouble() != 30 {
		t.Fatalf("results = %v, want [30]", results)
	}
}

func TestDispatchCallNestedFunction(t *testing.T) {
	vm := New()
	callee := buildBlock(t, 1, 2, false, func(b *bytecode.Builder) {
		// R1 := R0 + R0; return R1
		b.EmitABC(bytecode.OpAdd, 1, 0, 0)
		b.EmitABC(bytecode.OpReturn, 1, 1, 0)
	})
	calleeFn := object.NewFunctionObject(object.NewInterpreted(callee), nil)
	calleeVal := calleeFn.AsValue(vm.Heap)

	caller := buildBlock(t, 0, 3, false, func(b *bytecode.Builder) {
		// R0 := calleeVal; R1 := 21; CALL R0 with 1 arg, 1 result
		b.EmitAD(bytecode.OpLoadK, 0, b.Const(calleeVal))
		b.EmitAD(bytecode.OpLoadK, 1, b.Const(value.FromDouble(21)))
		b.EmitABC(bytecode.OpCall, 0, 1, 1)
		b.EmitABC(bytecode.OpReturn, 0, 1, 0)
	})
	callerFn := object.NewFunctionObject(object.NewInterpreted(caller), nil)
	co := newTestCoroutine()

	results, err := vm.Call(co, callerFn.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].AsDouble() != 42 {
		t.Fatalf("results = %v, want [42]", results)
	}
}

func TestDispatchForLoopAccumulates(t *testing.T) {
	vm := New()
	// for i = 1, 3 do sum = sum + i end; return sum
	// R0 = start, R1 = limit, R2 = step, R3 = induction var, R4 = sum
	block := buildBlock(t, 0, 5, false, func(b *bytecode.Builder) {
		b.EmitAD(bytecode.OpLoadK, 0, b.Const(value.FromDouble(1)))
		b.EmitAD(bytecode.OpLoadK, 1, b.Const(value.FromDouble(3)))
		b.EmitAD(bytecode.OpLoadK, 2, b.Const(value.FromDouble(1)))
		b.EmitAD(bytecode.OpLoadK, 4, b.Const(value.FromDouble(0)))

		exit := b.NewLabel()
		bodyStart := b.NewLabel()
		if _, err := b.EmitBranch(bytecode.OpForLoopInit, 0, exit, 4); err != nil {
			t.Fatalf("EmitBranch: %v", err)
		}
		b.BindLabel(bodyStart)
		b.EmitABC(bytecode.OpAdd, 4, 4, 3)
		if _, err := b.EmitBranch(bytecode.OpForLoopStep, 0, bodyStart, 4); err != nil {
			t.Fatalf("EmitBranch: %v", err)
		}
		b.BindLabel(exit)
		b.EmitABC(bytecode.OpReturn, 4, 1, 0)
	})
	fo := object.NewFunctionObject(object.NewInterpreted(block), nil)
	co := newTestCoroutine()

	results, err := vm.Call(co, fo.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].AsDouble() != 6 {
		t.Fatalf("results = %v, want [6]", results)
	}
}
