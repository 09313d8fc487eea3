package interp

import (
	"testing"

	"github.com/luacore/vm/value"
)

func TestLessThanNumbers(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	lt, err := vm.lessThan(co, value.FromDouble(1), value.FromDouble(2))
	if err != nil || !lt {
		t.Fatalf("1 < 2 = (%v, %v), want (true, nil)", lt, err)
	}
	lt, err = vm.lessThan(co, value.FromDouble(2), value.FromDouble(1))
	if err != nil || lt {
		t.Fatalf("2 < 1 = (%v, %v), want (false, nil)", lt, err)
	}
}

func TestLessThanStringsLexicographic(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	a := vm.stringValue("abc")
	b := vm.stringValue("abd")
	lt, err := vm.lessThan(co, a, b)
	if err != nil || !lt {
		t.Fatalf("'abc' < 'abd' = (%v, %v), want (true, nil)", lt, err)
	}
}

func TestLessThanMismatchedTypesErrors(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	_, err := vm.lessThan(co, value.FromDouble(1), vm.stringValue("x"))
	if err == nil {
		t.Fatal("expected error comparing number with string")
	}
}

func TestRawEqualReflexiveAndStrings(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	eq, err := vm.rawEqual(co, value.FromDouble(1), value.FromDouble(1))
	if err != nil || !eq {
		t.Fatalf("1 == 1 = (%v, %v), want (true, nil)", eq, err)
	}
	a := vm.stringValue("x")
	b := vm.stringValue("x")
	eq, err = vm.rawEqual(co, a, b)
	if err != nil || !eq {
		t.Fatalf("'x' == 'x' = (%v, %v), want (true, nil)", eq, err)
	}
	eq, err = vm.rawEqual(co, vm.NewTable().AsValue(vm.Heap), vm.NewTable().AsValue(vm.Heap))
	if err != nil || eq {
		t.Fatalf("distinct tables without __eq = (%v, %v), want (false, nil)", eq, err)
	}
}
