package interp

import (
	"testing"

	"github.com/luacore/vm/value"
)

func TestConcatFastPathStringsAndNumbers(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	parts := []value.Value{vm.stringValue("x = "), value.FromDouble(5), vm.stringValue("!")}
	v, err := vm.concat(co, parts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := vm.LookupString(v)
	if !ok || string(s.Data) != "x = 5!" {
		t.Fatalf("concat result = %q, want %q", s, "x = 5!")
	}
}

func TestConcatSingleValuePassesThrough(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	s := vm.stringValue("only")
	v, err := vm.concat(co, []value.Value{s})
	if err != nil || v != s {
		t.Fatalf("concat([s]) = (%v, %v), want (%v, nil)", v, err, s)
	}
}

func TestConcatNonConcatableErrors(t *testing.T) {
	vm := New()
	co := newTestCoroutine()
	_, err := vm.concat(co, []value.Value{vm.stringValue("a"), vm.NewTable().AsValue(vm.Heap)})
	if err == nil {
		t.Fatal("expected error concatenating a table with no __concat")
	}
}
