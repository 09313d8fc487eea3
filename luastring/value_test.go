package luastring

import (
	"testing"

	"github.com/luacore/vm/heap"
)

func TestToValueIsStableForSameString(t *testing.T) {
	reg := heap.NewRegistry()
	in := New()
	s := in.Intern([]byte("hello"))

	v1 := ToValue(reg, s)
	v2 := ToValue(reg, s)
	if v1 != v2 {
		t.Error("boxing the same *String twice must yield the same Value (pointer equality on strings)")
	}

	back, ok := FromValue(reg, v1)
	if !ok || back != s {
		t.Fatalf("FromValue round trip failed: got %p ok=%v, want %p", back, ok, s)
	}
}

func TestToValueDiffersAcrossDistinctStrings(t *testing.T) {
	reg := heap.NewRegistry()
	in := New()
	a := in.Intern([]byte("a"))
	b := in.Intern([]byte("b"))

	if ToValue(reg, a) == ToValue(reg, b) {
		t.Error("distinct interned strings must box to distinct Values")
	}
}

func TestFromValueRejectsNonPointer(t *testing.T) {
	reg := heap.NewRegistry()
	if _, ok := FromValue(reg, 0); ok {
		t.Error("FromValue on a non-pointer Value must report false")
	}
}
