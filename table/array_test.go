package table

import (
	"testing"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/value"
)

func TestArrayContinuousLengthIsO1(t *testing.T) {
	var a arrayPart = newArrayPart()
	for i := int64(1); i <= 5; i++ {
		a.put(i, value.FromInt32(int32(i)))
	}
	if got := a.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	if a.lengthIfContinuous != 5 {
		t.Errorf("lengthIfContinuous = %d, want 5 (should stay O(1)-trackable)", a.lengthIfContinuous)
	}
}

func TestArrayHoleBreaksContinuity(t *testing.T) {
	var a arrayPart = newArrayPart()
	for i := int64(1); i <= 5; i++ {
		a.put(i, value.FromInt32(int32(i)))
	}
	a.put(3, value.Nil)
	if got := a.Len(); got != 2 {
		t.Fatalf("Len() after punching a hole at 3 = %d, want 2 (binary search border)", got)
	}
}

func TestArrayTypeWidensOnWrite(t *testing.T) {
	var a arrayPart = newArrayPart()
	a.put(1, value.FromInt32(1))
	if a.kind != heap.ArrayTypeInt32Only {
		t.Fatalf("kind after int32 write = %v, want Int32Only", a.kind)
	}
	a.put(2, value.FromDouble(2.5))
	if a.kind != heap.ArrayTypeDoubleOnly {
		t.Fatalf("kind after widening with a double = %v, want DoubleOnly", a.kind)
	}
}

func TestArraySparseOverflow(t *testing.T) {
	var a arrayPart = newArrayPart()
	a.put(1, value.FromInt32(1))
	a.put(10000, value.FromInt32(2))
	if !a.hasSparseMap {
		t.Fatal("a far-out-of-range index should redirect to the sparse map")
	}
	if got := a.get(10000); got.AsInt32() != 2 {
		t.Fatalf("get(10000) = %v, want 2", got)
	}
	if got := a.get(9999); !got.IsNil() {
		t.Fatalf("get(9999) = %v, want nil (never written)", got)
	}
}

func TestArrayCloneIsIndependent(t *testing.T) {
	var a arrayPart = newArrayPart()
	a.put(1, value.FromInt32(1))
	b := a.clone()
	b.put(1, value.FromInt32(99))
	if got := a.get(1); got.AsInt32() != 1 {
		t.Fatalf("mutating a clone must not affect the original, got %v", got)
	}
}
