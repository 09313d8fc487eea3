package heap

import "testing"

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	type payload struct{ n int }

	a := r.Register(&payload{n: 1})
	b := r.Register(&payload{n: 2})
	if a == b {
		t.Fatal("distinct registrations must get distinct handles")
	}

	va := ToValue(a)
	vb := ToValue(b)
	if !va.IsPointer() || !vb.IsPointer() {
		t.Fatal("ToValue must produce pointer-class values")
	}

	got, ok := r.Lookup(HandleOf(va)).(*payload)
	if !ok || got.n != 1 {
		t.Fatalf("round trip for a: got %+v, ok=%v", got, ok)
	}
	got, ok = r.Lookup(HandleOf(vb)).(*payload)
	if !ok || got.n != 2 {
		t.Fatalf("round trip for b: got %+v, ok=%v", got, ok)
	}
}

func TestRegistryLookupMissReturnsNil(t *testing.T) {
	r := NewRegistry()
	if r.Lookup(0) != nil {
		t.Error("handle 0 must never resolve to an object")
	}
	if r.Lookup(999) != nil {
		t.Error("out-of-range handle must resolve to nil")
	}
}
