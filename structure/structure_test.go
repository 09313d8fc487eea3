package structure

import (
	"testing"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
)

func TestAddPropertySlotStability(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	x := in.Intern([]byte("x"))

	res1 := root.AddProperty(x)
	if res1.Slot != 0 {
		t.Fatalf("first property slot = %d, want 0", res1.Slot)
	}

	info := res1.Child.PrepareGetById(x)
	if info.Kind != InlinedStorage || info.Slot != 0 {
		t.Fatalf("PrepareGetById = %+v, want InlinedStorage slot 0", info)
	}
}

func TestAddPropertyTransitionIsShared(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	x := in.Intern([]byte("x"))

	a := root.AddProperty(x).Child
	b := root.AddProperty(x).Child

	if a != b {
		t.Error("two objects adding the same property from the same parent structure should converge on the same child structure")
	}
}

func TestAddPropertyDivergesOnDifferentNames(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	x := in.Intern([]byte("x"))
	y := in.Intern([]byte("y"))

	a := root.AddProperty(x).Child
	b := root.AddProperty(y).Child

	if a == b {
		t.Error("different property names should fork to different structures")
	}
}

func TestButterflyGrowthFlag(t *testing.T) {
	in := luastring.New()
	root := NewRoot(2) // inline capacity 2
	names := []string{"a", "b", "c"}

	s := root
	var lastRes AddPropertyResult
	for _, n := range names {
		lastRes = s.AddProperty(in.Intern([]byte(n)))
		s = lastRes.Child
	}

	// Third property (slot 2) exceeds inline capacity 2.
	if !lastRes.NeedsButterflyGrowth {
		t.Error("third property should require butterfly growth past inline capacity 2")
	}
	info := s.PrepareGetById(in.Intern([]byte("c")))
	if info.Kind != OutlinedStorage {
		t.Errorf("PrepareGetById(c) kind = %v, want OutlinedStorage", info.Kind)
	}
}

func TestAnchorTableKicksInPastThreshold(t *testing.T) {
	in := luastring.New()
	s := NewRoot(32)
	var names []*luastring.String
	for i := 0; i < AnchorThreshold+2; i++ {
		name := in.Intern([]byte{'a' + byte(i)})
		names = append(names, name)
		s = s.AddProperty(name).Child
	}

	if s.anchor == nil {
		t.Fatal("structure past AnchorThreshold properties should have an anchor table")
	}
	for i, name := range names {
		info := s.PrepareGetById(name)
		if info.Kind == MustBeNil {
			t.Errorf("property %d (%s) should be found via anchor table, got MustBeNil", i, name)
		}
	}
}

func TestDictionaryFallbackPastThreshold(t *testing.T) {
	in := luastring.New()
	s := NewRoot(8)
	for i := 0; i < DictionaryThreshold+1; i++ {
		s = s.AddProperty(in.Intern([]byte{byte(i), byte(i >> 8)})).Child
	}
	if !s.IsDictionary() {
		t.Error("structure past DictionaryThreshold properties should fall back to dictionary mode")
	}
}

func TestSetMetatableUniqueThenPoly(t *testing.T) {
	root := NewRoot(4)
	metaA := &struct{ tag string }{"A"}
	metaB := &struct{ tag string }{"B"}

	s1 := root.SetMetatable(metaA)
	if s1.MetaMode != MetatableUnique {
		t.Fatalf("MetaMode = %v, want MetatableUnique", s1.MetaMode)
	}
	if !s1.MayHaveMetatable() {
		t.Error("structure with a unique metatable should report MayHaveMetatable")
	}

	s2 := s1.SetMetatable(metaB)
	if s2.MetaMode != MetatablePoly {
		t.Fatalf("conflicting metatable on same base structure should enable polymetatable mode, got %v", s2.MetaMode)
	}
}

func TestSetMetatableSameObjectReusesTransition(t *testing.T) {
	root := NewRoot(4)
	meta := &struct{ tag string }{"shared"}

	a := root.SetMetatable(meta)
	b := root.SetMetatable(meta)
	if a != b {
		t.Error("setting the same metatable object from the same parent should converge on one structure")
	}
}

func TestTransitionArrayTypeWidens(t *testing.T) {
	root := NewRoot(4)
	s1 := root.TransitionArrayType(heap.ArrayTypeInt32Only)
	s2 := s1.TransitionArrayType(heap.ArrayTypeDoubleOnly)

	if s2.ArrayType != heap.ArrayTypeDoubleOnly {
		t.Errorf("ArrayType = %v, want ArrayTypeDoubleOnly", s2.ArrayType)
	}

	again := root.TransitionArrayType(heap.ArrayTypeInt32Only)
	if again != s1 {
		t.Error("identical array-type transition from the same parent should converge")
	}
}

func TestMissingPropertyReturnsMustBeNil(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	s := root.AddProperty(in.Intern([]byte("x"))).Child

	info := s.PrepareGetById(in.Intern([]byte("y")))
	if info.Kind != MustBeNil {
		t.Errorf("PrepareGetById(y) kind = %v, want MustBeNil", info.Kind)
	}
}
