package structure

import (
	"testing"

	"github.com/luacore/vm/luastring"
)

func TestAllPropertiesLinearList(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	names := []string{"a", "b", "c"}

	s := root
	for _, n := range names {
		s = s.AddProperty(in.Intern([]byte(n))).Child
	}

	props := s.AllProperties()
	if len(props) != len(names) {
		t.Fatalf("AllProperties len = %d, want %d", len(props), len(names))
	}
	seen := map[string]uint8{}
	for _, p := range props {
		seen[string(p.Name.Data)] = p.Slot
	}
	for i, n := range names {
		if slot, ok := seen[n]; !ok || int(slot) != i {
			t.Errorf("property %q slot = %d (ok=%v), want %d", n, slot, ok, i)
		}
	}
}

func TestAllPropertiesAnchorTable(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)

	s := root
	for i := 0; i < AnchorThreshold+2; i++ {
		s = s.AddProperty(in.Intern([]byte{byte('a' + i)})).Child
	}
	if s.anchor == nil {
		t.Fatal("structure past AnchorThreshold properties should have forked an anchor table")
	}

	props := s.AllProperties()
	if len(props) != AnchorThreshold+2 {
		t.Fatalf("AllProperties len = %d, want %d", len(props), AnchorThreshold+2)
	}
}

func TestAllPropertiesDictionary(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)

	s := root
	for i := 0; i < DictionaryThreshold+1; i++ {
		s = s.AddProperty(in.Intern([]byte{byte('a'), byte('0' + i%10), byte(i / 10)})).Child
	}
	if !s.IsDictionary() {
		t.Fatal("structure past DictionaryThreshold properties should be a dictionary")
	}

	props := s.AllProperties()
	if len(props) != DictionaryThreshold+1 {
		t.Fatalf("AllProperties len = %d, want %d", len(props), DictionaryThreshold+1)
	}
}

func TestAllPropertiesExcludesPolymetatableSentinel(t *testing.T) {
	in := luastring.New()
	root := NewRoot(4)
	x := in.Intern([]byte("x"))

	base := root.AddProperty(x).Child
	// Two distinct metatable identities off the same base structure force
	// polymetatable mode, which allocates a sentinel-keyed slot.
	withMeta1 := base.SetMetatable("meta-one")
	poly := withMeta1.SetMetatable("meta-two")
	if poly.MetaMode != MetatablePoly {
		t.Fatalf("MetaMode = %v, want MetatablePoly", poly.MetaMode)
	}

	for _, p := range poly.AllProperties() {
		if IsPolymetatableSentinel(p.Name) {
			t.Fatal("AllProperties must exclude the polymetatable sentinel slot")
		}
	}

	props := poly.AllProperties()
	if len(props) != 1 || string(props[0].Name.Data) != "x" {
		t.Fatalf("AllProperties = %+v, want only property %q", props, "x")
	}
}
