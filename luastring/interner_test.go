package luastring

import "testing"

func TestInternUniqueness(t *testing.T) {
	in := New()
	a := in.Intern([]byte("abc"))
	b := in.Intern([]byte("abc"))
	if a != b {
		t.Error("interning the same bytes twice should return the same pointer")
	}

	c := in.Intern([]byte("abd"))
	if a == c {
		t.Error("interning different bytes should return different pointers")
	}
}

func TestInternEmptyAndEmbeddedNUL(t *testing.T) {
	in := New()
	empty := in.Intern([]byte{})
	if empty.Length != 0 {
		t.Errorf("Length = %d, want 0", empty.Length)
	}
	empty2 := in.Intern(nil)
	if empty != empty2 {
		t.Error("nil and empty slice should intern to the same string")
	}

	withNul := in.Intern([]byte{'a', 0, 'b'})
	if withNul.Length != 3 {
		t.Errorf("Length = %d, want 3", withNul.Length)
	}
	again := in.Intern([]byte{'a', 0, 'b'})
	if withNul != again {
		t.Error("embedded-NUL content should still hash-cons correctly")
	}
}

func TestInternConcatMatchesDirectIntern(t *testing.T) {
	in := New()
	direct := in.Intern([]byte("abc"))
	viaConcat := in.InternConcat([]byte("ab"), []byte("c"))
	if direct != viaConcat {
		t.Error("InternConcat should produce the same interned pointer as a direct Intern of the concatenation")
	}
}

func TestInternPrefixConcat(t *testing.T) {
	in := New()
	direct := in.Intern([]byte("hello world"))
	viaPrefix := in.InternPrefixConcat([]byte("hello "), []byte("wor"), []byte("ld"))
	if direct != viaPrefix {
		t.Error("InternPrefixConcat should match a direct Intern of the full concatenation")
	}
}

func TestLoadFactorStaysBounded(t *testing.T) {
	in := New()
	for i := 0; i < 10000; i++ {
		in.Intern([]byte{byte(i), byte(i >> 8), byte(i >> 16)})
	}
	if lf := in.LoadFactor(); lf > 0.5 {
		t.Errorf("load factor = %f, want <= 0.5", lf)
	}
	if in.Count() != 10000 {
		t.Errorf("Count = %d, want 10000", in.Count())
	}
}

func TestSentinelNotInterned(t *testing.T) {
	in := New()
	s := in.Intern([]byte("polymetatable"))
	sentinel := NewSentinel("polymetatable")

	if s == sentinel {
		t.Error("sentinel should not be the same object as an interned string with equal content")
	}
	if sentinel.fullHash == contentHash([]byte("polymetatable")) {
		t.Error("sentinel must carry a fake hash distinct from its content's real hash")
	}
	if !sentinel.IsSentinel() {
		t.Error("IsSentinel should report true for a sentinel string")
	}
	if s.IsSentinel() {
		t.Error("IsSentinel should report false for a normally-interned string")
	}
}

func TestSentinelsDoNotCollideWithEachOther(t *testing.T) {
	a := NewSentinel("tag")
	b := NewSentinel("tag")
	if a.fullHash == b.fullHash {
		t.Error("two sentinels with the same tag must still carry distinct fake hashes")
	}
}
