package table

import (
	"testing"

	"github.com/luacore/vm/value"
)

func TestLenReflectsArrayPart(t *testing.T) {
	tbl, _, _ := newTestTable()
	if got := tbl.Len(); got != 0 {
		t.Fatalf("Len() on empty table = %d, want 0", got)
	}
	tbl.RawPutByIntegerIndex(1, value.FromInt32(1))
	tbl.RawPutByIntegerIndex(2, value.FromInt32(2))
	tbl.RawPutByIntegerIndex(3, value.FromInt32(3))
	if got := tbl.Len(); got != 3 {
		t.Fatalf("Len() after three sequential puts = %d, want 3", got)
	}
}

func TestNextOnEmptyTableReturnsNilValid(t *testing.T) {
	tbl, reg, _ := newTestTable()
	k, v, valid := tbl.Next(reg, value.Nil)
	if !valid || !k.IsNil() || !v.IsNil() {
		t.Fatalf("Next(nil) on empty table = (%v, %v, %v), want (nil, nil, true)", k, v, valid)
	}
}

func TestNextVisitsArrayAndNamedPairs(t *testing.T) {
	tbl, reg, in := newTestTable()
	tbl.RawPutByIntegerIndex(1, value.FromInt32(10))
	tbl.RawPutByIntegerIndex(2, value.FromInt32(20))
	tbl.RawPutById(in.Intern([]byte("x")), value.FromInt32(30))

	seen := map[int32]bool{}
	key := value.Nil
	for {
		k, v, valid := tbl.Next(reg, key)
		if !valid {
			t.Fatalf("Next returned invalid before exhausting keys")
		}
		if k.IsNil() {
			break
		}
		seen[v.AsInt32()] = true
		key = k
	}
	for _, want := range []int32{10, 20, 30} {
		if !seen[want] {
			t.Errorf("Next never produced a pair with value %d", want)
		}
	}
}

func TestNextOnUnknownKeyIsInvalid(t *testing.T) {
	tbl, reg, _ := newTestTable()
	tbl.RawPutByIntegerIndex(1, value.FromInt32(1))
	_, _, valid := tbl.Next(reg, value.FromInt32(99))
	if valid {
		t.Fatal("Next with a key absent from the table must report invalid")
	}
}

func TestNextOnLastKeyEndsIteration(t *testing.T) {
	tbl, reg, _ := newTestTable()
	tbl.RawPutByIntegerIndex(1, value.FromInt32(1))
	k, v, valid := tbl.Next(reg, value.FromDouble(1))
	if !valid || !k.IsNil() || !v.IsNil() {
		t.Fatalf("Next on the last key = (%v, %v, %v), want (nil, nil, true)", k, v, valid)
	}
}
