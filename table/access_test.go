package table

import (
	"errors"
	"testing"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/luastring"
	"github.com/luacore/vm/structure"
	"github.com/luacore/vm/value"
)

type noopCaller struct {
	calls [][2]value.Value
	ret   value.Value
	err   error
}

func (c *noopCaller) Call1(fn value.Value, args ...value.Value) (value.Value, error) {
	if len(args) >= 2 {
		c.calls = append(c.calls, [2]value.Value{args[0], args[1]})
	}
	return c.ret, c.err
}

func newHarness() (*heap.Registry, *luastring.Interner, MetaNames) {
	reg := heap.NewRegistry()
	in := luastring.New()
	mm := MetaNames{
		Index:    in.Intern([]byte("__index")),
		NewIndex: in.Intern([]byte("__newindex")),
	}
	return reg, in, mm
}

func TestGetByIdNoMetatableMissIsNil(t *testing.T) {
	reg, _, mm := newHarness()
	tbl := New(structure.NewRoot(4))
	v, err := tbl.GetById(reg, &noopCaller{}, mm, luastring.New().Intern([]byte("missing")))
	if err != nil || !v.IsNil() {
		t.Fatalf("GetById on absent key with no metatable = (%v, %v), want (nil, nil)", v, err)
	}
}

func TestGetByIdWalksTableIndexChain(t *testing.T) {
	reg, in, mm := newHarness()
	base := New(structure.NewRoot(4))
	parent := New(structure.NewRoot(4))
	name := in.Intern([]byte("greeting"))
	parent.RawPutById(name, value.FromInt32(7))

	mt := New(structure.NewRoot(4))
	mt.RawPutById(mm.Index, parent.AsValue(reg))
	base.SetMetatable(reg, mt)

	got, err := base.GetById(reg, &noopCaller{}, mm, name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsInt32() || got.AsInt32() != 7 {
		t.Fatalf("GetById through __index table chain = %v, want int32 7", got)
	}
}

func TestGetByIdInvokesFunctionIndex(t *testing.T) {
	reg, in, mm := newHarness()
	base := New(structure.NewRoot(4))
	mt := New(structure.NewRoot(4))

	fnSentinel := value.FromInt32(-1) // stand-in "function" value; table package treats any non-table __index as callable
	mt.RawPutById(mm.Index, fnSentinel)
	base.SetMetatable(reg, mt)

	caller := &noopCaller{ret: value.FromInt32(99)}
	name := in.Intern([]byte("x"))
	got, err := base.GetById(reg, caller, mm, name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsInt32() || got.AsInt32() != 99 {
		t.Fatalf("GetById via function __index = %v, want 99", got)
	}
	if len(caller.calls) != 1 {
		t.Fatalf("expected exactly one Call1 invocation, got %d", len(caller.calls))
	}
}

func TestPutByIdExistingKeyBypassesNewIndex(t *testing.T) {
	reg, in, mm := newHarness()
	base := New(structure.NewRoot(4))
	name := in.Intern([]byte("x"))
	base.RawPutById(name, value.FromInt32(1))

	mt := New(structure.NewRoot(4))
	mt.RawPutById(mm.NewIndex, value.FromInt32(-1))
	base.SetMetatable(reg, mt)

	caller := &noopCaller{}
	if err := base.PutById(reg, caller, mm, name, value.FromInt32(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caller.calls) != 0 {
		t.Error("writing an existing key must not consult __newindex")
	}
	if got := base.RawGetById(name); got.AsInt32() != 2 {
		t.Fatalf("RawGetById after PutById = %v, want 2", got)
	}
}

func TestPutByIdNewKeyInvokesNewIndex(t *testing.T) {
	reg, in, mm := newHarness()
	base := New(structure.NewRoot(4))
	mt := New(structure.NewRoot(4))
	mt.RawPutById(mm.NewIndex, value.FromInt32(-1))
	base.SetMetatable(reg, mt)

	caller := &noopCaller{}
	name := in.Intern([]byte("y"))
	if err := base.PutById(reg, caller, mm, name, value.FromInt32(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caller.calls) != 1 {
		t.Fatal("writing an absent key with a __newindex function must invoke it")
	}
	if got := base.RawGetById(name); !got.IsNil() {
		t.Fatalf("raw storage must stay untouched when __newindex intercepts, got %v", got)
	}
}

func TestGetByValArrayFirstThenHash(t *testing.T) {
	reg, _, mm := newHarness()
	tbl := New(structure.NewRoot(4))
	tbl.RawPutByIntegerIndex(1, value.FromInt32(10))

	got, err := tbl.GetByVal(reg, &noopCaller{}, mm, value.FromInt32(1))
	if err != nil || got.AsInt32() != 10 {
		t.Fatalf("GetByVal(1) = (%v, %v), want (10, nil)", got, err)
	}
}

func TestPutByValNonStringNonIntegerKey(t *testing.T) {
	reg, _, mm := newHarness()
	tbl := New(structure.NewRoot(4))

	if err := tbl.PutByVal(reg, &noopCaller{}, mm, value.True, value.FromInt32(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := tbl.GetByVal(reg, &noopCaller{}, mm, value.True)
	if err != nil || got.AsInt32() != 1 {
		t.Fatalf("GetByVal(true) = (%v, %v), want (1, nil)", got, err)
	}
}

func TestDupProducesIndependentTable(t *testing.T) {
	tmpl := New(structure.NewRoot(4))
	tmpl.RawPutByIntegerIndex(1, value.FromInt32(1))

	clone := Dup(tmpl)
	clone.RawPutByIntegerIndex(1, value.FromInt32(2))

	if got := tmpl.RawGetByIntegerIndex(1); got.AsInt32() != 1 {
		t.Fatalf("mutating a dup must not affect the template, got %v", got)
	}
	if got := clone.RawGetByIntegerIndex(1); got.AsInt32() != 2 {
		t.Fatalf("clone did not retain its own write, got %v", got)
	}
}

func TestVariadicPutBySeq(t *testing.T) {
	tbl := New(structure.NewRoot(4))
	VariadicPutBySeq(tbl, 1, []value.Value{value.FromInt32(10), value.FromInt32(20), value.FromInt32(30)})

	for i, want := range []int32{10, 20, 30} {
		got := tbl.RawGetByIntegerIndex(int64(i) + 1)
		if got.AsInt32() != want {
			t.Errorf("index %d = %v, want %d", i+1, got, want)
		}
	}
}

var errBoom = errors.New("boom")

func TestCallerErrorPropagates(t *testing.T) {
	reg, in, mm := newHarness()
	base := New(structure.NewRoot(4))
	mt := New(structure.NewRoot(4))
	mt.RawPutById(mm.Index, value.FromInt32(-1))
	base.SetMetatable(reg, mt)

	caller := &noopCaller{err: errBoom}
	_, err := base.GetById(reg, caller, mm, in.Intern([]byte("z")))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom to propagate, got %v", err)
	}
}
