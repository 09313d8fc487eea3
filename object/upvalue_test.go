package object

import (
	"testing"

	"github.com/luacore/vm/value"
)

func TestOpenUpvalueReadsThroughStack(t *testing.T) {
	stack := []value.Value{value.Nil, value.FromInt32(42), value.Nil}
	uv := NewOpen(stack, 1, 100)

	if got := uv.Get(); got != value.FromInt32(42) {
		t.Fatalf("Get() = %v, want 42", got)
	}

	stack[1] = value.FromInt32(7)
	if got := uv.Get(); got != value.FromInt32(7) {
		t.Fatalf("Get() after stack mutation = %v, want 7 (open upvalue must alias the stack)", got)
	}

	uv.Set(value.FromInt32(9))
	if stack[1] != value.FromInt32(9) {
		t.Fatal("Set() on an open upvalue must write through to the stack")
	}
}

func TestCloseSnapshotsAndSeversStack(t *testing.T) {
	stack := []value.Value{value.FromInt32(5)}
	uv := NewOpen(stack, 0, 0)

	uv.Close()
	if uv.IsOpen() {
		t.Fatal("IsOpen() true after Close()")
	}
	if got := uv.Get(); got != value.FromInt32(5) {
		t.Fatalf("Get() after Close = %v, want 5", got)
	}

	stack[0] = value.FromInt32(999)
	if got := uv.Get(); got != value.FromInt32(5) {
		t.Fatalf("Get() after Close must not see further stack mutation, got %v", got)
	}

	uv.Set(value.FromInt32(6))
	if got := uv.Get(); got != value.FromInt32(6) {
		t.Fatalf("Set() after Close = %v, want 6", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	stack := []value.Value{value.FromInt32(1)}
	uv := NewOpen(stack, 0, 0)
	uv.Close()
	uv.Set(value.FromInt32(2))
	uv.Close() // must not re-snapshot from the (now nil) stack
	if got := uv.Get(); got != value.FromInt32(2) {
		t.Fatalf("Get() after double Close = %v, want 2", got)
	}
}

func TestOpenUpvalueListLink(t *testing.T) {
	stack := []value.Value{value.Nil, value.Nil}
	a := NewOpen(stack, 0, 10)
	b := NewOpen(stack, 1, 20)
	a.SetNext(b)

	if a.Next() != b {
		t.Fatal("SetNext/Next did not round-trip")
	}
	if b.Next() != nil {
		t.Fatal("tail of the list should have a nil Next")
	}
}
