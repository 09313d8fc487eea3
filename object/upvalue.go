package object

import "github.com/luacore/vm/value"

// UpvalueState discriminates an Upvalue's two lifecycle phases (spec
// §3.6): open while its coroutine's stack frame is still live, closed
// once the frame that owned the slot has returned.
type UpvalueState uint8

const (
	UpvalueOpen UpvalueState = iota
	UpvalueClosed
)

// Upvalue is a captured variable, either pointing into a live stack slot
// or holding its own closed-over value (spec §3.6). Open upvalues are
// linked in a per-coroutine list sorted by decreasing stack address (spec
// §3.8 invariant) via Next/SetNext, maintained by the coroutine package.
type Upvalue struct {
	State UpvalueState

	stack    []value.Value // the live stack this upvalue points into, while open
	slot     int            // index into stack, while open
	StackPos int64          // absolute stack address, used to keep the open list sorted

	closed value.Value // the value itself, once closed

	next *Upvalue // per-coroutine open-upvalue list link
}

// NewOpen creates an upvalue pointing at stack[slot], tagging it with
// absolute address stackPos so the coroutine's open list can stay sorted.
func NewOpen(stack []value.Value, slot int, stackPos int64) *Upvalue {
	return &Upvalue{State: UpvalueOpen, stack: stack, slot: slot, StackPos: stackPos}
}

// Get reads the upvalue's current value, from the stack if open or from
// its own embedded slot if closed.
func (u *Upvalue) Get() value.Value {
	if u.State == UpvalueOpen {
		return u.stack[u.slot]
	}
	return u.closed
}

// Set writes through to the stack if open, or to the embedded slot if
// closed.
func (u *Upvalue) Set(v value.Value) {
	if u.State == UpvalueOpen {
		u.stack[u.slot] = v
		return
	}
	u.closed = v
}

// Close snapshots the upvalue's current stack value into its own storage
// and severs the stack reference, for when the owning frame returns while
// the upvalue is still reachable from a closure (spec §3.6).
func (u *Upvalue) Close() {
	if u.State != UpvalueOpen {
		return
	}
	u.closed = u.stack[u.slot]
	u.stack = nil
	u.State = UpvalueClosed
}

// IsOpen reports whether u still points into a live stack.
func (u *Upvalue) IsOpen() bool { return u.State == UpvalueOpen }

// Next/SetNext thread the per-coroutine open-upvalue list.
func (u *Upvalue) Next() *Upvalue     { return u.next }
func (u *Upvalue) SetNext(n *Upvalue) { u.next = n }
