package coroutine

import (
	"sync"

	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

// Status mirrors coroutine.status (spec §3.7).
type Status uint8

const (
	StatusSuspended Status = iota
	StatusRunning
	StatusNormal // resumed another coroutine and is waiting for it
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusSuspended:
		return "suspended"
	case StatusRunning:
		return "running"
	case StatusNormal:
		return "normal"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Body is the function a coroutine runs: an interpreter loop invocation
// given the coroutine it runs on and its resume arguments. Implemented
// by the interp package.
type Body func(co *Coroutine, args []value.Value) ([]value.Value, error)

// Coroutine is a CoroutineRuntimeContext (spec §3.7): a value stack, an
// open-upvalue list, a call-frame chain, and transfer state.
type Coroutine struct {
	Header heap.ObjectHeader

	Global any // *table.Table; typed any to avoid an import cycle with table
	Parent *Coroutine
	Status Status

	Stack []value.Value
	Top   int64 // logical top of Stack, for StackPos bookkeeping

	VariadicRetStart int
	NumVariadicRets  int

	frames *Frame

	openUpvalues *object.Upvalue

	body     Body
	started  bool
	resumeCh chan []value.Value
	yieldCh  chan transferMsg

	boxMu    sync.Mutex
	boxed    value.Value
	hasBoxed bool
}

type transferMsg struct {
	values   []value.Value
	err      error
	finished bool
}

// New creates a suspended coroutine that will run body when first
// resumed.
func New(global any, body Body) *Coroutine {
	return &Coroutine{
		Header:   heap.ObjectHeader{Type: value.HeapThread, ArrayType: heap.ArrayTypeInvalid},
		Global:   global,
		Status:   StatusSuspended,
		body:     body,
		resumeCh: make(chan []value.Value),
		yieldCh:  make(chan transferMsg),
	}
}

// AsValue boxes c into a pointer-class value.Value via reg, caching the
// handle the same way table.Table and luastring.String do.
func (c *Coroutine) AsValue(reg *heap.Registry) value.Value {
	c.boxMu.Lock()
	defer c.boxMu.Unlock()
	if c.hasBoxed {
		return c.boxed
	}
	v := heap.ToValue(reg.Register(c))
	c.boxed = v
	c.hasBoxed = true
	return v
}

// FromValue recovers the *Coroutine a value.Value was boxed from, if any.
func FromValue(reg *heap.Registry, v value.Value) (*Coroutine, bool) {
	if !v.IsPointer() {
		return nil, false
	}
	c, ok := reg.Lookup(heap.HandleOf(v)).(*Coroutine)
	return c, ok
}

func (c *Coroutine) run() {
	args := <-c.resumeCh
	results, err := c.body(c, args)
	c.yieldCh <- transferMsg{values: results, err: err, finished: true}
}

// Resume transfers control into c (spec §4.7 CoroSwitch), blocking the
// caller until c yields, returns, or errors.
func (c *Coroutine) Resume(args []value.Value) ([]value.Value, error) {
	switch c.Status {
	case StatusDead:
		return nil, errors.DomainError(errors.PhaseCoroutine, "cannot resume dead coroutine")
	case StatusRunning, StatusNormal:
		return nil, errors.DomainError(errors.PhaseCoroutine, "cannot resume non-suspended coroutine")
	}

	c.Status = StatusRunning
	if !c.started {
		c.started = true
		go c.run()
	}
	c.resumeCh <- args
	msg := <-c.yieldCh

	if msg.finished {
		c.Status = StatusDead
	} else {
		c.Status = StatusSuspended
	}
	return msg.values, msg.err
}

// Yield is called from within c's own body goroutine to hand control
// back to whoever resumed it, blocking until the next Resume supplies
// fresh arguments (spec §5 "suspension occurs only at coroutine.yield").
func (c *Coroutine) Yield(values []value.Value) []value.Value {
	c.yieldCh <- transferMsg{values: values}
	return <-c.resumeCh
}

// IsDead reports whether c has finished, whether normally or via an
// unhandled error.
func (c *Coroutine) IsDead() bool { return c.Status == StatusDead }

// CurrentFrame returns the innermost active call frame, or nil if c has
// no frames pushed.
func (c *Coroutine) CurrentFrame() *Frame { return c.frames }
