package coroutine

import "github.com/luacore/vm/object"

// Frame is one entry of the call-frame chain described by spec §6.3's
// call-frame header: `{functionObject*, caller, returnAddress,
// {callerBytecodePtr, numVariadicArguments}}`.
type Frame struct {
	Function *object.FunctionObject
	Caller   *Frame

	Base          int64  // absolute stack address of this frame's first local
	ReturnAddress uint32 // bytecode pc in Caller to resume at

	CallerBytecodePtr    uint32
	NumVariadicArguments int
}

// PushFrame links f onto c's frame chain as the new innermost frame.
func (c *Coroutine) PushFrame(f *Frame) {
	f.Caller = c.frames
	c.frames = f
}

// PopFrame removes and returns the innermost frame, or nil if empty.
func (c *Coroutine) PopFrame() *Frame {
	f := c.frames
	if f != nil {
		c.frames = f.Caller
	}
	return f
}
