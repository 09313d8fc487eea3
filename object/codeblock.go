package object

import "github.com/luacore/vm/bytecode"

// UpvalueDesc records how a child function's OP_CLOSURE should source
// one of its upvalues from the enclosing function's frame at the moment
// the closure is created (spec §6.5 "per function: ... Upvalues").
type UpvalueDesc struct {
	FromParentLocal bool   // true: capture the parent's local register Index; false: reuse the parent's own upvalue Index
	Index           uint32
}

// CodeBlock is the static, shareable half of an interpreted function: the
// encoded instruction stream and everything the dispatch loop needs to
// run it, separate from any particular call's stack frame (spec §3.6,
// §6.2).
type CodeBlock struct {
	Program *bytecode.Program

	// GlobalObject is the table new closures made from this block resolve
	// free globals against. Typed as any so that object does not import
	// package table; vm.Machine stores a *table.Table here and callers
	// type-assert to it.
	GlobalObject any

	NumFixedParams uint32
	IsVararg       bool
	NumLocals      uint32 // stack-frame slot count, excluding fixed params
	NumUpvalues    uint32

	Name string // source function name, for error messages and tracebacks

	// Protos holds the nested function prototypes this block's OP_CLOSURE
	// instructions may instantiate (spec §6.5 "ObjectConstants may be...
	// references to sibling function prototypes").
	Protos []*CodeBlock
	// UpvalueDescs has one entry per this block's own upvalues, describing
	// how a closure over it should be built from its creator's frame.
	UpvalueDescs []UpvalueDesc
}

// FrameSize returns the number of value.Value slots a call to this block
// needs on the stack (spec §6.3 call-frame layout): fixed params plus
// locals, not counting variadic overflow.
func (c *CodeBlock) FrameSize() uint32 {
	return c.NumFixedParams + c.NumLocals
}
