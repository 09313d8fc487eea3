package object

import (
	"sync"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/value"
)

// FunctionObject is a Lua closure: a reference to its ExecutableCode plus
// the upvalues it captured at creation (spec §3.6). It is a user-heap
// object (spec §5 "Memory lifetimes"), boxed into a value.Value the same
// way table.Table and luastring.String are (see value.go).
type FunctionObject struct {
	Header heap.ObjectHeader

	Executable *ExecutableCode
	Upvalues   []*Upvalue

	boxMu    sync.Mutex
	boxed    value.Value
	hasBoxed bool
}

// NewFunctionObject creates a closure over exec, capturing the given
// upvalues in declaration order.
func NewFunctionObject(exec *ExecutableCode, upvalues []*Upvalue) *FunctionObject {
	return &FunctionObject{
		Header:     heap.ObjectHeader{Type: value.HeapFunction, ArrayType: heap.ArrayTypeInvalid},
		Executable: exec,
		Upvalues:   upvalues,
	}
}

// Upvalue returns the idx'th captured upvalue.
func (f *FunctionObject) Upvalue(idx uint32) *Upvalue { return f.Upvalues[idx] }

// IsVararg reports whether calls to f may pass more than its fixed
// parameter count.
func (f *FunctionObject) IsVararg() bool { return f.Executable.IsVararg }

// NumFixedParams returns the number of named parameters f declares.
func (f *FunctionObject) NumFixedParams() uint32 { return f.Executable.NumFixedParams }
