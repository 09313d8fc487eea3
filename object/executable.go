package object

import "github.com/luacore/vm/value"

// ExecutableKind discriminates the three things a FunctionObject can run
// (spec §3.6). The original recovers this from a raw bytecode pointer's
// sign and nullity; Go has no address to inspect, so the discriminant is
// explicit (see package doc).
type ExecutableKind uint8

const (
	KindInterpreted ExecutableKind = iota
	KindCFunction
	KindIntrinsic
)

// GoFunction is the body of a CFunction or Intrinsic executable: a host
// routine invoked with the call's arguments, returning its results or an
// error (spec §4.6 "calling a C function").
type GoFunction func(args []value.Value) ([]value.Value, error)

// ExecutableCode is the callable payload shared by every FunctionObject
// (spec §3.6). Exactly one of Code or Native is meaningful, selected by
// Kind.
type ExecutableCode struct {
	Kind ExecutableKind

	Code   *CodeBlock // set when Kind == KindInterpreted
	Native GoFunction // set when Kind == KindCFunction or KindIntrinsic

	NumFixedParams uint32
	IsVararg       bool
}

// NewInterpreted wraps a CodeBlock as an interpreted executable.
func NewInterpreted(block *CodeBlock) *ExecutableCode {
	return &ExecutableCode{
		Kind:           KindInterpreted,
		Code:           block,
		NumFixedParams: block.NumFixedParams,
		IsVararg:       block.IsVararg,
	}
}

// NewCFunction wraps a host routine as a C-function executable (library
// functions implemented in Go rather than compiled bytecode).
func NewCFunction(fn GoFunction) *ExecutableCode {
	return &ExecutableCode{Kind: KindCFunction, Native: fn, IsVararg: true}
}

// NewIntrinsic wraps a host routine as an intrinsic executable (spec §4.1
// intrinsics such as next/pairs fast paths). The interpreter calls it
// through the general call path, exactly like a C function.
func NewIntrinsic(fn GoFunction) *ExecutableCode {
	return &ExecutableCode{Kind: KindIntrinsic, Native: fn, IsVararg: true}
}
