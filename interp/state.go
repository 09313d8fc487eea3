package interp

import (
	"github.com/luacore/vm/bytecode"
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

// frameState is the dispatch loop's cursor over one call frame: the
// instruction reader, the frame's slice of the coroutine's shared value
// stack, and the bookkeeping CALLM/RETURNM and vararg opcodes need.
type frameState struct {
	vm    *VM
	co    *coroutine.Coroutine
	frame *coroutine.Frame
	fn    *object.FunctionObject
	block *object.CodeBlock
	rd    *bytecode.Reader

	varargs []value.Value
	// multret holds the most recent multi-value result produced by a call
	// or VARARG in multret position, consumed by a following CALLM,
	// CALLMT, RETURNM, or TABLEVARIADICPUTBYSEQ (spec §4.5).
	multret []value.Value
}

func newFrameState(vm *VM, co *coroutine.Coroutine, frame *coroutine.Frame, fn *object.FunctionObject, varargs []value.Value) *frameState {
	return &frameState{
		vm:      vm,
		co:      co,
		frame:   frame,
		fn:      fn,
		block:   fn.Executable.Code,
		rd:      bytecode.NewReader(fn.Executable.Code.Program.Code),
		varargs: varargs,
	}
}

func (s *frameState) local(slot uint16) value.Value {
	return s.co.Stack[s.frame.Base+int64(slot)]
}

func (s *frameState) setLocal(slot uint16, v value.Value) {
	idx := s.frame.Base + int64(slot)
	for int64(len(s.co.Stack)) <= idx {
		s.co.Stack = append(s.co.Stack, value.Nil)
	}
	s.co.Stack[idx] = v
	if s.co.Top <= idx {
		s.co.Top = idx + 1
	}
}

func (s *frameState) constant(ordinal int32) value.Value {
	return s.block.Program.Constants[ordinal]
}

// rangeOf reads count consecutive locals starting at start, used by
// CONCAT, RETURN, and TABLEVARIADICPUTBYSEQ.
func (s *frameState) rangeOf(start uint16, count int) []value.Value {
	out := make([]value.Value, count)
	for i := 0; i < count; i++ {
		out[i] = s.local(start + uint16(i))
	}
	return out
}

func (s *frameState) setRange(start uint16, vals []value.Value) {
	for i, v := range vals {
		s.setLocal(start+uint16(i), v)
	}
}

// storeCallResults writes a call's results starting at funcReg, the
// destination CALL/CALLM reuse as the first result register (spec §4.5
// "Call"). numResults == multretAll keeps every result and also records
// them as the frame's multret for a following CALLM/RETURNM/vararg-style
// consumer; a concrete count pads with nils or truncates.
func (s *frameState) storeCallResults(funcReg uint16, results []value.Value, numResults uint16) {
	if numResults == multretAll {
		s.setRange(funcReg, results)
		s.multret = results
		return
	}
	s.setRange(funcReg, padOrTruncate(results, int(numResults)))
}
