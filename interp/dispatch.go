package interp

import (
	"github.com/luacore/vm/bytecode"
	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/table"
	"github.com/luacore/vm/value"
)

// multretAll is the sentinel operand count meaning "however many values
// the producing instruction actually yielded" (CALL/CALLM's result
// count, VARARG's count), rather than a fixed number to pad or truncate
// to (spec §4.5 "x_minNilFillReturnValues"-style padding only applies
// once a concrete count is known).
const multretAll = 0xFFFF

// dispatch runs st's instruction stream to completion, returning the
// values of whichever RETURN/RETURN0/RETURNM it hits, or the first error
// any instruction raises (spec §4.5 bytecode semantics).
func (vm *VM) dispatch(st *frameState) ([]value.Value, error) {
	rd := st.rd
	mm := st.vm.MetaNames
	for {
		instrOffset := rd.PC()
		op := rd.FetchOp()
		switch op {

		case bytecode.OpMove:
			a, b, _ := readABC(rd)
			st.setLocal(a, st.local(b))

		case bytecode.OpLoadK:
			a, d := readAD(rd)
			st.setLocal(a, st.constant(d))

		case bytecode.OpLoadNil:
			a, n, _ := readABC(rd)
			for i := uint16(0); i < n; i++ {
				st.setLocal(a+i, value.Nil)
			}

		case bytecode.OpLoadBool:
			a, b, _ := readABC(rd)
			st.setLocal(a, value.FromBool(b != 0))

		case bytecode.OpGetById:
			a, b, c := readABC(rd)
			name, _ := vm.LookupString(st.constant(int32(c)))
			t, err := vm.requireTable(st.local(b))
			if err != nil {
				return nil, err
			}
			v, err := t.GetById(vm.Heap, vm, mm, name)
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpGetByImm:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(b))
			if err != nil {
				return nil, err
			}
			v, err := t.GetByIntegerIndex(vm.Heap, vm, mm, int64(c))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpGetByIntegerIndex:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(b))
			if err != nil {
				return nil, err
			}
			idx, _ := directNumber(st.local(c))
			v, err := t.GetByIntegerIndex(vm.Heap, vm, mm, int64(idx))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpGetByVal:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(b))
			if err != nil {
				return nil, err
			}
			v, err := t.GetByVal(vm.Heap, vm, mm, st.local(c))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpPutById:
			a, b, c := readABC(rd)
			name, _ := vm.LookupString(st.constant(int32(b)))
			t, err := vm.requireTable(st.local(a))
			if err != nil {
				return nil, err
			}
			if err := t.PutById(vm.Heap, vm, mm, name, st.local(c)); err != nil {
				return nil, err
			}

		case bytecode.OpPutByImm:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(a))
			if err != nil {
				return nil, err
			}
			if err := t.PutByIntegerIndex(vm.Heap, vm, mm, int64(b), st.local(c)); err != nil {
				return nil, err
			}

		case bytecode.OpPutByIntegerIndex:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(a))
			if err != nil {
				return nil, err
			}
			idx, _ := directNumber(st.local(b))
			if err := t.PutByIntegerIndex(vm.Heap, vm, mm, int64(idx), st.local(c)); err != nil {
				return nil, err
			}

		case bytecode.OpPutByVal:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(a))
			if err != nil {
				return nil, err
			}
			if err := t.PutByVal(vm.Heap, vm, mm, st.local(b), st.local(c)); err != nil {
				return nil, err
			}

		case bytecode.OpNewTable:
			a, _, _ := readABC(rd)
			st.setLocal(a, vm.NewTable().AsValue(vm.Heap))

		case bytecode.OpTableDup:
			a, d := readAD(rd)
			template, _ := vm.LookupTable(st.constant(d))
			st.setLocal(a, table.Dup(template).AsValue(vm.Heap))

		case bytecode.OpTableVariadicPutBySeq:
			a, b, c := readABC(rd)
			t, err := vm.requireTable(st.local(a))
			if err != nil {
				return nil, err
			}
			var seq []value.Value
			if c == multretAll {
				seq = st.multret
			} else {
				seq = st.rangeOf(b, int(c))
			}
			table.VariadicPutBySeq(t, int32(t.Len()+1), seq)

		case bytecode.OpSelf:
			a, b, c := readABC(rd)
			obj := st.local(b)
			st.setLocal(a+1, obj)
			name, _ := vm.LookupString(st.constant(int32(c)))
			t, err := vm.requireTable(obj)
			if err != nil {
				return nil, err
			}
			v, err := t.GetById(vm.Heap, vm, mm, name)
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod, bytecode.OpPow:
			a, b, c := readABC(rd)
			v, err := vm.arith(st.co, op, st.local(b), st.local(c))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpUnm:
			a, b, _ := readABC(rd)
			v, err := vm.unm(st.co, st.local(b))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpNot:
			a, b, _ := readABC(rd)
			st.setLocal(a, value.FromBool(!st.local(b).IsTruthy()))

		case bytecode.OpLen:
			a, b, _ := readABC(rd)
			v, err := vm.length(st.co, st.local(b))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpConcat:
			a, b, c := readABC(rd)
			v, err := vm.concat(st.co, st.rangeOf(b, int(c)-int(b)+1))
			if err != nil {
				return nil, err
			}
			st.setLocal(a, v)

		case bytecode.OpJmp:
			_, target := readBranch(rd, instrOffset)
			rd.SetPC(uint32(target))

		case bytecode.OpEq, bytecode.OpNeq, bytecode.OpLt, bytecode.OpLe, bytecode.OpNotLt, bytecode.OpNotLe:
			a, b, c := readABC(rd)
			actual, err := vm.evalComparison(st.co, op, st.local(b), st.local(c))
			if err != nil {
				return nil, err
			}
			if actual != (a != 0) {
				skipInstruction(rd)
			}

		case bytecode.OpTest:
			a, b, _ := readABC(rd)
			actual := st.local(a).IsTruthy()
			if actual != (b != 0) {
				skipInstruction(rd)
			}

		case bytecode.OpCall:
			funcReg, numArgs, numResults := readABC(rd)
			args := st.rangeOf(funcReg+1, int(numArgs))
			results, err := vm.Call(st.co, st.local(funcReg), args)
			if err != nil {
				return nil, err
			}
			st.storeCallResults(funcReg, results, numResults)

		case bytecode.OpTailCall:
			funcReg, numArgs, _ := readABC(rd)
			args := st.rangeOf(funcReg+1, int(numArgs))
			return vm.Call(st.co, st.local(funcReg), args)

		case bytecode.OpCallM:
			funcReg, numFixed, _ := readABC(rd)
			args := append(st.rangeOf(funcReg+1, int(numFixed)), st.multret...)
			results, err := vm.Call(st.co, st.local(funcReg), args)
			if err != nil {
				return nil, err
			}
			st.storeCallResults(funcReg, results, multretAll)

		case bytecode.OpCallMT:
			funcReg, numFixed, _ := readABC(rd)
			args := append(st.rangeOf(funcReg+1, int(numFixed)), st.multret...)
			return vm.Call(st.co, st.local(funcReg), args)

		case bytecode.OpReturn0:
			readABC(rd)
			return nil, nil

		case bytecode.OpReturn:
			start, count, _ := readABC(rd)
			return st.rangeOf(start, int(count)), nil

		case bytecode.OpReturnM:
			start, count, _ := readABC(rd)
			return append(st.rangeOf(start, int(count)), st.multret...), nil

		case bytecode.OpForLoopInit:
			base, target := readBranch(rd, instrOffset)
			induction, run, err := vm.forLoopInit(st.local(base), st.local(base+1), st.local(base+2))
			if err != nil {
				return nil, err
			}
			if !run {
				rd.SetPC(uint32(target))
			} else {
				st.setLocal(base+3, induction)
			}

		case bytecode.OpForLoopStep:
			base, bodyStart := readBranch(rd, instrOffset)
			induction, cont := vm.forLoopStep(st.local(base+3), st.local(base+1), st.local(base+2))
			if cont {
				st.setLocal(base+3, induction)
				rd.SetPC(uint32(bodyStart))
			}

		case bytecode.OpKVLoopIter:
			base, target := readBranch(rd, instrOffset)
			t, err := vm.requireTable(st.local(base))
			if err != nil {
				return nil, err
			}
			nk, nv, ok := t.Next(vm.Heap, st.local(base+1))
			if !ok {
				return nil, errors.DomainError(errors.PhaseArith, "invalid key to 'next'")
			}
			if nk.IsNil() {
				rd.SetPC(uint32(target))
			} else {
				st.setLocal(base+1, nk)
				st.setLocal(base+2, nv)
			}

		case bytecode.OpValidateIsNextAndBranch:
			fnReg, target := readBranch(rd, instrOffset)
			if !vm.validateIsNext(st.local(fnReg)) {
				rd.SetPC(uint32(target))
			}

		case bytecode.OpClosure:
			a, protoIdx := readAD(rd)
			proto := st.block.Protos[protoIdx]
			ups := make([]*object.Upvalue, len(proto.UpvalueDescs))
			for i, desc := range proto.UpvalueDescs {
				if desc.FromParentLocal {
					stackPos := st.frame.Base + int64(desc.Index)
					if uv := st.co.FindOpenUpvalue(stackPos); uv != nil {
						ups[i] = uv
					} else {
						uv := object.NewOpen(st.co.Stack, int(stackPos), stackPos)
						st.co.InsertOpenUpvalue(uv)
						ups[i] = uv
					}
				} else {
					ups[i] = st.fn.Upvalue(desc.Index)
				}
			}
			fo := object.NewFunctionObject(object.NewInterpreted(proto), ups)
			st.setLocal(a, fo.AsValue(vm.Heap))

		case bytecode.OpUpvalueGet:
			a, b, _ := readABC(rd)
			st.setLocal(a, st.fn.Upvalue(uint32(b)).Get())

		case bytecode.OpUpvaluePut:
			a, b, _ := readABC(rd)
			st.fn.Upvalue(uint32(a)).Set(st.local(b))

		case bytecode.OpUpvalueClose:
			a, _, _ := readABC(rd)
			st.co.CloseUpvaluesFrom(st.frame.Base + int64(a))

		case bytecode.OpVararg:
			a, count, _ := readABC(rd)
			if count == multretAll {
				st.setRange(a, st.varargs)
				st.multret = st.varargs
			} else {
				st.setRange(a, padOrTruncate(st.varargs, int(count)))
			}

		default:
			return nil, errors.InvalidBytecode(nil, "unknown opcode %d at offset %d", op, instrOffset)
		}
	}
}

func readABC(rd *bytecode.Reader) (uint16, uint16, uint16) {
	return rd.ReadU16(), rd.ReadU16(), rd.ReadU16()
}

func readAD(rd *bytecode.Reader) (uint16, int32) {
	return rd.ReadU16(), rd.ReadI32()
}

// readBranch decodes the slot+displacement shape EmitBranch wrote,
// uniformly using the 4-byte variant (spec §6.1 allows a narrower
// variant, but nothing in this builder's call sites ever chooses one).
func readBranch(rd *bytecode.Reader, instrOffset uint32) (uint16, int32) {
	a := rd.ReadU16()
	return a, rd.ReadBranch(instrOffset, 4)
}

// skipInstruction discards the unconditional JMP a comparison or TEST
// opcode is always immediately followed by, without taking it (spec
// §4.5's classic "if condition doesn't match, pc++" shape).
func skipInstruction(rd *bytecode.Reader) {
	off := rd.PC()
	rd.FetchOp()
	rd.ReadU16()
	rd.ReadBranch(off, 4)
}

func (vm *VM) requireTable(v value.Value) (*table.Table, error) {
	t, ok := vm.LookupTable(v)
	if !ok {
		return nil, errors.TypeError(errors.PhaseAccess, "attempt to index a %s value", vm.TypeName(v))
	}
	return t, nil
}

// evalComparison computes EQ/NEQ/LT/LE/NOTLT/NOTLE's underlying boolean
// before the skip-next-JMP pattern compares it against the instruction's
// expected polarity (spec §4.5 "Comparison", "Equality"). NEQ, NOTLT and
// NOTLE yield the negation of EQ, LT and LE, so NOTLT is true when either
// operand is NaN.
func (vm *VM) evalComparison(co *coroutine.Coroutine, op bytecode.Opcode, a, b value.Value) (bool, error) {
	switch op {
	case bytecode.OpEq:
		return vm.rawEqual(co, a, b)
	case bytecode.OpNeq:
		eq, err := vm.rawEqual(co, a, b)
		return !eq, err
	case bytecode.OpLt:
		return vm.lessThan(co, a, b)
	case bytecode.OpNotLt:
		lt, err := vm.lessThan(co, a, b)
		return !lt, err
	case bytecode.OpNotLe:
		le, err := vm.lessEqual(co, a, b)
		return !le, err
	default:
		return vm.lessEqual(co, a, b)
	}
}

func padOrTruncate(vs []value.Value, n int) []value.Value {
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		if i < len(vs) {
			out[i] = vs[i]
		} else {
			out[i] = value.Nil
		}
	}
	return out
}
