// Package interp implements the bytecode dispatch loop: arithmetic,
// comparison, equality, concatenation, call/return, upvalue, for-loop,
// and generic-iteration semantics (spec §4.5), plus pcall/xpcall error
// propagation (spec §4.6).
//
// The original drives calls and returns through an explicit
// return-continuation ABI so that a single native call stack never grows
// past whatever fixed-size trampoline frame the tier-up compiler
// allocated. Go already gives every goroutine a real, growable call
// stack, so Call here recurses natively: entering a Lua call is a Go
// function call, returning from one is a Go return. pcall/xpcall are
// built the same way, on ordinary Go error returns rather than a
// LongJump — the nested-error-recursion cap the original enforces by
// counting crossed OnProtectedCallErrorReturn frames during a stack walk
// is instead a plain counter incremented around each xpcall handler
// invocation (see pcall.go).
//
// Operand layout. bytecode.Builder exposes three emit primitives
// (EmitABC, EmitAD, EmitBranch) with no per-opcode operand schema of
// their own, so dispatch.go's decode side fixes one concrete layout per
// opcode and that is authoritative:
//
//	MOVE              ABC(dest, src, _)
//	LOADK             AD(dest, constOrdinal)
//	LOADNIL           ABC(start, count, _)
//	LOADBOOL          ABC(dest, 0|1, _)
//	GETBYID/SELF      ABC(dest, tableReg, constOrdinal)       PUTBYID ABC(tableReg, constOrdinal, valueReg)
//	GETBYIMM          ABC(dest, tableReg, imm)                PUTBYIMM ABC(tableReg, imm, valueReg)
//	GETBYINTEGERINDEX ABC(dest, tableReg, indexReg)           PUTBYINTEGERINDEX ABC(tableReg, indexReg, valueReg)
//	GETBYVAL          ABC(dest, tableReg, keyReg)             PUTBYVAL ABC(tableReg, keyReg, valueReg)
//	NEWTABLE          ABC(dest, _, _)
//	TABLEDUP          AD(dest, constOrdinal)                  constant is a template table, cloned via table.Dup
//	TABLEVARIADICPUTBYSEQ ABC(tableReg, startReg, count)       count == multretAll reads the frame's multret instead
//	ADD/SUB/MUL/DIV/MOD/POW ABC(dest, lhsReg, rhsReg)
//	UNM/NOT/LEN       ABC(dest, srcReg, _)
//	CONCAT            ABC(dest, startReg, endReg)             inclusive range
//	JMP               Branch(_, target, width=4)
//	EQ/NEQ/LT/LE/NOTLT/NOTLE ABC(boolExpected, lhsReg, rhsReg) classic skip-next-JMP: if the computed boolean
//	                  doesn't match boolExpected, the following JMP (always present, always 7 bytes) is
//	                  fetched and discarded instead of taken; NEQ/NOTLT/NOTLE compute the negation of EQ/LT/LE
//	TEST              ABC(reg, boolExpected, _)                same skip-next-JMP shape against IsTruthy()
//	CALL              ABC(funcReg, numArgs, numResultsOrMultretAll)
//	TAILCALL          ABC(funcReg, numArgs, _)                 returns directly from the current Go frame
//	CALLM/CALLMT      ABC(funcReg, numFixedArgs, _)             appends the frame's multret to the fixed args
//	RETURN0           ABC(_, _, _)
//	RETURN            ABC(startReg, count, _)
//	RETURNM           ABC(startReg, count, _)                  appends the frame's multret
//	FORLOOPINIT       Branch(baseReg, exitTarget, width=4)      4 consecutive registers: init/limit/step/induction;
//	                  jumps to exitTarget when the loop should never run, else falls through into the body
//	FORLOOPSTEP       Branch(baseReg, bodyStart, width=4)       placed after the body; jumps back to bodyStart
//	                  while the loop should continue, else falls through past the loop
//	KVLOOPITER        Branch(baseReg, exitTarget, width=4)      3 consecutive registers: table/key/value
//	VALIDATEISNEXTANDBRANCH Branch(fnReg, slowPathTarget, width=4)
//	CLOSURE           AD(dest, protoIndex)                      instantiates block.Protos[protoIndex]
//	UPVALUEGET        ABC(dest, upvalIdx, _)                    UPVALUEPUT ABC(upvalIdx, srcReg, _)
//	UPVALUECLOSE      ABC(baseReg, _, _)
//	VARARG            ABC(dest, countOrMultretAll, _)
package interp
