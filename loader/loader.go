// Package loader implements the JSON bytecode-loading front end (spec
// §6.5): it decodes a chunk document into a tree of object.CodeBlocks,
// using bytecode.Builder to assemble each prototype's instruction
// stream. The compiler that produces these documents is out of scope
// (spec.md §1 Non-goals) — this package only materializes what one
// hands it, the same "decode an external representation into the
// object model" shape component/ uses for binary WIT packages.
package loader

import (
	"encoding/json"
	"fmt"

	"github.com/luacore/vm/bytecode"
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

// multretAll mirrors interp's unexported wire sentinel for "the rest of
// the frame's multret" (dispatch.go). It is duplicated here rather than
// imported because it is an implementation-internal encoding constant,
// not an exported API — both sides must simply agree on 0xFFFF.
const multretAll = 0xFFFF

// Chunk is the root JSON document: a name for diagnostics and the
// top-level function prototype (spec §6.5 "ChunkName/FunctionPrototypes").
type Chunk struct {
	ChunkName string    `json:"chunk_name"`
	Root      Prototype `json:"root"`
}

// Prototype is one function's unlinked representation: its frame shape,
// upvalue capture list, constant pool, instruction stream, and any
// nested function prototypes CLOSURE instructions reference by index.
type Prototype struct {
	Name           string        `json:"name"`
	NumFixedParams uint32        `json:"num_fixed_params"`
	NumLocals      uint32        `json:"num_locals"`
	IsVararg       bool          `json:"is_vararg"`
	Upvalues       []UpvalueDesc `json:"upvalues"`
	Constants      []Constant    `json:"constants"`
	Instructions   []Instruction `json:"instructions"`
	Protos         []Prototype   `json:"protos"`
}

// UpvalueDesc mirrors object.UpvalueDesc at the JSON layer.
type UpvalueDesc struct {
	FromParentLocal bool   `json:"from_parent_local"`
	Index           uint32 `json:"index"`
}

// Constant is a tagged union over the value kinds a constant pool entry
// can hold. "table" builds a template table for TABLEDUP out of a
// sequential array part only — named-property templates aren't
// expressible here, matching how far TABLEDUP's own doc comment scopes
// the feature.
type Constant struct {
	Type   string     `json:"type"` // "nil" | "bool" | "number" | "string" | "table"
	Bool   bool       `json:"bool,omitempty"`
	Number float64    `json:"number,omitempty"`
	String string     `json:"string,omitempty"`
	Array  []Constant `json:"array,omitempty"`
}

// Instruction is one bytecode-level operation. Which fields apply
// depends on op; see interp/doc.go for the authoritative operand-layout
// table this loader's assemble function mirrors.
type Instruction struct {
	Op       string `json:"op"`
	A        uint16 `json:"a,omitempty"`
	B        uint16 `json:"b,omitempty"`
	C        uint16 `json:"c,omitempty"`
	Multret  bool   `json:"multret,omitempty"`
	ConstIdx *int   `json:"const,omitempty"` // index into this prototype's Constants
	ProtoIdx *int   `json:"proto,omitempty"` // index into this prototype's Protos, for CLOSURE
	Target   *int   `json:"target,omitempty"` // instruction index, for branches and the JMP following a compare/TEST
}

// Load decodes a JSON chunk document and returns its root CodeBlock,
// with every nested prototype assembled and linked via Protos.
func Load(vm *interp.VM, data []byte) (*object.CodeBlock, error) {
	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, errors.InvalidBytecode(nil, "malformed chunk JSON: %v", err)
	}
	return assemble(vm, chunk.ChunkName, chunk.Root)
}

func assemble(vm *interp.VM, chunkName string, proto Prototype) (*object.CodeBlock, error) {
	path := []string{chunkName, proto.Name}

	protos := make([]*object.CodeBlock, len(proto.Protos))
	for i, child := range proto.Protos {
		block, err := assemble(vm, chunkName, child)
		if err != nil {
			return nil, err
		}
		protos[i] = block
	}

	b := bytecode.NewBuilder()

	constOrd := make([]int32, len(proto.Constants))
	for i, c := range proto.Constants {
		v, err := materializeConstant(vm, c)
		if err != nil {
			return nil, errors.InvalidBytecode(path, "constant %d: %v", i, err)
		}
		constOrd[i] = b.Const(v)
	}

	labels := make([]bytecode.Label, len(proto.Instructions)+1)
	for i := range labels {
		labels[i] = b.NewLabel()
	}
	target := func(instr Instruction) (bytecode.Label, error) {
		if instr.Target == nil {
			return 0, fmt.Errorf("%s requires a target", instr.Op)
		}
		if *instr.Target < 0 || *instr.Target > len(proto.Instructions) {
			return 0, fmt.Errorf("target %d out of range", *instr.Target)
		}
		return labels[*instr.Target], nil
	}
	constant := func(instr Instruction) (int32, error) {
		if instr.ConstIdx == nil {
			return 0, fmt.Errorf("%s requires a const index", instr.Op)
		}
		if *instr.ConstIdx < 0 || *instr.ConstIdx >= len(constOrd) {
			return 0, fmt.Errorf("const index %d out of range", *instr.ConstIdx)
		}
		return constOrd[*instr.ConstIdx], nil
	}

	for i, instr := range proto.Instructions {
		b.BindLabel(labels[i])
		if err := emit(b, instr, target, constant, protos); err != nil {
			return nil, errors.InvalidBytecode(path, "instruction %d (%s): %v", i, instr.Op, err)
		}
	}
	b.BindLabel(labels[len(proto.Instructions)])

	prog, err := b.Finalize()
	if err != nil {
		return nil, errors.InvalidBytecode(path, "finalize: %v", err)
	}

	descs := make([]object.UpvalueDesc, len(proto.Upvalues))
	for i, u := range proto.Upvalues {
		descs[i] = object.UpvalueDesc{FromParentLocal: u.FromParentLocal, Index: u.Index}
	}

	return &object.CodeBlock{
		Program:        prog,
		NumFixedParams: proto.NumFixedParams,
		NumLocals:      proto.NumLocals,
		NumUpvalues:    uint32(len(descs)),
		IsVararg:       proto.IsVararg,
		Name:           proto.Name,
		Protos:         protos,
		UpvalueDescs:   descs,
	}, nil
}

func materializeConstant(vm *interp.VM, c Constant) (value.Value, error) {
	switch c.Type {
	case "nil":
		return value.Nil, nil
	case "bool":
		return value.FromBool(c.Bool), nil
	case "number":
		return value.FromDouble(c.Number), nil
	case "string":
		return vm.StringValue(c.String), nil
	case "table":
		t := vm.NewTable()
		for i, elem := range c.Array {
			v, err := materializeConstant(vm, elem)
			if err != nil {
				return value.Nil, err
			}
			t.RawPutByIntegerIndex(int64(i+1), v)
		}
		return t.AsValue(vm.Heap), nil
	default:
		return value.Nil, fmt.Errorf("unknown constant type %q", c.Type)
	}
}

func emit(b *bytecode.Builder, instr Instruction, target func(Instruction) (bytecode.Label, error), constant func(Instruction) (int32, error), protos []*object.CodeBlock) error {
	resultSlot := instr.C
	if instr.Multret {
		resultSlot = multretAll
	}

	switch instr.Op {
	case "MOVE", "LOADNIL", "LOADBOOL",
		"GETBYIMM", "PUTBYIMM", "GETBYINTEGERINDEX", "PUTBYINTEGERINDEX", "GETBYVAL", "PUTBYVAL",
		"NEWTABLE", "ADD", "SUB", "MUL", "DIV", "MOD", "POW", "UNM", "NOT", "LEN", "CONCAT",
		"EQ", "NEQ", "LT", "LE", "NOTLT", "NOTLE", "TEST",
		"CALL", "TAILCALL", "CALLM", "CALLMT", "RETURN0", "RETURN", "RETURNM",
		"UPVALUEGET", "UPVALUEPUT", "UPVALUECLOSE", "VARARG", "TABLEVARIADICPUTBYSEQ":
		b.EmitABC(opcodeOf(instr.Op), instr.A, instr.B, resultSlot)

	case "GETBYID", "SELF":
		c, err := constant(instr)
		if err != nil {
			return err
		}
		b.EmitABC(opcodeOf(instr.Op), instr.A, instr.B, uint16(c))

	case "PUTBYID":
		c, err := constant(instr)
		if err != nil {
			return err
		}
		b.EmitABC(opcodeOf(instr.Op), instr.A, uint16(c), instr.C)

	case "LOADK", "TABLEDUP":
		c, err := constant(instr)
		if err != nil {
			return err
		}
		b.EmitAD(opcodeOf(instr.Op), instr.A, c)

	case "CLOSURE":
		if instr.ProtoIdx == nil || *instr.ProtoIdx < 0 || *instr.ProtoIdx >= len(protos) {
			return fmt.Errorf("CLOSURE requires a valid proto index")
		}
		b.EmitAD(bytecode.OpClosure, instr.A, int32(*instr.ProtoIdx))

	case "JMP":
		t, err := target(instr)
		if err != nil {
			return err
		}
		if _, err := b.EmitBranch(bytecode.OpJmp, 0, t, 4); err != nil {
			return err
		}

	case "FORLOOPINIT", "FORLOOPSTEP", "KVLOOPITER", "VALIDATEISNEXTANDBRANCH":
		t, err := target(instr)
		if err != nil {
			return err
		}
		if _, err := b.EmitBranch(opcodeOf(instr.Op), instr.A, t, 4); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown opcode %q", instr.Op)
	}
	return nil
}

var opcodesByName = map[string]bytecode.Opcode{
	"MOVE":                     bytecode.OpMove,
	"LOADK":                    bytecode.OpLoadK,
	"LOADNIL":                  bytecode.OpLoadNil,
	"LOADBOOL":                 bytecode.OpLoadBool,
	"GETBYID":                  bytecode.OpGetById,
	"GETBYIMM":                 bytecode.OpGetByImm,
	"GETBYINTEGERINDEX":        bytecode.OpGetByIntegerIndex,
	"GETBYVAL":                 bytecode.OpGetByVal,
	"PUTBYID":                  bytecode.OpPutById,
	"PUTBYIMM":                 bytecode.OpPutByImm,
	"PUTBYINTEGERINDEX":        bytecode.OpPutByIntegerIndex,
	"PUTBYVAL":                 bytecode.OpPutByVal,
	"NEWTABLE":                 bytecode.OpNewTable,
	"TABLEDUP":                 bytecode.OpTableDup,
	"TABLEVARIADICPUTBYSEQ":    bytecode.OpTableVariadicPutBySeq,
	"SELF":                     bytecode.OpSelf,
	"ADD":                      bytecode.OpAdd,
	"SUB":                      bytecode.OpSub,
	"MUL":                      bytecode.OpMul,
	"DIV":                      bytecode.OpDiv,
	"MOD":                      bytecode.OpMod,
	"POW":                      bytecode.OpPow,
	"UNM":                      bytecode.OpUnm,
	"NOT":                      bytecode.OpNot,
	"LEN":                      bytecode.OpLen,
	"CONCAT":                   bytecode.OpConcat,
	"JMP":                      bytecode.OpJmp,
	"EQ":                       bytecode.OpEq,
	"NEQ":                      bytecode.OpNeq,
	"LT":                       bytecode.OpLt,
	"LE":                       bytecode.OpLe,
	"NOTLT":                    bytecode.OpNotLt,
	"NOTLE":                    bytecode.OpNotLe,
	"TEST":                     bytecode.OpTest,
	"CALL":                     bytecode.OpCall,
	"TAILCALL":                 bytecode.OpTailCall,
	"CALLM":                    bytecode.OpCallM,
	"CALLMT":                   bytecode.OpCallMT,
	"RETURN0":                  bytecode.OpReturn0,
	"RETURN":                   bytecode.OpReturn,
	"RETURNM":                  bytecode.OpReturnM,
	"FORLOOPINIT":              bytecode.OpForLoopInit,
	"FORLOOPSTEP":              bytecode.OpForLoopStep,
	"KVLOOPITER":               bytecode.OpKVLoopIter,
	"VALIDATEISNEXTANDBRANCH":  bytecode.OpValidateIsNextAndBranch,
	"CLOSURE":                  bytecode.OpClosure,
	"UPVALUEGET":               bytecode.OpUpvalueGet,
	"UPVALUEPUT":               bytecode.OpUpvaluePut,
	"UPVALUECLOSE":             bytecode.OpUpvalueClose,
	"VARARG":                   bytecode.OpVararg,
}

func opcodeOf(name string) bytecode.Opcode {
	return opcodesByName[name]
}
