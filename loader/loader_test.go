package loader

import (
	"testing"

	"github.com/luacore/vm/coroutine"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

func newTestCoroutine() *coroutine.Coroutine {
	return coroutine.New(nil, func(co *coroutine.Coroutine, args []value.Value) ([]value.Value, error) {
		return nil, nil
	})
}

func TestLoadAddReturnsSum(t *testing.T) {
	vm := interp.New()
	doc := []byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"num_fixed_params": 0,
			"num_locals": 3,
			"instructions": [
				{"op": "LOADK", "a": 0, "const": 0},
				{"op": "LOADK", "a": 1, "const": 1},
				{"op": "ADD", "a": 2, "b": 0, "c": 1},
				{"op": "RETURN", "a": 2, "b": 1}
			],
			"constants": [
				{"type": "number", "number": 10},
				{"type": "number", "number": 20}
			]
		}
	}`)

	block, err := Load(vm, doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if block.NumLocals != 3 || block.NumFixedParams != 0 {
		t.Fatalf("block shape = %+v, want NumLocals=3 NumFixedParams=0", block)
	}

	fo := object.NewFunctionObject(object.NewInterpreted(block), nil)
	co := newTestCoroutine()
	results, err := vm.Call(co, fo.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(results) != 1 || !results[0].IsDouble() || results[0].AsDouble() != 30 {
		t.Fatalf("results = %v, want [30]", results)
	}
}

func TestLoadNestedClosure(t *testing.T) {
	vm := interp.New()
	doc := []byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"num_fixed_params": 0,
			"num_locals": 1,
			"instructions": [
				{"op": "CLOSURE", "a": 0, "proto": 0},
				{"op": "RETURN", "a": 0, "b": 1}
			],
			"protos": [
				{
					"name": "inner",
					"num_fixed_params": 1,
					"num_locals": 2,
					"instructions": [
						{"op": "ADD", "a": 1, "b": 0, "c": 0},
						{"op": "RETURN", "a": 1, "b": 1}
					]
				}
			]
		}
	}`)

	block, err := Load(vm, doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(block.Protos) != 1 {
		t.Fatalf("len(Protos) = %d, want 1", len(block.Protos))
	}
	if block.Protos[0].NumFixedParams != 1 {
		t.Fatalf("inner NumFixedParams = %d, want 1", block.Protos[0].NumFixedParams)
	}
}

func TestLoadJmpSkipsInstruction(t *testing.T) {
	vm := interp.New()
	doc := []byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"num_fixed_params": 0,
			"num_locals": 1,
			"instructions": [
				{"op": "JMP", "target": 2},
				{"op": "LOADBOOL", "a": 0, "b": 1},
				{"op": "LOADBOOL", "a": 0, "b": 0},
				{"op": "RETURN", "a": 0, "b": 1}
			]
		}
	}`)

	block, err := Load(vm, doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fo := object.NewFunctionObject(object.NewInterpreted(block), nil)
	co := newTestCoroutine()
	results, err := vm.Call(co, fo.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(results) != 1 || !results[0].IsBool() || results[0].IsTrue() {
		t.Fatalf("results = %v, want [false] (jump past the LOADBOOL true)", results)
	}
}

func TestLoadTableConstantBuildsArrayTemplate(t *testing.T) {
	vm := interp.New()
	doc := []byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"num_fixed_params": 0,
			"num_locals": 1,
			"instructions": [
				{"op": "TABLEDUP", "a": 0, "const": 0},
				{"op": "RETURN", "a": 0, "b": 1}
			],
			"constants": [
				{"type": "table", "array": [
					{"type": "number", "number": 1},
					{"type": "string", "string": "x"}
				]}
			]
		}
	}`)

	block, err := Load(vm, doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fo := object.NewFunctionObject(object.NewInterpreted(block), nil)
	co := newTestCoroutine()
	results, err := vm.Call(co, fo.AsValue(vm.Heap), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	tbl, ok := vm.LookupTable(results[0])
	if !ok {
		t.Fatalf("result is not a table: %v", results[0])
	}
	if got := tbl.RawGetByIntegerIndex(1); !got.IsDouble() || got.AsDouble() != 1 {
		t.Fatalf("tbl[1] = %v, want 1", got)
	}
}

func TestLoadRejectsUnknownOpcode(t *testing.T) {
	vm := interp.New()
	doc := []byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"instructions": [{"op": "BOGUS"}]
		}
	}`)
	if _, err := Load(vm, doc); err == nil {
		t.Fatal("Load should reject an unrecognized opcode")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	vm := interp.New()
	if _, err := Load(vm, []byte("not json")); err == nil {
		t.Fatal("Load should reject malformed JSON")
	}
}
