package vm

import (
	"testing"

	"github.com/luacore/vm/object"
	"github.com/luacore/vm/value"
)

const addChunk = `{
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
}`

func TestMachineRunReturnsChunkResult(t *testing.T) {
	m := New()
	block, err := m.LoadChunk([]byte(addChunk))
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}

	results, err := m.Run(block, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || !results[0].IsDouble() || results[0].AsDouble() != 30 {
		t.Fatalf("results = %v, want [30]", results)
	}
}

func TestMachineLoadChunkBindsGlobalsThroughoutProtoTree(t *testing.T) {
	m := New()
	block, err := m.LoadChunk([]byte(`{
		"chunk_name": "t",
		"root": {
			"name": "main",
			"instructions": [{"op": "CLOSURE", "a": 0, "proto": 0}, {"op": "RETURN0"}],
			"protos": [{"name": "inner", "num_locals": 1, "instructions": [{"op": "RETURN0"}]}]
		}
	}`))
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if block.GlobalObject != m.Globals {
		t.Fatal("root block GlobalObject not bound to the machine's globals table")
	}
	if block.Protos[0].GlobalObject != m.Globals {
		t.Fatal("nested block GlobalObject not bound to the machine's globals table")
	}
}

func TestMachineCallGlobalInvokesInstalledFunction(t *testing.T) {
	m := New()

	callee, err := m.LoadChunk([]byte(`{
		"chunk_name": "t",
		"root": {
			"name": "double",
			"num_fixed_params": 1,
			"num_locals": 2,
			"instructions": [
				{"op": "ADD", "a": 1, "b": 0, "c": 0},
				{"op": "RETURN", "a": 1, "b": 1}
			]
		}
	}`))
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}

	fo := object.NewFunctionObject(object.NewInterpreted(callee), nil)
	name := m.Interp.Interner.Intern([]byte("double"))
	m.Globals.RawPutById(name, fo.AsValue(m.Interp.Heap))

	results, err := m.CallGlobal("double", []value.Value{value.FromDouble(21)})
	if err != nil {
		t.Fatalf("CallGlobal: %v", err)
	}
	if len(results) != 1 || !results[0].IsDouble() || results[0].AsDouble() != 42 {
		t.Fatalf("results = %v, want [42]", results)
	}
}
