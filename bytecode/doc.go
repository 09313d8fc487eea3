// Package bytecode implements the instruction encoding, constant pool, and
// two-phase builder described in spec §4.4 and §6.1–§6.2: a flat byte
// stream with a parallel constant table, forward-branch patching once
// label targets are known, and a trailing metadata region grouped by kind
// and aligned the way a CodeBlock's trailing array is laid out.
//
// The builder mirrors the define-then-resolve shape the wasm linker uses
// for deferred import binding (see linker/resolver.go in the reference
// pack): instructions and labels are emitted first, everything that
// depends on a final address is recorded as a pending patch, and
// Builder.Finalize resolves all of it in one pass.
package bytecode
