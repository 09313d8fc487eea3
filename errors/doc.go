// Package errors provides structured error types for the Lua VM core.
//
// Errors are categorized by Phase (where in the VM the error originated)
// and Kind (error category). The Error type carries enough context —
// a path into the failing value, the Lua type names involved, and a
// cause chain — to reconstruct a Lua-style error message without the
// caller re-deriving it.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseArith, errors.KindTypeError).
//		Detail("attempt to perform arithmetic on a %s value", "table").
//		Build()
//
// or one of the convenience constructors for common patterns:
//
//	err := errors.TypeError(errors.PhaseAccess, "attempt to index a nil value")
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
