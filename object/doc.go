// Package object implements the callable and environment-capture side of
// the runtime: FunctionObject, Upvalue, the ExecutableCode discriminant,
// and CodeBlock (spec §3.6).
//
// The original ExecutableCode discriminant recovers its kind from the
// sign and nullity of a raw bytecode pointer (null → intrinsic, negative
// → C function via bitwise-NOT, positive → interpreted). That trick only
// makes sense when "bytecode" is a literal machine address; here it is
// replaced with an explicit Kind enum, which is the idiomatic Go rendition
// of the same three-way sum type without resorting to pointer arithmetic.
package object
