package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which VM subsystem raised the error.
type Phase string

const (
	PhaseDecode    Phase = "decode"    // Value NaN-box decode / type-predicate check
	PhaseAccess    Phase = "access"    // table Get/Put (structure, inline cache, array part)
	PhaseArith     Phase = "arith"     // arithmetic, comparison, equality, concat bytecodes
	PhaseCall      Phase = "call"      // call/tailcall/return ABI
	PhaseCoroutine Phase = "coroutine" // coroutine create/resume/yield/status
	PhaseLibrary   Phase = "library"   // standard-library entry points
	PhaseLoad      Phase = "load"      // bytecode-JSON loading
)

// Kind categorizes the error within its phase.
type Kind string

const (
	KindTypeError            Kind = "type_error"
	KindDomainError          Kind = "domain_error"
	KindOutOfMemory          Kind = "out_of_memory"
	KindStackOverflow        Kind = "stack_overflow"
	KindUnsupported          Kind = "unsupported"
	KindErrorInErrorHandling Kind = "error_in_error_handling"
	KindInvalidBytecode      Kind = "invalid_bytecode"
	KindNotFound             Kind = "not_found"
)

// Error is the structured error type used throughout the VM core.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	LuaType  string
	Detail   string
	Path     []string
	LuaValue any // the Lua value (per spec §4.6/§7, ThrowError propagates it as-is)
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.LuaType != "" {
		b.WriteString(": ")
		b.WriteString(e.LuaType)
	}

	if e.Detail != "" {
		if e.LuaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by (Phase, Kind).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) LuaType(t string) *Builder {
	b.err.LuaType = t
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) LuaValue(v any) *Builder {
	b.err.LuaValue = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// TypeError creates a type-error in the given phase with a ready message.
func TypeError(phase Phase, detail string, args ...any) *Error {
	return &Error{Phase: phase, Kind: KindTypeError, Detail: fmt.Sprintf(detail, args...)}
}

// DomainError creates a domain-error (bad argument, bad index, etc.).
func DomainError(phase Phase, detail string, args ...any) *Error {
	return &Error{Phase: phase, Kind: KindDomainError, Detail: fmt.Sprintf(detail, args...)}
}

// Unsupported creates an error for a stubbed library function (SPEC_FULL §6).
func Unsupported(phase Phase, what string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: what + " is not implemented"}
}

// StackOverflow creates a stack-overflow error.
func StackOverflow(phase Phase) *Error {
	return &Error{Phase: phase, Kind: KindStackOverflow, Detail: "stack overflow"}
}

// ErrorInErrorHandling creates the canonical nested-error-recursion message (spec §4.6, capped at 50).
func ErrorInErrorHandling() *Error {
	return &Error{Phase: PhaseCoroutine, Kind: KindErrorInErrorHandling, Detail: "error in error handling"}
}

// InvalidBytecode creates a bytecode-loading error.
func InvalidBytecode(path []string, detail string, args ...any) *Error {
	return &Error{Phase: PhaseLoad, Kind: KindInvalidBytecode, Path: path, Detail: fmt.Sprintf(detail, args...)}
}
