// Package coroutine implements the runtime context a Lua coroutine runs
// in (spec §3.7): its value stack, call-frame chain, per-coroutine
// sorted open-upvalue list, and the CoroSwitch transfer primitive (spec
// §4.7).
//
// The original CoroSwitch saves one native stack and restores another by
// direct stack-pointer manipulation — there is no such operation in Go.
// Here a coroutine's body runs on its own goroutine; Resume and Yield
// hand a single token of control back and forth over a pair of
// unbuffered channels, so at any instant exactly one of the two
// goroutines is runnable. This gives the same single-threaded
// cooperative semantics the spec requires (§5 "no scheduling — the
// caller is responsible for tracking which coroutine is alive") without
// an explicit stack-switching primitive.
package coroutine
