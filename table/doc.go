// Package table implements the Lua table object: a hidden-class-described
// set of named property slots plus a butterfly holding the array part and
// outlined named storage (spec §3.5, §4.2).
//
// Heap objects here are plain Go values reached through a heap.Registry
// rather than bytes in an arena (see the package doc in heap), so a
// Table's "pointer" is whatever value.Value heap.ToValue produced for its
// registry handle. Metamethod name strings (__index, __newindex) must
// come from the VM's single shared Interner — table itself never creates
// or interns strings, since pointer equality on strings depends on every
// string in the system sharing one Interner (spec §3.3, §3.8).
package table
