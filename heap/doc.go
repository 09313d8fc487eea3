// Package heap implements the VM's segmented heap and its three pointer
// flavors (spec §3.2).
//
// The VM partitions a single address space into three regions:
//
//	User heap   — Lua-visible objects (strings, tables, functions, ...)
//	SPDS        — short-lived per-data-structure scratch
//	System heap — internal metadata (structures, code blocks)
//
// Each region is modeled here as an independently growable arena
// ([]byte-backed bump allocator) rather than a real fixed-address mmap
// region — Go's GC already owns real memory safety, so there is no
// value in reproducing the original's raw-pointer-arithmetic trick; what
// this package preserves is the *pointer-kind discipline* the rest of
// the VM depends on: a UserHeapPointer, SystemHeapPointer, and
// GeneralHeapPointer are distinct, narrow, non-interchangeable integer
// types with their own encode/decode rules, exactly as spec §3.2
// describes.
package heap
