// Package luastring implements the VM's hash-consed string interner
// (spec §3.3).
//
// Every Lua string is interned: two strings with identical bytes share
// one *String object, so string equality reduces to pointer equality
// (spec §8 "String intern uniqueness"). The interner is a single
// process-wide, open-addressed hash table with linear probing, resized
// whenever its load factor would exceed 0.5.
//
// Content hashing uses XXHash64 (github.com/cespare/xxhash/v2); each
// interned String stores a truncated (hashHigh:16, hashLow:32) pair
// taken from that 64-bit digest, matching the on-object layout spec §3.3
// describes, while the interner itself probes on the full 64-bit digest
// for collision resistance.
package luastring
