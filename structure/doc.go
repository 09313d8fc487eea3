// Package structure implements the VM's hidden-class system (spec §3.4,
// §4.3): Structure nodes form a transition DAG rooted at "empty
// structure with inline capacity K", with edges labeled by
// add-property / set-metatable / transition-array-type / enable-
// polymetatable events.
//
// Property lookup (PrepareGetById) is O(1) average: small structures
// search their inline property list linearly; past a configurable
// threshold, lookups fall through to a shared AnchorTable built lazily
// and reused by pointer across sibling structures on the same lineage.
// The returned slot index is stable for the structure's lifetime (spec
// §8 "Structure slot stability"), which is what lets the inline-cache
// engine in package ic cache it.
package structure
