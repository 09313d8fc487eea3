// Package ic implements the inline-cache engine that makes property
// access O(1) on steady state (spec §4.1): one Site per access bytecode,
// keyed by the accessed object's hidden class, caching whatever payload
// a miss resolved so a hit can reuse it without re-probing the object.
//
// Deegen's AddKey/Body/Effect split exists to let the original VM
// generate specialized machine code per captured-value combination at
// codegen time. Go has no equivalent code-generation step, and closures
// already capture their free variables naturally, so Site.Access
// collapses that three-part protocol into a single miss callback whose
// return value becomes both the immediate result and the cached payload.
package ic
