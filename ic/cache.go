package ic

import "sync"

// DefaultCapacity is the number of entries a Site holds before it starts
// evicting (spec §4.1 "a small open-addressed table of entries; once
// full, the oldest entry is evicted").
const DefaultCapacity = 4

// entry is one resolved (key, payload) pair.
type entry struct {
	key     any
	payload any
}

// Site is one access bytecode's inline-cache state block (spec §4.1
// "MakeInlineCache() — creates/retrieves the per-site IC state block").
type Site struct {
	mu          sync.Mutex
	capacity    int
	entries     []entry
	uncacheable bool
}

// NewSite creates a Site with the given capacity, or DefaultCapacity if
// capacity <= 0.
func NewSite(capacity int) *Site {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Site{capacity: capacity}
}

// SetUncacheable permanently disables recording new entries on this site
// (spec §4.1 "A bytecode flagged uncacheable produces no entry despite an
// effect being declared") — e.g. once the accessed object has fallen
// back to an uncacheable dictionary.
func (s *Site) SetUncacheable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uncacheable = true
	s.entries = nil
}

// IsUncacheable reports whether SetUncacheable has been called.
func (s *Site) IsUncacheable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uncacheable
}

// Access runs the cached fast path for key if present; otherwise it calls
// resolve to compute a fresh payload, records it (unless the site is
// uncacheable), and returns it. This is the fused AddKey+Body+Effect
// protocol from spec §4.1, collapsed into one call (see package doc).
func (s *Site) Access(key any, resolve func() any) any {
	s.mu.Lock()
	if !s.uncacheable {
		for _, e := range s.entries {
			if e.key == key {
				s.mu.Unlock()
				return e.payload
			}
		}
	}
	s.mu.Unlock()

	payload := resolve()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uncacheable {
		return payload
	}
	if len(s.entries) >= s.capacity {
		// Evict the oldest entry (spec §4.1 "once full, the oldest entry
		// is evicted").
		s.entries = append(s.entries[:0], s.entries[1:]...)
	}
	s.entries = append(s.entries, entry{key: key, payload: payload})
	return payload
}

// Len reports how many entries are currently cached — a site with more
// than one live entry is polymorphic (spec §4.1 "Eviction & polymorphism").
func (s *Site) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// FuseHint is what a monomorphic site hands the dispatch loop so it can
// branch straight to a specialized handler (spec §4.1
// "FuseICIntoInterpreterOpcode... dispatches directly to a specialized
// handler"). Fusing restricts the site to one execution per dispatch,
// since the fused path skips re-checking whether a second iteration (a
// loop body re-running the same bytecode) changed the hidden class.
type FuseHint struct {
	Key     any
	Payload any
}

// Fused reports the site's single cached entry, if it has exactly one —
// fusing a polymorphic site would silently pick one of several branches,
// so Fused refuses once Len() > 1.
func (s *Site) Fused() (FuseHint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uncacheable || len(s.entries) != 1 {
		return FuseHint{}, false
	}
	e := s.entries[0]
	return FuseHint{Key: e.key, Payload: e.payload}, true
}
