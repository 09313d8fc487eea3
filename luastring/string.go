package luastring

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/luacore/vm/value"
)

// String is an interned, immutable byte string (spec §3.3 HeapString).
// Fields mirror the spec's on-object layout: a truncated hash split
// (hashHigh/hashLow) plus the length and data. Sentinel strings (see
// NewSentinel) are never stored in the global Interner.
type String struct {
	HashHigh uint16
	HashLow  uint32
	Length   uint32
	Data     []byte
	sentinel bool
	fullHash uint64 // used for interner bucket lookup; not part of the spec layout

	boxMu    sync.Mutex
	boxed    value.Value
	hasBoxed bool
}

// Bytes returns the string's content.
func (s *String) Bytes() []byte { return s.Data }

// String implements fmt.Stringer for diagnostics.
func (s *String) String() string { return string(s.Data) }

// IsSentinel reports whether s is a synthetic sentinel string (spec
// §3.3, §9 "Interning sentinel strings") rather than a real interned
// Lua string.
func (s *String) IsSentinel() bool { return s.sentinel }

func splitHash(h uint64) (hi uint16, lo uint32) {
	return uint16(h >> 48), uint32(h)
}

func contentHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func newString(data []byte, fullHash uint64) *String {
	hi, lo := splitHash(fullHash)
	buf := make([]byte, len(data))
	copy(buf, data)
	return &String{
		HashHigh: hi,
		HashLow:  lo,
		Length:   uint32(len(buf)),
		Data:     buf,
		fullHash: fullHash,
	}
}

// sentinelCounter disambiguates sentinel hashes from any real content
// hash; the hash space is widened by flipping a bit no real XXHash64
// digest of interned content can be routed through (sentinels bypass
// contentHash entirely).
var sentinelCounter uint64

// NewSentinel creates a synthetic sentinel string standing in for a
// pseudo-property key (boolean-as-table-key, stored-metatable slot in
// polymetatable mode — spec §3.3, §3.4). Sentinels carry deliberately
// fake hashes and are never inserted into the shared Interner, so they
// cannot collide with a real string of the same content (spec §9).
func NewSentinel(tag string) *String {
	sentinelCounter++
	fake := (uint64(1) << 63) | sentinelCounter
	s := newString([]byte(tag), fake)
	s.sentinel = true
	return s
}
