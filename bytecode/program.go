package bytecode

import "github.com/luacore/vm/value"

// MetadataKind identifies one of the trailing-array's side-storage groups
// (spec §4.4 "Metadata arrays", §6.2).
type MetadataKind uint8

const (
	MetadataInlineCache MetadataKind = iota
	MetadataProfileCounter
)

// MetadataGroup describes one aligned region of the trailing metadata
// array (spec §6.2 "the region begins at the next address satisfying the
// kind's log2-alignment; size = sizeof(kind) * count").
type MetadataGroup struct {
	Kind     MetadataKind
	Align    uint32
	ElemSize uint32
	Count    uint32
	Offset   uint32
}

// Program is a finished, immutable unit of compiled code: the byte
// stream, its constant pool, and the trailing metadata region (spec
// §6.1, §6.2). It is produced by Builder.Finalize and owned by an
// object.CodeBlock.
type Program struct {
	Code      []byte
	Constants []value.Value
	Metadata  []byte
	Groups    []MetadataGroup

	metadataPtr map[uint32]uint32
}

// MetadataOffsetFor returns the trailing-region byte offset reserved for
// the instruction at instrOffset, if that instruction requested one.
func (p *Program) MetadataOffsetFor(instrOffset uint32) (uint32, bool) {
	off, ok := p.metadataPtr[instrOffset]
	return off, ok
}
