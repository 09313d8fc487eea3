package bytecode

import (
	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/value"
)

// Label names a not-yet-known code offset a branch can target.
type Label int

type pendingBranch struct {
	instrOffset   uint32
	operandOffset uint32
	width         int
	label         Label
}

type metaRequest struct {
	instrOffset uint32
	kind        MetadataKind
}

// Builder accumulates a single function's instruction stream, constant
// pool, and metadata requests before Finalize produces an immutable
// Program (spec §4.4).
type Builder struct {
	code       []byte
	constants  []value.Value
	constIndex map[value.Value]int32

	labels  []int32
	pending []pendingBranch

	metaRequests []metaRequest
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{constIndex: make(map[value.Value]int32)}
}

// NewLabel allocates an unbound label.
func (b *Builder) NewLabel() Label {
	b.labels = append(b.labels, -1)
	return Label(len(b.labels) - 1)
}

// BindLabel fixes l to the current emission offset — the next byte that
// will be written.
func (b *Builder) BindLabel(l Label) {
	b.labels[l] = int32(len(b.code))
}

// Offset returns the current emission offset.
func (b *Builder) Offset() uint32 { return uint32(len(b.code)) }

// Const interns v into the constant pool, returning its ordinal. Repeated
// constants (spec §6.1 "constant ordinal") share one slot.
func (b *Builder) Const(v value.Value) int32 {
	if idx, ok := b.constIndex[v]; ok {
		return idx
	}
	idx := int32(len(b.constants))
	b.constants = append(b.constants, v)
	b.constIndex[v] = idx
	return idx
}

func (b *Builder) writeU16(v uint16) {
	b.code = append(b.code, byte(v), byte(v>>8))
}

func (b *Builder) writeI32(v int32) {
	u := uint32(v)
	b.code = append(b.code, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
}

func (b *Builder) emitOp(op Opcode) uint32 {
	off := b.Offset()
	b.code = append(b.code, byte(op))
	return off
}

// EmitABC emits op followed by three unsigned 16-bit slot operands — the
// common dest/src1/src2 shape (spec §6.1 "bytecode slot = unsigned
// 16-bit").
func (b *Builder) EmitABC(op Opcode, a, b2, c uint16) uint32 {
	off := b.emitOp(op)
	b.writeU16(a)
	b.writeU16(b2)
	b.writeU16(c)
	return off
}

// EmitAD emits op with one slot operand and one signed 32-bit operand —
// used for constant ordinals and range bases wide enough to not fit in 16
// bits (spec §6.1 "constant ordinal = signed 16 or 32 bit").
func (b *Builder) EmitAD(op Opcode, a uint16, d int32) uint32 {
	off := b.emitOp(op)
	b.writeU16(a)
	b.writeI32(d)
	return off
}

// EmitBranch emits op with a leading slot operand a and a branch
// displacement to target, reserved as width bytes (2 or 4) and filled in
// by Finalize once every label is bound (spec §6.1 "Branch offsets are
// signed; their width is determined by the variant.").
func (b *Builder) EmitBranch(op Opcode, a uint16, target Label, width int) (uint32, error) {
	if width != 2 && width != 4 {
		return 0, errors.InvalidBytecode(nil, "unsupported branch width %d", width)
	}
	off := b.emitOp(op)
	b.writeU16(a)
	operandOffset := b.Offset()
	for i := 0; i < width; i++ {
		b.code = append(b.code, 0)
	}
	b.pending = append(b.pending, pendingBranch{instrOffset: off, operandOffset: operandOffset, width: width, label: target})
	return off, nil
}

// RequestMetadata reserves a trailing-array slot of kind for the
// instruction at instrOffset (spec §4.4 "Metadata arrays").
func (b *Builder) RequestMetadata(instrOffset uint32, kind MetadataKind) {
	b.metaRequests = append(b.metaRequests, metaRequest{instrOffset: instrOffset, kind: kind})
}

func metadataElemSize(MetadataKind) uint32 { return 8 }
func metadataAlign(MetadataKind) uint32    { return 8 }

// Finalize patches every pending branch, lays out the trailing metadata
// region grouped and aligned by kind, and returns the completed Program.
// A branch whose resolved displacement exceeds its variant's width is
// reported rather than silently truncated (spec §4.4 "the builder refuses
// to patch a branch whose displacement exceeds its variant's limit").
func (b *Builder) Finalize() (*Program, error) {
	for _, pb := range b.pending {
		target := b.labels[pb.label]
		if target < 0 {
			return nil, errors.InvalidBytecode(nil, "label used at offset %d was never bound", pb.instrOffset)
		}
		disp := int64(target) - int64(pb.instrOffset)
		switch pb.width {
		case 2:
			if disp < -32768 || disp > 32767 {
				return nil, errors.InvalidBytecode(nil,
					"branch at offset %d has displacement %d, exceeds 16-bit variant; re-emit with a wider variant",
					pb.instrOffset, disp)
			}
			d := uint16(int16(disp))
			b.code[pb.operandOffset] = byte(d)
			b.code[pb.operandOffset+1] = byte(d >> 8)
		case 4:
			d := uint32(int32(disp))
			for i := 0; i < 4; i++ {
				b.code[int(pb.operandOffset)+i] = byte(d >> (8 * i))
			}
		}
	}

	order := make([]MetadataKind, 0, 2)
	groups := make(map[MetadataKind]*MetadataGroup, 2)
	for _, r := range b.metaRequests {
		g, ok := groups[r.kind]
		if !ok {
			g = &MetadataGroup{Kind: r.kind, ElemSize: metadataElemSize(r.kind), Align: metadataAlign(r.kind)}
			groups[r.kind] = g
			order = append(order, r.kind)
		}
		g.Count++
	}

	var trailing []byte
	finalGroups := make([]MetadataGroup, 0, len(order))
	for _, kind := range order {
		g := groups[kind]
		for uint32(len(trailing))%g.Align != 0 {
			trailing = append(trailing, 0)
		}
		g.Offset = uint32(len(trailing))
		trailing = append(trailing, make([]byte, g.ElemSize*g.Count)...)
		finalGroups = append(finalGroups, *g)
	}

	ptrs := make(map[uint32]uint32, len(b.metaRequests))
	used := make(map[MetadataKind]uint32, len(order))
	for _, r := range b.metaRequests {
		g := groups[r.kind]
		idx := used[r.kind]
		used[r.kind] = idx + 1
		ptrs[r.instrOffset] = g.Offset + idx*g.ElemSize
	}
	for len(trailing)%8 != 0 {
		trailing = append(trailing, 0)
	}

	return &Program{
		Code:        b.code,
		Constants:   b.constants,
		Metadata:    trailing,
		Groups:      finalGroups,
		metadataPtr: ptrs,
	}, nil
}
