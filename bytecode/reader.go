package bytecode

// Reader walks a Program's Code stream one instruction at a time — the
// dispatch loop's instruction fetch (spec §6.1).
type Reader struct {
	code []byte
	pc   uint32
}

// NewReader creates a Reader positioned at the start of code.
func NewReader(code []byte) *Reader { return &Reader{code: code} }

// PC returns the current byte offset.
func (r *Reader) PC() uint32 { return r.pc }

// SetPC repositions the reader, e.g. for a jump or a branch.
func (r *Reader) SetPC(pc uint32) { r.pc = pc }

// AtEnd reports whether the reader has consumed the whole stream.
func (r *Reader) AtEnd() bool { return int(r.pc) >= len(r.code) }

// FetchOp reads the opcode byte at the current position and advances.
func (r *Reader) FetchOp() Opcode {
	op := Opcode(r.code[r.pc])
	r.pc++
	return op
}

// ReadU16 reads an unsigned 16-bit slot operand and advances.
func (r *Reader) ReadU16() uint16 {
	v := uint16(r.code[r.pc]) | uint16(r.code[r.pc+1])<<8
	r.pc += 2
	return v
}

// ReadI32 reads a signed 32-bit operand and advances.
func (r *Reader) ReadI32() int32 {
	u := uint32(r.code[r.pc]) | uint32(r.code[r.pc+1])<<8 | uint32(r.code[r.pc+2])<<16 | uint32(r.code[r.pc+3])<<24
	r.pc += 4
	return int32(u)
}

// ReadBranch reads a branch displacement of the given width (2 or 4
// bytes, per the variant the builder chose) relative to the instruction's
// own starting offset, and returns the absolute target.
func (r *Reader) ReadBranch(instrOffset uint32, width int) int32 {
	switch width {
	case 2:
		d := int16(r.ReadU16())
		return int32(instrOffset) + int32(d)
	default:
		d := r.ReadI32()
		return int32(instrOffset) + d
	}
}
