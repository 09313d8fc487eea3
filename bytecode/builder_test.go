package bytecode

import (
	"testing"

	"github.com/luacore/vm/value"
)

func TestConstPoolDedups(t *testing.T) {
	b := NewBuilder()
	i1 := b.Const(value.FromInt32(7))
	i2 := b.Const(value.FromInt32(7))
	i3 := b.Const(value.FromInt32(8))

	if i1 != i2 {
		t.Errorf("Const(7) twice = %d, %d; want equal ordinals", i1, i2)
	}
	if i3 == i1 {
		t.Errorf("Const(8) got same ordinal as Const(7)")
	}
}

func TestForwardBranchPatchedToTarget(t *testing.T) {
	b := NewBuilder()
	skip := b.NewLabel()
	branchOff, err := b.EmitBranch(OpJmp, 0, skip, 2)
	if err != nil {
		t.Fatalf("EmitBranch: %v", err)
	}
	b.EmitABC(OpLoadNil, 0, 0, 0)
	b.BindLabel(skip)
	target := b.Offset()

	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	r := NewReader(prog.Code)
	r.SetPC(branchOff)
	if op := r.FetchOp(); op != OpJmp {
		t.Fatalf("opcode at branchOff = %v, want OpJmp", op)
	}
	r.ReadU16()
	got := r.ReadBranch(branchOff, 2)
	if uint32(got) != target {
		t.Errorf("patched branch target = %d, want %d", got, target)
	}
}

func TestBackwardBranchPatchedToTarget(t *testing.T) {
	b := NewBuilder()
	top := b.NewLabel()
	b.BindLabel(top)
	b.EmitABC(OpMove, 0, 1, 0)
	branchOff, err := b.EmitBranch(OpJmp, 0, top, 2)
	if err != nil {
		t.Fatalf("EmitBranch: %v", err)
	}

	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	r := NewReader(prog.Code)
	r.SetPC(branchOff)
	r.FetchOp()
	r.ReadU16()
	got := r.ReadBranch(branchOff, 2)
	if got != 0 {
		t.Errorf("patched backward branch target = %d, want 0", got)
	}
}

func TestUnboundLabelFailsFinalize(t *testing.T) {
	b := NewBuilder()
	l := b.NewLabel()
	b.EmitBranch(OpJmp, 0, l, 2)
	if _, err := b.Finalize(); err == nil {
		t.Fatal("Finalize with an unbound label should fail")
	}
}

func TestOversizedDisplacementRejected(t *testing.T) {
	b := NewBuilder()
	far := b.NewLabel()
	branchOff, _ := b.EmitBranch(OpJmp, 0, far, 2)
	_ = branchOff
	for i := 0; i < 40000; i++ {
		b.code = append(b.code, 0)
	}
	b.BindLabel(far)
	if _, err := b.Finalize(); err == nil {
		t.Fatal("Finalize should reject a 16-bit branch with an out-of-range displacement")
	}
}

func TestMetadataGroupsAlignedAndSized(t *testing.T) {
	b := NewBuilder()
	off1 := b.emitOp(OpGetById)
	b.RequestMetadata(off1, MetadataInlineCache)
	off2 := b.emitOp(OpGetById)
	b.RequestMetadata(off2, MetadataInlineCache)

	prog, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(prog.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(prog.Groups))
	}
	g := prog.Groups[0]
	if g.Count != 2 {
		t.Errorf("group Count = %d, want 2", g.Count)
	}
	if len(prog.Metadata)%8 != 0 {
		t.Errorf("trailing metadata size %d not 8-byte rounded", len(prog.Metadata))
	}

	off1Ptr, ok := prog.MetadataOffsetFor(off1)
	if !ok {
		t.Fatal("expected a metadata offset for off1")
	}
	off2Ptr, ok := prog.MetadataOffsetFor(off2)
	if !ok {
		t.Fatal("expected a metadata offset for off2")
	}
	if off1Ptr == off2Ptr {
		t.Error("two distinct instructions should not share a metadata slot")
	}
}
