package heap

import "testing"

func TestArenaAllocAlignmentAndStability(t *testing.T) {
	a := NewArena(RegionUserHeap, 16)

	off1 := a.Alloc(3, 8)
	if off1%8 != 0 {
		t.Errorf("offset %d not 8-byte aligned", off1)
	}
	off2 := a.Alloc(5, 8)
	if off2%8 != 0 {
		t.Errorf("offset %d not 8-byte aligned", off2)
	}
	if off2 <= off1 {
		t.Errorf("second allocation should come after the first: %d <= %d", off2, off1)
	}

	// Grow the arena with many more allocations; earlier offsets must
	// remain valid and readable (stability across append-growth).
	for i := 0; i < 64; i++ {
		a.Alloc(8, 8)
	}
	view := a.Slice(off1, 3)
	if len(view) != 3 {
		t.Errorf("Slice at stable offset returned wrong length %d", len(view))
	}
}

func TestGeneralHeapPointerRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		off    int64
		region Region
	}{
		{"user heap zero", 0, RegionUserHeap},
		{"user heap aligned", 800, RegionUserHeap},
		{"system heap zero", 0, RegionSystemHeap},
		{"system heap aligned", 1600, RegionSystemHeap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g GeneralHeapPointer
			if tt.region == RegionUserHeap {
				g = EncodeUserHeapGeneral(tt.off)
				if !g.IsUserHeap() && tt.off != 0 {
					t.Errorf("expected user heap pointer for nonzero offset")
				}
			} else {
				g = EncodeSystemHeapGeneral(uint32(tt.off))
			}
			gotOff, gotRegion := g.Decode()
			if gotOff != tt.off {
				t.Errorf("Decode offset = %d, want %d", gotOff, tt.off)
			}
			if gotRegion != tt.region {
				t.Errorf("Decode region = %v, want %v", gotRegion, tt.region)
			}
		})
	}
}

func TestArrayTypeWidenMonotone(t *testing.T) {
	tests := []struct {
		a, b, want ArrayType
	}{
		{ArrayTypeNone, ArrayTypeInt32Only, ArrayTypeInt32Only},
		{ArrayTypeInt32Only, ArrayTypeDoubleOnly, ArrayTypeDoubleOnly},
		{ArrayTypeDoubleOnly, ArrayTypeInt32Only, ArrayTypeDoubleOnly},
		{ArrayTypeAny, ArrayTypeNone, ArrayTypeAny},
	}
	for _, tt := range tests {
		if got := tt.a.Widen(tt.b); got != tt.want {
			t.Errorf("%v.Widen(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

type fakeBarrierable struct{ state CellState }

func (f *fakeBarrierable) CellState() CellState  { return f.state }
func (f *fakeBarrierable) Recolor(s CellState)   { f.state = s }

func TestWriteBarrier(t *testing.T) {
	obj := &fakeBarrierable{state: CellBlack}
	called := false
	WriteBarrier(obj, func(Barrierable) { called = true })
	if called {
		t.Error("fast path (black) should not invoke safepoint hook")
	}

	obj.state = CellWhite
	WriteBarrier(obj, func(Barrierable) { called = true })
	if !called {
		t.Error("slow path (white) should invoke safepoint hook")
	}
	if obj.state != CellBlack {
		t.Error("slow path should recolor container to black")
	}
}

func TestObjectHeaderIsTable(t *testing.T) {
	tableHeader := ObjectHeader{ArrayType: ArrayTypeAny}
	if !tableHeader.IsTable() {
		t.Error("non-invalid ArrayType should mark header as table")
	}

	nonTableHeader := ObjectHeader{ArrayType: ArrayTypeInvalid}
	if nonTableHeader.IsTable() {
		t.Error("ArrayTypeInvalid should mark header as non-table")
	}
}
