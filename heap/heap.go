package heap

import "sync"

// Arena is an append-only bump allocator over a single heap region. It
// models one of the three heap partitions from spec §3.2: offsets handed
// out are stable for the arena's lifetime, which is exactly the
// property UserHeapPointer/SystemHeapPointer/GeneralHeapPointer depend
// on.
type Arena struct {
	mu     sync.Mutex
	bytes  []byte
	region Region
}

// NewArena creates an empty arena for the given region with an initial
// capacity hint.
func NewArena(region Region, initialCapacity int) *Arena {
	return &Arena{bytes: make([]byte, 0, initialCapacity), region: region}
}

// Region reports which heap partition this arena backs.
func (a *Arena) Region() Region { return a.region }

// Alloc reserves size bytes aligned to align (a power of two) and
// returns the byte offset of the reservation. The offset is stable: a
// later grow of the arena (append) never moves already-handed-out
// offsets because Alloc never shrinks or compacts, only grows — same
// contract as a wasm linear-memory Allocator (spec §3.2, §6).
func (a *Arena) Alloc(size, align uint32) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := uint32(len(a.bytes))
	padded := alignUp(cur, align)
	if pad := padded - cur; pad > 0 {
		a.bytes = append(a.bytes, make([]byte, pad)...)
	}
	a.bytes = append(a.bytes, make([]byte, size)...)
	return padded
}

func alignUp(off, align uint32) uint32 {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}

// Slice returns a mutable view of [offset, offset+length) into the
// arena's backing storage. The returned slice aliases the arena and must
// not be retained across a concurrent Alloc call that could trigger a
// reallocation of the backing array.
func (a *Arena) Slice(offset, length uint32) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bytes[offset : offset+length]
}

// Len reports the current high-water mark of the arena.
func (a *Arena) Len() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint32(len(a.bytes))
}

// Heap owns the VM's three regions (spec §3.2).
type Heap struct {
	UserHeap   *Arena
	SPDS       *Arena
	SystemHeap *Arena
}

// New creates a heap with the given initial per-region capacities.
func New(userHeapCap, spdsCap, systemHeapCap int) *Heap {
	return &Heap{
		UserHeap:   NewArena(RegionUserHeap, userHeapCap),
		SPDS:       NewArena(RegionSPDS, spdsCap),
		SystemHeap: NewArena(RegionSystemHeap, systemHeapCap),
	}
}

// AllocUser reserves size bytes (8-byte aligned) in the user heap and
// returns a UserHeapPointer to it.
func (h *Heap) AllocUser(size uint32) UserHeapPointer {
	return UserHeapPointer(h.UserHeap.Alloc(size, 8))
}

// AllocSystem reserves size bytes (8-byte aligned) in the system heap
// and returns a SystemHeapPointer to it.
func (h *Heap) AllocSystem(size uint32) SystemHeapPointer {
	return SystemHeapPointer(h.SystemHeap.Alloc(size, 8))
}

// Barrierable is implemented by heap objects whose CellState participates
// in the write-barrier contract (spec §5).
type Barrierable interface {
	CellState() CellState
	Recolor(CellState)
}

// WriteBarrier implements the contract from spec §5: any store of a
// heap-pointer-carrying value into a heap object must call this on the
// container. The fast path (black, i.e. not awaiting rescan) is a single
// branch; the slow path recolors the container so GC remark picks it up.
// SafepointHook, if non-nil, is invoked on the slow path — the external
// GC's hook for enqueueing the container for remark.
func WriteBarrier(container Barrierable, safepointHook func(Barrierable)) {
	if container.CellState() == CellBlack {
		return
	}
	container.Recolor(CellBlack)
	if safepointHook != nil {
		safepointHook(container)
	}
}
