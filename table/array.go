package table

import (
	"sort"

	"github.com/luacore/vm/heap"
	"github.com/luacore/vm/value"
)

// arrayPart implements the butterfly's array-indexed region (spec §3.5):
// a dense vector for small positive integer keys, overflowing to a sparse
// map once an index or the wasted-space cost gets too large.
type arrayPart struct {
	kind heap.ArrayType

	data               []value.Value // data[i] holds Lua index i+1
	lengthIfContinuous int32         // -1 when not known continuous
	sparse             map[int64]value.Value
	hasSparseMap       bool
}

// sparseMapThreshold bounds how far past the dense vector's end a single
// write is allowed to extend it before the index is redirected to the
// sparse map instead (spec §3.5 "any write that would waste too much
// space redirects to a sparse map").
const sparseMapThreshold = 64

func newArrayPart() arrayPart {
	return arrayPart{kind: heap.ArrayTypeNone, lengthIfContinuous: 0}
}

// clone returns a deep-enough copy for OP_TABLE_DUP: independent
// backing storage, same classification.
func (a *arrayPart) clone() arrayPart {
	out := arrayPart{kind: a.kind, lengthIfContinuous: a.lengthIfContinuous, hasSparseMap: a.hasSparseMap}
	if a.data != nil {
		out.data = append([]value.Value{}, a.data...)
	}
	if a.sparse != nil {
		out.sparse = make(map[int64]value.Value, len(a.sparse))
		for k, v := range a.sparse {
			out.sparse[k] = v
		}
	}
	return out
}

// classify reports the narrowest ArrayType v requires (spec §3.5
// "Array-type discipline").
func classify(v value.Value) heap.ArrayType {
	switch {
	case v.IsInt32():
		return heap.ArrayTypeInt32Only
	case v.IsDouble():
		return heap.ArrayTypeDoubleOnly
	default:
		return heap.ArrayTypeAny
	}
}

// get returns the value at Lua index idx (1-based) from the dense part or
// the sparse map; a miss returns nil, so an absent index and a stored nil
// look the same to callers.
func (a *arrayPart) get(idx int64) value.Value {
	if idx >= 1 && idx <= int64(len(a.data)) {
		return a.data[idx-1]
	}
	if a.hasSparseMap {
		if v, ok := a.sparse[idx]; ok {
			return v
		}
	}
	return value.Nil
}

// put stores v at Lua index idx, widening the array type, growing the
// dense vector, or falling back to the sparse map as needed (spec §3.5,
// §4.2 "On new array index... widen its type, extend its length, fall
// back to hash, or enter sparse-map mode").
func (a *arrayPart) put(idx int64, v value.Value) {
	if idx < 1 {
		a.putSparse(idx, v)
		return
	}
	if !v.IsNil() {
		a.kind = a.kind.Widen(classify(v))
	}

	switch {
	case idx <= int64(len(a.data)):
		a.data[idx-1] = v
		a.recomputeContinuousFrom(idx)
	case idx == int64(len(a.data))+1 && !v.IsNil():
		a.data = append(a.data, v)
		if a.lengthIfContinuous >= 0 && idx == int64(a.lengthIfContinuous)+1 {
			a.lengthIfContinuous = int32(idx)
		} else {
			a.lengthIfContinuous = -1
		}
	case idx-int64(len(a.data)) <= sparseMapThreshold && !v.IsNil():
		for int64(len(a.data)) < idx-1 {
			a.data = append(a.data, value.Nil)
		}
		a.data = append(a.data, v)
		a.lengthIfContinuous = -1
	default:
		a.putSparse(idx, v)
	}
}

func (a *arrayPart) putSparse(idx int64, v value.Value) {
	if v.IsNil() {
		if a.sparse != nil {
			delete(a.sparse, idx)
		}
		return
	}
	if a.sparse == nil {
		a.sparse = make(map[int64]value.Value)
	}
	a.sparse[idx] = v
	a.hasSparseMap = true
	a.kind = a.kind.Widen(classify(v))
}

// recomputeContinuousFrom re-derives lengthIfContinuous after an
// in-bounds write at idx, which may have opened or closed a hole.
func (a *arrayPart) recomputeContinuousFrom(idx int64) {
	if a.lengthIfContinuous < 0 {
		return
	}
	if idx > int64(a.lengthIfContinuous) {
		return // write was beyond the known-continuous prefix, no effect on it
	}
	if a.data[idx-1].IsNil() {
		a.lengthIfContinuous = int32(idx - 1)
		return
	}
	// A value inside the continuous prefix was overwritten with non-nil:
	// the prefix is still continuous up to the same length, so it is left
	// as-is.
}

// Len implements spec §3.5's length operator: O(1) when continuous,
// binary search over the dense vector otherwise.
func (a *arrayPart) Len() int64 {
	if a.lengthIfContinuous >= 0 {
		return int64(a.lengthIfContinuous)
	}
	n := len(a.data)
	if n == 0 {
		return a.sparseFallbackLen()
	}
	if !a.data[n-1].IsNil() {
		return int64(n)
	}
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if !a.data[mid-1].IsNil() {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return int64(lo)
}

func (a *arrayPart) sparseFallbackLen() int64 {
	if !a.hasSparseMap {
		return 0
	}
	var keys []int64
	for k, v := range a.sparse {
		if !v.IsNil() {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var n int64
	for _, k := range keys {
		if k == n+1 {
			n = k
			continue
		}
		break
	}
	return n
}
