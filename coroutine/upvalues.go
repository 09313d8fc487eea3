package coroutine

import "github.com/luacore/vm/object"

// FindOpenUpvalue returns the coroutine's existing open upvalue at
// stackPos, if any. Callers must check this before creating a new
// upvalue for a slot, since two closures capturing the same local must
// share one upvalue (spec §3.8 "no two open upvalues share a ptr").
func (c *Coroutine) FindOpenUpvalue(stackPos int64) *object.Upvalue {
	for uv := c.openUpvalues; uv != nil; uv = uv.Next() {
		if uv.StackPos == stackPos {
			return uv
		}
		if uv.StackPos < stackPos {
			return nil
		}
	}
	return nil
}

// InsertOpenUpvalue adds uv to c's open-upvalue list, keeping it sorted
// by decreasing StackPos (spec §3.6, §3.8).
func (c *Coroutine) InsertOpenUpvalue(uv *object.Upvalue) {
	if c.openUpvalues == nil || uv.StackPos > c.openUpvalues.StackPos {
		uv.SetNext(c.openUpvalues)
		c.openUpvalues = uv
		return
	}
	cur := c.openUpvalues
	for cur.Next() != nil && cur.Next().StackPos > uv.StackPos {
		cur = cur.Next()
	}
	uv.SetNext(cur.Next())
	cur.SetNext(uv)
}

// CloseUpvaluesFrom closes every open upvalue with StackPos >= base and
// removes it from the list (spec §4.5 "UpvalueClose(base) walks the
// coroutine's open-upvalue list and closes every entry whose ptr >=
// base").
func (c *Coroutine) CloseUpvaluesFrom(base int64) {
	// The list is sorted by decreasing StackPos, so every entry eligible
	// for closing is a prefix of the list.
	for c.openUpvalues != nil && c.openUpvalues.StackPos >= base {
		uv := c.openUpvalues
		c.openUpvalues = uv.Next()
		uv.SetNext(nil)
		uv.Close()
	}
}
