package table

import "github.com/luacore/vm/value"

// Dup shallow-clones template: the bytecode builder emits one read-only
// template table per table-literal constant, and OP_TABLE_DUP stamps out
// an independent copy each time the literal executes (grounded on
// TableDup in the original bytecode set — cloning a pre-built template is
// cheaper than replaying every field assignment).
func Dup(template *Table) *Table {
	clone := &Table{
		Header:   template.Header,
		shape:    template.shape,
		inline:   append([]value.Value{}, template.inline...),
		outlined: append([]value.Value{}, template.outlined...),
		array:    template.array.clone(),
	}
	if template.other != nil {
		clone.other = make(map[value.Value]value.Value, len(template.other))
		for k, v := range template.other {
			clone.other[k] = v
		}
	}
	return clone
}

// VariadicPutBySeq implements OP_TABLE_VARIADIC_PUT_BY_SEQ: the trailing
// `...`-valued fields of a table literal are appended to the array part
// starting at indexStart, with no metatable consultation — a table
// literal under construction is guaranteed to have no metatable yet.
func VariadicPutBySeq(t *Table, indexStart int32, values []value.Value) {
	for i, v := range values {
		t.RawPutByIntegerIndex(int64(indexStart)+int64(i), v)
	}
}
