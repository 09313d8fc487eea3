package object

import "testing"

func TestFrameSizeCombinesParamsAndLocals(t *testing.T) {
	c := &CodeBlock{NumFixedParams: 3, NumLocals: 5}
	if got := c.FrameSize(); got != 8 {
		t.Fatalf("FrameSize() = %d, want 8", got)
	}
}
