// Package value implements the VM's 64-bit NaN-boxed tagged value.
//
// A Value is a raw 64-bit word partitioned by its high 16 bits:
//
//	high 16 bits          meaning                     payload
//	──────────────────────────────────────────────────────────────────
//	0x0000..0xFFFA        IEEE-754 double              the bit pattern itself
//	0xFFFB_FFFF           int32                         low 32 bits, signed
//	0xFFFC_FFFF 0000_00xx misc immediate (nil/bool)     low byte selects which
//	0xFFFF_xxxx (>=FFFC…) heap pointer                  low 48 bits, raw address
//
// The type predicates are unsigned-integer comparisons against the range
// boundaries below, except IsInt32, which tests the int32 tag bits with a
// mask — see IsDouble, IsInt32, IsMIV, IsPointer. Arithmetic must never produce an "impure"
// NaN (any 0xFFFx pattern the decoder would otherwise mistake for a
// tagged value); see Canonicalize.
package value
