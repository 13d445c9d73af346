// Package numeric holds 32-bit word helpers used by primitive operations:
// unsigned comparison of values stored as signed ints, carry-propagating
// addition and wrapping multiplication.
package numeric

import "math/bits"

// WordGt reports a > b with both treated as unsigned 32-bit words.
func WordGt(a, b int32) bool { return uint32(a) > uint32(b) }

// WordGe reports a >= b with both treated as unsigned 32-bit words.
func WordGe(a, b int32) bool { return uint32(a) >= uint32(b) }

// WordLt reports a < b with both treated as unsigned 32-bit words.
func WordLt(a, b int32) bool { return uint32(a) < uint32(b) }

// WordLe reports a <= b with both treated as unsigned 32-bit words.
func WordLe(a, b int32) bool { return uint32(a) <= uint32(b) }

// AddCarry returns a+b+carry as a 32-bit word and the carry out. Only the
// low bit of carry is used.
func AddCarry(a, b, carry uint32) (sum, carryOut uint32) {
	return bits.Add32(a, b, carry&1)
}

// Mul returns the low 32 bits of a*b.
func Mul(a, b uint32) uint32 {
	return a * b
}

// MulMayOverflow is a cheap conservative check: it reports false only
// when the product certainly fits in 32 bits, which is when both operands
// fit in 16 bits. Callers that see true fall back to a checked multiply.
func MulMayOverflow(a, b uint32) bool {
	return a>>16 != 0 || b>>16 != 0
}

// MulChecked returns a*b and whether the full product fits in 32 bits.
func MulChecked(a, b uint32) (uint32, bool) {
	hi, lo := bits.Mul32(a, b)
	return lo, hi == 0
}
