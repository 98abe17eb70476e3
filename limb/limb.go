// Package limb implements 256-bit integer arithmetic on little-endian
// 8x32-bit limbs, mirroring the primitives a WGSL compute shader would
// expose for u32 arrays with no hardware wide multiply.
package limb

import "math/bits"

// Limbs256 is a 256-bit value stored as 8 little-endian uint32 limbs.
// Limb 0 is least significant.
type Limbs256 [8]uint32

// Zero is the additive identity.
var Zero = Limbs256{}

// One is the multiplicative identity for plain (non-Montgomery) values.
var One = Limbs256{1}

// IsZero reports whether l is the all-zero value.
func (l Limbs256) IsZero() bool {
	for _, w := range l {
		if w != 0 {
			return false
		}
	}
	return true
}

// Gte reports whether a >= b, comparing from the most significant limb down.
func Gte(a, b Limbs256) bool {
	for i := 7; i >= 0; i-- {
		if a[i] > b[i] {
			return true
		}
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// SubNoBorrow computes a-b assuming a >= b. Behavior is undefined (wraps)
// if that precondition does not hold.
func SubNoBorrow(a, b Limbs256) Limbs256 {
	var out Limbs256
	borrow := uint32(0)
	for i := 0; i < 8; i++ {
		ai, bi := a[i], b[i]
		sub := ai - bi - borrow
		if ai < bi+borrow || (borrow == 1 && bi == 0xFFFFFFFF) {
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = sub
	}
	return out
}

// AddMod computes (a+b) mod p, assuming a, b are already in [0, p).
func AddMod(a, b, p Limbs256) Limbs256 {
	var sum Limbs256
	carry := uint32(0)
	for i := 0; i < 8; i++ {
		s, c1 := bits.Add32(a[i], b[i], 0)
		s, c2 := bits.Add32(s, carry, 0)
		sum[i] = s
		carry = c1 + c2
	}
	if carry != 0 || Gte(sum, p) {
		sum = SubNoBorrow(sum, p)
	}
	return sum
}

// SubMod computes (a-b) mod p, assuming a, b are already in [0, p).
func SubMod(a, b, p Limbs256) Limbs256 {
	if Gte(a, b) {
		return SubNoBorrow(a, b)
	}
	return SubNoBorrow(p, SubNoBorrow(b, a))
}

// MulAddCarry computes a*b + acc + carry as a 64-bit quantity and returns
// (low32, high32). This is the sole place 64-bit arithmetic is needed; Go
// has a native uint64 and math/bits.Mul32/Add32 widening primitives, so
// the WGSL source's 16-bit-half decomposition (a shader-language
// workaround, not part of the algorithm) is not reproduced here.
func MulAddCarry(a, b, acc, carry uint32) (lo, hi uint32) {
	hi, lo = bits.Mul32(a, b)
	var c0, c1 uint32
	lo, c0 = bits.Add32(lo, acc, 0)
	lo, c1 = bits.Add32(lo, carry, 0)
	hi += c0 + c1
	return lo, hi
}
