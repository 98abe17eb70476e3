// Package field implements Montgomery-form arithmetic over the Pallas
// base field, built on the limb primitives in package limb.
package field

import "github.com/jk89/kimchi-webgpu/limb"

// FieldElem is a value in [0, P), little-endian 8x32-bit limbs.
type FieldElem = limb.Limbs256

// MontElem is a FieldElem known to represent a·R mod P for some a, where
// R = 2^256. The type is identical to FieldElem; the distinction is
// convention, exactly as in spec.md's data model.
type MontElem = limb.Limbs256

// Pallas base-field parameters, little-endian limbs.
//
//	p = 0x40000000 00000000 00000000 00000000 224698fc 094cf91b 992d30ed 00000001
var (
	P = limb.Limbs256{
		0x00000001, 0x992d30ed, 0x094cf91b, 0x224698fc,
		0x00000000, 0x00000000, 0x00000000, 0x40000000,
	}

	// RSquaredModP is R^2 mod P, used to convert into Montgomery form.
	RSquaredModP = limb.Limbs256{
		0x0000000f, 0x8c78ecb3, 0x8b0de0e7, 0xd7d30dbd,
		0xc3c95d18, 0x7797a99b, 0x7b9cb714, 0x096d41af,
	}

	// NegPInvMod2to32 is -P^-1 mod 2^32, the Montgomery reduction constant.
	NegPInvMod2to32 uint32 = 0xFFFFFFFF

	// PMinus2 is P-2, the Fermat exponent used by ModInv.
	PMinus2 = limb.Limbs256{
		0xFFFFFFFF, 0x992d30ec, 0x094cf91b, 0x224698fc,
		0x00000000, 0x00000000, 0x00000000, 0x40000000,
	}
)

// MontReduce computes T·R^-1 mod P for a 512-bit accumulator T, given as
// 16 little-endian limbs. The result is always reduced into [0, P).
func MontReduce(t [16]uint32) FieldElem {
	var acc [16]uint32
	copy(acc[:], t[:])

	for i := 0; i < 8; i++ {
		m := acc[i] * NegPInvMod2to32

		carry := uint32(0)
		for j := 0; j < 8; j++ {
			lo, hi := limb.MulAddCarry(m, P[j], acc[i+j], carry)
			acc[i+j] = lo
			carry = hi
		}
		// propagate carry upward through the remaining limbs.
		k := i + 8
		for carry != 0 && k < 16 {
			sum := acc[k] + carry
			if sum < acc[k] {
				carry = 1
			} else {
				carry = 0
			}
			acc[k] = sum
			k++
		}
	}

	var result FieldElem
	copy(result[:], acc[8:16])
	if limb.Gte(result, P) {
		result = limb.SubNoBorrow(result, P)
	}
	return result
}

// MontMul computes a·b·R^-1 mod P via schoolbook multiply + MontReduce.
func MontMul(a, b FieldElem) FieldElem {
	var product [16]uint32
	for i := 0; i < 8; i++ {
		carry := uint32(0)
		for j := 0; j < 8; j++ {
			lo, hi := limb.MulAddCarry(a[i], b[j], product[i+j], carry)
			product[i+j] = lo
			carry = hi
		}
		k := i + 8
		for carry != 0 && k < 16 {
			sum := product[k] + carry
			if sum < product[k] {
				carry = 1
			} else {
				carry = 0
			}
			product[k] = sum
			k++
		}
	}
	return MontReduce(product)
}

// ToMont converts a plain field element into Montgomery form.
func ToMont(a FieldElem) MontElem {
	return MontMul(a, RSquaredModP)
}

// FromMont converts a Montgomery-form element back to plain form.
func FromMont(a MontElem) FieldElem {
	var one FieldElem
	one[0] = 1
	return MontMul(a, one)
}

// ModInv computes a Montgomery-form modular inverse by exponentiating to
// P-2 (Fermat's little theorem). Input and output remain in Montgomery
// form throughout. ModInv(0) returns 0 — Fermat's method is not a true
// inverse of zero and callers must not supply it.
func ModInv(a MontElem) MontElem {
	acc := ToMont(FieldElem{1})
	base := a
	for limbIdx := 0; limbIdx < 8; limbIdx++ {
		e := PMinus2[limbIdx]
		for bit := 0; bit < 32; bit++ {
			if (e>>uint(bit))&1 == 1 {
				acc = MontMul(acc, base)
			}
			base = MontMul(base, base)
		}
	}
	return acc
}
