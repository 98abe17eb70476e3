// Package curve implements the Pallas elliptic curve (y^2 = x^3 + 5) over
// the field in package field, with points stored in projective coordinates
// using Montgomery-form field elements, following the method naming
// conventions of github.com/consensys/gnark-crypto's curve packages.
package curve

import (
	"github.com/jk89/kimchi-webgpu/field"
	"github.com/jk89/kimchi-webgpu/limb"
)

// AffinePoint is a point in affine coordinates. The sentinel (0,0) means
// infinity/identity.
type AffinePoint struct {
	X, Y field.FieldElem
}

// ProjectivePoint is a point (X,Y,Z) in Jacobian coordinates, representing
// affine (X/Z^2, Y/Z^3), with Montgomery-form coordinates throughout. Z=0
// is the identity.
type ProjectivePoint struct {
	X, Y, Z field.MontElem
}

// PallasParams holds the baked curve constants.
type PallasParams struct {
	A, B field.FieldElem // y^2 = x^3 + A*x + B; Pallas has A=0, B=5
}

// Params is the immutable Pallas curve parameter set (a=0, b=5).
var Params = PallasParams{
	A: field.FieldElem{0, 0, 0, 0, 0, 0, 0, 0},
	B: field.FieldElem{5, 0, 0, 0, 0, 0, 0, 0},
}

// Identity is the point at infinity in projective coordinates.
var Identity = ProjectivePoint{}

// IsInfinity reports whether p is the identity (Z == 0).
func (p ProjectivePoint) IsInfinity() bool {
	return p.Z.IsZero()
}

// IsInfinity reports whether the affine point is the (0,0) sentinel.
func (p AffinePoint) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// Equal compares two affine points for exact equality.
func (p AffinePoint) Equal(o AffinePoint) bool {
	return p.X == o.X && p.Y == o.Y
}

// ToProjective lifts an affine point into Montgomery-form projective
// coordinates. The (0,0) sentinel maps to the projective identity.
func ToProjective(p AffinePoint) ProjectivePoint {
	if p.IsInfinity() {
		return Identity
	}
	return ProjectivePoint{
		X: field.ToMont(p.X),
		Y: field.ToMont(p.Y),
		Z: field.ToMont(field.FieldElem{1}),
	}
}

// ToAffine projects back to affine coordinates. Double and Add are
// Jacobian-weighted (x = X/Z^2, y = Y/Z^3), so the normalization needs
// Z^-2 and Z^-3, not a shared Z^-1 — converting out of Montgomery form
// exactly once after that, since X/Y and zInv2/zInv3 are all already
// Montgomery-form inputs to MontMul.
func ToAffine(p ProjectivePoint) AffinePoint {
	if p.IsInfinity() {
		return AffinePoint{}
	}
	zInv := field.ModInv(p.Z)
	zInv2 := field.MontMul(zInv, zInv)
	zInv3 := field.MontMul(zInv2, zInv)
	xMont := field.MontMul(p.X, zInv2)
	yMont := field.MontMul(p.Y, zInv3)
	return AffinePoint{
		X: field.FromMont(xMont),
		Y: field.FromMont(yMont),
	}
}

func modAdd(a, b field.MontElem) field.MontElem { return limb.AddMod(a, b, field.P) }
func modSub(a, b field.MontElem) field.MontElem { return limb.SubMod(a, b, field.P) }
func modDbl(a field.MontElem) field.MontElem    { return modAdd(a, a) }
func modTriple(a field.MontElem) field.MontElem { return modAdd(modAdd(a, a), a) }

// Double computes 2*P using the standard a=0 Jacobian doubling formula.
// The identity maps to the identity.
func Double(p ProjectivePoint) ProjectivePoint {
	if p.IsInfinity() {
		return Identity
	}
	mul := field.MontMul

	xx := mul(p.X, p.X)
	yy := mul(p.Y, p.Y)
	yyyy := mul(yy, yy)
	zz := mul(p.Z, p.Z)

	xPlusYY := modAdd(p.X, yy)
	s := mul(xPlusYY, xPlusYY)
	s = modSub(s, xx)
	s = modSub(s, yyyy)
	s = modDbl(s)

	m := modTriple(xx)

	x3 := modSub(mul(m, m), modDbl(s))

	eightYyyy := modDbl(modDbl(modDbl(yyyy)))
	y3 := modSub(mul(m, modSub(s, x3)), eightYyyy)

	yPlusZ := modAdd(p.Y, p.Z)
	z3 := modSub(modSub(mul(yPlusZ, yPlusZ), yy), zz)

	return ProjectivePoint{X: x3, Y: y3, Z: z3}
}

// Add computes P+Q using add-2007-bl, falling back to Double for P==Q and
// to the identity for P==-Q.
func Add(p, q ProjectivePoint) ProjectivePoint {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}

	mul := field.MontMul

	z1z1 := mul(p.Z, p.Z)
	z2z2 := mul(q.Z, q.Z)
	u1 := mul(p.X, z2z2)
	u2 := mul(q.X, z1z1)
	s1 := mul(mul(p.Y, q.Z), z2z2)
	s2 := mul(mul(q.Y, p.Z), z1z1)

	if u1 == u2 {
		if s1 == s2 {
			return Double(p)
		}
		return Identity
	}

	h := modSub(u2, u1)
	i := mul(modDbl(h), modDbl(h))
	j := mul(h, i)
	r := modDbl(modSub(s2, s1))
	v := mul(u1, i)

	x3 := modSub(modSub(mul(r, r), j), modDbl(v))
	y3 := modSub(mul(r, modSub(v, x3)), modDbl(mul(s1, j)))
	zSum := modAdd(p.Z, q.Z)
	z3 := mul(modSub(modSub(mul(zSum, zSum), z1z1), z2z2), h)

	return ProjectivePoint{X: x3, Y: y3, Z: z3}
}

// ScalarMul computes k*P via LSB->MSB double-and-add. Used only by the CPU
// reference path (tests and the per-pair cross-check), never by the
// production Pippenger pipeline.
func ScalarMul(k limb.Limbs256, p AffinePoint) AffinePoint {
	base := ToProjective(p)
	acc := Identity
	for limbIdx := 0; limbIdx < 8; limbIdx++ {
		word := k[limbIdx]
		for bit := 0; bit < 32; bit++ {
			if (word>>uint(bit))&1 == 1 {
				acc = Add(acc, base)
			}
			base = Double(base)
		}
	}
	return ToAffine(acc)
}
