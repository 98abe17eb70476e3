// Package testgen produces deterministic scalar/point vectors for the
// large-N differential tests in msm, without paying for a math/rand or
// crypto/rand dependency the rest of the module doesn't otherwise need.
// Vectors are derived from a Blake3 XOF keyed on a caller-supplied seed
// string, the same domain-separated-hash-as-stream-source pattern the
// teacher uses for spent-set keys and work IDs.
package testgen

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/field"
	"github.com/jk89/kimchi-webgpu/hostglue"
	"github.com/jk89/kimchi-webgpu/limb"
)

// Vectors holds a deterministically generated scalar/point pair set of
// equal length, suitable as Run input.
type Vectors struct {
	Scalars []limb.Limbs256
	Points  []curve.AffinePoint
}

// Generate derives n (scalar, point) pairs from seed. The same seed and n
// always produce the same vectors, so a failing large-N test can be
// reproduced by re-running with the same seed.
//
// Each point is generator times a further XOF-derived scalar, so every
// point lies on the curve. The differential tests this feeds compare the
// Pippenger pipeline against direct scalar_mul+add; the two sum in
// different orders and agree only where the group law holds, i.e. for
// on-curve points.
func Generate(seed string, n int) Vectors {
	stream := newXOF(seed)

	scalars := make([]limb.Limbs256, n)
	points := make([]curve.AffinePoint, n)
	for i := 0; i < n; i++ {
		scalars[i] = stream.next256()
		points[i] = curve.ScalarMul(stream.next256(), generator)
	}
	return Vectors{Scalars: scalars, Points: points}
}

// generator is the Pallas point (-1, 2): (-1)^3 + 5 = 4 = 2^2.
var generator = curve.AffinePoint{X: limb.SubMod(limb.Zero, limb.One, field.P), Y: limb.Limbs256{2}}

// xof wraps a Blake3 reader, pulling 32-byte words off it and converting
// each to Limbs256 via hostglue's little-endian wire format.
type xof struct {
	r interface {
		Read(p []byte) (int, error)
	}
}

func newXOF(seed string) *xof {
	h := blake3.NewWithDomain("kimchi-webgpu testgen: " + seed)
	var counter [8]byte
	binary.LittleEndian.PutUint64(counter[:], uint64(len(seed)))
	h.Write(counter[:])
	return &xof{r: h.Digest()}
}

func (x *xof) next256() limb.Limbs256 {
	var buf [32]byte
	if _, err := x.r.Read(buf[:]); err != nil {
		panic("testgen: blake3 XOF read failed: " + err.Error())
	}
	decoded, err := hostglue.DecodeLimbsLE(buf[:])
	if err != nil {
		panic("testgen: " + err.Error())
	}
	return decoded[0]
}
