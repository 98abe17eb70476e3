// Package hostglue marshals between Limbs256 and the representations a
// caller or a real wire-format Device boundary actually needs: math/big
// for general-purpose callers, uint256.Int as an allocation-free
// alternative to math/big, and a flat little-endian byte
// encoding for anything that has to look like a GPU storage buffer.
package hostglue

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/jk89/kimchi-webgpu/limb"
)

// LimbsToBigInt interprets l as an unsigned 256-bit little-endian integer.
func LimbsToBigInt(l limb.Limbs256) *big.Int {
	out := new(big.Int)
	for i := 7; i >= 0; i-- {
		out.Lsh(out, 32)
		out.Or(out, new(big.Int).SetUint64(uint64(l[i])))
	}
	return out
}

// BigIntToLimbs converts a non-negative integer < 2^256 into little-endian
// limbs. It panics on negative input or values that do not fit, since
// those indicate a caller bug rather than a runtime condition to recover
// from.
func BigIntToLimbs(b *big.Int) limb.Limbs256 {
	if b.Sign() < 0 {
		panic("hostglue: BigIntToLimbs: negative value")
	}
	if b.BitLen() > 256 {
		panic("hostglue: BigIntToLimbs: value exceeds 256 bits")
	}
	var out limb.Limbs256
	var be [32]byte
	b.FillBytes(be[:])
	for i := 0; i < 8; i++ {
		o := 32 - (i+1)*4
		out[i] = uint32(be[o])<<24 | uint32(be[o+1])<<16 | uint32(be[o+2])<<8 | uint32(be[o+3])
	}
	return out
}

// LimbsToU256 converts l to a uint256.Int. uint256.Int's word order
// (word[0] least significant 64 bits) matches pairing up Limbs256's
// little-endian u32s two at a time.
func LimbsToU256(l limb.Limbs256) uint256.Int {
	var u uint256.Int
	for i := 0; i < 4; i++ {
		u[i] = uint64(l[2*i]) | uint64(l[2*i+1])<<32
	}
	return u
}

// U256ToLimbs converts a uint256.Int to little-endian Limbs256.
func U256ToLimbs(u uint256.Int) limb.Limbs256 {
	var out limb.Limbs256
	for i := 0; i < 4; i++ {
		w := u[i]
		out[2*i] = uint32(w)
		out[2*i+1] = uint32(w >> 32)
	}
	return out
}

// EncodeLimbsLE encodes each element as 8 little-endian u32s (32 bytes,
// no padding), the on-wire format spec.md §6 defines for the CPU<->GPU
// boundary.
func EncodeLimbsLE(values []limb.Limbs256) []byte {
	out := make([]byte, len(values)*32)
	for i, v := range values {
		base := i * 32
		for j := 0; j < 8; j++ {
			w := v[j]
			o := base + j*4
			out[o] = byte(w)
			out[o+1] = byte(w >> 8)
			out[o+2] = byte(w >> 16)
			out[o+3] = byte(w >> 24)
		}
	}
	return out
}

// DecodeLimbsLE is the inverse of EncodeLimbsLE. It returns an error if
// len(data) is not a multiple of 32.
func DecodeLimbsLE(data []byte) ([]limb.Limbs256, error) {
	if len(data)%32 != 0 {
		return nil, fmt.Errorf("hostglue: DecodeLimbsLE: length %d is not a multiple of 32", len(data))
	}
	out := make([]limb.Limbs256, len(data)/32)
	for i := range out {
		base := i * 32
		for j := 0; j < 8; j++ {
			o := base + j*4
			out[i][j] = uint32(data[o]) | uint32(data[o+1])<<8 | uint32(data[o+2])<<16 | uint32(data[o+3])<<24
		}
	}
	return out, nil
}
