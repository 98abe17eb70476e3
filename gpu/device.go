// Package gpu is the Pippenger pipeline's device boundary: the interface a
// real compute-shader backend would implement, a fully correct CPU
// reference implementation of it, buffer lifecycle management, and the
// ambient metrics/config machinery around both.
package gpu

import (
	"context"

	"github.com/jk89/kimchi-webgpu/curve"
)

// Device is the compute-shader boundary described by the MSM pipeline: one
// dispatch method per pass, operating on a *Batch for the per-batch passes
// and on the *Arena directly for the cross-batch terminal pass.
//
// Implementations must preserve submission order within a single Run call
// (no dispatch may observe a later pass's writes) and must not retain any
// goroutine past the call that started it.
type Device interface {
	// Name identifies the backend, e.g. "cpu" or "webgpu".
	Name() string

	// MaxStorageBufferBindingSize bounds how many Limbs256-sized elements
	// (32 bytes each) a single batch may contain; msm.Run uses it to
	// compute maxChunkN.
	MaxStorageBufferBindingSize() uint64

	// DispatchA lifts batch.Points into Montgomery-form projective
	// coordinates, writing batch.Proj.
	DispatchA(ctx context.Context, batch *Batch) error

	// DispatchBi1 scans batch.N scalars for window value == bucket,
	// accumulating matches into batch.WGG (one entry per 64-wide
	// workgroup).
	DispatchBi1(ctx context.Context, batch *Batch, bucket uint32) error

	// DispatchBi2 performs one round of the cross-workgroup tree
	// reduction over batch.WGG[0:n], shrinking it toward length 1. When
	// n<=64 this dispatch also accumulates the fully-reduced sum into
	// batch.Buckets[bucket].
	DispatchBi2(ctx context.Context, batch *Batch, bucket uint32, n uint32) error

	// DispatchC computes weight*bucket for every populated bucket and
	// writes the per-workgroup partial sums into batch.F.
	DispatchC(ctx context.Context, batch *Batch) error

	// DispatchD performs one round of the tree reduction over
	// batch.F[0:n], shrinking it toward length 1. When n<=64, batch.F[0]
	// holds the fully-reduced point and the caller copies it into
	// arena.BatchFinal[batch.Index].
	DispatchD(ctx context.Context, batch *Batch, n uint32) error

	// DispatchE performs one round of the cross-batch tree reduction
	// over arena.BatchFinal[0:n]. When n<=64 it additionally converts the
	// fully-reduced point to affine and returns it with done=true.
	DispatchE(ctx context.Context, arena *Arena, n uint32) (point curve.AffinePoint, done bool, err error)
}
