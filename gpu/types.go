package gpu

import (
	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/limb"
)

// WorkgroupSize is the fixed number of lockstep threads per workgroup (W
// in the pipeline literature). Changing it requires updating every
// ceil(n/WorkgroupSize) dispatch-count computation symmetrically.
const WorkgroupSize = 64

// Batch holds one chunk of up to Arena.MaxChunkN scalar/point pairs plus
// the scratch buffers the passes write into. Batches are allocated once by
// NewArena and reused across every window position; each batch owns its
// own slices (batches do not share buffers), and Scalars, Points and Proj
// are sized to exactly N, which is smaller than Arena.MaxChunkN only on
// the final (remainder) batch.
type Batch struct {
	Index int
	N     uint32

	// WindowBits is the fixed per-call window width w, set once by
	// NewArena. WindowPos is the current w-bit digit position being
	// swept (0 = least significant); msm.Run mutates it before each
	// position's Bi1/Bi2/C/D sweep and Arena.ResetBuckets clears
	// Buckets between sweeps.
	WindowBits uint32
	WindowPos  uint32

	Scalars []limb.Limbs256
	Points  []curve.AffinePoint

	// Proj holds the Montgomery-form projective lift of Points, written
	// by DispatchA.
	Proj []curve.ProjectivePoint

	// Buckets is this batch's bucket accumulator array, length
	// Arena.NumBuckets, reset to the identity by Arena.ResetBuckets
	// before each window position's sweep of this batch.
	Buckets []curve.ProjectivePoint

	// WGG is cross-workgroup scratch reused by Bi1/Bi2 for every bucket
	// dispatched against this batch.
	WGG []curve.ProjectivePoint

	// F is cross-workgroup scratch reused by Pass C/D.
	F []curve.ProjectivePoint
}

func ceilDiv(n, d uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n-1)/d + 1
}
