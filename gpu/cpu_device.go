package gpu

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/limb"
)

// CPUDevice is the always-built reference Device. Every Dispatch* method
// fans its work out across goroutines in WorkgroupSize-wide chunks using
// errgroup, the direct descendant of the teacher's batchSwapCPU pattern
// (sync.WaitGroup over chunkSize := 64 in dex/gpu/gpu.go) — one goroutine
// per "workgroup", its own sequential code standing in for
// workgroupBarrier-synchronized lockstep threads, and errgroup.Wait()
// standing in for the cross-workgroup memory barrier between passes.
type CPUDevice struct {
	workers  int
	maxBytes uint64
	metrics  *Metrics
}

// defaultMaxStorageBufferBindingSize matches a common WebGPU
// implementation limit (128 MiB), since the CPU device has no real
// buffer-size constraint of its own; msm.Run uses this value to compute
// maxChunkN identically regardless of backend.
const defaultMaxStorageBufferBindingSize = 128 << 20

// NewCPUDevice returns a CPUDevice whose internal semaphore allows at most
// workers goroutines to run concurrently. workers<=0 falls back to
// DetectWorkerCount().
func NewCPUDevice(workers int) *CPUDevice {
	if workers <= 0 {
		workers = DetectWorkerCount()
	}
	return &CPUDevice{workers: workers, maxBytes: defaultMaxStorageBufferBindingSize}
}

// NewCPUDeviceWithLimit is NewCPUDevice with an overridden
// MaxStorageBufferBindingSize, used by tests to force multi-batch
// dispatch without allocating hundreds of megabytes of scratch.
func NewCPUDeviceWithLimit(workers int, maxBytes uint64) *CPUDevice {
	d := NewCPUDevice(workers)
	d.maxBytes = maxBytes
	return d
}

// WithMetrics attaches m to d; every subsequent Dispatch* call records its
// wall-clock duration and increments its counter against m. Passing nil
// disables recording again.
func (d *CPUDevice) WithMetrics(m *Metrics) *CPUDevice {
	d.metrics = m
	return d
}

func (d *CPUDevice) Name() string { return "cpu" }

// MaxStorageBufferBindingSize reports the configured buffer-size limit.
func (d *CPUDevice) MaxStorageBufferBindingSize() uint64 {
	return d.maxBytes
}

// forEachWorkgroup fans [0, n) out across ceil(n/WorkgroupSize) goroutines,
// each processing one contiguous chunk of up to WorkgroupSize indices, and
// waits for all of them before returning.
func forEachWorkgroup(ctx context.Context, n uint32, workers int, fn func(start, end uint32) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := uint32(0); start < n; start += WorkgroupSize {
		start := start
		end := start + WorkgroupSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}

// DispatchA lifts each affine point to a Montgomery-form projective point.
func (d *CPUDevice) DispatchA(ctx context.Context, batch *Batch) error {
	defer d.metrics.Track("A")()
	return forEachWorkgroup(ctx, batch.N, d.workers, func(start, end uint32) error {
		for idx := start; idx < end; idx++ {
			batch.Proj[idx] = curve.ToProjective(batch.Points[idx])
		}
		return nil
	})
}

// DispatchBi1 tests every scalar's window against bucket, summing matches
// within each workgroup's chunk into one entry of batch.WGG — the
// "thread-local bucket test + intra-workgroup reduce" pass.
func (d *CPUDevice) DispatchBi1(ctx context.Context, batch *Batch, bucket uint32) error {
	defer d.metrics.Track("Bi1")()
	numWorkgroups := ceilDiv(batch.N, WorkgroupSize)
	if uint32(len(batch.WGG)) < numWorkgroups {
		batch.WGG = make([]curve.ProjectivePoint, numWorkgroups)
	}
	return forEachWorkgroup(ctx, batch.N, d.workers, func(start, end uint32) error {
		acc := curve.Identity
		for idx := start; idx < end; idx++ {
			kij := limb.ExtractWindow(batch.Scalars[idx], batch.WindowPos, batch.WindowBits)
			if kij == bucket {
				acc = curve.Add(acc, batch.Proj[idx])
			}
		}
		batch.WGG[start/WorkgroupSize] = acc
		return nil
	})
}

// DispatchBi2 runs one round of the cross-workgroup tree reduction over
// batch.WGG[0:n]. When n<=WorkgroupSize the single resulting workgroup's
// sum is accumulated into batch.Buckets[bucket] rather than overwriting
// it, per the pipeline's bucket-accumulation resolution — safe here
// because msm.Run calls Arena.ResetBuckets to set the bucket array to the
// identity before each window position's sweep of a batch, so accumulate
// and overwrite agree in this
// implementation, and accumulate is the form that stays correct if a
// caller ever shares one bucket array across more than one batch without
// resetting it.
func (d *CPUDevice) DispatchBi2(ctx context.Context, batch *Batch, bucket uint32, n uint32) error {
	defer d.metrics.Track("Bi2")()
	numWorkgroups := ceilDiv(n, WorkgroupSize)
	reduced := make([]curve.ProjectivePoint, numWorkgroups)
	err := forEachWorkgroup(ctx, n, d.workers, func(start, end uint32) error {
		acc := curve.Identity
		for idx := start; idx < end; idx++ {
			acc = curve.Add(acc, batch.WGG[idx])
		}
		reduced[start/WorkgroupSize] = acc
		return nil
	})
	if err != nil {
		return err
	}
	copy(batch.WGG, reduced)

	if n <= WorkgroupSize {
		batch.Buckets[bucket] = curve.Add(batch.Buckets[bucket], batch.WGG[0])
	}
	return nil
}

// scalarMulProjective computes weight*P by LSB->MSB double-and-add,
// staying entirely in projective coordinates (no affine round trip) since
// weight is a small host-known integer, not a field element requiring
// Montgomery conversion.
func scalarMulProjective(weight uint32, p curve.ProjectivePoint) curve.ProjectivePoint {
	acc := curve.Identity
	base := p
	for weight != 0 {
		if weight&1 == 1 {
			acc = curve.Add(acc, base)
		}
		base = curve.Double(base)
		weight >>= 1
	}
	return acc
}

// DispatchC computes weight=idx for every bucket (idx=0 contributes
// nothing, matching a window value of 0 correctly carrying zero weight —
// see the weight-formula resolution in DESIGN.md), scales it, and writes
// per-workgroup partial sums into batch.F.
func (d *CPUDevice) DispatchC(ctx context.Context, batch *Batch) error {
	defer d.metrics.Track("C")()
	numBuckets := uint32(len(batch.Buckets))
	numWorkgroups := ceilDiv(numBuckets, WorkgroupSize)
	if uint32(len(batch.F)) < numWorkgroups {
		batch.F = make([]curve.ProjectivePoint, numWorkgroups)
	}
	return forEachWorkgroup(ctx, numBuckets, d.workers, func(start, end uint32) error {
		acc := curve.Identity
		for idx := start; idx < end; idx++ {
			acc = curve.Add(acc, scalarMulProjective(idx, batch.Buckets[idx]))
		}
		batch.F[start/WorkgroupSize] = acc
		return nil
	})
}

// DispatchD runs one round of the tree reduction over batch.F[0:n],
// shrinking it in place. Once the caller observes n<=WorkgroupSize after a
// round, batch.F[0] holds the fully-reduced point for this batch; msm.Run
// copies it into arena.BatchFinal[batch.Index], since DispatchD has no
// visibility into other batches' slots.
func (d *CPUDevice) DispatchD(ctx context.Context, batch *Batch, n uint32) error {
	defer d.metrics.Track("D")()
	numWorkgroups := ceilDiv(n, WorkgroupSize)
	reduced := make([]curve.ProjectivePoint, numWorkgroups)
	err := forEachWorkgroup(ctx, n, d.workers, func(start, end uint32) error {
		acc := curve.Identity
		for idx := start; idx < end; idx++ {
			acc = curve.Add(acc, batch.F[idx])
		}
		reduced[start/WorkgroupSize] = acc
		return nil
	})
	if err != nil {
		return err
	}
	copy(batch.F, reduced)
	return nil
}

// DispatchE runs one round of the cross-batch tree reduction over
// arena.BatchFinal[0:n]. When n<=WorkgroupSize it also converts the
// reduced point to affine and returns done=true.
func (d *CPUDevice) DispatchE(ctx context.Context, arena *Arena, n uint32) (curve.AffinePoint, bool, error) {
	defer d.metrics.Track("E")()
	numWorkgroups := ceilDiv(n, WorkgroupSize)
	reduced := make([]curve.ProjectivePoint, numWorkgroups)
	err := forEachWorkgroup(ctx, n, d.workers, func(start, end uint32) error {
		acc := curve.Identity
		for idx := start; idx < end; idx++ {
			acc = curve.Add(acc, arena.BatchFinal[idx])
		}
		reduced[start/WorkgroupSize] = acc
		return nil
	})
	if err != nil {
		return curve.AffinePoint{}, false, err
	}
	copy(arena.BatchFinal, reduced)

	if n <= WorkgroupSize {
		return curve.ToAffine(arena.BatchFinal[0]), true, nil
	}
	return curve.AffinePoint{}, false, nil
}
