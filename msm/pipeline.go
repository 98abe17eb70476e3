// Package msm implements the Pippenger multi-scalar-multiplication
// pipeline: host-side batching, scalar windowing, and the pass
// orchestration described by the gpu.Device interface.
package msm

import (
	"context"
	"fmt"
	"time"

	log "github.com/luxfi/log"
	"go.uber.org/zap"

	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/gpu"
	"github.com/jk89/kimchi-webgpu/limb"
)

func ceilDivU32(n, d uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n-1)/d + 1
}

func ceilDivInt(n, d int) int {
	if n == 0 {
		return 0
	}
	return (n-1)/d + 1
}

// Run computes Q = Σ k_i·P_i over the Pallas curve via windowed Pippenger
// reduction, dispatching every pass through device. It validates input
// before any device resource is allocated, matching spec.md §7's
// InvalidArgument contract.
func Run(ctx context.Context, device gpu.Device, scalars []limb.Limbs256, points []curve.AffinePoint, opts Options) (curve.AffinePoint, error) {
	if len(scalars) == 0 || len(points) == 0 {
		return curve.AffinePoint{}, ErrEmptyInput
	}
	if len(scalars) != len(points) {
		return curve.AffinePoint{}, ErrLengthMismatch
	}
	w := opts.windowBits()
	if w < 1 || w > 22 {
		return curve.AffinePoint{}, ErrWindowOutOfRange
	}

	logger := log.NewTestLogger(log.InfoLevel)
	startedAt := time.Now()
	logger.Info("msm: starting", zap.Int("n", len(scalars)), zap.Uint32("window_bits", w))

	arena, err := gpu.NewArena(len(scalars), w, device.MaxStorageBufferBindingSize())
	if err != nil {
		return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceResourceExhausted, err)
	}
	defer func() {
		if cerr := arena.Close(); cerr != nil {
			logger.Warn("msm: arena close reported errors", zap.Error(cerr))
		}
	}()

	offset := 0
	for _, batch := range arena.Batches {
		copy(batch.Scalars, scalars[offset:offset+int(batch.N)])
		copy(batch.Points, points[offset:offset+int(batch.N)])
		offset += int(batch.N)

		if err := device.DispatchA(ctx, batch); err != nil {
			return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
		}
	}

	numBuckets := uint32(1) << w
	numWindows := ceilDivInt(256, int(w))

	firstBucket := uint32(0)
	if opts.SkipZeroBucket {
		firstBucket = 1
	}

	total := curve.Identity
	for pos := numWindows - 1; pos >= 0; pos-- {
		for i := uint32(0); i < w; i++ {
			total = curve.Double(total)
		}

		for _, batch := range arena.Batches {
			batch.WindowPos = uint32(pos)
			arena.ResetBuckets(batch)

			for bucket := firstBucket; bucket < numBuckets; bucket++ {
				if err := device.DispatchBi1(ctx, batch, bucket); err != nil {
					return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
				}
				n := ceilDivU32(batch.N, gpu.WorkgroupSize)
				for {
					if err := device.DispatchBi2(ctx, batch, bucket, n); err != nil {
						return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
					}
					if n <= gpu.WorkgroupSize {
						break
					}
					n = ceilDivU32(n, gpu.WorkgroupSize)
				}
			}

			if opts.Verbose {
				logger.Debug("msm: buckets populated",
					zap.Int("position", pos), zap.Int("batch", batch.Index))
			}

			if err := device.DispatchC(ctx, batch); err != nil {
				return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
			}
			n := ceilDivU32(numBuckets, gpu.WorkgroupSize)
			for {
				if err := device.DispatchD(ctx, batch, n); err != nil {
					return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
				}
				if n <= gpu.WorkgroupSize {
					break
				}
				n = ceilDivU32(n, gpu.WorkgroupSize)
			}
			arena.BatchFinal[batch.Index] = batch.F[0]
		}

		var windowPoint curve.AffinePoint
		n := uint32(arena.NumBatches)
		for {
			pt, done, err := device.DispatchE(ctx, arena, n)
			if err != nil {
				return curve.AffinePoint{}, fmt.Errorf("%w: %v", ErrDeviceLost, err)
			}
			if done {
				windowPoint = pt
				break
			}
			n = ceilDivU32(n, gpu.WorkgroupSize)
		}

		total = curve.Add(total, curve.ToProjective(windowPoint))

		if opts.Verbose {
			logger.Debug("msm: window position complete", zap.Int("position", pos))
		}
	}

	result := curve.ToAffine(total)
	logger.Info("msm: finished",
		zap.Duration("elapsed", time.Since(startedAt)), zap.Int("n", len(scalars)))
	return result, nil
}
