//go:build wgpu

package gpu

import (
	"context"
	"errors"

	"github.com/jk89/kimchi-webgpu/curve"
)

// webGPUDevice documents the shape a real WebGPU-backed Device would take:
// one device/queue pair, one bind group layout per pass (shared across
// batches since every batch's buffers are the same size), one compute
// pipeline per pass compiled from gpu/shaders.Bundle, and a single command
// encoder per Run call into which every pass for every batch is recorded
// before one Submit and two mapAsync calls for the (x,y) staging buffers.
//
// This mirrors the teacher's //go:build cgo (kzg4844_gpu.go) and //go:build
// gpu (threshold_gpu.go) files: a real accelerated backend is described
// and gated behind a build tag, never compiled by default, with the CPU
// path carrying full production semantics on its own.
type webGPUDevice struct {
	// device, queue, pipelines, bindGroupLayouts would live here in a
	// real implementation backed by a wgpu Go binding.
}

var errWebGPUNotImplemented = errors.New("gpu: webgpu backend is a documented stub, not a real binding")

func newWebGPUDevice(cfg Config) (Device, error) {
	return nil, errWebGPUNotImplemented
}

func (d *webGPUDevice) Name() string { return "webgpu" }

func (d *webGPUDevice) MaxStorageBufferBindingSize() uint64 {
	// A real implementation reads this from the acquired adapter's
	// limits; 128 MiB is a common default across WebGPU implementations.
	return 128 << 20
}

func (d *webGPUDevice) DispatchA(ctx context.Context, batch *Batch) error {
	return errWebGPUNotImplemented
}

func (d *webGPUDevice) DispatchBi1(ctx context.Context, batch *Batch, bucket uint32) error {
	return errWebGPUNotImplemented
}

func (d *webGPUDevice) DispatchBi2(ctx context.Context, batch *Batch, bucket, n uint32) error {
	return errWebGPUNotImplemented
}

func (d *webGPUDevice) DispatchC(ctx context.Context, batch *Batch) error {
	return errWebGPUNotImplemented
}

func (d *webGPUDevice) DispatchD(ctx context.Context, batch *Batch, n uint32) error {
	return errWebGPUNotImplemented
}

func (d *webGPUDevice) DispatchE(ctx context.Context, arena *Arena, n uint32) (curve.AffinePoint, bool, error) {
	return curve.AffinePoint{}, false, errWebGPUNotImplemented
}
