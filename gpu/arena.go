package gpu

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/limb"
)

// ErrDeviceResourceExhausted is returned by NewArena when the device's
// storage-buffer limit is below 32 bytes, too small to hold a single
// Limbs256, so no batch can be sized. The CPU device
// never fails allocation in practice; this exists so the interface matches
// what a real buffer-backed device would report.
var ErrDeviceResourceExhausted = errors.New("gpu: buffer allocation failed")

// Arena owns every buffer-equivalent slice for one msm.Run call: the
// per-batch Batch structs (each sized once for its own chunk) and the
// cross-batch BatchFinal accumulator. No per-batch allocation happens once
// NewArena returns; Close releases everything.
type Arena struct {
	WindowBits uint32
	NumBuckets uint32
	MaxChunkN  uint32
	NumBatches int
	Batches    []*Batch
	BatchFinal []curve.ProjectivePoint
	closed     bool
}

// NewArena sizes every buffer from (n, windowBits, maxStorageBufferBindingSize)
// and allocates them once. n is the total number of scalar/point pairs
// across the whole call.
func NewArena(n int, windowBits uint32, maxStorageBufferBindingSize uint64) (*Arena, error) {
	if n <= 0 {
		return nil, errors.New("gpu: NewArena requires n > 0")
	}
	maxChunkN := uint32(maxStorageBufferBindingSize / 32)
	if maxChunkN == 0 {
		return nil, ErrDeviceResourceExhausted
	}
	numBuckets := uint32(1) << windowBits
	numBatches := int(ceilDiv(uint32(n), maxChunkN))

	a := &Arena{
		WindowBits: windowBits,
		NumBuckets: numBuckets,
		MaxChunkN:  maxChunkN,
		NumBatches: numBatches,
		Batches:    make([]*Batch, numBatches),
		BatchFinal: make([]curve.ProjectivePoint, numBatches),
	}

	wggLen := ceilDiv(maxChunkN, WorkgroupSize)
	fLen := ceilDiv(numBuckets, WorkgroupSize)

	remaining := uint32(n)
	for i := 0; i < numBatches; i++ {
		chunk := maxChunkN
		if remaining < chunk {
			chunk = remaining
		}
		remaining -= chunk
		b := &Batch{
			Index:      i,
			N:          chunk,
			WindowBits: windowBits,
			Scalars:    make([]limb.Limbs256, chunk),
			Points:  make([]curve.AffinePoint, chunk),
			Proj:    make([]curve.ProjectivePoint, chunk),
			Buckets: make([]curve.ProjectivePoint, numBuckets),
			WGG:     make([]curve.ProjectivePoint, wggLen),
			F:       make([]curve.ProjectivePoint, fLen),
		}
		a.Batches[i] = b
	}
	return a, nil
}

// ResetBuckets zeroes a batch's bucket accumulator back to the identity
// before it is reused for a new window position's Bi1/Bi2 sweep.
func (a *Arena) ResetBuckets(batch *Batch) {
	for i := range batch.Buckets {
		batch.Buckets[i] = curve.Identity
	}
}

// Close releases every buffer this arena owns. It is always safe to call
// more than once.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var errs error
	for _, b := range a.Batches {
		if b == nil {
			errs = multierr.Append(errs, errors.New("gpu: nil batch in arena"))
			continue
		}
		b.Scalars = nil
		b.Points = nil
		b.Proj = nil
		b.Buckets = nil
		b.WGG = nil
		b.F = nil
	}
	a.Batches = nil
	a.BatchFinal = nil
	return errs
}
