package gpu

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jk89/kimchi-webgpu/curve"
	"github.com/jk89/kimchi-webgpu/limb"
)

// chunkRecorder collects (start,end) pairs from concurrent goroutines
// behind a mutex, since forEachWorkgroup fans out across workers.
type chunkRecorder struct {
	mu    sync.Mutex
	pairs [][2]uint32
}

func (c *chunkRecorder) record(start, end uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs = append(c.pairs, [2]uint32{start, end})
}

func (c *chunkRecorder) starts() []uint32 {
	out := make([]uint32, len(c.pairs))
	for i, p := range c.pairs {
		out[i] = p[0]
	}
	return out
}

func TestForEachWorkgroupChunking(t *testing.T) {
	var rec chunkRecorder
	err := forEachWorkgroup(context.Background(), 150, 4, func(start, end uint32) error {
		rec.record(start, end)
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{0, 64, 128}, rec.starts())
}

func TestCPUDeviceNameAndLimit(t *testing.T) {
	d := NewCPUDevice(2)
	require.Equal(t, "cpu", d.Name())
	require.Equal(t, uint64(defaultMaxStorageBufferBindingSize), d.MaxStorageBufferBindingSize())

	limited := NewCPUDeviceWithLimit(2, 1024)
	require.Equal(t, uint64(1024), limited.MaxStorageBufferBindingSize())
}

func newTestBatch(n, windowBits uint32) *Batch {
	return &Batch{
		N:          n,
		WindowBits: windowBits,
		Scalars:    make([]limb.Limbs256, n),
		Points:     make([]curve.AffinePoint, n),
		Proj:       make([]curve.ProjectivePoint, n),
		Buckets:    make([]curve.ProjectivePoint, 1<<windowBits),
	}
}

func TestDispatchALiftsPoints(t *testing.T) {
	d := NewCPUDevice(2)
	b := newTestBatch(3, 2)
	b.Points[0] = curve.AffinePoint{X: limb.Limbs256{5}, Y: limb.Limbs256{7}}
	b.Points[1] = curve.AffinePoint{X: limb.Limbs256{11}, Y: limb.Limbs256{13}}
	b.Points[2] = curve.AffinePoint{} // infinity

	require.NoError(t, d.DispatchA(context.Background(), b))

	require.Equal(t, curve.ToProjective(b.Points[0]), b.Proj[0])
	require.Equal(t, curve.ToProjective(b.Points[1]), b.Proj[1])
	require.True(t, b.Proj[2].IsInfinity())
}

func TestDispatchBi1AndBi2AccumulateMatchingBucket(t *testing.T) {
	d := NewCPUDevice(2)
	b := newTestBatch(4, 2) // w=2, buckets 0..3
	points := []curve.AffinePoint{
		{X: limb.Limbs256{5}, Y: limb.Limbs256{7}},
		{X: limb.Limbs256{11}, Y: limb.Limbs256{13}},
		{X: limb.Limbs256{17}, Y: limb.Limbs256{19}},
		{X: limb.Limbs256{23}, Y: limb.Limbs256{29}},
	}
	digits := []uint32{1, 2, 1, 3}
	for i, p := range points {
		b.Points[i] = p
		b.Scalars[i] = limb.Limbs256{digits[i]}
	}
	require.NoError(t, d.DispatchA(context.Background(), b))

	for bucket := uint32(0); bucket < 4; bucket++ {
		require.NoError(t, d.DispatchBi1(context.Background(), b, bucket))
		require.NoError(t, d.DispatchBi2(context.Background(), b, bucket, uint32(len(b.WGG))))
	}

	want1 := curve.Add(curve.ToProjective(points[0]), curve.ToProjective(points[2]))
	require.Equal(t, curve.ToAffine(want1), curve.ToAffine(b.Buckets[1]))
	require.Equal(t, curve.ToAffine(curve.ToProjective(points[1])), curve.ToAffine(b.Buckets[2]))
	require.Equal(t, curve.ToAffine(curve.ToProjective(points[3])), curve.ToAffine(b.Buckets[3]))
	require.True(t, b.Buckets[0].IsInfinity())
}

func TestDispatchCWeightsByIndex(t *testing.T) {
	d := NewCPUDevice(2)
	b := newTestBatch(0, 2)
	p1 := curve.ToProjective(curve.AffinePoint{X: limb.Limbs256{5}, Y: limb.Limbs256{7}})
	b.Buckets[1] = p1
	b.Buckets[3] = p1
	b.F = make([]curve.ProjectivePoint, 1)

	require.NoError(t, d.DispatchC(context.Background(), b))

	want := curve.Add(scalarMulProjective(1, p1), scalarMulProjective(3, p1))
	require.Equal(t, curve.ToAffine(want), curve.ToAffine(b.F[0]))
}

func TestDispatchDReducesInPlace(t *testing.T) {
	d := NewCPUDevice(2)
	b := newTestBatch(0, 1)
	p1 := curve.ToProjective(curve.AffinePoint{X: limb.Limbs256{5}, Y: limb.Limbs256{7}})
	p2 := curve.ToProjective(curve.AffinePoint{X: limb.Limbs256{11}, Y: limb.Limbs256{13}})
	b.F = []curve.ProjectivePoint{p1, p2}

	require.NoError(t, d.DispatchD(context.Background(), b, 2))
	require.Equal(t, curve.ToAffine(curve.Add(p1, p2)), curve.ToAffine(b.F[0]))
}

func TestDispatchEReturnsDoneWhenWithinOneWorkgroup(t *testing.T) {
	d := NewCPUDevice(2)
	p1 := curve.ToProjective(curve.AffinePoint{X: limb.Limbs256{5}, Y: limb.Limbs256{7}})
	p2 := curve.ToProjective(curve.AffinePoint{X: limb.Limbs256{11}, Y: limb.Limbs256{13}})
	arena := &Arena{BatchFinal: []curve.ProjectivePoint{p1, p2}}

	got, done, err := d.DispatchE(context.Background(), arena, 2)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, curve.ToAffine(curve.Add(p1, p2)), got)
}
