package gpu

import (
	"errors"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Backend identifies a compute-shader backend. Unlike the teacher's
// dex/gpu.Backend, there is no Metal/CUDA path here: the only concrete
// implementation is BackendCPU, plus BackendWebGPU as a slot a caller can
// select when linking in a wgpu-tagged Device.
type Backend uint8

const (
	BackendCPU Backend = iota
	BackendWebGPU
)

func (b Backend) String() string {
	switch b {
	case BackendCPU:
		return "cpu"
	case BackendWebGPU:
		return "webgpu"
	default:
		return "unknown"
	}
}

// ErrDeviceUnavailable is returned by NewDevice when Config.Backend
// requests a backend this build does not carry.
var ErrDeviceUnavailable = errors.New("gpu: requested backend unavailable in this build")

// Config holds device-acquisition settings, mirroring the shape of the
// teacher's dex/gpu.Config.
type Config struct {
	Backend Backend

	// MaxWorkers caps the CPU device's goroutine fan-out. Zero means
	// "use DetectWorkerCount()".
	MaxWorkers int
}

// DefaultConfig returns BackendCPU with worker count derived from the
// host's physical core count.
func DefaultConfig() Config {
	return Config{
		Backend:    DetectBackend(),
		MaxWorkers: DetectWorkerCount(),
	}
}

// DetectBackend always resolves to BackendCPU in this build: no Go WebGPU
// runtime binding exists in the dependency surface this module draws on.
// A caller embedding a real wgpu-tagged Device sets Config.Backend
// explicitly instead of relying on detection.
func DetectBackend() Backend {
	return BackendCPU
}

// DetectWorkerCount sizes the CPU device's goroutine pool from the
// detected physical core count, bounded by GOMAXPROCS — there is no
// OS-specific backend left to select between on a CPU-only path, so the
// useful question is how much of the CPU to use, not which CPU vendor.
func DetectWorkerCount() int {
	phys := cpuid.CPU.PhysicalCores
	if phys <= 0 {
		phys = runtime.GOMAXPROCS(0)
	}
	if gomax := runtime.GOMAXPROCS(0); gomax < phys {
		phys = gomax
	}
	if phys < 1 {
		phys = 1
	}
	return phys
}

// NewDevice builds the Device named by cfg.Backend. Only BackendCPU is
// available unless the binary was built with the wgpu tag.
func NewDevice(cfg Config) (Device, error) {
	switch cfg.Backend {
	case BackendCPU:
		workers := cfg.MaxWorkers
		if workers <= 0 {
			workers = DetectWorkerCount()
		}
		return NewCPUDevice(workers), nil
	case BackendWebGPU:
		return newWebGPUDevice(cfg)
	default:
		return nil, ErrDeviceUnavailable
	}
}
