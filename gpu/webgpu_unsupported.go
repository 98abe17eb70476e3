//go:build !wgpu

package gpu

// newWebGPUDevice is the default-build stand-in for a real WebGPU-backed
// Device. No Go WebGPU runtime binding exists in this module's dependency
// surface, so BackendWebGPU is rejected here; a binary built with the
// wgpu tag links gpu/webgpu_stub.go instead.
func newWebGPUDevice(cfg Config) (Device, error) {
	return nil, ErrDeviceUnavailable
}
