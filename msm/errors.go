package msm

import "errors"

// Sentinel errors at the msm.Run boundary, following the teacher's
// package-level var block pattern (dex/gpu.Err*) rather than a custom
// error-code type.
var (
	ErrEmptyInput              = errors.New("msm: scalars or points is empty")
	ErrLengthMismatch          = errors.New("msm: len(scalars) != len(points)")
	ErrWindowOutOfRange        = errors.New("msm: window_bits must be in [1,22]")
	ErrDeviceResourceExhausted = errors.New("msm: device buffer allocation failed")
	ErrDeviceLost              = errors.New("msm: device lost during submission or readback")
)
