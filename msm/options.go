package msm

// Options configures one Run call.
type Options struct {
	// WindowBits is the Pippenger window width w, in [1,22]. Zero means
	// the default of 8.
	WindowBits uint32

	// Verbose enables per-pass/per-batch debug logging. Default (false)
	// logs only a start/finish summary line per call.
	Verbose bool

	// SkipZeroBucket skips the bucket_idx=0 Bi1/Bi2 dispatch. Safe
	// unconditionally under the weight=idx aggregation formula (§
	// DESIGN.md "weight formula"), since bucket 0 is always scaled by
	// weight 0 in Pass C regardless of its contents. Default false keeps
	// the uniform [0,B) dispatch range for auditability.
	SkipZeroBucket bool
}

func (o Options) windowBits() uint32 {
	if o.WindowBits == 0 {
		return 8
	}
	return o.WindowBits
}
