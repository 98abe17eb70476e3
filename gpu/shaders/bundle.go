// Package shaders embeds the WGSL reference text a real wgpu-tagged
// gpu.Device would compile and dispatch. None of it is executed by this
// module: the CPUDevice in package gpu is the behavioral source of truth,
// and this text exists so a future WebGPU binding has a starting point
// that already matches the CPU device's pass boundaries and naming.
package shaders

import _ "embed"

//go:embed limbs.wgsl
var limbsSrc string

//go:embed montgomery.wgsl
var montgomerySrc string

//go:embed curve.wgsl
var curveSrc string

//go:embed pass_a.wgsl
var passASrc string

//go:embed pass_bi.wgsl
var passBiSrc string

//go:embed pass_cde.wgsl
var passCDESrc string

// Bundle is the fully concatenated shader module text, ordered shared
// types and arithmetic first, then per-pass entry points, so every entry
// point can assume earlier declarations are already in scope without
// re-declaring them (unlike the source this was distilled from, which
// redeclared Limbs256 and gte_256 per file).
type Bundle struct {
	Source string
}

// New concatenates the fragments in the fixed order documented on Bundle
// and returns it. It never errors: every fragment is compiled into the
// binary via go:embed, so there is nothing to fail at runtime.
func New() Bundle {
	return Bundle{Source: limbsSrc + "\n" + montgomerySrc + "\n" + curveSrc + "\n" +
		passASrc + "\n" + passBiSrc + "\n" + passCDESrc}
}

// Default is the single shared bundle instance, computed once.
var Default = New()
