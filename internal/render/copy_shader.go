package render

import "gpu-life/internal/gpu"

// CopyProgramName identifies the display program.
const CopyProgramName = "copy"

// copyShaderSrc scales the state grid up to the destination and optionally
// inverts it. The output is opaque so the window shows exactly the state.
const copyShaderSrc = `//kage:unit pixels

package main

var Scale vec2
var Invert float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := imageSrc0At(srcPos)
	if Invert != 0.0 {
		return vec4(1.0-c.r, 1.0-c.g, 1.0-c.b, 1.0)
	}
	return vec4(c.rgb, 1.0)
}
`

// CopyShaderSource returns the Kage source of the display program.
func CopyShaderSource() []byte { return []byte(copyShaderSrc) }

// CopyProgram returns the display program with its host kernel.
func CopyProgram() gpu.ProgramSource {
	return gpu.ProgramSource{
		Name:   CopyProgramName,
		Source: CopyShaderSource(),
		Kernel: copyKernel,
	}
}

func copyKernel(src gpu.Sampler, pos gpu.Vec2, u gpu.Uniforms) [4]float32 {
	c := src.At(pos)
	if u.Bool("Invert") {
		return [4]float32{1 - c[0], 1 - c[1], 1 - c[2], 1}
	}
	return [4]float32{c[0], c[1], c[2], 1}
}
