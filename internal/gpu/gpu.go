// Package gpu describes the small slice of a graphics API the simulation
// needs: RGBA8 textures with nearest filtering and repeat addressing, an
// off-screen colour target, fragment programs compiled from source, uniform
// values, full-target draws and synchronous readback.
package gpu

import "image"

// Surface is anything a program can be drawn onto.
type Surface interface {
	Size() image.Point
}

// Texture is a 2D RGBA8 image sampled with nearest filtering and wrap-repeat
// addressing.
type Texture interface {
	Surface
	// WritePixels replaces the whole texture with row-major RGBA bytes.
	WritePixels(rgba []byte) error
	Dispose()
}

// Framebuffer is an off-screen colour target. Draws aimed at it land in the
// attached texture.
type Framebuffer interface {
	Surface
	Attach(tex Texture)
	// ReadPixels copies the attached texture into rgba. It waits for every
	// draw submitted before it and may therefore block for a while.
	ReadPixels(rgba []byte) error
}

// Program is a compiled fragment program.
type Program interface {
	Name() string
	Dispose()
}

// Vec2 is a 2-component coordinate in normalised [0,1) texture space.
type Vec2 [2]float64

// Sampler reads a texture at normalised coordinates.
type Sampler interface {
	At(pos Vec2) [4]float32
}

// Kernel evaluates a fragment on the host for the fragment centred at pos.
type Kernel func(src Sampler, pos Vec2, u Uniforms) [4]float32

// ProgramSource is what a Context compiles. Source is the shading-language
// text; Kernel is the same fragment for contexts that execute on the host.
type ProgramSource struct {
	Name   string
	Source []byte
	Kernel Kernel
}

// Context creates resources and issues draws. Calls are expected from a single
// goroutine and execute in submission order.
type Context interface {
	NewTexture(width, height int) (Texture, error)
	NewFramebuffer() (Framebuffer, error)
	NewProgram(src ProgramSource) (Program, error)
	// Draw runs prog once per pixel of dst with src bound as image 0.
	Draw(dst Surface, prog Program, src Texture, u Uniforms) error
}
