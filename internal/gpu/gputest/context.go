// Package gputest provides a host-memory gpu.Context for tests. Programs run
// through their ProgramSource.Kernel, one call per destination pixel, and
// results are stored as RGBA8 exactly like a GPU colour target would.
package gputest

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gpu-life/internal/gpu"
)

// Context is a gpu.Context backed by byte slices.
type Context struct {
	// CompileErrors makes NewProgram fail for the named programs.
	CompileErrors map[string]error
	// NoFramebuffers makes NewFramebuffer report gpu.ErrUnsupported.
	NoFramebuffers bool

	draws    int
	textures int
	programs int
}

var _ gpu.Context = (*Context)(nil)

// New returns an empty Context.
func New() *Context { return &Context{} }

// Draws reports how many draws have been issued.
func (c *Context) Draws() int { return c.draws }

// LiveTextures reports textures created and not yet disposed.
func (c *Context) LiveTextures() int { return c.textures }

// LivePrograms reports programs compiled and not yet disposed.
func (c *Context) LivePrograms() int { return c.programs }

// Texture is a host RGBA8 texture.
type Texture struct {
	ctx  *Context
	w, h int
	pix  []byte
}

// NewTexture allocates a zeroed texture.
func (c *Context) NewTexture(width, height int) (gpu.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture size %dx%d", gpu.ErrUnsupported, width, height)
	}
	c.textures++
	return &Texture{ctx: c, w: width, h: height, pix: make([]byte, 4*width*height)}, nil
}

// Size implements gpu.Surface.
func (t *Texture) Size() image.Point { return image.Pt(t.w, t.h) }

// WritePixels implements gpu.Texture.
func (t *Texture) WritePixels(rgba []byte) error {
	if err := gpu.CheckPixels(rgba, t); err != nil {
		return err
	}
	copy(t.pix, rgba)
	return nil
}

// Dispose implements gpu.Texture.
func (t *Texture) Dispose() {
	if t.pix == nil {
		return
	}
	t.pix = nil
	t.ctx.textures--
}

// Pix exposes the raw RGBA bytes.
func (t *Texture) Pix() []byte { return t.pix }

// At implements gpu.Sampler with nearest filtering and repeat addressing.
func (t *Texture) At(pos gpu.Vec2) [4]float32 {
	x := wrap(int(math.Floor(pos[0]*float64(t.w))), t.w)
	y := wrap(int(math.Floor(pos[1]*float64(t.h))), t.h)
	i := 4 * (y*t.w + x)
	return [4]float32{
		float32(t.pix[i+0]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

func wrap(v, n int) int { return (v%n + n) % n }

// Screen stands in for the visible surface.
type Screen struct {
	w, h int
	pix  []byte
}

// NewScreen allocates a screen of the given size.
func NewScreen(width, height int) *Screen {
	return &Screen{w: width, h: height, pix: make([]byte, 4*width*height)}
}

// Size implements gpu.Surface.
func (s *Screen) Size() image.Point { return image.Pt(s.w, s.h) }

// Pix exposes the raw RGBA bytes.
func (s *Screen) Pix() []byte { return s.pix }

type framebuffer struct {
	ctx *Context
	tex *Texture
}

// NewFramebuffer implements gpu.Context.
func (c *Context) NewFramebuffer() (gpu.Framebuffer, error) {
	if c.NoFramebuffers {
		return nil, fmt.Errorf("%w: RGBA8 colour attachment", gpu.ErrUnsupported)
	}
	return &framebuffer{ctx: c}, nil
}

func (f *framebuffer) Size() image.Point {
	if f.tex == nil {
		return image.Point{}
	}
	return f.tex.Size()
}

func (f *framebuffer) Attach(tex gpu.Texture) {
	t, _ := tex.(*Texture)
	f.tex = t
}

func (f *framebuffer) ReadPixels(rgba []byte) error {
	if f.tex == nil {
		return gpu.ErrNoAttachment
	}
	if err := gpu.CheckPixels(rgba, f.tex); err != nil {
		return err
	}
	copy(rgba, f.tex.pix)
	return nil
}

type program struct {
	ctx    *Context
	name   string
	kernel gpu.Kernel
}

func (p *program) Name() string { return p.name }

func (p *program) Dispose() {
	if p.kernel == nil {
		return
	}
	p.kernel = nil
	p.ctx.programs--
}

// NewProgram implements gpu.Context. A source without a kernel cannot run
// here and is reported as a compile failure.
func (c *Context) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if err, ok := c.CompileErrors[src.Name]; ok {
		return nil, &gpu.CompileError{Program: src.Name, Err: err}
	}
	if src.Kernel == nil {
		return nil, &gpu.CompileError{Program: src.Name, Err: errors.New("no host kernel")}
	}
	c.programs++
	return &program{ctx: c, name: src.Name, kernel: src.Kernel}, nil
}

// Draw implements gpu.Context.
func (c *Context) Draw(dst gpu.Surface, prog gpu.Program, src gpu.Texture, u gpu.Uniforms) error {
	p, ok := prog.(*program)
	if !ok || p.ctx != c {
		return gpu.ErrForeignResource
	}
	in, ok := src.(*Texture)
	if !ok || in.ctx != c {
		return gpu.ErrForeignResource
	}
	if p.kernel == nil || in.pix == nil {
		return gpu.ErrDisposed
	}
	var out []byte
	var w, h int
	switch d := dst.(type) {
	case *framebuffer:
		if d.tex == nil {
			return gpu.ErrNoAttachment
		}
		if d.tex == in {
			return gpu.ErrFeedbackLoop
		}
		out, w, h = d.tex.pix, d.tex.w, d.tex.h
	case *Screen:
		out, w, h = d.pix, d.w, d.h
	default:
		return gpu.ErrForeignResource
	}
	c.draws++
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := gpu.Vec2{(float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)}
			col := p.kernel(in, pos, u)
			i := 4 * (y*w + x)
			for ch, v := range col {
				out[i+ch] = quantize(v)
			}
		}
	}
	return nil
}

// quantize converts a channel to 8 bits, clamping like a fixed-point target.
func quantize(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
