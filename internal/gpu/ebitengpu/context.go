//go:build ebiten

// Package ebitengpu implements gpu.Context on top of ebiten images and Kage
// shaders.
package ebitengpu

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"gpu-life/internal/gpu"
)

// Context issues draws through ebiten. Ebiten queues commands in submission
// order and flushes them before readback.
type Context struct{}

var _ gpu.Context = (*Context)(nil)

// New returns a Context. Resources may be created before the game loop
// starts, but ReadPixels only works once it is running.
func New() *Context { return &Context{} }

type texture struct {
	img *ebiten.Image
}

// NewTexture allocates an unmanaged image so it is never packed into an
// atlas and addressing stays relative to its own origin.
func (c *Context) NewTexture(width, height int) (gpu.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture size %dx%d", gpu.ErrUnsupported, width, height)
	}
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, width, height), &ebiten.NewImageOptions{Unmanaged: true})
	return &texture{img: img}, nil
}

func (t *texture) Size() image.Point { return t.img.Bounds().Size() }

func (t *texture) WritePixels(rgba []byte) error {
	if err := gpu.CheckPixels(rgba, t); err != nil {
		return err
	}
	t.img.WritePixels(rgba)
	return nil
}

func (t *texture) Dispose() { t.img.Dispose() }

type framebuffer struct {
	tex *texture
}

// NewFramebuffer implements gpu.Context. Every ebiten image is renderable,
// so the framebuffer only records which texture draws should land in.
func (c *Context) NewFramebuffer() (gpu.Framebuffer, error) {
	return &framebuffer{}, nil
}

func (f *framebuffer) Size() image.Point {
	if f.tex == nil {
		return image.Point{}
	}
	return f.tex.Size()
}

func (f *framebuffer) Attach(tex gpu.Texture) {
	t, _ := tex.(*texture)
	f.tex = t
}

func (f *framebuffer) ReadPixels(rgba []byte) error {
	if f.tex == nil {
		return gpu.ErrNoAttachment
	}
	if err := gpu.CheckPixels(rgba, f.tex); err != nil {
		return err
	}
	f.tex.img.ReadPixels(rgba)
	return nil
}

// Screen adapts the image ebiten passes to Game.Draw.
type Screen struct {
	img *ebiten.Image
}

// NewScreen wraps img as a gpu.Surface.
func NewScreen(img *ebiten.Image) Screen { return Screen{img: img} }

// Size implements gpu.Surface.
func (s Screen) Size() image.Point { return s.img.Bounds().Size() }

type program struct {
	name   string
	shader *ebiten.Shader
}

func (p *program) Name() string { return p.name }

func (p *program) Dispose() { p.shader.Dispose() }

// NewProgram compiles src.Source as Kage.
func (c *Context) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	shader, err := ebiten.NewShader(src.Source)
	if err != nil {
		return nil, &gpu.CompileError{Program: src.Name, Err: err}
	}
	return &program{name: src.Name, shader: shader}, nil
}

// Draw renders prog over the whole of dst. The source grid covers the
// destination, scaled up when dst is larger, and is written without blending.
func (c *Context) Draw(dst gpu.Surface, prog gpu.Program, src gpu.Texture, u gpu.Uniforms) error {
	p, ok := prog.(*program)
	if !ok {
		return gpu.ErrForeignResource
	}
	in, ok := src.(*texture)
	if !ok {
		return gpu.ErrForeignResource
	}
	var out *ebiten.Image
	switch d := dst.(type) {
	case *framebuffer:
		if d.tex == nil {
			return gpu.ErrNoAttachment
		}
		out = d.tex.img
	case Screen:
		out = d.img
	default:
		return gpu.ErrForeignResource
	}

	if out == in.img {
		return gpu.ErrFeedbackLoop
	}

	size := in.Size()
	target := out.Bounds().Size()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = in.img
	op.Uniforms = kageUniforms(u)
	op.Blend = ebiten.BlendCopy
	op.GeoM.Scale(float64(target.X)/float64(size.X), float64(target.Y)/float64(size.Y))
	out.DrawRectShader(size.X, size.Y, p.shader, op)
	return nil
}

// kageUniforms converts values to the float forms Kage accepts. Booleans
// become 0 or 1.
func kageUniforms(u gpu.Uniforms) map[string]any {
	out := make(map[string]any, len(u))
	for name, v := range u {
		switch v := v.(type) {
		case [2]float32:
			out[name] = []float32{v[0], v[1]}
		case bool, int, float64:
			out[name] = u.Float(name)
		default:
			out[name] = v
		}
	}
	return out
}
