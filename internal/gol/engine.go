// Package gol runs a continuous-valued Game of Life on the GPU. The state
// lives in two textures; each tick draws the step program from the current
// ("front") texture into the other ("back") one and then swaps their roles.
package gol

import (
	"errors"
	"fmt"
	"log/slog"

	"gpu-life/internal/core"
	"gpu-life/internal/gpu"
	"gpu-life/internal/render"
	"gpu-life/internal/rule"
)

var (
	// ErrInvalidConfig is returned by New for unusable dimensions or probabilities.
	ErrInvalidConfig = errors.New("gol: invalid config")
	// ErrSizeMismatch is returned by SetState when the snapshot length is not
	// the grid's cell count.
	ErrSizeMismatch = errors.New("gol: state length does not match grid")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("gol: engine closed")
)

// Config describes an Engine.
type Config struct {
	// Viewport is the size of the visible surface in pixels.
	Viewport core.Size
	// CellScale is the pixel size of one cell, normally a power of two.
	CellScale int
	// LiveProbability is the chance of each cell starting alive.
	LiveProbability float64
	Rule            rule.Variant
	Seed            int64
	Logger          *slog.Logger
}

// Engine owns the state textures and programs of one simulation.
type Engine struct {
	ctx    gpu.Context
	log    *slog.Logger
	rule   rule.Program
	rng    *core.RNG
	view   core.Size
	size   core.Size
	front  gpu.Texture
	back   gpu.Texture
	fb     gpu.Framebuffer
	step   gpu.Program
	show   gpu.Program
	pixels []byte
	gen    uint64
	closed bool
}

// New allocates the textures and compiles both programs on ctx, then fills
// the grid randomly using cfg.LiveProbability.
func New(ctx gpu.Context, cfg Config) (*Engine, error) {
	if cfg.CellScale <= 0 {
		return nil, fmt.Errorf("%w: cell scale %d", ErrInvalidConfig, cfg.CellScale)
	}
	if cfg.LiveProbability < 0 || cfg.LiveProbability > 1 {
		return nil, fmt.Errorf("%w: live probability %v", ErrInvalidConfig, cfg.LiveProbability)
	}
	size := cfg.Viewport.Div(cfg.CellScale)
	if size.Empty() {
		return nil, fmt.Errorf("%w: viewport %dx%d holds no %dpx cells", ErrInvalidConfig, cfg.Viewport.W, cfg.Viewport.H, cfg.CellScale)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if !core.IsPowerOfTwo(cfg.CellScale) {
		log.Warn("gol: cell scale is not a power of two, grid will not cover the viewport exactly", "scale", cfg.CellScale)
	}

	e := &Engine{
		ctx:    ctx,
		log:    log,
		rule:   rule.Compile(cfg.Rule),
		rng:    core.NewRNG(cfg.Seed),
		view:   cfg.Viewport,
		size:   size,
		pixels: make([]byte, 4*size.Cells()),
	}
	if err := e.init(); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.SetRandom(cfg.LiveProbability); err != nil {
		e.Close()
		return nil, err
	}
	log.Debug("gol: engine ready", "cells", size.Cells(), "w", size.W, "h", size.H, "rule", e.rule.Variant)
	return e, nil
}

func (e *Engine) init() error {
	var err error
	if e.front, err = e.ctx.NewTexture(e.size.W, e.size.H); err != nil {
		return fmt.Errorf("gol: front texture: %w", err)
	}
	if e.back, err = e.ctx.NewTexture(e.size.W, e.size.H); err != nil {
		return fmt.Errorf("gol: back texture: %w", err)
	}
	if e.fb, err = e.ctx.NewFramebuffer(); err != nil {
		return fmt.Errorf("gol: step target: %w", err)
	}
	if e.step, err = e.ctx.NewProgram(stepProgram(e.rule)); err != nil {
		return fmt.Errorf("gol: %w", err)
	}
	if e.show, err = e.ctx.NewProgram(render.CopyProgram()); err != nil {
		return fmt.Errorf("gol: %w", err)
	}
	return nil
}

// StepProgramName identifies the step program.
const StepProgramName = "step"

func stepProgram(p rule.Program) gpu.ProgramSource {
	return gpu.ProgramSource{
		Name:   StepProgramName,
		Source: p.Kage(),
		Kernel: func(src gpu.Sampler, pos gpu.Vec2, u gpu.Uniforms) [4]float32 {
			scale := u.Vec2("Scale")
			var n [rule.Samples]float32
			for i, off := range rule.Offsets {
				n[i] = src.At(gpu.Vec2{
					pos[0] + float64(off.X)/float64(scale[0]),
					pos[1] + float64(off.Y)/float64(scale[1]),
				})[0]
			}
			res := p.Next(n)
			return [4]float32{res, res, res, 0}
		},
	}
}

// Size returns the grid dimensions in cells.
func (e *Engine) Size() core.Size { return e.size }

// Viewport returns the presentation size in pixels.
func (e *Engine) Viewport() core.Size { return e.view }

// Rule returns the compiled step program.
func (e *Engine) Rule() rule.Program { return e.rule }

// Generation counts completed steps since construction.
func (e *Engine) Generation() uint64 { return e.gen }

// SetState replaces the whole front grid with values, given row-major with
// one entry per cell. Values outside [0,1] are clamped.
func (e *Engine) SetState(values []float32) error {
	if e.closed {
		return ErrClosed
	}
	if len(values) != e.size.Cells() {
		return fmt.Errorf("%w: got %d values, want %d", ErrSizeMismatch, len(values), e.size.Cells())
	}
	render.EncodeRGBA(e.pixels, values)
	return e.front.WritePixels(e.pixels)
}

// SetRandom fills the front grid with live cells drawn independently with
// probability p.
func (e *Engine) SetRandom(p float64) error {
	if e.closed {
		return ErrClosed
	}
	g := core.NewGrid(e.size)
	e.rng.FillBernoulli(g.Cells(), p)
	return e.SetState(g.Cells())
}

// State reads back the front grid row-major, normalised to [0,1]. The read
// waits for all submitted draws to finish, so it may stall the caller.
func (e *Engine) State() ([]float32, error) {
	if e.closed {
		return nil, ErrClosed
	}
	e.fb.Attach(e.front)
	if err := e.fb.ReadPixels(e.pixels); err != nil {
		return nil, fmt.Errorf("gol: read state: %w", err)
	}
	out := make([]float32, e.size.Cells())
	render.DecodeRGBA(out, e.pixels)
	return out, nil
}

// Step advances the simulation by one tick: the step program reads front and
// writes back, then the two swap roles.
func (e *Engine) Step() error {
	if e.closed {
		return ErrClosed
	}
	e.fb.Attach(e.back)
	err := e.ctx.Draw(e.fb, e.step, e.front, gpu.Uniforms{
		"Scale": [2]float32{float32(e.size.W), float32(e.size.H)},
	})
	if err != nil {
		return fmt.Errorf("gol: step: %w", err)
	}
	e.Swap()
	e.gen++
	return nil
}

// Draw presents the front grid on dst, inverted when invert is set.
func (e *Engine) Draw(dst gpu.Surface, invert bool) error {
	if e.closed {
		return ErrClosed
	}
	err := e.ctx.Draw(dst, e.show, e.front, gpu.Uniforms{
		"Scale":  [2]float32{float32(e.view.W), float32(e.view.H)},
		"Invert": invert,
	})
	if err != nil {
		return fmt.Errorf("gol: draw: %w", err)
	}
	return nil
}

// Swap exchanges the front and back textures without copying. Step calls it;
// other callers rarely need to.
func (e *Engine) Swap() {
	e.front, e.back = e.back, e.front
}

// Close releases the textures and programs. Calling it again does nothing.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for _, t := range []gpu.Texture{e.front, e.back} {
		if t != nil {
			t.Dispose()
		}
	}
	for _, p := range []gpu.Program{e.step, e.show} {
		if p != nil {
			p.Dispose()
		}
	}
	e.front, e.back = nil, nil
	e.step, e.show = nil, nil
}
