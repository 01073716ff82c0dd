//go:build ebiten

package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gpu-life/internal/anim"
	"gpu-life/internal/gol"
	"gpu-life/internal/gpu/ebitengpu"
	"gpu-life/internal/ui"
)

// Game adapts a gol.Engine to the ebiten.Game interface. Simulation steps
// are paced by an anim.Scheduler polled from Update; every frame presents
// the current grid.
type Game struct {
	cfg *Config
	log *slog.Logger
	gpu *ebitengpu.Context

	engine *gol.Engine
	sched  *anim.Scheduler
	hud    *ui.HUD

	invert  bool
	showHUD bool
	err     error
}

// New constructs a Game. GPU resources are created on the first Update,
// once the ebiten loop is running.
func New(cfg *Config, log *slog.Logger) *Game {
	return &Game{
		cfg:     cfg,
		log:     log,
		gpu:     ebitengpu.New(),
		hud:     ui.NewHUD(),
		invert:  cfg.Invert,
		showHUD: cfg.HUD,
	}
}

func (g *Game) init() error {
	engine, err := gol.New(g.gpu, g.cfg.EngineConfig(g.log))
	if err != nil {
		return err
	}
	sched, err := anim.New(g.cfg.FPS, engine.Step, anim.WithLogger(g.log))
	if err != nil {
		engine.Close()
		return err
	}
	g.engine = engine
	g.sched = sched
	g.sched.Start()
	g.log.Info("simulation started", "rule", g.cfg.Rule, "fps", g.cfg.FPS, "p", g.cfg.P)
	return nil
}

// Update handles input and advances the simulation when a step is due.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.engine == nil {
		if err := g.init(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sched.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.invert = !g.invert
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.engine.SetRandom(g.cfg.P); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.adjustFPS(2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.adjustFPS(0.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && !g.sched.Running() {
		if err := g.engine.Step(); err != nil {
			return err
		}
	}

	if _, err := g.sched.Poll(time.Now()); err != nil {
		return err
	}

	if g.showHUD {
		size := g.engine.Size()
		g.hud.Update(ui.Status{
			Rule:       g.cfg.Rule.String(),
			TargetFPS:  g.cfg.FPS,
			Rate:       g.sched.Rate(),
			Running:    g.sched.Running(),
			Generation: g.engine.Generation(),
			Invert:     g.invert,
			GridW:      size.W,
			GridH:      size.H,
		})
	}
	return nil
}

func (g *Game) adjustFPS(factor float64) {
	fps := ClampFPS(g.cfg.FPS * factor)
	if err := g.sched.SetFPS(fps); err != nil {
		g.log.Warn("fps unchanged", "fps", fps, "err", err)
		return
	}
	g.cfg.FPS = fps
	g.log.Debug("target fps", "fps", fps)
}

// Draw presents the current grid. Failures surface on the next Update.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.engine == nil {
		return
	}
	if err := g.engine.Draw(ebitengpu.NewScreen(screen), g.invert); err != nil && g.err == nil {
		g.err = fmt.Errorf("app: %w", err)
		return
	}
	if g.showHUD {
		g.hud.Draw(screen)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Close releases the engine's GPU resources.
func (g *Game) Close() {
	if g.sched != nil {
		g.sched.Stop()
	}
	if g.engine != nil {
		g.engine.Close()
	}
}
