//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"gpu-life/internal/app"
)

func main() {
	cfg, err := app.Load("gol", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(2)
	}
	log := cfg.Logger()
	slog.SetDefault(log)

	game := app.New(cfg, log)
	defer game.Close()

	ebiten.SetWindowTitle("gpu-life: rule " + cfg.Rule.String())
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(app.MaxFPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
