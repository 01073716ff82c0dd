//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 8
	lineHeight   = 16
	panelWidth   = 180
)

// HUD renders the status panel in the top-left corner of the screen.
type HUD struct {
	lines []string
	panel *ebiten.Image
}

// NewHUD constructs an empty HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// Update caches the lines to draw for s.
func (h *HUD) Update(s Status) {
	if h == nil {
		return
	}
	h.lines = s.Lines()
}

// Draw paints the panel over screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || len(h.lines) == 0 {
		return
	}
	height := 2*panelPadding + len(h.lines)*lineHeight
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(panelWidth, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})
	face := basicfont.Face7x13
	for i, line := range h.lines {
		y := panelPadding + (i+1)*lineHeight - 4
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
	screen.DrawImage(h.panel, &ebiten.DrawImageOptions{})
}
