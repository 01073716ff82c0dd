// Package ui draws the status panel shown over the simulation.
package ui

import (
	"fmt"
	"strconv"
)

// Status is a snapshot of what the panel reports.
type Status struct {
	Rule       string
	TargetFPS  float64
	Rate       int
	Running    bool
	Generation uint64
	Invert     bool
	GridW      int
	GridH      int
}

// Lines formats s one entry per panel row.
func (s Status) Lines() []string {
	state := "running"
	if !s.Running {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("rule %s  %dx%d", s.Rule, s.GridW, s.GridH),
		fmt.Sprintf("fps %d/%s  %s", s.Rate, strconv.FormatFloat(s.TargetFPS, 'f', -1, 64), state),
		fmt.Sprintf("gen %d", s.Generation),
	}
	if s.Invert {
		lines = append(lines, "inverted")
	}
	return lines
}
