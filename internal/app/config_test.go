package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpu-life/internal/core"
	"gpu-life/internal/rule"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("gol", nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
	assert.Equal(t, rule.DefaultVariant, cfg.Rule)
	assert.True(t, core.IsPowerOfTwo(cfg.Scale))
}

func TestFlags(t *testing.T) {
	cfg, err := Load("gol", []string{"-width", "256", "-height", "128", "-scale", "2", "-p", "0.1", "-fps", "15", "-invert", "-rule", "sqrt", "-seed", "9", "-hud=false"})
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
	assert.Equal(t, 2, cfg.Scale)
	assert.Equal(t, 0.1, cfg.P)
	assert.Equal(t, 15.0, cfg.FPS)
	assert.True(t, cfg.Invert)
	assert.Equal(t, rule.VariantSqrt, cfg.Rule)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.False(t, cfg.HUD)

	ec := cfg.EngineConfig(nil)
	assert.Equal(t, core.Size{W: 256, H: 128}, ec.Viewport)
	assert.Equal(t, 2, ec.CellScale)
	assert.Equal(t, rule.VariantSqrt, ec.Rule)
}

func TestFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gol.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
width = 512
height = 512
scale = 8
fps = 24.0
rule = "b"
invert = true
`), 0o644))

	cfg, err := Load("gol", []string{"-config", path, "-fps", "12"})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 8, cfg.Scale)
	assert.Equal(t, rule.VariantB, cfg.Rule)
	assert.True(t, cfg.Invert)
	assert.Equal(t, 12.0, cfg.FPS, "flags override the file")
	assert.Equal(t, 0.5, cfg.P, "unset keys keep defaults")
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load("gol", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = \"wide\"\n"), 0o644))
	_, err = Load("gol", []string{"-config", path})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":   func(c *Config) { c.Width = 0 },
		"zero scale":   func(c *Config) { c.Scale = 0 },
		"huge scale":   func(c *Config) { c.Scale = 4096 },
		"negative p":   func(c *Config) { c.P = -0.1 },
		"p above one":  func(c *Config) { c.P = 1.1 },
		"zero fps":     func(c *Config) { c.FPS = 0 },
		"negative fps": func(c *Config) { c.FPS = -1 },
		"fps too high": func(c *Config) { c.FPS = MaxFPS + 1 },
	}
	for name, mutate := range cases {
		cfg := NewConfig()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalid, name)
	}
	assert.NoError(t, NewConfig().Validate())

	_, err := Load("gol", []string{"-p", "2"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestClampFPS(t *testing.T) {
	assert.Equal(t, float64(MaxFPS), ClampFPS(480))
	assert.Equal(t, float64(MinFPS), ClampFPS(0.25))
	assert.Equal(t, 30.0, ClampFPS(30))

	cfg := NewConfig()
	cfg.FPS = MaxFPS
	assert.NoError(t, cfg.Validate())
}

func TestUnknownRuleFallsBack(t *testing.T) {
	cfg, err := Load("gol", []string{"-rule", "conway"})
	require.NoError(t, err)
	assert.Equal(t, rule.DefaultVariant, cfg.Rule)
}
