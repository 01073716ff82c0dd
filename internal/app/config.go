package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"gpu-life/internal/core"
	"gpu-life/internal/gol"
	"gpu-life/internal/rule"
)

// The step rate range. The game runs MaxFPS updates per second and the
// scheduler steps at most once per update.
const (
	MinFPS = 1
	MaxFPS = 240
)

// ClampFPS limits fps to [MinFPS, MaxFPS].
func ClampFPS(fps float64) float64 {
	return min(max(fps, MinFPS), MaxFPS)
}

// Config represents the command-line parameters for the application.
type Config struct {
	Width   int          `toml:"width"`
	Height  int          `toml:"height"`
	Scale   int          `toml:"scale"`
	P       float64      `toml:"p"`
	FPS     float64      `toml:"fps"`
	Invert  bool         `toml:"invert"`
	Rule    rule.Variant `toml:"rule"`
	Seed    int64        `toml:"seed"`
	HUD     bool         `toml:"hud"`
	Verbose bool         `toml:"verbose"`

	// File is the optional TOML file the other fields were read from.
	File string `toml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:  1024,
		Height: 768,
		Scale:  4,
		P:      0.5,
		FPS:    60,
		Rule:   rule.DefaultVariant,
		Seed:   42,
		HUD:    true,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "TOML file with settings; flags override it")
	fs.IntVar(&c.Width, "width", c.Width, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "viewport height in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "cell size in pixels (power of two)")
	fs.Float64Var(&c.P, "p", c.P, "probability of a cell starting alive")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "target simulation steps per second (1-240)")
	fs.BoolVar(&c.Invert, "invert", c.Invert, "invert the display")
	fs.TextVar(&c.Rule, "rule", c.Rule, "rule variant: a, b, d or sqrt")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial random fill")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the status panel")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "enable debug logging")
}

// LoadFile decodes a TOML file over the current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	c.File = path
	return nil
}

// Load builds a Config from defaults, then the -config file if one is
// named, then the remaining flags in args.
func Load(name string, args []string) (*Config, error) {
	cfg := NewConfig()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.File != "" {
		file := cfg.File
		cfg = NewConfig()
		if err := cfg.LoadFile(file); err != nil {
			return nil, err
		}
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
		cfg.Bind(fs)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Width, c.Height))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: scale %d", ErrInvalid, c.Scale))
	} else if c.Width/c.Scale == 0 || c.Height/c.Scale == 0 {
		errs = append(errs, fmt.Errorf("%w: scale %d leaves no cells", ErrInvalid, c.Scale))
	}
	if c.P < 0 || c.P > 1 {
		errs = append(errs, fmt.Errorf("%w: p %v outside [0,1]", ErrInvalid, c.P))
	}
	if !(c.FPS >= MinFPS && c.FPS <= MaxFPS) {
		errs = append(errs, fmt.Errorf("%w: fps %v outside [%d,%d]", ErrInvalid, c.FPS, MinFPS, MaxFPS))
	}
	return errors.Join(errs...)
}

// EngineConfig converts c into the simulation engine's settings.
func (c *Config) EngineConfig(log *slog.Logger) gol.Config {
	return gol.Config{
		Viewport:        core.Size{W: c.Width, H: c.Height},
		CellScale:       c.Scale,
		LiveProbability: c.P,
		Rule:            c.Rule,
		Seed:            c.Seed,
		Logger:          log,
	}
}

// Logger returns a text logger at debug level when Verbose is set.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
