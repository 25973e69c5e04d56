// Package config loads forcegraph settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
)

// Config holds forcegraph configuration.
type Config struct {
	Simulation physics.Config `toml:"simulation"`
	Viewport   ViewportConfig `toml:"viewport"`
	Render     RenderConfig   `toml:"render"`

	// Set when the file gave the centre explicitly, so Resize leaves it alone.
	fixedCenterX, fixedCenterY bool
}

// ViewportConfig sizes the drawing surface. The simulation centre defaults
// to its midpoint.
type ViewportConfig struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Padding float64 `toml:"padding"`
}

// RenderConfig controls output.
type RenderConfig struct {
	Format  string `toml:"format"`  // "svg" or "ascii"
	Palette string `toml:"palette"` // "category10", "vivid", "dark"
	Labels  bool   `toml:"labels"`
	Fit     bool   `toml:"fit"`
	Title   string `toml:"title"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Simulation: physics.DefaultConfig(800, 600),
		Viewport:   ViewportConfig{Width: 800, Height: 600, Padding: 40},
		Render:     RenderConfig{Format: "svg", Palette: "category10", Labels: true},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; when the file sets the viewport but not the centre, the
// centre follows the viewport midpoint.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}

	cfg.fixedCenterX = md.IsDefined("simulation", "center_x")
	cfg.fixedCenterY = md.IsDefined("simulation", "center_y")
	cfg.Resize(cfg.Viewport.Width, cfg.Viewport.Height)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resize sets the viewport size. A centre the file did not set follows the
// new midpoint.
func (c *Config) Resize(width, height float64) {
	c.Viewport.Width, c.Viewport.Height = width, height
	if !c.fixedCenterX {
		c.Simulation.CenterX = width / 2
	}
	if !c.fixedCenterY {
		c.Simulation.CenterY = height / 2
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.New("viewport width and height must be positive")
	}
	if _, err := render.PaletteByName(c.Render.Palette); err != nil {
		return err
	}
	if _, err := render.GetRenderer(c.Render.Format); err != nil {
		return err
	}
	return c.Simulation.Validate()
}

// Options builds render options from the viewport and render sections.
func (c *Config) Options() (*render.Options, error) {
	palette, err := render.PaletteByName(c.Render.Palette)
	if err != nil {
		return nil, err
	}
	opts := render.NewDefaultOptions(c.Render.Format)
	opts.Width = c.Viewport.Width
	opts.Height = c.Viewport.Height
	opts.Padding = c.Viewport.Padding
	opts.Palette = palette
	opts.ShowLabels = c.Render.Labels
	opts.Fit = c.Render.Fit
	opts.Title = c.Render.Title
	return opts, nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
