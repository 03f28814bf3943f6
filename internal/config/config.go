// Package config loads run settings from YAML files and named presets.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/render"
	"github.com/san-kum/turtlefun/internal/storage"
	"github.com/san-kum/turtlefun/internal/turtle"
)

const (
	DefaultOutDir   = "./turtlefun_images"
	DefaultFontSize = 40
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	LineWidth float64 `yaml:"line_width"`

	Background      palette.Spec     `yaml:"background"`
	BackgroundStyle background.Style `yaml:"background_style"`
	Line            palette.Spec     `yaml:"line"`
	OriginMarker    bool             `yaml:"origin_marker"`

	Format    string `yaml:"format"`
	OutDir    string `yaml:"out_dir"`
	Positions bool   `yaml:"positions"`
	SVG       bool   `yaml:"svg"`

	// Steps fixes the step count. Zero searches for the origin return.
	Steps         int64           `yaml:"steps"`
	StepSize      decimal.Decimal `yaml:"step_size"`
	StepLimit     int64           `yaml:"step_limit"`
	ProgressEvery int64           `yaml:"progress_every"`

	Caption CaptionConfig `yaml:"caption"`
}

// CaptionConfig places the turtle program as text on the image.
type CaptionConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Fill     palette.Spec `yaml:"fill"`
	FontSize float64      `yaml:"font_size"`
	Bold     bool         `yaml:"bold"`
	X        int          `yaml:"x"`
	Y        int          `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:           render.DefaultWidth,
		Height:          render.DefaultHeight,
		LineWidth:       render.DefaultLineWidth,
		Background:      palette.Spec{Palette: palette.Solid("black")},
		BackgroundStyle: background.DefaultStyle(),
		Line:            palette.Spec{Palette: palette.Solid("white")},
		Format:          string(storage.PNG),
		OutDir:          DefaultOutDir,
		StepSize:        decimal.NewFromInt(turtle.DefaultStepSize),
		StepLimit:       turtle.DefaultStepLimit,
		ProgressEvery:   turtle.DefaultProgressEvery,
		Caption: CaptionConfig{
			Fill:     palette.Spec{Palette: palette.Solid("white")},
			FontSize: DefaultFontSize,
			X:        20,
			Y:        20,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, keeping base values for absent keys.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.LineWidth <= 0:
		return fmt.Errorf("%w: line width %v", ErrInvalidConfig, c.LineWidth)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps %d", ErrInvalidConfig, c.Steps)
	case c.StepSize.Sign() <= 0:
		return fmt.Errorf("%w: step size %s", ErrInvalidConfig, c.StepSize)
	case c.StepLimit <= 0:
		return fmt.Errorf("%w: step limit %d", ErrInvalidConfig, c.StepLimit)
	case c.ProgressEvery <= 0:
		return fmt.Errorf("%w: progress cadence %d", ErrInvalidConfig, c.ProgressEvery)
	case c.Line.Empty():
		return fmt.Errorf("%w: no line palette", ErrInvalidConfig)
	}
	if _, err := storage.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, ok := c.Background.Palette.(palette.Gradient); ok {
		if err := c.BackgroundStyle.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ImageFormat is the parsed output format.
func (c *Config) ImageFormat() storage.Format {
	f, err := storage.ParseFormat(c.Format)
	if err != nil {
		return storage.PNG
	}
	return f
}

// TurtleOptions translates the simulation settings.
func (c *Config) TurtleOptions() []turtle.Option {
	return []turtle.Option{
		turtle.WithStepSize(c.StepSize),
		turtle.WithStepLimit(c.StepLimit),
		turtle.WithProgressEvery(c.ProgressEvery),
	}
}

// RenderOptions translates the drawing settings. Captions are added by the
// caller since their text depends on the run.
func (c *Config) RenderOptions() []render.Option {
	return []render.Option{
		render.WithSize(c.Width, c.Height),
		render.WithBackground(c.Background.Palette, c.BackgroundStyle),
		render.WithLine(c.Line.Palette),
		render.WithLineWidth(c.LineWidth),
		render.WithOriginMarker(c.OriginMarker),
	}
}
