package config

import (
	"fmt"
	"slices"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/palette"
)

var Presets = map[string]func(*Config){
	"classic": func(*Config) {},
	"fine": func(c *Config) {
		c.Width, c.Height = 3840, 2160
		c.LineWidth = 1
	},
	"square": func(c *Config) {
		c.Width, c.Height = 2048, 2048
	},
	"long": func(c *Config) {
		c.StepLimit = 1_000_000_000
		c.ProgressEvery = 1_000_000
	},
	"transparent": func(c *Config) {
		c.Background = palette.Spec{}
		c.BackgroundStyle = background.DefaultStyle()
		c.Line = mustNamed("cyclic_hue", palette.Normal)
	},
}

func mustNamed(name string, flavour palette.Flavour) palette.Spec {
	pair, err := palette.Named(name, flavour)
	if err != nil {
		panic(err)
	}
	return palette.Spec{Palette: palette.Gradient(pair.Path), Name: name, Flavour: flavour}
}

// GetPreset returns the default configuration with the named preset
// applied.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

// ListPresets returns the preset names in order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
