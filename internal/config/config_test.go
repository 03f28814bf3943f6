package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/storage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 2560 || cfg.Height != 1440 {
		t.Errorf("expected 2560x1440, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.LineWidth != 3 {
		t.Errorf("expected line width 3, got %v", cfg.LineWidth)
	}
	if cfg.StepSize.String() != "100" {
		t.Errorf("expected step size 100, got %s", cfg.StepSize)
	}
	if cfg.StepLimit != 100_000_000 {
		t.Errorf("expected step limit 100000000, got %d", cfg.StepLimit)
	}
	if cfg.ImageFormat() != storage.PNG {
		t.Errorf("expected png, got %s", cfg.ImageFormat())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turtlefun.yaml")
	data := `
width: 800
height: 600
background: none
line:
  name: cyclic_grey
  flavour: quadrupel
step_size: 12.5
format: jpg
caption:
  enabled: true
  fill: [255, 0, 0]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 800, cfg.Width)
	require.Equal(t, 600, cfg.Height)
	require.True(t, cfg.Background.Empty())
	require.Equal(t, "cyclic_grey", cfg.Line.Name)
	require.Equal(t, palette.Quadrupel, cfg.Line.Flavour)
	require.IsType(t, palette.Gradient{}, cfg.Line.Palette)
	require.Equal(t, "12.5", cfg.StepSize.String())
	require.Equal(t, storage.JPEG, cfg.ImageFormat())
	require.True(t, cfg.Caption.Enabled)
	require.Equal(t, palette.Tuple{255, 0, 0}, cfg.Caption.Fill.Palette)

	// untouched keys keep their defaults
	require.EqualValues(t, 3, cfg.LineWidth)
	require.Equal(t, DefaultOutDir, cfg.OutDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"size", "width: 0\n"},
		{"format", "format: gif\n"},
		{"step size", "step_size: -1\n"},
		{"style", "background: {name: cyclic_hue}\nbackground_style: {mode: linear, direction: center, transform: keep}\n"},
		{"no line", "line: none\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg, err := GetPreset("transparent")
	require.NoError(t, err)
	cfg.BackgroundStyle = background.Style{Mode: background.Circular, Direction: background.Center, Transform: background.Flip}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	require.True(t, loaded.Background.Empty())
	require.Equal(t, "cyclic_hue", loaded.Line.Name)
	require.Equal(t, cfg.Line.Palette, loaded.Line.Palette)
	require.Equal(t, cfg.BackgroundStyle, loaded.BackgroundStyle)
	require.True(t, cfg.StepSize.Equal(loaded.StepSize))
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("fine")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 3840 || cfg.LineWidth != 1 {
		t.Errorf("unexpected fine preset %dx%d width %v", cfg.Width, cfg.Height, cfg.LineWidth)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("nonexistent"); err == nil {
		t.Error("expected error for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	require.Equal(t, []string{"classic", "fine", "long", "square", "transparent"}, ListPresets())
	for _, name := range ListPresets() {
		cfg, err := GetPreset(name)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate(), name)
	}
}
