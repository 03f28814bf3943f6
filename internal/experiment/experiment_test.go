package experiment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/config"
	"github.com/san-kum/turtlefun/internal/turtle"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 120, 80
	cfg.OutDir = filepath.Join(t.TempDir(), "images")
	return cfg
}

func TestRunToOriginAndSave(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Positions = true
	cfg.SVG = true

	var reports int
	exp := New(cfg, decimal.NewFromInt(90), WithObserver(turtle.ObserverFunc(func(turtle.Progress) { reports++ })))
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	require.True(t, res.Home)
	require.EqualValues(t, 8, res.Turtle.Steps())
	require.Equal(t, []string{"8"}, decimalStrings(res.Estimate.Candidates))
	require.Equal(t, 120, res.Image.Bounds().Dx())

	require.FileExists(t, res.ImagePath)
	require.FileExists(t, res.PositionsPath)
	require.FileExists(t, res.SVGPath)
	require.Equal(t, filepath.Join(cfg.OutDir, "90-0"), filepath.Dir(res.ImagePath))
	require.Contains(t, filepath.Base(res.ImagePath), "_origin-return.png")

	rec, err := exp.Store().Load(res.ImagePath)
	require.NoError(t, err)
	require.True(t, rec.Home)
	require.Equal(t, []string{"90"}, rec.DominantAngles)
	require.Equal(t, filepath.Base(res.PositionsPath), rec.Positions)

	ok, err := exp.Store().Exists(decimal.NewFromInt(90))
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, reports)
}

func TestFixedSteps(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Steps = 100

	res, err := New(cfg, decimal.NewFromInt(1)).Simulate(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 100, res.Turtle.Steps())
	require.False(t, res.Home)
}

func TestStepLimitRefusal(t *testing.T) {
	cfg := smallConfig(t)
	cfg.StepLimit = 100

	_, err := New(cfg, decimal.NewFromInt(1)).Run(context.Background())
	require.ErrorIs(t, err, ErrStepLimit)
}

func TestSimulateZeroTheta(t *testing.T) {
	for _, theta := range []string{"0", "360"} {
		t.Run(theta, func(t *testing.T) {
			res, err := New(smallConfig(t), decimal.RequireFromString(theta)).Simulate(context.Background())
			require.NoError(t, err)
			require.True(t, res.Home)
			require.EqualValues(t, 0, res.Turtle.Steps())
		})
	}
}

func TestCaptionDrawn(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Width, cfg.Height = 600, 400
	cfg.Caption.Enabled = true
	cfg.Caption.FontSize = 12

	exp := New(cfg, decimal.NewFromInt(45))
	res, err := exp.Simulate(context.Background())
	require.NoError(t, err)
	require.NoError(t, exp.Draw(res))
	require.NotNil(t, res.Image)
	require.True(t, res.Scale.Sign() > 0)
}
