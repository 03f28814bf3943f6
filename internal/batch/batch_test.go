package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/config"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeFile(t, "preset: square\nthetas: [1, 179.7444, \"0.75\"]\n"))
	require.NoError(t, err)
	require.Equal(t, "square", f.Preset)
	require.True(t, f.Skip())
	require.Len(t, f.Thetas, 3)
	require.Equal(t, "179.7444", f.Thetas[1].String())
	require.Equal(t, "0.75", f.Thetas[2].String())

	f, err = Load(writeFile(t, "skip_existing: false\nthetas: [2]\n"))
	require.NoError(t, err)
	require.False(t, f.Skip())
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(writeFile(t, "preset: fine\n"))
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestRunSkipsExisting(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 64, 64
	cfg.OutDir = filepath.Join(t.TempDir(), "out")
	cfg.StepLimit = 500

	f, err := Load(writeFile(t, "thetas: [90, 45, 1]\n"))
	require.NoError(t, err)

	r := NewRunner(cfg)
	sum, err := r.Run(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, sum.Done, 2)
	require.Len(t, sum.Refused, 1)
	require.Equal(t, "1", sum.Refused[0].String())
	require.Empty(t, sum.Skipped)

	sum, err = r.Run(context.Background(), f)
	require.NoError(t, err)
	require.Empty(t, sum.Done)
	require.Len(t, sum.Skipped, 2)
	require.Equal(t, 3, sum.Total())
}

func TestRunCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &File{Thetas: []decimal.Decimal{decimal.NewFromInt(1)}}
	sum, err := NewRunner(cfg).Run(ctx, f)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sum.Total())
}

func TestRunParallelKeepsOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 48, 48
	cfg.OutDir = filepath.Join(t.TempDir(), "out")
	cfg.StepLimit = 500

	f, err := Load(writeFile(t, "thetas: [90, 45, 1, 2]\n"))
	require.NoError(t, err)

	sum, err := NewRunner(cfg, WithWorkers(3)).Run(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, sum.Done, 3)
	require.Equal(t, "90", sum.Done[0].Theta.String())
	require.Equal(t, "45", sum.Done[1].Theta.String())
	require.Equal(t, "2", sum.Done[2].Theta.String())
	require.Len(t, sum.Refused, 1)
	require.Equal(t, "1", sum.Refused[0].String())
}
