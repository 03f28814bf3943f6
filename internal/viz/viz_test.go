package viz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/turtle"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	require.Equal(t, "⠀⠀\n", c.String())

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(10, 10)
	c.Set(-1, 0)
	require.True(t, c.IsSet(0, 0))
	require.True(t, c.IsSet(3, 3))
	require.False(t, c.IsSet(1, 0))
	require.Equal(t, rune(0x2801), c.Grid[0][0])
	require.Equal(t, rune(0x2880), c.Grid[0][1])

	c.Clear()
	require.False(t, c.IsSet(0, 0))
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 2, 7, 2)
	for x := 0; x < 8; x++ {
		require.True(t, c.IsSet(x, 2), "x=%d", x)
		require.False(t, c.IsSet(x, 1), "x=%d", x)
	}
}

func TestCanvasPlot(t *testing.T) {
	tr := turtle.New(decimal.NewFromInt(90))
	ok, err := tr.RunToOrigin(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	c := NewCanvas(20, 10)
	require.NoError(t, c.Plot(tr))
	require.True(t, c.IsSet(20, 20), "origin is drawn")

	var set int
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if c.IsSet(x, y) {
				set++
			}
		}
	}
	require.Greater(t, set, 20)
}

func TestDistancesAndDownsample(t *testing.T) {
	d := Distances(
		[]decimal.Decimal{decimal.Zero, decimal.NewFromInt(3)},
		[]decimal.Decimal{decimal.Zero, decimal.NewFromInt(4)},
	)
	require.Equal(t, []float64{0, 5}, d)

	require.Equal(t, []float64{2, 4, 6}, Downsample([]float64{1, 2, 3, 4, 5, 6}, 3))
	require.Equal(t, []float64{1, 2}, Downsample([]float64{1, 2}, 5))
}

func TestDistanceChart(t *testing.T) {
	require.Empty(t, DistanceChart([]float64{1}, 10, 3, ""))
	chart := DistanceChart([]float64{0, 1, 2, 1, 0}, 10, 3, "distance")
	require.Contains(t, chart, "distance")
	require.Greater(t, strings.Count(chart, "\n"), 2)
}

func TestThemes(t *testing.T) {
	require.Equal(t, ThemeRetroGreen, ThemeCyberpunk.Next())
	require.Equal(t, ThemeCyberpunk, ThemeSunset.Next())
	require.Equal(t, ThemeCyberpunk, GetTheme("missing"))
	require.Len(t, ThemeNames(), len(Themes))
}

func TestSummary(t *testing.T) {
	out := NewStyles(ThemeMinimal).Summary("run", []Row{{"theta", "1"}, {"steps", 720}})
	require.Contains(t, out, "run")
	require.Contains(t, out, "theta")
	require.Contains(t, out, "720")
	require.NotEmpty(t, GradientText("turtle", ThemeSunset.Primary, ThemeSunset.Secondary))
	require.Empty(t, GradientText("", ThemeSunset.Primary, ThemeSunset.Secondary))
}

func TestWatchUpdate(t *testing.T) {
	progress := make(chan turtle.Progress)
	done := make(chan DoneMsg)
	var m tea.Model = NewWatch("theta 1", progress, done, nil, ThemeMinimal)

	m, cmd := m.Update(progressMsg(turtle.Progress{Step: 50, Target: 100, X: 3, Y: 4}))
	require.NotNil(t, cmd)
	w := m.(Watch)
	require.EqualValues(t, 50, w.latest.Step)
	require.Equal(t, []float64{5}, w.distances)
	require.Contains(t, w.View(), "50 / 100")

	m, cmd = m.Update(DoneMsg{Err: errors.New("boom")})
	require.NotNil(t, cmd)
	w = m.(Watch)
	require.NotNil(t, w.Result())
	require.False(t, w.Stopped())
	require.Contains(t, w.View(), "failed: boom")
}

func TestWatchQuitCancels(t *testing.T) {
	cancelled := false
	var m tea.Model = NewWatch("theta 1", nil, nil, func() { cancelled = true }, ThemeMinimal)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.True(t, cancelled)
	require.True(t, m.(Watch).Stopped())
}
