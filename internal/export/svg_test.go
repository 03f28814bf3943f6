package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/turtle"
)

func straight(t *testing.T, steps int64) *turtle.Turtle {
	t.Helper()
	tr := turtle.New(decimal.Zero)
	ok, err := tr.Run(context.Background(), steps)
	require.NoError(t, err)
	require.True(t, ok)
	return tr
}

func fixedScale(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestWriteSolidLine(t *testing.T) {
	var buf bytes.Buffer
	svg := SVG{Width: 200, Height: 100, Background: palette.Solid("black"), Scale: fixedScale("0.1")}
	require.NoError(t, svg.Write(&buf, straight(t, 3)))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, `<?xml version="1.0"`))
	require.Contains(t, out, `width="200" height="100"`)
	require.Contains(t, out, `<rect width="100%" height="100%" fill="#000000"/>`)
	require.Contains(t, out, `<polyline stroke="#ffffff" points="100,50 110,50 120,50 130,50"/>`)
	require.Equal(t, 1, strings.Count(out, "<polyline"))
	require.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteGradientLineSplitsRuns(t *testing.T) {
	var buf bytes.Buffer
	svg := SVG{
		Width: 200, Height: 100,
		Line:  palette.Gradient{palette.Hex("#ff0000"), palette.Hex("#0000ff")},
		Scale: fixedScale("0.1"),
	}
	require.NoError(t, svg.Write(&buf, straight(t, 3)))

	out := buf.String()
	require.NotContains(t, out, "<rect")
	require.Contains(t, out, `<polyline stroke="#ff0000" points="100,50 110,50"/>`)
	require.Contains(t, out, `<polyline stroke="#0000ff" points="110,50 120,50 130,50"/>`)
}

func TestWriteGradientBackground(t *testing.T) {
	tests := []struct {
		style background.Style
		want  string
	}{
		{background.DefaultStyle(), `<linearGradient id="background" x1="0" y1="0" x2="1" y2="1">`},
		{background.Style{Mode: background.Linear, Direction: background.Vertical}, `x2="1" y2="0"`},
		{background.Style{Mode: background.Linear, Direction: background.Horizontal}, `x2="0" y2="1"`},
		{background.Style{Mode: background.Circular, Direction: background.Center}, `<radialGradient id="background"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.style.Mode)+"/"+string(tt.style.Direction), func(t *testing.T) {
			var buf bytes.Buffer
			svg := SVG{
				Width: 50, Height: 50,
				Background: palette.Gradient{palette.Hex("#000000"), palette.Hex("#ffffff")},
				Style:      tt.style,
			}
			require.NoError(t, svg.Write(&buf, straight(t, 2)))
			out := buf.String()
			require.Contains(t, out, tt.want)
			require.Contains(t, out, `<stop offset="0" stop-color="#000000"/>`)
			require.Contains(t, out, `<stop offset="1" stop-color="#ffffff"/>`)
			require.Contains(t, out, `fill="url(#background)"`)
		})
	}
}

func TestWriteRejectsInvalidStyle(t *testing.T) {
	svg := SVG{
		Background: palette.Gradient{palette.Hex("#000000")},
		Style:      background.Style{Mode: background.Linear, Direction: background.Center},
	}
	err := svg.Write(&bytes.Buffer{}, straight(t, 1))
	require.ErrorIs(t, err, background.ErrInvalidStyle)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spiral.svg")
	require.NoError(t, SVG{}.WriteFile(path, straight(t, 5)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<polyline")
}
