package caption

import (
	"image"
	"image/color"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/turtlefun/internal/palette"
)

func TestProgram(t *testing.T) {
	got := Program(720, decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.Equal(t, "REPEAT 720 [\n  RT # * 1\n  FD 100\n]", got)
}

func TestEmptyText(t *testing.T) {
	_, err := New(" \n ")
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestSize(t *testing.T) {
	c, err := New("HELLO\nWORLD!", WithFontSize(40))
	require.NoError(t, err)

	w, h := c.TextSize()
	require.Positive(t, w)
	require.Equal(t, 2*c.LineHeight(), h)

	sw, sh := c.Size()
	require.Equal(t, w, sw)
	require.Equal(t, h, sh)

	bold, err := New("HELLO\nWORLD!", WithFontSize(40), WithBold(true))
	require.NoError(t, err)
	bw, bh := bold.Size()
	require.Equal(t, w+2, bw)
	require.Equal(t, h+2, bh)

	fixed, err := New("HELLO", WithSize(300, 100))
	require.NoError(t, err)
	fw, fh := fixed.Size()
	require.Equal(t, 300, fw)
	require.Equal(t, 100, fh)
}

func coveredPixel(t *testing.T, mask *image.Alpha) image.Point {
	t.Helper()
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A == 255 {
				return image.Pt(x, y)
			}
		}
	}
	t.Fatal("mask has no fully covered pixel")
	return image.Point{}
}

func TestRenderSolidFill(t *testing.T) {
	c, err := New("TURTLE", WithFontSize(48))
	require.NoError(t, err)

	img, err := c.Render(palette.Solid("red"))
	require.NoError(t, err)

	pt := coveredPixel(t, c.Mask())
	require.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(pt.X, pt.Y))
	require.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestRenderOnCanvas(t *testing.T) {
	c, err := New("TURTLE", WithFontSize(48), WithBold(true), WithCanvas(palette.Solid("black")))
	require.NoError(t, err)

	img, err := c.Render(palette.Gradient{palette.Hex("#ff0000"), palette.Hex("#00ff00")})
	require.NoError(t, err)
	require.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))

	pt := coveredPixel(t, c.Mask())
	require.NotEqual(t, color.RGBA{A: 255}, img.RGBAAt(pt.X, pt.Y))
}

func TestRenderUnknownPalette(t *testing.T) {
	c, err := New("X")
	require.NoError(t, err)
	_, err = c.Render(palette.Gradient{})
	require.ErrorIs(t, err, palette.ErrUnknownPalette)
}
