// Package caption renders text filled with a palette, for overlays on
// spiral images and as standalone title cards.
package caption

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/gg/text"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/palette"
)

const (
	DefaultFontSize = 60
	DefaultSpacing  = 0.1
)

var ErrEmptyText = errors.New("caption: empty text")

// Program is the turtle program that draws a spiral, used as caption text.
func Program(steps int64, theta, stepSize decimal.Decimal) string {
	return fmt.Sprintf("REPEAT %d [\n  RT # * %s\n  FD %s\n]", steps, theta.String(), stepSize.String())
}

// Caption holds the text and its layout. The zero value is not usable;
// use New.
type Caption struct {
	text     string
	lines    []string
	face     text.Face
	fontSize float64
	spacing  float64
	bold     bool
	width    int
	height   int
	style    background.Style
	canvas   palette.Palette
	logger   *slog.Logger
}

// Option configures a Caption.
type Option func(*Caption)

// WithFontSize sets the font size in points.
func WithFontSize(size float64) Option {
	return func(c *Caption) { c.fontSize = size }
}

// WithSpacing sets the gap between lines as a fraction of the line height.
func WithSpacing(spacing float64) Option {
	return func(c *Caption) { c.spacing = spacing }
}

// WithBold thickens the glyphs by drawing them four times with a small
// diagonal offset.
func WithBold(bold bool) Option {
	return func(c *Caption) { c.bold = bold }
}

// WithSize fixes the image size instead of deriving it from the text.
func WithSize(width, height int) Option {
	return func(c *Caption) { c.width, c.height = width, height }
}

// WithStyle sets how gradient palettes are laid out behind the glyphs.
func WithStyle(s background.Style) Option {
	return func(c *Caption) { c.style = s }
}

// WithCanvas sets the colour around the glyphs. nil keeps it transparent.
func WithCanvas(p palette.Palette) Option {
	return func(c *Caption) { c.canvas = p }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Caption) { c.logger = l }
}

// New lays out s in the Go Regular font.
func New(s string, opts ...Option) (*Caption, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyText
	}
	c := &Caption{
		text:     s,
		lines:    strings.Split(s, "\n"),
		fontSize: DefaultFontSize,
		spacing:  DefaultSpacing,
		style:    background.DefaultStyle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Logger()
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("caption: load font: %w", err)
	}
	c.face = source.Face(c.fontSize)
	return c, nil
}

// Text returns the caption text.
func (c *Caption) Text() string { return c.text }

// LineHeight is the distance between baselines in pixels.
func (c *Caption) LineHeight() int {
	_, h := text.Measure(strings.Join(c.lines, ""), c.face)
	return int(math.RoundToEven(h * (1 + c.spacing)))
}

// TextSize is the size of the laid out text without bold padding.
func (c *Caption) TextSize() (width, height int) {
	width = 1
	for _, line := range c.lines {
		w, _ := text.Measure(line, c.face)
		width = max(width, int(math.Ceil(w)))
	}
	return width, c.LineHeight() * len(c.lines)
}

// boldOffset is the glyph offset of the bold passes, at least one pixel.
func (c *Caption) boldOffset() int {
	return max(1, int(math.RoundToEven(c.fontSize/100*1.5)))
}

// Size is the final image size.
func (c *Caption) Size() (width, height int) {
	width, height = c.width, c.height
	if width <= 0 || height <= 0 {
		width, height = c.TextSize()
	}
	if c.bold {
		b := c.boldOffset()
		width += 2 * b
		height += 2 * b
	}
	return width, height
}

// Mask returns the glyph coverage of the caption, centred in Size.
func (c *Caption) Mask() *image.Alpha {
	width, height := c.Size()
	tw, th := c.TextSize()
	mask := image.NewAlpha(image.Rect(0, 0, width, height))

	x := math.RoundToEven(float64(width-tw) / 2)
	y := math.RoundToEven(float64(height-th)/2) + c.face.Metrics().Ascent

	offsets := [][2]float64{{0, 0}}
	if c.bold {
		b := float64(c.boldOffset())
		offsets = [][2]float64{{-b, -b}, {b, -b}, {-b, b}, {b, b}}
	}
	for _, line := range c.lines {
		for _, o := range offsets {
			text.Draw(mask, line, c.face, x+o[0], y+o[1], color.White)
		}
		y += float64(c.LineHeight())
	}
	return mask
}

// Render fills the glyphs with p and composites them over the canvas
// colour.
func (c *Caption) Render(p palette.Palette) (*image.RGBA, error) {
	width, height := c.Size()
	fill, err := background.Render(width, height, p, c.style, background.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	if c.canvas != nil {
		canvas, err := background.Render(width, height, c.canvas, c.style, background.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		draw.Draw(out, out.Bounds(), canvas, image.Point{}, draw.Src)
	}
	draw.DrawMask(out, out.Bounds(), fill, image.Point{}, c.Mask(), image.Point{}, draw.Over)

	c.logger.Debug("rendered caption", "width", width, "height", height, "lines", len(c.lines), "bold", c.bold)
	return out, nil
}
