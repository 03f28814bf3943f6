// Package render rasterizes a recorded spiral path.
//
// The path is scaled to fit the canvas around the offset point (the canvas
// centre by default) and drawn as connected segments. Segment i is coloured
// by the line palette at fraction i/steps. Consecutive segments of the same
// colour are stroked as one polyline, and every segment end gets a small
// dot of its colour. A run's dots are drawn after its stroke, so a dot may
// cover the start of the next segment in the same run.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/caption"
	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/turtle"
)

const (
	DefaultWidth     = 2560
	DefaultHeight    = 1440
	DefaultLineWidth = 3

	progressEvery = 100_000
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	markerColor = color.RGBA{R: 255, A: 255}
)

// Path is a recorded spiral. *turtle.Turtle implements it.
type Path interface {
	Verify() error
	Positions() (xs, ys []decimal.Decimal)
	Steps() int64
	Bounds() turtle.Bounds
}

// Result is a rendered image and the scale the path was drawn at.
type Result struct {
	Image image.Image
	Scale decimal.Decimal

	// Drawn is false when the line palette could not be used and only the
	// background was produced.
	Drawn bool
}

// Renderer draws paths with a fixed configuration. It holds no per-render
// state and may be reused.
type Renderer struct {
	width, height    int
	xOffset, yOffset float64
	offsetSet        bool
	background       palette.Palette
	style            background.Style
	line             palette.Palette
	lineWidth        float64
	markOrigin       bool
	scale            *decimal.Decimal

	caption     *caption.Caption
	captionFill palette.Palette
	captionAt   image.Point

	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) { r.width, r.height = width, height }
}

// WithOffset places the path origin at (x, y) instead of the canvas centre.
func WithOffset(x, y float64) Option {
	return func(r *Renderer) { r.xOffset, r.yOffset, r.offsetSet = x, y, true }
}

// WithBackground sets the background palette. nil is transparent.
func WithBackground(p palette.Palette, style background.Style) Option {
	return func(r *Renderer) { r.background, r.style = p, style }
}

// WithLine sets the line palette.
func WithLine(p palette.Palette) Option {
	return func(r *Renderer) { r.line = p }
}

// WithLineWidth sets the stroke width in pixels.
func WithLineWidth(w float64) Option {
	return func(r *Renderer) { r.lineWidth = w }
}

// WithOriginMarker draws a red dot at the path origin on top of the path.
func WithOriginMarker(mark bool) Option {
	return func(r *Renderer) { r.markOrigin = mark }
}

// WithScale disables autoscaling and draws at a fixed scale.
func WithScale(scale decimal.Decimal) Option {
	return func(r *Renderer) { r.scale = &scale }
}

// WithCaption composites c, filled with p, with its top-left corner at at.
func WithCaption(c *caption.Caption, p palette.Palette, at image.Point) Option {
	return func(r *Renderer) { r.caption, r.captionFill, r.captionAt = c, p, at }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New returns a renderer with a white line on black by default.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: palette.Solid("black"),
		style:      background.DefaultStyle(),
		line:       palette.Solid("white"),
		lineWidth:  DefaultLineWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.offsetSet {
		r.xOffset = math.RoundToEven(float64(r.width) / 2)
		r.yOffset = math.RoundToEven(float64(r.height) / 2)
	}
	if r.logger == nil {
		r.logger = logging.Logger()
	}
	return r
}

// Size returns the canvas size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Autoscale is the largest scale that keeps b inside a width x height
// canvas centred on the origin. Each axis is fitted on its own, an axis
// without extent counts as scale 1, and the smaller scale wins.
func Autoscale(b turtle.Bounds, width, height int) decimal.Decimal {
	fit := func(lo, hi decimal.Decimal, size int) decimal.Decimal {
		extent := decimal.Max(lo.Abs(), hi.Abs())
		if extent.IsZero() {
			return one
		}
		return decimal.NewFromInt(int64(size)).Div(two).Div(extent)
	}
	return decimal.Min(fit(b.XMin, b.XMax, width), fit(b.YMin, b.YMax, height))
}

// Render draws p. A corrupt history aborts the render with the error from
// Verify. Rendering the same path twice gives identical pixels.
func (r *Renderer) Render(p Path) (*Result, error) {
	if err := p.Verify(); err != nil {
		return nil, err
	}
	start := time.Now()
	r.logger.Debug("drawing new image", "width", r.width, "height", r.height, "steps", p.Steps())

	dc, err := background.NewContext(r.width, r.height, r.background, r.style, background.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	defer dc.Close()

	var scale decimal.Decimal
	if r.scale != nil {
		scale = *r.scale
	} else {
		scale = Autoscale(p.Bounds(), r.width, r.height)
	}
	r.logger.Debug("scaling factor determined for plotting", "scale", scale)

	res := &Result{Scale: scale}
	sampler, err := palette.NewSampler(r.line, palette.WithLogger(r.logger))
	if err == nil {
		if err := r.drawPath(dc, p, scale, sampler, start); err != nil {
			return nil, err
		}
		res.Drawn = true
	}

	if r.markOrigin {
		dc.SetColor(markerColor)
		dc.DrawCircle(r.xOffset, r.yOffset, 2*r.lineWidth)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}

	img := dc.Image()
	if r.caption != nil {
		img, err = r.composeCaption(img)
		if err != nil {
			return nil, err
		}
	}
	res.Image = img

	r.logger.Debug("image drawn", "duration", time.Since(start), "drawn", res.Drawn)
	return res, nil
}

// pen is the part of *gg.Context used to draw the path.
type pen interface {
	SetColor(c color.Color)
	SetLineWidth(w float64)
	SetLineCap(c gg.LineCap)
	SetLineJoin(j gg.LineJoin)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawCircle(x, y, r float64)
	Fill() error
	Stroke() error
}

func (r *Renderer) drawPath(dc pen, p Path, scale decimal.Decimal, sampler *palette.Sampler, start time.Time) error {
	xs, ys := p.Positions()
	pts := make([]gg.Point, len(xs))
	for i := range xs {
		pts[i] = gg.Pt(
			xs[i].Mul(scale).InexactFloat64()+r.xOffset,
			ys[i].Mul(scale).InexactFloat64()+r.yOffset,
		)
	}

	steps := p.Steps()
	fraction := func(i int) float64 {
		if steps == 0 {
			return 0
		}
		return float64(i) / float64(steps)
	}

	dc.SetLineWidth(r.lineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dotRadius := (r.lineWidth - 2) / 2

	if dotRadius > 0 {
		dc.SetColor(sampler.At(0))
		dc.DrawCircle(pts[0].X, pts[0].Y, dotRadius)
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	// flush strokes segments [from, to) in one colour.
	flush := func(from, to int, c color.RGBA) error {
		if to <= from {
			return nil
		}
		dc.SetColor(c)
		dc.MoveTo(pts[from].X, pts[from].Y)
		for i := from + 1; i <= to; i++ {
			dc.LineTo(pts[i].X, pts[i].Y)
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("render: stroke segments %d-%d: %w", from, to, err)
		}

		if dotRadius > 0 {
			for i := from + 1; i <= to; i++ {
				dc.DrawCircle(pts[i].X, pts[i].Y, dotRadius)
			}
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("render: fill joints %d-%d: %w", from, to, err)
			}
		}
		return nil
	}

	runStart := 0
	var runColor color.RGBA
	for i := 0; i < len(pts)-1; i++ {
		c := sampler.At(fraction(i))
		if i == 0 {
			runColor = c
		}
		if c != runColor {
			if err := flush(runStart, i, runColor); err != nil {
				return err
			}
			runStart, runColor = i, c
		}
		if i > 0 && i%progressEvery == 0 {
			r.reportProgress(i, len(pts), start)
		}
	}
	return flush(runStart, len(pts)-1, runColor)
}

func (r *Renderer) reportProgress(i, total int, start time.Time) {
	rate := float64(i) / time.Since(start).Seconds()
	if rate <= 0 || math.IsInf(rate, 0) {
		return
	}
	remaining := time.Duration(float64(total-i) / rate * float64(time.Second))
	r.logger.Debug("drawing step, remaining time estimate",
		"step", i, "total", total, "remaining", remaining)
}

func (r *Renderer) composeCaption(base image.Image) (image.Image, error) {
	capImg, err := r.caption.Render(r.captionFill)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, image.Point{}, draw.Src)
	rect := capImg.Bounds().Add(r.captionAt)
	draw.Draw(out, rect, capImg, image.Point{}, draw.Over)
	return out, nil
}
