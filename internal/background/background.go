// Package background paints the canvas a spiral is drawn on: transparent,
// a single colour, or a palette laid out in lines or circles.
package background

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/palette"
)

// Mode selects how gradient palettes are laid out.
type Mode string

const (
	Linear   Mode = "linear"
	Circular Mode = "circular"
)

// Direction is the main drawing direction of a gradient.
type Direction string

const (
	Diagonal   Direction = "diagonal"
	Vertical   Direction = "vertical"
	Horizontal Direction = "horizontal"
	Center     Direction = "center"
)

// Transform is applied after the gradient is laid out.
type Transform string

const (
	Keep       Transform = "keep"
	Mirror     Transform = "mirror"
	Flip       Transform = "flip"
	FlipMirror Transform = "flipmirror"
)

var (
	ErrInvalidStyle = errors.New("background: invalid style")
	ErrInvalidSize  = errors.New("background: invalid size")
)

// Style configures gradient backgrounds. Single colours ignore it.
type Style struct {
	Mode      Mode      `yaml:"mode"`
	Direction Direction `yaml:"direction"`
	Transform Transform `yaml:"transform"`
}

// DefaultStyle lays gradients out in diagonal lines.
func DefaultStyle() Style {
	return Style{Mode: Linear, Direction: Diagonal, Transform: Keep}
}

// Validate checks every field. Linear mode has no center direction.
func (s Style) Validate() error {
	switch s.Mode {
	case Linear, Circular:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidStyle, s.Mode)
	}
	switch s.Direction {
	case Diagonal, Vertical, Horizontal:
	case Center:
		if s.Mode == Linear {
			return fmt.Errorf("%w: linear mode does not support direction %q", ErrInvalidStyle, s.Direction)
		}
	default:
		return fmt.Errorf("%w: direction %q", ErrInvalidStyle, s.Direction)
	}
	switch s.Transform {
	case Keep, Mirror, Flip, FlipMirror:
	default:
		return fmt.Errorf("%w: transform %q", ErrInvalidStyle, s.Transform)
	}
	return nil
}

// Option configures Render.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Render produces a width x height background. A nil palette gives a
// transparent image.
func Render(width, height int, p palette.Palette, style Style, opts ...Option) (image.Image, error) {
	dc, err := NewContext(width, height, p, style, opts...)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// NewContext returns a drawing context already painted with the
// background, ready for further drawing.
func NewContext(width, height int, p palette.Palette, style Style, opts ...Option) (*gg.Context, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Logger()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	dc := gg.NewContext(width, height)
	if p == nil {
		dc.Clear()
		o.logger.Debug("created transparent background", "width", width, "height", height)
		return dc, nil
	}

	sampler, err := palette.NewSampler(p, palette.WithLogger(o.logger))
	if err != nil {
		dc.Close()
		return nil, err
	}

	if _, ok := p.(palette.Gradient); !ok {
		dc.ClearWithColor(gg.FromColor(sampler.At(0)))
		o.logger.Debug("created single colour background", "colour", sampler.At(0))
		return dc, nil
	}

	if err := style.Validate(); err != nil {
		dc.Close()
		return nil, err
	}
	o.logger.Debug("drawing gradient background",
		"mode", style.Mode, "direction", style.Direction, "transform", style.Transform)

	frac := fraction(width, height, style)
	for y := range height {
		sy := y
		if style.Transform == Flip || style.Transform == FlipMirror {
			sy = height - 1 - y
		}
		for x := range width {
			sx := x
			if style.Transform == Mirror || style.Transform == FlipMirror {
				sx = width - 1 - x
			}
			f, ok := frac(float64(sx), float64(sy))
			if !ok {
				dc.SetPixel(x, y, gg.Black)
				continue
			}
			dc.SetPixel(x, y, gg.FromColor(sampler.At(f)))
		}
	}
	return dc, nil
}

// fractionFunc maps a pixel to its palette fraction. false leaves the
// pixel black.
type fractionFunc func(x, y float64) (float64, bool)

func fraction(width, height int, style Style) fractionFunc {
	w, h := float64(width), float64(height)

	if style.Mode == Linear {
		switch style.Direction {
		case Vertical:
			return func(x, _ float64) (float64, bool) { return x / (w + 1), true }
		case Horizontal:
			return func(_, y float64) (float64, bool) { return y / (h + 1), true }
		default:
			// Lines run from (step-offset-2, h+10) up to (step, -10).
			offset := math.Min(w, h)
			steps := offset + w + 4
			return func(x, y float64) (float64, bool) {
				step := math.Round(x + (offset+2)*(y+10)/(h+20))
				return step / steps, true
			}
		}
	}

	cx, cy := math.RoundToEven(w/2), math.RoundToEven(h/2)
	switch style.Direction {
	case Horizontal:
		cy = h + 10
	case Vertical:
		cx = w + 10
	case Diagonal:
		cx, cy = w+10, h+10
	}
	start := math.Floor(math.Hypot(cx-math.Min(cx, w), cy-math.Min(cy, h)))
	end := math.Floor(math.Hypot(cx, cy) + 2)
	rings := end - start

	return func(x, y float64) (float64, bool) {
		r := math.Ceil(math.Hypot(x-cx, y-cy)) - 1 - start
		if r < 0 {
			r = 0
		}
		if r >= rings {
			return 0, false
		}
		return r / rings, true
	}
}
