package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// White is drawn in place of entries that cannot be decoded.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Palette is a colour source for drawing: [Solid], [Tuple] or [Gradient].
type Palette interface {
	palette()
}

// Solid is a single colour given by an SVG colour name or a hex string.
type Solid string

// Tuple is a single colour given as an RGB triple.
type Tuple [3]uint8

// Gradient is an ordered list of colours sampled by fraction.
type Gradient []Entry

func (Solid) palette()    {}
func (Tuple) palette()    {}
func (Gradient) palette() {}

// Entry is one colour of a Gradient: [Hex] or [Normalized].
type Entry interface {
	RGBA() (color.RGBA, error)
}

// Hex is a "#RRGGBB" colour. Any other length is invalid.
type Hex string

// Normalized is an RGB triple with components in [0, 1].
type Normalized [3]float64

// RGBA decodes the hex string.
func (h Hex) RGBA() (color.RGBA, error) {
	if len(h) != 7 {
		return color.RGBA{}, fmt.Errorf("%w: %q: want #RRGGBB", ErrInvalidEntry, string(h))
	}
	c, err := colorful.Hex(string(h))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidEntry, string(h), err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// RGBA scales the components to [0, 255]. Values beyond the unit range
// are clamped rather than rejected.
func (n Normalized) RGBA() (color.RGBA, error) {
	var out [3]uint8
	for i, v := range n {
		if math.IsNaN(v) {
			return color.RGBA{}, fmt.Errorf("%w: NaN component", ErrInvalidEntry)
		}
		out[i] = clampByte(math.RoundToEven(v * 255))
	}
	return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, nil
}

// RGBA resolves the colour name or hex string.
func (s Solid) RGBA() (color.RGBA, error) {
	name := strings.TrimSpace(string(s))
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		return Hex(name).RGBA()
	}
	return color.RGBA{}, fmt.Errorf("%w: unknown colour %q", ErrInvalidEntry, name)
}

// RGBA returns the triple as an opaque colour.
func (t Tuple) RGBA() (color.RGBA, error) {
	return color.RGBA{R: t[0], G: t[1], B: t[2], A: 255}, nil
}

// FromColor converts an arbitrary colour to a gradient entry.
func FromColor(c color.Color) Hex {
	r, g, b, _ := color.NRGBAModel.Convert(c).RGBA()
	return Hex(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
