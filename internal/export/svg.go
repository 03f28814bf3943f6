// Package export writes recorded spiral paths in vector formats.
package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/render"
)

// SVG configures an SVG export. The zero value draws a white line on a
// black render.DefaultWidth x render.DefaultHeight canvas, autoscaled.
type SVG struct {
	Width, Height int
	Background    palette.Palette
	Style         background.Style
	Line          palette.Palette
	LineWidth     float64

	// Scale overrides autoscaling when non-nil.
	Scale *decimal.Decimal
}

func (s SVG) withDefaults() SVG {
	if s.Width <= 0 || s.Height <= 0 {
		s.Width, s.Height = render.DefaultWidth, render.DefaultHeight
	}
	if s.Line == nil {
		s.Line = palette.Solid("white")
	}
	if s.LineWidth <= 0 {
		s.LineWidth = render.DefaultLineWidth
	}
	if s.Style == (background.Style{}) {
		s.Style = background.DefaultStyle()
	}
	if s.Style.Transform == "" {
		s.Style.Transform = background.Keep
	}
	return s
}

// Write encodes p as an SVG document. Colour runs of the line palette
// become one polyline each; a gradient background becomes an SVG gradient.
func (s SVG) Write(w io.Writer, p render.Path) error {
	if err := p.Verify(); err != nil {
		return err
	}
	s = s.withDefaults()

	line, err := palette.NewSampler(s.Line)
	if err != nil {
		return err
	}

	scale := render.Autoscale(p.Bounds(), s.Width, s.Height)
	if s.Scale != nil {
		scale = *s.Scale
	}
	xOff := float64(s.Width) / 2
	yOff := float64(s.Height) / 2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.Width, s.Height, s.Width, s.Height)

	if err := s.writeBackground(bw); err != nil {
		return err
	}

	fmt.Fprintf(bw, `<g fill="none" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round">
`, num(s.LineWidth))

	xs, ys := p.Positions()
	steps := p.Steps()
	point := func(i int) string {
		x := xs[i].Mul(scale).InexactFloat64() + xOff
		y := ys[i].Mul(scale).InexactFloat64() + yOff
		return num(x) + "," + num(y)
	}
	fraction := func(i int) float64 {
		if steps == 0 {
			return 0
		}
		return float64(i) / float64(steps)
	}

	polyline := func(from, to int, c color.RGBA) {
		if to <= from {
			return
		}
		pts := make([]string, 0, to-from+1)
		for i := from; i <= to; i++ {
			pts = append(pts, point(i))
		}
		fmt.Fprintf(bw, `<polyline stroke="%s" points="%s"/>
`, hex(c), strings.Join(pts, " "))
	}

	runStart := 0
	var runColor color.RGBA
	for i := 0; i < len(xs)-1; i++ {
		c := line.At(fraction(i))
		if i == 0 {
			runColor = c
		}
		if c != runColor {
			polyline(runStart, i, runColor)
			runStart, runColor = i, c
		}
	}
	polyline(runStart, len(xs)-1, runColor)

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// WriteFile writes the SVG document to path.
func (s SVG) WriteFile(path string, p render.Path) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.Write(f, p); err != nil {
		return err
	}
	return f.Close()
}

func (s SVG) writeBackground(w *bufio.Writer) error {
	switch bg := s.Background.(type) {
	case nil:
		return nil
	case palette.Gradient:
		if err := s.Style.Validate(); err != nil {
			return err
		}
		sampler, err := palette.NewSampler(bg)
		if err != nil {
			return err
		}
		s.writeGradient(w, sampler.Colors())
		w.WriteString(`<rect width="100%" height="100%" fill="url(#background)"/>` + "\n")
		return nil
	default:
		sampler, err := palette.NewSampler(bg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, `<rect width="100%%" height="100%%" fill="%s"/>
`, hex(sampler.At(0)))
		return nil
	}
}

func (s SVG) writeGradient(w *bufio.Writer, colors []color.RGBA) {
	stops := make([]color.RGBA, len(colors))
	copy(stops, colors)
	if s.Style.Transform == background.Mirror || s.Style.Transform == background.FlipMirror {
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i], stops[j] = stops[j], stops[i]
		}
	}

	var openTag, closeTag string
	switch {
	case s.Style.Mode == background.Circular:
		openTag, closeTag = `<radialGradient id="background" cx="0.5" cy="0.5" r="0.75">`, "</radialGradient>"
	case s.Style.Direction == background.Vertical:
		openTag, closeTag = `<linearGradient id="background" x1="0" y1="0" x2="1" y2="0">`, "</linearGradient>"
	case s.Style.Direction == background.Horizontal:
		openTag, closeTag = `<linearGradient id="background" x1="0" y1="0" x2="0" y2="1">`, "</linearGradient>"
	default:
		openTag, closeTag = `<linearGradient id="background" x1="0" y1="0" x2="1" y2="1">`, "</linearGradient>"
	}

	w.WriteString("<defs>" + openTag + "\n")
	last := max(len(stops)-1, 1)
	for i, c := range stops {
		fmt.Fprintf(w, `<stop offset="%s" stop-color="%s"/>
`, num(float64(i)/float64(last)), hex(c))
	}
	w.WriteString(closeTag + "</defs>\n")
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
