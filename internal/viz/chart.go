package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"
)

// Distances is the distance from the origin of every recorded position.
func Distances(xs, ys []decimal.Decimal) []float64 {
	out := make([]float64, min(len(xs), len(ys)))
	for i := range out {
		out[i] = math.Hypot(xs[i].InexactFloat64(), ys[i].InexactFloat64())
	}
	return out
}

// Downsample keeps at most n values, taking the largest of each bucket
// so that peaks survive.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(values) / n
		hi := (i + 1) * len(values) / n
		peak := values[lo]
		for _, v := range values[lo+1 : hi] {
			peak = max(peak, v)
		}
		out[i] = peak
	}
	return out
}

// DistanceChart plots distances as an ASCII line chart of the given width
// and height. Fewer than two values give an empty string.
func DistanceChart(distances []float64, width, height int, caption string) string {
	if len(distances) < 2 {
		return ""
	}
	return asciigraph.Plot(Downsample(distances, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
