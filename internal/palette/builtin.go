package palette

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// builtinSize is the number of entries of every built-in gradient.
const builtinSize = 256

var builtins = sync.OnceValue(func() map[string]Gradient {
	return map[string]Gradient{
		"cyclic_hue":    hueWheel(0.45, 0.70),
		"cyclic_hue_dk": hueWheel(0.35, 0.45),
		"cyclic_grey":   greyWave(0.15, 0.85),
		"cyclic_mrybm":  keyCycle("#d23cc8", "#e8413c", "#f0c828", "#3c64e6"),
		"cyclic_mygbm":  keyCycle("#c83cc8", "#f0dc3c", "#3cbe64", "#3c5ad2"),
		"cyclic_wrkbw":  keyCycle("#f0f0f0", "#c8281e", "#1e1e1e", "#2850c8"),
		"cyclic_wrwbw":  keyCycle("#f0f0f0", "#d2321e", "#f0f0f0", "#1e46d2"),
		"cyclic_ymcgy":  keyCycle("#f0d232", "#d23cb4", "#32c8dc", "#46b446"),
	}
})

// Names lists the built-in gradients, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins()))
	for name := range builtins() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a copy of the named built-in gradient.
func Builtin(name string) (Gradient, error) {
	g, ok := builtins()[name]
	if !ok {
		return nil, fmt.Errorf("%w: no built-in palette %q", ErrUnknownPalette, name)
	}
	return slices.Clone(g), nil
}

// Named reflows a built-in gradient with the given flavour.
func Named(name string, flavour Flavour) (Pair[Entry], error) {
	g, err := Builtin(name)
	if err != nil {
		return Pair[Entry]{}, err
	}
	return Reflow([]Entry(g), flavour)
}

func normalized(c colorful.Color) Normalized {
	c = c.Clamped()
	return Normalized{c.R, c.G, c.B}
}

// hueWheel turns once around the HCL hue circle at fixed chroma and
// luminance.
func hueWheel(chroma, luminance float64) Gradient {
	g := make(Gradient, builtinSize)
	for i := range g {
		h := 360 * float64(i) / builtinSize
		g[i] = normalized(colorful.Hcl(h, chroma, luminance))
	}
	return g
}

// greyWave rises from lo to hi luminance and back.
func greyWave(lo, hi float64) Gradient {
	g := make(Gradient, builtinSize)
	for i := range g {
		t := (1 - math.Cos(2*math.Pi*float64(i)/builtinSize)) / 2
		g[i] = normalized(colorful.Hcl(0, 0, lo+(hi-lo)*t))
	}
	return g
}

// keyCycle blends through the key colours in Lab space and back to the
// first one.
func keyCycle(keys ...string) Gradient {
	cols := make([]colorful.Color, len(keys))
	for i, k := range keys {
		c, err := colorful.Hex(k)
		if err != nil {
			panic(fmt.Sprintf("palette: bad key colour %q: %v", k, err))
		}
		cols[i] = c
	}

	g := make(Gradient, builtinSize)
	for i := range g {
		pos := float64(i) / builtinSize * float64(len(cols))
		seg := int(pos)
		from, to := cols[seg], cols[(seg+1)%len(cols)]
		g[i] = normalized(from.BlendLab(to, pos-float64(seg)))
	}
	return g
}
