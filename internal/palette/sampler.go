package palette

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/san-kum/turtlefun/internal/logging"
)

// Sampler maps fractions of a drawing to colours of one palette. Entries
// are decoded once at construction; a Sampler is read-only afterwards and
// safe for concurrent use.
type Sampler struct {
	colors []color.RGBA
	fixed  bool
}

// SamplerOption configures NewSampler.
type SamplerOption func(*samplerConfig)

type samplerConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives decoding failures.
func WithLogger(l *slog.Logger) SamplerOption {
	return func(c *samplerConfig) { c.logger = l }
}

// NewSampler decodes p. Undecodable colours are logged at critical level
// and replaced by White. A nil palette, an empty gradient or an unknown
// palette type yields ErrUnknownPalette.
func NewSampler(p Palette, opts ...SamplerOption) (*Sampler, error) {
	cfg := samplerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.Logger()
	}

	decode := func(index int, e Entry) color.RGBA {
		c, err := e.RGBA()
		if err != nil {
			cfg.logger.Log(context.Background(), logging.LevelCritical, "invalid palette entry, using white",
				"index", index, "error", err)
			return White
		}
		return c
	}

	switch p := p.(type) {
	case Solid:
		return &Sampler{colors: []color.RGBA{decode(0, p)}, fixed: true}, nil
	case Tuple:
		return &Sampler{colors: []color.RGBA{decode(0, p)}, fixed: true}, nil
	case Gradient:
		if len(p) == 0 {
			break
		}
		s := &Sampler{colors: make([]color.RGBA, len(p))}
		for i, e := range p {
			if e == nil {
				cfg.logger.Log(context.Background(), logging.LevelCritical, "invalid palette entry, using white", "index", i)
				s.colors[i] = White
				continue
			}
			s.colors[i] = decode(i, e)
		}
		return s, nil
	}

	cfg.logger.Log(context.Background(), logging.LevelCritical, "unknown palette type", "palette", fmt.Sprintf("%T", p))
	return nil, fmt.Errorf("%w: %T", ErrUnknownPalette, p)
}

// At returns the colour at fraction f. Single colours ignore f; gradients
// use the entry at round(len*f), rounding half to even, clamped into the
// list.
func (s *Sampler) At(f float64) color.RGBA {
	if s.fixed {
		return s.colors[0]
	}
	return s.colors[Index(len(s.colors), f)]
}

// Len is the number of distinct entries.
func (s *Sampler) Len() int { return len(s.colors) }

// Colors returns a copy of the decoded entries in order.
func (s *Sampler) Colors() []color.RGBA {
	out := make([]color.RGBA, len(s.colors))
	copy(out, s.colors)
	return out
}

// Index is the gradient index sampled at fraction f for a list of n
// entries. NaN samples the first entry.
func Index(n int, f float64) int {
	if n <= 0 {
		return 0
	}
	idx := math.RoundToEven(float64(n) * f)
	switch {
	case math.IsNaN(idx) || idx < 0:
		return 0
	case idx > float64(n-1):
		return n - 1
	}
	return int(idx)
}
