package background

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/turtlefun/internal/palette"
)

// Default size of palette sample strips.
const (
	SampleWidth  = 2048
	SampleHeight = 500
)

// WriteSamples renders every flavour of base as vertical strips into dir,
// one <flavour>_turtle.png for the path list and one <flavour>_text.png for
// the caption list. It returns the written paths.
func WriteSamples(dir string, base palette.Gradient, width, height int, opts ...Option) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sample dir: %w", err)
	}

	style := Style{Mode: Linear, Direction: Vertical, Transform: Keep}
	var written []string
	for _, flavour := range palette.Flavours() {
		pair, err := palette.Reflow([]palette.Entry(base), flavour)
		if err != nil {
			return written, err
		}
		for suffix, list := range map[string][]palette.Entry{"turtle": pair.Path, "text": pair.Caption} {
			dc, err := NewContext(width, height, palette.Gradient(list), style, opts...)
			if err != nil {
				return written, fmt.Errorf("sample %s %s: %w", flavour, suffix, err)
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", flavour, suffix))
			err = dc.SavePNG(path)
			dc.Close()
			if err != nil {
				return written, fmt.Errorf("save sample: %w", err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}
