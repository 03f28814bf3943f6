package palette

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is the configuration form of a palette. In YAML it is one of
//
//	white                      # colour name or quoted "#RRGGBB"
//	[255, 128, 0]              # RGB tuple
//	["#ff0000", [0, 0.5, 1]]   # gradient of hex and normalized entries
//	{name: cyclic_hue, flavour: normal, caption: false}
//
// The last form selects a built-in gradient reflowed by flavour; caption
// picks the caption list instead of the path list. An empty Spec has no
// palette.
type Spec struct {
	Palette Palette

	Name    string
	Flavour Flavour
	Caption bool
}

// Empty reports whether no palette is set.
func (s Spec) Empty() bool { return s.Palette == nil }

// Parse reads a palette from a command-line value: a built-in name with an
// optional ":flavour" suffix, a YAML list or mapping, or a single colour.
func Parse(value string) (Spec, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "" || value == "none":
		return Spec{}, nil
	case strings.HasPrefix(value, "[") || strings.HasPrefix(value, "{"):
		var s Spec
		if err := yaml.Unmarshal([]byte(value), &s); err != nil {
			return Spec{}, err
		}
		return s, nil
	}

	name, flavour, _ := strings.Cut(value, ":")
	if slices.Contains(Names(), name) {
		return named(name, flavour, false)
	}
	return Spec{Palette: Solid(value)}, nil
}

func named(name, flavour string, caption bool) (Spec, error) {
	f, err := ParseFlavour(flavour)
	if err != nil {
		return Spec{}, err
	}
	pair, err := Named(name, f)
	if err != nil {
		return Spec{}, err
	}
	s := Spec{Name: name, Flavour: f, Caption: caption, Palette: Gradient(pair.Path)}
	if caption {
		s.Palette = Gradient(pair.Caption)
	}
	return s, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" || node.Value == "none" {
			*s = Spec{}
			return nil
		}
		*s = Spec{Palette: Solid(node.Value)}
		return nil

	case yaml.SequenceNode:
		if isTuple(node) {
			t, err := decodeTuple(node)
			if err != nil {
				return err
			}
			*s = Spec{Palette: t}
			return nil
		}
		g := make(Gradient, 0, len(node.Content))
		for i, child := range node.Content {
			e, err := decodeEntry(child)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			g = append(g, e)
		}
		*s = Spec{Palette: g}
		return nil

	case yaml.MappingNode:
		var ref struct {
			Name    string `yaml:"name"`
			Flavour string `yaml:"flavour"`
			Caption bool   `yaml:"caption"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		spec, err := named(ref.Name, ref.Flavour, ref.Caption)
		if err != nil {
			return err
		}
		*s = spec
		return nil
	}
	return fmt.Errorf("%w: line %d", ErrUnknownPalette, node.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (s Spec) MarshalYAML() (any, error) {
	if s.Name != "" {
		return map[string]any{"name": s.Name, "flavour": string(s.Flavour), "caption": s.Caption}, nil
	}
	switch p := s.Palette.(type) {
	case nil:
		return nil, nil
	case Solid:
		return string(p), nil
	case Tuple:
		return []int{int(p[0]), int(p[1]), int(p[2])}, nil
	case Gradient:
		out := make([]any, len(p))
		for i, e := range p {
			switch e := e.(type) {
			case Hex:
				out[i] = string(e)
			case Normalized:
				out[i] = []float64{e[0], e[1], e[2]}
			default:
				return nil, fmt.Errorf("%w: entry %d of type %T", ErrInvalidEntry, i, e)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownPalette, s.Palette)
}

func isTuple(node *yaml.Node) bool {
	if len(node.Content) != 3 {
		return false
	}
	for _, c := range node.Content {
		if c.Kind != yaml.ScalarNode || c.Tag != "!!int" {
			return false
		}
	}
	return true
}

func decodeTuple(node *yaml.Node) (Tuple, error) {
	var t Tuple
	for i, c := range node.Content {
		v, err := strconv.Atoi(c.Value)
		if err != nil || v < 0 || v > 255 {
			return Tuple{}, fmt.Errorf("%w: tuple component %q", ErrInvalidEntry, c.Value)
		}
		t[i] = uint8(v)
	}
	return t, nil
}

func decodeEntry(node *yaml.Node) (Entry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Hex(node.Value), nil
	case yaml.SequenceNode:
		var n Normalized
		if len(node.Content) != 3 {
			return nil, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidEntry, len(node.Content))
		}
		for i, c := range node.Content {
			v, err := strconv.ParseFloat(c.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q", ErrInvalidEntry, c.Value)
			}
			n[i] = v
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: line %d", ErrInvalidEntry, node.Line)
}
