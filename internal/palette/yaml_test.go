package palette

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSpecUnmarshal(t *testing.T) {
	var doc struct {
		Solid    Spec `yaml:"solid"`
		Hex      Spec `yaml:"hex"`
		Tuple    Spec `yaml:"tuple"`
		Gradient Spec `yaml:"gradient"`
		Builtin  Spec `yaml:"builtin"`
		None     Spec `yaml:"none"`
	}
	src := `
solid: white
hex: "#102030"
tuple: [255, 128, 0]
gradient: ["#ff0000", [0, 0.5, 1], [1, 1, 1]]
builtin: {name: cyclic_grey, flavour: quadrupel}
none: ~
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	require.Equal(t, Solid("white"), doc.Solid.Palette)
	require.Equal(t, Solid("#102030"), doc.Hex.Palette)
	require.Equal(t, Tuple{255, 128, 0}, doc.Tuple.Palette)
	require.Equal(t, Gradient{Hex("#ff0000"), Normalized{0, 0.5, 1}, Normalized{1, 1, 1}}, doc.Gradient.Palette)

	require.Equal(t, "cyclic_grey", doc.Builtin.Name)
	require.Equal(t, Quadrupel, doc.Builtin.Flavour)
	require.Len(t, doc.Builtin.Palette, 4*builtinSize)

	require.True(t, doc.None.Empty())
}

func TestSpecUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"tuple range", "p: [256, 0, 0]", ErrInvalidEntry},
		{"short entry", "p: [[1, 0]]", ErrInvalidEntry},
		{"bad component", "p: [[1, 0, x]]", ErrInvalidEntry},
		{"unknown builtin", "p: {name: nope}", ErrUnknownPalette},
		{"unknown flavour", "p: {name: cyclic_hue, flavour: sextupel}", ErrUnknownFlavour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				P Spec `yaml:"p"`
			}
			require.ErrorIs(t, yaml.Unmarshal([]byte(tt.src), &doc), tt.err)
		})
	}
}

func TestSpecRoundTrip(t *testing.T) {
	for _, spec := range []Spec{
		{Palette: Solid("black")},
		{Palette: Tuple{1, 2, 3}},
		{Palette: Gradient{Hex("#ffffff"), Normalized{0.25, 0.5, 0.75}}},
	} {
		out, err := yaml.Marshal(spec)
		require.NoError(t, err)

		var back Spec
		require.NoError(t, yaml.Unmarshal(out, &back))
		require.Equal(t, spec, back)
	}

	named, err := Parse("cyclic_hue:double_first")
	require.NoError(t, err)
	out, err := yaml.Marshal(named)
	require.NoError(t, err)
	var back Spec
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, named, back)
}

func TestParse(t *testing.T) {
	s, err := Parse("#ff0000")
	require.NoError(t, err)
	require.Equal(t, Solid("#ff0000"), s.Palette)

	s, err = Parse("cyclic_hue")
	require.NoError(t, err)
	require.Equal(t, Normal, s.Flavour)
	require.Len(t, s.Palette, 4*builtinSize)

	s, err = Parse("[10, 20, 30]")
	require.NoError(t, err)
	require.Equal(t, Tuple{10, 20, 30}, s.Palette)

	s, err = Parse("none")
	require.NoError(t, err)
	require.True(t, s.Empty())

	_, err = Parse("cyclic_hue:sextupel")
	require.ErrorIs(t, err, ErrUnknownFlavour)
}
