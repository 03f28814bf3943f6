package palette

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Flavour names a way of reflowing a base palette for spiral drawings.
type Flavour string

const (
	DoubleFirst         Flavour = "double_first"
	DoubleFirstReverse  Flavour = "double_first_reverse"
	DoubleSecond        Flavour = "double_second"
	DoubleSecondReverse Flavour = "double_second_reverse"
	Normal              Flavour = "normal"
	NormalReverse       Flavour = "normal_reverse"
	Quadrupel           Flavour = "quadrupel"
	QuadrupelReverse    Flavour = "quadrupel_reverse"
)

// Flavours lists every flavour in a stable order.
func Flavours() []Flavour {
	return []Flavour{
		DoubleFirst, DoubleFirstReverse,
		DoubleSecond, DoubleSecondReverse,
		Normal, NormalReverse,
		Quadrupel, QuadrupelReverse,
	}
}

// ParseFlavour validates a flavour name. The empty name is Normal.
func ParseFlavour(name string) (Flavour, error) {
	if name == "" {
		return Normal, nil
	}
	f := Flavour(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Flavours(), f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFlavour, name)
	}
	return f, nil
}

// Pair is a reflowed palette: Path colours the spiral, Caption colours the
// text overlay.
type Pair[T any] struct {
	Path    []T
	Caption []T
}

// Reflow reorders base according to flavour. The base is split at
// round(len/2); with halves L and H and rev() reversing a list:
//
//	double_first   path 2x(rev(H) rev(L))           caption L rev(L)
//	double_second  path 2x(base)                    caption H rev(H)
//	normal         path rev(L) rev(H) H L           caption base
//	quadrupel      path 4x(base)                    caption base rev(base)
//
// The _reverse flavours reverse both lists of their base flavour. A single
// entry base has an empty L: rev(L) is then the whole base and rev(H) is
// empty.
func Reflow[T any](base []T, flavour Flavour) (Pair[T], error) {
	middle := int(math.RoundToEven(float64(len(base)) / 2))
	low, high := base[:middle], base[middle:]
	revLow, revHigh := reversed(low), reversed(high)
	if middle == 0 {
		revLow, revHigh = reversed(base), nil
	}

	var p Pair[T]
	switch strings.TrimSuffix(string(flavour), "_reverse") {
	case string(DoubleFirst):
		once := concat(revHigh, revLow)
		p = Pair[T]{Path: concat(once, once), Caption: concat(low, revLow)}
	case string(DoubleSecond):
		p = Pair[T]{Path: concat(base, base), Caption: concat(high, revHigh)}
	case string(Normal):
		p = Pair[T]{Path: concat(revLow, revHigh, high, low), Caption: concat(base)}
	case string(Quadrupel):
		p = Pair[T]{Path: concat(base, base, base, base), Caption: concat(base, reversed(base))}
	default:
		return Pair[T]{}, fmt.Errorf("%w: %q", ErrUnknownFlavour, flavour)
	}

	if strings.HasSuffix(string(flavour), "_reverse") {
		slices.Reverse(p.Path)
		slices.Reverse(p.Caption)
	}
	return p, nil
}

// ReflowAll computes every flavour of base.
func ReflowAll[T any](base []T) map[Flavour]Pair[T] {
	out := make(map[Flavour]Pair[T], len(Flavours()))
	for _, f := range Flavours() {
		p, _ := Reflow(base, f)
		out[f] = p
	}
	return out
}

func reversed[T any](s []T) []T {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

func concat[T any](parts ...[]T) []T {
	return slices.Concat(parts...)
}
