package origin

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalPlaces returns the number of significant fractional digits of a
// numeric string. Exponent notation shifts the count, trailing zeros do not
// count and the result is never negative:
//
//	"1.234E-7"         -> 10
//	"000001.123400000" -> 4
//	"1.2E3"            -> 0
//	".1234"            -> 4
func DecimalPlaces(number string) int {
	s := strings.TrimLeft(strings.TrimSpace(number), "+-")

	exponent := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if e, err := strconv.Atoi(s[i+1:]); err == nil {
			exponent = e
		}
		s = s[:i]
	}

	fraction := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		fraction = strings.TrimRight(s[i+1:], "0")
	}

	places := len(fraction) - exponent
	if places < 0 {
		return 0
	}
	return places
}

// PlacesOf is DecimalPlaces for an already parsed decimal.
func PlacesOf(d decimal.Decimal) int {
	return DecimalPlaces(d.String())
}
