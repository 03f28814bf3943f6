package origin

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed quotients.yaml
var quotientsYAML []byte

// Entry is one elementary rotation of the quotient table: Angle = 360/Quotient.
// Alpha is the heading left over after Quotient steps of theta = Angle,
// either 0 or 180; a 180 entry needs twice as many steps to close.
type Entry struct {
	Angle    decimal.Decimal
	Quotient int64
	Alpha    int

	places int
}

// Places is the number of significant fractional digits of Angle.
func (e Entry) Places() int { return e.places }

// Closure is the step count after which a spiral with theta = Angle is
// expected home.
func (e Entry) Closure() int64 {
	if e.Alpha == 180 {
		return 2 * e.Quotient
	}
	return e.Quotient
}

// Table is a read-only list of entries sorted by descending angle.
type Table []Entry

type rawEntry struct {
	Angle    string `yaml:"angle"`
	Quotient int64  `yaml:"quotient"`
	Alpha    int    `yaml:"alpha"`
}

// ParseTable decodes a YAML quotient table. Entries are re-sorted by
// descending angle; non-positive angles or quotients are rejected.
func ParseTable(data []byte) (Table, error) {
	var raw []rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidTable)
	}

	table := make(Table, 0, len(raw))
	for i, r := range raw {
		angle, err := decimal.NewFromString(r.Angle)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidTable, i, err)
		}
		if angle.Sign() <= 0 || r.Quotient <= 0 {
			return nil, fmt.Errorf("%w: entry %d: angle %s quotient %d", ErrInvalidTable, i, r.Angle, r.Quotient)
		}
		table = append(table, Entry{
			Angle:    angle,
			Quotient: r.Quotient,
			Alpha:    r.Alpha,
			places:   PlacesOf(angle),
		})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Angle.GreaterThan(table[j].Angle)
	})
	return table, nil
}

var defaultTable = sync.OnceValues(func() (Table, error) {
	return ParseTable(quotientsYAML)
})

// DefaultTable returns the embedded quotient table.
func DefaultTable() Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}
