package turtle

import "github.com/shopspring/decimal"

// Bounds is the bounding box of the recorded path at a given step count.
type Bounds struct {
	XMin, XMax decimal.Decimal
	YMin, YMax decimal.Decimal
	Steps      int64
}

// Bounds returns the bounding box of the recorded positions. The box is
// computed lazily and reused until the step counter moves.
func (t *Turtle) Bounds() Bounds {
	if b, ok := t.bounds.Get(t.steps); ok {
		return b
	}

	b := Bounds{
		XMin:  decimal.Min(t.xs[0], t.xs[1:]...),
		XMax:  decimal.Max(t.xs[0], t.xs[1:]...),
		YMin:  decimal.Min(t.ys[0], t.ys[1:]...),
		YMax:  decimal.Max(t.ys[0], t.ys[1:]...),
		Steps: t.steps,
	}
	t.bounds.Set(t.steps, b)

	t.logger.Debug("boundary corners", "steps", b.Steps,
		"xmin", b.XMin, "ymin", b.YMin, "xmax", b.XMax, "ymax", b.YMax)
	return b
}

func (t *Turtle) XMin() decimal.Decimal { return t.Bounds().XMin }
func (t *Turtle) XMax() decimal.Decimal { return t.Bounds().XMax }
func (t *Turtle) YMin() decimal.Decimal { return t.Bounds().YMin }
func (t *Turtle) YMax() decimal.Decimal { return t.Bounds().YMax }

// Quadrants counts recorded positions per quadrant, y pointing up. Points
// exactly at the origin are not counted; points on an axis belong to the
// quadrant that is reached turning counter-clockwise from it.
type Quadrants struct {
	TopRight    int
	BottomRight int
	BottomLeft  int
	TopLeft     int
}

// Total is the number of counted positions.
func (q Quadrants) Total() int {
	return q.TopRight + q.BottomRight + q.BottomLeft + q.TopLeft
}

// QuadrantCounts verifies the history and counts positions per quadrant.
func (t *Turtle) QuadrantCounts() (Quadrants, error) {
	var q Quadrants
	if err := t.Verify(); err != nil {
		return q, err
	}

	for i := range t.xs {
		sx, sy := t.xs[i].Sign(), t.ys[i].Sign()
		switch {
		case sx == 0 && sy == 0:
		case sx >= 0 && sy > 0:
			q.TopRight++
		case sx > 0 && sy <= 0:
			q.BottomRight++
		case sx <= 0 && sy < 0:
			q.BottomLeft++
		default:
			q.TopLeft++
		}
	}
	return q, nil
}
