// Package turtle simulates the spiral-drawing turtle.
//
// At step n the turtle first turns by theta*n degrees and then moves one
// step size forward, so the turning rate grows with the step count. Angles
// and positions are kept as arbitrary-precision decimals; only the sin/cos
// evaluation in [Turtle.Forward] drops to float64, and its result is
// converted back before it is accumulated.
//
// # Example
//
//	t, _ := turtle.Parse("1")
//	ok, err := t.RunToOrigin(ctx)
//	home := t.IsHome()
//
// # Thread Safety
//
// A Turtle is NOT safe for concurrent use. The recurrence is sequential by
// nature; run it on one goroutine and hand [Progress] snapshots to others
// through an [Observer].
package turtle
