package turtle

import (
	"math"
	"time"
)

// Progress is a snapshot taken at the progress cadence of a run.
type Progress struct {
	Step           int64
	Target         int64
	Elapsed        time.Duration
	StepsPerSecond float64
	Remaining      time.Duration

	// X and Y are the position at Step, rounded to float64.
	X, Y float64
}

// Distance is the distance from the origin at Step.
func (p Progress) Distance() float64 { return math.Hypot(p.X, p.Y) }

// Fraction is the share of the target reached, in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Target <= 0 {
		return 1
	}
	f := float64(p.Step) / float64(p.Target)
	if f > 1 {
		return 1
	}
	return f
}

// Observer receives progress reports from a running turtle. OnProgress is
// called on the simulating goroutine and should return quickly.
type Observer interface {
	OnProgress(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Progress)

func (f ObserverFunc) OnProgress(p Progress) { f(p) }
