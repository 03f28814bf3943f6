package turtle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/memo"
	"github.com/san-kum/turtlefun/internal/origin"
)

const (
	DefaultStepSize      = 100
	DefaultStepLimit     = 100_000_000
	DefaultProgressEvery = 100_000
)

var (
	fullCircle = decimal.NewFromInt(360)
	homeLow    = decimal.RequireFromString("0.5")
	homeHigh   = decimal.RequireFromString("359.5")
)

// Turtle owns the spiral state: theta, heading, step counter and the
// append-only position history starting at the origin.
type Turtle struct {
	theta decimal.Decimal
	angle decimal.Decimal
	steps int64
	xs    []decimal.Decimal
	ys    []decimal.Decimal

	stepSize      decimal.Decimal
	stepLimit     int64
	progressEvery int64
	observers     []Observer
	logger        *slog.Logger
	estimator     *origin.Estimator

	bounds memo.Value[int64, Bounds]
}

// Option configures a Turtle.
type Option func(*Turtle)

// WithStepSize sets the distance moved per step.
func WithStepSize(size decimal.Decimal) Option {
	return func(t *Turtle) { t.stepSize = size }
}

// WithStepLimit sets the hard step ceiling. Targets at or beyond it fail.
func WithStepLimit(limit int64) Option {
	return func(t *Turtle) { t.stepLimit = limit }
}

// WithProgressEvery sets the cadence, in steps, of progress reports and
// cancellation checks.
func WithProgressEvery(steps int64) Option {
	return func(t *Turtle) {
		if steps > 0 {
			t.progressEvery = steps
		}
	}
}

// WithObserver registers an observer for progress reports.
func WithObserver(o Observer) Option {
	return func(t *Turtle) { t.observers = append(t.observers, o) }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Turtle) { t.logger = l }
}

// WithEstimator replaces the origin-return estimator.
func WithEstimator(e *origin.Estimator) Option {
	return func(t *Turtle) { t.estimator = e }
}

// New creates a turtle at the origin heading 0°.
func New(theta decimal.Decimal, opts ...Option) *Turtle {
	t := &Turtle{
		theta:         theta,
		xs:            []decimal.Decimal{decimal.Zero},
		ys:            []decimal.Decimal{decimal.Zero},
		stepSize:      decimal.NewFromInt(DefaultStepSize),
		stepLimit:     DefaultStepLimit,
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.Logger()
	}
	if t.estimator == nil {
		t.estimator = origin.NewEstimator(origin.WithLogger(t.logger))
	}
	return t
}

// Parse creates a turtle from a theta string such as "179.7444" or "1E-3".
func Parse(theta string, opts ...Option) (*Turtle, error) {
	d, err := decimal.NewFromString(theta)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTheta, theta, err)
	}
	return New(d, opts...), nil
}

func (t *Turtle) Theta() decimal.Decimal    { return t.theta }
func (t *Turtle) Angle() decimal.Decimal    { return t.angle }
func (t *Turtle) Steps() int64              { return t.steps }
func (t *Turtle) StepSize() decimal.Decimal { return t.stepSize }
func (t *Turtle) StepLimit() int64          { return t.stepLimit }

// SetTheta replaces theta and drops the cached origin-return estimate.
func (t *Turtle) SetTheta(theta decimal.Decimal) {
	t.theta = theta
	t.estimator.Reset()
}

// SetAngle sets the heading, normalized into [0, 360).
func (t *Turtle) SetAngle(angle decimal.Decimal) {
	t.angle = normalize(angle)
}

// Pos returns the latest position.
func (t *Turtle) Pos() (x, y decimal.Decimal) {
	return t.xs[len(t.xs)-1], t.ys[len(t.ys)-1]
}

// Positions returns the recorded x and y histories. The slices are shared
// with the turtle and must be treated as read-only.
func (t *Turtle) Positions() (xs, ys []decimal.Decimal) {
	return t.xs[:len(t.xs):len(t.xs)], t.ys[:len(t.ys):len(t.ys)]
}

// Rotate turns the turtle by theta times the current step number.
func (t *Turtle) Rotate() {
	t.angle = normalize(t.angle.Add(t.theta.Mul(decimal.NewFromInt(t.steps))))
}

// Forward moves one step along the current heading and records the new
// position.
//
// sin and cos are evaluated in float64. Their results are converted back to
// decimals through the shortest representation before they are accumulated.
func (t *Turtle) Forward() {
	rad := t.angle.InexactFloat64() * (math.Pi / 180)
	dx := decimal.NewFromFloat(math.Cos(rad)).Mul(t.stepSize)
	dy := decimal.NewFromFloat(math.Sin(rad)).Mul(t.stepSize)

	x, y := t.Pos()
	t.xs = append(t.xs, x.Add(dx))
	t.ys = append(t.ys, y.Add(dy))
	t.steps++
}

// Run rotates and moves until the step counter reaches target.
//
// A target at or beyond the step ceiling is refused up front: Run returns
// false without moving. Cancellation of ctx is checked at the progress
// cadence; the turtle then holds the last fully completed step.
func (t *Turtle) Run(ctx context.Context, target int64) (bool, error) {
	if target >= t.stepLimit {
		t.logger.Debug("target beyond step limit", "target", target, "limit", t.stepLimit)
		return false, nil
	}

	start := time.Now()
	startStep := t.steps
	t.logger.Debug("running spiral", "step", t.steps, "target", target)

	for t.steps < target {
		t.Rotate()
		t.Forward()

		if t.steps%t.progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return false, &StepError{Step: t.steps, Wrapped: err}
			}
			t.report(start, startStep, target)
		}
	}

	t.logger.Debug("spiral run finished", "steps", t.steps, "duration", time.Since(start))
	return true, nil
}

// RunToOrigin runs to each origin-return candidate in ascending order and
// stops at the first one where the turtle is home. Candidates of one step
// or less are skipped; when nothing is left to run the turtle stays at the
// origin. It returns false only when the step ceiling refused a candidate.
func (t *Turtle) RunToOrigin(ctx context.Context) (bool, error) {
	est, err := t.Estimate()
	if err != nil {
		return false, err
	}

	ok := true
	for _, candidate := range est.Candidates {
		if candidate.LessThanOrEqual(decimal.NewFromInt(1)) {
			continue
		}
		if candidate.GreaterThanOrEqual(decimal.NewFromInt(t.stepLimit)) {
			t.logger.Debug("candidate beyond step limit", "candidate", candidate, "limit", t.stepLimit)
			ok = false
			break
		}

		ran, err := t.Run(ctx, candidate.IntPart())
		if err != nil {
			return false, err
		}
		if !ran {
			ok = false
			break
		}
		if t.IsHome() {
			break
		}
	}

	if t.IsHome() {
		t.logger.Info("turtle did return home", "steps", t.steps)
	} else {
		t.logger.Info("turtle did not return home", "steps", t.steps)
	}
	return ok, nil
}

// IsHome reports whether the heading is within half a degree of 0° and the
// latest position lies within one step size of the origin on both axes.
// The first failing condition is logged and ends the check.
func (t *Turtle) IsHome() bool {
	x, y := t.Pos()
	dist := t.stepSize

	t.logger.Debug("evaluating home", "x", x, "y", y, "distance", dist, "angle", t.angle)

	if !(t.angle.LessThan(homeLow) && t.angle.Sign() >= 0 ||
		t.angle.LessThanOrEqual(fullCircle) && t.angle.GreaterThan(homeHigh)) {
		t.logger.Debug("angle not in applicable range 359.5-0.5", "angle", t.angle)
		return false
	}

	switch {
	case x.LessThan(dist.Neg()):
		t.logger.Debug("x is too small", "x", x)
		return false
	case x.GreaterThan(dist):
		t.logger.Debug("x is too big", "x", x)
		return false
	case y.LessThan(dist.Neg()):
		t.logger.Debug("y is too small", "y", y)
		return false
	case y.GreaterThan(dist):
		t.logger.Debug("y is too big", "y", y)
		return false
	}
	return true
}

// Verify checks that both histories hold exactly steps+1 positions.
func (t *Turtle) Verify() error {
	want := t.steps + 1
	if int64(len(t.xs)) != want || int64(len(t.ys)) != want {
		t.logger.Log(context.Background(), logging.LevelCritical, "x and y lists are not of equal length",
			"xs", len(t.xs), "ys", len(t.ys), "steps", t.steps)
		return fmt.Errorf("%w: %d x, %d y positions for %d steps", ErrHistoryCorrupt, len(t.xs), len(t.ys), t.steps)
	}
	return nil
}

// Estimate returns the origin-return estimate for the current theta.
func (t *Turtle) Estimate() (*origin.Estimate, error) {
	return t.estimator.Estimate(t.theta)
}

// DominantAngles returns the greedy decomposition of theta.
func (t *Turtle) DominantAngles() ([]decimal.Decimal, error) {
	return t.estimator.DominantAngles(t.theta)
}

func (t *Turtle) report(start time.Time, startStep, target int64) {
	elapsed := time.Since(start)
	x, y := t.Pos()
	p := Progress{
		Step:    t.steps,
		Target:  target,
		Elapsed: elapsed,
		X:       x.InexactFloat64(),
		Y:       y.InexactFloat64(),
	}
	if secs := elapsed.Seconds(); secs > 0 {
		p.StepsPerSecond = float64(t.steps-startStep) / secs
	}
	if p.StepsPerSecond > 0 {
		p.Remaining = time.Duration(float64(target-t.steps) / p.StepsPerSecond * float64(time.Second))
	}

	t.logger.Debug("advanced spiral, remaining time estimate",
		"step", t.steps, "target", target, "remaining", p.Remaining)
	for _, o := range t.observers {
		o.OnProgress(p)
	}
}

func normalize(angle decimal.Decimal) decimal.Decimal {
	angle = angle.Mod(fullCircle)
	if angle.Sign() < 0 {
		angle = angle.Add(fullCircle)
	}
	return angle
}
