package origin

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/memo"
)

var fullCircle = decimal.NewFromInt(360)

// Estimate is the origin-return prediction for one theta.
type Estimate struct {
	Theta decimal.Decimal

	// DominantAngles and Quotients are the greedy decomposition of theta,
	// one element per subtracted table angle.
	DominantAngles []decimal.Decimal
	Quotients      []int64

	CycleLength    *big.Int        // lcm of Quotients
	CycleAngle     decimal.Decimal // heading after CycleLength steps, in [0, 360)
	RequiredCycles *big.Int
	UpperLimit     decimal.Decimal // CycleLength * RequiredCycles

	// Candidates holds UpperLimit and every closing divisor-quotient of it,
	// ascending and without duplicates.
	Candidates []decimal.Decimal
}

// Contains reports whether steps is one of the candidates.
func (e *Estimate) Contains(steps decimal.Decimal) bool {
	for _, c := range e.Candidates {
		if c.Equal(steps) {
			return true
		}
	}
	return false
}

// Estimator computes estimates against a quotient table and remembers the
// last one. It is not safe for concurrent use.
type Estimator struct {
	table  Table
	logger *slog.Logger
	cache  memo.Value[string, *Estimate]
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithTable replaces the embedded quotient table.
func WithTable(t Table) Option {
	return func(e *Estimator) { e.table = t }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) { e.logger = l }
}

// NewEstimator returns an estimator using the embedded table by default.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		e.table = DefaultTable()
	}
	if e.logger == nil {
		e.logger = logging.Logger()
	}
	return e
}

// Estimate returns the prediction for theta. Asking again for the same
// theta returns the same *Estimate; a different theta replaces the cache.
func (e *Estimator) Estimate(theta decimal.Decimal) (*Estimate, error) {
	return e.cache.Resolve(theta.String(), func() (*Estimate, error) {
		return e.compute(theta)
	})
}

// DominantAngles returns the greedy decomposition of theta, computing the
// estimate if needed.
func (e *Estimator) DominantAngles(theta decimal.Decimal) ([]decimal.Decimal, error) {
	est, err := e.Estimate(theta)
	if err != nil {
		return nil, err
	}
	return est.DominantAngles, nil
}

// Reset drops the cached estimate.
func (e *Estimator) Reset() { e.cache.Reset() }

func (e *Estimator) compute(theta decimal.Decimal) (*Estimate, error) {
	est := &Estimate{Theta: theta}

	analyze := theta
	places := PlacesOf(theta)
	for _, entry := range e.table {
		if entry.places > places {
			continue
		}
		for analyze.GreaterThanOrEqual(entry.Angle) {
			est.DominantAngles = append(est.DominantAngles, entry.Angle)
			est.Quotients = append(est.Quotients, entry.Quotient)
			analyze = analyze.Sub(entry.Angle)
		}
		if analyze.Sign() <= 0 {
			break
		}
	}

	quotients := make([]*big.Int, len(est.Quotients))
	for i, q := range est.Quotients {
		quotients[i] = big.NewInt(q)
	}
	est.CycleLength = LCM(quotients...)

	// Heading after one cycle; the cycles needed to close it are the reduced
	// denominator of cycle_angle/360.
	cycleAngle := closingAngle(est.CycleLength, theta)
	est.CycleAngle = normalize(cycleAngle)
	ratio := new(big.Rat).Quo(cycleAngle.Rat(), big.NewRat(360, 1))
	est.RequiredCycles = new(big.Int).Set(ratio.Denom())

	upper := new(big.Int).Mul(est.CycleLength, est.RequiredCycles)
	est.UpperLimit = decimal.NewFromBigInt(upper, 0)

	factors, err := Factorize(upper)
	if err != nil {
		e.logger.Log(context.Background(), logging.LevelCritical, "failed to calculate prime factors", "theta", theta, "upper_limit", upper)
		return nil, err
	}
	e.logger.Log(context.Background(), logging.LevelTrace, "prime factors of upper step limit", "upper_limit", upper, "factors", formatFactors(factors))

	seen := map[string]bool{upper.String(): true}
	est.Candidates = append(est.Candidates, est.UpperLimit)
	for _, d := range Divisors(factors) {
		steps := new(big.Int).Quo(upper, d)
		if seen[steps.String()] || !closingAngle(steps, theta).IsZero() {
			continue
		}
		seen[steps.String()] = true
		est.Candidates = append(est.Candidates, decimal.NewFromBigInt(steps, 0))
	}
	sort.Slice(est.Candidates, func(i, j int) bool {
		return est.Candidates[i].LessThan(est.Candidates[j])
	})

	e.logger.Debug("origin return estimation",
		"theta", theta,
		"dominant_angles", len(est.DominantAngles),
		"cycle_length", est.CycleLength,
		"required_cycles", est.RequiredCycles,
		"candidates", len(est.Candidates))
	return est, nil
}

// closingAngle is the accumulated rotation theta*steps*(steps+1)/2 mod 360.
// The sign follows theta.
func closingAngle(steps *big.Int, theta decimal.Decimal) decimal.Decimal {
	return decimal.NewFromBigInt(Triangular(steps), 0).Mul(theta).Mod(fullCircle)
}

func normalize(angle decimal.Decimal) decimal.Decimal {
	angle = angle.Mod(fullCircle)
	if angle.Sign() < 0 {
		angle = angle.Add(fullCircle)
	}
	return angle
}

func formatFactors(factors []Factor) string {
	s := ""
	for i, f := range factors {
		if i > 0 {
			s += " * "
		}
		s += fmt.Sprintf("%s^%d", f.Prime, f.Exp)
	}
	return s
}
