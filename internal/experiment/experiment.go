// Package experiment runs one theta end to end: simulate, render and store.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/caption"
	"github.com/san-kum/turtlefun/internal/config"
	"github.com/san-kum/turtlefun/internal/export"
	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/origin"
	"github.com/san-kum/turtlefun/internal/render"
	"github.com/san-kum/turtlefun/internal/storage"
	"github.com/san-kum/turtlefun/internal/turtle"
)

var ErrStepLimit = errors.New("experiment: run refused by step limit")

// Result describes a finished run. Paths are empty when nothing was
// written.
type Result struct {
	Theta     decimal.Decimal
	Turtle    *turtle.Turtle
	Estimate  *origin.Estimate
	Home      bool
	Scale     decimal.Decimal
	Image     image.Image
	Simulated time.Duration
	Rendered  time.Duration

	ImagePath     string
	SVGPath       string
	PositionsPath string
}

type Experiment struct {
	cfg       *config.Config
	theta     decimal.Decimal
	store     *storage.Store
	observers []turtle.Observer
	logger    *slog.Logger
}

type Option func(*Experiment)

// WithObserver forwards simulation progress to o.
func WithObserver(o turtle.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithStore writes into s instead of a store at the configured directory.
func WithStore(s *storage.Store) Option {
	return func(e *Experiment) { e.store = s }
}

func New(cfg *config.Config, theta decimal.Decimal, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, theta: theta}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Logger()
	}
	if e.store == nil {
		e.store = storage.New(cfg.OutDir, cfg.ImageFormat())
	}
	return e
}

func (e *Experiment) Store() *storage.Store { return e.store }

// Simulate runs the turtle for the configured number of steps, or to its
// origin return when none is configured.
func (e *Experiment) Simulate(ctx context.Context) (*Result, error) {
	opts := append(e.cfg.TurtleOptions(), turtle.WithLogger(e.logger))
	for _, o := range e.observers {
		opts = append(opts, turtle.WithObserver(o))
	}
	t := turtle.New(e.theta, opts...)

	start := time.Now()
	var ok bool
	var err error
	if e.cfg.Steps > 0 {
		ok, err = t.Run(ctx, e.cfg.Steps)
	} else {
		ok, err = t.RunToOrigin(ctx)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: theta %s, limit %d", ErrStepLimit, e.theta, t.StepLimit())
	}

	est, err := t.Estimate()
	if err != nil {
		return nil, err
	}
	return &Result{
		Theta:     e.theta,
		Turtle:    t,
		Estimate:  est,
		Home:      t.IsHome(),
		Simulated: time.Since(start),
	}, nil
}

// Draw renders a simulated result into res.Image.
func (e *Experiment) Draw(res *Result) error {
	opts := append(e.cfg.RenderOptions(), render.WithLogger(e.logger))
	if c := e.cfg.Caption; c.Enabled {
		text := caption.Program(res.Turtle.Steps(), e.theta, res.Turtle.StepSize())
		capt, err := caption.New(text,
			caption.WithFontSize(c.FontSize),
			caption.WithBold(c.Bold),
			caption.WithLogger(e.logger))
		if err != nil {
			return err
		}
		opts = append(opts, render.WithCaption(capt, c.Fill.Palette, image.Pt(c.X, c.Y)))
	}

	start := time.Now()
	out, err := render.New(opts...).Render(res.Turtle)
	if err != nil {
		return err
	}
	res.Image = out.Image
	res.Scale = out.Scale
	res.Rendered = time.Since(start)
	return nil
}

// Save writes the image, its run record and the configured extras.
func (e *Experiment) Save(res *Result) error {
	if err := e.store.Init(); err != nil {
		return err
	}

	rec := &storage.Record{
		Theta:     e.theta.String(),
		Steps:     res.Turtle.Steps(),
		Home:      res.Home,
		Scale:     res.Scale.String(),
		StepSize:  res.Turtle.StepSize().String(),
		Width:     e.cfg.Width,
		Height:    e.cfg.Height,
		Timestamp: time.Now(),
		Duration:  (res.Simulated + res.Rendered).String(),
	}
	if res.Estimate != nil {
		rec.DominantAngles = decimalStrings(res.Estimate.DominantAngles)
		rec.Candidates = decimalStrings(res.Estimate.Candidates)
	}

	path, err := e.store.Save(rec, res.Image)
	if err != nil {
		return err
	}
	res.ImagePath = path
	e.logger.Info("image saved", "path", path, "steps", rec.Steps, "home", rec.Home)

	if e.cfg.Positions {
		xs, ys := res.Turtle.Positions()
		if res.PositionsPath, err = e.store.SavePositions(path, xs, ys); err != nil {
			return err
		}
	}
	if e.cfg.SVG {
		svg := export.SVG{
			Width:      e.cfg.Width,
			Height:     e.cfg.Height,
			Background: e.cfg.Background.Palette,
			Style:      e.cfg.BackgroundStyle,
			Line:       e.cfg.Line.Palette,
			LineWidth:  e.cfg.LineWidth,
			Scale:      &res.Scale,
		}
		res.SVGPath = path + ".svg"
		if err := svg.WriteFile(res.SVGPath, res.Turtle); err != nil {
			return err
		}
	}
	return nil
}

// Run simulates, draws and saves.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	res, err := e.Simulate(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.Draw(res); err != nil {
		return nil, err
	}
	if err := e.Save(res); err != nil {
		return nil, err
	}
	return res, nil
}

func decimalStrings(ds []decimal.Decimal) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
