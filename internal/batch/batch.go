// Package batch renders a list of thetas read from a YAML file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/turtlefun/internal/config"
	"github.com/san-kum/turtlefun/internal/experiment"
	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/turtle"
)

var ErrEmptyBatch = errors.New("batch: no thetas")

// File is a batch definition:
//
//	preset: fine
//	skip_existing: true
//	thetas: [1, 179.7444, 0.75]
type File struct {
	Preset       string            `yaml:"preset"`
	SkipExisting *bool             `yaml:"skip_existing"`
	Thetas       []decimal.Decimal `yaml:"thetas"`
}

// Skip reports whether thetas with an existing image are skipped. It
// defaults to true.
func (f *File) Skip() bool {
	return f.SkipExisting == nil || *f.SkipExisting
}

// Load reads a batch file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(f.Thetas) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBatch)
	}
	return &f, nil
}

// Summary lists what happened to each theta.
type Summary struct {
	Done    []*experiment.Result
	Skipped []decimal.Decimal
	Refused []decimal.Decimal
}

// Total is the number of thetas handled.
func (s *Summary) Total() int { return len(s.Done) + len(s.Skipped) + len(s.Refused) }

type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	observer turtle.Observer
	workers  int
}

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithWorkers runs up to n thetas at once. Each theta still simulates on
// a single goroutine.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithObserver receives simulation progress of every theta. With more than
// one worker it is called concurrently.
func WithObserver(o turtle.Observer) Option {
	return func(r *Runner) { r.observer = o }
}

func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Logger()
	}
	return r
}

// Run handles the thetas in order. Thetas refused by the step limit are
// recorded and skipped; any other failure stops the batch and returns the
// partial summary.
func (r *Runner) Run(ctx context.Context, f *File) (*Summary, error) {
	if r.workers > 1 {
		return r.runParallel(ctx, f)
	}

	sum := &Summary{}
	for i, theta := range f.Thetas {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		r.logger.Info("batch theta", "index", i+1, "total", len(f.Thetas), "theta", theta)

		o := r.one(ctx, theta, f.Skip())
		if o.err != nil {
			return sum, o.err
		}
		sum.add(theta, o)
	}
	return sum, nil
}

// outcome is what happened to one theta.
type outcome struct {
	res     *experiment.Result
	skipped bool
	refused bool
	err     error
}

func (s *Summary) add(theta decimal.Decimal, o outcome) {
	switch {
	case o.skipped:
		s.Skipped = append(s.Skipped, theta)
	case o.refused:
		s.Refused = append(s.Refused, theta)
	case o.res != nil:
		s.Done = append(s.Done, o.res)
	}
}

func (r *Runner) one(ctx context.Context, theta decimal.Decimal, skip bool) outcome {
	opts := []experiment.Option{experiment.WithLogger(r.logger)}
	if r.observer != nil {
		opts = append(opts, experiment.WithObserver(r.observer))
	}
	exp := experiment.New(r.cfg, theta, opts...)

	if skip {
		exists, err := exp.Store().Exists(theta)
		if err != nil {
			return outcome{err: fmt.Errorf("theta %s: %w", theta, err)}
		}
		if exists {
			r.logger.Info("image exists, skipping", "theta", theta)
			return outcome{skipped: true}
		}
	}

	res, err := exp.Run(ctx)
	switch {
	case errors.Is(err, experiment.ErrStepLimit):
		r.logger.Warn("theta refused by step limit", "theta", theta, "limit", r.cfg.StepLimit)
		return outcome{refused: true}
	case err != nil:
		return outcome{err: fmt.Errorf("theta %s: %w", theta, err)}
	}
	return outcome{res: res}
}
