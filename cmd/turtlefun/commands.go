package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/turtlefun/internal/background"
	"github.com/san-kum/turtlefun/internal/batch"
	"github.com/san-kum/turtlefun/internal/config"
	"github.com/san-kum/turtlefun/internal/experiment"
	"github.com/san-kum/turtlefun/internal/origin"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/storage"
	"github.com/san-kum/turtlefun/internal/turtle"
	"github.com/san-kum/turtlefun/internal/viz"
)

const watchCadence = 1000

func runSpiral(cmd *cobra.Command, args []string) error {
	theta, err := parseTheta(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running theta %s...\n", theta)
	res, err := experiment.New(cfg, theta).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(resultSummary(styles(), res))
	return nil
}

func resultSummary(s viz.Styles, res *experiment.Result) string {
	rows := []viz.Row{
		{Label: "theta", Value: res.Theta},
		{Label: "steps", Value: res.Turtle.Steps()},
		{Label: "origin return", Value: s.Verdict(res.Home, "yes", "no")},
		{Label: "scale", Value: res.Scale.StringFixed(4)},
		{Label: "simulated", Value: res.Simulated.Round(time.Millisecond)},
		{Label: "rendered", Value: res.Rendered.Round(time.Millisecond)},
		{Label: "image", Value: res.ImagePath},
	}
	if res.SVGPath != "" {
		rows = append(rows, viz.Row{Label: "svg", Value: res.SVGPath})
	}
	if res.PositionsPath != "" {
		rows = append(rows, viz.Row{Label: "positions", Value: res.PositionsPath})
	}
	return s.Summary("turtlefun", rows)
}

func watchSpiral(cmd *cobra.Command, args []string) error {
	theta, err := parseTheta(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("progress-every") {
		cfg.ProgressEvery = min(cfg.ProgressEvery, watchCadence)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	progress := make(chan turtle.Progress, 16)
	done := make(chan viz.DoneMsg, 1)
	observer := turtle.ObserverFunc(func(p turtle.Progress) {
		select {
		case progress <- p:
		default:
		}
	})

	s := styles()
	exp := experiment.New(cfg, theta, experiment.WithObserver(observer))
	go func() {
		defer close(progress)
		res, err := exp.Run(ctx)
		if err != nil {
			done <- viz.DoneMsg{Err: err}
			return
		}
		done <- viz.DoneMsg{Summary: resultSummary(s, res)}
	}()

	model := viz.NewWatch(fmt.Sprintf("turtlefun θ=%s", theta), progress, done, cancel, s.Theme)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	w := final.(viz.Watch)
	if w.Stopped() {
		return context.Canceled
	}
	if r := w.Result(); r != nil {
		if r.Err != nil {
			return r.Err
		}
		fmt.Println(r.Summary)
	}
	return nil
}

func estimateTheta(cmd *cobra.Command, args []string) error {
	theta, err := parseTheta(args[0])
	if err != nil {
		return err
	}

	est, err := origin.NewEstimator().Estimate(theta)
	if err != nil {
		return err
	}

	s := styles()
	fmt.Println(s.Summary("origin return estimate", []viz.Row{
		{Label: "theta", Value: est.Theta},
		{Label: "dominant angles", Value: joinDecimals(est.DominantAngles)},
		{Label: "quotients", Value: fmt.Sprint(est.Quotients)},
		{Label: "cycle length", Value: est.CycleLength},
		{Label: "cycle angle", Value: est.CycleAngle},
		{Label: "cycles", Value: est.RequiredCycles},
		{Label: "upper limit", Value: est.UpperLimit},
		{Label: "candidates", Value: joinDecimals(est.Candidates)},
	}))
	return nil
}

func inspectTheta(cmd *cobra.Command, args []string) error {
	theta, err := parseTheta(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := experiment.New(cfg, theta).Simulate(cmd.Context())
	if err != nil {
		return err
	}
	t := res.Turtle
	b := t.Bounds()
	q, err := t.QuadrantCounts()
	if err != nil {
		return err
	}

	s := styles()
	fmt.Println(s.Summary(fmt.Sprintf("theta %s", theta), []viz.Row{
		{Label: "steps", Value: t.Steps()},
		{Label: "origin return", Value: s.Verdict(res.Home, "yes", "no")},
		{Label: "x range", Value: fmt.Sprintf("%s .. %s", b.XMin.StringFixed(2), b.XMax.StringFixed(2))},
		{Label: "y range", Value: fmt.Sprintf("%s .. %s", b.YMin.StringFixed(2), b.YMax.StringFixed(2))},
		{Label: "top right", Value: q.TopRight},
		{Label: "top left", Value: q.TopLeft},
		{Label: "bottom left", Value: q.BottomLeft},
		{Label: "bottom right", Value: q.BottomRight},
	}))

	canvas := viz.NewCanvas(60, 24)
	if err := canvas.Plot(t); err != nil {
		return err
	}
	fmt.Print(canvas.String())

	xs, ys := t.Positions()
	if chart := viz.DistanceChart(viz.Distances(xs, ys), 70, 10, "distance from origin"); chart != "" {
		fmt.Println(s.Graph.Render(chart))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := batch.Load(args[0])
	if err != nil {
		return err
	}
	if f.Preset != "" && !cmd.Flags().Changed("preset") {
		preset = f.Preset
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sum, err := batch.NewRunner(cfg, batch.WithWorkers(workers)).Run(cmd.Context(), f)
	s := styles()
	for _, res := range sum.Done {
		fmt.Println(resultSummary(s, res))
	}
	fmt.Println(s.Summary("batch", []viz.Row{
		{Label: "thetas", Value: len(f.Thetas)},
		{Label: "rendered", Value: len(sum.Done)},
		{Label: "skipped", Value: joinDecimals(sum.Skipped)},
		{Label: "refused", Value: joinDecimals(sum.Refused)},
	}))
	return err
}

func listPalettes(cmd *cobra.Command, args []string) error {
	s := styles()
	rows := make([]viz.Row, 0, len(palette.Names()))
	for _, name := range palette.Names() {
		g, err := palette.Builtin(name)
		if err != nil {
			return err
		}
		rows = append(rows, viz.Row{Label: name, Value: swatch(g)})
	}
	flavours := make([]string, 0, len(palette.Flavours()))
	for _, f := range palette.Flavours() {
		flavours = append(flavours, string(f))
	}
	rows = append(rows, viz.Row{Label: "flavours", Value: strings.Join(flavours, ", ")})
	fmt.Println(s.Summary("palettes", rows))

	if samplesDir == "" {
		return nil
	}
	base, err := palette.Builtin(paletteName)
	if err != nil {
		return err
	}
	dir := filepath.Join(samplesDir, paletteName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files, err := background.WriteSamples(dir, base, background.SampleWidth, background.SampleHeight)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d samples to %s\n", len(files), dir)
	return nil
}

// swatch shows a palette as a gradient of block characters.
func swatch(g palette.Gradient) string {
	sampler, err := palette.NewSampler(g)
	if err != nil {
		return err.Error()
	}
	colors := sampler.Colors()
	const cells = 24
	var b strings.Builder
	for i := range cells {
		c := colors[palette.Index(len(colors), float64(i)/cells)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(palette.FromColor(c))))
		b.WriteString(style.Render("█"))
	}
	return b.String()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIZE\tLINE WIDTH\tSTEP LIMIT\tBACKGROUND")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		bg := "transparent"
		if !cfg.Background.Empty() {
			bg = fmt.Sprint(cfg.Background.Palette)
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%v\t%d\t%s\n", name, cfg.Width, cfg.Height, cfg.LineWidth, cfg.StepLimit, bg)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.OutDir, cfg.ImageFormat()).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THETA\tSTEPS\tHOME\tSCALE\tTIME\tIMAGE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\t%s\n",
			run.Theta,
			run.Steps,
			run.Home,
			run.Scale,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Image,
		)
	}
	return w.Flush()
}

func joinDecimals[T fmt.Stringer](ds []T) string {
	if len(ds) == 0 {
		return "-"
	}
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
