package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/san-kum/turtlefun/internal/config"
	"github.com/san-kum/turtlefun/internal/logging"
	"github.com/san-kum/turtlefun/internal/palette"
	"github.com/san-kum/turtlefun/internal/turtle"
	"github.com/san-kum/turtlefun/internal/viz"
)

var (
	configFile string
	preset     string
	outDir     string
	logLevel   string
	themeName  string

	steps         int64
	progressEvery int64
	width         int
	height        int
	lineWidth     float64
	lineSpec      string
	bgSpec        string
	formatName    string
	svgOut        bool
	exportCSV     bool
	captionOn     bool
	originMarker  bool

	samplesDir  string
	paletteName string
	workers     int
)

// main registers the commands and exits with status 1 when the command
// fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "turtlefun",
		Short:         "draw turtle spirals that turn theta*n degrees at step n",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.SetLogger(logging.New(os.Stderr, level))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&outDir, "out", config.DefaultOutDir, "image directory")
	pf.StringVar(&logLevel, "log-level", "warn", "trace, debug, info, warn, error or critical")
	pf.StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, "terminal colour theme")

	runCmd := &cobra.Command{
		Use:   "run [theta]",
		Short: "simulate, render and save one spiral",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpiral,
	}
	addRenderFlags(runCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [theta]",
		Short: "run a spiral while following its progress",
		Args:  cobra.ExactArgs(1),
		RunE:  watchSpiral,
	}
	addRenderFlags(watchCmd)

	estimateCmd := &cobra.Command{
		Use:   "estimate [theta]",
		Short: "print dominant angles and origin-return candidates",
		Args:  cobra.ExactArgs(1),
		RunE:  estimateTheta,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [theta]",
		Short: "simulate and describe the path in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectTheta,
	}
	inspectCmd.Flags().Int64Var(&steps, "steps", 0, "fixed step count (0 searches for the origin return)")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "render every theta of a yaml batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addRenderFlags(batchCmd)
	batchCmd.Flags().IntVar(&workers, "workers", 1, "thetas rendered at once")

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "list built-in palettes and flavours",
		RunE:  listPalettes,
	}
	palettesCmd.Flags().StringVar(&samplesDir, "samples", "", "write flavour samples into this directory")
	palettesCmd.Flags().StringVar(&paletteName, "palette", "cyclic_hue", "palette to sample")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, watchCmd, estimateCmd, inspectCmd, batchCmd, palettesCmd, presetsCmd, listCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64Var(&steps, "steps", 0, "fixed step count (0 searches for the origin return)")
	f.Int64Var(&progressEvery, "progress-every", turtle.DefaultProgressEvery, "progress report cadence in steps")
	f.IntVar(&width, "width", 0, "image width")
	f.IntVar(&height, "height", 0, "image height")
	f.Float64Var(&lineWidth, "line-width", 0, "line width in pixels")
	f.StringVar(&lineSpec, "line", "", "line palette: colour, builtin[:flavour] or yaml")
	f.StringVar(&bgSpec, "background", "", "background palette, none for transparent")
	f.StringVar(&formatName, "format", "", "png or jpeg")
	f.BoolVar(&svgOut, "svg", false, "also write an svg")
	f.BoolVar(&exportCSV, "export", false, "also write the positions as csv")
	f.BoolVar(&captionOn, "caption", false, "print the turtle program on the image")
	f.BoolVar(&originMarker, "origin", false, "mark the origin")
}

// loadConfig builds the effective configuration: defaults, then the
// preset, then the config file, then flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutDir = outDir
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("progress-every") {
		cfg.ProgressEvery = progressEvery
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("line-width") {
		cfg.LineWidth = lineWidth
	}
	if flags.Changed("line") {
		spec, err := palette.Parse(lineSpec)
		if err != nil {
			return nil, err
		}
		cfg.Line = spec
	}
	if flags.Changed("background") {
		spec, err := palette.Parse(bgSpec)
		if err != nil {
			return nil, err
		}
		cfg.Background = spec
	}
	if flags.Changed("format") {
		cfg.Format = formatName
	}
	if flags.Changed("svg") {
		cfg.SVG = svgOut
	}
	if flags.Changed("export") {
		cfg.Positions = exportCSV
	}
	if flags.Changed("caption") {
		cfg.Caption.Enabled = captionOn
	}
	if flags.Changed("origin") {
		cfg.OriginMarker = originMarker
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseTheta(arg string) (decimal.Decimal, error) {
	theta, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", turtle.ErrInvalidTheta, arg)
	}
	return theta, nil
}

func styles() viz.Styles {
	return viz.NewStyles(viz.GetTheme(themeName))
}
