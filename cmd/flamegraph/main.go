// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Command flamegraph reads profiler output (or already-folded text),
// collapses it to folded stacks, and renders a self-contained
// interactive SVG flame graph.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"flamegraph/internal/app"
	"flamegraph/internal/collapse"
	"flamegraph/internal/errs"
	"flamegraph/internal/metrics"
	"flamegraph/internal/progress"
	"flamegraph/internal/render"
	"flamegraph/internal/util"
)

var examples = []string{
	fmt.Sprintf("  Render from standard input:         $ perf script | %s > out.svg", app.Name),
	fmt.Sprintf("  Render a specific format:           $ %s --format vtune profile.csv -o out.svg", app.Name),
	fmt.Sprintf("  Render an inverted icicle graph:    $ %s --inverted profile.txt", app.Name),
	fmt.Sprintf("  Render a differential flame graph:  $ diff-folded before.folded after.folded | %s -o diff.svg", app.Name),
}

var rootCmd = &cobra.Command{
	Use:           app.Name + " [OPTIONS] [INPUT]",
	Short:         "Render a flame graph SVG from profiler output",
	Example:       strings.Join(examples, "\n"),
	Args:          validateArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCmd,
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errs.Newf(errs.ConfigurationError, "expected at most one INPUT argument, got %d", len(args))
	}
	return nil
}

var (
	flagFormat      string
	flagOutput      string
	flagConfig      string
	flagTitle       string
	flagSubtitle    string
	flagNotes       string
	flagCountName   string
	flagNameType    string
	flagWidth       int
	flagHeight      int
	flagMinWidth    float64
	flagFontType    string
	flagFontSize    int
	flagFontWidth   float64
	flagColors      string
	flagBgColors    string
	flagHash        bool
	flagCP          bool
	flagReverse     bool
	flagInverted    bool
	flagFlameChart  bool
	flagNegate      bool
	flagFactor      float64
	flagSearch      string
	flagSearchColor string
	flagUIColor     string
	flagStrokeColor string
	flagDiffusion   bool
	flagDebug       bool
	flagMetricsAddr string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagFormat, "format", string(collapse.FormatGuess), "input format: perf|dtrace|sample|vtune|xctrace|recursive|guess")
	flags.StringVarP(&flagOutput, "output", "o", "", "write SVG to this file instead of standard output")
	flags.StringVar(&flagConfig, "config", "", "YAML file overlaying render options before flags are applied")
	flags.StringVar(&flagTitle, "title", "Flame Graph", "graph title")
	flags.StringVar(&flagSubtitle, "subtitle", "", "graph subtitle")
	flags.StringVar(&flagNotes, "notes", "", "free-form notes embedded in the SVG")
	flags.StringVar(&flagCountName, "countname", "samples", "unit name shown in frame tooltips")
	flags.StringVar(&flagNameType, "nametype", "function", "label shown for the frame axis, e.g. \"function\"")
	flags.IntVar(&flagWidth, "width", 0, "image pixel width; 0 = fluid (100% viewport)")
	flags.IntVar(&flagHeight, "height", 16, "frame height in pixels")
	flags.Float64Var(&flagMinWidth, "minwidth", 0.1, "minimum frame width in pixels before a frame is dropped")
	flags.StringVar(&flagFontType, "fonttype", "Verdana", "SVG font family")
	flags.IntVar(&flagFontSize, "fontsize", 12, "SVG font size")
	flags.Float64Var(&flagFontWidth, "fontwidth", 0.59, "average font character width, in ems")
	flags.StringVar(&flagColors, "colors", "hot", "basic palette or semantic palette: hot|mem|io|red|green|blue|aqua|yellow|purple|orange|java|js|perl|python|rust|wakeup")
	flags.StringVar(&flagBgColors, "bgcolors", "", "background palette: yellow|blue|green|grey, or \"flat #rrggbb\"")
	flags.BoolVar(&flagHash, "hash", false, "derive color from a deterministic hash of the frame name")
	flags.BoolVar(&flagCP, "cp", false, "derive color deterministically via FNV-1a (takes precedence over --hash)")
	flags.BoolVar(&flagReverse, "reverse", false, "reverse each folded stack's frame order before building the graph (leaf to root)")
	flags.BoolVar(&flagInverted, "inverted", false, "draw an icicle graph growing down from the top")
	// Accepted for CLI-contract completeness and has no effect: the
	// collapse step writes stacks sorted by name, and the renderer lays
	// siblings out in that order, so chronological sample order is not
	// preserved.
	flags.BoolVar(&flagFlameChart, "flamechart", false, "accepted for compatibility; has no effect (siblings are drawn in sorted stack order)")
	flags.BoolVar(&flagNegate, "negate", false, "for differential input, use the \"before\" column as frame width")
	flags.Float64Var(&flagFactor, "factor", 1, "multiply every input count by this scale factor")
	flags.StringVar(&flagSearch, "search", "", "pre-highlight frames matching this regular expression")
	flags.StringVar(&flagSearchColor, "searchcolor", "", "CSS color for search-matched frames (default: magenta)")
	flags.StringVar(&flagUIColor, "uicolor", "", "CSS color for the unzoom/search/ignorecase/details chrome text")
	flags.StringVar(&flagStrokeColor, "strokecolor", "", "CSS color for each frame rectangle's stroke outline")
	flags.BoolVar(&flagDiffusion, "diffusion", false, "spread palette hue across siblings by horizontal position instead of drawing each independently")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging to standard error")
	flags.StringVar(&flagMetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while rendering")

	rootCmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s\n\n", cmd.UseLine())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		cmd.Printf("  --%-15s %s (default: %s)\n", f.Name, f.Usage, f.DefValue)
	})
	return nil
}

// validFormats lists every --format value ByFormat/NewGuessCollapser
// recognizes, in the order the usage text advertises them.
var validFormats = []string{
	string(collapse.FormatPerf), string(collapse.FormatDTrace), string(collapse.FormatSample),
	string(collapse.FormatVTune), string(collapse.FormatXCTrace), string(collapse.FormatRecursive), string(collapse.FormatGuess),
}

func validateFlags() error {
	if _, err := util.StringIndexInList(flagFormat, validFormats); err != nil {
		return errs.Wrap(err, errs.ConfigurationError, "--format")
	}
	if flagWidth < 0 {
		return errs.New(errs.ConfigurationError, "--width must not be negative")
	}
	if flagMinWidth < 0 {
		return errs.New(errs.ConfigurationError, "--minwidth must not be negative")
	}
	if flagFactor <= 0 {
		return errs.New(errs.ConfigurationError, "--factor must be positive")
	}
	return nil
}

// buildRenderOptions loads --config (if given) as the base, then
// overlays only the flags the user actually set, so a config-file
// value survives when its corresponding flag was left at its default
// (SPEC_FULL.md §4.8).
func buildRenderOptions(flags *pflag.FlagSet) (render.Options, error) {
	opts := render.DefaultOptions()
	if flagConfig != "" {
		if err := opts.Load(flagConfig); err != nil {
			return opts, err
		}
	}

	changed := flags.Changed
	if changed("title") {
		opts.Title = flagTitle
	}
	if changed("subtitle") {
		opts.Subtitle = flagSubtitle
	}
	if changed("notes") {
		opts.Notes = flagNotes
	}
	if changed("countname") {
		opts.CountName = flagCountName
	}
	if changed("nametype") {
		opts.NameType = flagNameType
	}
	if changed("width") {
		opts.ImageWidth = flagWidth
	}
	if changed("height") {
		opts.FrameHeight = flagHeight
	}
	if changed("minwidth") {
		opts.MinWidth = flagMinWidth
	}
	if changed("fonttype") {
		opts.FontType = flagFontType
	}
	if changed("fontsize") {
		opts.FontSize = flagFontSize
	}
	if changed("fontwidth") {
		opts.FontWidth = flagFontWidth
	}
	if changed("colors") {
		opts.Palette = flagColors
	}
	if changed("bgcolors") {
		opts.BackgroundPalette = flagBgColors
	}
	if changed("hash") {
		opts.HashColors = flagHash
	}
	if changed("cp") {
		opts.Deterministic = flagCP
	}
	if changed("reverse") {
		opts.ReverseStackOrder = flagReverse
	}
	if changed("negate") {
		opts.Negate = flagNegate
	}
	if changed("factor") {
		opts.Factor = flagFactor
	}
	if changed("search") {
		opts.Search = flagSearch
	}
	if changed("searchcolor") {
		opts.SearchColor = flagSearchColor
	}
	if changed("uicolor") {
		opts.UIColor = flagUIColor
	}
	if changed("strokecolor") {
		opts.StrokeColor = flagStrokeColor
	}
	if changed("diffusion") {
		opts.ColorDiffusion = flagDiffusion
	}
	if changed("inverted") {
		if flagInverted {
			opts.Direction = string(render.DirectionInverted)
		} else {
			opts.Direction = string(render.DirectionNormal)
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	path := args[0]
	exists, err := util.FileExists(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.ConfigurationError, fmt.Sprintf("input %q", path))
	}
	if !exists {
		return nil, errs.Newf(errs.ConfigurationError, "input file %q does not exist", path)
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, errs.Wrap(err, errs.IoError, fmt.Sprintf("opening input %q", path))
	}
	return f, nil
}

func openOutput() (io.WriteCloser, error) {
	if flagOutput == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(flagOutput) // #nosec G304
	if err != nil {
		return nil, errs.Wrap(err, errs.IoError, fmt.Sprintf("creating output %q", flagOutput))
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func runCmd(cmd *cobra.Command, args []string) error {
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &logOpts)))

	if err := validateFlags(); err != nil {
		return err
	}
	opts, err := buildRenderOptions(cmd.Flags())
	if err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		shutdown := metrics.Serve(flagMetricsAddr)
		defer func() { _ = shutdown(cmd.Context()) }()
	}

	spin := progress.NewSpinner()
	spin.Start()
	defer spin.Finish()

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	spin.Status("collapsing stacks")
	var folded bytes.Buffer
	collapseOpts := collapse.DefaultOptions()
	var collapser collapse.Collapser
	if flagFormat == string(collapse.FormatGuess) {
		collapser = collapse.NewGuessCollapser(collapseOpts)
	} else {
		collapser = collapse.ByFormat(collapse.Format(flagFormat), collapseOpts)
	}
	if err := collapser.Collapse(in, &folded); err != nil {
		return err
	}
	stacksCollapsed := bytes.Count(folded.Bytes(), []byte("\n"))
	metrics.StacksCollapsed.WithLabelValues(flagFormat).Add(float64(stacksCollapsed))

	spin.Status("rendering svg")
	out, err := openOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	framesRendered, err := render.Render(bytes.NewReader(folded.Bytes()), out, opts)
	if err != nil {
		return err
	}
	metrics.FramesRendered.WithLabelValues(opts.Palette).Add(float64(framesRendered))

	p := message.NewPrinter(language.English)
	slog.Info(p.Sprintf("rendered flame graph (%d bytes folded)", folded.Len()))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the flamegraph CLI's documented exit
// codes (spec.md §6): 2 for a configuration/argument error (including
// cobra's own flag-parsing failures, which are never Kind-tagged), 1
// for every other failure.
func exitCodeFor(err error) int {
	if errs.Is(err, errs.ConfigurationError) {
		return 2
	}
	var tagged *errs.Error
	if errors.As(err, &tagged) {
		return 1
	}
	return 2
}
