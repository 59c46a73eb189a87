// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"flamegraph/internal/collapse"
	"flamegraph/internal/color"
	"flamegraph/internal/errs"
	"flamegraph/internal/util"
)

// titleCaser renders the --nametype label ("function" -> "Function")
// for the frame tooltip prefix.
var titleCaser = cases.Title(language.English)

// searchHighlight is the fill flamegraph.pl and inferno both use for a
// frame pre-matched by --search, the same magenta the interactive
// search script applies on click, when --searchcolor isn't set.
const searchHighlight = "rgb(230,0,230)"

const (
	marginTop     = 24 // title + subtitle band
	marginBottom  = 8
	detailsHeight = 17
	fluidRefWidth = 1200 // reference pixel width for min_width pixel math when image_width is unset (fluid)
)

// backgroundStops maps a background basic-palette name to its
// top/bottom gradient stop colors (spec.md §4.6, "Background color
// defaults").
var backgroundStops = map[color.BasicName][2]string{
	color.BasicName("yellow"): {"#eeeeee", "#eeeeb0"},
	color.BasicName("blue"):   {"#eeeeee", "#e0e0ff"},
	color.BasicName("green"):  {"#eeeeee", "#e0ffe0"},
	color.BasicName("grey"):   {"#f8f8f8", "#e8e8e8"},
}

// Render parses folded input from r, builds the frame tree, computes
// geometry, and emits a self-contained interactive SVG flame graph to
// w (spec.md §4.5). It returns the number of frame rectangles written,
// for callers that report real render-size metrics.
func Render(r io.Reader, w io.Writer, opts Options) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	root, err := Build(r, BuildOptions{
		ReverseStackOrder: opts.ReverseStackOrder,
		Factor:            opts.Factor,
		Negate:            opts.Negate,
	})
	if err != nil {
		return 0, err
	}
	if root.Value == 0 {
		return 0, errs.New(errs.EmptyProfile, "input produced no stacks; refusing to render an empty SVG")
	}

	palette, err := opts.ResolvePalette()
	if err != nil {
		return 0, err
	}

	imageWidthPx := float64(opts.ImageWidth)
	fluid := opts.ImageWidth == 0
	if fluid {
		imageWidthPx = fluidRefWidth
	}

	frames := Layout(root)
	frames = FilterMinWidth(frames, imageWidthPx, opts.MinWidth)
	depth := MaxDepth(frames) + 1
	if depth < 1 {
		depth = 1
	}
	heightPx := depth*opts.FrameHeight + marginTop + marginBottom + detailsHeight

	seed := opts.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	var search *regexp.Regexp
	if opts.Search != "" {
		search, err = regexp.Compile(opts.Search)
		if err != nil {
			return 0, errs.Wrap(err, errs.ConfigurationError, "compiling --search pattern")
		}
	}

	bw := bufio.NewWriter(w)
	doc := &svgDoc{
		w:            bw,
		opts:         opts,
		palette:      palette,
		mode:         opts.ColorMode(),
		rng:          color.NewLCG(seed),
		imageWidthPx: imageWidthPx,
		fluid:        fluid,
		heightPx:     heightPx,
		total:        root.Value,
		search:       search,
	}
	if err := doc.write(frames); err != nil {
		return 0, errs.Wrap(err, errs.IoError, "writing svg output")
	}
	if err := bw.Flush(); err != nil {
		return 0, errs.Wrap(err, errs.IoError, "flushing svg output")
	}
	return len(frames), nil
}

type svgDoc struct {
	w            *bufio.Writer
	opts         Options
	palette      color.Palette
	mode         color.Mode
	rng          *color.LCG
	imageWidthPx float64
	fluid        bool
	heightPx     int
	total        int64
	search       *regexp.Regexp
}

func (d *svgDoc) write(frames []Frame) error {
	var werr error
	p := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(d.w, format, args...)
	}

	widthAttr := fmt.Sprintf("%d", int(d.imageWidthPx))
	viewBox := fmt.Sprintf("0 0 %d %d", int(d.imageWidthPx), d.heightPx)

	p("<?xml version=\"1.0\" standalone=\"no\"?>\n")
	p("<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\" \"http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd\">\n")
	if d.opts.Notes != "" {
		p("<!-- %s -->\n", strings.ReplaceAll(d.opts.Notes, "--", "-‑"))
	}
	if d.fluid {
		p("<svg version=\"1.1\" width=\"100%%\" height=\"%d\" viewBox=\"%s\" onload=\"init(evt)\" xmlns=\"http://www.w3.org/2000/svg\" xmlns:fg=\"http://github.com/flamegraph\">\n", d.heightPx, viewBox)
	} else {
		p("<svg version=\"1.1\" width=\"%s\" height=\"%d\" onload=\"init(evt)\" xmlns=\"http://www.w3.org/2000/svg\" xmlns:fg=\"http://github.com/flamegraph\">\n", widthAttr, d.heightPx)
	}

	var stops [2]string
	if flat, ok := flatBackground(d.opts.BackgroundPalette); ok {
		stops = [2]string{flat, flat}
	} else {
		bg := resolveBackground(d.opts.BackgroundPalette, d.palette)
		s, ok := backgroundStops[bg]
		if !ok {
			s = backgroundStops[color.BasicName("yellow")]
		}
		stops = s
	}
	p("<defs>\n<linearGradient id=\"background\" y1=\"0\" y2=\"1\" x1=\"0\" x2=\"0\">\n")
	p("<stop stop-color=\"%s\" offset=\"5%%\"/>\n", stops[0])
	p("<stop stop-color=\"%s\" offset=\"95%%\"/>\n", stops[1])
	p("</linearGradient>\n</defs>\n")

	p("<style type=\"text/css\">\n%s</style>\n", svgCSS)
	if d.opts.FontType != "" {
		p("<style type=\"text/css\">\ntext { font-family: %s; }\n</style>\n", collapse.EscapeSVGText(d.opts.FontType))
	}
	p("<script type=\"text/ecmascript\">\n<![CDATA[\n%s\n]]>\n</script>\n", interactiveScript)

	p("<rect x=\"0\" y=\"0\" width=\"100%%\" height=\"%d\" fill=\"url(#background)\"/>\n", d.heightPx)

	uiFill := ""
	if d.opts.UIColor != "" {
		uiFill = fmt.Sprintf(" fill=\"%s\"", collapse.EscapeSVGText(d.opts.UIColor))
	}
	if d.opts.Title != "" {
		p("<text id=\"title\" x=\"50%%\" y=\"17\" text-anchor=\"middle\" font-size=\"17\"%s>%s</text>\n", uiFill, collapse.EscapeSVGText(d.opts.Title))
	}
	if d.opts.Subtitle != "" {
		p("<text id=\"subtitle\" x=\"10\" y=\"%d\" font-size=\"12\"%s>%s</text>\n", marginTop-4, uiFill, collapse.EscapeSVGText(d.opts.Subtitle))
	}
	p("<text id=\"details\" x=\"10\" y=\"%d\" font-size=\"12\"%s> </text>\n", d.heightPx-4, uiFill)
	p("<text id=\"unzoom\" x=\"10\" y=\"24\" font-size=\"12\" style=\"opacity:0.0;cursor:pointer\"%s>Reset Zoom</text>\n", uiFill)
	p("<text id=\"search\" x=\"%d\" y=\"24\" font-size=\"12\" style=\"cursor:pointer\"%s>Search</text>\n", int(d.imageWidthPx)-100, uiFill)
	p("<text id=\"ignorecase\" x=\"%d\" y=\"24\" font-size=\"12\" style=\"opacity:0.4;cursor:pointer\"%s>ic</text>\n", int(d.imageWidthPx)-20, uiFill)
	p("<text id=\"matched\" x=\"%d\" y=\"%d\" font-size=\"12\"%s> </text>\n", int(d.imageWidthPx)-100, d.heightPx-4, uiFill)

	p("<svg id=\"frames\" x=\"0\" width=\"100%%\" height=\"%d\">\n", d.heightPx)
	for _, f := range frames {
		if werr != nil {
			break
		}
		d.writeFrame(p, f)
	}
	p("</svg>\n</svg>\n")
	return werr
}

func (d *svgDoc) writeFrame(p func(string, ...any), f Frame) {
	xPx := f.X * d.imageWidthPx
	wPx := f.Width * d.imageWidthPx
	var yPx float64
	if d.opts.Direction == string(DirectionInverted) {
		yPx = float64(marginTop) + float64(f.Depth*d.opts.FrameHeight)
	} else {
		yPx = float64(d.heightPx-detailsHeight-marginBottom) - float64((f.Depth+1)*d.opts.FrameHeight)
	}

	fillColor := d.frameColor(f)
	fullLabel := collapse.EscapeSVGText(f.Node.Name)
	nameType := d.opts.NameType
	if nameType == "" {
		nameType = "function"
	}
	title := fmt.Sprintf("%s: %s (%d %s, %.2f%%)", titleCaser.String(nameType), fullLabel, f.Node.Value, d.opts.CountName, percent(f.Node.Value, d.total))

	strokeAttr := ""
	if d.opts.StrokeColor != "" {
		strokeAttr = fmt.Sprintf(" stroke=\"%s\"", collapse.EscapeSVGText(d.opts.StrokeColor))
	}

	p("<g class=\"func_g\">\n")
	p("<title>%s</title>\n", title)
	p("<rect x=\"%.4f\" y=\"%.4f\" width=\"%.4f\" height=\"%d\" fill=\"%s\"%s fg:x=\"%.4f\" fg:w=\"%.4f\"/>\n",
		xPx, yPx, wPx, d.opts.FrameHeight, fillColor, strokeAttr, xPx, wPx)
	if wPx > 3*float64(d.opts.FontSize) {
		label := collapse.EscapeSVGText(truncateLabel(f.Node.Name, wPx-4, d.opts.FontSize, d.opts.FontWidth))
		p("<text x=\"%.4f\" y=\"%.4f\" font-size=\"%d\">%s</text>\n", xPx+2, yPx+float64(d.opts.FrameHeight)*0.75, d.opts.FontSize, label)
	}
	p("</g>\n")
}

func (d *svgDoc) frameColor(f Frame) string {
	n := f.Node
	if d.search != nil && d.search.MatchString(n.Name) {
		if d.opts.SearchColor != "" {
			return d.opts.SearchColor
		}
		return searchHighlight
	}
	if n.Delta != 0 {
		return diffColor(n.Delta, n.Value)
	}
	if d.opts.ColorDiffusion {
		return color.FrameColorDiffused(d.palette, n.Name, d.mode, d.rng, f.X)
	}
	return color.FrameColor(d.palette, n.Name, d.mode, d.rng)
}

// truncateLabel fits name into widthPx by the spec.md §4.7 step 5
// text-fit heuristic: floor(width_px / (font_size * font_width))
// characters, preferring to keep the rightmost identifier (the
// innermost scope or the function's own name, for a "a::b::c" path)
// when a name must be cut.
func truncateLabel(name string, widthPx float64, fontSize int, fontWidth float64) string {
	if fontSize <= 0 || fontWidth <= 0 {
		return name
	}
	maxChars := int(widthPx / (float64(fontSize) * fontWidth))
	runes := []rune(name)
	if maxChars <= 0 || len(runes) <= maxChars {
		return name
	}
	if maxChars <= 2 {
		return string(runes[len(runes)-maxChars:])
	}
	keep := maxChars - 2
	return ".." + string(runes[len(runes)-keep:])
}

// diffColor renders a differential frame red when it grew (positive
// delta) and blue when it shrank, intensity scaled by the
// fraction of the frame's value the delta represents.
func diffColor(delta, value int64) string {
	if value == 0 {
		return "#eeeeee"
	}
	ratio := float64(delta) / float64(value)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < -1 {
		ratio = -1
	}
	if ratio >= 0 {
		g := int(255 - 210*ratio)
		return color.RGBHex(255, g, g)
	}
	g := int(255 - 210*(-ratio))
	return color.RGBHex(g, g, 255)
}

func percent(value, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(value) / float64(total)
}

// flatBackground recognizes the "flat #rrggbb" --bgcolors form (spec.md
// §6), returning the literal color and true when requested uses it.
func flatBackground(requested string) (string, bool) {
	const prefix = "flat "
	if !strings.HasPrefix(requested, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(requested, prefix)), true
}

// backgroundPaletteNames are the recognized literal --bgcolors values
// besides "" (default) and the "flat #rrggbb" form.
var backgroundPaletteNames = []string{"yellow", "blue", "green", "grey"}

func resolveBackground(requested string, fg color.Palette) color.BasicName {
	if requested != "" && util.StringInList(requested, backgroundPaletteNames) {
		return color.BasicName(requested)
	}
	return color.BackgroundDefault(fg)
}
