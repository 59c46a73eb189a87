// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"os"

	"gopkg.in/yaml.v2"

	"flamegraph/internal/color"
	"flamegraph/internal/errs"
)

// Direction chooses whether the graph grows up from the bottom (a
// flame graph) or down from the top (an icicle graph).
type Direction string

const (
	DirectionNormal   Direction = "normal"
	DirectionInverted Direction = "inverted"
)

// Options is the renderer's full configuration surface (spec.md §3,
// "Render options").
type Options struct {
	Palette            string  `yaml:"palette"`
	Direction           string  `yaml:"direction"`
	ImageWidth          int     `yaml:"image_width"` // 0 = fluid, 100% viewport
	FrameHeight         int     `yaml:"frame_height"`
	MinWidth            float64 `yaml:"min_width"`
	FontType            string  `yaml:"font_type"`
	FontSize            int     `yaml:"font_size"`
	FontWidth           float64 `yaml:"font_width"`
	Title               string  `yaml:"title"`
	Subtitle            string  `yaml:"subtitle"`
	Notes               string  `yaml:"notes"`
	CountName           string  `yaml:"count_name"`
	NameType            string  `yaml:"name_type"`
	SearchColor         string  `yaml:"search_color"`
	UIColor             string  `yaml:"ui_color"`
	StrokeColor         string  `yaml:"stroke_color"`
	HashColors          bool    `yaml:"hash_colors"`
	Deterministic       bool    `yaml:"deterministic"` // --cp: FNV-1a derivation
	ColorDiffusion      bool    `yaml:"color_diffusion"`
	Factor              float64 `yaml:"factor"`
	ReverseStackOrder   bool    `yaml:"reverse_stack_order"`
	Negate              bool    `yaml:"negate"`
	BackgroundPalette   string  `yaml:"bgcolors"` // "", "yellow", "blue", "green", "grey", or "flat #rrggbb"
	Search              string  `yaml:"search"`

	// Seed fixes the default random color mode's LCG for reproducible
	// output (tests, golden-file comparisons); zero means "derive one
	// from the current time." Not a user-facing config knob, so it
	// carries no yaml tag.
	Seed uint32
}

// DefaultOptions mirrors flamegraph.pl/inferno's conventional
// defaults, adapted to this renderer's field names.
func DefaultOptions() Options {
	return Options{
		Palette:     "hot",
		Direction:   string(DirectionNormal),
		Title:       "Flame Graph",
		FrameHeight: 16,
		MinWidth:    0.1,
		FontType:    "Verdana",
		FontSize:    12,
		FontWidth:   0.59,
		CountName:   "samples",
		NameType:    "function",
		Factor:      1,
	}
}

// Load overlays YAML-file settings onto o; flags parsed after Load is
// called by the CLI still win, since the CLI applies flag values only
// when they were explicitly set (cobra's Changed() check) after this
// call populates the base.
func (o *Options) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(err, errs.IoError, "reading render config file")
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return errs.Wrap(err, errs.ConfigurationError, "parsing render config file")
	}
	return nil
}

// Validate rejects option combinations spec.md §7 calls out as a
// ConfigurationError.
func (o Options) Validate() error {
	if o.MinWidth < 0 {
		return errs.New(errs.ConfigurationError, "min_width must not be negative")
	}
	if o.ImageWidth < 0 {
		return errs.New(errs.ConfigurationError, "image_width must not be negative")
	}
	if o.Factor <= 0 {
		return errs.New(errs.ConfigurationError, "factor must be positive")
	}
	if o.Direction != string(DirectionNormal) && o.Direction != string(DirectionInverted) {
		return errs.Newf(errs.ConfigurationError, "unrecognized direction %q", o.Direction)
	}
	return nil
}

// ResolvePalette parses the configured palette name.
func (o Options) ResolvePalette() (color.Palette, error) {
	p, ok := color.ParsePalette(o.Palette)
	if !ok {
		return color.Palette{}, errs.Newf(errs.ConfigurationError, "unrecognized palette %q", o.Palette)
	}
	return p, nil
}

// ColorMode resolves which of the three color-derivation modes
// (spec.md §4.6) this configuration selects.
func (o Options) ColorMode() color.Mode {
	switch {
	case o.Deterministic:
		return color.ModeDeterministic
	case o.HashColors:
		return color.ModeHash
	default:
		return color.ModeRandom
	}
}
