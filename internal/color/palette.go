// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package color implements the flame-graph color engine (spec.md
// §4.6): palette resolution, per-language semantic classification, and
// the three color-derivation modes (randomized, hash-based,
// deterministic FNV).
package color

import "strings"

// BasicName names one of the ten base RGB-centerpoint palettes.
type BasicName string

const (
	Hot    BasicName = "hot"
	Mem    BasicName = "mem"
	IO     BasicName = "io"
	Red    BasicName = "red"
	Green  BasicName = "green"
	Blue   BasicName = "blue"
	Aqua   BasicName = "aqua"
	Yellow BasicName = "yellow"
	Purple BasicName = "purple"
	Orange BasicName = "orange"
)

// SemanticName names a language-aware palette that classifies a frame
// name into a BasicName before sampling its RGB range.
type SemanticName string

const (
	Java   SemanticName = "java"
	JS     SemanticName = "js"
	Perl   SemanticName = "perl"
	Python SemanticName = "python"
	Rust   SemanticName = "rust"
	Wakeup SemanticName = "wakeup"
)

// Palette is a tagged Basic(name) | Semantic(lang) configuration value
// (spec.md §3, "Palette specification").
type Palette struct {
	Basic    BasicName
	Semantic SemanticName
	isSem    bool
}

// NewBasicPalette builds a Basic(name) palette.
func NewBasicPalette(name BasicName) Palette { return Palette{Basic: name} }

// NewSemanticPalette builds a Semantic(lang) palette.
func NewSemanticPalette(name SemanticName) Palette { return Palette{Semantic: name, isSem: true} }

// IsSemantic reports whether p classifies by frame name rather than
// naming a basic palette directly.
func (p Palette) IsSemantic() bool { return p.isSem }

// ParsePalette recognizes the --colors flag's accepted values.
func ParsePalette(s string) (Palette, bool) {
	switch BasicName(s) {
	case Hot, Mem, IO, Red, Green, Blue, Aqua, Yellow, Purple, Orange:
		return NewBasicPalette(BasicName(s)), true
	}
	switch SemanticName(s) {
	case Java, JS, Perl, Python, Rust, Wakeup:
		return NewSemanticPalette(SemanticName(s)), true
	}
	return Palette{}, false
}

// rgbRange is a base RGB centerpoint plus three scaling deltas from
// which randomized variance is drawn (spec.md §4.6).
type rgbRange struct {
	rBase, rScale int
	gBase, gScale int
	bBase, bScale int
}

// basicRanges holds each basic palette's (base, scale) triple per
// channel. These are the classic FlameGraph-family hot/cold palette
// centerpoints; no Go source in the reference corpus defines flame
// graph RGB constants, so these values follow the spec's qualitative
// description (warm reds/yellows for "hot", cool greens for "mem", etc.)
// rather than being ported from any example file.
var basicRanges = map[BasicName]rgbRange{
	Hot:    {205, 50, 0, 230, 0, 55},
	Mem:    {0, 0, 190, 50, 0, 210},
	IO:     {80, 60, 80, 60, 190, 55},
	Red:    {200, 55, 0, 60, 0, 60},
	Green:  {0, 60, 190, 55, 0, 60},
	Blue:   {0, 60, 0, 60, 190, 55},
	Aqua:   {0, 55, 160, 55, 160, 55},
	Yellow: {175, 55, 175, 55, 0, 55},
	Purple: {160, 55, 0, 55, 160, 55},
	Orange: {190, 55, 90, 55, 0, 55},
}

// component computes t(base, scale, v) = base + floor(scale*v) (spec.md
// §4.6, "Color value computation").
func component(base, scale int, v float64) int {
	n := base + int(float64(scale)*v)
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return n
}

// RGB computes a palette's concrete color for a frame, given the three
// drawn scalars v1, v2, v3 (the component mapping is R<-v1, G<-v2,
// B<-v3, matching the spec's basic-palette channel ordering).
func RGB(name BasicName, v1, v2, v3 float64) (r, g, b int) {
	rng, ok := basicRanges[name]
	if !ok {
		rng = basicRanges[Hot]
	}
	return component(rng.rBase, rng.rScale, v1),
		component(rng.gBase, rng.gScale, v2),
		component(rng.bBase, rng.bScale, v3)
}

// Classify resolves a Palette to a concrete BasicName for a given
// frame name: Basic palettes pass through unchanged, Semantic palettes
// run their per-language classifier.
func Classify(p Palette, name string) BasicName {
	if !p.IsSemantic() {
		return p.Basic
	}
	switch p.Semantic {
	case Java:
		return classifyJava(name)
	case JS:
		return classifyJS(name)
	case Perl:
		return classifyPerl(name)
	case Python:
		return classifyPython(name)
	case Rust:
		return classifyRust(name)
	case Wakeup:
		return Aqua
	default:
		return Hot
	}
}

func classifyJava(name string) BasicName {
	switch {
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.HasSuffix(name, "_[i]"):
		return Aqua
	case strings.HasSuffix(name, "_[j]"):
		return Green
	}
	if strings.Contains(name, "::") || strings.HasPrefix(name, "-[") || strings.HasPrefix(name, "+[") {
		return Yellow
	}
	stripped := strings.TrimPrefix(name, "L")
	if strings.Contains(stripped, "/") {
		return Green
	}
	if strings.Contains(stripped, ".") && !strings.HasPrefix(name, "[") {
		return Green
	}
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return Green
	}
	return Red
}

func classifyPerl(name string) BasicName {
	switch {
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.Contains(name, "Perl") || strings.Contains(name, ".pl"):
		return Green
	case strings.Contains(name, "::"):
		return Yellow
	default:
		return Red
	}
}

func classifyPython(name string) BasicName {
	switch {
	case strings.Contains(name, "site-packages"):
		return Aqua
	case strings.Contains(name, "python") || strings.Contains(name, "Python"),
		strings.HasPrefix(name, "<built-in"), strings.HasPrefix(name, "<method"), strings.HasPrefix(name, "<frozen"):
		return Yellow
	default:
		return Red
	}
}

func classifyJS(name string) BasicName {
	if strings.TrimSpace(name) == "" {
		return Green
	}
	switch {
	case strings.HasSuffix(name, "_[k]"):
		return Orange
	case strings.HasSuffix(name, "_[j]"):
		if strings.Contains(name, "/") {
			return Green
		}
		return Aqua
	case strings.Contains(name, "::"):
		return Yellow
	case strings.Contains(name, ":"):
		return Aqua
	case strings.Contains(name, "node_modules/"):
		return Purple
	case strings.HasSuffix(name, ".js"):
		return Green
	default:
		return Red
	}
}

func classifyRust(name string) BasicName {
	if idx := strings.LastIndex(name, "`"); idx != -1 {
		name = name[idx+1:]
	}
	if name == "<core::future::from_generator::GenFuture<T>" {
		return Yellow
	}
	for _, prefix := range []string{"core::", "std::", "alloc::", "<core::", "<std::", "<alloc::"} {
		if strings.HasPrefix(name, prefix) {
			return Orange
		}
	}
	if strings.Contains(name, "::") {
		return Aqua
	}
	return Yellow
}

// BackgroundDefault returns the default background palette for a
// given foreground basic palette (spec.md §4.6).
func BackgroundDefault(p Palette) BasicName {
	name := p.Basic
	if p.IsSemantic() {
		switch p.Semantic {
		case Wakeup:
			return Blue
		default:
			return Yellow
		}
	}
	switch name {
	case Mem:
		return Green
	case IO:
		return Blue
	case Red, Green, Blue, Aqua, Yellow, Purple, Orange:
		return BasicName("grey")
	default:
		return Yellow
	}
}
