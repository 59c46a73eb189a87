// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package collapse implements the streaming stack collapsers: parsers
// that turn heterogeneous profiler output into canonical folded text
// (`frame1;frame2;...;frameN<SP>count<LF>`), plus the occurrence table
// and line-lexing primitives they share.
package collapse

import "io"

// Format names the profiler output shapes this package can collapse,
// matching the --format values on the flamegraph CLI.
type Format string

const (
	FormatPerf      Format = "perf"
	FormatDTrace    Format = "dtrace"
	FormatSample    Format = "sample"
	FormatVTune     Format = "vtune"
	FormatXCTrace   Format = "xctrace"
	FormatRecursive Format = "recursive"
	FormatGuess     Format = "guess"
)

// Collapser is the contract every format-specific parser implements
// (spec.md §4.3): a streaming collapse over a reader, and a cheap sniff
// test used by the guess collapser to pick among siblings.
type Collapser interface {
	// Collapse consumes r to EOF and writes canonical folded output to w.
	Collapse(r io.Reader, w io.Writer) error
	// IsApplicable reports whether sample, a short prefix of the input,
	// looks like this collapser's format.
	IsApplicable(sample []byte) bool
}

// ByFormat returns the Collapser for a named format, or nil if the
// name does not match one of the registered formats (the guess format
// is synthesized from the others, not looked up here).
func ByFormat(f Format, opts Options) Collapser {
	switch f {
	case FormatPerf:
		return NewPerfCollapser(opts)
	case FormatDTrace:
		return NewDTraceCollapser(opts)
	case FormatSample:
		return NewSampleCollapser(opts)
	case FormatVTune:
		return NewVTuneCollapser(opts)
	case FormatXCTrace:
		return NewXCTraceCollapser(opts)
	case FormatRecursive:
		return NewRecursiveCollapser()
	default:
		return nil
	}
}

// Options holds the tidying/annotation knobs recognized across the
// raw-profiler collapsers. Not every collapser honors every field.
type Options struct {
	AnnotateKernel bool
	AnnotateJit    bool
	IncludePname   bool
	IncludePid     bool
	IncludeTid     bool
	IncludeAddrs   bool
	TidyJava       bool
	TidyGeneric    bool
	EventFilter    string
	NoModules      bool // sample collapser: strip "(in module)" suffixes
	SkipAfter      []string
}

// DefaultOptions mirrors the teacher's stackcollapse-perf defaults:
// process names included, generic and Java tidying on, everything
// else off until asked for.
func DefaultOptions() Options {
	return Options{
		IncludePname: true,
		TidyJava:     true,
		TidyGeneric:  true,
	}
}
