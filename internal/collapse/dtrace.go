// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"flamegraph/internal/errs"
)

// DTraceCollapser parses DTrace `ustack()`/`@[...] = count()` output
// (spec.md §4.3, "DTrace collapser"): repeated blocks of one symbol
// per line (leaf first), an optional blank line, then a single
// indented integer giving the block's count.
type DTraceCollapser struct {
	opts Options
}

// NewDTraceCollapser builds a DTrace collapser with the given options.
func NewDTraceCollapser(opts Options) *DTraceCollapser { return &DTraceCollapser{opts: opts} }

var (
	dtraceIntegerRegex = regexp.MustCompile(`^\s*-?\d+\s*$`)
	dtraceCommRegex    = regexp.MustCompile(`^\S+-\d+$`)
	kernelModules      = []string{"unix", "genunix", "dtrace", "fbt", "sched", "vmm"}
)

// IsApplicable reports true once a backtick-separated "module`symbol"
// frame line has been followed by a line holding only an integer count.
func (c *DTraceCollapser) IsApplicable(sample []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(sample)))
	sawSymbol := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "dtrace:") {
			continue
		}
		if strings.Contains(line, "`") {
			sawSymbol = true
			continue
		}
		if dtraceIntegerRegex.MatchString(line) && sawSymbol {
			return true
		}
	}
	return false
}

// Collapse streams DTrace output into folded text.
func (c *DTraceCollapser) Collapse(r io.Reader, w io.Writer) error {
	table := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		stack []string
		comm  string
	)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := trimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "dtrace:") {
			continue // DTrace-emitted warning, not fatal
		}
		if dtraceIntegerRegex.MatchString(trimmed) {
			count, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				continue
			}
			if len(stack) > 0 {
				final := slices.Clone(stack)
				slices.Reverse(final)
				if c.opts.IncludePname && comm != "" {
					final = append([]string{comm}, final...)
				}
				table.Put(strings.Join(final, ";"), count)
			}
			stack = nil
			continue
		}
		if dtraceCommRegex.MatchString(trimmed) {
			comm = trimmed
			continue
		}
		// a symbol line
		stack = append(stack, tidyDTraceSymbol(trimmed, c.opts))
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(err, errs.IoError, "reading dtrace input")
	}
	return table.Write(w)
}

// tidyDTraceSymbol parses "module", "module`symbol+offset", or a raw
// hex address, strips the offset, classifies kernel modules, and
// annotates per opts.
func tidyDTraceSymbol(sym string, opts Options) string {
	sym = StripSymbolOffset(sym)
	module := sym
	name := sym
	if idx := findByte(sym, '`'); idx != -1 {
		module = sym[:idx]
		name = sym[idx+1:]
	}
	kernel := slices.Contains(kernelModules, module) || strings.HasSuffix(module, ".ko")
	if opts.AnnotateKernel && kernel {
		if !strings.HasSuffix(name, "_[k]") {
			name += "_[k]"
		}
	}
	return TidyName(name, TidyOptions{Generic: opts.TidyGeneric, Java: opts.TidyJava})
}
