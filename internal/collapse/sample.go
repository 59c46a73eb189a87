// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"flamegraph/internal/errs"
)

// SampleCollapser parses macOS `sample`'s indentation-based call graph
// (spec.md §4.3, "Sample collapser"): two spaces per depth level, each
// line "<count> <symbol>  (in <module>)".
type SampleCollapser struct {
	opts Options
}

// NewSampleCollapser builds a sample collapser with the given options.
func NewSampleCollapser(opts Options) *SampleCollapser { return &SampleCollapser{opts: opts} }

var sampleLineRegex = regexp.MustCompile(`^( *)(\d+)\s+(.*?)(?:\s+\(in ([^)]*)\))?\s*$`)

// IsApplicable sniffs for the two-space indentation + trailing
// "(in module)" shape that distinguishes `sample` from perf/dtrace.
func (c *SampleCollapser) IsApplicable(sampleBytes []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(sampleBytes)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "(in ") && sampleLineRegex.MatchString(line) {
			return true
		}
	}
	return false
}

// Collapse streams `sample` output into folded text.
func (c *SampleCollapser) Collapse(r io.Reader, w io.Writer) error {
	table := NewTable()
	br := bufio.NewScanner(r)
	br.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	type parsedLine struct {
		depth  int
		count  int64
		symbol string
		ok     bool
	}
	baseIndent := -1 // normalizes the root's leading-space count to depth 0
	parse := func(line string) parsedLine {
		m := sampleLineRegex.FindStringSubmatch(line)
		if m == nil {
			return parsedLine{}
		}
		indent := leadingSpaces(m[1])
		if baseIndent == -1 {
			baseIndent = indent
		}
		depth := (indent - baseIndent) / 2
		if depth < 0 {
			depth = 0
		}
		count, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return parsedLine{}
		}
		symbol := TidyName(m[3], TidyOptions{Generic: c.opts.TidyGeneric, Java: c.opts.TidyJava})
		if !c.opts.NoModules && m[4] != "" {
			symbol = fmt.Sprintf("%s (in %s)", symbol, m[4])
		}
		return parsedLine{depth: depth, count: count, symbol: symbol, ok: true}
	}

	// One-line lookahead: a node is only known to be a leaf once the
	// following parseable line's depth is seen, so the pending node is
	// held back one step rather than buffering the whole input.
	var stack []string
	var pending parsedLine
	havePending := false

	emitIfLeaf := func(nextDepth int) {
		if !havePending {
			return
		}
		if nextDepth <= pending.depth {
			table.Put(strings.Join(stack, ";"), pending.count)
		}
	}

	for br.Scan() {
		cur := parse(br.Text())
		if !cur.ok {
			continue
		}
		emitIfLeaf(cur.depth)

		if cur.depth > len(stack) {
			cur.depth = len(stack) // malformed input jumped more than one level; attach one level below the deepest frame
		}
		stack = append(stack[:cur.depth], cur.symbol)
		pending = cur
		havePending = true
	}
	if err := br.Err(); err != nil {
		return errs.Wrap(err, errs.IoError, "reading sample input")
	}
	emitIfLeaf(-1)
	return table.Write(w)
}
