// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"flamegraph/internal/errs"
	"flamegraph/internal/metrics"
)

// VTuneCollapser parses Intel VTune's "Bottom-up" CSV export (spec.md
// §4.3, "VTune collapser"): one call path per line, "module->function"
// segments separated by "->", a trailing CPU-time-in-microseconds
// column. VTune emits fractional microseconds; the folded format only
// carries integer counts, so the collapser truncates and warns once.
type VTuneCollapser struct {
	opts Options
}

// NewVTuneCollapser builds a VTune collapser with the given options.
func NewVTuneCollapser(opts Options) *VTuneCollapser { return &VTuneCollapser{opts: opts} }

// IsApplicable sniffs for the "->"-separated path shape, comma
// separating it from a trailing numeric column.
func (c *VTuneCollapser) IsApplicable(sample []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(sample)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.Contains(line, "->") && strings.Contains(line, ",") {
			return true
		}
	}
	return false
}

// Collapse streams a VTune bottom-up CSV export into folded text.
func (c *VTuneCollapser) Collapse(r io.Reader, w io.Writer) error {
	table := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	warnedTruncation := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := trimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, "->") {
			continue
		}
		idx := strings.LastIndex(line, ",")
		if idx == -1 {
			continue
		}
		path := trimSpace(line[:idx])
		countField := trimSpace(line[idx+1:])
		micros, err := strconv.ParseFloat(countField, 64)
		if err != nil {
			continue
		}
		count := int64(micros)
		if !warnedTruncation && micros != float64(count) {
			slog.Warn("vtune self-time has a fractional microsecond component; truncating to integer microseconds", slog.Int("line", lineNo))
			metrics.ParseWarnings.WithLabelValues("vtune").Add(1)
			warnedTruncation = true
		}
		segments := tokenize(path, '>')
		stack := make([]string, 0, len(segments))
		for _, seg := range segments {
			seg = strings.TrimSuffix(trimSpace(seg), "-")
			seg = trimSpace(seg)
			if seg == "" {
				continue
			}
			stack = append(stack, TidyName(seg, TidyOptions{Generic: c.opts.TidyGeneric, Java: c.opts.TidyJava}))
		}
		if len(stack) == 0 {
			continue
		}
		table.Put(strings.Join(stack, ";"), count)
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(err, errs.IoError, "reading vtune input")
	}
	return table.Write(w)
}
