// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package diff implements the differential flame-graph merger
// (spec.md §4.4): joining two folded streams on stack identity into
// `stack before after` triples.
package diff

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/deckarep/golang-set/v2"

	"flamegraph/internal/errs"
)

// Options controls the merge's optional normalization and
// hex-address masking passes.
type Options struct {
	Normalize bool
	StripHex  bool
}

var hexRunRegex = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// maskHex replaces every maximal run of hex digits following "0x" with
// "0x...", so addresses that differ between two runs of the same
// workload key to the same stack (spec.md §4.4 step 2).
func maskHex(stack string) string {
	return hexRunRegex.ReplaceAllString(stack, "0x...")
}

// parseFolded reads "stack count" lines (tolerating fractional counts,
// which are truncated with a once-only warning) and sums counts per
// stack, applying hex masking first when requested.
func parseFolded(r io.Reader, stripHex bool) (map[string]int64, error) {
	totals := make(map[string]int64)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	warned := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			continue
		}
		stack := strings.TrimSpace(line[:idx])
		countField := strings.TrimSpace(line[idx+1:])
		f, err := strconv.ParseFloat(countField, 64)
		if err != nil {
			continue
		}
		count := int64(f)
		if !warned && f != float64(count) {
			slog.Warn("folded input has a fractional sample count; truncating to integer")
			warned = true
		}
		if stripHex {
			stack = maskHex(stack)
		}
		totals[stack] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(err, errs.IoError, "reading folded input")
	}
	return totals, nil
}

// Merge parses before and after as folded text, joins them on stack
// identity, and writes "stack first second" triples to w in sorted
// stack order.
func Merge(before, after io.Reader, opts Options, w io.Writer) error {
	firstTotals, err := parseFolded(before, opts.StripHex)
	if err != nil {
		return err
	}
	secondTotals, err := parseFolded(after, opts.StripHex)
	if err != nil {
		return err
	}

	var t1, t2 int64
	for _, v := range firstTotals {
		t1 += v
	}
	for _, v := range secondTotals {
		t2 += v
	}

	if opts.Normalize && t1 > 0 && t1 != t2 {
		scale := float64(t2) / float64(t1)
		for stack, count := range firstTotals {
			firstTotals[stack] = int64(math.Round(float64(count) * scale))
		}
	}

	stacks := mapset.NewThreadUnsafeSet[string]()
	for stack := range firstTotals {
		stacks.Add(stack)
	}
	for stack := range secondTotals {
		stacks.Add(stack)
	}

	sorted := stacks.ToSlice()
	sort.Strings(sorted)

	bw := bufio.NewWriter(w)
	for _, stack := range sorted {
		if _, err := fmt.Fprintf(bw, "%s %d %d\n", stack, firstTotals[stack], secondTotals[stack]); err != nil {
			return errs.Wrap(err, errs.IoError, "writing diff output")
		}
	}
	return bw.Flush()
}
