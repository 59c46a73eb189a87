// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import "strings"

// isSpace reports whether b is an ASCII space or tab, the only
// whitespace the profiler formats in this package use for indentation.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// trimSpace trims leading and trailing ASCII whitespace from s without
// the allocation overhead of strings.TrimSpace's unicode-aware scan.
func trimSpace(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

// leadingSpaces returns the number of leading ASCII space characters
// (not tabs) in s, used by the indentation-based sample collapser.
func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// hasPrefix and hasSuffix are thin aliases kept for symmetry with the
// rest of this file's byte-level vocabulary; the collapsers currently
// call strings.HasPrefix/HasSuffix directly.
func hasPrefix(s, prefix string) bool { return strings.HasPrefix(s, prefix) }
func hasSuffix(s, suffix string) bool { return strings.HasSuffix(s, suffix) }

// findByte returns the index of the first occurrence of b in s, or -1.
func findByte(s string, b byte) int {
	return strings.IndexByte(s, b)
}

// tokenize splits s on sep, like strings.Split, but is named for the
// lexing vocabulary used throughout the collapsers (a "token" is a
// whitespace- or separator-delimited chunk of a profiler line).
func tokenize(s string, sep byte) []string {
	return strings.Split(s, string(sep))
}

// fields splits s on runs of ASCII space/tab, like strings.Fields but
// restricted to the whitespace this package treats as significant.
func fields(s string) []string {
	var out []string
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		start := i
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		if i > start {
			out = append(out, s[start:i])
		}
	}
	return out
}
