// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

// This collapser is a generalized, interface-shaped port of the
// teacher's tools/stackcollapse-perf, itself a port of Brendan Gregg's
// stackcollapse-perf.pl. All credit for the original algorithm to
// Brendan Gregg's FlameGraph project.

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"flamegraph/internal/errs"
)

// perfState is the explicit state machine spec.md §4.3 calls for:
// Outside -> EventHeader -> StackFrames -> BlankLine -> Outside.
type perfState int

const (
	perfOutside perfState = iota
	perfInStack
)

var (
	// "comm  pid/tid [cpu] ts: event:" - pid and (optionally) tid.
	perfEventLineRegex = regexp.MustCompile(`^(\S.*?)\s+(\d+)/?(\d+)?\s+\[?\d*\]?\s*[\d.]+:\s*`)
	// trailing "<period> event_name:" on the header line.
	perfEventTypeRegex = regexp.MustCompile(`(?:\d+\s+)?(\S+):\s*$`)
	// "  <pc> <symbol> (<module>)"
	perfStackLineRegex = regexp.MustCompile(`^\s*(\w+)\s*(.+) \((.*)\)`)
	jitMapRegex        = regexp.MustCompile(`^/tmp/perf-[0-9]+\.map$`)
)

// PerfCollapser parses `perf script` output (spec.md §4.3, "Perf collapser").
type PerfCollapser struct {
	opts Options
}

// NewPerfCollapser builds a perf collapser with the given options.
func NewPerfCollapser(opts Options) *PerfCollapser { return &PerfCollapser{opts: opts} }

// IsApplicable reports whether the first line that is not blank, not a
// '#' comment and not indented is a perf event header ("comm pid/tid
// [cpu] ts: event:"); comment and indented lines alone never decide it.
func (c *PerfCollapser) IsApplicable(sample []byte) bool {
	scanner := bufio.NewScanner(strings.NewReader(string(sample)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue // comment lines are inconclusive on their own
		}
		if !isSpace(line[0]) {
			if _, _, _, ok := parsePerfEventHeader(line); ok {
				return true
			}
			return false
		}
		// a stack-frame-shaped line without ever having seen a header
		// is inconclusive on its own; keep scanning.
	}
	return false
}

// Collapse streams perf script output into folded text.
func (c *PerfCollapser) Collapse(r io.Reader, w io.Writer) error {
	table := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		state          = perfOutside
		stack          []string
		processName    string
		comm           string
		eventFilter    = c.opts.EventFilter
		skipStackLines bool
		truncated      bool
	)

	flush := func() {
		final := stack
		if c.opts.IncludePname && processName != "" {
			final = append([]string{processName}, final...)
		}
		if len(final) > 0 && !skipStackLines {
			table.Put(strings.Join(final, ";"), 1)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			if comm2, ok := parseCmdlineComment(line); ok {
				comm = comm2
			}
			continue
		}

		if line == "" {
			if state == perfOutside {
				continue
			}
			// blank line: end of sample
			flush()
			stack = nil
			processName = ""
			truncated = false
			state = perfOutside
			continue
		}

		if !isSpace(line[0]) {
			comm2, pid, tid, ok := parsePerfEventHeader(line)
			if !ok {
				continue
			}
			if comm2 != "" {
				comm = comm2
			}
			event := parsePerfEventName(line)
			skipStackLines = false
			if eventFilter == "" {
				eventFilter = event
			} else if event != "" && event != eventFilter {
				skipStackLines = true
			}
			processName = buildPerfProcessName(comm, pid, tid, c.opts)
			stack = nil
			truncated = false
			state = perfInStack
			continue
		}

		// stack frame line
		if state != perfInStack || skipStackLines || truncated {
			continue
		}
		frames, err := parsePerfStackLine(line, c.opts)
		if err != nil {
			// an unparseable stray line is skipped, not fatal (spec.md §7)
			continue
		}
		for _, fr := range frames {
			if containsAny(fr, c.opts.SkipAfter) {
				truncated = true
				break
			}
			stack = append([]string{fr}, stack...)
		}
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(err, errs.IoError, "reading perf script input")
	}
	if state == perfInStack {
		// input ended without a blank line after the last sample
		flush()
	}
	return table.Write(w)
}

func containsAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// parseCmdlineComment extracts the process name from a "# cmdline : "
// comment: tokenize the remainder on spaces, take the first token not
// beginning with '-', basename it, replace spaces with '_'.
func parseCmdlineComment(line string) (string, bool) {
	const prefix = "# cmdline : "
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := line[len(prefix):]
	for _, tok := range fields(rest) {
		if strings.HasPrefix(tok, "-") {
			continue
		}
		base := filepath.Base(tok)
		return strings.ReplaceAll(base, " ", "_"), true
	}
	return "", false
}

// parsePerfEventHeader recognizes "comm pid/tid [cpu] ts: event:" and
// returns comm, pid, tid.
func parsePerfEventHeader(line string) (comm, pid, tid string, ok bool) {
	m := perfEventLineRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	comm, pid, tid = m[1], m[2], m[3]
	if tid == "" {
		tid, pid = pid, "?"
	}
	return comm, pid, tid, true
}

func parsePerfEventName(line string) string {
	m := perfEventTypeRegex.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

func buildPerfProcessName(comm, pid, tid string, opts Options) string {
	var name string
	switch {
	case opts.IncludeTid:
		name = fmt.Sprintf("%s-%s/%s", comm, pid, tid)
	case opts.IncludePid:
		name = fmt.Sprintf("%s-%s", comm, pid)
	default:
		name = comm
	}
	return strings.ReplaceAll(name, " ", "_")
}

// parsePerfStackLine parses a single indented stack-frame line,
// returning the (possibly multiple, for inlined frames) tidied
// function names in leaf-first order as they appear on the line.
func parsePerfStackLine(line string, opts Options) ([]string, error) {
	m := perfStackLineRegex.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("unrecognized stack line")
	}
	pc, rawFunc, mod := m[1], m[2], m[3]
	rawFunc = StripSymbolOffset(rawFunc)
	if strings.HasPrefix(rawFunc, "(") {
		return nil, nil // a bare process-name line, not a frame
	}

	kernel := strings.Contains(mod, "[kernel") || strings.Contains(mod, "[unknown")
	jit := jitMapRegex.MatchString(mod) || hasScriptSuffix(mod)

	var out []string
	for _, funcname := range strings.Split(rawFunc, "->") {
		if funcname == "[unknown]" {
			if mod != "[unknown]" && mod != "" {
				funcname = filepath.Base(mod)
			} else {
				funcname = "unknown"
			}
			if opts.IncludeAddrs {
				funcname = fmt.Sprintf("[%s <0x%s>]", funcname, pc)
			} else {
				funcname = fmt.Sprintf("[%s]", funcname)
			}
		} else {
			funcname = TidyName(funcname, TidyOptions{Generic: opts.TidyGeneric, Java: opts.TidyJava})
		}
		if opts.AnnotateKernel && kernel {
			if !strings.HasSuffix(funcname, "_[k]") {
				funcname += "_[k]"
			}
		} else if opts.AnnotateJit && jit {
			if !strings.HasSuffix(funcname, "_[j]") {
				funcname += "_[j]"
			}
		}
		out = append(out, funcname)
	}
	return out, nil
}

func hasScriptSuffix(mod string) bool {
	for _, ext := range []string{".js", ".ts", ".jsx", ".tsx", ".py", ".rb"} {
		if strings.HasSuffix(mod, ext) {
			return true
		}
	}
	return false
}
