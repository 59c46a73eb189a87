// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"io"

	"flamegraph/internal/errs"
)

// sniffLimit caps how much of the input the guess collapser reads
// before asking each concrete collapser whether it recognizes the
// format (spec.md §4.3, "Guess collapser").
const sniffLimit = 64 * 1024

// GuessCollapser sniffs a short prefix of the input and dispatches to
// the first concrete collapser whose IsApplicable accepts it. The
// sniffed prefix is not lost: it is prepended back onto the
// underlying reader before handing off.
type GuessCollapser struct {
	opts Options
}

// NewGuessCollapser builds a collapser that autodetects its format.
func NewGuessCollapser(opts Options) *GuessCollapser { return &GuessCollapser{opts: opts} }

// candidates lists the concrete collapsers guess tries, in priority
// order. Ties are broken by this order when an ambiguous sample would
// satisfy more than one IsApplicable.
func (c *GuessCollapser) candidates() []Collapser {
	return []Collapser{
		NewPerfCollapser(c.opts),
		NewDTraceCollapser(c.opts),
		NewSampleCollapser(c.opts),
		NewVTuneCollapser(c.opts),
		NewXCTraceCollapser(c.opts),
		NewRecursiveCollapser(),
	}
}

// IsApplicable is never expected to be invoked on GuessCollapser itself
// (FormatGuess is synthesized, not looked up via ByFormat); it reports
// whether any candidate format matches, for completeness.
func (c *GuessCollapser) IsApplicable(sample []byte) bool {
	for _, cand := range c.candidates() {
		if cand.IsApplicable(sample) {
			return true
		}
	}
	return false
}

// Collapse sniffs up to sniffLimit bytes via Peek (which does not
// advance the read position) and picks the first matching collapser.
// Because Peek leaves the sniffed bytes in br's buffer, br itself
// already presents the full input — sniffed prefix followed by the
// rest of the stream — to the chosen collapser; no prefix-copying
// reader needs to be built.
func (c *GuessCollapser) Collapse(r io.Reader, w io.Writer) error {
	br := bufio.NewReaderSize(r, sniffLimit)
	prefix, err := br.Peek(sniffLimit)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return errs.Wrap(err, errs.IoError, "sniffing input")
	}

	for _, cand := range c.candidates() {
		if cand.IsApplicable(prefix) {
			return cand.Collapse(br, w)
		}
	}
	return errs.New(errs.UnknownFormat, "could not identify profiler output format")
}
