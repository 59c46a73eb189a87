// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import (
	"bufio"
	"encoding/xml"
	"io"
	"slices"
	"strconv"
	"strings"

	"flamegraph/internal/errs"
)

// XCTraceCollapser streams Xcode Instruments' XML trace export (spec.md
// §4.3, "XCTrace collapser"): each <backtrace> element's <frame
// name="..."> children, in leaf-to-root document order, reversed to
// root-to-leaf and weighted by the enclosing <row>'s sample-count
// attribute.
//
// No third-party XML library in the reference corpus covers streaming
// element traversal; encoding/xml's token-based Decoder is the
// standard-library tool built for exactly this shape, so it is used
// directly rather than buffering the document into a DOM.
type XCTraceCollapser struct {
	opts Options
}

// NewXCTraceCollapser builds an xctrace collapser with the given options.
func NewXCTraceCollapser(opts Options) *XCTraceCollapser { return &XCTraceCollapser{opts: opts} }

// IsApplicable sniffs for a prefix containing both a <backtrace> and a
// <frame> tag.
func (c *XCTraceCollapser) IsApplicable(sample []byte) bool {
	s := string(sample)
	return strings.Contains(s, "<backtrace") && strings.Contains(s, "<frame")
}

// lineCountingReader counts newlines as they pass through Read, so a
// decode failure partway through the stream can be attributed to an
// approximate source line without buffering the document.
type lineCountingReader struct {
	r    io.Reader
	line int
}

func (l *lineCountingReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	for _, b := range p[:n] {
		if b == '\n' {
			l.line++
		}
	}
	return n, err
}

// Collapse streams an xctrace XML export into folded text.
func (c *XCTraceCollapser) Collapse(r io.Reader, w io.Writer) error {
	table := NewTable()
	lc := &lineCountingReader{r: bufio.NewReaderSize(r, 64*1024)}
	dec := xml.NewDecoder(lc)

	var (
		rowCount    int64
		inBacktrace bool
		frames      []string // leaf-to-root, as encountered
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.WrapAtLine(err, errs.MalformedInput, lc.line+1, "xctrace xml not well-formed")
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "row":
				rowCount = 1
				for _, a := range el.Attr {
					if a.Name.Local == "sample-count" || a.Name.Local == "weight" {
						if n, perr := strconv.ParseInt(a.Value, 10, 64); perr == nil {
							rowCount = n
						}
					}
				}
			case "backtrace":
				inBacktrace = true
				frames = frames[:0]
			case "frame":
				if !inBacktrace {
					continue
				}
				for _, a := range el.Attr {
					if a.Name.Local == "name" {
						frames = append(frames, TidyName(a.Value, TidyOptions{Generic: c.opts.TidyGeneric, Java: c.opts.TidyJava}))
					}
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "backtrace":
				if inBacktrace && len(frames) > 0 {
					rootToLeaf := slices.Clone(frames)
					slices.Reverse(rootToLeaf)
					table.Put(strings.Join(rootToLeaf, ";"), rowCount)
				}
				inBacktrace = false
			}
		}
	}
	return table.Write(w)
}
