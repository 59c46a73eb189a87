// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package render implements the flame-graph renderer (spec.md §4.5):
// frame-tree construction from folded text, geometry/layout, and
// self-contained interactive SVG emission.
package render

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"flamegraph/internal/errs"
)

// Node is a frame-tree node (spec.md §3, "Frame tree"): value is the
// aggregate sample count through this path, delta is the after-minus-
// before difference for differential input (zero for ordinary folded
// input), and children preserve first-occurrence order so sibling
// layout is stable and testable.
type Node struct {
	Name       string
	Value      int64
	Delta      int64
	Children   []*Node
	childIndex map[string]int
}

func newNode(name string) *Node {
	return &Node{Name: name, childIndex: make(map[string]int)}
}

func (n *Node) childOrCreate(name string) *Node {
	if idx, ok := n.childIndex[name]; ok {
		return n.Children[idx]
	}
	c := newNode(name)
	n.childIndex[name] = len(n.Children)
	n.Children = append(n.Children, c)
	return c
}

// BuildOptions controls how folded lines are turned into a frame tree.
type BuildOptions struct {
	ReverseStackOrder bool    // reverse semicolon segments before inserting
	Factor            float64 // multiply every count by this scale factor
	Negate            bool    // differential input: width from "before" instead of "after"
}

// Build parses folded (or differential-folded) text from r into a
// rooted frame tree under a synthetic "root" node. Each line is
// "stack count" or, for differential input, "stack before after";
// differential input is detected per line by the trailing-field shape
// rather than a mode flag, matching how flamegraph.pl's own folded
// readers behave when fed either shape.
func Build(r io.Reader, opts BuildOptions) (*Node, error) {
	root := newNode("root")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	factor := opts.Factor
	if factor == 0 {
		factor = 1
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stackPart, value, delta, err := parseFoldedLine(line, opts.Negate)
		if err != nil {
			return nil, err
		}
		product := float64(value) * factor
		if math.Abs(product) > math.MaxInt64 {
			return nil, errs.Newf(errs.OverflowError, "count*factor overflowed for stack %q", stackPart)
		}
		scaled := int64(product)

		segments := strings.Split(stackPart, ";")
		if opts.ReverseStackOrder {
			reverseStrings(segments)
		}

		node := root
		root.Value += scaled
		root.Delta += delta
		for _, seg := range segments {
			if seg == "" {
				continue
			}
			node = node.childOrCreate(seg)
			node.Value += scaled
			node.Delta += delta
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(err, errs.IoError, "reading folded input")
	}
	return root, nil
}

// parseFoldedLine splits a folded-text line into its stack and
// count(s), working from the right so that frame names containing
// spaces (e.g. the sample collapser's "(in module)" suffixes) are not
// mistaken for extra fields. A line with two trailing integer fields
// is treated as differential input (before, after); negate selects
// which of the two becomes this render's width value.
func parseFoldedLine(line string, negate bool) (stack string, value, delta int64, err error) {
	idxLast := strings.LastIndexByte(line, ' ')
	if idxLast == -1 {
		return "", 0, 0, errs.Newf(errs.MalformedInput, "folded line missing a count column: %q", line)
	}
	lastField := line[idxLast+1:]
	lastVal, lastErr := strconv.ParseInt(lastField, 10, 64)
	if lastErr != nil {
		return "", 0, 0, errs.Newf(errs.MalformedInput, "folded line has a non-integer count: %q", line)
	}

	rest := line[:idxLast]
	if idxSecond := strings.LastIndexByte(rest, ' '); idxSecond != -1 {
		secondField := rest[idxSecond+1:]
		if secondVal, secondErr := strconv.ParseInt(secondField, 10, 64); secondErr == nil {
			before, after := secondVal, lastVal
			width := after
			if negate {
				width = before
			}
			return rest[:idxSecond], width, after - before, nil
		}
	}
	return rest, lastVal, 0, nil
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// TotalValue returns root.Value, the sum of every sample in the tree.
func TotalValue(root *Node) int64 { return root.Value }
