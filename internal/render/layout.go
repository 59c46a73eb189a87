// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package render

// Frame is one positioned rectangle in the flame graph: X and Width
// are fractions of the total root width in [0,1], Depth is the
// stack-frame depth (0 for a top-of-stack frame under the synthetic
// root).
type Frame struct {
	Node  *Node
	Depth int
	X     float64
	Width float64
}

// Layout walks the frame tree and assigns each non-root node an (x,
// width) pair proportional to its share of its parent's value
// (spec.md §4.5, step 2-3). Siblings are laid out left-to-right in
// their tree insertion order, so the resulting slice's ordering is
// stable given the same input (spec.md §5, "Ordering guarantees").
func Layout(root *Node) []Frame {
	var frames []Frame
	var walk func(n *Node, depth int, x, width float64)
	walk = func(n *Node, depth int, x, width float64) {
		if depth >= 0 {
			frames = append(frames, Frame{Node: n, Depth: depth, X: x, Width: width})
		}
		childX := x
		for _, c := range n.Children {
			var childWidth float64
			if n.Value > 0 {
				childWidth = width * float64(c.Value) / float64(n.Value)
			}
			walk(c, depth+1, childX, childWidth)
			childX += childWidth
		}
	}
	walk(root, -1, 0, 1.0)
	return frames
}

// MaxDepth returns the deepest frame depth present, or -1 if frames is empty.
func MaxDepth(frames []Frame) int {
	max := -1
	for _, f := range frames {
		if f.Depth > max {
			max = f.Depth
		}
	}
	return max
}

// FilterMinWidth drops frames whose rendered pixel width would fall
// below minWidthPx at the given total image width (spec.md §8,
// property 9: increasing min_width never increases the emitted set).
func FilterMinWidth(frames []Frame, imageWidthPx, minWidthPx float64) []Frame {
	if minWidthPx <= 0 {
		return frames
	}
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		if f.Width*imageWidthPx >= minWidthPx {
			out = append(out, f)
		}
	}
	return out
}
