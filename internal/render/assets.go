// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package render

import _ "embed"

// svgCSS and interactiveScript are the flame graph's stylesheet and
// pan/zoom/search script, kept as standalone resource files and
// concatenated into the SVG at emit time rather than held as an
// inline blob in svg.go.
var (
	//go:embed assets/flamegraph.css
	svgCSS string

	//go:embed assets/flamegraph.js
	interactiveScript string
)
