// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package color

import (
	"hash/fnv"
	"strings"
)

// NameHash is the deterministic small hash over a frame name
// (spec.md §4.6): it emphasizes the first characters and any
// substring after a backtick (the module-name prefix convention DTrace
// and perf both use), via a geometrically decaying weighted sum, and
// returns a value in [0,1].
func NameHash(name string) float64 {
	if idx := strings.LastIndex(name, "`"); idx != -1 {
		name = name[idx+1:]
	}
	var (
		vector float64
		weight = 1.0
		max    = 1.0
		mod    = 10
	)
	for i := 0; i < len(name); i++ {
		c := int(name[i]) % mod
		vector += weight * float64(c)
		max += weight * float64(mod-1)
		weight *= 0.70
		mod++
	}
	if max == 0 {
		return 0
	}
	return 1 - vector/max
}

// FNVUnit returns FNV64(name) normalized to [0,1), the spec's
// deterministic --cp mode.
func FNVUnit(name string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return float64(h.Sum64()) / float64(1<<64)
}

// LCG is the 32-bit linear congruential generator the default
// randomized color mode draws from, seeded once at render start
// (spec.md §4.6, "default" row). Parameters match the classic
// Numerical-Recipes LCG.
type LCG struct {
	state uint32
}

// NewLCG seeds an LCG for one render invocation.
func NewLCG(seed uint32) *LCG { return &LCG{state: seed} }

// Next draws the generator's next value, normalized to [0,1).
func (g *LCG) Next() float64 {
	g.state = g.state*1664525 + 1013904223
	return float64(g.state) / float64(1<<32)
}
