// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package color

// Mode selects how the three [0,1] scalars feeding a frame's RGB
// component function are derived (spec.md §4.6, "Color value
// computation").
type Mode int

const (
	// ModeRandom draws three values from a render-seeded LCG.
	ModeRandom Mode = iota
	// ModeHash derives v1/v2/v3 from NameHash, the --hash flag.
	ModeHash
	// ModeDeterministic derives all three from FNV-1a, the --cp flag.
	ModeDeterministic
)

// RGBHex formats r, g, b (each 0-255) as a "#rrggbb" string.
func RGBHex(r, g, b int) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 7)
	buf[0] = '#'
	put := func(i, v int) {
		buf[i] = hexDigits[(v>>4)&0xf]
		buf[i+1] = hexDigits[v&0xf]
	}
	put(1, r)
	put(3, g)
	put(5, b)
	return string(buf)
}

// FrameColor computes a frame's final "#rrggbb" color: it resolves the
// palette's basic name for this frame name (classifying first if the
// palette is Semantic), draws (v1, v2, v3) per mode, and samples the
// basic palette's RGB ranges.
func FrameColor(p Palette, name string, mode Mode, rng *LCG) string {
	basic, v1, v2, v3 := frameValues(p, name, mode, rng)
	r, g, b := RGB(basic, v1, v2, v3)
	return RGBHex(r, g, b)
}

// FrameColorDiffused is FrameColor with the palette's hue scalar pulled
// toward pos, a frame's normalized horizontal position in [0,1]. This
// spreads the palette's hue range across a row of siblings instead of
// drawing each one's color independently, per spec.md §3's "--diffusion:
// spread palette across siblings" option.
func FrameColorDiffused(p Palette, name string, mode Mode, rng *LCG, pos float64) string {
	basic, v1, v2, v3 := frameValues(p, name, mode, rng)
	v1 = (v1 + pos) / 2
	r, g, b := RGB(basic, v1, v2, v3)
	return RGBHex(r, g, b)
}

func frameValues(p Palette, name string, mode Mode, rng *LCG) (BasicName, float64, float64, float64) {
	basic := Classify(p, name)

	var v1, v2, v3 float64
	switch mode {
	case ModeHash:
		v1 = NameHash(name)
		v2 = NameHash(reverseString(name))
		v3 = v2
	case ModeDeterministic:
		v1 = FNVUnit(name)
		v2, v3 = v1, v1
	default:
		v1 = rng.Next()
		v2 = rng.Next()
		v3 = rng.Next()
	}
	return basic, v1, v2, v3
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
