package color

import "testing"

func TestRGBHex(t *testing.T) {
	if got := RGBHex(255, 0, 16); got != "#ff0010" {
		t.Fatalf("got %q, want #ff0010", got)
	}
}

func TestFrameColorRandomModeUsesLCG(t *testing.T) {
	p := NewBasicPalette(Hot)
	rng := NewLCG(7)
	c := FrameColor(p, "anything", ModeRandom, rng)
	if len(c) != 7 || c[0] != '#' {
		t.Fatalf("expected a #rrggbb color, got %q", c)
	}
}

func TestFrameColorDiffusedProducesValidColor(t *testing.T) {
	p := NewBasicPalette(Hot)
	rng := NewLCG(7)
	c := FrameColorDiffused(p, "anything", ModeDeterministic, rng, 0.8)
	if len(c) != 7 || c[0] != '#' {
		t.Fatalf("expected a #rrggbb color, got %q", c)
	}
}

func TestFrameColorDiffusedVariesWithPosition(t *testing.T) {
	p := NewBasicPalette(Hot)
	left := FrameColorDiffused(p, "samefunc", ModeDeterministic, NewLCG(1), 0.0)
	right := FrameColorDiffused(p, "samefunc", ModeDeterministic, NewLCG(1), 1.0)
	if left == right {
		t.Fatalf("expected diffusion position to change the resulting color")
	}
}
