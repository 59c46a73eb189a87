package collapse

import (
	"bytes"
	"strings"
	"testing"
)

func TestVTuneCollapseBasic(t *testing.T) {
	input := "main->foo->bar,1500.0\n"
	c := NewVTuneCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "main;foo;bar 1500"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestVTuneCollapseTruncatesFraction(t *testing.T) {
	input := "main->foo,100.7\n"
	c := NewVTuneCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "main;foo 100"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestVTuneCollapseAggregatesRepeatedPaths(t *testing.T) {
	input := "main->foo,10\nmain->foo,15\n"
	c := NewVTuneCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "main;foo 25"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestVTuneIsApplicable(t *testing.T) {
	c := NewVTuneCollapser(DefaultOptions())
	if !c.IsApplicable([]byte("main->foo->bar,1500.0\n")) {
		t.Fatalf("expected vtune csv to be applicable")
	}
	if c.IsApplicable([]byte("funcA;funcB 12\n")) {
		t.Fatalf("expected folded sample to not be applicable")
	}
}
