package collapse

import (
	"bytes"
	"strings"
	"testing"
)

// S5 from spec.md §8: a folded stack with a recursive run collapses
// to a single occurrence of the repeated frame.
func TestRecursiveCollapseBasic(t *testing.T) {
	input := "a;b;b;b;c 7\n"
	c := NewRecursiveCollapser()
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "a;b;c 7"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecursiveCollapseNonAdjacentRepeatsKept(t *testing.T) {
	input := "a;b;a;b 5\n"
	c := NewRecursiveCollapser()
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "a;b;a;b 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecursiveCollapseAggregatesAfterCollapsing(t *testing.T) {
	input := "a;b;b 3\na;b 4\n"
	c := NewRecursiveCollapser()
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "a;b 7"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecursiveIsApplicable(t *testing.T) {
	c := NewRecursiveCollapser()
	if !c.IsApplicable([]byte("a;b;c 12\n")) {
		t.Fatalf("expected folded input to be applicable")
	}
	if c.IsApplicable([]byte("app 1/1 [000] 0.1: cycles:\n")) {
		t.Fatalf("expected perf header to not be applicable")
	}
}
