package render

import (
	"strings"
	"testing"
)

func TestBuildSimpleTree(t *testing.T) {
	input := "a;b;c 3\na;b;d 2\na;e 1\n"
	root, err := Build(strings.NewReader(input), BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Value != 6 {
		t.Fatalf("root.Value = %d, want 6", root.Value)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "a" {
		t.Fatalf("expected single child 'a', got %+v", root.Children)
	}
	a := root.Children[0]
	if a.Value != 6 {
		t.Fatalf("a.Value = %d, want 6", a.Value)
	}
	if len(a.Children) != 2 {
		t.Fatalf("expected 2 children under a, got %d", len(a.Children))
	}
	b, e := a.Children[0], a.Children[1]
	if b.Name != "b" || b.Value != 5 {
		t.Fatalf("expected b with value 5, got %+v", b)
	}
	if e.Name != "e" || e.Value != 1 {
		t.Fatalf("expected e with value 1, got %+v", e)
	}
}

func TestBuildPreservesFirstOccurrenceOrder(t *testing.T) {
	input := "a;z 1\na;y 1\na;x 1\n"
	root, err := Build(strings.NewReader(input), BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := root.Children[0]
	got := []string{a.Children[0].Name, a.Children[1].Name, a.Children[2].Name}
	want := []string{"z", "y", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sibling order = %v, want %v", got, want)
		}
	}
}

func TestBuildReverseStackOrder(t *testing.T) {
	input := "a;b;c 4\n"
	root, err := Build(strings.NewReader(input), BuildOptions{ReverseStackOrder: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Children[0].Name != "c" {
		t.Fatalf("expected root's first child to be 'c' after reversal, got %q", root.Children[0].Name)
	}
}

func TestBuildFactor(t *testing.T) {
	root, err := Build(strings.NewReader("a 10\n"), BuildOptions{Factor: 2.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Value != 25 {
		t.Fatalf("root.Value = %d, want 25", root.Value)
	}
}

func TestBuildDifferentialInput(t *testing.T) {
	root, err := Build(strings.NewReader("a;b 10 15\n"), BuildOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Value != 15 {
		t.Fatalf("expected width from 'after' column by default, got %d", root.Value)
	}
	if root.Delta != 5 {
		t.Fatalf("expected delta = after-before = 5, got %d", root.Delta)
	}
}

func TestBuildDifferentialNegateUsesBefore(t *testing.T) {
	root, err := Build(strings.NewReader("a;b 10 15\n"), BuildOptions{Negate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Value != 10 {
		t.Fatalf("expected width from 'before' column under negate, got %d", root.Value)
	}
}

func TestBuildMalformedLineRejected(t *testing.T) {
	_, err := Build(strings.NewReader("a;b notanumber\n"), BuildOptions{})
	if err == nil {
		t.Fatalf("expected a MalformedInput error")
	}
}
