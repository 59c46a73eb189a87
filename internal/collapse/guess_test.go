package collapse

import (
	"bytes"
	"strings"
	"testing"

	"flamegraph/internal/errs"
)

func TestGuessCollapseDetectsPerf(t *testing.T) {
	input := `app 1/1 [000] 0.1: cycles:
	ffffffff81000001 funcA (/bin/app)
`
	c := NewGuessCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "app;funcA 1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGuessCollapseDetectsSample(t *testing.T) {
	input := "  2403 Thread_0  (in app)\n    2403 leaf  (in app)\n"
	c := NewGuessCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "Thread_0 (in app);leaf (in app) 2403"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGuessCollapseUnknownFormat(t *testing.T) {
	c := NewGuessCollapser(DefaultOptions())
	var out bytes.Buffer
	err := c.Collapse(strings.NewReader("###not a recognized format###\n"), &out)
	if err == nil {
		t.Fatalf("expected an UnknownFormat error")
	}
	if !errs.Is(err, errs.UnknownFormat) {
		t.Fatalf("expected UnknownFormat kind, got %v", err)
	}
}
