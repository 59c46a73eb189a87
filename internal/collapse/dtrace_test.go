package collapse

import (
	"bytes"
	"strings"
	"testing"
)

func TestDTraceCollapseBasic(t *testing.T) {
	input := `
              libc.so.1` + "`" + `strcmp+0x10
              myapp` + "`" + `main+0x40
              myapp` + "`" + `_start+0x20

              42
`
	c := NewDTraceCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "_start;main;strcmp 42"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDTraceCollapseKernelAnnotation(t *testing.T) {
	input := "              unix`mutex_enter+0x10\n              myapp`main+0x5\n\n              3\n"
	opts := DefaultOptions()
	opts.AnnotateKernel = true
	c := NewDTraceCollapser(opts)
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "main;mutex_enter_[k] 3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDTraceCollapseIgnoresWarnings(t *testing.T) {
	input := "dtrace: description 'profile-997' matched 1 probe\n              myapp`main+0x5\n\n              1\n"
	c := NewDTraceCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	if got != "main 1" {
		t.Fatalf("got %q, want %q", got, "main 1")
	}
}

func TestDTraceIsApplicable(t *testing.T) {
	c := NewDTraceCollapser(DefaultOptions())
	sample := []byte("myapp`main+0x5\n\n1\n")
	if !c.IsApplicable(sample) {
		t.Fatalf("expected dtrace sample to be applicable")
	}
	if c.IsApplicable([]byte("funcA;funcB 12\n")) {
		t.Fatalf("expected folded sample to not be applicable")
	}
}
