package collapse

import (
	"bytes"
	"strings"
	"testing"
)

// S1 from spec.md §8: two identical samples from the same process fold
// into a single aggregated line.
func TestPerfCollapseBasic(t *testing.T) {
	input := `# cmdline : /usr/bin/app arg1
app 1234/1234 [000] 0.1: cycles:
	ffffffff81000001 funcA+0x10 (/bin/app)
	ffffffff81000002 funcB+0x20 (/bin/app)

app 1234/1234 [000] 0.2: cycles:
	ffffffff81000001 funcA+0x10 (/bin/app)
	ffffffff81000002 funcB+0x20 (/bin/app)
`
	c := NewPerfCollapser(DefaultOptions())
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "app;funcB;funcA 2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S2 from spec.md §8: an implicit event filter adopted from the first
// header discards stacks from a differing event.
func TestPerfCollapseSkipsDifferingEvent(t *testing.T) {
	input := `app 1/1 [000] 0.1: cycles:
	ffffffff81000001 funcA (/bin/app)

app 1/1 [000] 0.2: instructions:
	ffffffff81000002 funcB (/bin/app)
`
	c := NewPerfCollapser(DefaultOptions())
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

func TestPerfCollapseAnnotateKernel(t *testing.T) {
	input := `app 1/1 [000] 0.1: cycles:
	ffffffffa7c00f0b asm_sysvec_apic_timer_interrupt+0x1b ([kernel.kallsyms])
	760c9702dc5d sincosf64x+0x122 (/usr/lib/x86_64-linux-gnu/libm.so.6)
`
	opts := DefaultOptions()
	opts.AnnotateKernel = true
	c := NewPerfCollapser(opts)
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "app;sincosf64x;asm_sysvec_apic_timer_interrupt_[k] 1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPerfCollapseUnknownFrameUsesAddr(t *testing.T) {
	input := `app 1/1 [000] 0.1: cycles:
	61e248df6091 [unknown] (/usr/bin/stress-ng)
`
	opts := DefaultOptions()
	opts.IncludeAddrs = true
	c := NewPerfCollapser(opts)
	var out bytes.Buffer
	if err := c.Collapse(strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "app;[stress-ng <0x61e248df6091>] 1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPerfCollapseIgnoresMalformedStackLine(t *testing.T) {
	input := `app 1/1 [000] 0.1: cycles:
this line is not a valid frame and has no parens
	ffffffff81000001 funcA (/bin/app)
`
	c := NewPerfCollapser(DefaultOptions())
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

func TestPerfIsApplicable(t *testing.T) {
	c := NewPerfCollapser(DefaultOptions())
	if !c.IsApplicable([]byte("# cmdline : /usr/bin/app\napp 1/1 [000] 0.1: cycles:\n")) {
		t.Fatalf("expected perf sample to be applicable")
	}
	if c.IsApplicable([]byte("funcA;funcB 12\n")) {
		t.Fatalf("expected folded sample to not be applicable")
	}
}
