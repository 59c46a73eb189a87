package diff

import (
	"bytes"
	"strings"
	"testing"
)

// S3 from spec.md §8: normalizing scales the "before" column so its
// total matches the "after" column.
func TestMergeNormalize(t *testing.T) {
	before := "a 100\nb 50\n"
	after := "a 200\n"
	var out bytes.Buffer
	if err := Merge(strings.NewReader(before), strings.NewReader(after), Options{Normalize: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "a 133 200\nb 67 0"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// S4 from spec.md §8: hex-masked stacks that differ only in address
// join into a single row.
func TestMergeStripHex(t *testing.T) {
	before := "foo;0x7f00abcd 3\n"
	after := "foo;0x7f00ef12 5\n"
	var out bytes.Buffer
	if err := Merge(strings.NewReader(before), strings.NewReader(after), Options{StripHex: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "foo;0x... 3 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMergeNoOptionsUnion(t *testing.T) {
	before := "a 10\nb 5\n"
	after := "b 7\nc 2\n"
	var out bytes.Buffer
	if err := Merge(strings.NewReader(before), strings.NewReader(after), Options{}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "a 10 0\nb 5 7\nc 0 2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Property 4 from spec.md §8: diff(A, B) and diff(B, A) are related by
// swapping the two count columns.
func TestMergeSymmetry(t *testing.T) {
	a := "a 10\nb 5\n"
	b := "b 7\nc 2\n"

	var ab bytes.Buffer
	if err := Merge(strings.NewReader(a), strings.NewReader(b), Options{}, &ab); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ba bytes.Buffer
	if err := Merge(strings.NewReader(b), strings.NewReader(a), Options{}, &ba); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	abLines := strings.Split(strings.TrimSpace(ab.String()), "\n")
	baLines := strings.Split(strings.TrimSpace(ba.String()), "\n")
	if len(abLines) != len(baLines) {
		t.Fatalf("mismatched line counts: %d vs %d", len(abLines), len(baLines))
	}
	for i, line := range abLines {
		fields := strings.Fields(line)
		stack, first, second := fields[0], fields[1], fields[2]
		baFields := strings.Fields(baLines[i])
		if baFields[0] != stack || baFields[1] != second || baFields[2] != first {
			t.Fatalf("line %d not symmetric: %q vs %q", i, line, baLines[i])
		}
	}
}
