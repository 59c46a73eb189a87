package collapse

import (
	"bytes"
	"strings"
	"testing"
)

func TestTablePutOrAdd(t *testing.T) {
	tbl := NewTable()
	tbl.Put("a;b", 3)
	tbl.Put("a;b", 4)
	tbl.Put("c", 1)

	got, ok := tbl.Get("a;b")
	if !ok || got != 7 {
		t.Fatalf("expected a;b=7, got %d (ok=%v)", got, ok)
	}
	if tbl.Size() != 2 {
		t.Fatalf("expected 2 distinct stacks, got %d", tbl.Size())
	}
	if tbl.Total() != 8 {
		t.Fatalf("expected total 8, got %d", tbl.Total())
	}
}

func TestTableWriteStableOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Put("z", 1)
	tbl.Put("a", 2)
	tbl.Put("m", 3)

	var buf bytes.Buffer
	if err := tbl.Write(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{"a 2", "m 3", "z 1"}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestTableWriteDeterministicAcrossRuns(t *testing.T) {
	build := func() string {
		tbl := NewTable()
		tbl.Put("a;b;c", 1)
		tbl.Put("a;b", 2)
		tbl.Put("a;b;c", 5)
		var buf bytes.Buffer
		_ = tbl.Write(&buf)
		return buf.String()
	}
	first := build()
	second := build()
	if first != second {
		t.Fatalf("expected identical output across runs, got %q vs %q", first, second)
	}
}
