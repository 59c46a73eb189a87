package collapse

import (
	"reflect"
	"testing"
)

func TestTrimSpace(t *testing.T) {
	cases := map[string]string{
		"  abc  ": "abc",
		"\tabc\t": "abc",
		"abc":     "abc",
		"   ":     "",
	}
	for in, want := range cases {
		if got := trimSpace(in); got != want {
			t.Fatalf("trimSpace(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeadingSpaces(t *testing.T) {
	if n := leadingSpaces("    foo"); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
	if n := leadingSpaces("foo"); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestFields(t *testing.T) {
	got := fields("  ffffffff81000001 funcA+0x10  (/bin/app) ")
	want := []string{"ffffffff81000001", "funcA+0x10", "(/bin/app)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fields() = %#v, want %#v", got, want)
	}
}

func TestFindByte(t *testing.T) {
	if idx := findByte("a;b;c", ';'); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if idx := findByte("abc", ';'); idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("a;b;c", ';')
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenize() = %#v, want %#v", got, want)
	}
}
