package source

import (
	"testing"
)

func TestNewTextNormalization(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("module A\r\nmodule B\n")...)
	text := NewText(raw, FileVirtual)

	if got := string(text.Bytes()); got != "module A\nmodule B\n" {
		t.Fatalf("unexpected normalized content: %q", got)
	}
	if text.Flags()&FileHadBOM == 0 {
		t.Errorf("expected FileHadBOM flag")
	}
	if text.Flags()&FileNormalizedCRLF == 0 {
		t.Errorf("expected FileNormalizedCRLF flag")
	}
	if text.Flags()&FileVirtual == 0 {
		t.Errorf("expected FileVirtual flag to survive")
	}
}

func TestTextSlice(t *testing.T) {
	text := NewText([]byte("module Adder\n"), 0)
	span := Span{Start: 7, End: 12}
	if got := text.Slice(span); got != "Adder" {
		t.Fatalf("Slice(%v) = %q, want %q", span, got, "Adder")
	}
}

func TestTextSliceOutOfRangePanics(t *testing.T) {
	text := NewText([]byte("x"), 0)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range span")
		}
	}()
	_ = text.Slice(Span{Start: 0, End: 99})
}

func TestResolveLineCol(t *testing.T) {
	text := NewText([]byte("one\ntwo\nthree"), 0)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{3, LineCol{1, 4}},
		{4, LineCol{2, 1}},
		{5, LineCol{2, 2}},
		{7, LineCol{2, 4}},
		{8, LineCol{3, 1}},
		{12, LineCol{3, 5}},
	}
	for _, tc := range cases {
		start, _ := text.Resolve(Span{Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestLine(t *testing.T) {
	text := NewText([]byte("alpha\nbeta\n"), 0)
	if got := text.Line(1); got != "alpha" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := text.Line(2); got != "beta" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := text.Line(5); got != "" {
		t.Errorf("Line(5) = %q, want empty", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 10}
	b := Span{File: 1, Start: 2, End: 7}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 10 {
		t.Fatalf("Cover = %+v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("Cover across files should not widen, got %+v", got)
	}
}
