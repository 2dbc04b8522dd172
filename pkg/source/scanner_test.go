package source

import "testing"

func scanAll(s *Scanner) string {
	var out []rune
	for !s.AtEOF() {
		out = append(out, s.Advance())
	}

	return string(out)
}

func TestScanner_LineContinuationSpliced(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "ab\\\ncd")

	f, ok := ctx.File(id)
	if !ok {
		t.Fatal("file not registered")
	}

	s := NewScanner(f)

	got := scanAll(s)
	if got != "abcd" {
		t.Fatalf("scanAll() = %q, want %q (continuation should vanish)", got, "abcd")
	}
}

func TestScanner_PositionTracksLinesAcrossContinuation(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "a\\\nb\nc")

	f, _ := ctx.File(id)
	s := NewScanner(f)

	// 'a' then spliced continuation then 'b' — still logical line 0.
	s.Advance() // a
	if pos := s.Position(); pos.Line != 0 {
		t.Fatalf("after 'a', line = %d, want 0", pos.Line)
	}

	s.Advance() // b, having spliced over the backslash-newline
	if pos := s.Position(); pos.Line != 0 {
		t.Fatalf("after spliced 'b', line = %d, want 0 (continuation must not advance the line)", pos.Line)
	}

	s.Advance() // real newline
	s.Advance() // c
	if pos := s.Position(); pos.Line != 1 {
		t.Fatalf("after 'c', line = %d, want 1", pos.Line)
	}
}

func TestScanner_SkipWhitespaceReportsNewlineCrossing(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "  \n  x")
	f, _ := ctx.File(id)
	s := NewScanner(f)

	if crossed := s.SkipWhitespace(); !crossed {
		t.Fatal("expected SkipWhitespace to report crossing a newline")
	}

	if s.Peek() != 'x' {
		t.Fatalf("Peek() = %q, want 'x'", s.Peek())
	}
}

func TestScanner_PeekAtDoesNotConsume(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "xyz")
	f, _ := ctx.File(id)
	s := NewScanner(f)

	if got := s.PeekAt(2); got != 'z' {
		t.Fatalf("PeekAt(2) = %q, want 'z'", got)
	}

	if got := s.Advance(); got != 'x' {
		t.Fatalf("Advance() after PeekAt = %q, want 'x' (PeekAt must not consume)", got)
	}
}

func TestScanner_PeekPastEOFYieldsSentinel(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "")
	f, _ := ctx.File(id)
	s := NewScanner(f)

	if !s.AtEOF() {
		t.Fatal("empty buffer should be at EOF immediately")
	}

	if got := s.Peek(); got != 0 {
		t.Fatalf("Peek() on empty buffer = %q, want sentinel", got)
	}
}
