package source

import "testing"

func TestFile_TextRoundtrip(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "int a = 1;\nfloat b;")
	f, _ := ctx.File(id)

	rng := NewRange(Position{Line: 0, Character: 4}, Position{Line: 0, Character: 5})
	if got := f.Text(rng); got != "a" {
		t.Fatalf("Text(%v) = %q, want %q", rng, got, "a")
	}

	rng = NewRange(Position{Line: 1, Character: 0}, Position{Line: 1, Character: 5})
	if got := f.Text(rng); got != "float" {
		t.Fatalf("Text(%v) = %q, want %q", rng, got, "float")
	}
}

func TestFile_BOMStripped(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", "\xEF\xBB\xBFint x;")
	f, _ := ctx.File(id)

	if got := string(f.Runes()); got != "int x;" {
		t.Fatalf("Runes() = %q, want BOM stripped", got)
	}
}

func TestFile_UTF16ColumnCountsSurrogatePair(t *testing.T) {
	ctx := NewContext(UTF16Columns)
	// U+1F600 (an astral character) counts as 2 UTF-16 code units; 'x'
	// immediately after it should land at character 2, not 1.
	id := ctx.OpenFromBuffer("t.glsl", "\U0001F600x")
	f, _ := ctx.File(id)

	rng := NewRange(Position{Line: 0, Character: 2}, Position{Line: 0, Character: 3})
	if got := f.Text(rng); got != "x" {
		t.Fatalf("Text(%v) = %q, want %q (UTF-16 column counting)", rng, got, "x")
	}
}

func TestContext_ResolveIncludeMissingQuotedFileFails(t *testing.T) {
	ctx := NewContext(UTF8Columns)
	mainID := ctx.OpenFromBuffer("/shaders/main.glsl", "#include \"common.glsl\"")

	// openInclude reads from disk, so a missing sibling file correctly
	// fails to resolve rather than silently finding something else.
	_, err := ctx.ResolveInclude(mainID, "common.glsl", true)
	if err == nil {
		t.Fatal("expected ResolveInclude to fail for a nonexistent file")
	}
}

func TestFileID_Validity(t *testing.T) {
	if NoFile.IsValid() {
		t.Fatal("NoFile must not be valid")
	}

	if !SystemPreambleFile.IsValid() {
		t.Fatal("SystemPreambleFile must be valid")
	}
}
