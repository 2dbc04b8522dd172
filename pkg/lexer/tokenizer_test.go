package lexer

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

func tokenizeAll(t *testing.T, text string) ([]token.PPToken, *diag.Stream) {
	t.Helper()

	ctx := source.NewContext(source.UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", text)
	file, _ := ctx.File(id)

	atoms := atomtable.New()
	diags := &diag.Stream{}
	tz := New(file, atoms, diags)

	var toks []token.PPToken
	for {
		tok := tz.Next()
		toks = append(toks, tok)

		if tok.IsEOF() {
			break
		}
	}

	return toks, diags
}

func kinds(toks []token.PPToken) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Klass
	}

	return ks
}

func TestTokenizer_Identifiers(t *testing.T) {
	toks, _ := tokenizeAll(t, "foo _bar baz123")

	want := []string{"foo", "_bar", "baz123"}
	if len(toks) != len(want)+1 {
		t.Fatalf("got %d tokens, want %d plus EOF", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Klass != token.Identifier {
			t.Fatalf("token %d: klass = %v, want Identifier", i, toks[i].Klass)
		}

		if toks[i].Text.String() != w {
			t.Fatalf("token %d: text = %q, want %q", i, toks[i].Text.String(), w)
		}
	}
}

func TestTokenizer_KeywordsAndTypeNames(t *testing.T) {
	toks, _ := tokenizeAll(t, "if vec3 return")

	if toks[0].Klass == token.Identifier {
		t.Fatal("'if' must not classify as a plain Identifier")
	}

	if toks[1].Klass != token.TypeName {
		t.Fatalf("'vec3' klass = %v, want TypeName", toks[1].Klass)
	}
}

func TestTokenizer_BoolConstants(t *testing.T) {
	toks, _ := tokenizeAll(t, "true false")

	if toks[0].Klass != token.BoolConstant || toks[1].Klass != token.BoolConstant {
		t.Fatalf("got kinds %v, want [BoolConstant BoolConstant ...]", kinds(toks))
	}
}

func TestTokenizer_NumericLiterals(t *testing.T) {
	cases := []struct {
		text string
		kind token.Kind
	}{
		{"42", token.IntConstant},
		{"42u", token.UintConstant},
		{"42U", token.UintConstant},
		{"3.14", token.FloatConstant},
		{"3.14f", token.FloatConstant},
		{"1e10", token.FloatConstant},
		{"1.5lf", token.DoubleConstant},
		{"0x1F", token.IntConstant},
	}

	for _, c := range cases {
		toks, _ := tokenizeAll(t, c.text)
		if toks[0].Klass != c.kind {
			t.Errorf("tokenize(%q): klass = %v, want %v", c.text, toks[0].Klass, c.kind)
		}

		if toks[0].Text.String() != c.text {
			t.Errorf("tokenize(%q): text = %q, want %q", c.text, toks[0].Text.String(), c.text)
		}
	}
}

func TestTokenizer_HexLiteralWithAndWithoutUnsignedSuffix(t *testing.T) {
	// A plain hex literal is one IntConstant; a trailing 'u' is folded into
	// the same token, which becomes a UintConstant rather than being split
	// off as a second token.
	toks, _ := tokenizeAll(t, "0x2A")
	if toks[0].Klass != token.IntConstant || toks[0].Text.String() != "0x2A" {
		t.Fatalf("tokenize(0x2A) = %v %q", toks[0].Klass, toks[0].Text.String())
	}

	toks, _ = tokenizeAll(t, "0x1Fu")
	if toks[0].Klass != token.UintConstant || toks[0].Text.String() != "0x1Fu" {
		t.Fatalf("tokenize(0x1Fu) = %v %q", toks[0].Klass, toks[0].Text.String())
	}
}

func TestTokenizer_LongestMatchPunctuation(t *testing.T) {
	toks, _ := tokenizeAll(t, ">>= >> > <<")

	want := []token.Kind{token.RightShiftEqual, token.RightShift, token.Greater, token.LeftShift}
	for i, w := range want {
		if toks[i].Klass != w {
			t.Fatalf("token %d: klass = %v, want %v", i, toks[i].Klass, w)
		}
	}
}

func TestTokenizer_LineComment(t *testing.T) {
	toks, _ := tokenizeAll(t, "int a; // comment here\nfloat b;")

	// The comment should contribute zero tokens but the 'float' after it
	// should be flagged as first-of-line.
	var floatTok token.PPToken
	for _, tt := range toks {
		if tt.Text.String() == "float" {
			floatTok = tt
		}
	}

	if !floatTok.FirstTokenOfLine {
		t.Fatal("'float' after a line comment should be first token of its line")
	}
}

func TestTokenizer_BlockCommentCarriesWhitespace(t *testing.T) {
	toks, _ := tokenizeAll(t, "a/**/b")

	// The comment contributes no token, but 'b' must still be flagged as
	// having leading whitespace (spec section 4.4: comments become zero
	// tokens but carry whitespace).
	if toks[1].Text.String() != "b" {
		t.Fatalf("expected second token to be 'b', got %q", toks[1].Text.String())
	}

	if !toks[1].HasLeadingWhitespace {
		t.Fatal("'b' after a block comment should have leading whitespace")
	}
}

func TestTokenizer_UnterminatedBlockCommentDiagnoses(t *testing.T) {
	_, diags := tokenizeAll(t, "int a; /* never closed")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated block comment")
	}
}

func TestTokenizer_UnknownByteGuaranteesForwardProgress(t *testing.T) {
	toks, diags := tokenizeAll(t, "int a = `;")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the unknown byte")
	}

	foundUnknown := false
	for _, tt := range toks {
		if tt.Klass == token.Unknown {
			foundUnknown = true
		}
	}

	if !foundUnknown {
		t.Fatal("expected an Unknown token for the backtick")
	}

	// Tokenization must still reach EOF rather than looping forever.
	if toks[len(toks)-1].Klass != token.EOF {
		t.Fatal("tokenizer did not reach EOF after the unknown byte")
	}
}

func TestTokenizer_HeaderNameOnlyWhenRequested(t *testing.T) {
	ctx := source.NewContext(source.UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", `"foo.glsl" <bar.glsl>`)
	file, _ := ctx.File(id)

	atoms := atomtable.New()
	diags := &diag.Stream{}
	tz := New(file, atoms, diags)

	// Without ExpectHeaderName, '"' is tokenized as ordinary punctuation
	// (Unknown, since GLSL has no string literal syntax of its own).
	first := tz.Next()
	if first.Klass == token.HeaderName {
		t.Fatal("header-name token produced without ExpectHeaderName being called")
	}
}

func TestTokenizer_HeaderNameQuotedAndAngled(t *testing.T) {
	ctx := source.NewContext(source.UTF8Columns)
	id := ctx.OpenFromBuffer("t.glsl", `"foo.glsl"`)
	file, _ := ctx.File(id)

	atoms := atomtable.New()
	diags := &diag.Stream{}
	tz := New(file, atoms, diags)
	tz.ExpectHeaderName()

	tok := tz.Next()
	if tok.Klass != token.HeaderName {
		t.Fatalf("klass = %v, want HeaderName", tok.Klass)
	}

	if tok.Text.String() != `"foo.glsl"` {
		t.Fatalf("text = %q, want %q", tok.Text.String(), `"foo.glsl"`)
	}

	ctx2 := source.NewContext(source.UTF8Columns)
	id2 := ctx2.OpenFromBuffer("t2.glsl", `<bar.glsl>`)
	file2, _ := ctx2.File(id2)

	tz2 := New(file2, atoms, diags)
	tz2.ExpectHeaderName()

	angled := tz2.Next()
	if angled.Klass != token.HeaderName {
		t.Fatalf("klass = %v, want HeaderName", angled.Klass)
	}

	if angled.Text.String() != `<bar.glsl>` {
		t.Fatalf("text = %q, want %q", angled.Text.String(), `<bar.glsl>`)
	}
}

func TestTokenizer_FirstTokenOfLineFlag(t *testing.T) {
	toks, _ := tokenizeAll(t, "a b\nc")

	if !toks[0].FirstTokenOfLine {
		t.Fatal("'a' should be first token of line")
	}

	if toks[1].FirstTokenOfLine {
		t.Fatal("'b' should not be first token of line")
	}

	if !toks[2].FirstTokenOfLine {
		t.Fatal("'c' should be first token of line")
	}
}

func TestTokenizer_SpelledRangeRoundtrips(t *testing.T) {
	ctx := source.NewContext(source.UTF8Columns)
	text := "int foo;"
	id := ctx.OpenFromBuffer("t.glsl", text)
	file, _ := ctx.File(id)

	atoms := atomtable.New()
	diags := &diag.Stream{}
	tz := New(file, atoms, diags)

	tok := tz.Next() // "int"
	tz.Next()        // "foo"

	got := file.Text(tok.SpelledRange)
	if got != "int" {
		t.Fatalf("spelled range text = %q, want %q", got, "int")
	}
}
