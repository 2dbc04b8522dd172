package lexcontext

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/preprocessor"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

func appendPreprocessed(t *testing.T, lex *LexContext, text string) {
	t.Helper()

	atoms := atomtable.New()
	sources := source.NewContext(source.UTF8Columns)
	diags := &diag.Stream{}

	id := sources.OpenFromBuffer("t.glsl", text)
	pp := preprocessor.New(sources, atoms, diags, nil, 0)
	lex.Append(pp.Run(id))
}

func TestLexContext_TUStartExcludesPreambleTokens(t *testing.T) {
	lex := New()

	appendPreprocessed(t, lex, "int preamble_decl;")
	lex.MarkTUStart()
	appendPreprocessed(t, lex, "int user_decl;")

	tu := lex.TUTokens()
	if len(tu) == 0 || tu[0].Text.String() != "int" || tu[1].Text.String() != "user_decl" {
		t.Fatalf("TUTokens() should start at the user declaration, got %+v", tu[:2])
	}

	if int(lex.TUStart()) == 0 {
		t.Fatal("TUStart should be past the preamble tokens")
	}
}

func TestLexContext_AppendAssignsDenseIDs(t *testing.T) {
	lex := New()

	appendPreprocessed(t, lex, "a b c")

	if lex.Len() < 4 { // a, b, c, EOF
		t.Fatalf("Len() = %d, want at least 4", lex.Len())
	}

	if lex.Token(0).Text.String() != "a" || lex.Token(1).Text.String() != "b" {
		t.Fatal("tokens were not appended in order with dense IDs")
	}
}

func TestLexContext_SpelledAndExpandedRangesDivergeUnderMacroExpansion(t *testing.T) {
	lex := New()

	appendPreprocessed(t, lex, "#define X 1\nint a = X;")

	var found bool
	for i := 0; i < lex.Len(); i++ {
		tok := lex.Token(SyntaxTokenID(i))
		if tok.Klass == token.IntConstant && tok.Text.String() == "1" {
			found = true

			if tok.SpelledRange.Start.Line != 0 {
				t.Fatalf("'1' was spelled on line %d, want line 0 (the #define line)", tok.SpelledRange.Start.Line)
			}

			if tok.ExpandedRange.Start.Line != 1 {
				t.Fatalf("'1' expanded to line %d, want line 1 (where X is used)", tok.ExpandedRange.Start.Line)
			}
		}
	}

	if !found {
		t.Fatal("expected the macro-substituted '1' token to appear in the stream")
	}
}
