package typecheck

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
)

// anchorForRange builds a diag.Anchor from the first token of an AST node's
// syntax range, using its expanded (not spelled) position so a diagnostic
// inside a macro expansion points at the macro's use site, per spec section
// 4.5.
func anchorForRange(lex *lexcontext.LexContext, rng ast.SyntaxRange) diag.Anchor {
	if rng.Begin >= lexcontext.SyntaxTokenID(lex.Len()) {
		return diag.Anchor{}
	}

	file, r := lex.LookupExpandedTextRange(rng.Begin)

	return diag.Anchor{
		HasToken:    true,
		SyntaxToken: uint32(rng.Begin),
		File:        uint32(file),
		StartLine:   r.Start.Line,
		StartChar:   r.Start.Character,
		EndLine:     r.End.Line,
		EndChar:     r.End.Character,
	}
}
