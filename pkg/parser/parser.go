// Package parser implements a recursive-descent, error-recovering parser
// over a fully preprocessed token stream (spec section 4.7), producing AST
// nodes through an ast.Builder.
//
// Grounded on the teacher's pkg/zkc/compiler/parser/parser.go: a flat
// []Token slice walked by an integer cursor, with lookahead/expect/match/
// follows helper methods and per-production methods that each return
// whatever node they built plus any accumulated diagnostics rather than
// panicking. Reworked here from that parser's single-error-aborts-the-file
// behavior (each top-level production failure stops Parse entirely) into
// GLSL's usual synchronizing-boundary recovery (spec section 4.7): on a
// syntax error inside one declaration or statement, skip forward to the
// next likely boundary (';', a brace at the starting nesting depth, or EOF)
// and keep parsing, so one mistake does not hide every diagnostic after it.
package parser

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// Parser walks the translation-unit slice of a LexContext's token vector.
type Parser struct {
	lex   *lexcontext.LexContext
	atoms *atomtable.Table
	diags *diag.Stream
	b     *ast.Builder

	pos lexcontext.SyntaxTokenID
	end lexcontext.SyntaxTokenID
}

// New constructs a Parser over lex's translation-unit tokens (i.e. excluding
// any adopted preamble, per lexcontext.LexContext.TUTokens).
func New(lex *lexcontext.LexContext, atoms *atomtable.Table, diags *diag.Stream, b *ast.Builder) *Parser {
	return &Parser{
		lex:   lex,
		atoms: atoms,
		diags: diags,
		b:     b,
		pos:   lex.TUStart(),
		end:   lexcontext.SyntaxTokenID(lex.Len()),
	}
}

// ParseTranslationUnit parses external declarations until EOF, recovering
// after each one that fails, and returns the resulting top-level DeclIDs.
func (p *Parser) ParseTranslationUnit() []ast.DeclID {
	var decls []ast.DeclID

	for !p.atEOF() {
		d := p.parseExternalDeclaration()
		decls = append(decls, d)
	}

	return decls
}

// ===================================================================
// Token-stream primitives
// ===================================================================

func (p *Parser) atEOF() bool {
	return p.pos >= p.end || p.cur().Klass == token.EOF
}

func (p *Parser) cur() lexcontext.RawSyntaxToken {
	if p.pos >= p.end {
		return p.lex.Token(p.end - 1)
	}

	return p.lex.Token(p.pos)
}

func (p *Parser) kind() token.Kind {
	return p.cur().Klass
}

// peekKind looks n tokens ahead of the current one without consuming
// anything, used for the interface-block-vs-declaration tie-break (spec
// section 4.7): `Qualifiers Identifier {` only reads as a block when the
// brace follows directly.
func (p *Parser) peekKind(n int) token.Kind {
	id := p.pos + lexcontext.SyntaxTokenID(n)
	if id >= p.end {
		return token.EOF
	}

	return p.lex.Token(id).Klass
}

func (p *Parser) advance() lexcontext.SyntaxTokenID {
	id := p.pos
	if p.pos < p.end {
		p.pos++
	}

	return id
}

// match consumes the current token and returns true iff it has kind k.
func (p *Parser) match(k token.Kind) bool {
	if p.kind() == k {
		p.advance()
		return true
	}

	return false
}

// follows reports whether the current token is one of the given kinds.
func (p *Parser) follows(kinds ...token.Kind) bool {
	cur := p.kind()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}

	return false
}

// expect consumes and returns the current token if it has kind k, otherwise
// records a diagnostic and leaves the cursor in place.
func (p *Parser) expect(k token.Kind) (lexcontext.SyntaxTokenID, bool) {
	if p.kind() == k {
		return p.advance(), true
	}

	p.errorf("expected %q, found %q", k.String(), p.kind().String())

	return p.pos, false
}

func (p *Parser) errorf(format string, args ...any) {
	anchor := p.anchor(p.pos)
	p.diags.Errorf(anchor, format, args...)
}

func (p *Parser) anchor(id lexcontext.SyntaxTokenID) diag.Anchor {
	file, rng := p.lex.LookupExpandedTextRange(id)

	return diag.Anchor{
		HasToken:  true,
		SyntaxToken: uint32(id),
		File:      uint32(file),
		StartLine: rng.Start.Line,
		StartChar: rng.Start.Character,
		EndLine:   rng.End.Line,
		EndChar:   rng.End.Character,
	}
}

func (p *Parser) rangeFrom(start lexcontext.SyntaxTokenID) ast.SyntaxRange {
	end := p.pos
	if end > start {
		end--
	}

	return ast.SyntaxRange{Begin: start, End: end}
}

// synchronize implements panic-mode recovery (spec section 4.7): advance
// past tokens until a plausible declaration/statement boundary — a ';' at
// the starting nesting depth, a '}' that closes back past the starting
// depth, or EOF — tracking paren/bracket/brace depth so an errant ';' or
// '}' nested inside an unparsed argument list or initializer does not stop
// recovery too early.
func (p *Parser) synchronize() {
	depth := 0

	for !p.atEOF() {
		switch p.kind() {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
			p.advance()

			continue
		case token.Semicolon:
			p.advance()
			if depth == 0 {
				return
			}

			continue
		case token.RightBrace:
			if depth == 0 {
				return
			}

			depth--
			p.advance()

			continue
		case token.RightParen, token.RightBracket:
			if depth > 0 {
				depth--
			}

			p.advance()

			continue
		}

		p.advance()
	}
}

func (p *Parser) identAtom() (atomtable.AtomString, bool) {
	if p.kind() != token.Identifier {
		p.errorf("expected identifier, found %q", p.kind().String())
		return atomtable.AtomString{}, false
	}

	text := p.cur().Text
	p.advance()

	return text, true
}

// qualifierKind reports whether k spells one of GLSL's type/storage/layout
// qualifier keywords (spec section 4.2): these may prefix a declaration in
// any order and quantity, unlike the fixed single base-type keyword that
// follows them.
func qualifierKind(k token.Kind) bool {
	switch k {
	case token.KwConst, token.KwUniform, token.KwBuffer, token.KwShared,
		token.KwAttribute, token.KwVarying, token.KwIn, token.KwOut, token.KwInout,
		token.KwHighp, token.KwMediump, token.KwLowp,
		token.KwFlat, token.KwSmooth, token.KwNoperspective,
		token.KwLayout, token.KwInvariant, token.KwPrecise, token.KwCentroid,
		token.KwPatch, token.KwSubroutine:
		return true
	default:
		return false
	}
}

// parseQualifierList consumes zero or more leading qualifier keywords,
// including a parenthesized `layout(...)` argument list whose contents are
// not semantically interpreted here (spec section 4.9 leaves per-qualifier
// layout arguments to the type checker / code generator, out of scope for
// parsing proper beyond balancing parens).
func (p *Parser) parseQualifierList() []atomtable.AtomString {
	var quals []atomtable.AtomString

	for qualifierKind(p.kind()) {
		text := p.cur().Text
		if !text.IsValid() {
			text = p.atoms.GetAtom(p.kind().String())
		}

		isLayout := p.kind() == token.KwLayout

		quals = append(quals, text)
		p.advance()

		if isLayout && p.match(token.LeftParen) {
			depth := 1
			for depth > 0 && !p.atEOF() {
				switch p.kind() {
				case token.LeftParen:
					depth++
				case token.RightParen:
					depth--
				}

				p.advance()
			}
		}
	}

	return quals
}

// looksLikeTypeStart reports whether the current token can begin a type
// specifier: a builtin TypeName, `void`, `struct`, or a plain Identifier
// (a previously declared struct/interface-block name).
func (p *Parser) looksLikeTypeStart() bool {
	switch p.kind() {
	case token.TypeName, token.KwVoid, token.KwStruct, token.Identifier:
		return true
	default:
		return false
	}
}
