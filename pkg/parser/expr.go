package parser

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// binaryLevels lists GLSL's binary-operator precedence levels from lowest
// to highest (spec section 4.7's 19 binary operators), excluding
// assignment and the ternary conditional which parseExpr handles above
// this table. Grounded on the teacher's single-level parseExpr
// (pkg/zkc/compiler/parser/parser.go), generalized here from one flat
// left-associative level to a full precedence-climbing ladder since GLSL's
// expression grammar (unlike the teacher's single-sort arithmetic
// language) has eleven distinct binding strengths.
var binaryLevels = [][]token.Kind{
	{token.BarBar},
	{token.CaretCaret},
	{token.AmpAmp},
	{token.Bar},
	{token.Caret},
	{token.Amp},
	{token.EqualEqual, token.BangEqual},
	{token.Less, token.Greater, token.LessEqual, token.GreaterEqual},
	{token.LeftShift, token.RightShift},
	{token.Plus, token.Dash},
	{token.Star, token.Slash, token.Percent},
}

var assignOps = []token.Kind{
	token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual,
	token.PercentEqual, token.LeftShiftEqual, token.RightShiftEqual,
	token.AmpEqual, token.BarEqual, token.CaretEqual,
}

// parseExpr is the parser's single expression entry point. GLSL's comma
// operator is not supported (spec's Non-goals exclude the full expression
// grammar's sequencing form); every caller that needs "an expression" gets
// an assignment-expression, which covers every context the grammar
// actually uses (array bounds, call arguments, statement expressions).
func (p *Parser) parseExpr() ast.ExprID {
	return p.parseAssignExpr()
}

func (p *Parser) parseAssignExpr() ast.ExprID {
	start := p.pos
	left := p.parseConditionalExpr()

	if p.follows(assignOps...) {
		op := p.kind()
		p.advance()

		right := p.parseAssignExpr()

		return p.b.NewAssignExpr(p.rangeFrom(start), op, left, right)
	}

	return left
}

func (p *Parser) parseConditionalExpr() ast.ExprID {
	start := p.pos
	cond := p.parseBinaryLevel(0)

	if !p.match(token.Question) {
		return cond
	}

	trueVal := p.parseAssignExpr()

	p.expect(token.Colon)

	falseVal := p.parseAssignExpr()

	return p.b.NewTernaryExpr(p.rangeFrom(start), cond, trueVal, falseVal)
}

// parseBinaryLevel implements precedence climbing over binaryLevels: level
// i defers to level i+1 for its operands, then repeatedly consumes any
// operator belonging to level i (left-associative).
func (p *Parser) parseBinaryLevel(level int) ast.ExprID {
	if level >= len(binaryLevels) {
		return p.parseUnaryExpr()
	}

	start := p.pos
	left := p.parseBinaryLevel(level + 1)

	for p.follows(binaryLevels[level]...) {
		op := p.kind()
		p.advance()

		right := p.parseBinaryLevel(level + 1)
		left = p.b.NewBinaryExpr(p.rangeFrom(start), op, left, right)
	}

	return left
}

var prefixOps = []token.Kind{token.PlusPlus, token.MinusMinus, token.Plus, token.Dash, token.Bang, token.Tilde}

func (p *Parser) parseUnaryExpr() ast.ExprID {
	if p.follows(prefixOps...) {
		start := p.pos
		op := p.kind()
		p.advance()

		operand := p.parseUnaryExpr()

		return p.b.NewUnaryExpr(p.rangeFrom(start), op, operand, false)
	}

	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.ExprID {
	start := p.pos
	e := p.parsePrimaryExpr()

	for {
		switch p.kind() {
		case token.Dot:
			p.advance()

			field, ok := p.identAtom()
			if !ok {
				break
			}

			e = p.b.NewFieldExpr(p.rangeFrom(start), e, field)
		case token.LeftBracket:
			p.advance()

			index := p.parseExpr()

			p.expect(token.RightBracket)

			e = p.b.NewIndexExpr(p.rangeFrom(start), e, index)
		case token.PlusPlus, token.MinusMinus:
			op := p.kind()
			p.advance()

			e = p.b.NewUnaryExpr(p.rangeFrom(start), op, e, true)
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimaryExpr() ast.ExprID {
	start := p.pos

	switch p.kind() {
	case token.IntConstant, token.UintConstant, token.FloatConstant, token.DoubleConstant, token.BoolConstant:
		klass, text := p.kind(), p.cur().Text
		p.advance()

		return p.b.NewLiteralExpr(p.rangeFrom(start), klass, text)
	case token.LeftParen:
		p.advance()

		e := p.parseExpr()

		p.expect(token.RightParen)

		return e
	case token.Identifier:
		name, _ := p.identAtom()

		if p.kind() == token.LeftParen {
			return p.parseCallArgs(start, name)
		}

		return p.b.NewNameExpr(p.rangeFrom(start), name)
	case token.TypeName:
		return p.parseTypeConstructor(start)
	default:
		p.errorf("expected an expression, found %q", p.kind().String())
		p.advance()

		return p.b.NewErrorExpr(p.rangeFrom(start))
	}
}

// parseTypeConstructor parses a builtin-type constructor call, including
// the `T[n](...)` array-constructor spelling (spec section 4.7's
// constructor-vs-index tie-break: a type name followed by an array
// specifier is never an index expression, since a bare type name is never
// itself indexable). The array dimensions are parsed so the grammar stays
// total and then dropped: ast.CallPayload carries only the element type
// name, so the call is typed as that element type and the array size is
// not recorded anywhere.
func (p *Parser) parseTypeConstructor(start lexcontext.SyntaxTokenID) ast.ExprID {
	name := p.cur().Text
	if !name.IsValid() {
		name = p.atoms.GetAtom(p.kind().String())
	}

	p.advance()

	for p.kind() == token.LeftBracket {
		p.advance()

		if p.kind() != token.RightBracket {
			p.parseExpr()
		}

		p.expect(token.RightBracket)
	}

	if p.kind() != token.LeftParen {
		p.errorf("expected '(' to begin a %q constructor call", name.String())

		return p.b.NewErrorExpr(p.rangeFrom(start))
	}

	return p.parseCallArgs(start, name)
}

func (p *Parser) parseCallArgs(start lexcontext.SyntaxTokenID, callee atomtable.AtomString) ast.ExprID {
	p.advance() // '('

	var args []ast.ExprID

	if p.kind() != token.RightParen {
		for {
			args = append(args, p.parseAssignExpr())
			if !p.match(token.Comma) {
				break
			}
		}
	}

	p.expect(token.RightParen)

	return p.b.NewCallExpr(p.rangeFrom(start), callee, args)
}
