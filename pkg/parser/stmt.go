package parser

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// parseStmt parses one statement, recovering to the next synchronizing
// boundary on failure (spec section 4.7).
func (p *Parser) parseStmt() ast.StmtID {
	switch p.kind() {
	case token.LeftBrace:
		return p.parseCompoundStmt(true)
	case token.Semicolon:
		start := p.advance()
		return p.b.NewEmptyStmt(p.rangeFrom(start))
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwDo:
		return p.parseDoWhileStmt()
	case token.KwSwitch:
		return p.parseSwitchStmt()
	case token.KwCase:
		return p.parseCaseStmt()
	case token.KwDefault:
		return p.parseDefaultStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		return p.parseSimpleJump(token.KwBreak, p.b.NewBreakStmt)
	case token.KwContinue:
		return p.parseSimpleJump(token.KwContinue, p.b.NewContinueStmt)
	case token.KwDiscard:
		return p.parseSimpleJump(token.KwDiscard, p.b.NewDiscardStmt)
	default:
		if p.startsLocalDeclaration() {
			return p.parseDeclStmt()
		}

		return p.parseExprStmt()
	}
}

// parseCompoundStmt parses a `{ statement* }` block. ownScope distinguishes
// a nested block (which introduces its own scope) from a function body
// (whose parameters already share the function's scope, per spec section
// 4.10).
func (p *Parser) parseCompoundStmt(ownScope bool) ast.StmtID {
	start := p.pos

	if _, ok := p.expect(token.LeftBrace); !ok {
		p.synchronize()
		return p.b.NewErrorStmt(p.rangeFrom(start))
	}

	var stmts []ast.StmtID

	for !p.follows(token.RightBrace) && !p.atEOF() {
		stmts = append(stmts, p.parseStmt())
	}

	p.expect(token.RightBrace)

	return p.b.NewCompoundStmt(p.rangeFrom(start), stmts, ownScope)
}

// startsLocalDeclaration reports whether the current position begins a
// local variable declaration rather than an expression statement: a
// qualifier keyword, a builtin type keyword, `void`, `struct`, or an
// Identifier that is immediately followed by another Identifier (the
// declarator name) rather than an operator — distinguishing `Foo x;` from
// `x = 1;` without needing symbol-table lookup during parsing.
func (p *Parser) startsLocalDeclaration() bool {
	switch p.kind() {
	case token.KwConst, token.KwHighp, token.KwMediump, token.KwLowp,
		token.KwPrecise, token.KwInvariant, token.KwFlat, token.KwSmooth, token.KwNoperspective,
		token.TypeName, token.KwVoid, token.KwStruct:
		return true
	case token.Identifier:
		return p.peekKind(1) == token.Identifier
	default:
		return false
	}
}

func (p *Parser) parseDeclStmt() ast.StmtID {
	start := p.pos
	d := p.parseLocalDeclaration()

	return p.b.NewDeclStmt(p.rangeFrom(start), d)
}

// parseLocalDeclaration parses a local `struct` type or a variable
// declaration; local function declarations are not part of GLSL's grammar.
func (p *Parser) parseLocalDeclaration() ast.DeclID {
	start := p.pos
	quals := p.parseQualifierList()

	if p.kind() == token.KwStruct && p.peekKind(1) == token.Identifier && p.peekKind(2) == token.LeftBrace {
		sd := p.parseStructDecl()
		if p.match(token.Semicolon) {
			return sd
		}

		name := p.b.Context().Decl(sd).AsStruct().Name

		return p.parseDeclaratorsOrFunction(start, quals, ast.QualType{Name: name})
	}

	if !p.looksLikeTypeStart() {
		p.errorf("expected a local declaration, found %q", p.kind().String())
		p.synchronize()

		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	typeName := p.cur().Text
	if !typeName.IsValid() {
		typeName = p.atoms.GetAtom(p.kind().String())
	}

	p.advance()

	return p.parseDeclaratorsOrFunction(start, quals, ast.QualType{Name: typeName})
}

func (p *Parser) parseExprStmt() ast.StmtID {
	start := p.pos
	e := p.parseExpr()

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after expression statement")
		p.synchronize()
	}

	return p.b.NewExprStmt(p.rangeFrom(start), e)
}

func (p *Parser) parseIfStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'if'
	p.expect(token.LeftParen)

	cond := p.parseExpr()

	p.expect(token.RightParen)

	thenStmt := p.parseStmt()

	var elseStmt ast.StmtID = ast.NoStmt

	if p.match(token.KwElse) {
		elseStmt = p.parseStmt()
	}

	return p.b.NewIfStmt(p.rangeFrom(start), cond, thenStmt, elseStmt)
}

func (p *Parser) parseForStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'for'
	p.expect(token.LeftParen)

	var init ast.ForInit

	switch {
	case p.match(token.Semicolon):
		// empty init-statement
	case p.startsLocalDeclaration():
		init.Decl = p.parseLocalDeclaration()

		if !p.match(token.Semicolon) {
			p.errorf("expected ';' after for-loop init declaration")
		}
	default:
		init.Expr = p.parseExpr()

		if !p.match(token.Semicolon) {
			p.errorf("expected ';' after for-loop init expression")
		}
	}

	var cond ast.ExprID = ast.NoExpr

	if !p.follows(token.Semicolon) {
		cond = p.parseExpr()
	}

	p.expect(token.Semicolon)

	var post ast.ExprID = ast.NoExpr

	if !p.follows(token.RightParen) {
		post = p.parseExpr()
	}

	p.expect(token.RightParen)

	body := p.parseStmt()

	return p.b.NewForStmt(p.rangeFrom(start), init, cond, post, body)
}

func (p *Parser) parseWhileStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'while'
	p.expect(token.LeftParen)

	cond := p.parseExpr()

	p.expect(token.RightParen)

	body := p.parseStmt()

	return p.b.NewWhileStmt(p.rangeFrom(start), cond, body)
}

func (p *Parser) parseDoWhileStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'do'

	body := p.parseStmt()

	p.expect(token.KwWhile)
	p.expect(token.LeftParen)

	cond := p.parseExpr()

	p.expect(token.RightParen)

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after do-while statement")
		p.synchronize()
	}

	return p.b.NewDoWhileStmt(p.rangeFrom(start), body, cond)
}

func (p *Parser) parseSwitchStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'switch'
	p.expect(token.LeftParen)

	scrutinee := p.parseExpr()

	p.expect(token.RightParen)

	body := p.parseCompoundStmt(true)

	return p.b.NewSwitchStmt(p.rangeFrom(start), scrutinee, body)
}

func (p *Parser) parseCaseStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'case'

	value := p.parseExpr()

	if !p.match(token.Colon) {
		p.errorf("expected ':' after case label")
		p.synchronize()
	}

	return p.b.NewCaseStmt(p.rangeFrom(start), value)
}

func (p *Parser) parseDefaultStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'default'

	if !p.match(token.Colon) {
		p.errorf("expected ':' after default label")
		p.synchronize()
	}

	return p.b.NewDefaultStmt(p.rangeFrom(start))
}

func (p *Parser) parseReturnStmt() ast.StmtID {
	start := p.pos
	p.advance() // 'return'

	var value ast.ExprID = ast.NoExpr

	if !p.follows(token.Semicolon) {
		value = p.parseExpr()
	}

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after return statement")
		p.synchronize()
	}

	return p.b.NewReturnStmt(p.rangeFrom(start), value)
}

func (p *Parser) parseSimpleJump(k token.Kind, build func(ast.SyntaxRange) ast.StmtID) ast.StmtID {
	start := p.pos
	p.advance()

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after %q", k.String())
		p.synchronize()
	}

	return build(p.rangeFrom(start))
}
