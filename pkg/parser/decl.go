package parser

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// parseExternalDeclaration parses one top-level declaration or function
// definition, recovering to the next synchronizing boundary on failure
// (spec section 4.7).
func (p *Parser) parseExternalDeclaration() ast.DeclID {
	start := p.pos

	if p.kind() == token.KwPrecision {
		return p.parsePrecisionDecl()
	}

	quals := p.parseQualifierList()

	// `type_qualifier Identifier {` reads as a (possibly anonymous-instance)
	// interface block rather than a plain declaration.
	if p.kind() == token.Identifier && p.peekKind(1) == token.LeftBrace {
		return p.parseInterfaceBlockDecl(start, quals)
	}

	if p.kind() == token.KwStruct && p.peekKind(1) == token.Identifier && p.peekKind(2) == token.LeftBrace {
		sd := p.parseStructDecl()
		if p.kind() == token.Semicolon {
			p.advance()
			return sd
		}
		// A named struct followed immediately by declarators, e.g.
		// `struct Foo { ... } a, b;` — the struct's own name is reused as
		// the declarators' base type.
		name := p.b.Context().Decl(sd).AsStruct().Name
		return p.parseDeclaratorsOrFunction(start, quals, ast.QualType{Name: name})
	}

	if !p.looksLikeTypeStart() {
		p.errorf("expected a declaration, found %q", p.kind().String())
		p.synchronize()

		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	typeName := p.cur().Text
	if !typeName.IsValid() {
		typeName = p.atoms.GetAtom(p.kind().String())
	}

	p.advance()

	if len(quals) == 0 && p.kind() == token.Semicolon {
		// A bare `float;` has no declarator: malformed, but recover cleanly.
		p.advance()
		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	if len(quals) > 0 && p.kind() == token.Semicolon {
		p.advance()
		return p.b.NewQualifierOnlyDecl(p.rangeFrom(start), quals)
	}

	return p.parseDeclaratorsOrFunction(start, quals, ast.QualType{Name: typeName})
}

func (p *Parser) parsePrecisionDecl() ast.DeclID {
	start := p.pos
	p.advance() // 'precision'

	var qualifier atomtable.AtomString

	switch p.kind() {
	case token.KwHighp, token.KwMediump, token.KwLowp:
		qualifier = p.cur().Text
		if !qualifier.IsValid() {
			qualifier = p.atoms.GetAtom(p.kind().String())
		}

		p.advance()
	default:
		p.errorf("expected a precision qualifier, found %q", p.kind().String())
	}

	qt := ast.QualType{}
	if p.looksLikeTypeStart() {
		qt.Name = p.cur().Text
		if !qt.Name.IsValid() {
			qt.Name = p.atoms.GetAtom(p.kind().String())
		}

		p.advance()
	}

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after precision declaration")
		p.synchronize()
	}

	return p.b.NewPrecisionDecl(p.rangeFrom(start), qualifier, qt)
}

// parseStructDecl parses `struct Name? { member-decl* }`, without consuming
// a trailing ';' or declarator list — the caller decides which applies.
func (p *Parser) parseStructDecl() ast.DeclID {
	start := p.pos
	p.advance() // 'struct'

	var name atomtable.AtomString
	if p.kind() == token.Identifier {
		name, _ = p.identAtom()
	}

	if _, ok := p.expect(token.LeftBrace); !ok {
		p.synchronize()
		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	var fields []ast.DeclID

	for !p.follows(token.RightBrace) && !p.atEOF() {
		fields = append(fields, p.parseStructMemberDecl())
	}

	p.expect(token.RightBrace)

	return p.b.NewStructDecl(p.rangeFrom(start), name, fields)
}

// parseStructMemberDecl parses one `type_specifier declarator-list ';'`
// field of a struct or interface block body; GLSL disallows qualifiers
// here other than array specifiers on the declarator itself.
func (p *Parser) parseStructMemberDecl() ast.DeclID {
	start := p.pos

	if !p.looksLikeTypeStart() {
		p.errorf("expected a field type, found %q", p.kind().String())
		p.synchronize()

		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	typeName := p.cur().Text
	if !typeName.IsValid() {
		typeName = p.atoms.GetAtom(p.kind().String())
	}

	p.advance()

	qt := ast.QualType{Name: typeName}

	var declarators []ast.Declarator

	for {
		d := p.parseDeclarator(false)
		declarators = append(declarators, d)

		if !p.match(token.Comma) {
			break
		}
	}

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after field declaration")
		p.synchronize()
	}

	return p.b.NewVariableDecl(p.rangeFrom(start), nil, qt, declarators)
}

// parseInterfaceBlockDecl parses the block-name, field list, and optional
// instance name/array suffix of a named interface block (spec section
// 4.10), e.g. `uniform Camera { mat4 view; mat4 proj; } camera;`.
func (p *Parser) parseInterfaceBlockDecl(start lexcontext.SyntaxTokenID, quals []atomtable.AtomString) ast.DeclID {
	blockName, _ := p.identAtom()

	if _, ok := p.expect(token.LeftBrace); !ok {
		p.synchronize()
		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	var fields []ast.DeclID

	for !p.follows(token.RightBrace) && !p.atEOF() {
		fields = append(fields, p.parseStructMemberDecl())
	}

	p.expect(token.RightBrace)

	var instanceName atomtable.AtomString

	var dims []ast.ExprID

	if p.kind() == token.Identifier {
		instanceName, _ = p.identAtom()
		dims = p.parseArraySpecifiers()
	}

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after interface block declaration")
		p.synchronize()
	}

	return p.b.NewInterfaceBlockDecl(p.rangeFrom(start), quals, blockName, fields, instanceName, dims)
}

// parseDeclaratorsOrFunction disambiguates a function prototype/definition
// from a variable declaration: both start with `qualifiers? type
// Identifier`, but a function continues with '(' (spec section 4.7's
// grammar tie-break list).
func (p *Parser) parseDeclaratorsOrFunction(start lexcontext.SyntaxTokenID, quals []atomtable.AtomString, qt ast.QualType) ast.DeclID {
	name, ok := p.identAtom()
	if !ok {
		p.synchronize()
		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	if p.kind() == token.LeftParen {
		return p.parseFunctionRest(start, qt, name)
	}

	first := p.parseDeclaratorRest(name)

	declarators := []ast.Declarator{first}

	for p.match(token.Comma) {
		declarators = append(declarators, p.parseDeclarator(false))
	}

	if !p.match(token.Semicolon) {
		p.errorf("expected ';' after declaration")

		// A token that starts a new line is taken as the start of the next
		// declaration rather than skipped as part of this one.
		if !p.cur().FirstTokenOfLine {
			p.synchronize()
		}
	}

	return p.b.NewVariableDecl(p.rangeFrom(start), quals, qt, declarators)
}

// parseDeclarator parses one `Identifier array-specifiers? ('=' initializer)?`
// entry of a declarator-list.
func (p *Parser) parseDeclarator(allowMissingName bool) ast.Declarator {
	if allowMissingName && p.kind() != token.Identifier {
		return ast.Declarator{}
	}

	name, _ := p.identAtom()

	return p.parseDeclaratorRest(name)
}

func (p *Parser) parseDeclaratorRest(name atomtable.AtomString) ast.Declarator {
	dims := p.parseArraySpecifiers()

	var init ast.ExprID

	if p.match(token.Equal) {
		init = p.parseAssignmentOrInitializer()
	}

	return ast.Declarator{Name: name, DimSizes: dims, Init: init}
}

// parseArraySpecifiers parses zero or more `[` const-expr? `]` suffixes,
// with a NoExpr dimension recorded for an unsized `[]` (spec section 4.9's
// array-folding rule resolves the final shape once dims are evaluated).
func (p *Parser) parseArraySpecifiers() []ast.ExprID {
	var dims []ast.ExprID

	for p.match(token.LeftBracket) {
		if p.match(token.RightBracket) {
			dims = append(dims, ast.NoExpr)
			continue
		}

		dims = append(dims, p.parseExpr())
		p.expect(token.RightBracket)
	}

	return dims
}

// parseAssignmentOrInitializer parses either a single assignment expression
// or a brace-enclosed initializer list as a declarator's initializer.
func (p *Parser) parseAssignmentOrInitializer() ast.ExprID {
	if p.kind() == token.LeftBrace {
		return p.parseInitList()
	}

	return p.parseAssignExpr()
}

func (p *Parser) parseInitList() ast.ExprID {
	start := p.pos
	p.advance() // '{'

	var elems []ast.ExprID

	for !p.follows(token.RightBrace) && !p.atEOF() {
		elems = append(elems, p.parseAssignmentOrInitializer())

		if !p.match(token.Comma) {
			break
		}
	}

	p.expect(token.RightBrace)

	return p.b.NewInitListExpr(p.rangeFrom(start), elems)
}

// parseFunctionRest parses a function's parameter list and either a
// trailing ';' (prototype) or a compound-statement body (definition) — the
// presence of the semicolon is the sole tie-break (spec section 4.7).
func (p *Parser) parseFunctionRest(start lexcontext.SyntaxTokenID, returnType ast.QualType, name atomtable.AtomString) ast.DeclID {
	p.advance() // '('

	var params []ast.DeclID

	if p.kind() == token.KwVoid && p.peekKind(1) == token.RightParen {
		p.advance() // bare `(void)` is zero parameters, same as `()`.
	} else if p.kind() != token.RightParen {
		for {
			params = append(params, p.parseParamDecl())
			if !p.match(token.Comma) {
				break
			}
		}
	}

	p.expect(token.RightParen)

	if p.match(token.Semicolon) {
		return p.b.NewFunctionDecl(p.rangeFrom(start), returnType, name, params, ast.NoStmt)
	}

	body := p.parseCompoundStmt(false)

	return p.b.NewFunctionDecl(p.rangeFrom(start), returnType, name, params, body)
}

func (p *Parser) parseParamDecl() ast.DeclID {
	start := p.pos

	quals := p.parseQualifierList()

	if !p.looksLikeTypeStart() {
		p.errorf("expected a parameter type, found %q", p.kind().String())
		return p.b.NewErrorDecl(p.rangeFrom(start))
	}

	typeName := p.cur().Text
	if !typeName.IsValid() {
		typeName = p.atoms.GetAtom(p.kind().String())
	}

	p.advance()

	qt := ast.QualType{Name: typeName}

	var name atomtable.AtomString

	var dims []ast.ExprID

	if p.kind() == token.Identifier {
		name, _ = p.identAtom()
		dims = p.parseArraySpecifiers()
	}

	return p.b.NewParamDecl(p.rangeFrom(start), quals, qt, name, dims)
}
