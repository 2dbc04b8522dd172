package ast

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/token"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// Builder is the parser's single point of contact with a Context: every
// node the parser produces is built through one of these factory methods,
// which is also where the lightweight construction-time tagging spec
// section 9 calls for happens. A literal's type is syntactically obvious
// (an IntConstant token always means the int type), so NewLiteralExpr
// assigns Type immediately; a name access may be ambiguous until overload
// resolution runs, so NewNameExpr leaves NamePayload.Resolved at its zero
// value for the type checker to fill in.
type Builder struct {
	ctx   *Context
	types *types.Context
}

// NewBuilder constructs a Builder over ctx, interning scalar literal types
// through typeCtx.
func NewBuilder(ctx *Context, typeCtx *types.Context) *Builder {
	return &Builder{ctx: ctx, types: typeCtx}
}

// Context returns the underlying node arena.
func (b *Builder) Context() *Context { return b.ctx }

// NewErrorExpr builds the placeholder node the parser substitutes wherever
// it could not build a real expression, keeping the AST total over
// malformed input.
func (b *Builder) NewErrorExpr(rng SyntaxRange) ExprID {
	id := b.ctx.newExpr(ExprError, rng, nil)
	b.ctx.Expr(id).Type = b.types.Error()

	return id
}

// NewLiteralExpr builds a literal constant expression, assigning its scalar
// type immediately from the token kind.
func (b *Builder) NewLiteralExpr(rng SyntaxRange, klass token.Kind, text atomtable.AtomString) ExprID {
	id := b.ctx.newExpr(ExprLiteral, rng, LiteralPayload{Klass: klass, Text: text})
	n := b.ctx.Expr(id)
	n.Type = b.literalType(klass)
	n.IsConst = true

	return id
}

func (b *Builder) literalType(klass token.Kind) *types.Type {
	switch klass {
	case token.IntConstant:
		return b.types.Scalar(types.Int32)
	case token.UintConstant:
		return b.types.Scalar(types.Uint32)
	case token.FloatConstant:
		return b.types.Scalar(types.Float)
	case token.DoubleConstant:
		return b.types.Scalar(types.Double)
	case token.BoolConstant:
		return b.types.Scalar(types.Bool)
	default:
		return b.types.Error()
	}
}

// NewNameExpr builds an identifier-use expression. Name resolution happens
// later, in the type checker.
func (b *Builder) NewNameExpr(rng SyntaxRange, name atomtable.AtomString) ExprID {
	return b.ctx.newExpr(ExprName, rng, NamePayload{Name: name})
}

// NewFieldExpr builds a field-access expression (`a.b`), which the type
// checker may later rewrite to an ExprSwizzle once base's type is known.
func (b *Builder) NewFieldExpr(rng SyntaxRange, base ExprID, field atomtable.AtomString) ExprID {
	return b.ctx.newExpr(ExprField, rng, FieldPayload{Base: base, Field: field})
}

// NewIndexExpr builds an array/vector/matrix subscript expression.
func (b *Builder) NewIndexExpr(rng SyntaxRange, base, index ExprID) ExprID {
	return b.ctx.newExpr(ExprIndex, rng, IndexPayload{Base: base, Index: index})
}

// NewUnaryExpr builds a prefix or postfix unary expression.
func (b *Builder) NewUnaryExpr(rng SyntaxRange, op token.Kind, operand ExprID, postfix bool) ExprID {
	return b.ctx.newExpr(ExprUnary, rng, UnaryPayload{Op: op, Operand: operand, Postfix: postfix})
}

// NewBinaryExpr builds a binary operator expression.
func (b *Builder) NewBinaryExpr(rng SyntaxRange, op token.Kind, left, right ExprID) ExprID {
	return b.ctx.newExpr(ExprBinary, rng, BinaryPayload{Op: op, Left: left, Right: right})
}

// NewTernaryExpr builds a `cond ? a : b` expression.
func (b *Builder) NewTernaryExpr(rng SyntaxRange, cond, trueVal, falseVal ExprID) ExprID {
	return b.ctx.newExpr(ExprTernary, rng, TernaryPayload{Cond: cond, True: trueVal, False: falseVal})
}

// NewAssignExpr builds an assignment expression (=, +=, -=, ...).
func (b *Builder) NewAssignExpr(rng SyntaxRange, op token.Kind, left, right ExprID) ExprID {
	return b.ctx.newExpr(ExprAssign, rng, AssignPayload{Op: op, Left: left, Right: right})
}

// NewCallExpr builds a call expression; whether callee names a type
// constructor or a function is resolved later.
func (b *Builder) NewCallExpr(rng SyntaxRange, callee atomtable.AtomString, args []ExprID) ExprID {
	return b.ctx.newExpr(ExprCall, rng, CallPayload{Callee: callee, Args: args})
}

// NewInitListExpr builds a brace-enclosed initializer list expression.
func (b *Builder) NewInitListExpr(rng SyntaxRange, elements []ExprID) ExprID {
	return b.ctx.newExpr(ExprInitList, rng, InitListPayload{Elements: elements})
}

// NewErrorStmt builds the placeholder statement substituted during error
// recovery.
func (b *Builder) NewErrorStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtError, rng, nil)
}

// NewEmptyStmt builds a bare `;` statement.
func (b *Builder) NewEmptyStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtEmpty, rng, nil)
}

// NewCompoundStmt builds a brace-enclosed statement list.
func (b *Builder) NewCompoundStmt(rng SyntaxRange, stmts []StmtID, ownScope bool) StmtID {
	return b.ctx.newStmt(StmtCompound, rng, CompoundPayload{Statements: stmts, OwnScope: ownScope})
}

// NewExprStmt builds an expression-statement.
func (b *Builder) NewExprStmt(rng SyntaxRange, expr ExprID) StmtID {
	return b.ctx.newStmt(StmtExpr, rng, ExprStmtPayload{Expr: expr})
}

// NewDeclStmt builds a local-variable declaration statement.
func (b *Builder) NewDeclStmt(rng SyntaxRange, decl DeclID) StmtID {
	return b.ctx.newStmt(StmtDecl, rng, DeclStmtPayload{Decl: decl})
}

// NewIfStmt builds an if/else statement. elseStmt is NoStmt when absent.
func (b *Builder) NewIfStmt(rng SyntaxRange, cond ExprID, thenStmt, elseStmt StmtID) StmtID {
	return b.ctx.newStmt(StmtIf, rng, IfPayload{Cond: cond, Then: thenStmt, Else: elseStmt})
}

// NewForStmt builds a for-loop statement.
func (b *Builder) NewForStmt(rng SyntaxRange, init ForInit, cond, post ExprID, body StmtID) StmtID {
	return b.ctx.newStmt(StmtFor, rng, ForPayload{Init: init, Cond: cond, Post: post, Body: body})
}

// NewWhileStmt builds a while-loop statement.
func (b *Builder) NewWhileStmt(rng SyntaxRange, cond ExprID, body StmtID) StmtID {
	return b.ctx.newStmt(StmtWhile, rng, WhilePayload{Cond: cond, Body: body})
}

// NewDoWhileStmt builds a do/while loop statement.
func (b *Builder) NewDoWhileStmt(rng SyntaxRange, body StmtID, cond ExprID) StmtID {
	return b.ctx.newStmt(StmtDoWhile, rng, DoWhilePayload{Body: body, Cond: cond})
}

// NewSwitchStmt builds a switch statement.
func (b *Builder) NewSwitchStmt(rng SyntaxRange, scrutinee ExprID, body StmtID) StmtID {
	return b.ctx.newStmt(StmtSwitch, rng, SwitchPayload{Scrutinee: scrutinee, Body: body})
}

// NewCaseStmt builds a `case <const-expr>:` label.
func (b *Builder) NewCaseStmt(rng SyntaxRange, value ExprID) StmtID {
	return b.ctx.newStmt(StmtCase, rng, CasePayload{Value: value})
}

// NewDefaultStmt builds a `default:` label.
func (b *Builder) NewDefaultStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtDefault, rng, defaultPayload{})
}

// NewReturnStmt builds a return statement. value is NoExpr for a bare
// `return;`.
func (b *Builder) NewReturnStmt(rng SyntaxRange, value ExprID) StmtID {
	return b.ctx.newStmt(StmtReturn, rng, ReturnPayload{Value: value})
}

// NewBreakStmt builds a break statement.
func (b *Builder) NewBreakStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtBreak, rng, jumpPayload{})
}

// NewContinueStmt builds a continue statement.
func (b *Builder) NewContinueStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtContinue, rng, jumpPayload{})
}

// NewDiscardStmt builds a discard statement (fragment shaders only; the type
// checker rejects it elsewhere).
func (b *Builder) NewDiscardStmt(rng SyntaxRange) StmtID {
	return b.ctx.newStmt(StmtDiscard, rng, jumpPayload{})
}

// NewErrorDecl builds the placeholder declaration substituted during error
// recovery.
func (b *Builder) NewErrorDecl(rng SyntaxRange) DeclID {
	return b.ctx.newDecl(DeclError, rng, nil)
}

// NewVariableDecl builds a (possibly multi-declarator) variable declaration.
func (b *Builder) NewVariableDecl(rng SyntaxRange, qualifiers []atomtable.AtomString, qt QualType, declarators []Declarator) DeclID {
	return b.ctx.newDecl(DeclVariable, rng, VariablePayload{Qualifiers: qualifiers, Type: qt, Declarators: declarators})
}

// NewParamDecl builds one function parameter declaration.
func (b *Builder) NewParamDecl(rng SyntaxRange, qualifiers []atomtable.AtomString, qt QualType, name atomtable.AtomString, dims []ExprID) DeclID {
	return b.ctx.newDecl(DeclParam, rng, ParamPayload{Qualifiers: qualifiers, Type: qt, Name: name, DimSizes: dims})
}

// NewFunctionDecl builds a function prototype (body==NoStmt) or definition.
func (b *Builder) NewFunctionDecl(rng SyntaxRange, returnType QualType, name atomtable.AtomString, params []DeclID, body StmtID) DeclID {
	return b.ctx.newDecl(DeclFunction, rng, FunctionPayload{ReturnType: returnType, Name: name, Params: params, Body: body})
}

// NewStructDecl builds a struct type declaration.
func (b *Builder) NewStructDecl(rng SyntaxRange, name atomtable.AtomString, fields []DeclID) DeclID {
	return b.ctx.newDecl(DeclStruct, rng, StructPayload{Name: name, Fields: fields})
}

// NewInterfaceBlockDecl builds a named interface block declaration.
func (b *Builder) NewInterfaceBlockDecl(rng SyntaxRange, qualifiers []atomtable.AtomString, blockName atomtable.AtomString, fields []DeclID, instanceName atomtable.AtomString, arrayDims []ExprID) DeclID {
	return b.ctx.newDecl(DeclInterfaceBlock, rng, InterfaceBlockPayload{
		Qualifiers:   qualifiers,
		BlockName:    blockName,
		Fields:       fields,
		InstanceName: instanceName,
		ArrayDims:    arrayDims,
	})
}

// NewPrecisionDecl builds a `precision <qualifier> <type>;` declaration.
func (b *Builder) NewPrecisionDecl(rng SyntaxRange, qualifier atomtable.AtomString, qt QualType) DeclID {
	return b.ctx.newDecl(DeclPrecision, rng, PrecisionPayload{Qualifier: qualifier, Type: qt})
}

// NewQualifierOnlyDecl builds a lone layout/qualifier declaration with no
// declarator.
func (b *Builder) NewQualifierOnlyDecl(rng SyntaxRange, qualifiers []atomtable.AtomString) DeclID {
	return b.ctx.newDecl(DeclQualifierOnly, rng, QualifierOnlyPayload{Qualifiers: qualifiers})
}
