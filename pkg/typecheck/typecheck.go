// Package typecheck implements GLSL's semantic analysis pass: name
// resolution, type resolution for declared types, declaration registration,
// expression typing (including overload resolution and swizzle/field
// validation), and constant folding (spec section 4.11).
//
// Grounded on the teacher's pkg/corset/compiler/resolver.go (a dedicated
// name-resolution pass walking an already-parsed AST, accumulating
// diagnostics rather than stopping at the first one) and
// pkg/corset/compiler/typing.go (expression typing over a numeric
// expression language, including its own constant-evaluation path) —
// reworked from the teacher's single untyped-field numeric domain into
// GLSL's richer scalar/vector/matrix/sampler/array/struct type lattice.
package typecheck

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
	"github.com/shaderlang/glslfrontend/pkg/symtab"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// Checker walks a parsed translation unit, registering declarations into a
// symtab.Table and assigning a *types.Type (and, where possible, a constant
// ConstValue) to every expression node it visits.
type Checker struct {
	astCtx *ast.Context
	types  *types.Context
	sym    *symtab.Table
	diags  *diag.Stream
	lex    *lexcontext.LexContext

	returnType  *types.Type
	inFragment  bool
	structNodes map[string]ast.DeclID
}

// New constructs a Checker. inFragment governs whether `discard` is legal —
// the only stage-dependent piece of grammar spec section 4.11 calls out.
func New(astCtx *ast.Context, typeCtx *types.Context, sym *symtab.Table, diags *diag.Stream, lex *lexcontext.LexContext, inFragment bool) *Checker {
	return &Checker{
		astCtx:      astCtx,
		types:       typeCtx,
		sym:         sym,
		diags:       diags,
		lex:         lex,
		inFragment:  inFragment,
		structNodes: make(map[string]ast.DeclID),
	}
}

// CheckTranslationUnit type-checks every top-level declaration in order.
// GLSL requires a name be declared (or prototyped) before use, so a single
// top-to-bottom pass — register this declaration, then check anything it
// contains that references earlier ones — matches the language's own
// ordering rule, unlike a language with forward-reference-anywhere
// semantics that would need a separate hoisting pass first.
func (c *Checker) CheckTranslationUnit(decls []ast.DeclID) {
	for _, id := range decls {
		c.checkTopLevelDecl(id)
	}
}

func (c *Checker) checkTopLevelDecl(id ast.DeclID) {
	n := c.astCtx.Decl(id)

	switch n.Kind {
	case ast.DeclVariable:
		c.checkVariableDecl(id, true)
	case ast.DeclFunction:
		c.checkFunctionDecl(id)
	case ast.DeclStruct:
		c.checkStructDecl(id)
	case ast.DeclInterfaceBlock:
		c.checkInterfaceBlockDecl(id)
	case ast.DeclPrecision:
		c.checkPrecisionDecl(id)
	case ast.DeclQualifierOnly:
		// Nothing to resolve: a lone qualifier declaration names no symbol.
	case ast.DeclError:
		// Already diagnosed by the parser during recovery.
	}
}

// resolveQualType fills in qt.Resolved (and qt.Unknown on failure) for a
// declared base type: first the builtin keyword table, then a struct name
// already declared earlier in the translation unit.
func (c *Checker) resolveQualType(qt *ast.QualType) {
	name := qt.Name.String()

	if t, ok := builtinType(c.types, name); ok {
		qt.Resolved = t
		return
	}

	if declID, ok := c.structNodes[name]; ok {
		qt.Resolved = c.astCtx.Decl(declID).AsStruct().Type
		return
	}

	qt.Unknown = true
	qt.Resolved = c.types.Error()
}

// shapeWithDims applies a declarator's array-specifier dimension sizes to a
// base type, evaluating each dimension as a constant expression and folding
// nested array-of-array shapes via types.Context.Array's folding rule.
func (c *Checker) shapeWithDims(base *types.Type, dims []ast.ExprID) *types.Type {
	if len(dims) == 0 {
		return base
	}

	sizes := make([]uint32, len(dims))

	for i, d := range dims {
		if d == ast.NoExpr {
			sizes[i] = 0
			continue
		}

		v := c.checkExpr(d)
		if v.IsConst && v.Type != nil && v.Type.IsArithmetic() {
			val := c.astCtx.Expr(d).Value
			if val != nil && len(val.Components) == 1 {
				sizes[i] = uint32(val.Components[0].Int64())
				continue
			}
		}

		sizes[i] = 0
	}

	return c.types.Array(base, sizes)
}
