package typecheck

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/symtab"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

func (c *Checker) checkStructDecl(id ast.DeclID) {
	n := c.astCtx.Decl(id)
	p := n.AsStruct()

	members := make([]types.StructMember, 0, len(p.Fields))

	for _, fieldID := range p.Fields {
		c.checkVariableDecl(fieldID, false)

		fn := c.astCtx.Decl(fieldID).AsVariable()
		for _, d := range fn.Declarators {
			members = append(members, types.StructMember{Name: d.Name.String(), Type: d.Type})
		}
	}

	t := c.types.Struct(uint32(id), p.Name.String(), members)

	p.Type = t
	n.AsStructSet(p)

	if p.Name.IsValid() {
		c.structNodes[p.Name.String()] = id
		c.sym.Declare(p.Name, ast.DeclView{Decl: id})
	}
}

func (c *Checker) checkInterfaceBlockDecl(id ast.DeclID) {
	n := c.astCtx.Decl(id)
	p := n.AsInterfaceBlock()

	members := make([]types.StructMember, 0, len(p.Fields))

	for _, fieldID := range p.Fields {
		c.checkVariableDecl(fieldID, false)

		fn := c.astCtx.Decl(fieldID).AsVariable()
		for _, d := range fn.Declarators {
			members = append(members, types.StructMember{Name: d.Name.String(), Type: d.Type})

			if p.InstanceName.IsValid() {
				continue
			}
			// Anonymous-instance blocks splice their members directly into the
			// enclosing scope (spec section 4.10).
			c.sym.Declare(d.Name, ast.DeclView{Decl: fieldID, DeclaratorIndex: 0})
		}
	}

	t := c.types.Struct(uint32(id), p.BlockName.String(), members)
	t = c.shapeWithDims(t, p.ArrayDims)

	p.Type = t
	n.AsInterfaceBlockSet(p)

	if p.InstanceName.IsValid() {
		c.sym.Declare(p.InstanceName, ast.DeclView{Decl: id})
	}
}

func (c *Checker) checkPrecisionDecl(id ast.DeclID) {
	n := c.astCtx.Decl(id)
	p := n.AsPrecision()
	c.resolveQualType(&p.Type)
	n.AsPrecisionSet(p)
}

// checkVariableDecl resolves qt, shapes each declarator by its array
// dimensions, type-checks any initializer, and (when declareSymbols is true
// — false for struct/interface-block fields, which are not themselves
// visible names) registers each declarator into the current scope.
func (c *Checker) checkVariableDecl(id ast.DeclID, declareSymbols bool) {
	n := c.astCtx.Decl(id)
	p := n.AsVariable()

	c.resolveQualType(&p.Type)

	for i := range p.Declarators {
		d := &p.Declarators[i]
		d.Type = c.shapeWithDims(p.Type.Resolved, d.DimSizes)

		if d.Init != ast.NoExpr {
			initResult := c.checkExpr(d.Init)
			if !initResult.Type.IsError() && initResult.Type != d.Type {
				anchor := anchorForRange(c.lex, c.astCtx.Expr(d.Init).Range)
				c.diags.Errorf(anchor, "cannot initialize %q with a value of type %q", d.Type.String(), initResult.Type.String())
			}
		}

		if declareSymbols && d.Name.IsValid() {
			if !c.sym.Declare(d.Name, ast.DeclView{Decl: id, DeclaratorIndex: i}) {
				anchor := anchorForRange(c.lex, n.Range)
				c.diags.Errorf(anchor, "redeclaration of %q", d.Name.String())
			}
		}
	}

	n.AsVariableSet(p)
}

func (c *Checker) checkParamDecl(id ast.DeclID) *types.Type {
	n := c.astCtx.Decl(id)
	p := n.AsParam()

	c.resolveQualType(&p.Type)
	resolved := c.shapeWithDims(p.Type.Resolved, p.DimSizes)
	p.Resolved = resolved
	n.AsParamSet(p)

	if p.Name.IsValid() {
		c.sym.Declare(p.Name, ast.DeclView{Decl: id})
	}

	return resolved
}

func (c *Checker) checkFunctionDecl(id ast.DeclID) {
	n := c.astCtx.Decl(id)
	p := n.AsFunction()

	c.resolveQualType(&p.ReturnType)

	c.sym.PushScope(symtab.ScopeFunction)

	paramTypes := make([]*types.Type, len(p.Params))
	for i, paramID := range p.Params {
		paramTypes[i] = c.checkParamDecl(paramID)
	}

	overload := &ast.FunctionOverload{Decl: id, ParamTypes: paramTypes, ReturnType: p.ReturnType.Resolved}
	c.sym.DeclareFunction(p.Name, overload)

	if p.Body != ast.NoStmt {
		prevReturn := c.returnType
		c.returnType = p.ReturnType.Resolved

		c.checkStmtList(c.astCtx.Stmt(p.Body).AsCompound().Statements)

		c.returnType = prevReturn
	}

	c.sym.PopScope()
}
