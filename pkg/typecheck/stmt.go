package typecheck

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/symtab"
)

func (c *Checker) checkStmtList(ids []ast.StmtID) {
	for _, id := range ids {
		c.checkStmt(id)
	}
}

func (c *Checker) checkStmt(id ast.StmtID) {
	n := c.astCtx.Stmt(id)

	switch n.Kind {
	case ast.StmtCompound:
		p := n.AsCompound()

		if p.OwnScope {
			c.sym.PushScope(symtab.ScopeBlock)
		}

		c.checkStmtList(p.Statements)

		if p.OwnScope {
			c.sym.PopScope()
		}
	case ast.StmtExpr:
		c.checkExpr(n.AsExprStmt().Expr)
	case ast.StmtDecl:
		c.checkVariableDecl(n.AsDeclStmt().Decl, true)
	case ast.StmtIf:
		p := n.AsIf()
		c.checkExpr(p.Cond)
		c.checkStmt(p.Then)

		if p.Else != ast.NoStmt {
			c.checkStmt(p.Else)
		}
	case ast.StmtFor:
		p := n.AsFor()
		c.sym.PushScope(symtab.ScopeBlock)

		if p.Init.Decl != ast.NoDecl {
			c.checkVariableDecl(p.Init.Decl, true)
		} else if p.Init.Expr != ast.NoExpr {
			c.checkExpr(p.Init.Expr)
		}

		if p.Cond != ast.NoExpr {
			c.checkExpr(p.Cond)
		}

		if p.Post != ast.NoExpr {
			c.checkExpr(p.Post)
		}

		c.checkStmt(p.Body)
		c.sym.PopScope()
	case ast.StmtWhile:
		p := n.AsWhile()
		c.checkExpr(p.Cond)
		c.checkStmt(p.Body)
	case ast.StmtDoWhile:
		p := n.AsDoWhile()
		c.checkStmt(p.Body)
		c.checkExpr(p.Cond)
	case ast.StmtSwitch:
		p := n.AsSwitch()
		c.checkExpr(p.Scrutinee)
		c.checkStmt(p.Body)
	case ast.StmtCase:
		c.checkExpr(n.AsCase().Value)
	case ast.StmtReturn:
		p := n.AsReturn()

		if p.Value == ast.NoExpr {
			if c.returnType != nil && !c.returnType.IsVoid() {
				anchor := anchorForRange(c.lex, n.Range)
				c.diags.Errorf(anchor, "non-void function must return a value")
			}

			return
		}

		r := c.checkExpr(p.Value)

		if c.returnType != nil && !r.Type.IsError() && !c.returnType.IsError() && r.Type != c.returnType {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "cannot return %q from a function returning %q", r.Type.String(), c.returnType.String())
		}
	case ast.StmtDiscard:
		if !c.inFragment {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "discard is only legal in a fragment shader")
		}
	case ast.StmtBreak, ast.StmtContinue, ast.StmtEmpty, ast.StmtDefault, ast.StmtError:
		// Nothing to type-check.
	}
}
