package ast

import (
	"fmt"
	"strings"
)

// Dump renders decls as a parenthesized tree, in the spirit of the
// teacher's Lisp-style AST printer — convenient for the dumpAst debugging
// option (spec section 6) and for test assertions that want a readable
// golden string rather than a deep reflect.DeepEqual over arena indices.
func (c *Context) Dump(decls []DeclID) string {
	var b strings.Builder

	for _, d := range decls {
		c.dumpDecl(&b, d)
		b.WriteByte('\n')
	}

	return b.String()
}

func (c *Context) dumpDecl(b *strings.Builder, id DeclID) {
	if id == NoDecl {
		b.WriteString("(none)")
		return
	}

	n := c.Decl(id)

	switch n.Kind {
	case DeclVariable:
		p := n.AsVariable()
		fmt.Fprintf(b, "(var %s", p.Type.Name.String())

		for _, d := range p.Declarators {
			fmt.Fprintf(b, " %s", d.Name.String())
		}

		b.WriteByte(')')
	case DeclFunction:
		p := n.AsFunction()
		fmt.Fprintf(b, "(func %s (", p.Name.String())

		for i, param := range p.Params {
			if i > 0 {
				b.WriteByte(' ')
			}

			c.dumpDecl(b, param)
		}

		b.WriteString(") ")
		c.dumpStmt(b, p.Body)
		b.WriteByte(')')
	case DeclParam:
		p := n.AsParam()
		fmt.Fprintf(b, "%s", p.Type.Name.String())
	case DeclStruct:
		p := n.AsStruct()
		fmt.Fprintf(b, "(struct %s)", p.Name.String())
	case DeclInterfaceBlock:
		p := n.AsInterfaceBlock()
		fmt.Fprintf(b, "(block %s)", p.BlockName.String())
	case DeclPrecision:
		b.WriteString("(precision)")
	case DeclQualifierOnly:
		b.WriteString("(qualifiers)")
	default:
		b.WriteString("(error)")
	}
}

func (c *Context) dumpStmt(b *strings.Builder, id StmtID) {
	if id == NoStmt {
		b.WriteString("(none)")
		return
	}

	n := c.Stmt(id)

	switch n.Kind {
	case StmtCompound:
		p := n.AsCompound()
		b.WriteString("(block")

		for _, s := range p.Statements {
			b.WriteByte(' ')
			c.dumpStmt(b, s)
		}

		b.WriteByte(')')
	case StmtExpr:
		b.WriteString("(expr ")
		c.dumpExpr(b, n.AsExprStmt().Expr)
		b.WriteByte(')')
	case StmtIf:
		p := n.AsIf()
		b.WriteString("(if ")
		c.dumpExpr(b, p.Cond)
		b.WriteByte(' ')
		c.dumpStmt(b, p.Then)

		if p.Else != NoStmt {
			b.WriteByte(' ')
			c.dumpStmt(b, p.Else)
		}

		b.WriteByte(')')
	case StmtReturn:
		b.WriteString("(return")

		if v := n.AsReturn().Value; v != NoExpr {
			b.WriteByte(' ')
			c.dumpExpr(b, v)
		}

		b.WriteByte(')')
	case StmtEmpty:
		b.WriteString("(empty)")
	case StmtBreak:
		b.WriteString("(break)")
	case StmtContinue:
		b.WriteString("(continue)")
	case StmtDiscard:
		b.WriteString("(discard)")
	default:
		b.WriteString("(" + n.Kind.String() + ")")
	}
}

func (c *Context) dumpExpr(b *strings.Builder, id ExprID) {
	if id == NoExpr {
		b.WriteString("(none)")
		return
	}

	n := c.Expr(id)

	switch n.Kind {
	case ExprLiteral:
		b.WriteString(n.AsLiteral().Text.String())
	case ExprName:
		b.WriteString(n.AsName().Name.String())
	case ExprBinary:
		p := n.AsBinary()
		b.WriteString("(")
		c.dumpExpr(b, p.Left)
		fmt.Fprintf(b, " %s ", p.Op.String())
		c.dumpExpr(b, p.Right)
		b.WriteString(")")
	case ExprUnary:
		p := n.AsUnary()
		fmt.Fprintf(b, "(%s ", p.Op.String())
		c.dumpExpr(b, p.Operand)
		b.WriteString(")")
	case ExprCall:
		p := n.AsCall()
		fmt.Fprintf(b, "(call %s", p.Callee.String())

		for _, a := range p.Args {
			b.WriteByte(' ')
			c.dumpExpr(b, a)
		}

		b.WriteByte(')')
	case ExprField:
		p := n.AsField()
		c.dumpExpr(b, p.Base)
		fmt.Fprintf(b, ".%s", p.Field.String())
	default:
		b.WriteString("(" + n.Kind.String() + ")")
	}
}
