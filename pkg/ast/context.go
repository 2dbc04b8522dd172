package ast

// Context owns the three node arenas for one translation unit (or for the
// compiled preamble, whose nodes a CompilerInvocation's own Context never
// mutates — only reads across the boundary, per the preamble's
// shared-immutable design, spec section 5). Index 0 of every arena is a
// reserved sentinel, so the zero value of ExprID/StmtID/DeclID reliably means
// "no node" rather than aliasing a real one.
type Context struct {
	exprs []ExprNode
	stmts []StmtNode
	decls []DeclNode

	units []DeclID // top-level declaration order, the parsed translation unit
}

// NewContext constructs an empty Context.
func NewContext() *Context {
	return &Context{
		exprs: make([]ExprNode, 1),
		stmts: make([]StmtNode, 1),
		decls: make([]DeclNode, 1),
	}
}

// Expr returns a mutable pointer to the node id addresses.
func (c *Context) Expr(id ExprID) *ExprNode { return &c.exprs[id] }

// Stmt returns a mutable pointer to the node id addresses.
func (c *Context) Stmt(id StmtID) *StmtNode { return &c.stmts[id] }

// Decl returns a mutable pointer to the node id addresses.
func (c *Context) Decl(id DeclID) *DeclNode { return &c.decls[id] }

// ExprCount, StmtCount and DeclCount report arena sizes including the
// reserved sentinel at index 0, for preallocation and diagnostics.
func (c *Context) ExprCount() int { return len(c.exprs) }
func (c *Context) StmtCount() int { return len(c.stmts) }
func (c *Context) DeclCount() int { return len(c.decls) }

// SetTranslationUnit records the top-level declaration order the parser
// produced.
func (c *Context) SetTranslationUnit(decls []DeclID) { c.units = decls }

// TranslationUnit returns the top-level declaration order.
func (c *Context) TranslationUnit() []DeclID { return c.units }

func (c *Context) newExpr(kind ExprKind, rng SyntaxRange, p exprPayload) ExprID {
	id := ExprID(len(c.exprs))
	c.exprs = append(c.exprs, ExprNode{Kind: kind, Range: rng, payload: p})

	return id
}

func (c *Context) newStmt(kind StmtKind, rng SyntaxRange, p stmtPayload) StmtID {
	id := StmtID(len(c.stmts))
	c.stmts = append(c.stmts, StmtNode{Kind: kind, Range: rng, payload: p})

	return id
}

func (c *Context) newDecl(kind DeclKind, rng SyntaxRange, p declPayload) DeclID {
	id := DeclID(len(c.decls))
	c.decls = append(c.decls, DeclNode{Kind: kind, Range: rng, payload: p})

	return id
}
