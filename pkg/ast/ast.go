// Package ast defines the AST node shapes produced by the parser and
// consumed by the type checker: a closed set of declaration, statement and
// expression kinds, each held in its own arena and addressed by a stable
// index rather than a pointer (spec section 9's "AST arena with
// back-pointers" design note). A node's SyntaxRange records the half-open
// span of lexcontext.SyntaxTokenIDs it was parsed from, so diagnostics and
// IDE features can always map a node back to source text — even an error
// node, which still carries a SyntaxRange over whatever tokens were
// consumed during recovery.
//
// Grounded on the teacher's pkg/corset/ast package: a closed family of
// node kinds dispatched by a tag (Selector in the teacher, Kind here), one
// constructor per shape, and a Lisp-style printer walked by an exhaustive
// switch. The teacher represents cross-references with ordinary Go pointers
// between heap-allocated node values; this package instead keeps nodes as
// values inside per-kind arenas and represents cross-references (a name
// expression's resolved declaration, a binary expression's operands) as
// indices into those arenas, per spec section 9.
package ast

import "github.com/shaderlang/glslfrontend/pkg/lexcontext"

// SyntaxRange is the half-open [Begin, End) span of SyntaxTokenIDs a node was
// built from.
type SyntaxRange struct {
	Begin lexcontext.SyntaxTokenID
	End   lexcontext.SyntaxTokenID
}

// ExprID is a stable reference to an ExprNode in a Context's expression
// arena. The zero ExprID is never assigned to a real node; NoExpr reports
// "no expression here" (an omitted array size, an empty for-loop clause).
type ExprID uint32

// NoExpr is the distinguished "absent" ExprID.
const NoExpr ExprID = 0

// StmtID is a stable reference to a StmtNode in a Context's statement arena.
type StmtID uint32

// NoStmt is the distinguished "absent" StmtID.
const NoStmt StmtID = 0

// DeclID is a stable reference to a DeclNode in a Context's declaration
// arena.
type DeclID uint32

// NoDecl is the distinguished "absent" DeclID.
const NoDecl DeclID = 0
