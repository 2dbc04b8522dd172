package ast

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/token"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// ExprKind is the closed set of expression shapes (spec section 3).
type ExprKind uint8

const (
	ExprError ExprKind = iota
	ExprLiteral
	ExprName
	ExprField
	ExprSwizzle
	ExprIndex
	ExprUnary
	ExprBinary
	ExprTernary
	ExprAssign
	ExprCall
	ExprInitList
)

func (k ExprKind) String() string {
	switch k {
	case ExprError:
		return "error"
	case ExprLiteral:
		return "literal"
	case ExprName:
		return "name"
	case ExprField:
		return "field"
	case ExprSwizzle:
		return "swizzle"
	case ExprIndex:
		return "index"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprTernary:
		return "ternary"
	case ExprAssign:
		return "assign"
	case ExprCall:
		return "call"
	case ExprInitList:
		return "init-list"
	default:
		return "<unknown-expr>"
	}
}

// exprPayload is the sealed interface every per-kind expression payload
// implements. Sealing it to this package (via the unexported isExprPayload
// method) is what makes ExprKind a genuinely closed tag set: no importer can
// add a new variant without editing this file's exhaustive switches.
type exprPayload interface {
	isExprPayload()
}

// LiteralPayload holds an ExprLiteral's spelled constant. token.Kind
// distinguishes int/uint/float/double/bool literal text.
type LiteralPayload struct {
	Klass token.Kind
	Text  atomtable.AtomString
}

func (LiteralPayload) isExprPayload() {}

// NamePayload holds an ExprName's identifier and, once name resolution has
// run, the declaration it refers to.
type NamePayload struct {
	Name     atomtable.AtomString
	Resolved DeclView
}

func (NamePayload) isExprPayload() {}

// FieldPayload holds an ExprField's base expression and member name. The
// type checker rewrites an ExprField whose base is array- or vector-typed
// and whose Field is "length" followed by a call into a length query; until
// then it is parsed generically (spec section 4.7's tie-break for
// "a.length()").
type FieldPayload struct {
	Base  ExprID
	Field atomtable.AtomString
}

func (FieldPayload) isExprPayload() {}

// SwizzlePayload holds an ExprSwizzle's base expression and the resolved
// component indices (0..3), one to four of them, after the type checker has
// validated the selector string is drawn from a single one of {x,y,z,w},
// {r,g,b,a} or {s,t,p,q}.
type SwizzlePayload struct {
	Base       ExprID
	Components []uint8
}

func (SwizzlePayload) isExprPayload() {}

// IndexPayload holds an ExprIndex's base and subscript expressions.
type IndexPayload struct {
	Base, Index ExprID
}

func (IndexPayload) isExprPayload() {}

// UnaryPayload holds an ExprUnary's operator and operand. Postfix is true
// for postfix ++/-- as opposed to their prefix forms.
type UnaryPayload struct {
	Op      token.Kind
	Operand ExprID
	Postfix bool
}

func (UnaryPayload) isExprPayload() {}

// BinaryPayload holds an ExprBinary's operator and operands.
type BinaryPayload struct {
	Op          token.Kind
	Left, Right ExprID
}

func (BinaryPayload) isExprPayload() {}

// TernaryPayload holds an ExprTernary's condition and both branches.
type TernaryPayload struct {
	Cond, True, False ExprID
}

func (TernaryPayload) isExprPayload() {}

// AssignPayload holds an ExprAssign's operator (=, +=, *=, ...) and operands.
type AssignPayload struct {
	Op          token.Kind
	Left, Right ExprID
}

func (AssignPayload) isExprPayload() {}

// CallPayload holds an ExprCall's callee name, arguments, and — once
// resolved — whether it denotes a type constructor or a function
// invocation, and which.
type CallPayload struct {
	Callee        atomtable.AtomString
	Args          []ExprID
	IsConstructor bool
	ConstructorTy *types.Type
	Resolved      *FunctionOverload
}

func (CallPayload) isExprPayload() {}

// InitListPayload holds a brace-enclosed initializer list's elements.
type InitListPayload struct {
	Elements []ExprID
}

func (InitListPayload) isExprPayload() {}

// ExprNode is one entry in a Context's expression arena. Fields common to
// every kind (Range, Type, IsConst) sit directly on the node; kind-specific
// fields live in payload, accessed through the As* helpers below.
type ExprNode struct {
	Kind    ExprKind
	Range   SyntaxRange
	Type    *types.Type // nil until the type checker assigns it
	IsConst bool
	Value   *types.ConstValue // non-nil only for successfully folded constants

	payload exprPayload
}

// AsLiteral returns e's LiteralPayload. Panics if e.Kind != ExprLiteral.
func (e *ExprNode) AsLiteral() LiteralPayload { return e.payload.(LiteralPayload) }

// AsName returns e's NamePayload. Panics if e.Kind != ExprName.
func (e *ExprNode) AsName() NamePayload { return e.payload.(NamePayload) }

// SetName replaces e's NamePayload, used by the type checker once a name
// has been resolved to a declaration.
func (e *ExprNode) SetName(p NamePayload) { e.payload = p }

// AsField returns e's FieldPayload. Panics if e.Kind != ExprField.
func (e *ExprNode) AsField() FieldPayload { return e.payload.(FieldPayload) }

// AsSwizzle returns e's SwizzlePayload. Panics if e.Kind != ExprSwizzle.
func (e *ExprNode) AsSwizzle() SwizzlePayload { return e.payload.(SwizzlePayload) }

// SetSwizzle replaces e's payload with a SwizzlePayload and sets Kind to
// ExprSwizzle, used by the type checker to rewrite a generic field access
// once it is confirmed to be a vector swizzle (spec section 4.7's
// "a.length()"-style tie-break family).
func (e *ExprNode) SetSwizzle(p SwizzlePayload) {
	e.Kind = ExprSwizzle
	e.payload = p
}

// AsIndex returns e's IndexPayload. Panics if e.Kind != ExprIndex.
func (e *ExprNode) AsIndex() IndexPayload { return e.payload.(IndexPayload) }

// AsUnary returns e's UnaryPayload. Panics if e.Kind != ExprUnary.
func (e *ExprNode) AsUnary() UnaryPayload { return e.payload.(UnaryPayload) }

// AsBinary returns e's BinaryPayload. Panics if e.Kind != ExprBinary.
func (e *ExprNode) AsBinary() BinaryPayload { return e.payload.(BinaryPayload) }

// AsTernary returns e's TernaryPayload. Panics if e.Kind != ExprTernary.
func (e *ExprNode) AsTernary() TernaryPayload { return e.payload.(TernaryPayload) }

// AsAssign returns e's AssignPayload. Panics if e.Kind != ExprAssign.
func (e *ExprNode) AsAssign() AssignPayload { return e.payload.(AssignPayload) }

// AsCall returns a pointer to a copy of e's CallPayload; changes made
// through it affect e only once passed back to SetCall. Panics if
// e.Kind != ExprCall.
func (e *ExprNode) AsCall() *CallPayload {
	p := e.payload.(CallPayload)
	return &p
}

// SetCall replaces e's CallPayload, used by the type checker once overload
// resolution has picked a candidate.
func (e *ExprNode) SetCall(p CallPayload) { e.payload = p }

// AsInitList returns e's InitListPayload. Panics if e.Kind != ExprInitList.
func (e *ExprNode) AsInitList() InitListPayload { return e.payload.(InitListPayload) }

// FunctionOverload identifies one resolved overload of a called function, by
// its declaring node and parameter types — enough for the type checker to
// report the chosen signature and for code consuming the AST to look the
// declaration back up via Context.Decl.
type FunctionOverload struct {
	Decl       DeclID
	ParamTypes []*types.Type
	ReturnType *types.Type
}
