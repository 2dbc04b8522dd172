package ast

import (
	"strings"
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/token"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

func newTestBuilder() (*Builder, *atomtable.Table) {
	atoms := atomtable.New()
	return NewBuilder(NewContext(), types.NewContext()), atoms
}

func TestBuilder_ArenaIndexZeroIsReservedSentinel(t *testing.T) {
	b, _ := newTestBuilder()

	if NoExpr != 0 || NoStmt != 0 || NoDecl != 0 {
		t.Fatal("the absent-node sentinels must be index zero")
	}

	id := b.NewErrorExpr(SyntaxRange{})
	if id == NoExpr {
		t.Fatal("a freshly built node must not collide with the sentinel index")
	}
}

func TestBuilder_LiteralExprCarriesSpelledText(t *testing.T) {
	b, atoms := newTestBuilder()
	text := atoms.GetAtom("42")

	id := b.NewLiteralExpr(SyntaxRange{}, token.IntConstant, text)

	n := b.Context().Expr(id)
	if n.Kind != ExprLiteral {
		t.Fatalf("kind = %v, want ExprLiteral", n.Kind)
	}

	if got := n.AsLiteral().Text.String(); got != "42" {
		t.Fatalf("literal text = %q, want %q", got, "42")
	}
}

func TestBuilder_BinaryExprTreeShape(t *testing.T) {
	b, atoms := newTestBuilder()

	left := b.NewLiteralExpr(SyntaxRange{}, token.IntConstant, atoms.GetAtom("1"))
	right := b.NewLiteralExpr(SyntaxRange{}, token.IntConstant, atoms.GetAtom("2"))
	sum := b.NewBinaryExpr(SyntaxRange{}, token.Plus, left, right)

	n := b.Context().Expr(sum)
	if n.Kind != ExprBinary {
		t.Fatalf("kind = %v, want ExprBinary", n.Kind)
	}

	bp := n.AsBinary()
	if bp.Left != left || bp.Right != right {
		t.Fatal("binary payload did not preserve its operand IDs")
	}
}

func TestBuilder_FunctionDeclPrototypeVsDefinition(t *testing.T) {
	b, atoms := newTestBuilder()
	name := atoms.GetAtom("f")

	proto := b.NewFunctionDecl(SyntaxRange{}, QualType{Name: atoms.GetAtom("void")}, name, nil, NoStmt)
	body := b.NewCompoundStmt(SyntaxRange{}, nil, true)
	def := b.NewFunctionDecl(SyntaxRange{}, QualType{Name: atoms.GetAtom("void")}, name, nil, body)

	if b.Context().Decl(proto).AsFunction().Body != NoStmt {
		t.Fatal("a prototype's Body must remain NoStmt")
	}

	if b.Context().Decl(def).AsFunction().Body == NoStmt {
		t.Fatal("a definition's Body must be set")
	}
}

func TestContext_DumpRendersVariableDeclarator(t *testing.T) {
	b, atoms := newTestBuilder()

	decl := b.NewVariableDecl(SyntaxRange{}, nil, QualType{Name: atoms.GetAtom("int")},
		[]Declarator{{Name: atoms.GetAtom("a")}})

	out := b.Context().Dump([]DeclID{decl})
	if !strings.Contains(out, "int") || !strings.Contains(out, "a") {
		t.Fatalf("Dump output = %q, want it to mention the type and declarator name", out)
	}
}

func TestDeclView_IsResolved(t *testing.T) {
	unresolved := DeclView{}
	if unresolved.IsResolved() {
		t.Fatal("a zero-value DeclView must report unresolved")
	}

	resolved := DeclView{Decl: 1}
	if !resolved.IsResolved() {
		t.Fatal("a DeclView with a non-zero Decl must report resolved")
	}
}
