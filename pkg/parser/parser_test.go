package parser

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/lexcontext"
	"github.com/shaderlang/glslfrontend/pkg/preprocessor"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// parse runs text through preprocessing and parsing only, skipping type
// checking, so parser tests are insulated from semantic-analysis changes.
func parse(t *testing.T, text string) ([]ast.DeclID, *ast.Context, *diag.Stream) {
	t.Helper()

	atoms := atomtable.New()
	sources := source.NewContext(source.UTF8Columns)
	diags := &diag.Stream{}
	lex := lexcontext.New()
	astCtx := ast.NewContext()
	typeCtx := types.NewContext()
	builder := ast.NewBuilder(astCtx, typeCtx)

	id := sources.OpenFromBuffer("t.glsl", text)
	lex.MarkTUStart()

	pp := preprocessor.New(sources, atoms, diags, nil, 0)
	lex.Append(pp.Run(id))

	p := New(lex, atoms, diags, builder)
	return p.ParseTranslationUnit(), astCtx, diags
}

func TestParser_SimpleVariableDeclaration(t *testing.T) {
	decls, astCtx, diags := parse(t, "int a = 1;")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	if len(decls) != 1 {
		t.Fatalf("got %d top-level decls, want 1", len(decls))
	}

	d := astCtx.Decl(decls[0])
	if d.Kind != ast.DeclVariable {
		t.Fatalf("decl kind = %v, want DeclVariable", d.Kind)
	}

	v := d.AsVariable()
	if len(v.Declarators) != 1 || v.Declarators[0].Name.String() != "a" {
		t.Fatalf("declarators = %v, want one named 'a'", v.Declarators)
	}
}

func TestParser_MultiDeclaratorSharesBaseType(t *testing.T) {
	decls, astCtx, diags := parse(t, "float x, y[4], z = 1.0;")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	v := astCtx.Decl(decls[0]).AsVariable()
	if len(v.Declarators) != 3 {
		t.Fatalf("got %d declarators, want 3", len(v.Declarators))
	}

	if len(v.Declarators[1].DimSizes) != 1 {
		t.Fatal("'y' should carry one array dimension")
	}

	if v.Declarators[2].Init == ast.NoExpr {
		t.Fatal("'z' should have an initializer")
	}
}

func TestParser_FunctionPrototypeHasNoStmtBody(t *testing.T) {
	decls, astCtx, diags := parse(t, "void f(int x);")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	f := astCtx.Decl(decls[0]).AsFunction()
	if f.Body != ast.NoStmt {
		t.Fatal("a prototype (declaration ending in ';') must have no body")
	}

	if len(f.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(f.Params))
	}
}

func TestParser_FunctionDefinitionHasBody(t *testing.T) {
	decls, astCtx, diags := parse(t, "void f() { int x; }")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	f := astCtx.Decl(decls[0]).AsFunction()
	if f.Body == ast.NoStmt {
		t.Fatal("a function definition must have a body")
	}
}

func TestParser_StructDeclaration(t *testing.T) {
	decls, astCtx, diags := parse(t, "struct Point { float x; float y; };")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	s := astCtx.Decl(decls[0]).AsStruct()
	if s.Name.String() != "Point" || len(s.Fields) != 2 {
		t.Fatalf("struct = %+v, want Point with 2 fields", s)
	}
}

func TestParser_RecoversFromMissingSemicolonAndContinues(t *testing.T) {
	decls, astCtx, diags := parse(t, "int a = 1\nint b = 2;\nint c = 3;")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the missing semicolon")
	}

	var names []string
	for _, id := range decls {
		d := astCtx.Decl(id)
		if d.Kind != ast.DeclVariable {
			continue
		}

		for _, decl := range d.AsVariable().Declarators {
			names = append(names, decl.Name.String())
		}
	}

	foundB, foundC := false, false
	for _, n := range names {
		if n == "b" {
			foundB = true
		}
		if n == "c" {
			foundC = true
		}
	}

	if !foundB || !foundC {
		t.Fatalf("parser did not recover past the error: declarators seen = %v", names)
	}
}

func TestParser_RecoversFromUnbalancedBraceInFunctionBody(t *testing.T) {
	decls, astCtx, diags := parse(t, "void f() { int x = ; }\nvoid g() {}")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the malformed initializer")
	}

	found := false
	for _, id := range decls {
		d := astCtx.Decl(id)
		if d.Kind == ast.DeclFunction && d.AsFunction().Name.String() == "g" {
			found = true
		}
	}

	if !found {
		t.Fatal("parser did not recover: function 'g' following the error was not parsed")
	}
}

func TestParser_IfElseAttachesDanglingElseToNearestIf(t *testing.T) {
	decls, astCtx, diags := parse(t, "void f() { if (true) if (false) ; else ; }")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	body := astCtx.Decl(decls[0]).AsFunction().Body
	if body == ast.NoStmt {
		t.Fatal("expected a function body")
	}

	outer := astCtx.Stmt(astCtx.Stmt(body).AsCompound().Statements[0])
	if outer.Kind != ast.StmtIf || outer.AsIf().Else != ast.NoStmt {
		t.Fatal("the outer if should have no else branch")
	}

	inner := astCtx.Stmt(outer.AsIf().Then)
	if inner.Kind != ast.StmtIf || inner.AsIf().Else == ast.NoStmt {
		t.Fatal("the else should attach to the inner, nearest if")
	}
}

func TestParser_BinaryOperatorPrecedence(t *testing.T) {
	decls, astCtx, diags := parse(t, "int a = 1 + 2 * 3;")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	v := astCtx.Decl(decls[0]).AsVariable()
	init := astCtx.Expr(v.Declarators[0].Init)
	if init.Kind != ast.ExprBinary {
		t.Fatal("top-level expression should be the '+' binary node")
	}

	b := init.AsBinary()
	rhs := astCtx.Expr(b.Right)
	if rhs.Kind != ast.ExprBinary {
		t.Fatal("'2 * 3' should bind tighter than '+' and appear as the right operand")
	}
}
