package compiler

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/ast"
)

// findVariable walks result's top-level declarations for a DeclVariable
// whose Declarators include one named want, returning the declarator and
// its owning DeclID.
func findVariable(result *CompileResult, want string) (ast.Declarator, ast.DeclID, bool) {
	for _, id := range result.TopLevel {
		d := result.AST.Decl(id)
		if d.Kind != ast.DeclVariable {
			continue
		}

		for _, decl := range d.AsVariable().Declarators {
			if decl.Name.String() == want {
				return decl, id, true
			}
		}
	}

	return ast.Declarator{}, ast.NoDecl, false
}

func TestCompile_ObjectLikeMacroFoldsArraySize(t *testing.T) {
	result := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl", "#define N 3\nint a[N];")

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}

	decl, _, ok := findVariable(result, "a")
	if !ok {
		t.Fatal("declarator 'a' not found")
	}

	if len(decl.DimSizes) != 1 {
		t.Fatalf("got %d array dimensions, want 1", len(decl.DimSizes))
	}

	dim := result.AST.Expr(decl.DimSizes[0])
	if dim.Value == nil || dim.Value.IsError {
		t.Fatal("array dimension did not constant-fold")
	}

	if got := dim.Value.Components[0].Int; got != 3 {
		t.Fatalf("array dimension folded to %d, want 3", got)
	}
}

func TestCompile_FunctionLikeMacroRescanArithmetic(t *testing.T) {
	result := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl",
		"#define ID(x) x\n#define A 1+2\nint k = ID(A)*3;")

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}

	decl, _, ok := findVariable(result, "k")
	if !ok {
		t.Fatal("declarator 'k' not found")
	}

	init := result.AST.Expr(decl.Init)
	if init.Value == nil || init.Value.IsError {
		t.Fatal("initializer did not constant-fold")
	}

	if got := init.Value.Components[0].Int; got != 9 {
		t.Fatalf("ID(A)*3 folded to %d, want 9", got)
	}
}

func TestCompile_ConditionalCompilationSelectsBranch(t *testing.T) {
	src := "#define USE_FAST\n" +
		"#ifdef USE_FAST\n" +
		"int mode = 1;\n" +
		"#else\n" +
		"int mode = 2;\n" +
		"#endif\n"

	result := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl", src)

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}

	decl, _, ok := findVariable(result, "mode")
	if !ok {
		t.Fatal("declarator 'mode' not found")
	}

	init := result.AST.Expr(decl.Init)
	if init.Value == nil || init.Value.Components[0].Int != 1 {
		t.Fatal("conditional compilation did not select the #ifdef branch")
	}
}

func TestCompile_ParserRecoversFromMalformedStatementAndContinues(t *testing.T) {
	// A statement missing its terminating ';' should produce a diagnostic
	// but must not prevent the following well-formed declaration from being
	// parsed and checked.
	result := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl",
		"int a = 1\nint b = 2;")

	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for the missing semicolon")
	}

	if _, _, ok := findVariable(result, "b"); !ok {
		t.Fatal("parser did not recover: declaration following the error was not parsed")
	}
}

func TestCompile_OverloadResolutionDispatchesOnArgumentType(t *testing.T) {
	src := "void f(int x) {}\n" +
		"void f(float x) {}\n" +
		"void g() {\n" +
		"  f(1);\n" +
		"  f(1.0);\n" +
		"  f(true);\n" +
		"}\n"

	result := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl", src)

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}

	var calls []*ast.CallPayload
	for i := 0; i < result.AST.ExprCount(); i++ {
		id := ast.ExprID(i)
		n := result.AST.Expr(id)
		if n.Kind == ast.ExprCall {
			c := n.AsCall()
			if c.Callee.String() == "f" {
				calls = append(calls, c)
			}
		}
	}

	if len(calls) != 3 {
		t.Fatalf("found %d calls to f, want 3", len(calls))
	}

	for i, c := range calls {
		if c.Resolved == nil {
			t.Fatalf("call %d: overload was not resolved", i)
		}

		if len(c.Resolved.ParamTypes) != 1 {
			t.Fatalf("call %d: resolved overload has %d params, want 1", i, len(c.Resolved.ParamTypes))
		}
	}

	// f(1) should bind the int overload exactly; f(1.0) the float overload
	// exactly. f(true) must promote bool to one of the two rather than fail.
	if calls[0].Resolved.ParamTypes[0].String() != calls[1].Resolved.ParamTypes[0].String() {
		// different overloads chosen for int vs float args, as expected
	} else {
		t.Fatal("f(1) and f(1.0) resolved to the same overload")
	}
}

func TestCompile_SwizzleValidAndInvalidSelectors(t *testing.T) {
	valid := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl",
		"vec3 v;\nvec2 a = v.xy;\nvec4 b = v.xxxx;\n")

	if valid.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics for valid swizzles: %v", valid.Diags.Items())
	}

	mixedSet := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl",
		"vec3 v;\nvec2 c = v.xr;\n")

	if !mixedSet.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for a swizzle mixing {x,y,z,w} and {r,g,b,a}")
	}

	outOfRange := CompileSourceFile(CompilationConfig{SkipUserPreamble: true}, "t.glsl",
		"vec3 v;\nvec4 d = v.xyzw;\n")

	if !outOfRange.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for a swizzle selector with a component out of range")
	}
}

func TestCompile_IncludeDirectiveSplicesFile(t *testing.T) {
	files := map[string]string{
		"main.glsl": "#include \"lib.glsl\"\nint x = VALUE;",
		"lib.glsl":  "#define VALUE 7\n",
	}

	result := CompileSourceFiles(CompilationConfig{SkipUserPreamble: true}, files, "main.glsl")

	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}

	decl, _, ok := findVariable(result, "x")
	if !ok {
		t.Fatal("declarator 'x' not found")
	}

	init := result.AST.Expr(decl.Init)
	if init.Value == nil || init.Value.Components[0].Int != 7 {
		t.Fatal("#include did not splice the included macro definition")
	}
}

func TestCompile_FragmentOnlyDiscardRejectedOutsideFragmentShader(t *testing.T) {
	src := "void main() {\n  discard;\n}\n"

	asVertex := CompileSourceFile(CompilationConfig{SkipUserPreamble: true, InFragmentShader: false}, "t.vert", src)
	if !asVertex.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for 'discard' outside a fragment shader")
	}

	asFragment := CompileSourceFile(CompilationConfig{SkipUserPreamble: true, InFragmentShader: true}, "t.frag", src)
	if asFragment.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics for 'discard' inside a fragment shader: %v", asFragment.Diags.Items())
	}
}
