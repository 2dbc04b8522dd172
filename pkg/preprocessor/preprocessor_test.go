package preprocessor

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

func runPreprocessor(t *testing.T, text string) ([]Token, *diag.Stream) {
	t.Helper()

	ctx := source.NewContext(source.UTF8Columns)
	atoms := atomtable.New()
	diags := &diag.Stream{}

	id := ctx.OpenFromBuffer("t.glsl", text)
	pp := New(ctx, atoms, diags, nil, 0)

	return pp.Run(id), diags
}

func textOf(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.PP.Klass == token.EOF {
			continue
		}

		out = append(out, t.PP.Text.String())
	}

	return out
}

func assertTexts(t *testing.T, toks []Token, want ...string) {
	t.Helper()

	got := textOf(toks)
	if len(got) != len(want) {
		t.Fatalf("got tokens %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got tokens %v, want %v", got, want)
		}
	}
}

func TestPreprocessor_ObjectLikeMacro(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define N 3\nint a[N];")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	assertTexts(t, toks, "int", "a", "[", "3", "]", ";")
}

func TestPreprocessor_FunctionLikeMacroWithRescan(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define ID(x) x\n#define A 1+2\nint k = ID(A)*3;")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	assertTexts(t, toks, "int", "k", "=", "1", "+", "2", "*", "3", ";")
}

func TestPreprocessor_SelfRecursionSafety(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define A A\nA")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	assertTexts(t, toks, "A")
}

func TestPreprocessor_MutualRecursionSafety(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define A B\n#define B A\nA")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	// A -> B -> A, and the second A is emitted verbatim since A is disabled
	// for the duration of its own rescan.
	assertTexts(t, toks, "A")
}

func TestPreprocessor_IfdefTakesTrueBranch(t *testing.T) {
	toks, _ := runPreprocessor(t, "#define FOO\n#ifdef FOO\nint x;\n#else\nint y;\n#endif")

	assertTexts(t, toks, "int", "x", ";")
}

func TestPreprocessor_IfdefTakesElseBranchWhenUndefined(t *testing.T) {
	toks, _ := runPreprocessor(t, "#ifdef FOO\nint x;\n#else\nint y;\n#endif")

	assertTexts(t, toks, "int", "y", ";")
}

func TestPreprocessor_IfEvaluatesConstantExpression(t *testing.T) {
	toks, _ := runPreprocessor(t, "#if 1 + 1 == 2\nint ok;\n#endif")

	assertTexts(t, toks, "int", "ok", ";")
}

func TestPreprocessor_UnknownIdentifierInIfEvaluatesToZero(t *testing.T) {
	toks, _ := runPreprocessor(t, "#if UNDEFINED_THING\nint a;\n#else\nint b;\n#endif")

	assertTexts(t, toks, "int", "b", ";")
}

func TestPreprocessor_ElifChain(t *testing.T) {
	toks, _ := runPreprocessor(t, "#define MODE 2\n#if MODE == 1\nint a;\n#elif MODE == 2\nint b;\n#else\nint c;\n#endif")

	assertTexts(t, toks, "int", "b", ";")
}

func TestPreprocessor_Undef(t *testing.T) {
	toks, _ := runPreprocessor(t, "#define X 1\n#undef X\n#ifdef X\nint yes;\n#else\nint no;\n#endif")

	assertTexts(t, toks, "int", "no", ";")
}

func TestPreprocessor_FunctionLikeMacroArityMismatchEmitsVerbatim(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define TWO(a,b) a+b\nTWO(1)")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the arity mismatch")
	}

	assertTexts(t, toks, "TWO", "(", "1", ")")
}

func TestPreprocessor_UnterminatedIfDiagnoses(t *testing.T) {
	_, diags := runPreprocessor(t, "#if 1\nint a;")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated #if")
	}
}

func TestPreprocessor_MalformedDirectiveSkipsToLineEnd(t *testing.T) {
	toks, diags := runPreprocessor(t, "#bogus directive here\nint a;")

	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the unknown directive")
	}

	assertTexts(t, toks, "int", "a", ";")
}

func TestPreprocessor_NestedConditionals(t *testing.T) {
	src := "#define OUTER\n" +
		"#ifdef OUTER\n" +
		"#ifdef INNER\n" +
		"int a;\n" +
		"#else\n" +
		"int b;\n" +
		"#endif\n" +
		"#endif\n"

	toks, _ := runPreprocessor(t, src)
	assertTexts(t, toks, "int", "b", ";")
}

func TestPreprocessor_ArgumentsAreFullyExpandedBeforeSubstitution(t *testing.T) {
	toks, diags := runPreprocessor(t, "#define VAL 10\n#define SQ(x) ((x)*(x))\nint k = SQ(VAL);")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	assertTexts(t, toks, "int", "k", "=", "(", "(", "10", ")", "*", "(", "10", ")", ")", ";")
}
