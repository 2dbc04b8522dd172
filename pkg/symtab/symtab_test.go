package symtab

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
)

func TestTable_DeclareAndLookup(t *testing.T) {
	atoms := atomtable.New()
	table := New()

	name := atoms.GetAtom("x")
	view := ast.DeclView{Decl: 1}

	if !table.Declare(name, view) {
		t.Fatal("first Declare should succeed")
	}

	got, ok := table.Lookup(name)
	if !ok || got != view {
		t.Fatalf("Lookup(%q) = %v, %v; want %v, true", "x", got, ok, view)
	}
}

func TestTable_RedeclarationInSameScopeFails(t *testing.T) {
	atoms := atomtable.New()
	table := New()

	name := atoms.GetAtom("x")
	table.Declare(name, ast.DeclView{Decl: 1})

	if table.Declare(name, ast.DeclView{Decl: 2}) {
		t.Fatal("redeclaring a name in the same scope should fail")
	}
}

func TestTable_NestedScopeShadows(t *testing.T) {
	atoms := atomtable.New()
	table := New()

	name := atoms.GetAtom("x")
	table.Declare(name, ast.DeclView{Decl: 1})

	table.PushScope(ScopeBlock)
	if !table.Declare(name, ast.DeclView{Decl: 2}) {
		t.Fatal("shadowing an outer binding in a nested scope should succeed")
	}

	inner, _ := table.Lookup(name)
	if inner.Decl != 2 {
		t.Fatalf("Lookup in inner scope = %v, want decl 2", inner)
	}

	table.PopScope()

	outer, _ := table.Lookup(name)
	if outer.Decl != 1 {
		t.Fatalf("Lookup after PopScope = %v, want decl 1 (outer binding restored)", outer)
	}
}

func TestTable_LookupUnknownNameFails(t *testing.T) {
	atoms := atomtable.New()
	table := New()

	if _, ok := table.Lookup(atoms.GetAtom("nope")); ok {
		t.Fatal("Lookup of an undeclared name should fail")
	}
}

func TestTable_PopGlobalScopePanics(t *testing.T) {
	table := New()

	defer func() {
		if recover() == nil {
			t.Fatal("PopScope on the global scope should panic")
		}
	}()

	table.PopScope()
}

func TestTable_InFunctionScope(t *testing.T) {
	table := New()

	if table.InFunctionScope() {
		t.Fatal("global scope should not report InFunctionScope")
	}

	table.PushScope(ScopeFunction)
	table.PushScope(ScopeBlock)

	if !table.InFunctionScope() {
		t.Fatal("a block scope nested in a function scope should report InFunctionScope")
	}
}

func TestTable_FunctionOverloadsAreGlobalAndUnscoped(t *testing.T) {
	atoms := atomtable.New()
	table := New()

	name := atoms.GetAtom("f")
	table.PushScope(ScopeFunction)
	table.DeclareFunction(name, &ast.FunctionOverload{Decl: 1})
	table.PopScope()

	overloads := table.Overloads(name)
	if len(overloads) != 1 || overloads[0].Decl != 1 {
		t.Fatalf("Overloads(%q) = %v, want one overload with decl 1", "f", overloads)
	}
}
