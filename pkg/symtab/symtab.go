// Package symtab resolves GLSL identifiers to declarations: a scope stack
// for ordinary names (variables, structs, interface block instances) plus a
// separate global multimap for function overload sets, since GLSL allows
// several functions to share a name as long as their parameter lists
// differ (spec section 4.10).
//
// Grounded on the teacher's pkg/corset/compiler/scope.go ModuleScope: a
// parent-linked scope chain, a name-keyed binding map per scope, and a
// distinct identifier shape (BindingId, carrying an arity option) for
// entries that may be overloaded. This package keeps the parent-chain
// lookup and per-scope binding map, and narrows BindingId's generality
// (paths, submodules, virtual modules — none of which GLSL has) down to a
// flat, non-path-qualified name stack plus the dedicated overload multimap
// GLSL's simpler, non-modular namespace actually needs.
package symtab

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
)

// ScopeKind classifies why a scope was pushed, for diagnostics (e.g.
// rejecting a bare `return` found in global scope) and for block-scoping
// decisions.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeStruct
	ScopeBlock
)

type scope struct {
	kind   ScopeKind
	names  map[atomtable.AtomString]ast.DeclView
	parent *scope
}

// Table is the live scope stack plus the function overload multimap for one
// translation unit's name resolution pass.
type Table struct {
	top       *scope
	overloads map[atomtable.AtomString][]*ast.FunctionOverload
}

// New constructs a Table with its global scope already pushed.
func New() *Table {
	return &Table{
		top:       &scope{kind: ScopeGlobal, names: make(map[atomtable.AtomString]ast.DeclView)},
		overloads: make(map[atomtable.AtomString][]*ast.FunctionOverload),
	}
}

// PushScope opens a new nested scope of the given kind.
func (t *Table) PushScope(kind ScopeKind) {
	t.top = &scope{kind: kind, names: make(map[atomtable.AtomString]ast.DeclView), parent: t.top}
}

// PopScope closes the innermost scope. Popping the global scope panics —
// callers must balance every PushScope with exactly one PopScope.
func (t *Table) PopScope() {
	if t.top.parent == nil {
		panic("symtab: PopScope called on the global scope")
	}

	t.top = t.top.parent
}

// CurrentKind reports the innermost open scope's kind.
func (t *Table) CurrentKind() ScopeKind { return t.top.kind }

// InFunctionScope reports whether name resolution is currently anywhere
// inside a function body (nested block scopes included), which governs
// whether `return`/`break`/`continue`/`discard` are legal.
func (t *Table) InFunctionScope() bool {
	for s := t.top; s != nil; s = s.parent {
		if s.kind == ScopeFunction {
			return true
		}
	}

	return false
}

// Declare binds name to view in the innermost scope. Returns false without
// modifying the table if name is already declared in that same scope (a
// redeclaration error for the caller to report); shadowing an outer scope's
// binding is always allowed, per GLSL's ordinary block-scoping rules.
func (t *Table) Declare(name atomtable.AtomString, view ast.DeclView) bool {
	if _, exists := t.top.names[name]; exists {
		return false
	}

	t.top.names[name] = view

	return true
}

// Lookup walks the scope chain from innermost to outermost, returning the
// first binding found.
func (t *Table) Lookup(name atomtable.AtomString) (ast.DeclView, bool) {
	for s := t.top; s != nil; s = s.parent {
		if v, ok := s.names[name]; ok {
			return v, true
		}
	}

	return ast.DeclView{}, false
}

// DeclareFunction adds overload to name's overload set. GLSL functions live
// in a namespace separate from ordinary names (distinguished syntactically
// by the call-parenthesis) and are always visible from global scope, so
// unlike Declare this never shadows or scopes.
func (t *Table) DeclareFunction(name atomtable.AtomString, overload *ast.FunctionOverload) {
	t.overloads[name] = append(t.overloads[name], overload)
}

// Overloads returns every overload registered under name, in declaration
// order.
func (t *Table) Overloads(name atomtable.AtomString) []*ast.FunctionOverload {
	return t.overloads[name]
}
