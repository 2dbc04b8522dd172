package typecheck

import (
	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

func (c *Checker) checkCallExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := *n.AsCall()
	name := p.Callee.String()

	argTypes := make([]*types.Type, len(p.Args))
	argConst := true

	for i, a := range p.Args {
		r := c.checkExpr(a)
		argTypes[i] = r.Type
		argConst = argConst && r.IsConst
	}

	if t, ok := c.constructorType(name); ok {
		p.IsConstructor = true
		p.ConstructorTy = t
		n.SetCall(p)
		n.Type = t

		return ExprResult{Type: t}
	}

	overloads := c.sym.Overloads(p.Callee)

	best, ambiguous := resolveOverload(overloads, argTypes)

	anchor := anchorForRange(c.lex, n.Range)

	switch {
	case ambiguous:
		c.diags.Errorf(anchor, "ambiguous call to %q", name)
		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	case best == nil:
		c.diags.Errorf(anchor, "no matching overload for call to %q", name)
		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	p.Resolved = best
	n.SetCall(p)
	n.Type = best.ReturnType

	if argConst && types.IsFoldableBuiltin(name) {
		if v, ok := c.foldCall(name, p.Args); ok {
			n.Value = &v
			n.IsConst = true

			return ExprResult{Type: n.Type, IsConst: true}
		}
	}

	return ExprResult{Type: n.Type}
}

// constructorType reports whether name names a builtin type or an
// already-declared struct, either of which can be the callee of a
// constructor-call expression (spec section 4.7's `T[n](...)` tie-break:
// constructor calls, not index expressions, whenever T is a type name).
func (c *Checker) constructorType(name string) (*types.Type, bool) {
	if t, ok := builtinType(c.types, name); ok {
		return t, true
	}

	if declID, ok := c.structNodes[name]; ok {
		return c.astCtx.Decl(declID).AsStruct().Type, true
	}

	return nil, false
}

func (c *Checker) foldCall(name string, argIDs []ast.ExprID) (types.ConstValue, bool) {
	args := make([]types.ConstValue, len(argIDs))

	for i, a := range argIDs {
		v := c.astCtx.Expr(a).Value
		if v == nil {
			return types.ConstValue{}, false
		}

		args[i] = *v
	}

	return types.EvalBuiltin(c.types, name, args), true
}

type overloadCandidate struct {
	overload *ast.FunctionOverload
	score    int
}

// resolveOverload picks the best-matching overload for a call, using the
// scalar-promotion lattice (spec section 4.11.4): an exact parameter-type
// match contributes 0, and each argument needing an implicit conversion
// contributes the lattice distance of that conversion (bool->int is nearer
// than bool->float), so the candidate reachable by the shortest total
// conversion distance wins. A tie among several minimal-score candidates is
// ambiguous.
func resolveOverload(overloads []*ast.FunctionOverload, args []*types.Type) (best *ast.FunctionOverload, ambiguous bool) {
	var candidates []overloadCandidate

	for _, ov := range overloads {
		if score, ok := scoreOverload(ov, args); ok {
			candidates = append(candidates, overloadCandidate{ov, score})
		}
	}

	if len(candidates) == 0 {
		return nil, false
	}

	bestCand := candidates[0]
	tie := false

	for _, cd := range candidates[1:] {
		switch {
		case cd.score < bestCand.score:
			bestCand = cd
			tie = false
		case cd.score == bestCand.score:
			tie = true
		}
	}

	if tie {
		return nil, true
	}

	return bestCand.overload, false
}

func scoreOverload(ov *ast.FunctionOverload, args []*types.Type) (int, bool) {
	if len(ov.ParamTypes) != len(args) {
		return 0, false
	}

	score := 0

	for i, pt := range ov.ParamTypes {
		at := args[i]
		if at == nil || at.IsError() {
			return 0, false
		}

		if pt == at {
			continue
		}

		if !pt.IsArithmetic() || !at.IsArithmetic() {
			return 0, false
		}

		pc, _ := pt.ComponentCount()
		ac, _ := at.ComponentCount()

		if pc != ac {
			return 0, false
		}

		ak, _ := at.ElementScalarKind()
		pk, _ := pt.ElementScalarKind()

		if !ak.ConvertibleTo(pk) {
			return 0, false
		}

		score += ak.PromotionDistance(pk)
	}

	return score, true
}
