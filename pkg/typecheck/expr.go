package typecheck

import (
	"strconv"
	"strings"

	"github.com/shaderlang/glslfrontend/pkg/ast"
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/token"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// ExprResult is checkExpr's return value, mirroring the fields it also
// writes directly onto the node (Type, IsConst) for callers that only hold
// the ExprID.
type ExprResult struct {
	Type    *types.Type
	IsConst bool
}

// checkExpr types id, memoizing nothing — each node is visited exactly once
// as CheckTranslationUnit walks the tree, so there is no need for a
// separate cache the way an incremental checker would want one.
func (c *Checker) checkExpr(id ast.ExprID) ExprResult {
	if id == ast.NoExpr {
		return ExprResult{Type: c.types.Void()}
	}

	n := c.astCtx.Expr(id)

	switch n.Kind {
	case ast.ExprLiteral:
		// The builder already assigned Type and IsConst; fold the value here
		// where types.Context is in scope.
		n.Value = literalValue(c.types, n.AsLiteral())
		return ExprResult{Type: n.Type, IsConst: true}
	case ast.ExprName:
		return c.checkNameExpr(id, n)
	case ast.ExprField:
		return c.checkFieldExpr(id, n)
	case ast.ExprSwizzle:
		return ExprResult{Type: n.Type, IsConst: n.IsConst}
	case ast.ExprIndex:
		return c.checkIndexExpr(id, n)
	case ast.ExprUnary:
		return c.checkUnaryExpr(id, n)
	case ast.ExprBinary:
		return c.checkBinaryExpr(id, n)
	case ast.ExprTernary:
		return c.checkTernaryExpr(id, n)
	case ast.ExprAssign:
		return c.checkAssignExpr(id, n)
	case ast.ExprCall:
		return c.checkCallExpr(id, n)
	case ast.ExprInitList:
		return c.checkInitListExpr(id, n)
	default:
		n.Type = c.types.Error()
		return ExprResult{Type: n.Type}
	}
}

func literalValue(ctx *types.Context, p ast.LiteralPayload) *types.ConstValue {
	text := p.Text.String()

	switch p.Klass {
	case token.BoolConstant:
		v := types.ScalarBool(ctx, text == "true")
		return &v
	case token.IntConstant:
		v := types.ScalarInt(ctx, parseIntText(text))
		return &v
	case token.UintConstant:
		v := types.ScalarUint(ctx, uint64(parseIntText(text)))
		return &v
	case token.FloatConstant:
		v := types.ScalarFloat(ctx, types.Float, parseFloatText(text))
		return &v
	case token.DoubleConstant:
		v := types.ScalarFloat(ctx, types.Double, parseFloatText(text))
		return &v
	default:
		v := types.ErrorValue(ctx.Error())
		return &v
	}
}

func (c *Checker) checkNameExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsName()

	view, ok := c.sym.Lookup(p.Name)
	if !ok {
		anchor := anchorForRange(c.lex, n.Range)
		c.diags.Errorf(anchor, "undeclared identifier %q", p.Name.String())

		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	p.Resolved = view
	declType := c.declaratorType(view)

	n.SetName(p)
	n.Type = declType

	if val := c.constValueOf(view); val != nil {
		n.Value = val
		n.IsConst = true

		return ExprResult{Type: declType, IsConst: true}
	}

	return ExprResult{Type: declType}
}

// declaratorType resolves the already-checked type of the declaration a
// DeclView points at.
func (c *Checker) declaratorType(view ast.DeclView) *types.Type {
	decl := c.astCtx.Decl(view.Decl)

	switch decl.Kind {
	case ast.DeclVariable:
		ds := decl.AsVariable().Declarators
		if view.DeclaratorIndex < len(ds) {
			return ds[view.DeclaratorIndex].Type
		}
	case ast.DeclParam:
		return decl.AsParam().Resolved
	case ast.DeclInterfaceBlock:
		return decl.AsInterfaceBlock().Type
	case ast.DeclStruct:
		return decl.AsStruct().Type
	}

	return c.types.Error()
}

// constValueOf returns the folded ConstValue of a `const`-qualified
// variable's initializer, so later expressions referencing it fold too.
func (c *Checker) constValueOf(view ast.DeclView) *types.ConstValue {
	decl := c.astCtx.Decl(view.Decl)
	if decl.Kind != ast.DeclVariable {
		return nil
	}

	p := decl.AsVariable()
	if !hasQualifier(p.Qualifiers, "const") {
		return nil
	}

	if view.DeclaratorIndex >= len(p.Declarators) {
		return nil
	}

	init := p.Declarators[view.DeclaratorIndex].Init
	if init == ast.NoExpr {
		return nil
	}

	return c.astCtx.Expr(init).Value
}

func hasQualifier(quals []atomtable.AtomString, name string) bool {
	for _, q := range quals {
		if q.String() == name {
			return true
		}
	}

	return false
}

func (c *Checker) checkFieldExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsField()
	base := c.checkExpr(p.Base)

	fieldName := p.Field.String()

	// a.length() is parsed generically as a field access; the type checker
	// recognizes the array/vector special case here and treats it as
	// foldable when the array's size is statically known (spec section
	// 4.7's "a.length()" tie-break).
	if fieldName == "length" && base.Type != nil {
		if base.Type.Kind() == types.Array {
			dims := base.Type.DimSizes()
			n.Type = c.types.Scalar(types.Int32)

			if len(dims) > 0 && dims[0] != 0 {
				v := types.ScalarInt(c.types, int64(dims[0]))
				n.Value = &v
				n.IsConst = true

				return ExprResult{Type: n.Type, IsConst: true}
			}

			return ExprResult{Type: n.Type}
		}

		if cnt, ok := base.Type.ComponentCount(); ok && base.Type.Kind() == types.Vector {
			v := types.ScalarInt(c.types, int64(cnt))
			n.Value = &v
			n.IsConst = true
			n.Type = c.types.Scalar(types.Int32)

			return ExprResult{Type: n.Type, IsConst: true}
		}
	}

	if base.Type != nil && (base.Type.Kind() == types.Vector || base.Type.Kind() == types.Scalar) && isSwizzleSelector(fieldName) {
		return c.rewriteSwizzle(id, n, p.Base, base.Type, fieldName)
	}

	if base.Type != nil && base.Type.Kind() == types.Struct {
		if ft, ok := base.Type.Field(fieldName); ok {
			n.Type = ft
			return ExprResult{Type: ft}
		}
	}

	anchor := anchorForRange(c.lex, n.Range)
	c.diags.Errorf(anchor, "no member %q on type %q", fieldName, base.Type.String())
	n.Type = c.types.Error()

	return ExprResult{Type: n.Type}
}

func isSwizzleSelector(s string) bool {
	if len(s) < 1 || len(s) > 4 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if _, _, ok := swizzleIndex(s[i]); !ok {
			return false
		}
	}

	return true
}

// rewriteSwizzle converts an ExprField into an ExprSwizzle once the base's
// vector or scalar type and a well-formed selector string confirm it is one,
// per spec section 4.7/4.11: all selector characters must come from exactly
// one of {xyzw}, {rgba}, {stpq}, and every referenced component must exist in
// the base (a scalar behaves as a 1-component vector, so only its first
// component, spelled any of x/r/s, is addressable — this is how the
// original's Eval.cpp/TypeChecker.h treat scalar swizzle).
func (c *Checker) rewriteSwizzle(id ast.ExprID, n *ast.ExprNode, base ast.ExprID, baseType *types.Type, selector string) ExprResult {
	baseSize := uint8(1)
	if baseType.Kind() == types.Vector {
		baseSize = baseType.VectorSize()
	}

	components := make([]uint8, 0, len(selector))

	set := -1
	valid := true

	for i := 0; i < len(selector); i++ {
		idx, s, ok := swizzleIndex(selector[i])
		if !ok {
			valid = false
			break
		}

		if set == -1 {
			set = s
		} else if set != s {
			valid = false
			break
		}

		if int(idx) >= int(baseSize) {
			valid = false
			break
		}

		components = append(components, idx)
	}

	anchor := anchorForRange(c.lex, n.Range)

	if !valid {
		c.diags.Errorf(anchor, "invalid swizzle selector %q for type %q", selector, baseType.String())
		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	var resultType *types.Type
	if len(components) == 1 {
		resultType = c.types.Scalar(baseType.ScalarKind())
	} else {
		resultType = c.types.Vector(baseType.ScalarKind(), uint8(len(components)))
	}

	n.SetSwizzle(ast.SwizzlePayload{Base: base, Components: components})
	n.Type = resultType

	baseNode := c.astCtx.Expr(base)
	if baseNode.IsConst && baseNode.Value != nil {
		out := make([]types.Scalar, len(components))
		for i, comp := range components {
			out[i] = baseNode.Value.Components[comp]
		}

		v := types.ConstValue{Type: resultType, Components: out}
		n.Value = &v
		n.IsConst = true

		return ExprResult{Type: resultType, IsConst: true}
	}

	return ExprResult{Type: resultType}
}

func (c *Checker) checkIndexExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsIndex()
	base := c.checkExpr(p.Base)
	index := c.checkExpr(p.Index)

	if index.Type != nil && !index.Type.IsError() {
		if k, ok := index.Type.ElementScalarKind(); !ok || (k != types.Int32 && k != types.Uint32) {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "array index must be an integer expression, got %q", index.Type.String())
		}
	}

	var result *types.Type

	switch {
	case base.Type == nil || base.Type.IsError():
		result = c.types.Error()
	case base.Type.Kind() == types.Array:
		result = base.Type.ElementType()
	case base.Type.Kind() == types.Vector:
		result = c.types.Scalar(base.Type.ScalarKind())
	case base.Type.Kind() == types.Matrix:
		rows, _ := base.Type.MatrixShape()
		result = c.types.Vector(base.Type.ScalarKind(), rows)
	default:
		anchor := anchorForRange(c.lex, n.Range)
		c.diags.Errorf(anchor, "type %q is not indexable", base.Type.String())
		result = c.types.Error()
	}

	n.Type = result

	return ExprResult{Type: result}
}

func (c *Checker) checkUnaryExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsUnary()
	operand := c.checkExpr(p.Operand)

	n.Type = operand.Type

	if operand.Type == nil || operand.Type.IsError() || !operand.Type.IsArithmetic() {
		if operand.Type != nil && !operand.Type.IsError() {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "unary operator %q requires an arithmetic operand, got %q", p.Op.String(), operand.Type.String())
		}

		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	if operand.IsConst && !p.Postfix {
		opText := unaryOpText(p.Op)
		if opText != "" {
			operandNode := c.astCtx.Expr(p.Operand)
			v := types.UnaryOp(c.types, opText, *operandNode.Value)
			n.Value = &v
			n.IsConst = true

			return ExprResult{Type: n.Type, IsConst: true}
		}
	}

	return ExprResult{Type: n.Type}
}

func unaryOpText(k token.Kind) string {
	switch k {
	case token.Dash:
		return "-"
	case token.Plus:
		return "+"
	case token.Bang:
		return "!"
	case token.Tilde:
		return "~"
	default:
		return ""
	}
}

func binaryOpText(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Dash:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.Percent:
		return "%"
	case token.Amp:
		return "&"
	case token.Bar:
		return "|"
	case token.Caret:
		return "^"
	case token.LeftShift:
		return "<<"
	case token.RightShift:
		return ">>"
	case token.EqualEqual:
		return "=="
	case token.BangEqual:
		return "!="
	case token.Less:
		return "<"
	case token.LessEqual:
		return "<="
	case token.Greater:
		return ">"
	case token.GreaterEqual:
		return ">="
	case token.AmpAmp:
		return "&&"
	case token.BarBar:
		return "||"
	default:
		return ""
	}
}

func (c *Checker) checkBinaryExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsBinary()
	left := c.checkExpr(p.Left)
	right := c.checkExpr(p.Right)

	opText := binaryOpText(p.Op)

	if left.Type == nil || right.Type == nil || left.Type.IsError() || right.Type.IsError() {
		n.Type = c.types.Error()
		return ExprResult{Type: n.Type}
	}

	isLogical := opText == "&&" || opText == "||"
	isComparison := opText == "==" || opText == "!=" || opText == "<" || opText == "<=" || opText == ">" || opText == ">="

	switch {
	case isLogical:
		n.Type = c.types.Scalar(types.Bool)
	case isComparison:
		n.Type = c.types.Scalar(types.Bool)
	case left.Type.IsArithmetic() && right.Type.IsArithmetic():
		lc, _ := left.Type.ComponentCount()
		rc, _ := right.Type.ComponentCount()

		if lc != rc && lc != 1 && rc != 1 {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "mismatched operand shapes for %q: %q and %q", opText, left.Type.String(), right.Type.String())
			n.Type = c.types.Error()

			return ExprResult{Type: n.Type}
		}

		n.Type = widerArithmeticType(c.types, left.Type, right.Type)
	default:
		anchor := anchorForRange(c.lex, n.Range)
		c.diags.Errorf(anchor, "operator %q not defined for types %q and %q", opText, left.Type.String(), right.Type.String())
		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	if left.IsConst && right.IsConst && opText != "" {
		lv := c.astCtx.Expr(p.Left).Value
		rv := c.astCtx.Expr(p.Right).Value

		if lv != nil && rv != nil {
			v := types.BinaryOp(c.types, opText, *lv, *rv)
			n.Value = &v
			n.IsConst = true

			return ExprResult{Type: n.Type, IsConst: true}
		}
	}

	return ExprResult{Type: n.Type}
}

func widerArithmeticType(ctx *types.Context, a, b *types.Type) *types.Type {
	ak, _ := a.ElementScalarKind()
	bk, _ := b.ElementScalarKind()

	// Whichever of ak/bk is convertible to the other is the narrower one;
	// the usual arithmetic conversions promote to the wider kind.
	k := ak
	if ak.ConvertibleTo(bk) {
		k = bk
	}

	wide := a
	if shapeOf(b) > shapeOf(a) {
		wide = b
	}

	switch wide.Kind() {
	case types.Vector:
		return ctx.Vector(k, wide.VectorSize())
	case types.Matrix:
		rows, cols := wide.MatrixShape()
		return ctx.Matrix(k, rows, cols)
	default:
		return ctx.Scalar(k)
	}
}

// commonConvertibleType resolves spec section 4.11.3's ternary result type:
// equal branch types need no conversion; otherwise the branches must be
// same-shape arithmetic types where one is implicitly convertible to the
// other, and the result is the wider of the two (the usual arithmetic
// conversions, same rule checkBinaryExpr applies to mixed-type operands).
func commonConvertibleType(ctx *types.Context, a, b *types.Type) (*types.Type, bool) {
	if a == nil || b == nil || a.IsError() || b.IsError() {
		return nil, false
	}

	if a == b {
		return a, true
	}

	if !a.IsArithmetic() || !b.IsArithmetic() {
		return nil, false
	}

	ac, aok := a.ComponentCount()
	bc, bok := b.ComponentCount()

	if !aok || !bok || ac != bc {
		return nil, false
	}

	ak, _ := a.ElementScalarKind()
	bk, _ := b.ElementScalarKind()

	if !ak.ConvertibleTo(bk) && !bk.ConvertibleTo(ak) {
		return nil, false
	}

	return widerArithmeticType(ctx, a, b), true
}

// convertConstValue coerces a folded constant to target's type component-wise,
// used when a ternary's taken branch has a narrower type than the common
// result type commonConvertibleType selected.
func convertConstValue(v *types.ConstValue, target *types.Type) *types.ConstValue {
	if v == nil || v.Type == target {
		return v
	}

	tk, ok := target.ElementScalarKind()
	if !ok {
		return v
	}

	out := make([]types.Scalar, len(v.Components))
	for i, s := range v.Components {
		out[i] = convertScalar(tk, s)
	}

	converted := types.ConstValue{Type: target, Components: out}

	return &converted
}

func convertScalar(kind types.ScalarKind, s types.Scalar) types.Scalar {
	switch kind {
	case types.Bool:
		return types.Scalar{Kind: kind, Bool: s.AsBool()}
	case types.Uint8, types.Uint16, types.Uint32, types.Uint64:
		return types.Scalar{Kind: kind, Uint: uint64(s.Int64())}
	case types.Float, types.Double:
		return types.Scalar{Kind: kind, Float: s.Float64()}
	default:
		return types.Scalar{Kind: kind, Int: s.Int64()}
	}
}

func shapeOf(t *types.Type) int {
	switch t.Kind() {
	case types.Matrix:
		return 2
	case types.Vector:
		return 1
	default:
		return 0
	}
}

func (c *Checker) checkTernaryExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsTernary()
	cond := c.checkExpr(p.Cond)
	t := c.checkExpr(p.True)
	f := c.checkExpr(p.False)

	if cond.Type != nil && !cond.Type.IsError() {
		if k, ok := cond.Type.ElementScalarKind(); !ok || k != types.Bool {
			anchor := anchorForRange(c.lex, n.Range)
			c.diags.Errorf(anchor, "ternary condition must be bool, got %q", cond.Type.String())
		}
	}

	commonType, ok := commonConvertibleType(c.types, t.Type, f.Type)
	if !ok {
		anchor := anchorForRange(c.lex, n.Range)
		c.diags.Errorf(anchor, "ternary branches have mismatched types %q and %q", t.Type.String(), f.Type.String())
		n.Type = c.types.Error()

		return ExprResult{Type: n.Type}
	}

	n.Type = commonType

	if cond.IsConst && t.IsConst && f.IsConst {
		condVal := c.astCtx.Expr(p.Cond).Value
		if condVal != nil && len(condVal.Components) == 1 {
			if condVal.Components[0].AsBool() {
				n.Value = convertConstValue(c.astCtx.Expr(p.True).Value, commonType)
			} else {
				n.Value = convertConstValue(c.astCtx.Expr(p.False).Value, commonType)
			}

			n.IsConst = n.Value != nil

			return ExprResult{Type: n.Type, IsConst: n.IsConst}
		}
	}

	return ExprResult{Type: n.Type}
}

func (c *Checker) checkAssignExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsAssign()
	left := c.checkExpr(p.Left)
	right := c.checkExpr(p.Right)

	if left.Type != nil && right.Type != nil && !left.Type.IsError() && !right.Type.IsError() && left.Type != right.Type {
		anchor := anchorForRange(c.lex, n.Range)
		c.diags.Errorf(anchor, "cannot assign %q to %q", right.Type.String(), left.Type.String())
	}

	n.Type = left.Type

	return ExprResult{Type: n.Type}
}

func (c *Checker) checkInitListExpr(id ast.ExprID, n *ast.ExprNode) ExprResult {
	p := n.AsInitList()

	elems := make([]*types.Type, len(p.Elements))
	allConst := true

	for i, e := range p.Elements {
		r := c.checkExpr(e)
		elems[i] = r.Type
		allConst = allConst && r.IsConst
	}

	if len(elems) == 0 {
		n.Type = c.types.Error()
		return ExprResult{Type: n.Type}
	}

	n.Type = c.types.Array(elems[0], []uint32{uint32(len(elems))})

	return ExprResult{Type: n.Type, IsConst: allConst}
}

func parseIntText(text string) int64 {
	text = strings.TrimRight(text, "uU")

	var v int64

	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		for _, r := range text[2:] {
			v = v*16 + int64(hexDigit(byte(r)))
		}
	case len(text) > 1 && text[0] == '0':
		for _, r := range text[1:] {
			v = v*8 + int64(r-'0')
		}
	default:
		for _, r := range text {
			if r < '0' || r > '9' {
				break
			}

			v = v*10 + int64(r-'0')
		}
	}

	return v
}

func hexDigit(b byte) int64 {
	switch {
	case b >= '0' && b <= '9':
		return int64(b - '0')
	case b >= 'a' && b <= 'f':
		return int64(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int64(b-'A') + 10
	default:
		return 0
	}
}

// parseFloatText folds a FloatConstant/DoubleConstant token's text into its
// float64 value. The tokenizer appends a "f"/"F"/"lf"/"LF" type suffix that
// strconv.ParseFloat doesn't accept, so that is trimmed first; the rest
// (decimal point and optional exponent, e.g. "2.5e-3") is exactly Go's float
// literal grammar.
func parseFloatText(text string) float64 {
	text = strings.TrimRight(text, "fFlL")

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}

	return v
}
