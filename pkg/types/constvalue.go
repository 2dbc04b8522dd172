package types

import "math"

// ConstValue is the result of constant-folding a GLSL expression (spec
// section 4.11's EvalAstExpr). It is a flat component vector tagged with the
// Type it was deduced as, so a scalar has one component and a mat4 has
// sixteen (stored in column-major order, matching GLSL's own convention).
// Binary operators broadcast a scalar operand across every component of a
// vector or matrix operand, matching GLSL's own implicit broadcasting rules.
type ConstValue struct {
	Type       *Type
	Components []Scalar
	IsError    bool
}

// Scalar holds one component of a ConstValue. Only the field matching the
// governing ScalarKind is meaningful; the others are zero.
type Scalar struct {
	Kind  ScalarKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
}

// ErrorValue is the distinguished constant value standing in for an
// expression that failed to fold; it propagates through further folding
// without generating cascading diagnostics.
func ErrorValue(errType *Type) ConstValue {
	return ConstValue{Type: errType, IsError: true}
}

// ScalarBool builds a one-component boolean ConstValue.
func ScalarBool(ctx *Context, v bool) ConstValue {
	return ConstValue{Type: ctx.Scalar(Bool), Components: []Scalar{{Kind: Bool, Bool: v}}}
}

// ScalarInt builds a one-component signed-integer ConstValue.
func ScalarInt(ctx *Context, v int64) ConstValue {
	return ConstValue{Type: ctx.Scalar(Int32), Components: []Scalar{{Kind: Int32, Int: v}}}
}

// ScalarUint builds a one-component unsigned-integer ConstValue.
func ScalarUint(ctx *Context, v uint64) ConstValue {
	return ConstValue{Type: ctx.Scalar(Uint32), Components: []Scalar{{Kind: Uint32, Uint: v}}}
}

// ScalarFloat builds a one-component floating-point ConstValue of the given
// kind (Float or Double).
func ScalarFloat(ctx *Context, k ScalarKind, v float64) ConstValue {
	return ConstValue{Type: ctx.Scalar(k), Components: []Scalar{{Kind: k, Float: v}}}
}

func (s Scalar) asFloat() float64 {
	switch s.Kind {
	case Bool:
		if s.Bool {
			return 1
		}

		return 0
	case Uint8, Uint16, Uint32, Uint64:
		return float64(s.Uint)
	case Float, Double:
		return s.Float
	default:
		return float64(s.Int)
	}
}

func (s Scalar) asInt() int64 {
	switch s.Kind {
	case Bool:
		if s.Bool {
			return 1
		}

		return 0
	case Uint8, Uint16, Uint32, Uint64:
		return int64(s.Uint)
	case Float, Double:
		return int64(s.Float)
	default:
		return s.Int
	}
}

// Int64 returns the component's value coerced to a signed integer,
// regardless of its underlying kind — used wherever a constant-folded
// expression must produce a plain integer (array dimension sizes, #if
// results).
func (s Scalar) Int64() int64 { return s.asInt() }

// Float64 returns the component's value coerced to float64.
func (s Scalar) Float64() float64 { return s.asFloat() }

// AsBool returns the component's value coerced to bool.
func (s Scalar) AsBool() bool { return s.asBool() }

func (s Scalar) asBool() bool {
	switch s.Kind {
	case Bool:
		return s.Bool
	case Uint8, Uint16, Uint32, Uint64:
		return s.Uint != 0
	case Float, Double:
		return s.Float != 0
	default:
		return s.Int != 0
	}
}

func scalarOf(k ScalarKind, v float64) Scalar {
	switch k {
	case Bool:
		return Scalar{Kind: k, Bool: v != 0}
	case Uint8, Uint16, Uint32, Uint64:
		return Scalar{Kind: k, Uint: uint64(v)}
	case Float, Double:
		return Scalar{Kind: k, Float: v}
	default:
		return Scalar{Kind: k, Int: int64(v)}
	}
}

// broadcast pairs up a's and b's components under GLSL's scalar-broadcast
// rule: if either operand has exactly one component, it is repeated to match
// the other's length. Returns ok=false if neither side is a scalar and their
// lengths differ, which the caller reports as a type error rather than
// folding.
func broadcast(a, b []Scalar) (left, right []Scalar, ok bool) {
	switch {
	case len(a) == len(b):
		return a, b, true
	case len(a) == 1:
		left = make([]Scalar, len(b))
		for i := range left {
			left[i] = a[0]
		}

		return left, b, true
	case len(b) == 1:
		right = make([]Scalar, len(a))
		for i := range right {
			right[i] = b[0]
		}

		return a, right, true
	default:
		return nil, nil, false
	}
}

// resultType picks the component-wise result type for a binary arithmetic
// op: the wider of a's and b's shape, carrying whichever scalar kind ranks
// higher on the promotion lattice (the usual arithmetic conversions).
func resultType(ctx *Context, a, b *Type) *Type {
	wide := a
	if shapeRank(b) > shapeRank(a) {
		wide = b
	}

	ak, _ := a.ElementScalarKind()
	bk, _ := b.ElementScalarKind()

	k := ak
	if bk.promotionRank() > ak.promotionRank() {
		k = bk
	}

	switch wide.kind {
	case Vector:
		return ctx.Vector(k, wide.vectorSize)
	case Matrix:
		return ctx.Matrix(k, wide.matrixRows, wide.matrixCols)
	default:
		return ctx.Scalar(k)
	}
}

func shapeRank(t *Type) int {
	switch t.kind {
	case Matrix:
		return 2
	case Vector:
		return 1
	default:
		return 0
	}
}

// BinaryOp folds an elementwise binary operator over two constant values,
// per spec section 4.11's constant-folding responsibility. op follows the
// token.Kind naming of GLSL's arithmetic and comparison operators as plain
// strings ("+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>", "==", "!=",
// "<", "<=", ">", ">=", "&&", "||") so this package does not need to import
// the token package.
func BinaryOp(ctx *Context, op string, a, b ConstValue) ConstValue {
	if a.IsError || b.IsError {
		return ErrorValue(ctx.Error())
	}

	left, right, ok := broadcast(a.Components, b.Components)
	if !ok {
		return ErrorValue(ctx.Error())
	}

	switch op {
	case "&&":
		return ScalarBool(ctx, a.Components[0].asBool() && b.Components[0].asBool())
	case "||":
		return ScalarBool(ctx, a.Components[0].asBool() || b.Components[0].asBool())
	case "==":
		return ScalarBool(ctx, componentsEqual(left, right))
	case "!=":
		return ScalarBool(ctx, !componentsEqual(left, right))
	}

	if isRelational(op) {
		return ScalarBool(ctx, relational(op, left[0], right[0]))
	}

	rt := resultType(ctx, a.Type, b.Type)
	k, _ := rt.ElementScalarKind()

	out := make([]Scalar, len(left))
	for i := range left {
		out[i] = scalarOf(k, arith(op, left[i].asFloat(), right[i].asFloat(), k))
	}

	return ConstValue{Type: rt, Components: out}
}

func isRelational(op string) bool {
	switch op {
	case "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

func relational(op string, a, b Scalar) bool {
	x, y := a.asFloat(), b.asFloat()

	switch op {
	case "<":
		return x < y
	case "<=":
		return x <= y
	case ">":
		return x > y
	case ">=":
		return x >= y
	default:
		return false
	}
}

func componentsEqual(a, b []Scalar) bool {
	for i := range a {
		if a[i].asFloat() != b[i].asFloat() {
			return false
		}
	}

	return true
}

func arith(op string, a, b float64, k ScalarKind) float64 {
	isInt := k != Float && k != Double

	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		if b == 0 {
			return 0
		}

		return a / b
	case "%":
		if isInt {
			if int64(b) == 0 {
				return 0
			}

			return float64(int64(a) % int64(b))
		}

		return math.Mod(a, b)
	case "&":
		return float64(int64(a) & int64(b))
	case "|":
		return float64(int64(a) | int64(b))
	case "^":
		return float64(int64(a) ^ int64(b))
	case "<<":
		return float64(int64(a) << uint64(int64(b)))
	case ">>":
		return float64(int64(a) >> uint64(int64(b)))
	default:
		return 0
	}
}

// UnaryOp folds a unary prefix operator ("-", "+", "!", "~") over a constant
// value.
func UnaryOp(ctx *Context, op string, v ConstValue) ConstValue {
	if v.IsError {
		return ErrorValue(ctx.Error())
	}

	k, ok := v.Type.ElementScalarKind()
	if !ok {
		return ErrorValue(ctx.Error())
	}

	if op == "!" {
		out := make([]Scalar, len(v.Components))
		for i, c := range v.Components {
			out[i] = Scalar{Kind: Bool, Bool: !c.asBool()}
		}

		return ConstValue{Type: v.Type, Components: out}
	}

	out := make([]Scalar, len(v.Components))
	for i, c := range v.Components {
		switch op {
		case "-":
			out[i] = scalarOf(k, -c.asFloat())
		case "+":
			out[i] = c
		case "~":
			out[i] = scalarOf(k, float64(^c.asInt()))
		}
	}

	return ConstValue{Type: v.Type, Components: out}
}

// builtinMathFns is the set of single/dual-argument GLSL builtin math
// functions whose result is constant-foldable when every argument is
// constant (spec section 4.11.5).
var builtinMathFns = map[string]func(args ...float64) float64{
	"radians":     func(a ...float64) float64 { return a[0] * math.Pi / 180 },
	"degrees":     func(a ...float64) float64 { return a[0] * 180 / math.Pi },
	"sin":         func(a ...float64) float64 { return math.Sin(a[0]) },
	"cos":         func(a ...float64) float64 { return math.Cos(a[0]) },
	"asin":        func(a ...float64) float64 { return math.Asin(a[0]) },
	"acos":        func(a ...float64) float64 { return math.Acos(a[0]) },
	"exp":         func(a ...float64) float64 { return math.Exp(a[0]) },
	"log":         func(a ...float64) float64 { return math.Log(a[0]) },
	"exp2":        func(a ...float64) float64 { return math.Exp2(a[0]) },
	"log2":        func(a ...float64) float64 { return math.Log2(a[0]) },
	"sqrt":        func(a ...float64) float64 { return math.Sqrt(a[0]) },
	"inversesqrt": func(a ...float64) float64 { return 1 / math.Sqrt(a[0]) },
	"abs":         func(a ...float64) float64 { return math.Abs(a[0]) },
	"sign":        func(a ...float64) float64 { return signOf(a[0]) },
	"floor":       func(a ...float64) float64 { return math.Floor(a[0]) },
	"trunc":       func(a ...float64) float64 { return math.Trunc(a[0]) },
	"round":       func(a ...float64) float64 { return math.Round(a[0]) },
	"ceil":        func(a ...float64) float64 { return math.Ceil(a[0]) },
	"min":         func(a ...float64) float64 { return math.Min(a[0], a[1]) },
	"max":         func(a ...float64) float64 { return math.Max(a[0], a[1]) },
	"pow":         func(a ...float64) float64 { return math.Pow(a[0], a[1]) },
	"clamp":       func(a ...float64) float64 { return math.Min(math.Max(a[0], a[1]), a[2]) },
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// IsFoldableBuiltin reports whether name is one of the builtin math
// functions EvalBuiltin knows how to constant-fold.
func IsFoldableBuiltin(name string) bool {
	_, ok := builtinMathFns[name]
	return ok
}

// EvalBuiltin folds a call to one of the builtin math functions over
// already-constant arguments, applying the function componentwise and
// re-broadcasting scalar arguments against the widest vector argument, as
// GLSL's builtin overloads do.
func EvalBuiltin(ctx *Context, name string, args []ConstValue) ConstValue {
	fn, ok := builtinMathFns[name]
	if !ok {
		return ErrorValue(ctx.Error())
	}

	for _, a := range args {
		if a.IsError {
			return ErrorValue(ctx.Error())
		}
	}

	width := 1
	resultT := args[0].Type

	for _, a := range args {
		if n := len(a.Components); n > width {
			width = n
			resultT = a.Type
		}
	}

	k, ok := resultT.ElementScalarKind()
	if !ok {
		return ErrorValue(ctx.Error())
	}

	out := make([]Scalar, width)

	for i := 0; i < width; i++ {
		callArgs := make([]float64, len(args))

		for j, a := range args {
			if len(a.Components) == 1 {
				callArgs[j] = a.Components[0].asFloat()
			} else {
				callArgs[j] = a.Components[i].asFloat()
			}
		}

		out[i] = scalarOf(k, fn(callArgs...))
	}

	return ConstValue{Type: resultT, Components: out}
}
