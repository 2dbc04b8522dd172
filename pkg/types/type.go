// Package types implements the canonical Type descriptors the type checker
// deduces and interns: scalar, vector, matrix, sampler, array and struct
// types, plus the constant-folding value representation (ConstValue).
// Equality for every non-error, non-void type produced by a Context is
// pointer equality, per spec section 3 — two types are the same type iff
// they are the same *Type.
//
// Grounded on the teacher's pkg/corset/ast/type.go (closed Type variants
// dispatched by a Selector-style tag, one constructor per shape) and
// pkg/util/collection, whose HashMap-backed memoization is the model for
// this package's interning maps, adapted from the teacher's structural
// value-equality caching to GLSL's stricter requirement of pointer-identity
// caching (spec section 9's "type interning identity" testable property).
package types

import "fmt"

// Kind is the closed set of Type shapes (spec section 3).
type Kind uint8

const (
	// Error is returned in place of a type that could not be deduced; it
	// propagates silently through further type-checking (spec section 7).
	Error Kind = iota
	Void
	Scalar
	Vector
	Matrix
	Sampler
	Array
	Struct
)

// ScalarKind is the closed set of scalar element kinds. The base
// conformance lattice is Bool < Int32 < Uint32 < Float < Double (spec
// section 9); the extension integer widths promote at the same tier as
// their 32-bit counterpart, per the "minimum conformance target" open
// question.
type ScalarKind uint8

const (
	Bool ScalarKind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float
	Double
)

// String renders a ScalarKind using its GLSL spelling.
func (k ScalarKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8, Int16, Int32, Int64:
		return "int"
	case Uint8, Uint16, Uint32, Uint64:
		return "uint"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return "<unknown-scalar>"
	}
}

// promotionRank places a ScalarKind on the implicit-conversion lattice.
// Higher ranks are reachable from lower ones (bool -> int -> uint -> float
// -> double); extension widths share the rank of their 32-bit tier.
func (k ScalarKind) promotionRank() int {
	switch k {
	case Bool:
		return 0
	case Int8, Int16, Int32, Int64:
		return 1
	case Uint8, Uint16, Uint32, Uint64:
		return 2
	case Float:
		return 3
	case Double:
		return 4
	default:
		return -1
	}
}

// ConvertibleTo reports whether a value of kind k is implicitly convertible
// to want, per the promotion lattice (equal kinds always convert).
func (k ScalarKind) ConvertibleTo(want ScalarKind) bool {
	if k == want {
		return true
	}

	return k.promotionRank() < want.promotionRank()
}

// PromotionDistance reports how many lattice tiers separate k from want,
// assuming k.ConvertibleTo(want) holds (0 for an exact match). Callers use
// this to rank candidate overloads by nearest conversion rather than merely
// by whether a conversion exists (spec section 4.11.4).
func (k ScalarKind) PromotionDistance(want ScalarKind) int {
	return want.promotionRank() - k.promotionRank()
}

// SamplerDim is the closed set of builtin sampler shapes (spec section 3).
type SamplerDim uint8

const (
	Sampler2D SamplerDim = iota
	Sampler3D
	SamplerCube
	Sampler2DArray
	SamplerCubeArray
	Sampler2DShadow
	Sampler2DArrayShadow
	SamplerCubeShadow
)

func (d SamplerDim) String() string {
	switch d {
	case Sampler2D:
		return "sampler2D"
	case Sampler3D:
		return "sampler3D"
	case SamplerCube:
		return "samplerCube"
	case Sampler2DArray:
		return "sampler2DArray"
	case SamplerCubeArray:
		return "samplerCubeArray"
	case Sampler2DShadow:
		return "sampler2DShadow"
	case Sampler2DArrayShadow:
		return "sampler2DArrayShadow"
	case SamplerCubeShadow:
		return "samplerCubeShadow"
	default:
		return "<unknown-sampler>"
	}
}

// StructMember is one ordered field of a struct or interface-block Type.
type StructMember struct {
	Name string
	Type *Type
}

// Type is the canonical, interned descriptor for every GLSL type that can
// appear as a deduced type. Do not construct a Type literal directly outside
// this package — always go through a Context, which is what guarantees
// pointer identity implies type identity.
type Type struct {
	kind Kind

	scalar ScalarKind // Scalar, and the element kind of Vector/Matrix/arithmetic Array

	vectorSize uint8 // Vector

	matrixRows uint8 // Matrix
	matrixCols uint8

	samplerDim SamplerDim // Sampler

	element  *Type    // Array: element type, never itself an Array (folded)
	dimSizes []uint32 // Array: outer-to-inner dimension sizes; 0 means unsized

	structName    string
	members       []StructMember
	declaringNode uint32 // stable index of the declaring AST node, not a pointer

	containsOpaque bool // Struct: cached transitive sampler-containment
}

// Kind reports this type's shape.
func (t *Type) Kind() Kind { return t.kind }

// IsError reports whether t is the distinguished error type.
func (t *Type) IsError() bool { return t.kind == Error }

// IsVoid reports whether t is the void type.
func (t *Type) IsVoid() bool { return t.kind == Void }

// ScalarKind returns the scalar element kind of a Scalar, Vector or Matrix
// type. Panics on any other kind; check Kind() first.
func (t *Type) ScalarKind() ScalarKind {
	if t.kind != Scalar && t.kind != Vector && t.kind != Matrix {
		panic("ScalarKind: not a scalar, vector or matrix type")
	}

	return t.scalar
}

// VectorSize returns the component count of a Vector type. Panics otherwise.
func (t *Type) VectorSize() uint8 {
	if t.kind != Vector {
		panic("VectorSize: not a vector type")
	}

	return t.vectorSize
}

// MatrixShape returns the (rows, cols) of a Matrix type. Panics otherwise.
func (t *Type) MatrixShape() (rows, cols uint8) {
	if t.kind != Matrix {
		panic("MatrixShape: not a matrix type")
	}

	return t.matrixRows, t.matrixCols
}

// SamplerDim returns the dimensionality of a Sampler type. Panics otherwise.
func (t *Type) SamplerDim() SamplerDim {
	if t.kind != Sampler {
		panic("SamplerDim: not a sampler type")
	}

	return t.samplerDim
}

// ElementType returns an Array type's element type. Panics otherwise.
func (t *Type) ElementType() *Type {
	if t.kind != Array {
		panic("ElementType: not an array type")
	}

	return t.element
}

// DimSizes returns an Array type's dimension sizes, outermost first. Panics
// otherwise.
func (t *Type) DimSizes() []uint32 {
	if t.kind != Array {
		panic("DimSizes: not an array type")
	}

	return t.dimSizes
}

// StructName returns a Struct type's declared name.
func (t *Type) StructName() string {
	if t.kind != Struct {
		panic("StructName: not a struct type")
	}

	return t.structName
}

// Members returns a Struct type's ordered fields.
func (t *Type) Members() []StructMember {
	if t.kind != Struct {
		panic("Members: not a struct type")
	}

	return t.members
}

// DeclaringNode returns the stable index of the AST node that declared this
// Struct type.
func (t *Type) DeclaringNode() uint32 {
	if t.kind != Struct {
		panic("DeclaringNode: not a struct type")
	}

	return t.declaringNode
}

// Field looks up a member by name, returning (type, true) if found.
func (t *Type) Field(name string) (*Type, bool) {
	if t.kind != Struct {
		return nil, false
	}

	for _, m := range t.members {
		if m.Name == name {
			return m.Type, true
		}
	}

	return nil, false
}

// IsArithmetic reports whether t is a scalar, vector or matrix type — the
// types ElementScalarKind/ComponentCount are defined over (spec section 3).
func (t *Type) IsArithmetic() bool {
	return t.kind == Scalar || t.kind == Vector || t.kind == Matrix
}

// ElementScalarKind returns the scalar kind underlying an arithmetic type.
func (t *Type) ElementScalarKind() (ScalarKind, bool) {
	if !t.IsArithmetic() {
		return 0, false
	}

	return t.scalar, true
}

// ComponentCount returns the number of scalar components in an arithmetic
// type (1 for Scalar, N for Vector, rows*cols for Matrix).
func (t *Type) ComponentCount() (int, bool) {
	switch t.kind {
	case Scalar:
		return 1, true
	case Vector:
		return int(t.vectorSize), true
	case Matrix:
		return int(t.matrixRows) * int(t.matrixCols), true
	default:
		return 0, false
	}
}

// ContainsOpaqueType reports whether t is, or transitively contains, a
// sampler type — such types cannot be used as ordinary value types in most
// GLSL contexts (e.g. as a function return type).
func (t *Type) ContainsOpaqueType() bool {
	switch t.kind {
	case Sampler:
		return true
	case Struct:
		return t.containsOpaque
	case Array:
		return t.element.ContainsOpaqueType()
	default:
		return false
	}
}

// String renders t for diagnostics and the dumpAst debugging option (spec
// section 9).
func (t *Type) String() string {
	switch t.kind {
	case Error:
		return "<error>"
	case Void:
		return "void"
	case Scalar:
		return t.scalar.String()
	case Vector:
		return fmt.Sprintf("%s%d", vectorPrefix(t.scalar), t.vectorSize)
	case Matrix:
		if t.matrixRows == t.matrixCols {
			return fmt.Sprintf("mat%d", t.matrixRows)
		}

		return fmt.Sprintf("mat%dx%d", t.matrixCols, t.matrixRows)
	case Sampler:
		return t.samplerDim.String()
	case Array:
		s := t.element.String()
		for _, d := range t.dimSizes {
			if d == 0 {
				s += "[]"
			} else {
				s += fmt.Sprintf("[%d]", d)
			}
		}

		return s
	case Struct:
		return t.structName
	default:
		return "<unknown-type>"
	}
}

func vectorPrefix(k ScalarKind) string {
	switch k {
	case Bool:
		return "bvec"
	case Int8, Int16, Int32, Int64:
		return "ivec"
	case Uint8, Uint16, Uint32, Uint64:
		return "uvec"
	case Float:
		return "vec"
	case Double:
		return "dvec"
	default:
		return "vec"
	}
}
