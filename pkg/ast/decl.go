package ast

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/types"
)

// DeclKind is the closed set of declaration shapes (spec section 3).
type DeclKind uint8

const (
	DeclError DeclKind = iota
	DeclVariable
	DeclFunction
	DeclStruct
	DeclInterfaceBlock
	DeclPrecision
	DeclParam
	DeclQualifierOnly
)

func (k DeclKind) String() string {
	switch k {
	case DeclError:
		return "error"
	case DeclVariable:
		return "variable"
	case DeclFunction:
		return "function"
	case DeclStruct:
		return "struct"
	case DeclInterfaceBlock:
		return "interface-block"
	case DeclPrecision:
		return "precision"
	case DeclParam:
		return "param"
	case DeclQualifierOnly:
		return "qualifier-only"
	default:
		return "<unknown-decl>"
	}
}

type declPayload interface {
	isDeclPayload()
}

// QualType is a declaration's base type as written, before array
// specifiers: either a builtin scalar/vector/matrix/sampler keyword or a
// reference to a struct declared earlier in the translation unit. Unknown
// is true when name resolution could not find the named struct, in which
// case Resolved is the error type.
type QualType struct {
	Name     atomtable.AtomString
	Resolved *types.Type
	Unknown  bool
}

// Declarator is one name in a possibly multi-name declaration (`int a, b[4]
// = c;`). DimSizes holds array-specifier sizes (0 for an unsized dimension,
// e.g. `float xs[];`); Init is NoExpr when there is no initializer.
type Declarator struct {
	Name     atomtable.AtomString
	DimSizes []ExprID // each element is a constant-expression size, or NoExpr if unsized
	Init     ExprID
	Type     *types.Type // filled in by the type checker: QualType.Resolved shaped by DimSizes
}

// VariablePayload holds a variable declaration's qualifiers, base type, and
// one or more declarators.
type VariablePayload struct {
	Qualifiers  []atomtable.AtomString
	Type        QualType
	Declarators []Declarator
}

func (VariablePayload) isDeclPayload() {}

// ParamPayload holds one function parameter.
type ParamPayload struct {
	Qualifiers []atomtable.AtomString // in/out/inout/const
	Type       QualType
	Name       atomtable.AtomString // empty for an unnamed parameter
	DimSizes   []ExprID
	Resolved   *types.Type
}

func (ParamPayload) isDeclPayload() {}

// FunctionPayload holds a function prototype or definition. Body is NoStmt
// for a prototype (a declaration ending in ';' rather than a compound
// statement, spec section 4.7's prototype/definition tie-break).
type FunctionPayload struct {
	ReturnType QualType
	Name       atomtable.AtomString
	Params     []DeclID // each a DeclParam
	Body       StmtID
}

func (FunctionPayload) isDeclPayload() {}

// StructPayload holds a struct type declaration's ordered fields, each
// itself a VariablePayload-shaped declarator list (GLSL struct fields admit
// array specifiers but not initializers or qualifiers).
type StructPayload struct {
	Name   atomtable.AtomString
	Fields []DeclID // each a DeclVariable
	Type   *types.Type
}

func (StructPayload) isDeclPayload() {}

// InterfaceBlockPayload holds a named interface block (uniform/in/out/buffer
// blocks), which behaves like a struct declaration that also introduces an
// instance name (or, if InstanceName is empty, splices its members directly
// into the enclosing scope).
type InterfaceBlockPayload struct {
	Qualifiers   []atomtable.AtomString
	BlockName    atomtable.AtomString
	Fields       []DeclID // each a DeclVariable
	InstanceName atomtable.AtomString // empty if the block's members are unqualified
	ArrayDims    []ExprID
	Type         *types.Type
}

func (InterfaceBlockPayload) isDeclPayload() {}

// PrecisionPayload holds a `precision highp float;`-style statement.
type PrecisionPayload struct {
	Qualifier atomtable.AtomString
	Type      QualType
}

func (PrecisionPayload) isDeclPayload() {}

// QualifierOnlyPayload holds a lone layout/qualifier declaration with no
// declarator, e.g. `layout(local_size_x = 1) in;`.
type QualifierOnlyPayload struct {
	Qualifiers []atomtable.AtomString
}

func (QualifierOnlyPayload) isDeclPayload() {}

// DeclNode is one entry in a Context's declaration arena.
type DeclNode struct {
	Kind  DeclKind
	Range SyntaxRange

	payload declPayload
}

// AsVariable returns d's VariablePayload. Panics if d.Kind != DeclVariable.
func (d *DeclNode) AsVariable() VariablePayload { return d.payload.(VariablePayload) }

// AsParam returns d's ParamPayload. Panics if d.Kind != DeclParam.
func (d *DeclNode) AsParam() ParamPayload { return d.payload.(ParamPayload) }

// AsFunction returns d's FunctionPayload. Panics if d.Kind != DeclFunction.
func (d *DeclNode) AsFunction() FunctionPayload { return d.payload.(FunctionPayload) }

// AsStruct returns d's StructPayload. Panics if d.Kind != DeclStruct.
func (d *DeclNode) AsStruct() StructPayload { return d.payload.(StructPayload) }

// AsInterfaceBlock returns d's InterfaceBlockPayload. Panics if d.Kind !=
// DeclInterfaceBlock.
func (d *DeclNode) AsInterfaceBlock() InterfaceBlockPayload {
	return d.payload.(InterfaceBlockPayload)
}

// AsPrecision returns d's PrecisionPayload. Panics if d.Kind != DeclPrecision.
func (d *DeclNode) AsPrecision() PrecisionPayload { return d.payload.(PrecisionPayload) }

// AsVariableSet replaces d's VariablePayload, used by the type checker once
// declarators have been shaped and initializers checked.
func (d *DeclNode) AsVariableSet(p VariablePayload) { d.payload = p }

// AsParamSet replaces d's ParamPayload once its type has been resolved.
func (d *DeclNode) AsParamSet(p ParamPayload) { d.payload = p }

// AsStructSet replaces d's StructPayload once its Type has been interned.
func (d *DeclNode) AsStructSet(p StructPayload) { d.payload = p }

// AsInterfaceBlockSet replaces d's InterfaceBlockPayload once its Type has
// been interned.
func (d *DeclNode) AsInterfaceBlockSet(p InterfaceBlockPayload) { d.payload = p }

// AsPrecisionSet replaces d's PrecisionPayload once its type has been
// resolved.
func (d *DeclNode) AsPrecisionSet(p PrecisionPayload) { d.payload = p }

// DeclView addresses one declarator within a (possibly multi-declarator)
// variable declaration, or a whole declaration when DeclaratorIndex is
// meaningless (functions, structs, params). It is what a NamePayload's
// Resolved field, and a symtab entry, point at — never a bare DeclID alone,
// since `int a, b;` declares two distinct symbols from one DeclNode.
type DeclView struct {
	Decl            DeclID
	DeclaratorIndex int
}

// IsResolved reports whether v refers to a real declaration.
func (v DeclView) IsResolved() bool { return v.Decl != NoDecl }
