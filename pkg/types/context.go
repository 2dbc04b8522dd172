package types

import "fmt"

// Context interns every non-primitive Type so that pointer equality implies
// type equality across an entire CompilerInvocation (and, for the shared
// preamble, across every invocation that adopts it). Error, Void and the
// eleven Scalar kinds are pre-allocated singletons; Vector, Matrix, Sampler
// and Array types are interned lazily on first request; Struct types are
// cached one-per-declaring-node, since two distinct struct declarations with
// identical member lists are still distinct types in GLSL.
type Context struct {
	errorType *Type
	voidType  *Type
	scalars   [Double + 1]*Type

	vectors  map[vectorKey]*Type
	matrices map[matrixKey]*Type
	samplers map[SamplerDim]*Type
	arrays   map[arrayKey]*Type
	structs  map[uint32]*Type
}

type vectorKey struct {
	scalar ScalarKind
	size   uint8
}

type matrixKey struct {
	scalar     ScalarKind
	rows, cols uint8
}

// arrayKey uses a string encoding of the dimension list so the key stays
// comparable (a []uint32 cannot be a map key directly).
type arrayKey struct {
	element *Type
	dims    string
}

// NewContext constructs a Context with every primitive type pre-interned.
func NewContext() *Context {
	c := &Context{
		errorType: &Type{kind: Error},
		voidType:  &Type{kind: Void},
		vectors:   make(map[vectorKey]*Type),
		matrices:  make(map[matrixKey]*Type),
		samplers:  make(map[SamplerDim]*Type),
		arrays:    make(map[arrayKey]*Type),
		structs:   make(map[uint32]*Type),
	}

	for k := Bool; k <= Double; k++ {
		c.scalars[k] = &Type{kind: Scalar, scalar: k}
	}

	return c
}

// Error returns the singleton error type.
func (c *Context) Error() *Type { return c.errorType }

// Void returns the singleton void type.
func (c *Context) Void() *Type { return c.voidType }

// Scalar returns the singleton Type for scalar kind k.
func (c *Context) Scalar(k ScalarKind) *Type { return c.scalars[k] }

// Vector returns the interned vector type of element kind k and size n
// (2, 3 or 4 components).
func (c *Context) Vector(k ScalarKind, n uint8) *Type {
	key := vectorKey{k, n}

	if t, ok := c.vectors[key]; ok {
		return t
	}

	t := &Type{kind: Vector, scalar: k, vectorSize: n}
	c.vectors[key] = t

	return t
}

// Matrix returns the interned matrix type of element kind k with the given
// row and column counts. GLSL matrices are always float or double.
func (c *Context) Matrix(k ScalarKind, rows, cols uint8) *Type {
	key := matrixKey{k, rows, cols}

	if t, ok := c.matrices[key]; ok {
		return t
	}

	t := &Type{kind: Matrix, scalar: k, matrixRows: rows, matrixCols: cols}
	c.matrices[key] = t

	return t
}

// Sampler returns the interned sampler type for the given dimensionality.
func (c *Context) Sampler(dim SamplerDim) *Type {
	if t, ok := c.samplers[dim]; ok {
		return t
	}

	t := &Type{kind: Sampler, samplerDim: dim}
	c.samplers[dim] = t

	return t
}

// Array returns the interned array type of element and the given outer-to-
// inner dimension sizes. Per the array-folding rule (spec section 4.9),
// building an array of an array folds into a single multi-dimensional array
// rather than nesting: Array(Array(T,[a,b]),[c,d]) == Array(T,[a,b,c,d]).
func (c *Context) Array(element *Type, dimSizes []uint32) *Type {
	if element.kind == Array {
		folded := make([]uint32, 0, len(element.dimSizes)+len(dimSizes))
		folded = append(folded, element.dimSizes...)
		folded = append(folded, dimSizes...)

		return c.Array(element.element, folded)
	}

	key := arrayKey{element: element, dims: fmt.Sprint(dimSizes)}

	if t, ok := c.arrays[key]; ok {
		return t
	}

	t := &Type{kind: Array, element: element, dimSizes: append([]uint32(nil), dimSizes...)}
	c.arrays[key] = t

	return t
}

// Struct returns the Type for the struct or interface-block declared by
// declaringNode, constructing it on first request and returning the same
// *Type thereafter. Two struct declarations are distinct types even with
// identical member lists, so the cache key is the declaring node, not the
// member list.
func (c *Context) Struct(declaringNode uint32, name string, members []StructMember) *Type {
	if t, ok := c.structs[declaringNode]; ok {
		return t
	}

	t := &Type{
		kind:          Struct,
		structName:    name,
		members:       append([]StructMember(nil), members...),
		declaringNode: declaringNode,
	}
	t.containsOpaque = computeContainsOpaque(t)
	c.structs[declaringNode] = t

	return t
}

func computeContainsOpaque(t *Type) bool {
	for _, m := range t.members {
		if m.Type.ContainsOpaqueType() {
			return true
		}
	}

	return false
}
