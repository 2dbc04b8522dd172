package types

import "testing"

func TestVectorType_InterningIdentity(t *testing.T) {
	ctx := NewContext()

	a := ctx.Vector(Float, 3)
	b := ctx.Vector(Float, 3)

	if a != b {
		t.Fatal("Vector(Float, 3) should return the same pointer on repeated calls")
	}

	c := ctx.Vector(Float, 4)
	if a == c {
		t.Fatal("Vector(Float, 3) and Vector(Float, 4) must be distinct types")
	}
}

func TestArrayType_FoldingIdempotence(t *testing.T) {
	ctx := NewContext()

	base := ctx.Scalar(Int32)
	nested := ctx.Array(ctx.Array(base, []uint32{2, 3}), []uint32{4, 5})
	flat := ctx.Array(base, []uint32{2, 3, 4, 5})

	if nested != flat {
		t.Fatalf("GetArrayType(GetArrayType(T,[2,3]),[4,5]) should equal GetArrayType(T,[2,3,4,5]): got %v vs %v", nested.DimSizes(), flat.DimSizes())
	}
}

func TestArrayType_ElementNeverItselfAnArray(t *testing.T) {
	ctx := NewContext()

	base := ctx.Scalar(Float)
	nested := ctx.Array(ctx.Array(base, []uint32{2}), []uint32{3})

	if nested.ElementType().Kind() == Array {
		t.Fatal("array folding invariant violated: element type is itself an array")
	}
}

func TestStructType_DistinctPerDeclaringNode(t *testing.T) {
	ctx := NewContext()

	a := ctx.Struct(1, "Point", nil)
	b := ctx.Struct(2, "Point", nil)

	if a == b {
		t.Fatal("two struct declarations with the same name must be distinct types")
	}

	if ctx.Struct(1, "Point", nil) != a {
		t.Fatal("Struct(1, ...) should be cached per declaring node")
	}
}

func TestScalarKind_ConversionLattice(t *testing.T) {
	cases := []struct {
		from, to ScalarKind
		want     bool
	}{
		{Bool, Int32, true},
		{Int32, Uint32, true},
		{Uint32, Float, true},
		{Float, Double, true},
		{Double, Float, false},
		{Float, Bool, false},
	}

	for _, c := range cases {
		if got := c.from.ConvertibleTo(c.to); got != c.want {
			t.Errorf("%v.ConvertibleTo(%v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestMatrixType_Interning(t *testing.T) {
	ctx := NewContext()

	a := ctx.Matrix(Float, 4, 4)
	b := ctx.Matrix(Float, 4, 4)

	if a != b {
		t.Fatal("Matrix(Float, 4, 4) should be interned")
	}
}
