package typecheck

import "github.com/shaderlang/glslfrontend/pkg/types"

// builtinType maps a builtin type keyword's spelling (token.BuiltinTypeNames'
// key set) to the Type it denotes, interning through ctx. Returns ok=false
// for any other identifier, which the caller then looks up as a struct or
// interface-block name instead.
func builtinType(ctx *types.Context, name string) (*types.Type, bool) {
	switch name {
	case "void":
		return ctx.Void(), true
	case "bool":
		return ctx.Scalar(types.Bool), true
	case "int":
		return ctx.Scalar(types.Int32), true
	case "uint":
		return ctx.Scalar(types.Uint32), true
	case "float":
		return ctx.Scalar(types.Float), true
	case "double":
		return ctx.Scalar(types.Double), true
	}

	if t, ok := builtinVector(ctx, name); ok {
		return t, true
	}

	if t, ok := builtinMatrix(ctx, name); ok {
		return t, true
	}

	if t, ok := builtinSampler(ctx, name); ok {
		return t, true
	}

	return nil, false
}

func builtinVector(ctx *types.Context, name string) (*types.Type, bool) {
	kinds := map[string]types.ScalarKind{"vec": types.Float, "ivec": types.Int32, "uvec": types.Uint32, "bvec": types.Bool, "dvec": types.Double}

	for prefix, k := range kinds {
		if len(name) == len(prefix)+1 && name[:len(prefix)] == prefix {
			switch name[len(prefix):] {
			case "2":
				return ctx.Vector(k, 2), true
			case "3":
				return ctx.Vector(k, 3), true
			case "4":
				return ctx.Vector(k, 4), true
			}
		}
	}

	return nil, false
}

func builtinMatrix(ctx *types.Context, name string) (*types.Type, bool) {
	if len(name) < 4 || name[:3] != "mat" {
		return nil, false
	}

	rest := name[3:]

	dims := map[string][2]uint8{
		"2": {2, 2}, "3": {3, 3}, "4": {4, 4},
		"2x2": {2, 2}, "2x3": {3, 2}, "2x4": {4, 2},
		"3x2": {2, 3}, "3x3": {3, 3}, "3x4": {4, 3},
		"4x2": {2, 4}, "4x3": {3, 4}, "4x4": {4, 4},
	}

	if rc, ok := dims[rest]; ok {
		return ctx.Matrix(types.Float, rc[0], rc[1]), true
	}

	return nil, false
}

func builtinSampler(ctx *types.Context, name string) (*types.Type, bool) {
	dims := map[string]types.SamplerDim{
		"sampler2D":            types.Sampler2D,
		"sampler3D":            types.Sampler3D,
		"samplerCube":          types.SamplerCube,
		"sampler2DArray":       types.Sampler2DArray,
		"samplerCubeArray":     types.SamplerCubeArray,
		"sampler2DShadow":      types.Sampler2DShadow,
		"sampler2DArrayShadow": types.Sampler2DArrayShadow,
		"samplerCubeShadow":    types.SamplerCubeShadow,
	}

	if d, ok := dims[name]; ok {
		return ctx.Sampler(d), true
	}

	return nil, false
}

// swizzleIndex maps a single selector character to its component index
// (0..3), and reports which of the three selector sets {xyzw,rgba,stpq} it
// belongs to, since GLSL forbids mixing sets within one swizzle.
func swizzleIndex(ch byte) (index uint8, set int, ok bool) {
	switch ch {
	case 'x':
		return 0, 0, true
	case 'y':
		return 1, 0, true
	case 'z':
		return 2, 0, true
	case 'w':
		return 3, 0, true
	case 'r':
		return 0, 1, true
	case 'g':
		return 1, 1, true
	case 'b':
		return 2, 1, true
	case 'a':
		return 3, 1, true
	case 's':
		return 0, 2, true
	case 't':
		return 1, 2, true
	case 'p':
		return 2, 2, true
	case 'q':
		return 3, 2, true
	default:
		return 0, 0, false
	}
}
