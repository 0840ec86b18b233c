package cppparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/pkg/cppast"
)

func parseType(t *testing.T, src string) cppast.Type {
	t.Helper()
	typ, next, err := New(src, Plain()).typeExpr(0)
	require.Nil(t, err, "type %q should parse", src)
	require.Equal(t, len(src), next, "type %q should be fully consumed", src)
	return typ
}

func TestTypeExpr_SimplePath(t *testing.T) {
	assert.Equal(t, cppast.NewPath("String"), parseType(t, "String"))
	assert.Equal(t, cppast.NewPath("std", "string"), parseType(t, "std::string"))
	assert.Equal(t, cppast.NewPath("a", "b", "c"), parseType(t, "a::b::c"))
}

func TestTypeExpr_Auto(t *testing.T) {
	assert.Equal(t, cppast.Auto{}, parseType(t, "auto"))
}

func TestTypeExpr_PointerAssociativity(t *testing.T) {
	base := cppast.NewPath("T")
	assert.Equal(t, cppast.Pointer{Elem: cppast.Pointer{Elem: base}}, parseType(t, "T**"))
	assert.Equal(t, cppast.Reference{Elem: cppast.Reference{Elem: base}}, parseType(t, "T&&"))
	assert.Equal(t, cppast.Reference{Elem: cppast.Pointer{Elem: base}}, parseType(t, "T*&"))
}

func TestTypeExpr_ConstPlacementInvariance(t *testing.T) {
	want := cppast.Reference{Elem: cppast.Const{Elem: cppast.NewPath("int")}}
	assert.Equal(t, want, parseType(t, "const int&"))
	assert.Equal(t, want, parseType(t, "int const&"))
}

func TestTypeExpr_ConstAppliedOnce(t *testing.T) {
	assert.Equal(t, cppast.Const{Elem: cppast.NewPath("int")}, parseType(t, "const int const"))
}

func TestTypeExpr_Generic(t *testing.T) {
	assert.Equal(t,
		cppast.Generic{Base: cppast.NewPath("TArray"), Args: []cppast.Type{cppast.NewPath("int32")}},
		parseType(t, "TArray<int32>"))

	assert.Equal(t,
		cppast.Generic{
			Base: cppast.NewPath("Map"),
			Args: []cppast.Type{cppast.NewPath("K"), cppast.NewPath("V")},
		},
		parseType(t, "Map<K, V>"))
}

func TestTypeExpr_NestedGeneric(t *testing.T) {
	assert.Equal(t,
		cppast.Generic{
			Base: cppast.NewPath("String"),
			Args: []cppast.Type{cppast.Generic{
				Base: cppast.NewPath("Array"),
				Args: []cppast.Type{cppast.NewPath("Some")},
			}},
		},
		parseType(t, "String<Array<Some>>"))
}

func TestTypeExpr_GenericWithReference(t *testing.T) {
	assert.Equal(t,
		cppast.Reference{Elem: cppast.Generic{
			Base: cppast.NewPath("Array"),
			Args: []cppast.Type{cppast.Reference{Elem: cppast.NewPath("String")}},
		}},
		parseType(t, "Array<String&>&"))
}

func TestTypeExpr_FunctionType(t *testing.T) {
	assert.Equal(t,
		cppast.Generic{
			Base: cppast.NewPath("std", "function"),
			Args: []cppast.Type{cppast.Function{
				Result: cppast.NewPath("int"),
				Params: []cppast.Type{cppast.NewPath("int"), cppast.NewPath("int")},
			}},
		},
		parseType(t, "std::function<int(int,int)>"))
}

func TestTypeExpr_FunctionPointerDeclarator(t *testing.T) {
	// The name slot in `(*)` is empty: the inner type is a pointer to the
	// empty path.
	assert.Equal(t,
		cppast.Function{
			Result: cppast.Function{
				Result: cppast.NewPath("int"),
				Params: []cppast.Type{cppast.Pointer{Elem: cppast.Path{}}},
			},
			Params: []cppast.Type{cppast.NewPath("char")},
		},
		parseType(t, "int(*)(char)"))
}

func TestTypeExpr_MemberAccess(t *testing.T) {
	assert.Equal(t,
		cppast.MemberAccess{
			Base: cppast.Generic{
				Base: cppast.NewPath("std", "is_integral"),
				Args: []cppast.Type{cppast.NewPath("T")},
			},
			Member: "value",
		},
		parseType(t, "std::is_integral<T>::value"))
}

func TestTypeExpr_ElaboratedSegments(t *testing.T) {
	assert.Equal(t, cppast.NewPath("Foo"), parseType(t, "class Foo"))
	assert.Equal(t, cppast.NewPath("T", "type"), parseType(t, "typename T::type"))
}

func TestTypeExpr_FailsOnNothing(t *testing.T) {
	_, _, err := New(";", Plain()).typeExpr(0)
	require.NotNil(t, err)
	assert.Equal(t, 0, err.Offset)
}

func TestTypeExpr_StopsBeforeName(t *testing.T) {
	typ, next, err := New("int value;", Plain()).typeExpr(0)
	require.Nil(t, err)
	assert.Equal(t, cppast.NewPath("int"), typ)
	assert.Equal(t, len("int"), next)
}

func TestTypeExpr_String(t *testing.T) {
	cases := []string{
		"std::function<int(int, int)>",
		"const int&",
		"TArray<int32>*",
		"std::is_integral<T>::value",
		"auto",
	}
	for _, src := range cases {
		typ, _, err := New(src, Plain()).typeExpr(0)
		require.Nil(t, err, src)
		assert.Equal(t, src, typ.String())
	}
}
