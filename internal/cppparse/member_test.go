package cppparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/pkg/cppast"
)

func parseMember(t *testing.T, src string) cppast.Member {
	t.Helper()
	m, _, err := New(src, Plain()).member(0)
	require.Nil(t, err, "member %q should parse", src)
	return m
}

func TestMember_Basic(t *testing.T) {
	m := parseMember(t, "int count")
	assert.Equal(t, "count", m.Name)
	assert.Equal(t, cppast.NewPath("int"), m.Type)
	assert.Nil(t, m.Default)
}

func TestMember_Modifiers(t *testing.T) {
	m := parseMember(t, "static const int kMax = 10")
	assert.Equal(t, "kMax", m.Name)
	assert.Equal(t, []cppast.StorageQualifier{cppast.QualStatic, cppast.QualConst}, m.Modifiers)
	assert.Equal(t, cppast.NewPath("10"), m.Default)
}

func TestMember_EqualsDefault(t *testing.T) {
	m := parseMember(t, "float speed = 0")
	assert.Equal(t, cppast.NewPath("0"), m.Default)

	m = parseMember(t, "int offset = -5")
	assert.Equal(t, cppast.NewPath("-5"), m.Default)
}

func TestMember_BraceDefault(t *testing.T) {
	m := parseMember(t, "int size_{0}")
	assert.Equal(t, "size_", m.Name)
	assert.Equal(t, cppast.NewPath("0"), m.Default)
}

func TestMember_ComplexType(t *testing.T) {
	m := parseMember(t, "std::vector<std::string>* names")
	assert.Equal(t, "names", m.Name)
	assert.Equal(t,
		cppast.Pointer{Elem: cppast.Generic{
			Base: cppast.NewPath("std", "vector"),
			Args: []cppast.Type{cppast.NewPath("std", "string")},
		}},
		m.Type)
}

func TestMember_Comment(t *testing.T) {
	m := parseMember(t, "// number of retries\nint retries")
	assert.Equal(t, "number of retries", m.Comment)
	assert.Equal(t, "retries", m.Name)
}

func TestMember_LeavesSemicolon(t *testing.T) {
	src := "int x;"
	_, next, err := New(src, Plain()).member(0)
	require.Nil(t, err)
	assert.Equal(t, ";", src[next:])
}

func TestMember_NoType(t *testing.T) {
	_, _, err := New(";", Plain()).member(0)
	require.NotNil(t, err)
}

func TestMember_FunctionPointer(t *testing.T) {
	src := "void (*cb)(int);"
	m, next, err := New(src, Plain()).member(0)
	require.Nil(t, err)
	assert.Equal(t, "cb", m.Name)
	// The type keeps the unnamed declarator shape.
	assert.Equal(t, "void(*)(int)", m.Type.String())
	assert.Equal(t, ";", src[next:])
}

func TestMember_FunctionReference(t *testing.T) {
	m := parseMember(t, "void (&handler)(int)")
	assert.Equal(t, "handler", m.Name)
	assert.Equal(t, "void(&)(int)", m.Type.String())
}

func TestMember_FunctionPointerNestedDeclarator(t *testing.T) {
	// The outer declarator's name wins over the nested parameter's.
	m := parseMember(t, "void (*cb)(void (*inner)(int))")
	assert.Equal(t, "cb", m.Name)
}
