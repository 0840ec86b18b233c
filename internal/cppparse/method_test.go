package cppparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/pkg/cppast"
)

func parseMethod(t *testing.T, src string) cppast.Method {
	t.Helper()
	m, _, err := New(src, Plain()).method(0)
	require.Nil(t, err, "method %q should parse", src)
	return m
}

func TestMethod_Basic(t *testing.T) {
	m := parseMethod(t, "int Size()")
	assert.Equal(t, "Size", m.Name)
	assert.Equal(t, cppast.NewPath("int"), m.Return)
	assert.Empty(t, m.Params)
}

func TestMethod_VoidReturnNormalizes(t *testing.T) {
	m := parseMethod(t, "void Reset()")
	assert.Equal(t, "Reset", m.Name)
	assert.Nil(t, m.Return)
}

func TestMethod_Parameters(t *testing.T) {
	m := parseMethod(t, "int Add(int a, int b = 0)")
	require.Len(t, m.Params, 2)
	assert.Equal(t, cppast.Parameter{Name: "a", Type: cppast.NewPath("int")}, m.Params[0])
	assert.Equal(t, cppast.Parameter{
		Name:    "b",
		Type:    cppast.NewPath("int"),
		Default: cppast.NewPath("0"),
	}, m.Params[1])
}

func TestMethod_UnnamedParameter(t *testing.T) {
	m := parseMethod(t, "void Handle(const Event&)")
	require.Len(t, m.Params, 1)
	assert.Equal(t, "", m.Params[0].Name)
	assert.Equal(t,
		cppast.Reference{Elem: cppast.Const{Elem: cppast.NewPath("Event")}},
		m.Params[0].Type)
}

func TestMethod_Constructor(t *testing.T) {
	m := parseMethod(t, "explicit Widget(int size)")
	assert.Equal(t, "Widget", m.Name)
	assert.Nil(t, m.Return)
	assert.Equal(t, []cppast.StorageQualifier{cppast.QualExplicit}, m.Storage)
	require.Len(t, m.Params, 1)
}

func TestMethod_Destructor(t *testing.T) {
	m := parseMethod(t, "virtual ~Widget()")
	assert.Equal(t, "~Widget", m.Name)
	assert.Nil(t, m.Return)
	assert.True(t, m.IsVirtual())
}

func TestMethod_ConstQualifier(t *testing.T) {
	m := parseMethod(t, "const std::string& name() const")
	assert.Equal(t, "name", m.Name)
	assert.True(t, m.IsConst())
	assert.Equal(t,
		cppast.Reference{Elem: cppast.Const{Elem: cppast.NewPath("std", "string")}},
		m.Return)
}

func TestMethod_PostQualifiers(t *testing.T) {
	m := parseMethod(t, "void Tick(float dt) noexcept override")
	assert.Equal(t,
		[]cppast.PostQualifier{cppast.PostNoexcept, cppast.PostOverride},
		m.PostQualifiers)

	m = parseMethod(t, "void Swap(T& other) noexcept(true)")
	assert.Equal(t, []cppast.PostQualifier{cppast.PostNoexcept}, m.PostQualifiers)
}

func TestMethod_SpecialMembers(t *testing.T) {
	m := parseMethod(t, "virtual void Tick() = 0")
	assert.Equal(t, cppast.SpecialPureVirtual, m.Special)

	m = parseMethod(t, "Widget() = default")
	assert.Equal(t, cppast.SpecialDefaulted, m.Special)

	m = parseMethod(t, "Widget(const Widget&) = delete")
	assert.Equal(t, cppast.SpecialDeleted, m.Special)
}

func TestMethod_OperatorOverloads(t *testing.T) {
	cases := map[string]string{
		"bool operator==(const Foo& rhs) const": "operator==",
		"Foo& operator=(const Foo& rhs)":        "operator=",
		"int operator()(int x)":                 "operator()",
		"T& operator[](size_t i)":               "operator[]",
		"Foo& operator<<(int v)":                "operator<<",
		"bool operator<(const Foo& rhs) const":  "operator<",
		"Foo& operator++()":                     "operator++",
		"void* operator new(size_t n)":          "operator new",
		"void operator delete[](void* p)":       "operator delete[]",
	}
	for src, want := range cases {
		m := parseMethod(t, src)
		assert.Equal(t, want, m.Name, src)
	}
}

func TestMethod_TrailingReturn(t *testing.T) {
	m := parseMethod(t, "auto size() const -> size_t")
	assert.Equal(t, "size", m.Name)
	assert.Equal(t, cppast.NewPath("size_t"), m.Return)
	assert.True(t, m.IsConst())
}

func TestMethod_Template(t *testing.T) {
	m := parseMethod(t, "template<typename T> T Max(T a, T b)")
	require.Len(t, m.TemplateParams, 1)
	assert.Equal(t, cppast.TemplateParam{Keyword: "typename", Name: "T"}, m.TemplateParams[0])
	assert.Equal(t, cppast.NewPath("T"), m.Return)
}

func TestMethod_TemplateUnnamedDefault(t *testing.T) {
	m := parseMethod(t, "template<typename Integer, typename = void> void Set(Integer v)")
	require.Len(t, m.TemplateParams, 2)
	assert.Equal(t, "Integer", m.TemplateParams[0].Name)
	assert.Equal(t, "", m.TemplateParams[1].Name)
	assert.Equal(t, cppast.NewPath("void"), m.TemplateParams[1].Default)
}

func TestMethod_InlineBody(t *testing.T) {
	src := "int Get() const { return value_; } int next"
	m, next, err := New(src, Plain()).method(0)
	require.Nil(t, err)
	assert.Equal(t, "Get", m.Name)
	assert.Equal(t, " int next", src[next:])
}

func TestMethod_ConstructorInitializerList(t *testing.T) {
	m := parseMethod(t, "Point(int x, int y) : x_(x), y_{y} {}")
	assert.Equal(t, "Point", m.Name)
	require.Len(t, m.Params, 2)
}

func TestMethod_Comment(t *testing.T) {
	m := parseMethod(t, "/// Advances the simulation.\nvoid Step()")
	assert.Equal(t, "Advances the simulation.", m.Comment)
	assert.Equal(t, "Step", m.Name)
}

func TestMethod_FunctionPointerParam(t *testing.T) {
	m := parseMethod(t, "void OnEvent(void (*cb)(int))")
	require.Len(t, m.Params, 1)
	assert.Equal(t,
		cppast.Function{
			Result: cppast.Function{
				Result: cppast.NewPath("void"),
				Params: []cppast.Type{cppast.Pointer{Elem: cppast.Path{}}},
			},
			Params: []cppast.Type{cppast.NewPath("int")},
		},
		m.Params[0].Type)
}
