package cppparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdrscan/pkg/cppast"
)

const simpleHeader = `#pragma once

#include <string>
#include "util/strings.h"

#define WIDGET_VERSION 2

// A resizable widget.
class Widget {
public:
    Widget();
    ~Widget();

    // Returns the current size.
    int Size() const;
    void Resize(int size);

private:
    int size_ = 0;
    std::string name_;
};
`

func TestHeader_Simple(t *testing.T) {
	h, err := ParseHeader(simpleHeader, Plain())
	require.NoError(t, err)

	assert.Equal(t, []string{"pragma once"}, h.Directives)
	require.Len(t, h.Includes, 2)
	assert.Equal(t, cppast.Include{Path: "string", Angled: true}, h.Includes[0])
	assert.Equal(t, cppast.Include{Path: "util/strings.h"}, h.Includes[1])
	assert.Equal(t, []string{"WIDGET_VERSION 2"}, h.Defines)

	require.Len(t, h.Classes, 1)
	c := h.Classes[0]
	assert.Equal(t, "Widget", c.Name)

	pub := c.Methods[cppast.AccessPublic]
	require.Len(t, pub, 4)
	assert.Equal(t, "Widget", pub[0].Name)
	assert.Equal(t, "~Widget", pub[1].Name)
	assert.Equal(t, "Size", pub[2].Name)
	assert.Equal(t, "Returns the current size.", pub[2].Comment)
	assert.True(t, pub[2].IsConst())
	assert.Equal(t, "Resize", pub[3].Name)

	priv := c.Members[cppast.AccessPrivate]
	require.Len(t, priv, 2)
	assert.Equal(t, "size_", priv[0].Name)
	assert.Equal(t, cppast.NewPath("0"), priv[0].Default)
	assert.Equal(t, cppast.NewPath("std", "string"), priv[1].Type)
}

func TestHeader_NamespaceAndTrailingComment(t *testing.T) {
	h, err := ParseHeader(`namespace demo {

class Widget {};

} // namespace demo
`, Plain())
	require.NoError(t, err)

	require.Len(t, h.Namespaces, 1)
	assert.Len(t, h.Namespaces[0].Classes, 1)
	assert.Equal(t, []string{"namespace demo"}, h.Comments)
}

func TestHeader_FreeFunctionsAndVariables(t *testing.T) {
	h, err := ParseHeader(`int Clamp(int v, int lo, int hi);
const char* kName = nullptr;
`, Plain())
	require.NoError(t, err)
	require.Len(t, h.Functions, 1)
	assert.Equal(t, "Clamp", h.Functions[0].Name)
	assert.Len(t, h.Functions[0].Params, 3)
	require.Len(t, h.Variables, 1)
	assert.Equal(t, "kName", h.Variables[0].Name)
}

func TestHeader_Alias(t *testing.T) {
	h, err := ParseHeader(`using Buffer = std::vector<char>;
template<typename T> using Ptr = std::shared_ptr<T>;
`, Plain())
	require.NoError(t, err)

	require.Len(t, h.Aliases, 2)
	assert.Equal(t, "Buffer", h.Aliases[0].Name)
	assert.Equal(t,
		cppast.Generic{Base: cppast.NewPath("std", "vector"), Args: []cppast.Type{cppast.NewPath("char")}},
		h.Aliases[0].Type)
	assert.Equal(t, "Ptr", h.Aliases[1].Name)
	require.Len(t, h.Aliases[1].TemplateParams, 1)
	assert.Equal(t, "T", h.Aliases[1].TemplateParams[0].Name)
}

func TestHeader_ByteOrderMark(t *testing.T) {
	h, err := ParseHeader("\uFEFF#pragma once\n", Plain())
	require.NoError(t, err)
	assert.Equal(t, []string{"pragma once"}, h.Directives)
}

func TestHeader_Enum(t *testing.T) {
	h, err := ParseHeader("enum class Mode { On, Off };\n", Plain())
	require.NoError(t, err)
	require.Len(t, h.Enums, 1)
	assert.True(t, h.Enums[0].Scoped)
}

func TestHeader_ErrorCarriesDeclarationPath(t *testing.T) {
	_, err := ParseHeader(`class Outer {
	public:
		class Inner {
			int
		};
	};`, Plain())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Outer::Inner")
}

func TestHeader_AllClasses(t *testing.T) {
	h, err := ParseHeader(`class Top {};
namespace a {
	class A {};
	namespace b {
		class B {};
	}
}
`, Plain())
	require.NoError(t, err)

	var names []string
	for _, c := range h.AllClasses() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Top", "A", "B"}, names)
}

func TestHeader_Empty(t *testing.T) {
	h, err := ParseHeader("", Plain())
	require.NoError(t, err)
	assert.Empty(t, h.Classes)

	h, err = ParseHeader("\n\n  \n", Plain())
	require.NoError(t, err)
	assert.Empty(t, h.Classes)
}
