package cppast

// Access is the C++ visibility of a member, method, nested class, or
// inheritance entry.
type Access string

const (
	AccessPrivate   Access = "private"
	AccessProtected Access = "protected"
	AccessPublic    Access = "public"
	// AccessVirtual only appears on inheritance entries.
	AccessVirtual Access = "virtual"
	// AccessNone marks an inheritance entry with no explicit keyword.
	AccessNone Access = ""
)

// AccessLevels lists the class-body access levels in a stable order, for
// callers that need deterministic iteration over the per-access maps.
var AccessLevels = []Access{AccessPublic, AccessProtected, AccessPrivate}

// AccessFromKeyword maps an access keyword to its Access value. Unknown
// keywords map to AccessNone.
func AccessFromKeyword(kw string) Access {
	switch kw {
	case "private":
		return AccessPrivate
	case "protected":
		return AccessProtected
	case "public":
		return AccessPublic
	case "virtual":
		return AccessVirtual
	default:
		return AccessNone
	}
}

// StorageQualifier is a qualifier preceding a declaration.
type StorageQualifier string

const (
	QualInline    StorageQualifier = "inline"
	QualConstexpr StorageQualifier = "constexpr"
	QualExplicit  StorageQualifier = "explicit"
	QualFriend    StorageQualifier = "friend"
	QualStatic    StorageQualifier = "static"
	QualVirtual   StorageQualifier = "virtual"
	QualConst     StorageQualifier = "const"
)

// PostQualifier is a qualifier following a method's parameter list.
type PostQualifier string

const (
	PostConst    PostQualifier = "const"
	PostNoexcept PostQualifier = "noexcept"
	PostOverride PostQualifier = "override"
	PostFinal    PostQualifier = "final"
)

// SpecialMember marks methods declared `= 0`, `= default`, or `= delete`.
// It is mutually exclusive with an inline body.
type SpecialMember string

const (
	SpecialNone        SpecialMember = ""
	SpecialPureVirtual SpecialMember = "pure_virtual"
	SpecialDefaulted   SpecialMember = "default"
	SpecialDeleted     SpecialMember = "delete"
)

// Parameter is one entry of a method's parameter list.
type Parameter struct {
	Name    string // empty when the parameter is unnamed
	Type    Type
	Default Type // nil when absent
}

// TemplateParam is one entry of a `template<...>` header.
type TemplateParam struct {
	Keyword string // "typename" or "class"
	Name    string // may be empty, e.g. `typename = std::enable_if_t<...>`
	Default Type   // nil when absent
}

// Method is one function or method signature. Destructors carry the `~` in
// their name and operator overloads are named `operator<token>`. A nil
// Return means "no return type": void, a constructor, or a destructor.
type Method struct {
	Name           string
	Return         Type
	TemplateParams []TemplateParam
	Params         []Parameter
	Storage        []StorageQualifier
	PostQualifiers []PostQualifier
	Special        SpecialMember
	Comment        string
	Annotation     string
}

// IsStatic reports whether the method carries the static qualifier.
func (m *Method) IsStatic() bool { return m.hasStorage(QualStatic) }

// IsVirtual reports whether the method carries the virtual qualifier.
func (m *Method) IsVirtual() bool { return m.hasStorage(QualVirtual) }

func (m *Method) hasStorage(q StorageQualifier) bool {
	for _, s := range m.Storage {
		if s == q {
			return true
		}
	}
	return false
}

// IsConst reports whether the method has a trailing const qualifier.
func (m *Method) IsConst() bool {
	for _, q := range m.PostQualifiers {
		if q == PostConst {
			return true
		}
	}
	return false
}

// Member is one data-member or free-variable declaration.
type Member struct {
	Name       string
	Type       Type
	Default    Type // nil when absent
	Modifiers  []StorageQualifier
	Comment    string
	Annotation string
}

// Parent is one entry of a class's inheritance list.
type Parent struct {
	Type   Type
	Access Access
}

// EnumVariant is one enumerator, with an optional explicit value.
type EnumVariant struct {
	Name  string
	Value *int64
}

// Enum is a plain or scoped enum declaration.
type Enum struct {
	Name       string // empty for anonymous enums
	Scoped     bool   // enum class / enum struct
	Underlying Type   // nil when no `: type` was given
	Variants   []EnumVariant
}

// Class is one class or struct with its body partitioned by access level.
// The running access level starts at Private and changes only on an explicit
// specifier; struct bodies deliberately share that default. A forward
// declaration (`class X;`) has all collections empty.
type Class struct {
	Name       string
	API        string // export/API token between the keyword and the name
	Parents    []Parent
	Methods    map[Access][]Method
	Members    map[Access][]Member
	Nested     map[Access][]Class
	Enums      map[Access][]Enum
	Annotation string
}

// NewClass returns a Class with empty, non-nil collections.
func NewClass(name string) Class {
	return Class{
		Name:    name,
		Methods: map[Access][]Method{},
		Members: map[Access][]Member{},
		Nested:  map[Access][]Class{},
		Enums:   map[Access][]Enum{},
	}
}

// MethodCount returns the total number of methods across access levels.
func (c *Class) MethodCount() int {
	n := 0
	for _, ms := range c.Methods {
		n += len(ms)
	}
	return n
}

// MemberCount returns the total number of members across access levels.
func (c *Class) MemberCount() int {
	n := 0
	for _, ms := range c.Members {
		n += len(ms)
	}
	return n
}

// Namespace is a namespace block with its items in source order.
type Namespace struct {
	Name       string
	Namespaces []Namespace
	Classes    []Class
	Functions  []Method
	Variables  []Member
	Enums      []Enum
	Comments   []string
}

// Include is one `#include` with its quoting form preserved.
type Include struct {
	Path   string
	Angled bool // <...> rather than "..."
}

// Alias is one `using Name = Type;` declaration.
type Alias struct {
	Name           string
	TemplateParams []TemplateParam
	Type           Type
}

// Header is the root aggregate for one parsed header file.
type Header struct {
	Includes   []Include
	Defines    []string // `#define` lines, raw text after the directive
	Directives []string // other preprocessor lines, raw text after `#`
	Aliases    []Alias
	Functions  []Method
	Variables  []Member
	Classes    []Class
	Namespaces []Namespace
	Enums      []Enum
	Comments   []string
}

// AllClasses returns every class in the header, including those nested in
// namespaces, in source order. Classes nested inside other classes are not
// flattened.
func (h *Header) AllClasses() []Class {
	out := append([]Class(nil), h.Classes...)
	var walk func(ns Namespace)
	walk = func(ns Namespace) {
		out = append(out, ns.Classes...)
		for _, sub := range ns.Namespaces {
			walk(sub)
		}
	}
	for _, ns := range h.Namespaces {
		walk(ns)
	}
	return out
}
