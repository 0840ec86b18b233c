package cppast

import "strings"

// Type is the recursive type-expression value produced by the parser.
// All variants are small value types so parse results compare with
// reflect.DeepEqual in tests.
type Type interface {
	isType()
	String() string
}

// Auto is the `auto` placeholder type.
type Auto struct{}

// Path is a scoped identifier such as `std::function`. A Path with zero
// segments is a valid value; it shows up inside function-pointer declarators
// where the name slot is empty.
type Path struct {
	Segments []string
}

// Generic is a template instantiation such as `TArray<int32>`.
type Generic struct {
	Base Type
	Args []Type
}

// Function is a function type: the argument list of `std::function<R(Args)>`
// or a raw function-pointer declarator.
type Function struct {
	Result Type
	Params []Type
}

// Pointer wraps the pointee of a `*` declarator.
type Pointer struct {
	Elem Type
}

// Reference wraps the referee of a `&` declarator.
type Reference struct {
	Elem Type
}

// MemberAccess is a trailing scoped member such as `T::value` after a
// generic, e.g. `std::is_integral<T>::value`.
type MemberAccess struct {
	Base   Type
	Member string
}

// Const marks a type spelled with `const`, whether the keyword appeared
// before or after the base type. It is applied at most once.
type Const struct {
	Elem Type
}

func (Auto) isType()         {}
func (Path) isType()         {}
func (Generic) isType()      {}
func (Function) isType()     {}
func (Pointer) isType()      {}
func (Reference) isType()    {}
func (MemberAccess) isType() {}
func (Const) isType()        {}

// NewPath builds a Path from its segments.
func NewPath(segments ...string) Path {
	return Path{Segments: segments}
}

func (Auto) String() string { return "auto" }

func (t Path) String() string { return strings.Join(t.Segments, "::") }

func (t Generic) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Base.String() + "<" + strings.Join(args, ", ") + ">"
}

func (t Function) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	ret := ""
	if t.Result != nil {
		ret = t.Result.String()
	}
	return ret + "(" + strings.Join(params, ", ") + ")"
}

func (t Pointer) String() string   { return t.Elem.String() + "*" }
func (t Reference) String() string { return t.Elem.String() + "&" }

func (t MemberAccess) String() string { return t.Base.String() + "::" + t.Member }

func (t Const) String() string { return "const " + t.Elem.String() }

// IsVoid reports whether t is the bare `void` path. The parsers normalize
// void returns to a nil Type, so this mostly matters for parameters.
func IsVoid(t Type) bool {
	p, ok := t.(Path)
	return ok && len(p.Segments) == 1 && p.Segments[0] == "void"
}
