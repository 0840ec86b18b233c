package cppparse

import "hdrscan/pkg/cppast"

var storageQualifiers = []cppast.StorageQualifier{
	cppast.QualInline,
	cppast.QualConstexpr,
	cppast.QualExplicit,
	cppast.QualFriend,
	cppast.QualStatic,
	cppast.QualVirtual,
}

var postQualifiers = []cppast.PostQualifier{
	cppast.PostConst,
	cppast.PostNoexcept,
	cppast.PostOverride,
	cppast.PostFinal,
}

// operatorTokens is the overloadable-operator catalogue, longest first so
// compound tokens win over their prefixes.
var operatorTokens = []string{
	"<<=", ">>=",
	"()", "[]", "->",
	"<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"++", "--", "&&", "||",
	"+", "-", "*", "/", "%",
	"&", "|", "^", "~", "!",
	"<", ">", "=", ",",
}

// method parses one function or method signature.
//
// C++ signatures are not left-to-right: the return type, name, and
// qualifiers interleave across two declarator styles. The classic style
// (type then name) is tried by lookahead first; when that fails the next
// token alone is the name, which covers constructors, destructors, and
// operator overloads.
func (p *Parser) method(pos int) (cppast.Method, int, *ParseError) {
	var m cppast.Method

	if text, next, err := p.comment(pos); err == nil {
		m.Comment = text
		pos = next
	}
	m.Annotation, pos = p.annotations(pos, p.dialect.MethodAnnotation)

	m.Storage, pos = p.storage(pos, m.Storage)
	if params, next, ok := p.templateHeader(pos); ok {
		m.TemplateParams = params
		pos = next
	}
	m.Storage, pos = p.storage(pos, m.Storage)

	// Declarator disambiguation.
	var classic cppast.Type
	pos = p.skipSpace(pos)
	if t, afterType, err := p.typeExpr(pos); err == nil {
		if name, afterName, ok := p.methodName(p.skipSpace(afterType)); ok {
			classic = t
			m.Name = name
			pos = afterName
		}
	}
	if m.Name == "" {
		name, next, ok := p.methodName(pos)
		if !ok {
			return cppast.Method{}, pos, p.fail(pos, "method name")
		}
		m.Name = name
		pos = next
	}

	params, next, err := p.methodParams(pos)
	if err != nil {
		return cppast.Method{}, pos, err
	}
	m.Params = params
	pos = next

	pos, err = p.initializerList(pos)
	if err != nil {
		return cppast.Method{}, pos, err
	}

	// const and noexcept precede a trailing return; override and final
	// follow it, so post-qualifiers are collected on both sides.
	m.PostQualifiers, pos = p.postQuals(pos)

	var trailing cppast.Type
	if after, ok := p.lit(p.skipSpace(pos), "->"); ok {
		t, next, err := p.typeExpr(p.skipSpace(after))
		if err != nil {
			return cppast.Method{}, after, err
		}
		trailing = t
		pos = next

		var more []cppast.PostQualifier
		more, pos = p.postQuals(pos)
		m.PostQualifiers = append(m.PostQualifiers, more...)
	}

	pos, m.Special, err = p.specialMember(pos)
	if err != nil {
		return cppast.Method{}, pos, err
	}

	if next, err := p.braceBlock(p.skipSpace(pos)); err == nil {
		pos = next
	}

	// Trailing return wins over the classic type; void normalizes to none
	// so constructors and void functions look alike.
	m.Return = classic
	if trailing != nil {
		m.Return = trailing
	}
	if m.Return != nil && cppast.IsVoid(m.Return) {
		m.Return = nil
	}

	return m, pos, nil
}

func (p *Parser) storage(pos int, acc []cppast.StorageQualifier) ([]cppast.StorageQualifier, int) {
	for {
		ws := p.skipSpace(pos)
		matched := false
		for _, q := range storageQualifiers {
			if next, ok := p.keyword(ws, string(q)); ok {
				acc = append(acc, q)
				pos = next
				matched = true
				break
			}
		}
		if !matched {
			return acc, pos
		}
	}
}

// methodName recognizes an identifier, a `~identifier` destructor name, or
// an `operator` overload name from the token catalogue.
func (p *Parser) methodName(pos int) (string, int, bool) {
	if after, ok := p.lit(pos, "~"); ok {
		_, next, ok := p.ident(after)
		if !ok {
			return "", pos, false
		}
		return p.src[pos:next], next, true
	}
	name, next, ok := p.ident(pos)
	if !ok {
		return "", pos, false
	}
	if name != "operator" {
		return name, next, true
	}
	cur := p.skipSpace(next)
	for _, kw := range []string{"new", "delete"} {
		if after, ok := p.keyword(cur, kw); ok {
			if end, ok := p.lit(after, "[]"); ok {
				after = end
			}
			return p.src[pos:next] + " " + p.src[cur:after], after, true
		}
	}
	for _, tok := range operatorTokens {
		if after, ok := p.lit(cur, tok); ok {
			return "operator" + tok, after, true
		}
	}
	return "", pos, false
}

// methodParams parses the parenthesized parameter list: each parameter is a
// type, an optional name, and an optional `=` default (modeled as a type
// expression, adequate for literal and path defaults).
func (p *Parser) methodParams(pos int) ([]cppast.Parameter, int, *ParseError) {
	pos = p.skipSpace(pos)
	after, ok := p.lit(pos, "(")
	if !ok {
		return nil, pos, p.fail(pos, "'(' starting parameter list")
	}
	cur := p.skipSpace(after)
	if next, ok := p.lit(cur, ")"); ok {
		return nil, next, nil
	}
	var params []cppast.Parameter
	for {
		var param cppast.Parameter
		t, next, err := p.typeExpr(cur)
		if err != nil {
			return nil, cur, err
		}
		param.Type = t
		cur = p.skipSpace(next)
		if name, next, ok := p.ident(cur); ok {
			param.Name = name
			cur = p.skipSpace(next)
		}
		if after, ok := p.lit(cur, "="); ok {
			def, next, err := p.typeExpr(p.skipSpace(after))
			if err != nil {
				return nil, after, err
			}
			param.Default = def
			cur = p.skipSpace(next)
		}
		params = append(params, param)
		if after, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(after)
			continue
		}
		if after, ok := p.lit(cur, ")"); ok {
			return params, after, nil
		}
		return nil, cur, p.fail(cur, "',' or ')' in parameter list")
	}
}

// initializerList consumes a constructor member-initializer list. The
// entries are consumed, not modeled.
func (p *Parser) initializerList(pos int) (int, *ParseError) {
	ws := p.skipSpace(pos)
	if p.eof(ws) || p.src[ws] != ':' || p.hasPrefix(ws, "::") {
		return pos, nil
	}
	cur := p.skipSpace(ws + 1)
	for {
		_, next, ok := p.ident(cur)
		if !ok {
			return cur, p.fail(cur, "member initializer")
		}
		cur = p.skipSpace(next)
		if after, err := p.parenGroup(cur); err == nil {
			cur = after
		} else if after, err := p.braceBlock(cur); err == nil {
			cur = after
		} else {
			return cur, p.fail(cur, "'(' or '{' in member initializer")
		}
		cur = p.skipSpace(cur)
		if after, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(after)
			continue
		}
		return cur, nil
	}
}

func (p *Parser) postQuals(pos int) ([]cppast.PostQualifier, int) {
	var quals []cppast.PostQualifier
	for {
		ws := p.skipSpace(pos)
		matched := false
		for _, q := range postQualifiers {
			next, ok := p.keyword(ws, string(q))
			if !ok {
				continue
			}
			if q == cppast.PostNoexcept {
				if after, err := p.parenGroup(p.skipSpace(next)); err == nil {
					next = after
				}
			}
			quals = append(quals, q)
			pos = next
			matched = true
			break
		}
		if !matched {
			return quals, pos
		}
	}
}

func (p *Parser) specialMember(pos int) (int, cppast.SpecialMember, *ParseError) {
	ws := p.skipSpace(pos)
	after, ok := p.lit(ws, "=")
	if !ok {
		return pos, cppast.SpecialNone, nil
	}
	cur := p.skipSpace(after)
	if next, ok := p.lit(cur, "0"); ok {
		return next, cppast.SpecialPureVirtual, nil
	}
	if next, ok := p.keyword(cur, "default"); ok {
		return next, cppast.SpecialDefaulted, nil
	}
	if next, ok := p.keyword(cur, "delete"); ok {
		return next, cppast.SpecialDeleted, nil
	}
	return cur, cppast.SpecialNone, p.fail(cur, "'0', 'default', or 'delete'")
}

// templateHeader parses `template<typename T = D, class U, ...>`. The
// parameter name may be absent, as in `typename = std::enable_if_t<...>`.
func (p *Parser) templateHeader(pos int) ([]cppast.TemplateParam, int, bool) {
	ws := p.skipSpace(pos)
	next, ok := p.keyword(ws, "template")
	if !ok {
		return nil, pos, false
	}
	cur := p.skipSpace(next)
	after, ok := p.lit(cur, "<")
	if !ok {
		return nil, pos, false
	}
	cur = p.skipSpace(after)
	if next, ok := p.lit(cur, ">"); ok {
		return []cppast.TemplateParam{}, next, true
	}
	var params []cppast.TemplateParam
	for {
		var tp cppast.TemplateParam
		kwNext, ok := p.keyword(cur, "typename")
		if ok {
			tp.Keyword = "typename"
		} else if kwNext, ok = p.keyword(cur, "class"); ok {
			tp.Keyword = "class"
		} else {
			return nil, pos, false
		}
		cur = p.skipSpace(kwNext)
		if name, next, ok := p.ident(cur); ok {
			tp.Name = name
			cur = p.skipSpace(next)
		}
		if after, ok := p.lit(cur, "="); ok {
			def, next, err := p.typeExpr(p.skipSpace(after))
			if err != nil {
				return nil, pos, false
			}
			tp.Default = def
			cur = p.skipSpace(next)
		}
		params = append(params, tp)
		if after, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(after)
			continue
		}
		if after, ok := p.lit(cur, ">"); ok {
			return params, after, true
		}
		return nil, pos, false
	}
}
