package cppparse

import "hdrscan/pkg/cppast"

var memberModifiers = []cppast.StorageQualifier{
	cppast.QualStatic,
	cppast.QualConst,
	cppast.QualInline,
	cppast.QualConstexpr,
}

// member parses one data-member declaration: optional comment, optional
// annotations, modifiers, type, name, optional `=`/`{...}` initializer. The
// terminating `;` is left for the caller. It fails when no type expression
// can be recognized after the modifiers. Function-pointer members
// (`void (*cb)(int)`) carry their name inside the declarator group; the name
// is recovered from it while the type keeps the unnamed `(*)` shape.
func (p *Parser) member(pos int) (cppast.Member, int, *ParseError) {
	var m cppast.Member

	if text, next, err := p.comment(pos); err == nil {
		m.Comment = text
		pos = next
	}
	m.Annotation, pos = p.annotations(pos, p.dialect.MemberAnnotation)

	for {
		ws := p.skipSpace(pos)
		matched := false
		for _, mod := range memberModifiers {
			if next, ok := p.keyword(ws, string(mod)); ok {
				m.Modifiers = append(m.Modifiers, mod)
				pos = next
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	p.declName = ""
	t, next, err := p.typeExpr(pos)
	if err != nil {
		return cppast.Member{}, pos, err
	}
	m.Type = t
	pos = next

	if name, next, ok := p.ident(p.skipSpace(pos)); ok {
		m.Name = name
		pos = p.skipSpace(next)
	} else if p.declName != "" {
		// `T (*name)(Args)`: the declarator group carried the name and the
		// type expression consumed it with the rest of the declarator.
		m.Name = p.declName
		pos = p.skipSpace(pos)
	} else {
		return cppast.Member{}, pos, p.fail(p.skipSpace(pos), "member name")
	}

	if after, ok := p.lit(pos, "="); ok {
		def, next, err := p.typeExpr(p.skipSpace(after))
		if err != nil {
			return cppast.Member{}, after, err
		}
		m.Default = def
		pos = next
	} else if after, ok := p.lit(pos, "{"); ok {
		def, next, err := p.typeExpr(p.skipSpace(after))
		if err != nil {
			return cppast.Member{}, after, err
		}
		cur := p.skipSpace(next)
		end, ok := p.lit(cur, "}")
		if !ok {
			return cppast.Member{}, cur, p.fail(cur, "'}' closing initializer")
		}
		m.Default = def
		pos = end
	}

	return m, pos, nil
}
