package cppparse

import "hdrscan/pkg/cppast"

// class parses one class or struct declaration, recursively parsing nested
// classes. Body items are partitioned by a running access level that starts
// at Private and changes only on an explicit specifier; struct bodies share
// that default deliberately.
func (p *Parser) class(pos int) (cppast.Class, int, *ParseError) {
	if _, next, err := p.comment(pos); err == nil {
		pos = next
	}
	annotation, pos := p.annotations(pos, p.dialect.ClassAnnotation)

	if _, next, ok := p.templateHeader(pos); ok {
		pos = next
	}

	pos = p.skipSpace(pos)
	next, ok := p.keyword(pos, "class")
	if !ok {
		if next, ok = p.keyword(pos, "struct"); !ok {
			return cppast.Class{}, pos, p.fail(pos, "'class' or 'struct'")
		}
	}
	pos = p.skipSpace(next)

	// One identifier is the name; two are an export/API token and the name.
	first, next, ok := p.ident(pos)
	if !ok {
		return cppast.Class{}, pos, p.fail(pos, "class name")
	}
	pos = p.skipSpace(next)
	api, name := "", first
	if second, next, ok := p.ident(pos); ok {
		api, name = first, second
		pos = p.skipSpace(next)
	}

	// Template specialization suffix, recognized and ignored.
	if after, ok := p.lit(pos, "<"); ok {
		depth := 1
		i := after
		for ; i < len(p.src) && depth > 0; i++ {
			switch p.src[i] {
			case '<':
				depth++
			case '>':
				depth--
			}
		}
		if depth != 0 {
			return cppast.Class{}, pos, p.fail(pos, "matching '>'")
		}
		pos = p.skipSpace(i)
	}

	c := cppast.NewClass(name)
	c.Annotation = annotation

	// Forward declaration: empty collections, API token dropped.
	if next, ok := p.lit(pos, ";"); ok {
		return c, next, nil
	}
	c.API = api

	parents, pos, err := p.inheritance(pos)
	if err != nil {
		return cppast.Class{}, pos, err
	}
	c.Parents = parents

	pos = p.skipSpace(pos)
	next, ok = p.lit(pos, "{")
	if !ok {
		return cppast.Class{}, pos, p.fail(pos, "'{' or ';'")
	}
	pos = next

	p.enter(name)
	defer p.leave()

	access := cppast.AccessPrivate
	for {
		pos = p.skipSpace(pos)
		if next, ok := p.lit(pos, "}"); ok {
			pos = p.skipSpace(next)
			if next, ok := p.lit(pos, ";"); ok {
				pos = next
			}
			return c, pos, nil
		}
		if p.eof(pos) {
			return cppast.Class{}, pos, p.fail(pos, "'}' closing class body")
		}

		// Body alternatives, in priority order. First success wins.
		if next, ok := p.bodyIgnore(pos); ok {
			pos = next
			continue
		}
		if next, ok := p.lit(pos, ";"); ok {
			pos = next
			continue
		}
		if level, next, ok := p.accessSpecifier(pos); ok {
			access = level
			pos = next
			continue
		}
		if e, next, err := p.enum(pos); err == nil {
			c.Enums[access] = append(c.Enums[access], e)
			pos = next
			continue
		}
		nested, nextClass, classErr := p.class(pos)
		if classErr == nil {
			c.Nested[access] = append(c.Nested[access], nested)
			pos = nextClass
			continue
		}
		// A member annotation decides the member/method ambiguity up
		// front: consecutive macro lines would otherwise be read as a
		// declarator and a name.
		if fn := p.dialect.MemberAnnotation; fn != nil {
			if _, _, ok := fn(p, pos); ok {
				if member, next, err := p.member(pos); err == nil {
					c.Members[access] = append(c.Members[access], member)
					pos = next
					continue
				}
			}
		}
		method, nextMethod, methodErr := p.method(pos)
		if methodErr == nil {
			c.Methods[access] = append(c.Methods[access], method)
			pos = nextMethod
			continue
		}
		member, nextMember, memberErr := p.member(pos)
		if memberErr == nil {
			c.Members[access] = append(c.Members[access], member)
			pos = nextMember
			continue
		}
		if _, next, err := p.comment(pos); err == nil {
			pos = next
			continue
		}
		// Strict recovery: an unrecognized body line is a hard failure.
		best := furthest(classErr, methodErr, memberErr)
		if best == nil || best.Offset <= pos {
			best = p.fail(pos, "class body item")
		}
		return cppast.Class{}, pos, best
	}
}

// accessSpecifier recognizes `public:`, `protected:`, or `private:`.
func (p *Parser) accessSpecifier(pos int) (cppast.Access, int, bool) {
	for _, kw := range []string{"public", "protected", "private"} {
		next, ok := p.keyword(pos, kw)
		if !ok {
			continue
		}
		cur := p.skipSpace(next)
		if p.hasPrefix(cur, "::") {
			return cppast.AccessNone, pos, false
		}
		if after, ok := p.lit(cur, ":"); ok {
			return cppast.AccessFromKeyword(kw), after, true
		}
	}
	return cppast.AccessNone, pos, false
}

// inheritance parses `: [access] Type, ...`; entries without an access
// keyword default to AccessNone.
func (p *Parser) inheritance(pos int) ([]cppast.Parent, int, *ParseError) {
	ws := p.skipSpace(pos)
	if p.eof(ws) || p.src[ws] != ':' || p.hasPrefix(ws, "::") {
		return nil, pos, nil
	}
	cur := p.skipSpace(ws + 1)
	var parents []cppast.Parent
	for {
		level := cppast.AccessNone
		for _, kw := range []string{"private", "protected", "public", "virtual"} {
			if next, ok := p.keyword(cur, kw); ok {
				level = cppast.AccessFromKeyword(kw)
				cur = p.skipSpace(next)
				break
			}
		}
		t, next, err := p.typeExpr(cur)
		if err != nil {
			return nil, cur, err
		}
		parents = append(parents, cppast.Parent{Type: t, Access: level})
		cur = p.skipSpace(next)
		if after, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(after)
			continue
		}
		return parents, cur, nil
	}
}
