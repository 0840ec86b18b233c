package cppparse

import "hdrscan/pkg/cppast"

// namespace parses a namespace block. Items keep source order within their
// kind; there are no access levels at namespace scope.
func (p *Parser) namespace(pos int) (cppast.Namespace, int, *ParseError) {
	pos = p.skipSpace(pos)
	next, ok := p.keyword(pos, "namespace")
	if !ok {
		return cppast.Namespace{}, pos, p.fail(pos, "'namespace'")
	}
	pos = p.skipSpace(next)
	name, next, ok := p.ident(pos)
	if !ok {
		return cppast.Namespace{}, pos, p.fail(pos, "namespace name")
	}
	pos = p.skipSpace(next)
	next, ok = p.lit(pos, "{")
	if !ok {
		return cppast.Namespace{}, pos, p.fail(pos, "'{'")
	}
	pos = next

	p.enter(name)
	defer p.leave()

	ns := cppast.Namespace{Name: name}
	for {
		pos = p.skipSpace(pos)
		if next, ok := p.lit(pos, "}"); ok {
			pos = p.skipSpace(next)
			if next, ok := p.lit(pos, ";"); ok {
				pos = next
			}
			return ns, pos, nil
		}
		if p.eof(pos) {
			return cppast.Namespace{}, pos, p.fail(pos, "'}' closing namespace")
		}

		if next, ok := p.lit(pos, ";"); ok {
			pos = next
			continue
		}
		sub, nextNS, nsErr := p.namespace(pos)
		if nsErr == nil {
			ns.Namespaces = append(ns.Namespaces, sub)
			pos = nextNS
			continue
		}
		if e, next, err := p.enum(pos); err == nil {
			ns.Enums = append(ns.Enums, e)
			pos = next
			continue
		}
		class, nextClass, classErr := p.class(pos)
		if classErr == nil {
			ns.Classes = append(ns.Classes, class)
			pos = nextClass
			continue
		}
		method, nextMethod, methodErr := p.method(pos)
		if methodErr == nil {
			ns.Functions = append(ns.Functions, method)
			pos = nextMethod
			continue
		}
		member, nextMember, memberErr := p.member(pos)
		if memberErr == nil {
			ns.Variables = append(ns.Variables, member)
			pos = nextMember
			continue
		}
		if text, next, err := p.comment(pos); err == nil {
			ns.Comments = append(ns.Comments, text)
			pos = next
			continue
		}
		best := furthest(nsErr, classErr, methodErr, memberErr)
		if best == nil || best.Offset <= pos {
			best = p.fail(pos, "namespace item")
		}
		return cppast.Namespace{}, pos, best
	}
}
