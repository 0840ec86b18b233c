package cppparse

import (
	"strings"

	"hdrscan/pkg/cppast"
)

// Header runs the top-level fold over the whole input. Alternatives are
// tried in a fixed order at each position and the first success wins; any
// position where nothing matches is a hard error, never a silent skip.
func (p *Parser) Header() (*cppast.Header, error) {
	h := &cppast.Header{}
	pos := 0
	for {
		pos = p.skipSpace(pos)
		if p.eof(pos) {
			return h, nil
		}

		if next, ok := p.lit(pos, "\uFEFF"); ok {
			pos = next
			continue
		}
		if text, next, err := p.comment(pos); err == nil {
			h.Comments = append(h.Comments, text)
			pos = next
			continue
		}
		if p.src[pos] == '#' {
			next, err := p.directive(pos, h)
			if err != nil {
				return nil, err
			}
			pos = next
			continue
		}
		if alias, next, ok := p.alias(pos); ok {
			h.Aliases = append(h.Aliases, alias)
			pos = next
			continue
		}
		if e, next, err := p.enum(pos); err == nil {
			h.Enums = append(h.Enums, e)
			pos = next
			continue
		}
		class, nextClass, classErr := p.class(pos)
		if classErr == nil {
			h.Classes = append(h.Classes, class)
			pos = nextClass
			continue
		}
		if member, next, ok := p.terminatedVariable(pos); ok {
			h.Variables = append(h.Variables, member)
			pos = next
			continue
		}
		ns, nextNS, nsErr := p.namespace(pos)
		if nsErr == nil {
			h.Namespaces = append(h.Namespaces, ns)
			pos = nextNS
			continue
		}
		method, nextMethod, methodErr := p.method(pos)
		if methodErr == nil {
			h.Functions = append(h.Functions, method)
			pos = nextMethod
			continue
		}
		best := furthest(classErr, nsErr, methodErr)
		if best == nil || best.Offset <= pos {
			best = p.fail(pos, "header item")
		}
		return nil, best
	}
}

// directive handles `#include`, `#define`, and any other preprocessor line.
// Only includes are modeled; the rest is captured raw.
func (p *Parser) directive(pos int, h *cppast.Header) (int, *ParseError) {
	if after, ok := p.lit(pos, "#include"); ok {
		inc, next, err := p.includePath(p.skipSpace(after))
		if err != nil {
			return pos, err
		}
		h.Includes = append(h.Includes, inc)
		return next, nil
	}
	if after, ok := p.lit(pos, "#define"); ok {
		line, next := p.restOfLine(p.skipHSpace(after))
		h.Defines = append(h.Defines, line)
		return next, nil
	}
	line, next := p.restOfLine(pos + 1)
	h.Directives = append(h.Directives, line)
	return next, nil
}

// includePath parses `"relative/path.h"` or `<system/path.h>`.
func (p *Parser) includePath(pos int) (cppast.Include, int, *ParseError) {
	if after, ok := p.lit(pos, `"`); ok {
		end := strings.IndexByte(p.src[after:], '"')
		if end < 0 {
			return cppast.Include{}, pos, p.fail(pos, `closing '"'`)
		}
		return cppast.Include{Path: p.src[after : after+end]}, after + end + 1, nil
	}
	if after, ok := p.lit(pos, "<"); ok {
		end := strings.IndexByte(p.src[after:], '>')
		if end < 0 {
			return cppast.Include{}, pos, p.fail(pos, "closing '>'")
		}
		return cppast.Include{Path: p.src[after : after+end], Angled: true}, after + end + 1, nil
	}
	return cppast.Include{}, pos, p.fail(pos, "include path")
}

// alias parses `using Name = Type;` with an optional template header.
func (p *Parser) alias(pos int) (cppast.Alias, int, bool) {
	var a cppast.Alias
	if params, next, ok := p.templateHeader(pos); ok {
		a.TemplateParams = params
		pos = next
	}
	next, ok := p.keyword(p.skipSpace(pos), "using")
	if !ok {
		return cppast.Alias{}, pos, false
	}
	name, next, ok := p.ident(p.skipSpace(next))
	if !ok {
		return cppast.Alias{}, pos, false
	}
	a.Name = name
	after, ok := p.lit(p.skipSpace(next), "=")
	if !ok {
		return cppast.Alias{}, pos, false
	}
	t, next, err := p.typeExpr(p.skipSpace(after))
	if err != nil {
		return cppast.Alias{}, pos, false
	}
	a.Type = t
	end, ok := p.lit(p.skipSpace(next), ";")
	if !ok {
		return cppast.Alias{}, pos, false
	}
	return a, end, true
}

// terminatedVariable parses one free-variable declaration followed by `;`.
func (p *Parser) terminatedVariable(pos int) (cppast.Member, int, bool) {
	m, next, err := p.member(pos)
	if err != nil {
		return cppast.Member{}, pos, false
	}
	end, ok := p.lit(p.skipSpace(next), ";")
	if !ok {
		return cppast.Member{}, pos, false
	}
	return m, end, true
}
