package cppparse

import (
	"strconv"

	"hdrscan/pkg/cppast"
)

// enum parses `enum [class|struct] [Name] [: Type] { A [= n], ... };`.
// Enumerator values are decimal integers; a trailing comma is tolerated.
func (p *Parser) enum(pos int) (cppast.Enum, int, *ParseError) {
	pos = p.skipSpace(pos)
	next, ok := p.keyword(pos, "enum")
	if !ok {
		return cppast.Enum{}, pos, p.fail(pos, "'enum'")
	}
	pos = p.skipSpace(next)

	var e cppast.Enum
	if next, ok := p.keyword(pos, "class"); ok {
		e.Scoped = true
		pos = p.skipSpace(next)
	} else if next, ok := p.keyword(pos, "struct"); ok {
		e.Scoped = true
		pos = p.skipSpace(next)
	}

	if name, next, ok := p.ident(pos); ok {
		e.Name = name
		pos = p.skipSpace(next)
	}

	if after, ok := p.lit(pos, ":"); ok && !p.hasPrefix(pos, "::") {
		t, next, err := p.typeExpr(p.skipSpace(after))
		if err != nil {
			return cppast.Enum{}, after, err
		}
		e.Underlying = t
		pos = p.skipSpace(next)
	}

	next, ok = p.lit(pos, "{")
	if !ok {
		return cppast.Enum{}, pos, p.fail(pos, "'{'")
	}
	pos = p.skipSpace(next)

	for {
		if next, ok := p.lit(pos, "}"); ok {
			pos = next
			break
		}
		name, next, ok := p.ident(pos)
		if !ok {
			return cppast.Enum{}, pos, p.fail(pos, "enumerator name")
		}
		variant := cppast.EnumVariant{Name: name}
		pos = p.skipSpace(next)
		if after, ok := p.lit(pos, "="); ok {
			cur := p.skipSpace(after)
			lit, next, ok := p.ident(cur)
			if !ok {
				return cppast.Enum{}, cur, p.fail(cur, "enumerator value")
			}
			v, err := strconv.ParseInt(lit, 10, 64)
			if err != nil {
				return cppast.Enum{}, cur, p.fail(cur, "integer enumerator value")
			}
			variant.Value = &v
			pos = p.skipSpace(next)
		}
		e.Variants = append(e.Variants, variant)
		if after, ok := p.lit(pos, ","); ok {
			pos = p.skipSpace(after)
			continue
		}
		if next, ok := p.lit(pos, "}"); ok {
			pos = next
			break
		}
		return cppast.Enum{}, pos, p.fail(pos, "',' or '}' in enum body")
	}

	pos = p.skipSpace(pos)
	next, ok = p.lit(pos, ";")
	if !ok {
		return cppast.Enum{}, pos, p.fail(pos, "';' after enum")
	}
	return e, next, nil
}
