package cppparse

import "hdrscan/pkg/cppast"

// typeExpr recognizes the longest valid type expression at pos. It fails
// only when it cannot consume a single byte. The empty path produced inside
// function-pointer declarators (`(*)`) is a valid value, not a failure.
func (p *Parser) typeExpr(pos int) (cppast.Type, int, *ParseError) {
	start := p.skipSpace(pos)
	pos = start

	// Leading const.
	isConst := false
	if next, ok := p.keyword(pos, "const"); ok {
		isConst = true
		pos = p.skipSpace(next)
	}

	segments, pos := p.typePath(pos)

	var t cppast.Type
	if len(segments) == 1 && segments[0] == "auto" {
		t = cppast.Auto{}
	} else {
		t = cppast.Path{Segments: segments}
	}

	// Angle-bracketed type arguments. Backtrack on failure: a stray `<`
	// (e.g. in `operator<`) is not part of the type.
	if args, next, ok := p.typeArgs(pos); ok {
		t = cppast.Generic{Base: t, Args: args}
		pos = next
	}

	// Trailing ::member accessors.
	for {
		ws := p.skipSpace(pos)
		after, ok := p.lit(ws, "::")
		if !ok {
			break
		}
		name, next, ok := p.ident(p.skipSpace(after))
		if !ok {
			break
		}
		t = cppast.MemberAccess{Base: t, Member: name}
		pos = next
	}

	// Parenthesized parameter-type lists. Each group wraps the type so far
	// in Function; a second group covers the `T(*)(Args)` declarator form.
	for {
		ws := p.skipSpace(pos)
		params, next, ok := p.functionSuffix(ws)
		if !ok {
			break
		}
		t = cppast.Function{Result: t, Params: params}
		pos = next
	}

	// Trailing const. Const applies once no matter where the keyword stood.
	if next, ok := p.keyword(p.skipSpace(pos), "const"); ok {
		isConst = true
		pos = next
	}
	if isConst {
		t = cppast.Const{Elem: t}
	}

	// Pointer and reference declarators wrap left to right.
	for {
		ws := p.skipSpace(pos)
		if p.eof(ws) {
			break
		}
		switch p.src[ws] {
		case '*':
			t = cppast.Pointer{Elem: t}
			pos = ws + 1
		case '&':
			t = cppast.Reference{Elem: t}
			pos = ws + 1
		default:
			goto done
		}
	}
done:
	if pos == start {
		return nil, start, p.fail(start, "type expression")
	}
	return t, pos, nil
}

// typePath consumes `ident (:: ident)*`, each segment optionally preceded by
// a `class` or `typename` keyword. Zero segments is a valid result.
func (p *Parser) typePath(pos int) ([]string, int) {
	var segments []string
	for {
		segStart := p.skipSpace(pos)
		if len(segments) > 0 {
			after, ok := p.lit(segStart, "::")
			if !ok {
				break
			}
			segStart = p.skipSpace(after)
		}
		cur := segStart
		for _, kw := range []string{"class", "typename"} {
			if next, ok := p.keyword(cur, kw); ok {
				ws := p.skipSpace(next)
				if _, _, isID := p.ident(ws); isID {
					cur = ws
				}
				break
			}
		}
		name, next, ok := p.ident(cur)
		if !ok {
			break
		}
		segments = append(segments, name)
		pos = next
	}
	return segments, pos
}

// typeArgs parses `<T, U, ...>`. Reports ok=false without consuming input
// when no well-formed argument list starts at pos.
func (p *Parser) typeArgs(pos int) ([]cppast.Type, int, bool) {
	ws := p.skipSpace(pos)
	after, ok := p.lit(ws, "<")
	if !ok {
		return nil, pos, false
	}
	cur := p.skipSpace(after)
	if next, ok := p.lit(cur, ">"); ok {
		return []cppast.Type{}, next, true
	}
	var args []cppast.Type
	for {
		arg, next, err := p.typeExpr(cur)
		if err != nil {
			return nil, pos, false
		}
		args = append(args, arg)
		cur = p.skipSpace(next)
		if next, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(next)
			continue
		}
		if next, ok := p.lit(cur, ">"); ok {
			return args, next, true
		}
		return nil, pos, false
	}
}

// pointsToEmptyPath reports whether t is a pointer or reference chain over
// the empty path, the shape `(*)` and `(*name)` declarator groups produce.
func pointsToEmptyPath(t cppast.Type) bool {
	for {
		switch v := t.(type) {
		case cppast.Pointer:
			t = v.Elem
		case cppast.Reference:
			t = v.Elem
		case cppast.Path:
			return len(v.Segments) == 0
		default:
			return false
		}
	}
}

// functionSuffix parses `(T, U, ...)` as a parameter-type list. A bare
// identifier after a parameter type (a name slot) is consumed and, except
// for the `(*name)` declarator case, discarded.
func (p *Parser) functionSuffix(pos int) ([]cppast.Type, int, bool) {
	after, ok := p.lit(pos, "(")
	if !ok {
		return nil, pos, false
	}
	cur := p.skipSpace(after)
	if next, ok := p.lit(cur, ")"); ok {
		return []cppast.Type{}, next, true
	}
	var params []cppast.Type
	for {
		t, next, err := p.typeExpr(cur)
		if err != nil {
			return nil, pos, false
		}
		params = append(params, t)
		cur = p.skipSpace(next)
		if name, next, ok := p.ident(cur); ok {
			// A name after a bare pointer/reference is the `(*name)`
			// declarator form; keep the first one seen for the member
			// parser.
			if p.declName == "" && len(params) == 1 && pointsToEmptyPath(params[0]) {
				p.declName = name
			}
			cur = p.skipSpace(next)
		}
		if next, ok := p.lit(cur, ","); ok {
			cur = p.skipSpace(next)
			continue
		}
		if next, ok := p.lit(cur, ")"); ok {
			return params, next, true
		}
		return nil, pos, false
	}
}
