package cppparse

import "strings"

// AnnotationFunc attempts to consume a dialect-specific prefix at pos and
// returns the captured annotation text. ok is false when no annotation
// starts there; the engine then moves on without consuming anything.
type AnnotationFunc func(p *Parser, pos int) (text string, next int, ok bool)

// Dialect configures the annotation extension point for one C++ flavor. Nil
// recognizers mean the dialect has no annotation at that position; an empty
// BodyIgnore list means class bodies carry no marker macros.
type Dialect struct {
	Name             string
	ClassAnnotation  AnnotationFunc
	MethodAnnotation AnnotationFunc
	MemberAnnotation AnnotationFunc
	// BodyIgnore lists macro names that may appear as entire class-body
	// lines and produce no declaration, e.g. GENERATED_BODY.
	BodyIgnore []string
}

// Plain is the plain-C++ dialect: no annotations, nothing ignored.
func Plain() Dialect {
	return Dialect{Name: "cpp"}
}

// Unreal recognizes the Unreal Engine reflection macros.
func Unreal() Dialect {
	return Dialect{
		Name:             "unreal",
		ClassAnnotation:  MacroAnnotation("UCLASS", "USTRUCT", "UINTERFACE"),
		MethodAnnotation: MacroAnnotation("UFUNCTION", "UDELEGATE"),
		MemberAnnotation: MacroAnnotation("UPROPERTY"),
		BodyIgnore: []string{
			"GENERATED_BODY",
			"GENERATED_UCLASS_BODY",
			"GENERATED_USTRUCT_BODY",
			"GENERATED_IINTERFACE_BODY",
		},
	}
}

// MacroAnnotation returns a recognizer for reflection macros: one of the
// given names followed by an optional parenthesized argument list, captured
// verbatim through end of line. The argument grammar is not interpreted.
func MacroAnnotation(names ...string) AnnotationFunc {
	return func(p *Parser, pos int) (string, int, bool) {
		pos = p.skipSpace(pos)
		name, after, ok := p.ident(pos)
		if !ok {
			return "", pos, false
		}
		found := false
		for _, n := range names {
			if name == n {
				found = true
				break
			}
		}
		if !found {
			return "", pos, false
		}
		line, end := p.restOfLine(after)
		// Bare occurrence of the name inside a longer token was already
		// excluded by ident(); anything up to EOL belongs to the macro.
		return name + strings.TrimRight(line, " \t"), end, true
	}
}

// annotations runs the recognizer repeatedly and keeps the first capture;
// later ones are consumed and dropped.
func (p *Parser) annotations(pos int, fn AnnotationFunc) (string, int) {
	if fn == nil {
		return "", pos
	}
	first := ""
	for {
		text, next, ok := fn(p, pos)
		if !ok {
			return first, pos
		}
		if first == "" {
			first = text
		}
		pos = next
	}
}

// bodyIgnore consumes one dialect marker line inside a class body: the macro
// name, an optional parenthesized group, and an optional semicolon.
func (p *Parser) bodyIgnore(pos int) (int, bool) {
	if len(p.dialect.BodyIgnore) == 0 {
		return pos, false
	}
	name, after, ok := p.ident(pos)
	if !ok {
		return pos, false
	}
	for _, n := range p.dialect.BodyIgnore {
		if name != n {
			continue
		}
		cur := p.skipSpace(after)
		if next, err := p.parenGroup(cur); err == nil {
			cur = p.skipSpace(next)
		}
		if next, ok := p.lit(cur, ";"); ok {
			cur = next
		}
		return cur, true
	}
	return pos, false
}
