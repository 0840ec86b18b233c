package cppparse

import (
	"fmt"
	"strings"

	"hdrscan/pkg/cppast"
)

// ParseError is the structural failure value every recognizer returns on the
// error path. Offset is a byte offset into the source; Path names the
// enclosing class/namespace declarations at the failure point.
type ParseError struct {
	Offset   int
	Expected string
	Path     []string
}

func (e *ParseError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("offset %d: expected %s", e.Offset, e.Expected)
	}
	return fmt.Sprintf("offset %d (in %s): expected %s", e.Offset, strings.Join(e.Path, "::"), e.Expected)
}

// Parser holds one parse over one input buffer. It is single use and not
// safe for concurrent use; parse separate buffers with separate Parsers.
type Parser struct {
	src     string
	dialect Dialect
	path    []string

	// declName holds the identifier consumed inside a `(*name)` declarator
	// group. The type expression swallows that name with the rest of the
	// declarator; the member parser resets this slot before parsing a type
	// and reads it back when no plain name follows.
	declName string
}

// New returns a Parser over src using the given dialect.
func New(src string, dialect Dialect) *Parser {
	return &Parser{src: src, dialect: dialect}
}

// ParseHeader parses a complete header under the given dialect.
func ParseHeader(src string, dialect Dialect) (*cppast.Header, error) {
	return New(src, dialect).Header()
}

func (p *Parser) fail(pos int, expected string) *ParseError {
	return &ParseError{Offset: pos, Expected: expected, Path: append([]string(nil), p.path...)}
}

// furthest picks the error that made the most progress; alternatives report
// their best attempt, not the first one tried.
func furthest(errs ...*ParseError) *ParseError {
	var best *ParseError
	for _, e := range errs {
		if e == nil {
			continue
		}
		if best == nil || e.Offset > best.Offset {
			best = e
		}
	}
	return best
}

func (p *Parser) enter(name string) { p.path = append(p.path, name) }
func (p *Parser) leave()            { p.path = p.path[:len(p.path)-1] }

// skipSpace advances over whitespace, including newlines. Comments are
// significant to the grammar and are never skipped here.
func (p *Parser) skipSpace(pos int) int {
	for pos < len(p.src) {
		switch p.src[pos] {
		case ' ', '\t', '\r', '\n':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// skipHSpace advances over spaces and tabs only.
func (p *Parser) skipHSpace(pos int) int {
	for pos < len(p.src) && (p.src[pos] == ' ' || p.src[pos] == '\t') {
		pos++
	}
	return pos
}

func (p *Parser) eof(pos int) bool { return pos >= len(p.src) }

func (p *Parser) hasPrefix(pos int, s string) bool {
	return strings.HasPrefix(p.src[pos:], s)
}

// lit consumes the exact string s.
func (p *Parser) lit(pos int, s string) (int, bool) {
	if p.hasPrefix(pos, s) {
		return pos + len(s), true
	}
	return pos, false
}

// isIdentChar matches the identifier alphabet used throughout the grammar.
// It is wider than C++'s: digits may lead (so literal defaults like `0`
// parse as path segments) and `-` is included (so `-5` stays one token).
func isIdentChar(b byte) bool {
	return b == '_' || b == '-' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// ident consumes a run of identifier characters.
func (p *Parser) ident(pos int) (string, int, bool) {
	start := pos
	for pos < len(p.src) && isIdentChar(p.src[pos]) {
		pos++
	}
	if pos == start {
		return "", start, false
	}
	return p.src[start:pos], pos, true
}

// keyword consumes kw only when it is a whole identifier at pos.
func (p *Parser) keyword(pos int, kw string) (int, bool) {
	name, next, ok := p.ident(pos)
	if !ok || name != kw {
		return pos, false
	}
	return next, true
}

// restOfLine consumes up to (not including) the next newline and returns the
// consumed text with trailing carriage returns trimmed.
func (p *Parser) restOfLine(pos int) (string, int) {
	end := strings.IndexByte(p.src[pos:], '\n')
	if end < 0 {
		return strings.TrimRight(p.src[pos:], "\r"), len(p.src)
	}
	return strings.TrimRight(p.src[pos:pos+end], "\r"), pos + end
}

// braceBlock consumes a balanced `{...}` block, matching braces recursively.
// Contents are discarded uninterpreted; braces inside string literals are an
// accepted limitation.
func (p *Parser) braceBlock(pos int) (int, *ParseError) {
	if p.eof(pos) || p.src[pos] != '{' {
		return pos, p.fail(pos, "'{'")
	}
	depth := 0
	for i := pos; i < len(p.src); i++ {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return pos, p.fail(pos, "matching '}'")
}

// parenGroup consumes a balanced `(...)` group, contents discarded.
func (p *Parser) parenGroup(pos int) (int, *ParseError) {
	if p.eof(pos) || p.src[pos] != '(' {
		return pos, p.fail(pos, "'('")
	}
	depth := 0
	for i := pos; i < len(p.src); i++ {
		switch p.src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return pos, p.fail(pos, "matching ')'")
}
