package cppparse

import "strings"

// comment recognizes either a run of consecutive `//`/`///` lines or one
// `/*...*/` block, and returns the normalized text. It fails when neither
// marker starts at pos. Attaching the comment to a following declaration is
// the caller's concern.
func (p *Parser) comment(pos int) (string, int, *ParseError) {
	pos = p.skipSpace(pos)
	if p.hasPrefix(pos, "//") {
		return p.lineComments(pos)
	}
	if p.hasPrefix(pos, "/*") {
		return p.blockComment(pos)
	}
	return "", pos, p.fail(pos, "comment")
}

func (p *Parser) lineComments(pos int) (string, int, *ParseError) {
	var lines []string
	for {
		after, ok := p.lit(pos, "//")
		if !ok {
			break
		}
		line, end := p.restOfLine(after)
		lines = append(lines, stripIndent(line))
		pos = end
		if pos < len(p.src) && p.src[pos] == '\n' {
			pos++
		}
		// Consecutive lines may share the declaration's indentation.
		next := p.skipHSpace(pos)
		if !p.hasPrefix(next, "//") {
			break
		}
		pos = next
	}
	return strings.Join(lines, "\n"), pos, nil
}

func (p *Parser) blockComment(pos int) (string, int, *ParseError) {
	after, _ := p.lit(pos, "/*")
	end := strings.Index(p.src[after:], "*/")
	if end < 0 {
		return "", pos, p.fail(pos, "closing */")
	}
	body := p.src[after : after+end]
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = stripIndent(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), after + end + 2, nil
}

// stripIndent removes leading whitespace and comment decoration (`*`, `/`)
// from one comment line.
func stripIndent(line string) string {
	return strings.TrimLeft(line, " \t*/")
}
