package report

import (
	"fmt"
	"strings"

	"hdrscan/pkg/cppast"
)

// MermaidGenerator renders parsed headers as a Mermaid classDiagram. Node
// IDs are sanitized identifiers with the qualified name kept as the label;
// generics use Mermaid's ~ syntax.
type MermaidGenerator struct {
	headers []*cppast.Header
}

func NewMermaidGenerator(headers ...*cppast.Header) *MermaidGenerator {
	return &MermaidGenerator{headers: headers}
}

func (g *MermaidGenerator) Add(h *cppast.Header) {
	g.headers = append(g.headers, h)
}

func (g *MermaidGenerator) Generate() (string, error) {
	m := buildModel(g.headers)
	ids := makeIDs(m.nodeNames())

	var b strings.Builder
	b.WriteString("classDiagram\n")

	for _, e := range m.classes {
		b.WriteString(fmt.Sprintf("  class %s[\"%s\"] {\n", ids[e.name], escapeMermaidLabel(e.name)))
		if e.class.Annotation != "" {
			b.WriteString("    <<" + escapeMermaidLabel(e.class.Annotation) + ">>\n")
		}
		for _, access := range accessOrder {
			for i := range e.class.Members[access] {
				b.WriteString("    " + mermaidMemberLine(&e.class.Members[access][i], access) + "\n")
			}
			for i := range e.class.Methods[access] {
				b.WriteString("    " + mermaidMethodLine(&e.class.Methods[access][i], access) + "\n")
			}
		}
		b.WriteString("  }\n")
	}

	for _, e := range m.enums {
		b.WriteString(fmt.Sprintf("  class %s[\"%s\"] {\n", ids[e.name], escapeMermaidLabel(e.name)))
		b.WriteString("    <<enumeration>>\n")
		for _, v := range e.enum.Variants {
			b.WriteString("    " + v.Name + "\n")
		}
		b.WriteString("  }\n")
	}

	for _, ext := range m.externals {
		b.WriteString(fmt.Sprintf("  class %s[\"%s\"] {\n", ids[ext], escapeMermaidLabel(ext)))
		b.WriteString("    <<external>>\n")
		b.WriteString("  }\n")
	}

	if len(m.edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range m.edges {
		label := ""
		if e.virtual {
			label = " : virtual"
		}
		b.WriteString(fmt.Sprintf("  %s <|-- %s%s\n", ids[e.parent], ids[e.child], label))
	}

	return b.String(), nil
}

func mermaidMemberLine(m *cppast.Member, access cppast.Access) string {
	return visibility(access) + mermaidType(m.Type) + " " + m.Name
}

func mermaidMethodLine(m *cppast.Method, access cppast.Access) string {
	var sb strings.Builder
	sb.WriteString(visibility(access))
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(mermaidType(p.Type))
		if p.Name != "" {
			sb.WriteString(" " + p.Name)
		}
	}
	sb.WriteString(")")
	if m.Special == cppast.SpecialPureVirtual {
		sb.WriteString("*")
	}
	if m.IsStatic() {
		sb.WriteString("$")
	}
	if m.Return != nil {
		sb.WriteString(" " + mermaidType(m.Return))
	}
	return sb.String()
}

// mermaidType renders a type for a class body line. Mermaid's member grammar
// has no angle brackets, so generics use its tilde form.
func mermaidType(t cppast.Type) string {
	s := t.String()
	s = strings.ReplaceAll(s, "<", "~")
	s = strings.ReplaceAll(s, ">", "~")
	return s
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
