package report

import (
	"fmt"
	"strings"

	"hdrscan/pkg/cppast"
)

// PlantUMLGenerator renders parsed headers as a PlantUML class diagram.
// Classes are grouped into packages by namespace, members and methods carry
// visibility markers, and inheritance is drawn with <|-- edges.
type PlantUMLGenerator struct {
	headers []*cppast.Header
}

func NewPlantUMLGenerator(headers ...*cppast.Header) *PlantUMLGenerator {
	return &PlantUMLGenerator{headers: headers}
}

func (g *PlantUMLGenerator) Add(h *cppast.Header) {
	g.headers = append(g.headers, h)
}

func (g *PlantUMLGenerator) Generate() (string, error) {
	m := buildModel(g.headers)
	ids := makeIDs(m.nodeNames())

	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("skinparam classAttributeIconSize 0\n")
	b.WriteString("hide empty members\n\n")

	for _, grp := range m.groups() {
		indent := ""
		if grp.namespace != "" {
			b.WriteString(fmt.Sprintf("package \"%s\" {\n", escapePlantUML(grp.namespace)))
			indent = "  "
		}
		for _, e := range grp.classes {
			writePlantUMLClass(&b, indent, e, ids)
		}
		for _, e := range grp.enums {
			writePlantUMLEnum(&b, indent, e, ids)
		}
		if grp.namespace != "" {
			b.WriteString("}\n")
		}
	}

	for _, ext := range m.externals {
		b.WriteString(fmt.Sprintf("class \"%s\" as %s <<external>>\n", escapePlantUML(ext), ids[ext]))
	}

	if len(m.edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range m.edges {
		label := ""
		if e.virtual {
			label = " : virtual"
		}
		b.WriteString(fmt.Sprintf("%s <|-- %s%s\n", ids[e.parent], ids[e.child], label))
	}

	b.WriteString("\n@enduml\n")
	return b.String(), nil
}

func writePlantUMLClass(b *strings.Builder, indent string, e classEntry, ids map[string]string) {
	stereo := ""
	if e.class.Annotation != "" {
		stereo = fmt.Sprintf(" <<%s>>", escapePlantUML(e.class.Annotation))
	}
	b.WriteString(fmt.Sprintf("%sclass \"%s\" as %s%s {\n", indent, escapePlantUML(e.name), ids[e.name], stereo))
	for _, access := range accessOrder {
		for i := range e.class.Members[access] {
			b.WriteString(indent + "  " + plantUMLMemberLine(&e.class.Members[access][i], access) + "\n")
		}
		for i := range e.class.Methods[access] {
			b.WriteString(indent + "  " + plantUMLMethodLine(&e.class.Methods[access][i], access) + "\n")
		}
	}
	b.WriteString(indent + "}\n")
}

func writePlantUMLEnum(b *strings.Builder, indent string, e enumEntry, ids map[string]string) {
	b.WriteString(fmt.Sprintf("%senum \"%s\" as %s {\n", indent, escapePlantUML(e.name), ids[e.name]))
	for _, v := range e.enum.Variants {
		if v.Value != nil {
			b.WriteString(fmt.Sprintf("%s  %s = %d\n", indent, v.Name, *v.Value))
		} else {
			b.WriteString(indent + "  " + v.Name + "\n")
		}
	}
	b.WriteString(indent + "}\n")
}

func plantUMLMemberLine(m *cppast.Member, access cppast.Access) string {
	line := visibility(access) + m.Name + " : " + m.Type.String()
	if m.Default != nil {
		line += " = " + m.Default.String()
	}
	return line
}

func plantUMLMethodLine(m *cppast.Method, access cppast.Access) string {
	var sb strings.Builder
	sb.WriteString(visibility(access))
	if m.IsStatic() {
		sb.WriteString("{static} ")
	}
	if m.Special == cppast.SpecialPureVirtual {
		sb.WriteString("{abstract} ")
	}
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
		if p.Name != "" {
			sb.WriteString(" " + p.Name)
		}
		if p.Default != nil {
			sb.WriteString(" = " + p.Default.String())
		}
	}
	sb.WriteString(")")
	if m.IsConst() {
		sb.WriteString(" const")
	}
	if m.Return != nil {
		sb.WriteString(" : " + m.Return.String())
	}
	return sb.String()
}

func escapePlantUML(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
