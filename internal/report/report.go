package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"hdrscan/pkg/cppast"
)

// accessOrder fixes the display order of access partitions in both formats.
var accessOrder = cppast.AccessLevels

type classEntry struct {
	name      string // qualified, e.g. "ui::Widget" or "ui::Outer::Inner"
	namespace string
	class     *cppast.Class
}

type enumEntry struct {
	name      string
	namespace string
	enum      *cppast.Enum
}

type edge struct {
	parent  string // node name: a class entry or an external label
	child   string
	virtual bool
}

// model is the flattened diagram content shared by the PlantUML and Mermaid
// generators. Node order follows source order; externals are sorted.
type model struct {
	classes   []classEntry
	enums     []enumEntry
	edges     []edge
	externals []string
}

type group struct {
	namespace string
	classes   []classEntry
	enums     []enumEntry
}

func buildModel(headers []*cppast.Header) *model {
	m := &model{}
	for _, h := range headers {
		if h == nil {
			continue
		}
		for i := range h.Classes {
			m.addClass("", "", &h.Classes[i])
		}
		for i := range h.Enums {
			m.addEnum("", "", &h.Enums[i])
		}
		for i := range h.Namespaces {
			m.addNamespace("", &h.Namespaces[i])
		}
	}
	m.resolveEdges()
	return m
}

func (m *model) addNamespace(parent string, ns *cppast.Namespace) {
	path := ns.Name
	if parent != "" {
		path = parent + "::" + ns.Name
	}
	for i := range ns.Classes {
		m.addClass(path, "", &ns.Classes[i])
	}
	for i := range ns.Enums {
		m.addEnum(path, "", &ns.Enums[i])
	}
	for i := range ns.Namespaces {
		m.addNamespace(path, &ns.Namespaces[i])
	}
}

// addClass records a class and recurses into its nested classes and enums,
// qualifying their names with the outer class name.
func (m *model) addClass(namespace, outer string, c *cppast.Class) {
	name := c.Name
	if outer != "" {
		name = outer + "::" + c.Name
	}
	if namespace != "" {
		name = namespace + "::" + name
	}
	m.upsertClass(classEntry{name: name, namespace: namespace, class: c})

	qualified := c.Name
	if outer != "" {
		qualified = outer + "::" + c.Name
	}
	for _, access := range accessOrder {
		nested := c.Nested[access]
		for i := range nested {
			m.addClass(namespace, qualified, &nested[i])
		}
		enums := c.Enums[access]
		for i := range enums {
			m.addEnum(namespace, qualified, &enums[i])
		}
	}
}

// upsertClass dedupes by qualified name so a forward declaration and the
// full declaration of the same class produce a single node. The richer
// entry wins.
func (m *model) upsertClass(e classEntry) {
	for i := range m.classes {
		if m.classes[i].name != e.name {
			continue
		}
		if classWeight(e.class) > classWeight(m.classes[i].class) {
			m.classes[i] = e
		}
		return
	}
	m.classes = append(m.classes, e)
}

func classWeight(c *cppast.Class) int {
	return c.MethodCount() + c.MemberCount() + len(c.Parents)
}

func (m *model) addEnum(namespace, outer string, e *cppast.Enum) {
	if e.Name == "" {
		// Anonymous enums have no node to draw.
		return
	}
	name := e.Name
	if outer != "" {
		name = outer + "::" + e.Name
	}
	m.enums = append(m.enums, enumEntry{name: name, namespace: namespace, enum: e})
}

// resolveEdges links each inheritance entry to a class node. A parent type
// resolves by qualified name first, then by bare name when that is
// unambiguous; anything else becomes an external node.
func (m *model) resolveEdges() {
	qualified := make(map[string]bool, len(m.classes))
	byBare := make(map[string][]string)
	for _, e := range m.classes {
		qualified[e.name] = true
		bare := e.name
		if i := strings.LastIndex(bare, "::"); i >= 0 {
			bare = bare[i+2:]
		}
		byBare[bare] = append(byBare[bare], e.name)
	}

	externalSet := make(map[string]bool)
	for _, e := range m.classes {
		for _, p := range e.class.Parents {
			key := p.Type.String()
			target := ""
			switch {
			case qualified[key]:
				target = key
			case len(byBare[key]) == 1:
				target = byBare[key][0]
			default:
				target = key
				if !qualified[target] {
					externalSet[target] = true
				}
			}
			m.edges = append(m.edges, edge{
				parent:  target,
				child:   e.name,
				virtual: p.Access == cppast.AccessVirtual,
			})
		}
	}

	m.externals = make([]string, 0, len(externalSet))
	for name := range externalSet {
		m.externals = append(m.externals, name)
	}
	sort.Strings(m.externals)
}

// groups partitions classes and enums by namespace in first-seen order.
func (m *model) groups() []group {
	index := make(map[string]int)
	var out []group
	at := func(ns string) *group {
		if i, ok := index[ns]; ok {
			return &out[i]
		}
		index[ns] = len(out)
		out = append(out, group{namespace: ns})
		return &out[len(out)-1]
	}
	for _, e := range m.classes {
		g := at(e.namespace)
		g.classes = append(g.classes, e)
	}
	for _, e := range m.enums {
		g := at(e.namespace)
		g.enums = append(g.enums, e)
	}
	return out
}

// nodeNames returns every node name in render order, for alias assignment.
func (m *model) nodeNames() []string {
	names := make([]string, 0, len(m.classes)+len(m.enums)+len(m.externals))
	for _, e := range m.classes {
		names = append(names, e.name)
	}
	for _, e := range m.enums {
		names = append(names, e.name)
	}
	names = append(names, m.externals...)
	return names
}

func visibility(access cppast.Access) string {
	switch access {
	case cppast.AccessPublic:
		return "+"
	case cppast.AccessProtected:
		return "#"
	default:
		return "-"
	}
}

func sanitizeID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}
