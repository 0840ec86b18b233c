// Package report renders parsed headers as class diagrams.
//
// Two output formats are supported, PlantUML and Mermaid, built from the
// same flattened model: classes grouped by namespace with access-marked
// members and methods, named enums, and inheritance edges. Parent types
// that no parsed header declares become external nodes.
package report
