package model

import "table-mapper/internal/common"

// PropertyKind classifies a discovered member.
type PropertyKind int

const (
	// PropertyColumn is a scalar stored as one column.
	PropertyColumn PropertyKind = iota
	// PropertyTable is a relation to another registered table.
	PropertyTable
	// PropertyNested is a value object whose members are inlined.
	PropertyNested
)

func (k PropertyKind) String() string {
	switch k {
	case PropertyColumn:
		return "column"
	case PropertyTable:
		return "table"
	case PropertyNested:
		return "nested"
	default:
		return common.UnknownStr
	}
}

// Property is one discovered member of a type, possibly inside a nested
// value object.
type Property struct {
	Name   string       // Simple member name
	Path   string       // Dotted path from the owning type
	Parent *Property    // Enclosing nested property, nil at top level
	Kind   PropertyKind // Classification
	Field  *FieldInfo   // Declaring field
	Value  *TypeInfo    // Field type with pointers removed
	Owner  TypeID       // Type the path is relative to
}

// Depth is the number of enclosing nested properties.
func (p *Property) Depth() int {
	n := 0
	for q := p.Parent; q != nil; q = q.Parent {
		n++
	}

	return n
}
