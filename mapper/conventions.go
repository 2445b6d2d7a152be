package mapper

import (
	"table-mapper/internal/naming"
	"table-mapper/model"
)

// Conventions supply the defaults used when a type leaves a value
// unconfigured. Any nil function falls back to DefaultConventions.
type Conventions struct {
	// TableName names the table of a type.
	TableName func(t *model.TypeInfo) string
	// Schema returns the schema of a type.
	Schema func(t *model.TypeInfo) string
	// PrimaryKey names the single member used as key when none is
	// configured or inherited. An empty result means no key.
	PrimaryKey func(t *model.TypeInfo) string
	// InheritTable decides whether a type shares its ancestor's table.
	InheritTable func(e *Entry) bool
	// InheritColumns decides whether a type copies its ancestor's columns.
	InheritColumns func(e *Entry) bool
	// ColumnFragment returns the name fragment contributed by the last
	// segment of chain, a member path on owner.
	ColumnFragment func(owner model.TypeID, chain []string) string
}

// DefaultConventions keeps Go names as they are and uses ID as key.
func DefaultConventions() Conventions {
	return Conventions{
		TableName:      func(t *model.TypeInfo) string { return t.ID.Name },
		Schema:         func(*model.TypeInfo) string { return "" },
		PrimaryKey:     func(*model.TypeInfo) string { return "ID" },
		InheritTable:   func(*Entry) bool { return false },
		InheritColumns: defaultInheritColumns,
		ColumnFragment: func(_ model.TypeID, chain []string) string { return chain[len(chain)-1] },
	}
}

// SnakeCaseConventions produces snake_case table names and column names
// joined by underscores.
func SnakeCaseConventions() Conventions {
	c := DefaultConventions()
	c.TableName = func(t *model.TypeInfo) string { return naming.Snake(t.ID.Name) }
	c.ColumnFragment = func(_ model.TypeID, chain []string) string {
		frag := naming.Snake(chain[len(chain)-1])
		if len(chain) > 1 {
			return "_" + frag
		}

		return frag
	}

	return c
}

// ConventionsByName returns "default" or "snake" conventions.
func ConventionsByName(name string) (Conventions, bool) {
	switch name {
	case "", "default":
		return DefaultConventions(), true
	case "snake", "snake_case":
		return SnakeCaseConventions(), true
	default:
		return Conventions{}, false
	}
}

// inherit columns when the ancestor is not itself a concrete table
func defaultInheritColumns(e *Entry) bool {
	return e.Parent != nil && !e.Parent.Table.IsTable
}

func (c Conventions) withDefaults() Conventions {
	d := DefaultConventions()
	if c.TableName == nil {
		c.TableName = d.TableName
	}

	if c.Schema == nil {
		c.Schema = d.Schema
	}

	if c.PrimaryKey == nil {
		c.PrimaryKey = d.PrimaryKey
	}

	if c.InheritTable == nil {
		c.InheritTable = d.InheritTable
	}

	if c.InheritColumns == nil {
		c.InheritColumns = d.InheritColumns
	}

	if c.ColumnFragment == nil {
		c.ColumnFragment = d.ColumnFragment
	}

	return c
}
