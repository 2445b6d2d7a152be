package catalog

import (
	"encoding/json"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"table-mapper/mapper"
	"table-mapper/model"
)

// Version is the snapshot format version.
const Version = "1"

// Snapshot is a serializable description of every published table.
type Snapshot struct {
	Version string   `yaml:"version" json:"version"`
	Tables  []*Table `yaml:"tables" json:"tables"`
}

// Table is one published table.
type Table struct {
	Type           string         `yaml:"type" json:"type"`
	Schema         string         `yaml:"schema,omitempty" json:"schema,omitempty"`
	Name           string         `yaml:"name" json:"name"`
	InheritTable   bool           `yaml:"inherit_table,omitempty" json:"inherit_table,omitempty"`
	InheritColumns bool           `yaml:"inherit_columns,omitempty" json:"inherit_columns,omitempty"`
	PrimaryKey     []string       `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	Columns        []*Column      `yaml:"columns" json:"columns"`
	Metadata       map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Column is one column of a table.
type Column struct {
	Path       string         `yaml:"path" json:"path"`
	Name       string         `yaml:"name" json:"name"`
	PrimaryKey bool           `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	ForeignKey bool           `yaml:"foreign_key,omitempty" json:"foreign_key,omitempty"`
	References *Reference     `yaml:"references,omitempty" json:"references,omitempty"`
	Metadata   map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Reference is the target of a foreign-key column.
type Reference struct {
	Table  string `yaml:"table" json:"table"`   // qualified table name
	Column string `yaml:"column" json:"column"` // column name in the target table
}

// QualifiedName returns schema.name, or name without a schema.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}

	return t.Schema + "." + t.Name
}

// Column returns the column with the given member path, or nil.
func (t *Table) Column(path string) *Column {
	for _, c := range t.Columns {
		if c.Path == path {
			return c
		}
	}

	return nil
}

// TableOf returns the table exported for the given type, or nil.
func (s *Snapshot) TableOf(typ string) *Table {
	for _, t := range s.Tables {
		if t.Type == typ {
			return t
		}
	}

	return nil
}

// Table returns the first table with the given qualified name, or nil.
// Types that inherit their ancestor's table share its name.
func (s *Snapshot) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.QualifiedName() == name {
			return t
		}
	}

	return nil
}

// TableNames returns the qualified table names in snapshot order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.QualifiedName())
	}

	return names
}

// Build resolves b and copies its tables into a snapshot, referenced tables
// first.
func Build(b *mapper.Builder) (*Snapshot, error) {
	tables, err := b.Tables()
	if err != nil {
		return nil, err
	}

	out := make([]*Table, 0, len(tables))
	refs := make([][]model.TypeID, 0, len(tables))

	for _, t := range tables {
		ct, targets, err := buildTable(b, t)
		if err != nil {
			return nil, err
		}

		out = append(out, ct)
		refs = append(refs, targets)
	}

	index := make(map[model.TypeID]int, len(tables))
	for i, t := range tables {
		index[t.Type] = i
	}

	order := orderTables(len(out), func(i int) []int {
		var deps []int
		for _, id := range refs[i] {
			if j, ok := index[id]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})

	snap := &Snapshot{Version: Version, Tables: make([]*Table, 0, len(out))}
	for _, i := range order {
		snap.Tables = append(snap.Tables, out[i])
	}

	return snap, nil
}

// buildTable converts one resolved table and returns the types its foreign
// keys reference.
func buildTable(b *mapper.Builder, t *mapper.Table) (*Table, []model.TypeID, error) {
	ct := &Table{
		Type:           t.Type.String(),
		Schema:         t.Schema,
		Name:           t.Name,
		InheritTable:   t.InheritTable,
		InheritColumns: t.InheritColumns,
		Metadata:       cloneMetadata(t.Metadata),
		Columns:        make([]*Column, 0, len(t.Columns)),
	}

	for _, pk := range t.PrimaryKeys {
		ct.PrimaryKey = append(ct.PrimaryKey, t.ColumnNames[pk])
	}

	info := b.Graph().GetType(t.Type)

	var targets []model.TypeID

	for _, path := range t.Columns {
		col := &Column{
			Path:       path,
			Name:       t.ColumnNames[path],
			PrimaryKey: t.IsPrimaryKey(path),
			ForeignKey: t.IsForeignKey(path),
			Metadata:   cloneMetadata(t.MemberMetadata[path]),
		}

		if col.ForeignKey && info != nil {
			ref, target, err := reference(b, info, path)
			if err != nil {
				return nil, nil, fmt.Errorf("table %s column %s: %w", t.QualifiedName(), path, err)
			}

			if ref != nil {
				col.References = ref
				targets = append(targets, target)
			}
		}

		ct.Columns = append(ct.Columns, col)
	}

	return ct, targets, nil
}

// reference finds the relation a foreign-key column was expanded from: the
// first member on the path whose type is a resolved table. Scalar
// foreign-key columns have no reference.
func reference(b *mapper.Builder, info *model.TypeInfo, path string) (*Reference, model.TypeID, error) {
	chain, err := info.Lookup(path)
	if err != nil {
		return nil, model.TypeID{}, err
	}

	for i, m := range chain[:len(chain)-1] {
		vt := m.Field.Type.Deref()
		if vt == nil || vt.ID.IsZero() || b.IsNested(vt.ID) {
			continue
		}

		target, err := b.Resolved(vt.ID)
		if err != nil {
			return nil, model.TypeID{}, err
		}

		if target == nil {
			continue
		}

		rest := make([]string, 0, len(chain)-i-1)
		for _, rm := range chain[i+1:] {
			rest = append(rest, rm.Name)
		}

		return &Reference{
			Table:  target.QualifiedName(),
			Column: target.ColumnNames[model.Join(rest...)],
		}, vt.ID, nil
	}

	return nil, model.TypeID{}, nil
}

func cloneMetadata(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}

	return maps.Clone(m)
}

// EncodeYAML encodes the snapshot as YAML. Map keys are sorted, so equal
// snapshots always encode to the same bytes.
func (s *Snapshot) EncodeYAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return data, nil
}

// EncodeJSON encodes the snapshot as indented JSON.
func (s *Snapshot) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return data, nil
}

// ParseYAML decodes a snapshot written by EncodeYAML.
func ParseYAML(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &s, nil
}
