package mapper

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"table-mapper/model"
)

// CoreProcessor resolves table identity, primary keys, columns, foreign keys
// and column names. The identity pass runs over every type before the column
// pass, since foreign-key expansion needs the primary keys of other types.
type CoreProcessor struct{}

// Name implements Processor.
func (p *CoreProcessor) Name() string {
	return StageCore.String()
}

// Process implements Processor.
func (p *CoreProcessor) Process(s *State) error {
	for _, e := range s.Entries() {
		if err := p.identity(s, e); err != nil {
			return err
		}
	}

	for _, e := range s.Entries() {
		if err := p.columns(s, e); err != nil {
			return err
		}

		s.Logger().Debug("resolved type",
			zap.Stringer("type", e.ID()),
			zap.String("table", e.Table.QualifiedName()),
			zap.Bool("is_table", e.Table.IsTable),
			zap.Strings("columns", e.Table.Columns))
	}

	return nil
}

func (p *CoreProcessor) identity(s *State, e *Entry) error {
	cfg, t, conv := e.Config, e.Table, s.Conventions()

	t.IsTable = valueOr(cfg.IsTable, !e.Info.Abstract())
	t.InheritTable = valueOr(cfg.InheritTable, conv.InheritTable(e))

	if t.InheritTable {
		t.InheritColumns = true
	} else {
		t.InheritColumns = valueOr(cfg.InheritColumns, conv.InheritColumns(e))
	}

	if (t.InheritTable || t.InheritColumns) && e.Parent == nil {
		return newError(ErrMissingBase, e.ID(), "",
			"inherit table/columns is set but the type has no ancestor (inherit_table=%t, inherit_columns=%t)",
			t.InheritTable, t.InheritColumns)
	}

	if t.InheritTable {
		t.Schema = e.Parent.Table.Schema
		t.Name = e.Parent.Table.Name
	} else {
		t.Schema = valueOr(cfg.Schema, conv.Schema(e.Info))
		t.Name = valueOr(cfg.TableName, conv.TableName(e.Info))
	}

	keys := notIgnored(e, unique(cfg.PrimaryKeys))
	if len(keys) == 0 && e.Parent != nil {
		keys = notIgnored(e, e.Parent.Table.PrimaryKeys)
	}

	if len(keys) == 0 {
		if name := conv.PrimaryKey(e.Info); name != "" {
			_, err := e.Info.Lookup(name)
			switch {
			case err == nil && !e.IsIgnored(name):
				keys = []string{name}
			case t.IsTable:
				return newError(ErrPrimaryKeyNotFound, e.ID(), name,
					"default primary key %q does not exist on the type; configure a primary key", name)
			}
		}
	}

	t.PrimaryKeys = keys

	return nil
}

func (p *CoreProcessor) columns(s *State, e *Entry) error {
	cfg, t, parent := e.Config, e.Table, e.Parent

	// explicit foreign keys: own first, then the ancestor's when columns are inherited
	e.foreignKeys = nil
	for _, fk := range cfg.ForeignKeys {
		if !e.IsIgnored(fk.Path) {
			e.foreignKeys = append(e.foreignKeys, fk)
		}
	}

	if parent != nil && t.InheritColumns {
		for _, fk := range parent.foreignKeys {
			if e.IsIgnored(fk.Path) || slices.ContainsFunc(e.foreignKeys, func(o ForeignKey) bool { return o.Path == fk.Path }) {
				continue
			}

			e.foreignKeys = append(e.foreignKeys, fk)
		}
	}

	var own []string
	expanded := make(map[string][]string)
	fromRelation := make(map[string]bool)

	for _, prop := range e.Properties {
		switch prop.Kind {
		case model.PropertyColumn:
			own = append(own, prop.Path)

		case model.PropertyTable:
			leaves, err := p.expandRelation(s, e, prop)
			if err != nil {
				return err
			}

			expanded[prop.Path] = leaves
			own = append(own, leaves...)

			for _, l := range leaves {
				fromRelation[l] = true
			}
		}
	}

	columns := unique(own)

	if parent != nil {
		for _, c := range parent.Table.Columns {
			if e.IsIgnored(c) || slices.Contains(columns, c) {
				continue
			}

			if t.InheritColumns || slices.Contains(t.PrimaryKeys, c) {
				columns = append(columns, c)
			}
		}
	}

	for _, k := range t.PrimaryKeys {
		if !slices.Contains(columns, k) {
			return newError(ErrPrimaryKeyNotColumn, e.ID(), k, "primary key does not exist as a column")
		}
	}

	ordered := make([]string, 0, len(columns))
	ordered = append(ordered, t.PrimaryKeys...)

	for _, c := range columns {
		if !slices.Contains(t.PrimaryKeys, c) {
			ordered = append(ordered, c)
		}
	}

	t.Columns = ordered

	t.ForeignKeys = nil
	for _, c := range t.Columns {
		if p.isForeignKey(e, c, fromRelation) {
			t.ForeignKeys = append(t.ForeignKeys, c)
		}
	}

	e.names = p.nameConfig(e)

	for _, prop := range e.Properties {
		rel, leaves := prop.Path, expanded[prop.Path]

		cn, ok := e.names[rel]
		if !ok || cn.Partial || len(leaves) < 2 {
			continue
		}

		for _, l := range leaves {
			if _, named := e.names[l]; !named {
				return newError(ErrForeignKeyNameAmbiguous, e.ID(), rel,
					"foreign key property not specified for column name of property %s and the property has multiple foreign keys (%v)",
					rel, leaves)
			}
		}
	}

	conv := s.Conventions()
	t.ColumnNames = make(map[string]string, len(t.Columns))
	t.Names = nil

	for _, c := range t.Columns {
		name := columnName(e.ID(), c, e.names, conv.ColumnFragment)
		t.ColumnNames[c] = name

		if !slices.Contains(t.Names, name) {
			t.Names = append(t.Names, name)
		}
	}

	return nil
}

// expandRelation returns the key columns of a relation member: the explicit
// foreign-key paths below it, or one path per primary key of its target.
func (p *CoreProcessor) expandRelation(s *State, e *Entry, prop *model.Property) ([]string, error) {
	var explicit []string

	for _, fk := range e.foreignKeys {
		if model.IsUnder(fk.Path, prop.Path) {
			explicit = append(explicit, fk.Path)
		}
	}

	if len(explicit) > 0 {
		return explicit, nil
	}

	target := s.Entry(prop.Value.ID)
	if target == nil {
		return nil, newError(ErrInvalidType, e.ID(), prop.Path, "relation target %s is not registered", prop.Value.ID)
	}

	switch keys := target.Table.PrimaryKeys; len(keys) {
	case 0:
		return nil, newError(ErrForeignKeyNoPrimaryKey, e.ID(), prop.Path,
			"foreign key property not specified for %s and the type %s does not have a primary key",
			prop.Path, target.ID())
	case 1:
		return []string{model.Join(prop.Path, keys[0])}, nil
	default:
		return nil, newError(ErrForeignKeyMultiplePrimaryKeys, e.ID(), prop.Path,
			"foreign key property not specified for %s and the type %s has multiple primary keys %v",
			prop.Path, target.ID(), keys)
	}
}

func (p *CoreProcessor) isForeignKey(e *Entry, column string, fromRelation map[string]bool) bool {
	if fromRelation[column] {
		return true
	}

	for _, fk := range e.Config.ForeignKeys {
		if model.HasPrefix(column, fk.Path) {
			return true
		}
	}

	return e.Parent != nil && slices.Contains(e.Parent.Table.ForeignKeys, column)
}

// nameConfig merges the ancestor's naming configuration with the type's own.
// Explicit column names win over names given with a foreign key.
func (p *CoreProcessor) nameConfig(e *Entry) map[string]ColumnName {
	names := make(map[string]ColumnName)
	if e.Parent != nil {
		maps.Copy(names, e.Parent.names)
	}

	for _, fk := range e.Config.ForeignKeys {
		if fk.Name != "" {
			names[fk.Path] = ColumnName{Name: fk.Name, Partial: fk.Partial}
		}
	}

	maps.Copy(names, e.Config.ColumnNames)

	return names
}

func valueOr[T any](p *T, def T) T {
	if p != nil {
		return *p
	}

	return def
}

func unique(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}

	return out
}

func notIgnored(e *Entry, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !e.IsIgnored(p) {
			out = append(out, p)
		}
	}

	return out
}
