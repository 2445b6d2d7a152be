package mapper

import (
	"slices"

	"table-mapper/model"
)

// AnnotationProcessor reads struct tags into the raw configuration. Values
// set through the fluent API are never overwritten.
//
// Type-level marker, on a blank field:
//
//	_ struct{} `table:"employees,schema=hr,table=true,inherit,columns=false,abstract,nested"`
//
// Member tags:
//
//	ID      int        `table:"employee_id,pk,order=1"`
//	Address Address    `table:"addr,partial"`
//	Dept    Department `fk:"Code,name=dept_code;Region,name=dept_region"`
type AnnotationProcessor struct{}

// Name implements Processor.
func (p *AnnotationProcessor) Name() string {
	return StageAnnotations.String()
}

// Process implements Processor.
func (p *AnnotationProcessor) Process(s *State) error {
	for _, e := range s.Entries() {
		if err := p.typeMarker(e); err != nil {
			return err
		}

		if err := p.primaryKeys(e); err != nil {
			return err
		}

		p.columnNames(e)

		if err := p.foreignKeys(e); err != nil {
			return err
		}
	}

	return nil
}

func (p *AnnotationProcessor) typeMarker(e *Entry) error {
	tag, ok := e.Info.TypeTag(model.TagKey)
	if !ok {
		return nil
	}

	cfg := e.Config

	if cfg.TableName == nil && tag.Name != "" {
		name := tag.Name
		cfg.TableName = &name
	}

	if v, ok := tag.Value(model.OptSchema); ok && cfg.Schema == nil {
		cfg.Schema = &v
	}

	flags := []struct {
		opt string
		dst **bool
	}{
		{model.OptTable, &cfg.IsTable},
		{model.OptInherit, &cfg.InheritTable},
		{model.OptColumns, &cfg.InheritColumns},
	}

	for _, f := range flags {
		v, err := tag.Bool(f.opt)
		if err != nil {
			return newError(ErrInvalidConfig, e.ID(), "", "type marker: %v", err)
		}

		if v != nil && *f.dst == nil {
			*f.dst = v
		}
	}

	return nil
}

func (p *AnnotationProcessor) primaryKeys(e *Entry) error {
	if len(e.Config.PrimaryKeys) > 0 {
		return nil
	}

	type key struct {
		path  string
		order int
	}

	var keys []key

	for _, prop := range e.Properties {
		tag, ok := memberTag(prop)
		if !ok || !tag.Has(model.OptPK) {
			continue
		}

		order, err := tag.Int(model.OptOrder)
		if err != nil {
			return newError(ErrInvalidConfig, e.ID(), prop.Path, "%v", err)
		}

		keys = append(keys, key{path: prop.Path, order: order})
	}

	slices.SortStableFunc(keys, func(a, b key) int { return a.order - b.order })

	for _, k := range keys {
		e.Config.PrimaryKeys = append(e.Config.PrimaryKeys, k.path)
	}

	return nil
}

func (p *AnnotationProcessor) columnNames(e *Entry) {
	for _, prop := range e.Properties {
		tag, ok := memberTag(prop)
		if !ok || tag.Name == "" {
			continue
		}

		if _, set := e.Config.ColumnNames[prop.Path]; set {
			continue
		}

		if fk, set := e.Config.ForeignKey(prop.Path); set && fk.Name != "" {
			continue
		}

		e.Config.setColumnName(prop.Path, ColumnName{Name: tag.Name, Partial: tag.Has(model.OptPartial)})
	}
}

func (p *AnnotationProcessor) foreignKeys(e *Entry) error {
	for _, prop := range e.Properties {
		markers := model.ParseTagList(prop.Field.GetTag(model.ForeignKeyTagKey))
		if len(markers) == 0 {
			continue
		}

		if prop.Kind == model.PropertyColumn {
			if len(markers) > 1 {
				return newError(ErrMultipleForeignKeys, e.ID(), prop.Path,
					"invalid multiple foreign key on column member (%d markers)", len(markers))
			}

			if markers[0].Name != "" {
				return newError(ErrInvalidConfig, e.ID(), prop.Path,
					"foreign key marker on a column cannot name a property (%q)", markers[0].Name)
			}
		}

		if len(markers) > 1 {
			for _, m := range markers {
				if m.Name == "" {
					return newError(ErrEmptyForeignKeyProperty, e.ID(), prop.Path,
						"empty property name in multiple foreign key")
				}
			}
		}

		for _, m := range markers {
			path := model.Join(prop.Path, m.Name)
			if _, err := e.Info.Lookup(path); err != nil {
				return newError(ErrInvalidMember, e.ID(), path, "foreign key marker: %v", err)
			}

			if _, set := e.Config.ForeignKey(path); set {
				continue
			}

			name, _ := m.Value(model.OptName)
			e.Config.setForeignKey(ForeignKey{Path: path, Name: name, Partial: m.Has(model.OptPartial)})
		}
	}

	return nil
}

func memberTag(prop *model.Property) (model.Tag, bool) {
	v, ok := prop.Field.Tag.Lookup(model.TagKey)
	if !ok {
		return model.Tag{}, false
	}

	return model.ParseTag(v), true
}
