package config

import (
	"errors"
	"fmt"

	"table-mapper/mapper"
	"table-mapper/model"
)

// Options returns the builder options selected by the file.
func Options(f *File) ([]mapper.Option, error) {
	conv, ok := mapper.ConventionsByName(f.Conventions)
	if !ok {
		return nil, fmt.Errorf("unknown conventions %q", f.Conventions)
	}

	opts := []mapper.Option{mapper.WithConventions(conv)}

	if f.Annotations != nil {
		opts = append(opts, mapper.WithAnnotations(*f.Annotations))
	}

	if f.Metadata != nil {
		opts = append(opts, mapper.WithMetadata(*f.Metadata))
	}

	return opts, nil
}

// NewBuilder validates f and returns a builder over graph with the file's
// options and registrations applied. Extra options are applied last.
func NewBuilder(f *File, graph *model.Graph, opts ...mapper.Option) (*mapper.Builder, error) {
	fileOpts, err := Options(f)
	if err != nil {
		return nil, err
	}

	all := append([]mapper.Option{mapper.WithGraph(graph)}, fileOpts...)
	b := mapper.NewBuilder(append(all, opts...)...)

	if err := Apply(f, b, graph); err != nil {
		return nil, err
	}

	return b, nil
}

// Apply registers the nested types, tables and metadata processors of f on
// b. The file is validated first; invalid files are not applied.
func Apply(f *File, b *mapper.Builder, graph *model.Graph) error {
	if diags := Validate(f, graph); diags.HasErrors() {
		return diags.Error()
	}

	if f.Annotations != nil {
		if err := b.EnableAnnotations(*f.Annotations); err != nil {
			return err
		}
	}

	if f.Metadata != nil {
		if err := b.EnableMetadata(*f.Metadata); err != nil {
			return err
		}
	}

	for _, ref := range f.Nested {
		if err := b.RegisterNestedInfo(ResolveTypeID(ref, graph)); err != nil {
			return fmt.Errorf("nested %s: %w", ref, err)
		}
	}

	var errs []error

	for i := range f.Tables {
		tc := &f.Tables[i]

		if _, err := b.RegisterInfo(ResolveTypeID(tc.Type, graph), tc.configure); err != nil {
			errs = append(errs, fmt.Errorf("table %s: %w", tc.Type, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	if len(f.MetadataProcessors) == 0 {
		return nil
	}

	for _, mp := range b.MetadataProcessors() {
		if err := b.RemoveProcessor(mp); err != nil {
			return err
		}
	}

	for _, mp := range f.MetadataProcessors {
		if err := b.AddMetadataProcessor(mp.processor()); err != nil {
			return err
		}
	}

	return nil
}

// configure replays the table entry through the fluent API.
func (tc *Table) configure(c *mapper.TypeConfig) {
	if tc.Table != "" {
		c.TableName(tc.Table)
	}

	if tc.Schema != nil {
		c.Schema(*tc.Schema)
	}

	if tc.IsTable != nil {
		c.IsTable(*tc.IsTable)
	}

	if tc.InheritTable != nil {
		c.InheritTable(*tc.InheritTable)
	}

	if tc.InheritColumns != nil {
		c.InheritColumns(*tc.InheritColumns)
	}

	if len(tc.PrimaryKey) > 0 {
		c.PrimaryKey(tc.PrimaryKey...)
	}

	for _, fk := range tc.ForeignKeys {
		var opts []mapper.NameOption
		if fk.Name != "" {
			opts = append(opts, mapper.Named(fk.Name))
		}

		if fk.Partial {
			opts = append(opts, mapper.Partial())
		}

		c.ForeignKey(fk.Path, opts...)
	}

	if len(tc.Ignore) > 0 {
		c.Ignore(tc.Ignore...)
	}

	for _, path := range sortedKeys(tc.Columns) {
		col := tc.Columns[path]
		if col.Partial {
			c.ColumnName(path, col.Name, mapper.Partial())
		} else {
			c.ColumnName(path, col.Name)
		}
	}

	for _, key := range sortedKeys(tc.Metadata) {
		c.AddMetadata(key, tc.Metadata[key])
	}

	for _, path := range sortedKeys(tc.MemberMetadata) {
		entries := tc.MemberMetadata[path]
		for _, key := range sortedKeys(entries) {
			c.AddMemberMetadata(path, key, entries[key])
		}
	}
}

func (mp MetadataProcessor) processor() *mapper.MetadataProcessor {
	p := mapper.NewMetadataProcessor()
	if mp.Name != "" {
		p.Label = mp.Name
	}

	p.InheritAllTable = mp.InheritAllTable
	p.InheritAllMembers = mp.InheritAllMembers
	p.AlwaysInherit = mp.AlwaysInherit
	p.Ignore = mp.Ignore

	return p
}
