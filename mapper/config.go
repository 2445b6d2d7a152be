package mapper

import (
	"maps"
	"slices"

	"table-mapper/model"
)

// ForeignKey marks a member path as a foreign key, optionally naming its
// column.
type ForeignKey struct {
	Path    string
	Name    string
	Partial bool
}

// ColumnName overrides the column name of a member path. A partial name is
// composed with the names of the segments above it.
type ColumnName struct {
	Name    string
	Partial bool
}

// RawConfig is the configuration collected for one type before resolution.
// Nil pointers mean "not configured".
type RawConfig struct {
	IsTable        *bool
	InheritTable   *bool
	InheritColumns *bool
	Schema         *string
	TableName      *string
	PrimaryKeys    []string
	ForeignKeys    []ForeignKey
	Ignored        []string
	ColumnNames    map[string]ColumnName
	Metadata       map[string]any
	MemberMetadata map[string]map[string]any
}

// Clone returns a deep copy, so resolution never observes later edits.
func (r RawConfig) Clone() RawConfig {
	out := RawConfig{
		IsTable:        clonePtr(r.IsTable),
		InheritTable:   clonePtr(r.InheritTable),
		InheritColumns: clonePtr(r.InheritColumns),
		Schema:         clonePtr(r.Schema),
		TableName:      clonePtr(r.TableName),
		PrimaryKeys:    slices.Clone(r.PrimaryKeys),
		ForeignKeys:    slices.Clone(r.ForeignKeys),
		Ignored:        slices.Clone(r.Ignored),
		ColumnNames:    maps.Clone(r.ColumnNames),
		Metadata:       maps.Clone(r.Metadata),
	}

	if r.MemberMetadata != nil {
		out.MemberMetadata = make(map[string]map[string]any, len(r.MemberMetadata))
		for path, m := range r.MemberMetadata {
			out.MemberMetadata[path] = maps.Clone(m)
		}
	}

	return out
}

// ForeignKey returns the foreign key configured on exactly path.
func (r *RawConfig) ForeignKey(path string) (ForeignKey, bool) {
	for _, fk := range r.ForeignKeys {
		if fk.Path == path {
			return fk, true
		}
	}

	return ForeignKey{}, false
}

func (r *RawConfig) setForeignKey(fk ForeignKey) {
	for i := range r.ForeignKeys {
		if r.ForeignKeys[i].Path == fk.Path {
			r.ForeignKeys[i] = fk
			return
		}
	}

	r.ForeignKeys = append(r.ForeignKeys, fk)
}

func (r *RawConfig) setColumnName(path string, cn ColumnName) {
	if r.ColumnNames == nil {
		r.ColumnNames = make(map[string]ColumnName)
	}

	r.ColumnNames[path] = cn
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

// NameOption configures a foreign key or column name.
type NameOption func(*ColumnName)

// Named sets an explicit column name.
func Named(name string) NameOption {
	return func(c *ColumnName) { c.Name = name }
}

// Partial marks the name as a fragment composed with its parents' names.
func Partial() NameOption {
	return func(c *ColumnName) { c.Partial = true }
}

// TypeConfig is the mutable registration handle of one type. Setters return
// the handle for chaining; the first failing setter is kept in Err and fails
// the next resolution.
type TypeConfig struct {
	builder *Builder
	info    *model.TypeInfo
	raw     RawConfig
	auto    bool
	seq     int
	err     error
}

// ID returns the registered type's identifier.
func (c *TypeConfig) ID() model.TypeID {
	return c.info.ID
}

// Info returns the registered type.
func (c *TypeConfig) Info() *model.TypeInfo {
	return c.info
}

// Auto reports whether the type was registered implicitly as an ancestor.
func (c *TypeConfig) Auto() bool {
	return c.auto
}

// Parent returns the configuration of the nearest registered ancestor.
func (c *TypeConfig) Parent() *TypeConfig {
	base := c.builder.baseType(c.info)
	if base == nil {
		return nil
	}

	return c.builder.configs[base.ID]
}

// Depth counts the ancestors above the type.
func (c *TypeConfig) Depth() int {
	depth := 0
	for t := c.builder.baseType(c.info); t != nil; t = c.builder.baseType(t) {
		depth++
	}

	return depth
}

// Err returns the first error raised by a setter.
func (c *TypeConfig) Err() error {
	return c.err
}

// Raw returns a copy of the configuration collected so far.
func (c *TypeConfig) Raw() RawConfig {
	return c.raw.Clone()
}

func (c *TypeConfig) update(fn func() error) *TypeConfig {
	if c.err != nil {
		return c
	}

	if c.builder.resolved() {
		c.err = newError(ErrAlreadyInitialized, c.ID(), "", "configuration cannot change after resolution")
		return c
	}

	if err := fn(); err != nil {
		c.err = err
	}

	return c
}

func (c *TypeConfig) checkPath(path string) error {
	if _, err := c.info.Lookup(path); err != nil {
		return newError(ErrInvalidMember, c.ID(), path, "%v", err)
	}

	return nil
}

// TableName overrides the table name.
func (c *TypeConfig) TableName(name string) *TypeConfig {
	return c.update(func() error {
		if name == "" {
			return newError(ErrInvalidConfig, c.ID(), "", "empty table name")
		}

		c.raw.TableName = &name

		return nil
	})
}

// Schema overrides the schema.
func (c *TypeConfig) Schema(schema string) *TypeConfig {
	return c.update(func() error {
		c.raw.Schema = &schema
		return nil
	})
}

// PrimaryKey appends key members; call it with several paths, or several
// times, for composite keys.
func (c *TypeConfig) PrimaryKey(paths ...string) *TypeConfig {
	return c.update(func() error {
		for _, p := range paths {
			if err := c.checkPath(p); err != nil {
				return err
			}

			if !slices.Contains(c.raw.PrimaryKeys, p) {
				c.raw.PrimaryKeys = append(c.raw.PrimaryKeys, p)
			}
		}

		return nil
	})
}

// ForeignKey marks path as a foreign key. On a relation member it selects
// the target members used as key columns ("Department.Code").
func (c *TypeConfig) ForeignKey(path string, opts ...NameOption) *TypeConfig {
	return c.update(func() error {
		if err := c.checkPath(path); err != nil {
			return err
		}

		var cn ColumnName
		for _, opt := range opts {
			opt(&cn)
		}

		c.raw.setForeignKey(ForeignKey{Path: path, Name: cn.Name, Partial: cn.Partial})

		return nil
	})
}

// ColumnName overrides the column name of path.
func (c *TypeConfig) ColumnName(path, name string, opts ...NameOption) *TypeConfig {
	return c.update(func() error {
		if err := c.checkPath(path); err != nil {
			return err
		}

		cn := ColumnName{Name: name}
		for _, opt := range opts {
			opt(&cn)
		}

		if cn.Name == "" {
			return newError(ErrInvalidConfig, c.ID(), path, "empty column name")
		}

		c.raw.setColumnName(path, cn)

		return nil
	})
}

// Ignore excludes members, and everything below them, from the mapping.
func (c *TypeConfig) Ignore(paths ...string) *TypeConfig {
	return c.update(func() error {
		for _, p := range paths {
			if err := c.checkPath(p); err != nil {
				return err
			}

			if !slices.Contains(c.raw.Ignored, p) {
				c.raw.Ignored = append(c.raw.Ignored, p)
			}
		}

		return nil
	})
}

// InheritTable makes the type share its ancestor's table.
func (c *TypeConfig) InheritTable(v bool) *TypeConfig {
	return c.update(func() error {
		c.raw.InheritTable = &v
		return nil
	})
}

// InheritColumns makes the type copy its ancestor's columns.
func (c *TypeConfig) InheritColumns(v bool) *TypeConfig {
	return c.update(func() error {
		c.raw.InheritColumns = &v
		return nil
	})
}

// IsTable sets whether the type is published as a table.
func (c *TypeConfig) IsTable(v bool) *TypeConfig {
	return c.update(func() error {
		c.raw.IsTable = &v
		return nil
	})
}

// AddMetadata sets a table-level metadata entry.
func (c *TypeConfig) AddMetadata(key string, value any) *TypeConfig {
	return c.update(func() error {
		if key == "" {
			return newError(ErrInvalidConfig, c.ID(), "", "empty metadata key")
		}

		if c.raw.Metadata == nil {
			c.raw.Metadata = make(map[string]any)
		}

		c.raw.Metadata[key] = value

		return nil
	})
}

// RemoveMetadata deletes a table-level metadata entry.
func (c *TypeConfig) RemoveMetadata(key string) *TypeConfig {
	return c.update(func() error {
		delete(c.raw.Metadata, key)
		return nil
	})
}

// AddMemberMetadata sets a metadata entry on a member path.
func (c *TypeConfig) AddMemberMetadata(path, key string, value any) *TypeConfig {
	return c.update(func() error {
		if err := c.checkPath(path); err != nil {
			return err
		}

		if key == "" {
			return newError(ErrInvalidConfig, c.ID(), path, "empty metadata key")
		}

		if c.raw.MemberMetadata == nil {
			c.raw.MemberMetadata = make(map[string]map[string]any)
		}

		if c.raw.MemberMetadata[path] == nil {
			c.raw.MemberMetadata[path] = make(map[string]any)
		}

		c.raw.MemberMetadata[path][key] = value

		return nil
	})
}

// RemoveMemberMetadata deletes a metadata entry of a member path.
func (c *TypeConfig) RemoveMemberMetadata(path, key string) *TypeConfig {
	return c.update(func() error {
		if err := c.checkPath(path); err != nil {
			return err
		}

		if m := c.raw.MemberMetadata[path]; m != nil {
			delete(m, key)

			if len(m) == 0 {
				delete(c.raw.MemberMetadata, path)
			}
		}

		return nil
	})
}
