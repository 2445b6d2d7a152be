package mapper

import (
	"reflect"

	"table-mapper/internal/expr"
)

// Config is the typed registration handle of T. Its ...Of setters take
// accessors returning the address of a member:
//
//	mapper.Register(b, func(c *mapper.Config[Employee]) {
//		c.PrimaryKeyOf(func(e *Employee) any { return &e.ID }).
//			ColumnNameOf(func(e *Employee) any { return &e.Address }, "Addr", mapper.Partial())
//	})
type Config[T any] struct {
	*TypeConfig
}

// Accessor selects a member of T by returning its address.
type Accessor[T any] func(*T) any

// Register registers T and applies configure to its typed handle.
func Register[T any](b *Builder, configure ...func(*Config[T])) (*Config[T], error) {
	c, err := b.RegisterType(reflect.TypeFor[T]())
	if c == nil {
		return nil, err
	}

	typed := &Config[T]{TypeConfig: c}
	for _, fn := range configure {
		if fn != nil {
			fn(typed)
		}
	}

	return typed, typed.err
}

// RegisterNested registers T as a nested value type.
func RegisterNested[T any](b *Builder) error {
	return b.RegisterNestedType(reflect.TypeFor[T]())
}

// TableFor returns the table of T, or nil when T is not a registered table.
func TableFor[T any](b *Builder) (*Table, error) {
	return b.Table(reflect.TypeFor[T]())
}

// ColumnNameOf returns the column name of the member selected by fn.
func ColumnNameOf[T any](b *Builder, fn Accessor[T]) (string, error) {
	path, err := expr.PathOf[T](fn)
	if err != nil {
		return "", err
	}

	return b.ColumnName(reflect.TypeFor[T](), path)
}

// PathOf returns the member path selected by fn.
func PathOf[T any](fn Accessor[T]) (string, error) {
	return expr.PathOf[T](fn)
}

// paths converts accessors to member paths. A failure is recorded like any
// other setter error, and so is a call after resolution.
func (c *Config[T]) paths(fns []Accessor[T]) (paths []string, ok bool) {
	c.update(func() error {
		paths = make([]string, 0, len(fns))

		for _, fn := range fns {
			p, err := expr.PathOf[T](fn)
			if err != nil {
				return newError(ErrInvalidMember, c.ID(), "", "%v", err)
			}

			paths = append(paths, p)
		}

		ok = true

		return nil
	})

	return paths, ok
}

func (c *Config[T]) path(fn Accessor[T]) (string, bool) {
	paths, ok := c.paths([]Accessor[T]{fn})
	if !ok {
		return "", false
	}

	return paths[0], true
}

// TableName overrides the table name.
func (c *Config[T]) TableName(name string) *Config[T] {
	c.TypeConfig.TableName(name)
	return c
}

// Schema overrides the schema.
func (c *Config[T]) Schema(schema string) *Config[T] {
	c.TypeConfig.Schema(schema)
	return c
}

// InheritTable makes T share its ancestor's table.
func (c *Config[T]) InheritTable(v bool) *Config[T] {
	c.TypeConfig.InheritTable(v)
	return c
}

// InheritColumns makes T copy its ancestor's columns.
func (c *Config[T]) InheritColumns(v bool) *Config[T] {
	c.TypeConfig.InheritColumns(v)
	return c
}

// IsTable sets whether T is published as a table.
func (c *Config[T]) IsTable(v bool) *Config[T] {
	c.TypeConfig.IsTable(v)
	return c
}

// AddMetadata sets a table-level metadata entry.
func (c *Config[T]) AddMetadata(key string, value any) *Config[T] {
	c.TypeConfig.AddMetadata(key, value)
	return c
}

// RemoveMetadata deletes a table-level metadata entry.
func (c *Config[T]) RemoveMetadata(key string) *Config[T] {
	c.TypeConfig.RemoveMetadata(key)
	return c
}

// PrimaryKeyOf appends key members.
func (c *Config[T]) PrimaryKeyOf(fns ...Accessor[T]) *Config[T] {
	if paths, ok := c.paths(fns); ok {
		c.TypeConfig.PrimaryKey(paths...)
	}

	return c
}

// ForeignKeyOf marks a member as foreign key.
func (c *Config[T]) ForeignKeyOf(fn Accessor[T], opts ...NameOption) *Config[T] {
	if p, ok := c.path(fn); ok {
		c.TypeConfig.ForeignKey(p, opts...)
	}

	return c
}

// ColumnNameOf overrides the column name of a member.
func (c *Config[T]) ColumnNameOf(fn Accessor[T], name string, opts ...NameOption) *Config[T] {
	if p, ok := c.path(fn); ok {
		c.TypeConfig.ColumnName(p, name, opts...)
	}

	return c
}

// IgnoreOf excludes members from the mapping.
func (c *Config[T]) IgnoreOf(fns ...Accessor[T]) *Config[T] {
	if paths, ok := c.paths(fns); ok {
		c.TypeConfig.Ignore(paths...)
	}

	return c
}

// AddMemberMetadataOf sets a metadata entry on a member.
func (c *Config[T]) AddMemberMetadataOf(fn Accessor[T], key string, value any) *Config[T] {
	if p, ok := c.path(fn); ok {
		c.TypeConfig.AddMemberMetadata(p, key, value)
	}

	return c
}

// RemoveMemberMetadataOf deletes a metadata entry of a member.
func (c *Config[T]) RemoveMemberMetadataOf(fn Accessor[T], key string) *Config[T] {
	if p, ok := c.path(fn); ok {
		c.TypeConfig.RemoveMemberMetadata(p, key)
	}

	return c
}
