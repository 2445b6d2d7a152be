package mapper

import (
	"maps"
	"reflect"
	"slices"

	"table-mapper/internal/naming"
	"table-mapper/model"
)

// Table is the resolved description of one type. It is never modified once
// the builder has published it.
type Table struct {
	Type           model.TypeID
	IsTable        bool
	InheritTable   bool
	InheritColumns bool
	Schema         string
	Name           string
	PrimaryKeys    []string          // member paths, in key order
	Columns        []string          // member paths, primary keys first
	ForeignKeys    []string          // subset of Columns, in column order
	ColumnNames    map[string]string // member path to column name
	Names          []string          // distinct column names, in column order
	Metadata       map[string]any
	MemberMetadata map[string]map[string]any
	Properties     []*model.Property // own discovered members
}

func newTable(id model.TypeID) *Table {
	return &Table{
		Type:           id,
		ColumnNames:    make(map[string]string),
		Metadata:       make(map[string]any),
		MemberMetadata: make(map[string]map[string]any),
	}
}

// QualifiedName returns schema.name, or name without a schema.
func (t *Table) QualifiedName() string {
	return naming.Qualified(t.Schema, t.Name)
}

// ColumnName returns the column name of a member path.
func (t *Table) ColumnName(path string) (string, error) {
	name, ok := t.ColumnNames[path]
	if !ok {
		return "", newError(ErrPropertyNotRegistered, t.Type, path, "path is not a column of table %s", t.QualifiedName())
	}

	return name, nil
}

// IsColumn reports whether path is a column.
func (t *Table) IsColumn(path string) bool {
	_, ok := t.ColumnNames[path]
	return ok
}

// IsPrimaryKey reports whether path is part of the primary key.
func (t *Table) IsPrimaryKey(path string) bool {
	return slices.Contains(t.PrimaryKeys, path)
}

// IsForeignKey reports whether path is a foreign-key column.
func (t *Table) IsForeignKey(path string) bool {
	return slices.Contains(t.ForeignKeys, path)
}

// MetadataValue returns a table-level metadata entry.
func (t *Table) MetadataValue(key string) (any, bool) {
	v, ok := t.Metadata[key]
	return v, ok
}

// MemberMetadataValue returns a metadata entry of a member path.
func (t *Table) MemberMetadataValue(path, key string) (any, bool) {
	v, ok := t.MemberMetadata[path][key]
	return v, ok
}

// MemberMetadataAll returns a copy of every metadata entry of a member path;
// the map is empty, never nil, when there is none.
func (t *Table) MemberMetadataAll(path string) map[string]any {
	m := maps.Clone(t.MemberMetadata[path])
	if m == nil {
		m = make(map[string]any)
	}

	return m
}

// MetadataAs returns a table metadata entry converted to V. The zero value
// and false are returned when the key is absent or cannot be converted.
func MetadataAs[V any](t *Table, key string) (V, bool) {
	v, ok := t.MetadataValue(key)
	if !ok {
		var zero V
		return zero, false
	}

	return cast[V](v)
}

// MetadataOr is MetadataAs with a fallback value.
func MetadataOr[V any](t *Table, key string, def V) V {
	if v, ok := MetadataAs[V](t, key); ok {
		return v
	}

	return def
}

// MemberMetadataAs returns a member metadata entry converted to V.
func MemberMetadataAs[V any](t *Table, path, key string) (V, bool) {
	v, ok := t.MemberMetadataValue(path, key)
	if !ok {
		var zero V
		return zero, false
	}

	return cast[V](v)
}

// MemberMetadataOr is MemberMetadataAs with a fallback value.
func MemberMetadataOr[V any](t *Table, path, key string, def V) V {
	if v, ok := MemberMetadataAs[V](t, path, key); ok {
		return v
	}

	return def
}

// cast converts v to V by assertion, or by conversion between numeric kinds
// (metadata read from YAML arrives as int or float64). Conversions that
// change the number, like a negative value to an unsigned type, an overflow
// or a dropped fraction, fail.
func cast[V any](v any) (V, bool) {
	if out, ok := v.(V); ok {
		return out, true
	}

	var zero V

	rv := reflect.ValueOf(v)
	target := reflect.TypeFor[V]()

	if !rv.IsValid() || !isNumeric(rv.Kind()) || !isNumeric(target.Kind()) || !rv.Type().ConvertibleTo(target) {
		return zero, false
	}

	cv := rv.Convert(target)
	if !lossless(rv, cv) {
		return zero, false
	}

	out, ok := cv.Interface().(V)

	return out, ok
}

// lossless reports whether out holds the number in holds. Between float
// kinds only the magnitude must fit.
func lossless(in, out reflect.Value) bool {
	switch {
	case isFloat(in.Kind()) && isFloat(out.Kind()):
		return !reflect.Zero(out.Type()).OverflowFloat(in.Float())
	case isSigned(in.Kind()) && isUnsigned(out.Kind()):
		if in.Int() < 0 {
			return false
		}
	case isUnsigned(in.Kind()) && isSigned(out.Kind()):
		if out.Int() < 0 {
			return false
		}
	}

	return out.Convert(in.Type()).Equal(in)
}

func isNumeric(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || isFloat(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
