package model

import (
	"go/types"
	"reflect"

	"table-mapper/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "table-mapper/examples/hr"
	Name    string // e.g., "Employee"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the last package path element,
// e.g. "hr.Employee".
func (t TypeID) Short() string {
	alias := common.PkgAlias(t.PkgPath)
	if alias == "" {
		return t.Name
	}

	return alias + "." + t.Name
}

// IsZero reports whether the ID names no type (unnamed types).
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// Kind represents the kind of a type.
type Kind int

const (
	KindUnknown  Kind = iota
	KindBasic         // int, string, bool, etc.
	KindStruct        // struct type
	KindPointer       // pointer to another type
	KindSlice         // slice of another type
	KindArray         // array of another type
	KindMap           // map with Key and Elem
	KindAlias         // named type wrapping another
	KindExternal      // opaque type from a package that was not analyzed
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindStruct:
		return "struct"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindAlias:
		return "alias"
	case KindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// IsCollection reports whether values of this kind hold many elements.
func (k Kind) IsCollection() bool {
	return k == KindSlice || k == KindArray || k == KindMap
}

// TypeInfo describes a Go type known to the mapper.
//
// TypeInfo values are produced either from reflection (Graph.FromReflect) or
// from source (internal/analyze). Both sources fill the same fields.
type TypeInfo struct {
	ID         TypeID            // Unique identifier (empty for unnamed types like *T or []T)
	Kind       Kind              // Kind of type
	Underlying *TypeInfo         // For named non-struct types, the underlying type
	Elem       *TypeInfo         // For pointers, slices, arrays and maps, the element type
	Key        *TypeInfo         // For maps, the key type
	Fields     []FieldInfo       // For structs, the list of fields
	Marker     reflect.StructTag // Tag of the blank "_" field(s), the type-level marker
	GoType     types.Type        // The go/types.Type when loaded from source
	Reflect    reflect.Type      // The reflect.Type when built from reflection

	members []Member
	all     []Member
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Deref follows pointers down to the first non-pointer type.
func (t *TypeInfo) Deref() *TypeInfo {
	for t != nil && t.Kind == KindPointer && t.Elem != nil {
		t = t.Elem
	}

	return t
}

// IsStruct reports whether the type, ignoring pointers, is a struct.
func (t *TypeInfo) IsStruct() bool {
	d := t.Deref()
	return d != nil && d.Kind == KindStruct
}

// TypeTag returns the parsed type-level marker stored under key.
func (t *TypeInfo) TypeTag(key string) (Tag, bool) {
	v, ok := t.Marker.Lookup(key)
	if !ok {
		return Tag{}, false
	}

	return ParseTag(v), true
}

// Abstract reports whether the type-level marker declares the type abstract.
func (t *TypeInfo) Abstract() bool {
	tag, ok := t.TypeTag(TagKey)
	return ok && tag.Has(OptAbstract)
}

// NestedMarker reports whether the type-level marker declares the type a
// nested value object.
func (t *TypeInfo) NestedMarker() bool {
	tag, ok := t.TypeTag(TagKey)
	return ok && tag.Has(OptNested)
}

// String returns the type identifier or a Go-like description of unnamed types.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		return t.ID.String()
	}

	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.String()
	case KindSlice:
		return "[]" + t.Elem.String()
	case KindArray:
		return "[...]" + t.Elem.String()
	case KindMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case KindStruct:
		return "struct{...}"
	default:
		return t.Kind.String()
	}
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// Graph holds every type known to a mapper, keyed by TypeID.
type Graph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	reflectCache map[reflect.Type]*TypeInfo
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Types:        make(map[TypeID]*TypeInfo),
		Packages:     make(map[string]*PackageInfo),
		reflectCache: make(map[reflect.Type]*TypeInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *Graph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Add records a named type in the graph and its package.
func (g *Graph) Add(info *TypeInfo) {
	if info == nil || !info.IsNamed() {
		return
	}

	if _, ok := g.Types[info.ID]; !ok {
		pkg := g.Packages[info.ID.PkgPath]
		if pkg == nil {
			pkg = &PackageInfo{Path: info.ID.PkgPath, Name: common.PkgAlias(info.ID.PkgPath)}
			g.Packages[info.ID.PkgPath] = pkg
		}

		pkg.Types = append(pkg.Types, info.ID)
	}

	g.Types[info.ID] = info
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
