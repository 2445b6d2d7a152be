package model

import (
	"reflect"
)

// FromReflect returns the TypeInfo describing rt, building and caching it on
// first use. Named types declared in a package are also recorded in g.Types.
func (g *Graph) FromReflect(rt reflect.Type) *TypeInfo {
	if rt == nil {
		return nil
	}

	// Check cache to handle recursive types
	if cached, ok := g.reflectCache[rt]; ok {
		return cached
	}

	info := &TypeInfo{
		ID:      TypeID{PkgPath: rt.PkgPath(), Name: rt.Name()},
		Reflect: rt,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	g.reflectCache[rt] = info

	switch rt.Kind() {
	case reflect.Struct:
		info.Kind = KindStruct
		g.reflectFields(rt, info)

	case reflect.Pointer:
		info.Kind = KindPointer
		info.Elem = g.FromReflect(rt.Elem())

	case reflect.Slice:
		info.Kind = KindSlice
		info.Elem = g.FromReflect(rt.Elem())

	case reflect.Array:
		info.Kind = KindArray
		info.Elem = g.FromReflect(rt.Elem())

	case reflect.Map:
		info.Kind = KindMap
		info.Key = g.FromReflect(rt.Key())
		info.Elem = g.FromReflect(rt.Elem())

	case reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		info.Kind = KindUnknown

	default:
		if info.IsNamed() && rt.PkgPath() != "" {
			// e.g. type Status string
			info.Kind = KindAlias
			info.Underlying = &TypeInfo{Kind: KindBasic, ID: TypeID{Name: rt.Kind().String()}}
		} else {
			info.Kind = KindBasic
		}
	}

	if info.IsNamed() && info.ID.PkgPath != "" {
		g.Add(info)
	}

	return info
}

// reflectFields extracts fields from a struct type. Unexported fields are
// kept only when embedded, since their exported members are still promoted.
// Blank fields contribute their tag to the type-level marker.
func (g *Graph) reflectFields(rt reflect.Type, info *TypeInfo) {
	for i := range rt.NumField() {
		sf := rt.Field(i)

		if sf.Name == "_" {
			info.Marker = MergeMarker(info.Marker, sf.Tag)
			continue
		}

		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     sf.Name,
			Exported: sf.IsExported(),
			Type:     g.FromReflect(sf.Type),
			Tag:      sf.Tag,
			Embedded: sf.Anonymous,
			Index:    i,
		})
	}
}

// MergeMarker joins the tags of several blank fields into one marker.
func MergeMarker(marker, tag reflect.StructTag) reflect.StructTag {
	if marker == "" {
		return tag
	}

	if tag == "" {
		return marker
	}

	return marker + " " + tag
}
