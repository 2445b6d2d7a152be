package config

import (
	"slices"
	"strings"

	"table-mapper/model"
)

// ResolveTypeID resolves a type reference like:
// - "hr.Employee" (short)
// - "table-mapper/examples/hr.Employee" (full)
// - "Employee" (name only).
//
// Short and name-only references must be unambiguous; nil is returned when
// nothing or more than one type matches.
func ResolveTypeID(ref string, graph *model.Graph) *model.TypeInfo {
	matches := TypeCandidates(ref, graph)
	if len(matches) != 1 {
		return nil
	}

	return matches[0]
}

// TypeCandidates returns every type a reference may denote, sorted by
// identifier. An exact import path match is returned alone.
func TypeCandidates(ref string, graph *model.Graph) []*model.TypeInfo {
	if graph == nil || ref == "" {
		return nil
	}

	pkgStr, name := "", ref
	if lastDot := strings.LastIndex(ref, "."); lastDot >= 0 {
		pkgStr, name = ref[:lastDot], ref[lastDot+1:]
		if pkgStr == "" || name == "" {
			return nil
		}

		// exact match (for fully qualified import path)
		if t := graph.GetType(model.TypeID{PkgPath: pkgStr, Name: name}); t != nil {
			return []*model.TypeInfo{t}
		}
	}

	var out []*model.TypeInfo

	for id, t := range graph.Types {
		if id.Name != name {
			continue
		}

		// suffix match (for short forms like "hr.Employee" vs "table-mapper/examples/hr.Employee")
		if pkgStr == "" || id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			out = append(out, t)
		}
	}

	slices.SortFunc(out, func(a, b *model.TypeInfo) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return out
}

// TypeNames lists the short names of every struct type in the graph.
func TypeNames(graph *model.Graph) []string {
	if graph == nil {
		return nil
	}

	var names []string

	for id, t := range graph.Types {
		if t.Kind == model.KindStruct {
			names = append(names, id.Short())
		}
	}

	slices.Sort(names)

	return names
}
