package analyze

import (
	"sort"

	"table-mapper/model"
)

// TypeString returns a short Go-like spelling of a type, qualifying named
// types with their package name only ("hr.Employee", "[]*hr.Project").
func TypeString(t *model.TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case model.KindBasic:
		return t.ID.Name

	case model.KindPointer:
		return "*" + TypeString(t.Elem)

	case model.KindSlice:
		return "[]" + TypeString(t.Elem)

	case model.KindArray:
		return "[...]" + TypeString(t.Elem)

	case model.KindMap:
		return "map[" + TypeString(t.Key) + "]" + TypeString(t.Elem)

	case model.KindStruct, model.KindAlias, model.KindExternal:
		if t.IsNamed() {
			return t.ID.Short()
		}

		if t.Kind == model.KindStruct {
			return "struct{...}"
		}

		return TypeString(t.Underlying)

	default:
		if t.GoType != nil {
			return t.GoType.String()
		}

		return t.Kind.String()
	}
}

// MemberPaths lists the dotted paths of every member reachable from root,
// descending into struct members up to maxDepth levels. Collections are not
// entered. Paths are sorted.
func MemberPaths(root *model.TypeInfo, maxDepth int) []string {
	root = root.Deref()
	if root == nil || root.Kind != model.KindStruct {
		return nil
	}

	var out []string
	memberPaths(root, "", 0, maxDepth, map[*model.TypeInfo]bool{}, &out)
	sort.Strings(out)

	return out
}

func memberPaths(t *model.TypeInfo, prefix string, depth, maxDepth int, active map[*model.TypeInfo]bool, out *[]string) {
	if depth > maxDepth || active[t] {
		return
	}

	active[t] = true
	defer delete(active, t)

	for _, m := range t.Members() {
		path := model.Join(prefix, m.Name)
		*out = append(*out, path)

		if ft := m.Field.Type.Deref(); ft != nil && ft.Kind == model.KindStruct {
			memberPaths(ft, path, depth+1, maxDepth, active, out)
		}
	}
}
