package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"table-mapper/internal/diagnostic"
	"table-mapper/internal/match"
	"table-mapper/mapper"
	"table-mapper/model"
)

// Validate checks a configuration file against the given type graph. It is
// a structural check: type references, member paths and option values. Rules
// that need the whole model (keys, foreign-key targets) are left to the
// builder.
func Validate(f *File, graph *model.Graph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("config_is_nil", "config file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported config version %q", f.Version), "", "")
	}

	if _, ok := mapper.ConventionsByName(f.Conventions); !ok {
		res.AddError("unknown_conventions",
			fmt.Sprintf("unknown conventions %q (expected default or snake)", f.Conventions), "", "")
	}

	nested := make(map[model.TypeID]string)

	for _, ref := range f.Nested {
		t := resolveStruct(res, ref, graph)
		if t != nil {
			nested[t.ID] = ref
		}
	}

	seen := make(map[model.TypeID]string)

	for i := range f.Tables {
		validateTable(res, &f.Tables[i], graph, nested, seen)
	}

	for i, mp := range f.MetadataProcessors {
		for _, key := range mp.AlwaysInherit {
			if mp.Ignore.Contains(key) {
				res.AddWarning("metadata_key_conflict",
					fmt.Sprintf("metadata processor %d both ignores and always inherits %q", i, key), "", "")
			}
		}
	}

	return res
}

func validateTable(res *diagnostic.Diagnostics, tc *Table, graph *model.Graph, nested, seen map[model.TypeID]string) {
	t := resolveStruct(res, tc.Type, graph)
	if t == nil {
		return
	}

	ref := tc.Type

	if prev, dup := seen[t.ID]; dup {
		res.AddError("duplicate_table", fmt.Sprintf("type is configured twice (also as %q)", prev), ref, "")
		return
	}

	seen[t.ID] = ref

	if _, ok := nested[t.ID]; ok {
		res.AddError("conflicting_kind", "type is configured both as a table and as nested", ref, "")
	}

	base := t.BaseTypeFunc(func(bt *model.TypeInfo) bool {
		_, ok := nested[bt.ID]
		return ok
	})

	if base == nil && (isTrue(tc.InheritTable) || isTrue(tc.InheritColumns)) {
		res.AddError("missing_base", "inherit_table/inherit_columns set on a type without an embedded ancestor", ref, "")
	}

	if tc.InheritTable != nil && tc.InheritColumns != nil && *tc.InheritTable && !*tc.InheritColumns {
		res.AddWarning("inherit_columns_forced", "inherit_table implies inherit_columns; inherit_columns: false is ignored", ref, "")
	}

	for _, p := range tc.PrimaryKey {
		checkPath(res, "primary_key", t, ref, p)
	}

	fkPaths := make(map[string]bool, len(tc.ForeignKeys))

	for _, fk := range tc.ForeignKeys {
		checkPath(res, "foreign_keys", t, ref, fk.Path)

		if fkPaths[fk.Path] {
			res.AddWarning("duplicate_foreign_key", "foreign key listed twice; the last entry wins", ref, fk.Path)
		}

		fkPaths[fk.Path] = true
	}

	for _, p := range tc.Ignore {
		checkPath(res, "ignore", t, ref, p)

		if slices.Contains(tc.PrimaryKey, p) {
			res.AddWarning("ignored_primary_key", "primary key member is ignored", ref, p)
		}
	}

	for _, p := range sortedKeys(tc.Columns) {
		checkPath(res, "columns", t, ref, p)

		if strings.TrimSpace(tc.Columns[p].Name) == "" {
			res.AddError("empty_column_name", "column name is empty", ref, p)
		}
	}

	for _, p := range sortedKeys(tc.MemberMetadata) {
		checkPath(res, "member_metadata", t, ref, p)
	}

	if tc.Table == "" && tc.Schema != nil && *tc.Schema != "" && isTrue(tc.InheritTable) {
		res.AddWarning("schema_ignored", "schema is taken from the ancestor when inherit_table is set", ref, "")
	}
}

func resolveStruct(res *diagnostic.Diagnostics, ref string, graph *model.Graph) *model.TypeInfo {
	matches := TypeCandidates(ref, graph)

	switch len(matches) {
	case 0:
		var suggestions []string
		if s := match.Closest(ref, TypeNames(graph)); s != "" {
			suggestions = append(suggestions, s)
		}

		res.AddError("type_not_found", fmt.Sprintf("type %q not found", ref), ref, "", suggestions...)

		return nil

	case 1:
		t := matches[0]
		if t.Kind != model.KindStruct {
			res.AddError("not_a_struct", fmt.Sprintf("type %q is a %s, not a struct", ref, t.Kind), ref, "")
			return nil
		}

		return t

	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.ID.String())
		}

		res.AddError("ambiguous_type", fmt.Sprintf("type %q matches several types", ref), ref, "", names...)

		return nil
	}
}

func checkPath(res *diagnostic.Diagnostics, section string, t *model.TypeInfo, ref, path string) {
	_, err := t.Lookup(path)
	if err == nil {
		return
	}

	var perr *model.PathError
	if errors.As(err, &perr) && perr.Suggestion != "" {
		res.AddError("member_not_found",
			fmt.Sprintf("%s: member %q not found in %s", section, perr.Segment, perr.Owner), ref, path, perr.Suggestion)
		return
	}

	res.AddError("invalid_path", fmt.Sprintf("%s: %v", section, err), ref, path)
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
