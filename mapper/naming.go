package mapper

import (
	"strings"

	"table-mapper/model"
)

// columnName resolves the name of a column path.
//
// Segments are walked from the leaf to the root. Unnamed segments contribute
// their default fragment. The first configured name found ends the walk
// unless it is partial; a partial name is kept and the walk continues with
// the segments above it, stopping at the next non-partial name. A
// non-partial name found first replaces everything below it.
func columnName(owner model.TypeID, path string, names map[string]ColumnName, fragment func(model.TypeID, []string) string) string {
	segments := model.Split(path)
	parts := make([]string, 0, len(segments))
	found := false

	for i := len(segments) - 1; i >= 0; i-- {
		prefix := strings.Join(segments[:i+1], model.PathSep)

		cn, ok := names[prefix]
		if !ok {
			parts = append(parts, fragment(owner, segments[:i+1]))
			continue
		}

		if !found && !cn.Partial {
			return cn.Name
		}

		found = true
		parts = append(parts, cn.Name)

		if !cn.Partial {
			break
		}
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}

	return b.String()
}
