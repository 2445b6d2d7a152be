package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"table-mapper/internal/match"
)

// PathSep separates the segments of a member path.
const PathSep = "."

// Join builds a dotted path from segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))

	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, PathSep)
}

// Split returns the segments of a dotted path.
func Split(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, PathSep)
}

// Last returns the final segment of path.
func Last(path string) string {
	if i := strings.LastIndex(path, PathSep); i >= 0 {
		return path[i+1:]
	}

	return path
}

// HasPrefix reports whether prefix equals path or names one of its
// ancestors segment-wise ("A" prefixes "A.B" but not "AB").
func HasPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}

	if path == prefix {
		return true
	}

	return strings.HasPrefix(path, prefix+PathSep)
}

// IsUnder reports whether path is strictly below prefix.
func IsUnder(path, prefix string) bool {
	return path != prefix && HasPrefix(path, prefix)
}

// Covered reports whether path or one of its prefixes is in paths.
func Covered(path string, paths []string) bool {
	for _, p := range paths {
		if HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// MergeCovering appends the paths of add to base that are not already
// covered by a path in base, dropping base entries that an added shorter
// path now covers. Order is preserved.
func MergeCovering(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	out = append(out, base...)

	for _, p := range add {
		if Covered(p, out) {
			continue
		}

		kept := out[:0]
		for _, q := range out {
			if !HasPrefix(q, p) {
				kept = append(kept, q)
			}
		}

		out = append(kept, p)
	}

	return out
}

// ValidatePath checks the syntax of a dotted path.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("empty path")
	}

	for _, seg := range Split(path) {
		if seg == "" {
			return fmt.Errorf("invalid path %q: empty segment", path)
		}

		if !isValidIdent(seg) {
			return fmt.Errorf("invalid path %q: invalid identifier %q", path, seg)
		}
	}

	return nil
}

// PathError reports a path that does not resolve on a type.
type PathError struct {
	Type       TypeID // Root type of the lookup
	Path       string // Full path requested
	Segment    string // First segment that could not be resolved
	Owner      string // Type on which Segment was looked up
	Suggestion string // Closest existing member name, if any
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("member %q not found in %s (path %q)", e.Segment, e.Owner, e.Path)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}

	return msg
}

// Lookup resolves a dotted path against the type and returns the member for
// every segment. Pointers are dereferenced between segments.
func (t *TypeInfo) Lookup(path string) ([]Member, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	segments := Split(path)
	chain := make([]Member, 0, len(segments))
	current := t.Deref()

	for _, seg := range segments {
		if current == nil || current.Kind != KindStruct {
			owner := "<nil>"
			if current != nil {
				owner = current.String()
			}

			return nil, &PathError{Type: t.ID, Path: path, Segment: seg, Owner: owner}
		}

		m, ok := current.Member(seg)
		if !ok {
			return nil, &PathError{
				Type:       t.ID,
				Path:       path,
				Segment:    seg,
				Owner:      current.String(),
				Suggestion: match.Closest(seg, current.MemberNames()),
			}
		}

		chain = append(chain, m)
		current = m.Field.Type.Deref()
	}

	return chain, nil
}

// isValidIdent reports whether s is a Go identifier. Go accepts any Unicode
// letter or digit, so fields like Größe are valid.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
