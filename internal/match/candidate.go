package match

import (
	"cmp"
	"slices"
)

// MinScore is the similarity a name needs to be suggested.
const MinScore = 0.6

// Candidate is a known name scored against one that failed to resolve.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores names against target, best first; equal scores keep name
// order. A name scores the better of its folded similarity and its
// similarity with key words dropped.
func Rank(target string, names []string) []Candidate {
	folded, key := Fold(target), FoldKey(target)

	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		out = append(out, Candidate{
			Name:  name,
			Score: max(Similarity(Fold(name), folded), Similarity(FoldKey(name), key)),
		})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Closest returns the known name most similar to target, or "" when none
// reaches MinScore or target is empty.
func Closest(target string, names []string) string {
	if target == "" {
		return ""
	}

	ranked := Rank(target, names)
	if len(ranked) == 0 || ranked[0].Score < MinScore {
		return ""
	}

	return ranked[0].Name
}
