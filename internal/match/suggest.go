package match

import (
	"cmp"
	"slices"
)

// DefaultMinSimilarity is the lowest similarity a candidate needs to be suggested.
const DefaultMinSimilarity = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates most similar to name, best first.
// Candidates scoring below DefaultMinSimilarity are dropped. Ties keep
// lexical order so the output is deterministic.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	ranked := make([]scored, 0, len(candidates))

	for _, c := range candidates {
		s := Similarity(name, c)
		if s < DefaultMinSimilarity {
			continue
		}

		ranked = append(ranked, scored{name: c, score: s})
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
