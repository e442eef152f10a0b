package classify

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// AssignLevels sets Level on every candidate in place. Section numbers decide
// the level when present; otherwise the candidate's font rank is bucketed
// among the un-numbered candidates (largest -> H1, next -> H2, rest -> H3).
// Each candidate is leveled on its own: inconsistent numbering is not repaired.
func AssignLevels(cands []Candidate) {
	buckets := fontBuckets(cands)
	for i := range cands {
		c := &cands[i]
		if c.Numbered() {
			c.Level = doctree.LevelForDepth(c.NumberingDepth)
			continue
		}
		c.Level = buckets[c.RelativeFontRank]
	}
}

func fontBuckets(cands []Candidate) map[int]doctree.Level {
	seen := make(map[int]bool)
	var ranks []int
	for _, c := range cands {
		if c.Numbered() || seen[c.RelativeFontRank] {
			continue
		}
		seen[c.RelativeFontRank] = true
		ranks = append(ranks, c.RelativeFontRank)
	}
	sort.Ints(ranks)

	buckets := make(map[int]doctree.Level, len(ranks))
	for i, r := range ranks {
		buckets[r] = doctree.LevelForDepth(i + 1)
	}
	return buckets
}
