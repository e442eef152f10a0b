package classify

import (
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Assemble orders leveled candidates by page and vertical position and pairs
// them with the title. Candidates are not filtered here.
func Assemble(title string, cands []Candidate) doctree.DocumentOutline {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Y < sorted[j].Y
	})

	out := doctree.Empty()
	out.Title = strings.TrimSpace(title)
	for _, c := range sorted {
		out.Outline = append(out.Outline, doctree.OutlineEntry{
			Level: c.Level,
			Text:  strings.TrimSpace(c.Text),
			Page:  c.Page,
		})
	}
	return out
}
