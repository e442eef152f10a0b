// Package classify turns the fragments of one document into a title and a
// leveled heading outline. Every stage is a pure function of its input; no
// state survives between documents.
package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/text/unicode/norm"
)

// Casing classifies the capitalization pattern of a fragment.
type Casing int

const (
	CasingOther Casing = iota
	CasingAllCaps
	CasingTitle
	CasingSentence
)

func (c Casing) String() string {
	switch c {
	case CasingAllCaps:
		return "ALL_CAPS"
	case CasingTitle:
		return "TITLE_CASE"
	case CasingSentence:
		return "SENTENCE_CASE"
	}
	return "OTHER"
}

// FeatureRecord is a fragment plus the features the later stages read.
type FeatureRecord struct {
	doctree.Fragment

	// Index is the position of the fragment in the input stream.
	Index            int
	RelativeFontRank int
	// NumberingDepth is 0 when the text has no leading section number.
	NumberingDepth              int
	Casing                      Casing
	WordCount                   int
	EndsWithTerminalPunctuation bool
	StartsWithBullet            bool
}

// Numbered reports whether the record carries a section number.
func (r FeatureRecord) Numbered() bool {
	return r.NumberingDepth > 0
}

// Document is the per-document context shared by all stages.
type Document struct {
	Records []FeatureRecord
	// Sizes holds the distinct font sizes, largest first. Index == rank.
	Sizes []float64
}

// RankCount is the number of distinct font ranks in the document.
func (d Document) RankCount() int {
	return len(d.Sizes)
}

// Normalize computes feature records for one document, in input order.
func Normalize(frags []doctree.Fragment) Document {
	doc := Document{Records: make([]FeatureRecord, 0, len(frags))}
	if len(frags) == 0 {
		return doc
	}

	seen := make(map[float64]bool)
	for _, f := range frags {
		if !seen[f.FontSize] {
			seen[f.FontSize] = true
			doc.Sizes = append(doc.Sizes, f.FontSize)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(doc.Sizes)))
	rank := make(map[float64]int, len(doc.Sizes))
	for i, s := range doc.Sizes {
		rank[s] = i
	}

	for i, f := range frags {
		f.Text = CleanText(f.Text)
		doc.Records = append(doc.Records, FeatureRecord{
			Fragment:                    f,
			Index:                       i,
			RelativeFontRank:            rank[f.FontSize],
			NumberingDepth:              NumberingDepth(f.Text),
			Casing:                      ClassifyCasing(f.Text),
			WordCount:                   len(strings.Fields(f.Text)),
			EndsWithTerminalPunctuation: EndsWithTerminalPunctuation(f.Text),
			StartsWithBullet:            StartsWithBullet(f.Text),
		})
	}
	return doc
}

// CleanText folds compatibility glyphs (ligatures, full-width forms), drops
// non-printable runes and collapses whitespace.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

var numberingPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?(?:\s|$)`)

// NumberingDepth returns the number of digit groups in a leading section
// number ("2.1.3 Scope" -> 3), or 0 when there is none.
func NumberingDepth(text string) int {
	m := numberingPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

// ClassifyCasing applies the casing rules in order: all caps, title case,
// sentence case, other. Words without letters are ignored.
func ClassifyCasing(text string) Casing {
	hasLetter, allUpper := false, true
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				allUpper = false
			}
		}
	}
	if !hasLetter {
		return CasingOther
	}
	if allUpper {
		return CasingAllCaps
	}

	var initials []rune
	for _, w := range strings.Fields(text) {
		for _, r := range w {
			if unicode.IsLetter(r) {
				initials = append(initials, r)
				break
			}
		}
	}
	upper := 0
	for _, r := range initials {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if float64(upper) >= 0.6*float64(len(initials)) {
		return CasingTitle
	}
	if upper == 1 && unicode.IsUpper(initials[0]) {
		return CasingSentence
	}
	return CasingOther
}

// EndsWithTerminalPunctuation reports sentence-ending punctuation. A trailing
// colon marks a label, not a sentence, and does not count.
func EndsWithTerminalPunctuation(text string) bool {
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, `"')]”’`)
	if text == "" {
		return false
	}
	switch r := []rune(text); r[len(r)-1] {
	case '.', '!', '?', ';', ',', '…':
		return true
	}
	return false
}

var bulletPattern = regexp.MustCompile(`^(?:[•◦▪▫‣⁃●○■□\-–—*+·]\s|(?:\d+|[a-zA-Z])\)\s|\((?:\d+|[a-zA-Z])\)\s)`)

// StartsWithBullet reports list-item markers: glyph bullets, dashes and
// parenthesised enumerators like "a) " or "(1) ".
func StartsWithBullet(text string) bool {
	t := strings.TrimSpace(text)
	if t == "•" || t == "-" || t == "*" {
		return true
	}
	return bulletPattern.MatchString(t)
}
