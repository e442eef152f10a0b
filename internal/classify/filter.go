package classify

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Candidate is a feature record that survived filtering.
type Candidate struct {
	FeatureRecord

	Score float64
	Level doctree.Level
}

// RejectRule reports why a record cannot be a heading. Rules are evaluated
// independently; any one rejects.
type RejectRule struct {
	Name   string
	Reject func(r FeatureRecord, cfg Config) bool
}

// RejectRules is the structural filter, in no particular order.
var RejectRules = []RejectRule{
	{Name: "too-long", Reject: TooLong},
	{Name: "sentence", Reject: SentenceLike},
	{Name: "bullet", Reject: Bulleted},
	{Name: "no-content", Reject: NoContent},
	{Name: "dangling-connective", Reject: DanglingConnective},
}

// TooLong rejects lines with more words than the configured ceiling.
func TooLong(r FeatureRecord, cfg Config) bool {
	return r.WordCount > cfg.FragmentWordCeiling
}

// SentenceLike rejects punctuated prose that carries no section number.
func SentenceLike(r FeatureRecord, _ Config) bool {
	return r.EndsWithTerminalPunctuation && !r.Numbered()
}

// Bulleted rejects list items.
func Bulleted(r FeatureRecord, _ Config) bool {
	return r.StartsWithBullet
}

// NoContent rejects text that is empty or only punctuation and spaces.
func NoContent(r FeatureRecord, _ Config) bool {
	for _, c := range strings.TrimSpace(r.Text) {
		if !unicode.IsPunct(c) && !unicode.IsSpace(c) && !unicode.IsSymbol(c) {
			return false
		}
	}
	return true
}

var connectives = []string{"and", "or", "of", "the", "to", "for", "with", "in", "a", "an", "but"}

// DanglingConnective rejects wrapped sentence pieces: text that opens with a
// lowercase connective ("and the results") or trails off on one ("terms of").
func DanglingConnective(r FeatureRecord, _ Config) bool {
	words := strings.Fields(r.Text)
	if len(words) < 2 {
		return false
	}
	first, last := words[0], words[len(words)-1]
	for _, c := range connectives {
		if first == c || last == c {
			return true
		}
	}
	return false
}

// Rejected returns the names of every rule that rejects r.
func Rejected(r FeatureRecord, cfg Config) []string {
	var names []string
	for _, rule := range RejectRules {
		if rule.Reject(r, cfg) {
			names = append(names, rule.Name)
		}
	}
	return names
}

// Filter keeps the structurally eligible records as zero-score candidates.
func Filter(doc Document, cfg Config) []Candidate {
	var out []Candidate
	for _, r := range doc.Records {
		if len(Rejected(r, cfg)) > 0 {
			continue
		}
		out = append(out, Candidate{FeatureRecord: r})
	}
	return out
}
