package classify

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func cand(text string, rank int) Candidate {
	c := Candidate{FeatureRecord: record(text)}
	c.RelativeFontRank = rank
	return c
}

func TestAssignLevels_NumberingDepth(t *testing.T) {
	cands := []Candidate{
		cand("1 Scope", 3),
		cand("1.1 Terms", 0),
		cand("1.1.1 Detail", 0),
		cand("1.1.1.1 Deeper", 0),
	}
	AssignLevels(cands)
	want := []doctree.Level{doctree.H1, doctree.H2, doctree.H3, doctree.H3}
	for i, w := range want {
		if cands[i].Level != w {
			t.Errorf("%q: expected %s, got %s", cands[i].Text, w, cands[i].Level)
		}
	}
}

func TestAssignLevels_FontBuckets(t *testing.T) {
	cands := []Candidate{
		cand("Chapter", 1),
		cand("Section", 3),
		cand("Minor", 4),
		cand("Tiny", 6),
		cand("Chapter Two", 1),
	}
	AssignLevels(cands)
	want := []doctree.Level{doctree.H1, doctree.H2, doctree.H3, doctree.H3, doctree.H1}
	for i, w := range want {
		if cands[i].Level != w {
			t.Errorf("%q: expected %s, got %s", cands[i].Text, w, cands[i].Level)
		}
	}
}

func TestAssignLevels_TwoRanksCollapse(t *testing.T) {
	cands := []Candidate{cand("Big", 2), cand("Small", 5)}
	AssignLevels(cands)
	if cands[0].Level != doctree.H1 || cands[1].Level != doctree.H2 {
		t.Errorf("expected H1/H2, got %s/%s", cands[0].Level, cands[1].Level)
	}
}

func TestAssignLevels_NumberingWinsOverFont(t *testing.T) {
	// The numbered candidate has the smallest font but stays H1; it also
	// does not occupy a font bucket.
	cands := []Candidate{
		cand("1. Overview", 9),
		cand("Large Banner", 0),
		cand("Medium Banner", 2),
	}
	AssignLevels(cands)
	if cands[0].Level != doctree.H1 {
		t.Errorf("expected numbered candidate at H1, got %s", cands[0].Level)
	}
	if cands[1].Level != doctree.H1 || cands[2].Level != doctree.H2 {
		t.Errorf("expected font buckets H1/H2, got %s/%s", cands[1].Level, cands[2].Level)
	}
}

func TestAssignLevels_InconsistentNumberingNotRepaired(t *testing.T) {
	cands := []Candidate{cand("2.1 Late", 0), cand("1 Early", 0), cand("2.1 Late", 0)}
	AssignLevels(cands)
	want := []doctree.Level{doctree.H2, doctree.H1, doctree.H2}
	for i, w := range want {
		if cands[i].Level != w {
			t.Errorf("candidate %d: expected %s, got %s", i, w, cands[i].Level)
		}
	}
}

func TestAssignLevels_Empty(t *testing.T) {
	AssignLevels(nil)
}
