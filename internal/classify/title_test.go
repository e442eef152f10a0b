package classify

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestExtractTitle_SingleProminentLine(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "ANNUAL REPORT 2024", FontSize: 24, Y: 80},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "ANNUAL REPORT 2024" {
		t.Errorf("expected %q, got %q", "ANNUAL REPORT 2024", got)
	}
}

func TestExtractTitle_LargestFontWins(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "Company Confidential", FontSize: 10, Y: 20},
		{Page: 1, Text: "Quarterly Review", FontSize: 28, Y: 200},
		{Page: 1, Text: "Prepared for the board", FontSize: 14, Y: 260},
		{Page: 2, Text: "Huge Page Two Banner", FontSize: 40, Y: 10},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "Quarterly Review" {
		t.Errorf("expected %q, got %q", "Quarterly Review", got)
	}
}

func TestExtractTitle_TieBrokenByTopmost(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "Lower Heading", FontSize: 20, Y: 400},
		{Page: 1, Text: "Upper Heading", FontSize: 20, Y: 100},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "Upper Heading" {
		t.Errorf("expected %q, got %q", "Upper Heading", got)
	}
}

func TestExtractTitle_MergesWrappedLines(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "A Study of Heading", FontSize: 24, Y: 100},
		{Page: 1, Text: "Detection in Long Documents", FontSize: 24, Y: 128},
		{Page: 1, Text: "Jane Doe", FontSize: 12, Y: 180},
	})
	want := "A Study of Heading Detection in Long Documents"
	if got := ExtractTitle(doc, DefaultConfig()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractTitle_DoesNotMergeDistantLines(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "First Banner", FontSize: 24, Y: 100},
		{Page: 1, Text: "Second Banner", FontSize: 24, Y: 300},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "First Banner" {
		t.Errorf("expected %q, got %q", "First Banner", got)
	}
}

func TestExtractTitle_GapThresholdIsTunable(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "Wrapped", FontSize: 20, Y: 100},
		{Page: 1, Text: "Title", FontSize: 20, Y: 130},
	})
	cfg := DefaultConfig()
	if got := ExtractTitle(doc, cfg); got != "Wrapped" {
		t.Errorf("expected no merge at default gap, got %q", got)
	}
	cfg.TitleLineGapThreshold = 12
	if got := ExtractTitle(doc, cfg); got != "Wrapped Title" {
		t.Errorf("expected merge with wider gap, got %q", got)
	}
}

func TestExtractTitle_SkipsPunctuatedSentences(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "This page is intentionally blank.", FontSize: 30, Y: 50},
		{Page: 1, Text: "Real Title", FontSize: 20, Y: 120},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "Real Title" {
		t.Errorf("expected %q, got %q", "Real Title", got)
	}
}

func TestExtractTitle_AmbiguousIsEmpty(t *testing.T) {
	doc := Normalize([]doctree.Fragment{
		{Page: 1, Text: "This sentence is far too long to ever be considered a title by the extractor at all", FontSize: 12},
		{Page: 2, Text: "Later Page", FontSize: 30},
	})
	if got := ExtractTitle(doc, DefaultConfig()); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}
