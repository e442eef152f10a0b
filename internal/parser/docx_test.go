package parser

import (
	"bytes"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

func styled(p *docx.Paragraph, style string) *docx.Paragraph {
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	p.Properties.Style = &docx.Style{Val: style}
	return p
}

func buildDOCX(t *testing.T) []byte {
	t.Helper()
	w := docx.New().WithDefaultTheme()

	styled(w.AddParagraph(), "Title").AddText("Annual Review")
	styled(w.AddParagraph(), "Heading1").AddText("Overview")
	w.AddParagraph().AddText("Body text sits under the overview.")
	styled(w.AddParagraph(), "ListParagraph").AddText("first point")
	w.AddParagraph().AddText("Key Results").Bold().Size("32")
	mixed := w.AddParagraph()
	mixed.AddText("Partly ").Bold()
	mixed.AddText("bold line")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser_StylesAndRuns(t *testing.T) {
	frags, err := (&DOCXParser{}).Parse(bytes.NewReader(buildDOCX(t)), "review.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []doctree.Fragment{
		{Text: "Annual Review", FontSize: titleSize, Bold: true},
		{Text: "Overview", FontSize: headingSize(1), Bold: true},
		{Text: "Body text sits under the overview.", FontSize: bodySize},
		{Text: bulletPrefix + "first point", FontSize: bodySize},
		{Text: "Key Results", FontSize: 16, Bold: true},
		{Text: "Partly bold line", FontSize: bodySize},
	}
	if len(frags) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(frags), frags)
	}
	for i, w := range want {
		got := frags[i]
		if got.Text != w.Text || got.FontSize != w.FontSize || got.Bold != w.Bold {
			t.Errorf("frag[%d]: expected %q size=%v bold=%v, got %q size=%v bold=%v",
				i, w.Text, w.FontSize, w.Bold, got.Text, got.FontSize, got.Bold)
		}
		if got.Page != 1 {
			t.Errorf("frag[%d]: expected page 1, got %d", i, got.Page)
		}
		if i > 0 && got.Y <= frags[i-1].Y {
			t.Errorf("frag[%d]: expected Y below previous line, got %v after %v", i, got.Y, frags[i-1].Y)
		}
	}
}

func TestDOCXParser_InvalidArchive(t *testing.T) {
	if _, err := (&DOCXParser{}).Parse(bytes.NewReader([]byte("not a zip")), "bad.docx"); err == nil {
		t.Error("expected error for invalid docx")
	}
}
