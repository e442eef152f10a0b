package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading and title styles become sized bold
// fragments; explicit run sizes and bold runs are carried through.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) ([]doctree.Fragment, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docoutline-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	w := newLineWriter()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, runSize, allBold := docxParagraphRuns(para)
		if text == "" {
			w.skip()
			continue
		}

		style := docxStyle(para)
		switch {
		case strings.EqualFold(style, "Title"):
			w.add(text, titleSize, true)
		case docxHeadingLevel(style) > 0:
			w.add(text, headingSize(docxHeadingLevel(style)), true)
		case strings.HasPrefix(strings.ToLower(style), "list"):
			w.add(bulletPrefix+text, bodySize, false)
		default:
			fontSize := bodySize
			if runSize > 0 {
				fontSize = runSize
			}
			w.add(text, fontSize, allBold)
		}
	}
	return w.fragments(), nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// docxParagraphRuns returns the paragraph text, the largest explicit run size
// in points (0 if none) and whether every text run is bold.
func docxParagraphRuns(para *docx.Paragraph) (string, float64, bool) {
	var buf strings.Builder
	var maxSize float64
	allBold, sawRun := true, false
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var runText strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				runText.WriteString(t.Text)
			}
		}
		if strings.TrimSpace(runText.String()) == "" {
			buf.WriteString(runText.String())
			continue
		}
		sawRun = true
		buf.WriteString(runText.String())

		props := run.RunProperties
		if props == nil || props.Bold == nil {
			allBold = false
		}
		if props != nil && props.Size != nil {
			// w:sz is in half-points.
			if half, err := strconv.ParseFloat(props.Size.Val, 64); err == nil && half/2 > maxSize {
				maxSize = half / 2
			}
		}
	}
	return strings.TrimSpace(buf.String()), maxSize, sawRun && allBold
}
