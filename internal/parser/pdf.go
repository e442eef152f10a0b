package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// Row grouping tolerances, in points.
const (
	rowTolerance = 2.0
	// Gaps wider than this many font sizes split a row into separate fragments.
	columnGapRatio = 1.5
	// Gaps wider than this many font sizes insert a space between glyphs.
	spaceGapRatio = 0.15
)

// PDFParser handles PDF files. It reads positioned glyphs with the Go library
// and groups them into line fragments. When FallbackPdftotext is set and the
// library fails or finds no text, pdftotext -layout output is parsed as plain
// text instead.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]doctree.Fragment, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	frags, err := extractPDFFragments(tmpPath)
	if p.FallbackPdftotext && (err != nil || len(frags) == 0) {
		text, ferr := extractPdftotext(tmpPath)
		if ferr == nil {
			return (&TextParser{}).Parse(strings.NewReader(text), filename)
		}
		if err == nil {
			err = ferr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return frags, nil
}

func extractPDFFragments(path string) (frags []doctree.Fragment, err error) {
	// The library panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			frags, err = nil, fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		glyphs := page.Content().Text
		if len(glyphs) == 0 {
			continue
		}
		height := pageHeight(page, glyphs)
		for _, row := range groupRows(glyphs) {
			frags = append(frags, rowFragments(i, height, row)...)
		}
	}
	return frags, nil
}

// pageHeight returns the MediaBox height, or the highest glyph top when the
// page carries no usable box.
func pageHeight(page pdflib.Page, glyphs []pdflib.Text) float64 {
	box := page.V.Key("MediaBox")
	if box.Len() == 4 {
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	var top float64
	for _, g := range glyphs {
		top = math.Max(top, g.Y+g.FontSize)
	}
	return top
}

// groupRows buckets glyphs sharing a baseline, top row first, each row sorted
// left to right.
func groupRows(glyphs []pdflib.Text) [][]pdflib.Text {
	sorted := make([]pdflib.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdflib.Text
	for _, g := range sorted {
		n := len(rows)
		if n > 0 && math.Abs(rows[n-1][0].Y-g.Y) <= rowTolerance {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []pdflib.Text{g})
	}
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// rowFragments splits a row on font changes and wide gaps.
func rowFragments(page int, height float64, row []pdflib.Text) []doctree.Fragment {
	var out []doctree.Fragment
	var buf strings.Builder
	var start pdflib.Text
	var end float64

	flush := func() {
		text := classify.CleanText(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		size := roundSize(start.FontSize)
		out = append(out, doctree.Fragment{
			Page:       page,
			Text:       text,
			FontSize:   size,
			Bold:       isBoldFont(start.Font),
			X:          start.X,
			Y:          math.Max(0, height-start.Y-size),
			FontFamily: fontFamily(start.Font),
		})
	}

	for i, g := range row {
		if i > 0 {
			gap := g.X - end
			sameFont := g.Font == start.Font && roundSize(g.FontSize) == roundSize(start.FontSize)
			if !sameFont || gap > start.FontSize*columnGapRatio {
				flush()
				start = g
			} else if gap > start.FontSize*spaceGapRatio && !strings.HasSuffix(buf.String(), " ") {
				buf.WriteByte(' ')
			}
		} else {
			start = g
		}
		buf.WriteString(g.S)
		end = g.X + g.W
	}
	flush()
	return out
}

func roundSize(s float64) float64 {
	return math.Round(s*2) / 2
}

// fontFamily strips the six-letter subset tag ("ABCDEF+Arial-Bold").
func fontFamily(font string) string {
	if i := strings.IndexByte(font, '+'); i == 6 {
		return font[i+1:]
	}
	return font
}

func isBoldFont(font string) bool {
	f := strings.ToLower(fontFamily(font))
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(f, marker) {
			return true
		}
	}
	return false
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}
