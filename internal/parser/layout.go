package parser

import (
	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/doctree"
)

// Synthetic geometry for formats that carry structure but no page layout.
const (
	bodySize   = 12.0
	lineHeight = 20.0
	titleSize  = 28.0
)

// headingSize maps a structural heading level to a font size so the
// classifier sees the same signal it would get from a rendered page.
func headingSize(level int) float64 {
	switch level {
	case 1:
		return 24
	case 2:
		return 18
	case 3:
		return 15
	}
	return 13
}

const bulletPrefix = "• "

// Blank space kept under a line set larger than the body pitch.
const minLeading = 8.0

// lineWriter lays fragments out top to bottom, one per line. Body lines sit
// lineHeight apart; larger lines get extra room so they never overlap.
type lineWriter struct {
	page  int
	y     float64
	frags []doctree.Fragment
}

func newLineWriter() *lineWriter {
	return &lineWriter{page: 1}
}

func (w *lineWriter) add(text string, size float64, bold bool) {
	text = classify.CleanText(text)
	if text == "" {
		return
	}
	w.frags = append(w.frags, doctree.Fragment{
		Page:     w.page,
		Text:     text,
		FontSize: size,
		Bold:     bold,
		Y:        w.y,
	})
	w.y += max(lineHeight, size+minLeading)
}

// skip advances the cursor without emitting a fragment.
func (w *lineWriter) skip() {
	w.y += lineHeight
}

func (w *lineWriter) newPage() {
	w.page++
	w.y = 0
}

func (w *lineWriter) fragments() []doctree.Fragment {
	return w.frags
}
