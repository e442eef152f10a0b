package doctree

import (
	"encoding/json"
	"fmt"
)

// Fragment is one run of text with layout metadata, as produced by a parser.
// Y grows downward: smaller values are higher on the page.
type Fragment struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	FontSize   float64 `json:"font_size"`
	Bold       bool    `json:"bold"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontFamily string  `json:"font_family,omitempty"`
}

// Level is an outline heading level.
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	}
	return ""
}

// LevelForDepth maps a section depth to a level, capped at H3.
func LevelForDepth(depth int) Level {
	switch {
	case depth <= 0:
		return LevelNone
	case depth == 1:
		return H1
	case depth == 2:
		return H2
	}
	return H3
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l < H1 || l > H3 {
		return nil, fmt.Errorf("marshal level: invalid level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal level: %w", err)
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unmarshal level: unknown level %q", s)
	}
	return nil
}

// OutlineEntry is one finalized heading.
type OutlineEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// DocumentOutline is the classification result for one document.
type DocumentOutline struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

// Empty returns the degenerate outline: no title, no headings.
func Empty() DocumentOutline {
	return DocumentOutline{Outline: []OutlineEntry{}}
}

// MarshalJSON keeps "outline" an array even when there are no headings.
func (d DocumentOutline) MarshalJSON() ([]byte, error) {
	type plain DocumentOutline
	if d.Outline == nil {
		d.Outline = []OutlineEntry{}
	}
	return json.Marshal(plain(d))
}
