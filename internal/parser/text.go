package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles plain text files. Every non-blank line becomes a body
// size fragment; a form feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]doctree.Fragment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	w := newLineWriter()
	for scanner.Scan() {
		for i, part := range strings.Split(scanner.Text(), "\f") {
			if i > 0 {
				w.newPage()
			}
			if strings.TrimSpace(part) == "" {
				if i == 0 {
					w.skip()
				}
				continue
			}
			w.add(part, bodySize, false)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return w.fragments(), nil
}
