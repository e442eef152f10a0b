package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1..h6 become sized bold fragments; block
// text becomes body fragments.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]doctree.Fragment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := newLineWriter()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			// Loose text directly inside a container.
			w.add(n.Data, bodySize, false)
			return
		}
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				w.add(textContent(n), headingSize(level), true)
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "noscript", "template":
				return
			case "li":
				w.add(bulletPrefix+textContent(n), bodySize, false)
				return
			case "p", "td", "th", "blockquote", "dt", "dd", "caption", "figcaption":
				w.add(textContent(n), bodySize, isBoldOnly(n))
				return
			case "hr":
				w.skip()
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return w.fragments(), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// isBoldOnly reports a block whose only non-blank content is a single
// <b> or <strong> element.
func isBoldOnly(n *html.Node) bool {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if only != nil {
			return false
		}
		only = c
	}
	return only != nil && only.Type == html.ElementNode && (only.Data == "b" || only.Data == "strong")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
