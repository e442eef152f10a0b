package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading levels become
// font sizes; list items keep a bullet marker.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]doctree.Fragment, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	w := newLineWriter()
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch node := n.(type) {
		case *ast.Heading:
			w.add(extractText(node, src), headingSize(node.Level), true)
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if item.FirstChild() != nil {
					w.add(bulletPrefix+extractText(item.FirstChild(), src), bodySize, false)
				}
			}
		case *ast.Paragraph, *ast.TextBlock:
			w.add(extractText(node, src), bodySize, isStrongOnly(node))
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			// Code is never a heading; keep its lines as body text.
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				w.add(string(seg.Value(src)), bodySize, false)
			}
		case *ast.ThematicBreak:
			w.skip()
		default:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				walk(c)
			}
		}
	}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		walk(n)
	}
	return w.fragments(), nil
}

// isStrongOnly reports a paragraph whose whole content is **bold**, the usual
// way Markdown authors fake a heading.
func isStrongOnly(n ast.Node) bool {
	if n.ChildCount() != 1 {
		return false
	}
	em, ok := n.FirstChild().(*ast.Emphasis)
	return ok && em.Level == 2
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
