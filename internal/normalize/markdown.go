// Package normalize flattens the rich content shapes remote extraction
// services return (markdown text, HTML tables) into the plain-text values
// the result model stores.
package normalize

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown strips markdown structure and returns plain text. Headings keep
// their own line; block content is separated by blank lines.
func Markdown(src []byte) string {
	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if t := string(node.Text(src)); t != "" {
				blocks = append(blocks, t)
			}
		default:
			if t := blockText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}
	return strings.Join(blocks, "\n\n")
}

// blockText gets the text content of a goldmark AST node. Leaf blocks
// without inline children (code blocks) keep their raw lines; everything
// else is reassembled from inline text nodes so markup markers drop out.
func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		default:
			s := blockText(c, src)
			if s == "" {
				continue
			}
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
