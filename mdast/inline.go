package mdast

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// inline serializes the inline children of a block node back to markdown.
func (b *builder) inline(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.inlineNode(&sb, c)
	}
	return sb.String()
}

func (b *builder) inlineNode(sb *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		sb.Write(n.Segment.Value(b.src))
		if n.HardLineBreak() {
			sb.WriteString("  \n")
		} else if n.SoftLineBreak() {
			sb.WriteByte('\n')
		}
	case *ast.String:
		sb.Write(n.Value)
	case *ast.CodeSpan:
		sb.WriteByte('`')
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(b.src))
			}
		}
		sb.WriteByte('`')
	case *ast.Emphasis:
		delim := "*"
		if n.Level == 2 {
			delim = "**"
		}
		sb.WriteString(delim)
		sb.WriteString(b.inline(n))
		sb.WriteString(delim)
	case *east.Strikethrough:
		sb.WriteString("~~")
		sb.WriteString(b.inline(n))
		sb.WriteString("~~")
	case *ast.Link:
		sb.WriteByte('[')
		sb.WriteString(b.inline(n))
		sb.WriteString("](")
		sb.Write(n.Destination)
		if len(n.Title) > 0 {
			sb.WriteString(` "`)
			sb.Write(n.Title)
			sb.WriteByte('"')
		}
		sb.WriteByte(')')
	case *ast.Image:
		sb.WriteString("![")
		sb.WriteString(b.inline(n))
		sb.WriteString("](")
		sb.Write(n.Destination)
		sb.WriteByte(')')
	case *ast.AutoLink:
		sb.WriteByte('<')
		sb.Write(n.URL(b.src))
		sb.WriteByte('>')
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(b.src))
		}
	default:
		sb.WriteString(b.inline(n))
	}
}
