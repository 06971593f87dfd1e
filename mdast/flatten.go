package mdast

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse parses markdown into the flattened leaf-block sequence.
func Parse(src []byte) []Block {
	doc := md.Parser().Parse(gtext.NewReader(src))
	b := &builder{src: src}
	first := true
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		sep := "\n\n"
		if first {
			sep = ""
		}
		b.block(c, 0, sep)
		first = false
	}
	return b.blocks
}

type builder struct {
	src    []byte
	blocks []Block
}

func (b *builder) emit(sep string, blk Block) {
	if len(b.blocks) == 0 {
		sep = ""
	}
	blk.Sep = sep
	b.blocks = append(b.blocks, blk)
}

func (b *builder) block(n ast.Node, depth int, sep string) {
	switch n := n.(type) {
	case *ast.Paragraph:
		b.emit(sep, Block{Kind: KindParagraph, Raw: b.inline(n)})
	case *ast.TextBlock:
		b.emit(sep, Block{Kind: KindParagraph, Raw: b.inline(n)})
	case *ast.Heading:
		raw := strings.Repeat("#", n.Level) + " " + b.inline(n)
		b.emit(sep, Block{Kind: KindHeading, Level: n.Level, Raw: raw})
	case *ast.FencedCodeBlock:
		lang := string(n.Language(b.src))
		b.emit(sep, Block{Kind: KindCode, Lang: lang, Raw: b.codeRaw(lang, n)})
	case *ast.CodeBlock:
		// Indented code normalizes to fenced.
		b.emit(sep, Block{Kind: KindCode, Raw: b.codeRaw("", n)})
	case *ast.ThematicBreak:
		b.emit(sep, Block{Kind: KindBreak, Raw: "---"})
	case *ast.Blockquote:
		b.quote(n, sep)
	case *ast.HTMLBlock:
		b.emit(sep, Block{Kind: KindHTML, Raw: b.htmlRaw(n)})
	case *ast.List:
		b.list(n, depth, sep)
	case *east.Table:
		b.table(n, sep)
	default:
		if n.HasChildren() {
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				b.block(c, depth, sep)
				sep = "\n\n"
			}
		}
	}
}

// codeRaw renders a code block as fenced, preserving the inner lines.
func (b *builder) codeRaw(lang string, n ast.Node) string {
	var sb strings.Builder
	sb.WriteString("```")
	sb.WriteString(lang)
	sb.WriteByte('\n')
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("```")
	return sb.String()
}

func (b *builder) htmlRaw(n *ast.HTMLBlock) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	if n.HasClosure() {
		sb.Write(n.ClosureLine.Value(b.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *builder) list(l *ast.List, depth int, sep string) {
	idx := 0
	for it := l.FirstChild(); it != nil; it = it.NextSibling() {
		item, ok := it.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := string(rune(l.Marker))
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d%c", l.Start+idx, l.Marker)
		}

		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch cc := c.(type) {
			case *ast.List:
				nested = append(nested, cc)
			case *ast.FencedCodeBlock:
				parts = append(parts, b.codeRaw(string(cc.Language(b.src)), cc))
			default:
				parts = append(parts, b.inline(c))
			}
		}

		raw := strings.Repeat("    ", depth) + marker + " " + strings.Join(parts, " ")
		b.emit(sep, Block{Kind: KindListItem, Level: depth, Ordered: l.IsOrdered(), Raw: raw})
		sep = "\n"
		for _, nl := range nested {
			b.list(nl, depth+1, "\n")
		}
		idx++
	}
}

// quote renders the whole blockquote as one leaf: the inner blocks are
// flattened recursively, then every line is prefixed with "> ".
func (b *builder) quote(q *ast.Blockquote, sep string) {
	inner := &builder{src: b.src}
	first := true
	for c := q.FirstChild(); c != nil; c = c.NextSibling() {
		s := "\n\n"
		if first {
			s = ""
		}
		inner.block(c, 0, s)
		first = false
	}
	var sb strings.Builder
	for i, line := range strings.Split(Join(inner.blocks), "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line == "" {
			sb.WriteString(">")
		} else {
			sb.WriteString("> " + line)
		}
	}
	b.emit(sep, Block{Kind: KindQuote, Raw: sb.String()})
}

func (b *builder) table(t *east.Table, sep string) {
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		switch row := r.(type) {
		case *east.TableHeader:
			b.emit(sep, Block{Kind: KindTableRow, Raw: b.tableRowRaw(row)})
			b.emit("\n", Block{Kind: KindTableRow, Raw: delimiterRow(t.Alignments)})
		case *east.TableRow:
			b.emit(sep, Block{Kind: KindTableRow, Raw: b.tableRowRaw(row)})
		}
		sep = "\n"
	}
}

func (b *builder) tableRowRaw(row ast.Node) string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, b.inline(c))
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func delimiterRow(aligns []east.Alignment) string {
	var cells []string
	for _, a := range aligns {
		switch a {
		case east.AlignLeft:
			cells = append(cells, ":---")
		case east.AlignRight:
			cells = append(cells, "---:")
		case east.AlignCenter:
			cells = append(cells, ":---:")
		default:
			cells = append(cells, "---")
		}
	}
	return "| " + strings.Join(cells, " | ") + " |"
}
