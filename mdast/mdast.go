// Package mdast parses markdown into a flat sequence of typed leaf blocks.
//
// The parser is goldmark (CommonMark + GFM tables and strikethrough). Each
// leaf block carries a normalized markdown rendition of itself (Raw) and the
// separator that precedes it in the normalized document (Sep), so that
// joining Sep+Raw over the sequence reproduces the whole document. Container
// nodes (lists, tables, blockquotes) are flattened: a list contributes one
// leaf per item, a table one leaf per row.
//
// Normalization is deliberate: goldmark has no lossless markdown renderer,
// so blocks are re-emitted from the AST in a canonical form (ATX headings,
// fenced code, "| a | b |" table rows). Everything downstream of Parse
// operates on normalized text only.
//
// Usage:
//
//	blocks := mdast.Parse([]byte("# Title\n\nBody."))
//	doc := mdast.Join(blocks)
package mdast

import "strings"

// Kind identifies a leaf block type.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindListItem  Kind = "listItem"
	KindCode      Kind = "code"
	KindTableRow  Kind = "tableRow"
	KindQuote     Kind = "blockquote"
	KindBreak     Kind = "thematicBreak"
	KindHTML      Kind = "html"
)

// Block is one leaf of the flattened document.
type Block struct {
	Kind    Kind
	Level   int    // heading level, or list nesting depth for list items
	Ordered bool   // list items: ordered vs bullet list
	Lang    string // code blocks: info string
	Raw     string // normalized markdown for this block, markers included
	Sep     string // separator preceding this block ("" for the first)
}

// InlineDiffable reports whether a block's text may be diffed token by
// token. Code blocks, table rows and raw HTML change as whole units.
func (b Block) InlineDiffable() bool {
	switch b.Kind {
	case KindParagraph, KindHeading, KindListItem, KindQuote:
		return true
	}
	return false
}

// Join reassembles the normalized document from a block sequence.
func Join(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Sep)
		sb.WriteString(b.Raw)
	}
	return sb.String()
}

// Normalize parses markdown and re-emits it in canonical form.
func Normalize(src []byte) string {
	return Join(Parse(src))
}
