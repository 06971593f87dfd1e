// Package critic implements the inline diff markup dialect: CriticMarkup
// style insertion and deletion spans embedded in markdown text.
//
//	{++inserted++}
//	{--deleted--}
//	{--old--}{++new++}   (substitution: adjacent, no separator)
//
// The package renders diff change records into this dialect, preprocesses
// the result so spans survive a block-aware markdown parser, indexes every
// span under a stable per-render key, and applies accept/reject decisions
// against single spans or the whole document.
package critic

import "strings"

// Markup delimiters and the inline break token.
const (
	InsOpen  = "{++"
	InsClose = "++}"
	DelOpen  = "{--"
	DelClose = "--}"

	// BreakToken replaces literal newlines inside a span so a block parser
	// does not terminate the span at the line break.
	BreakToken = "<br>"
)

// SpanType partitions diff spans into insertions and deletions.
type SpanType string

const (
	Ins SpanType = "ins"
	Del SpanType = "del"
)

// rawSpan is one marker-delimited region located in markup text.
type rawSpan struct {
	typ        SpanType
	start      int // offset of the opening marker
	innerStart int
	innerEnd   int
	end        int // offset just past the closing marker
}

// findSpans locates every well-formed span in document order. An opening
// marker without its closing counterpart is ignored as literal text.
func findSpans(s string) []rawSpan {
	var spans []rawSpan
	pos := 0
	for pos < len(s) {
		i := strings.Index(s[pos:], "{")
		if i < 0 {
			break
		}
		i += pos
		var typ SpanType
		var closeMark string
		switch {
		case strings.HasPrefix(s[i:], InsOpen):
			typ, closeMark = Ins, InsClose
		case strings.HasPrefix(s[i:], DelOpen):
			typ, closeMark = Del, DelClose
		default:
			pos = i + 1
			continue
		}
		j := strings.Index(s[i+len(InsOpen):], closeMark)
		if j < 0 {
			pos = i + 1
			continue
		}
		innerStart := i + len(InsOpen)
		spans = append(spans, rawSpan{
			typ:        typ,
			start:      i,
			innerStart: innerStart,
			innerEnd:   innerStart + j,
			end:        innerStart + j + len(closeMark),
		})
		pos = innerStart + j + len(closeMark)
	}
	return spans
}

// DecodeBreaks restores literal newlines from break tokens.
func DecodeBreaks(s string) string {
	return strings.ReplaceAll(s, BreakToken, "\n")
}
