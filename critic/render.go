package critic

import (
	"strings"

	"redline/diff"
)

// Render converts a change-record sequence into annotated markdown.
// Unchanged text is emitted verbatim; substitutions render as an adjacent
// deletion/insertion pair with no separator between the two spans.
func Render(changes []diff.ChangeRecord) string {
	var sb strings.Builder
	for _, r := range changes {
		switch r.Op {
		case diff.OpEqual:
			sb.WriteString(r.Text)
		case diff.OpInsert:
			sb.WriteString(InsOpen)
			sb.WriteString(r.Text)
			sb.WriteString(InsClose)
		case diff.OpDelete:
			sb.WriteString(DelOpen)
			sb.WriteString(r.Text)
			sb.WriteString(DelClose)
		case diff.OpSubstitute:
			sb.WriteString(DelOpen)
			sb.WriteString(r.Before)
			sb.WriteString(DelClose)
			sb.WriteString(InsOpen)
			sb.WriteString(r.After)
			sb.WriteString(InsClose)
		}
	}
	return sb.String()
}

// Preprocess re-encodes literal newlines inside spans as break tokens so
// the downstream block parser cannot split a span at a line break. The
// transformation is purely textual and idempotent.
func Preprocess(markup string) string {
	spans := findSpans(markup)
	if len(spans) == 0 {
		return markup
	}
	var sb strings.Builder
	prev := 0
	for _, sp := range spans {
		sb.WriteString(markup[prev:sp.innerStart])
		sb.WriteString(strings.ReplaceAll(markup[sp.innerStart:sp.innerEnd], "\n", BreakToken))
		sb.WriteString(markup[sp.innerEnd:sp.end])
		prev = sp.end
	}
	sb.WriteString(markup[prev:])
	return sb.String()
}
