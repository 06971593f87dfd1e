package critic

import (
	"fmt"
	"strings"
)

// Decision resolves one diff node.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// resolve returns the text that replaces a span under a decision.
// Accepting an insertion or rejecting a deletion keeps the span content;
// the other two cases drop it.
func resolve(typ SpanType, text string, d Decision) string {
	keep := (typ == Ins && d == Accept) || (typ == Del && d == Reject)
	if !keep {
		return ""
	}
	return DecodeBreaks(text)
}

// Apply resolves a single diff node by key and returns the rewritten
// document. The other spans are left untouched, markers included, so their
// keys survive a rescan in the same relative order.
func Apply(markup, key string, d Decision) (string, error) {
	if d != Accept && d != Reject {
		return "", fmt.Errorf("critic: unknown decision %q", d)
	}
	reg := Scan(markup)
	span, ok := reg.Get(key)
	if !ok {
		return "", fmt.Errorf("critic: no diff node %q in document", key)
	}
	return markup[:span.Start] + resolve(span.Type, span.Text, d) + markup[span.End:], nil
}

// ResolveAll applies one decision to every span in the document.
func ResolveAll(markup string, d Decision) string {
	spans := findSpans(markup)
	if len(spans) == 0 {
		return markup
	}
	var sb strings.Builder
	prev := 0
	for _, sp := range spans {
		sb.WriteString(markup[prev:sp.start])
		sb.WriteString(resolve(sp.typ, markup[sp.innerStart:sp.innerEnd], d))
		prev = sp.end
	}
	sb.WriteString(markup[prev:])
	return sb.String()
}

// AcceptAll resolves every span in favor of the revision.
func AcceptAll(markup string) string { return ResolveAll(markup, Accept) }

// RejectAll resolves every span in favor of the original.
func RejectAll(markup string) string { return ResolveAll(markup, Reject) }
