package critic

import "fmt"

// Span is one addressable diff node as seen by the editor surface.
// Text holds the span content as it appears in the markup, break tokens
// included; PlainText restores the literal newlines.
type Span struct {
	Key    string
	Type   SpanType
	Text   string
	Start  int // byte offset of the opening marker
	End    int // byte offset just past the closing marker
	Paired bool // half of an adjacent {--old--}{++new++} substitution
}

// PlainText is the span content with break tokens decoded.
func (s Span) PlainText() string {
	return DecodeBreaks(s.Text)
}

// Registry is a read-only index over the diff spans of one rendered
// document. Keys are assigned in document order at scan time and are
// stable only for the lifetime of that rendered document: a new render
// cycle reassigns keys.
type Registry struct {
	spans []Span
	index map[string]int
}

// Scan walks markup text and indexes every diff span under a positional
// key ("ins-1", "del-2", …; one counter shared across both types).
func Scan(markup string) *Registry {
	raw := findSpans(markup)
	reg := &Registry{index: make(map[string]int, len(raw))}
	for i, sp := range raw {
		span := Span{
			Key:   fmt.Sprintf("%s-%d", sp.typ, i+1),
			Type:  sp.typ,
			Text:  markup[sp.innerStart:sp.innerEnd],
			Start: sp.start,
			End:   sp.end,
		}
		if i > 0 && raw[i-1].end == sp.start && raw[i-1].typ == Del && sp.typ == Ins {
			span.Paired = true
			reg.spans[i-1].Paired = true
		}
		reg.index[span.Key] = i
		reg.spans = append(reg.spans, span)
	}
	return reg
}

// Len is the total number of diff spans.
func (r *Registry) Len() int { return len(r.spans) }

// Count counts the spans of one type.
func (r *Registry) Count(t SpanType) int {
	n := 0
	for _, s := range r.spans {
		if s.Type == t {
			n++
		}
	}
	return n
}

// Get looks up a span by key.
func (r *Registry) Get(key string) (Span, bool) {
	i, ok := r.index[key]
	if !ok {
		return Span{}, false
	}
	return r.spans[i], true
}

// Keys returns all span keys in document order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.spans))
	for i, s := range r.spans {
		keys[i] = s.Key
	}
	return keys
}

// Spans returns the indexed spans in document order.
func (r *Registry) Spans() []Span {
	out := make([]Span, len(r.spans))
	copy(out, r.spans)
	return out
}
