// Package diff aligns two markdown documents block by block and emits an
// ordered sequence of change records.
//
// Alignment runs at two levels. Blocks (paragraphs, headings, list items,
// code blocks, table rows) are matched by a longest-common-subsequence pass
// over the flattened mdast sequence; unmatched same-kind blocks that permit
// inline diffing are then compared token by token at word granularity.
// Code blocks, table rows and raw HTML always replace as whole units, one
// delete plus one insert.
//
// Whitespace differences are ordinary deletions and insertions; nothing is
// discarded. Adjacent delete+insert runs with no equal text between them
// merge into a single substitution record.
package diff

import (
	"redline/mdast"
)

// Op classifies one change record.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpSubstitute
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpSubstitute:
		return "substitute"
	}
	return "unknown"
}

// ChangeRecord is one unit of the diff result. Equal, Insert and Delete
// carry their text in Text; Substitute carries both sides. Block marks
// records that cover a whole block together with its separator.
type ChangeRecord struct {
	Op     Op
	Text   string
	Before string
	After  string
	Block  bool
}

// Diff parses both documents and returns the ordered change sequence.
// Concatenating the original-side text of every record reproduces the
// normalized original; the revised side reproduces the normalized revision.
func Diff(original, revised []byte) []ChangeRecord {
	return DiffBlocks(mdast.Parse(original), mdast.Parse(revised))
}

// DiffBlocks diffs two already-parsed block sequences.
func DiffBlocks(a, b []mdast.Block) []ChangeRecord {
	dp := blockLCS(a, b)

	var out []ChangeRecord
	var dels, inss []mdast.Block
	flush := func() {
		pairChanged(dels, inss, &out)
		dels, inss = nil, nil
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && sameBlock(a[i], b[j]):
			flush()
			sepRecords(a[i].Sep, b[j].Sep, &out)
			out = append(out, ChangeRecord{Op: OpEqual, Text: a[i].Raw})
			i++
			j++
		case j >= len(b) || (i < len(a) && dp[i+1][j] >= dp[i][j+1]):
			dels = append(dels, a[i])
			i++
		default:
			inss = append(inss, b[j])
			j++
		}
	}
	flush()

	return coalesce(out)
}

func sameBlock(a, b mdast.Block) bool {
	return a.Kind == b.Kind && a.Raw == b.Raw
}

// blockLCS fills dp[i][j] = LCS length of a[i:] vs b[j:].
func blockLCS(a, b []mdast.Block) [][]int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if sameBlock(a[i], b[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}
	return dp
}

// pairChanged resolves one gap between equal anchors. Positionally paired
// same-kind blocks that allow inline diffing get a token-level diff; every
// other block becomes a whole-unit record carrying its own separator, so
// that accepting or rejecting the span also adds or removes the blank line
// or newline that precedes the block.
func pairChanged(dels, inss []mdast.Block, out *[]ChangeRecord) {
	n := max(len(dels), len(inss))
	for k := 0; k < n; k++ {
		switch {
		case k < len(dels) && k < len(inss):
			d, ins := dels[k], inss[k]
			if d.Kind == ins.Kind && d.InlineDiffable() {
				sepRecords(d.Sep, ins.Sep, out)
				tokenDiff(d.Raw, ins.Raw, out)
				continue
			}
			*out = append(*out,
				ChangeRecord{Op: OpDelete, Text: d.Sep + d.Raw, Block: true},
				ChangeRecord{Op: OpInsert, Text: ins.Sep + ins.Raw, Block: true},
			)
		case k < len(dels):
			d := dels[k]
			*out = append(*out, ChangeRecord{Op: OpDelete, Text: d.Sep + d.Raw, Block: true})
		default:
			ins := inss[k]
			*out = append(*out, ChangeRecord{Op: OpInsert, Text: ins.Sep + ins.Raw, Block: true})
		}
	}
}

// sepRecords diffs the separators preceding two aligned blocks.
func sepRecords(sa, sb string, out *[]ChangeRecord) {
	switch {
	case sa == sb:
		if sa != "" {
			*out = append(*out, ChangeRecord{Op: OpEqual, Text: sa})
		}
	case sa == "":
		*out = append(*out, ChangeRecord{Op: OpInsert, Text: sb})
	case sb == "":
		*out = append(*out, ChangeRecord{Op: OpDelete, Text: sa})
	default:
		*out = append(*out, ChangeRecord{Op: OpSubstitute, Before: sa, After: sb})
	}
}

// coalesce drops empty records, merges adjacent records of the same op and
// folds inline delete+insert adjacency into a substitution. Whole-block
// replacements stay as separate delete and insert records.
func coalesce(recs []ChangeRecord) []ChangeRecord {
	var out []ChangeRecord
	for _, r := range recs {
		if r.Op == OpSubstitute {
			// Degenerate substitutions reduce to their surviving side.
			switch {
			case r.Before == "" && r.After == "":
				continue
			case r.Before == "":
				r = ChangeRecord{Op: OpInsert, Text: r.After, Block: r.Block}
			case r.After == "":
				r = ChangeRecord{Op: OpDelete, Text: r.Before, Block: r.Block}
			}
		}
		if r.Op != OpSubstitute && r.Text == "" {
			continue
		}

		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Op == r.Op && r.Op != OpSubstitute {
				prev.Text += r.Text
				prev.Block = prev.Block || r.Block
				continue
			}
			if prev.Op == OpDelete && r.Op == OpInsert && !prev.Block && !r.Block {
				out[n-1] = ChangeRecord{Op: OpSubstitute, Before: prev.Text, After: r.Text}
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
