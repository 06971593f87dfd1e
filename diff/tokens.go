package diff

import (
	"strings"
	"unicode"
)

// tokenize splits text into word tokens at word boundaries. Every
// whitespace rune is its own token, so that whitespace-only edits surface
// as ordinary single-character deletions or insertions.
func tokenize(s string) []string {
	var tokens []string
	var word strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			if word.Len() > 0 {
				tokens = append(tokens, word.String())
				word.Reset()
			}
			tokens = append(tokens, string(r))
			continue
		}
		word.WriteRune(r)
	}
	if word.Len() > 0 {
		tokens = append(tokens, word.String())
	}
	return tokens
}

// tokenDiff appends word-level change records for one aligned block pair.
// The LCS walk matches the earliest original token on ties; within a gap
// all deleted tokens are flushed before the inserted ones, which is what
// lets coalesce fold the pair into a substitution.
func tokenDiff(orig, rev string, out *[]ChangeRecord) {
	ta := tokenize(orig)
	tb := tokenize(rev)

	dp := make([][]int, len(ta)+1)
	for i := range dp {
		dp[i] = make([]int, len(tb)+1)
	}
	for i := len(ta) - 1; i >= 0; i-- {
		for j := len(tb) - 1; j >= 0; j-- {
			if ta[i] == tb[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}

	var dels, inss strings.Builder
	flush := func() {
		if dels.Len() > 0 {
			*out = append(*out, ChangeRecord{Op: OpDelete, Text: dels.String()})
			dels.Reset()
		}
		if inss.Len() > 0 {
			*out = append(*out, ChangeRecord{Op: OpInsert, Text: inss.String()})
			inss.Reset()
		}
	}

	i, j := 0, 0
	for i < len(ta) || j < len(tb) {
		switch {
		case i < len(ta) && j < len(tb) && ta[i] == tb[j]:
			flush()
			*out = append(*out, ChangeRecord{Op: OpEqual, Text: ta[i]})
			i++
			j++
		case j >= len(tb) || (i < len(ta) && dp[i+1][j] >= dp[i][j+1]):
			dels.WriteString(ta[i])
			i++
		default:
			inss.WriteString(tb[j])
			j++
		}
	}
	flush()
}
