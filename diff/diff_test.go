package diff

import (
	"strings"
	"testing"
)

// originalSide / revisedSide rebuild each side from the record sequence.
func originalSide(recs []ChangeRecord) string {
	var sb strings.Builder
	for _, r := range recs {
		switch r.Op {
		case OpEqual, OpDelete:
			sb.WriteString(r.Text)
		case OpSubstitute:
			sb.WriteString(r.Before)
		}
	}
	return sb.String()
}

func revisedSide(recs []ChangeRecord) string {
	var sb strings.Builder
	for _, r := range recs {
		switch r.Op {
		case OpEqual, OpInsert:
			sb.WriteString(r.Text)
		case OpSubstitute:
			sb.WriteString(r.After)
		}
	}
	return sb.String()
}

func TestDiffInsertWord(t *testing.T) {
	recs := Diff([]byte("The cat sat."), []byte("The black cat sat."))

	want := []ChangeRecord{
		{Op: OpEqual, Text: "The "},
		{Op: OpInsert, Text: "black "},
		{Op: OpEqual, Text: "cat sat."},
	}
	if len(recs) != len(want) {
		t.Fatalf("records: got %+v", recs)
	}
	for i := range want {
		if recs[i].Op != want[i].Op || recs[i].Text != want[i].Text {
			t.Errorf("record %d: got %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestDiffSubstituteWord(t *testing.T) {
	recs := Diff([]byte("The cat sat."), []byte("The dog sat."))

	want := []ChangeRecord{
		{Op: OpEqual, Text: "The "},
		{Op: OpSubstitute, Before: "cat", After: "dog"},
		{Op: OpEqual, Text: " sat."},
	}
	if len(recs) != len(want) {
		t.Fatalf("records: got %+v", recs)
	}
	for i := range want {
		if recs[i].Op != want[i].Op || recs[i].Text != want[i].Text ||
			recs[i].Before != want[i].Before || recs[i].After != want[i].After {
			t.Errorf("record %d: got %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestDiffEqual(t *testing.T) {
	recs := Diff([]byte("Same text."), []byte("Same text."))
	if len(recs) != 1 || recs[0].Op != OpEqual || recs[0].Text != "Same text." {
		t.Fatalf("records: %+v", recs)
	}
}

func TestDiffListItemInserted(t *testing.T) {
	recs := Diff([]byte("- Item 1\n- Item 2"), []byte("- Item 1\n- Item 2\n- Item 3"))

	var inserts []ChangeRecord
	for _, r := range recs {
		if r.Op == OpInsert {
			inserts = append(inserts, r)
		}
	}
	if len(inserts) != 1 {
		t.Fatalf("expected 1 insert, got %+v", recs)
	}
	// The inserted block carries its own newline separator inside the span.
	if inserts[0].Text != "\n- Item 3" || !inserts[0].Block {
		t.Fatalf("insert record: %+v", inserts[0])
	}
}

func TestDiffWhitespaceOnly(t *testing.T) {
	// Collapsing a double space is an ordinary deletion of the extra space.
	recs := Diff([]byte("a  b"), []byte("a b"))

	want := []ChangeRecord{
		{Op: OpEqual, Text: "a "},
		{Op: OpDelete, Text: " "},
		{Op: OpEqual, Text: "b"},
	}
	if len(recs) != len(want) {
		t.Fatalf("records: got %+v", recs)
	}
	for i := range want {
		if recs[i].Op != want[i].Op || recs[i].Text != want[i].Text {
			t.Errorf("record %d: got %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestDiffCodeBlockWholeUnit(t *testing.T) {
	orig := "```go\nx := 1\n```"
	rev := "```go\nx := 2\n```"
	recs := Diff([]byte(orig), []byte(rev))

	// Whole-unit replace: one delete and one insert, never a token diff.
	if len(recs) != 2 {
		t.Fatalf("records: %+v", recs)
	}
	if recs[0].Op != OpDelete || !recs[0].Block || recs[0].Text != orig {
		t.Fatalf("delete record: %+v", recs[0])
	}
	if recs[1].Op != OpInsert || !recs[1].Block || recs[1].Text != rev {
		t.Fatalf("insert record: %+v", recs[1])
	}
}

func TestDiffTableRowWholeUnit(t *testing.T) {
	orig := "| a | b |\n| --- | --- |\n| 1 | 2 |"
	rev := "| a | b |\n| --- | --- |\n| 1 | 3 |"
	recs := Diff([]byte(orig), []byte(rev))

	var del, ins int
	for _, r := range recs {
		switch r.Op {
		case OpDelete:
			del++
			if !r.Block {
				t.Errorf("table row delete must be whole-unit: %+v", r)
			}
		case OpInsert:
			ins++
		}
	}
	if del != 1 || ins != 1 {
		t.Fatalf("expected one delete and one insert, got %+v", recs)
	}
}

func TestDiffParagraphInserted(t *testing.T) {
	recs := Diff([]byte("First.\n\nLast."), []byte("First.\n\nMiddle.\n\nLast."))

	var ins []ChangeRecord
	for _, r := range recs {
		if r.Op == OpInsert {
			ins = append(ins, r)
		}
	}
	if len(ins) != 1 || ins[0].Text != "\n\nMiddle." {
		t.Fatalf("records: %+v", recs)
	}
}

func TestDiffParagraphDeletedAtStart(t *testing.T) {
	recs := Diff([]byte("Gone.\n\nKept."), []byte("Kept."))
	if got := originalSide(recs); got != "Gone.\n\nKept." {
		t.Fatalf("original side: %q", got)
	}
	if got := revisedSide(recs); got != "Kept." {
		t.Fatalf("revised side: %q", got)
	}
}

func TestDiffSidesReconstruct(t *testing.T) {
	pairs := [][2]string{
		{"The cat sat.", "The black cat sat."},
		{"The cat sat.", "The dog sat."},
		{"- Item 1\n- Item 2", "- Item 1\n- Item 2\n- Item 3"},
		{"# Old Title\n\nBody.", "# New Title\n\nBody text."},
		{"A.\n\nB.\n\nC.", "A.\n\nC."},
		{"```go\nx := 1\n```", "Paragraph instead."},
		{"", "Fresh content."},
		{"Old content.", ""},
		{"> quoted", "> quoted harder"},
	}
	for _, p := range pairs {
		recs := Diff([]byte(p[0]), []byte(p[1]))
		if got := originalSide(recs); got != p[0] {
			t.Errorf("original side of (%q, %q): got %q", p[0], p[1], got)
		}
		if got := revisedSide(recs); got != p[1] {
			t.Errorf("revised side of (%q, %q): got %q", p[0], p[1], got)
		}
	}
}

func TestDiffMinimalRecords(t *testing.T) {
	// A one-word edit in a long paragraph must not fragment the rest.
	recs := Diff(
		[]byte("one two three four five six seven"),
		[]byte("one two three FOUR five six seven"),
	)
	if len(recs) != 3 {
		t.Fatalf("expected equal/substitute/equal, got %+v", recs)
	}
	if recs[1].Op != OpSubstitute || recs[1].Before != "four" || recs[1].After != "FOUR" {
		t.Fatalf("substitute record: %+v", recs[1])
	}
}
