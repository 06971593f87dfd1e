package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"redline/critic"
	"redline/page"
)

func stubReviser(revised string) Reviser {
	return func(_ context.Context, _, _ string) (string, error) {
		return revised, nil
	}
}

func TestCompareInsertWord(t *testing.T) {
	sug := New(Config{}).Compare("The cat sat.", "The black cat sat.")

	if sug.Markup != "The {++black ++}cat sat." {
		t.Errorf("Markup = %q", sug.Markup)
	}
	if sug.Registry.Len() != 1 {
		t.Fatalf("Registry.Len() = %d, want 1", sug.Registry.Len())
	}
	sp, _ := sug.Registry.Get("ins-1")
	if sp.Text != "black " {
		t.Errorf("ins-1 text = %q", sp.Text)
	}
}

func TestCompareSubstituteWord(t *testing.T) {
	sug := New(Config{}).Compare("The cat sat.", "The dog sat.")

	if sug.Markup != "The {--cat--}{++dog++} sat." {
		t.Errorf("Markup = %q", sug.Markup)
	}
	ins, ok := sug.Registry.Get("ins-2")
	if !ok || !ins.Paired {
		t.Errorf("ins-2 should exist and be paired, got %+v ok=%v", ins, ok)
	}
}

func TestCompareRoundTrips(t *testing.T) {
	p := New(Config{})
	original := "# Title\n\nThe cat sat on the mat.\n\n- Item 1\n- Item 2"
	revised := "# Title\n\nThe dog sat on the mat.\n\n- Item 1\n- Item 2\n- Item 3"

	sug := p.Compare(original, revised)
	if got := p.AcceptAll(sug.Markup); got != sug.Revised {
		t.Errorf("accept-all:\n got %q\nwant %q", got, sug.Revised)
	}
	if got := p.RejectAll(sug.Markup); got != sug.Original {
		t.Errorf("reject-all:\n got %q\nwant %q", got, sug.Original)
	}
}

func TestSuggestUsesReviser(t *testing.T) {
	p := New(Config{Reviser: stubReviser("The black cat sat.")})

	sug, err := p.Suggest(context.Background(), "The cat sat.", "add a color")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if sug.Markup != "The {++black ++}cat sat." {
		t.Errorf("Markup = %q", sug.Markup)
	}
}

func TestSuggestNoReviser(t *testing.T) {
	if _, err := New(Config{}).Suggest(context.Background(), "x", "y"); err == nil {
		t.Fatal("expected error without a reviser")
	}
}

func TestSuggestReviserError(t *testing.T) {
	p := New(Config{Reviser: func(context.Context, string, string) (string, error) {
		return "", errors.New("model unavailable")
	}})
	if _, err := p.Suggest(context.Background(), "x", "y"); err == nil {
		t.Fatal("expected reviser error to propagate")
	}
}

func TestResolveUnknownKey(t *testing.T) {
	p := New(Config{})
	if _, err := p.Resolve("The {++black ++}cat sat.", "ins-9", critic.Accept); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

// --- session ---

type memStore struct {
	docs    map[string]page.Document
	saveErr error
	saved   []page.Document
}

func (m *memStore) Load(_ context.Context, id string) (page.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return page.Document{}, fmt.Errorf("document %s not found", id)
	}
	return doc, nil
}

func (m *memStore) Save(_ context.Context, doc page.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, doc)
	if m.docs != nil {
		m.docs[doc.ID] = doc
	}
	return nil
}

func newTestSession(t *testing.T, store *memStore, revised string) *Session {
	t.Helper()
	return NewSession(SessionConfig{
		Pipeline: New(Config{Reviser: stubReviser(revised)}),
		Source:   store,
		Sink:     store,
	})
}

func TestSessionLoadAndPropose(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Title: "Cats", Content: "The cat sat.", Status: page.StatusPublished},
	}}
	s := newTestSession(t, store, "The black cat sat.")

	if err := s.Load(context.Background(), "doc1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.State().Phase() != page.PhaseViewing {
		t.Fatalf("phase = %s, want viewing", s.State().Phase())
	}

	sug, err := s.Propose(context.Background(), "add a color")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if sug.Markup != "The {++black ++}cat sat." {
		t.Errorf("Markup = %q", sug.Markup)
	}

	st, ok := s.State().(page.Editing)
	if !ok {
		t.Fatalf("state = %T, want Editing", s.State())
	}
	if st.Doc.Content != sug.Markup {
		t.Errorf("working content = %q", st.Doc.Content)
	}
	// Published pages demote to draft while a suggestion is pending.
	if st.Doc.Status != page.StatusDraft {
		t.Errorf("status = %q, want draft", st.Doc.Status)
	}
}

func TestSessionLoadMissing(t *testing.T) {
	s := newTestSession(t, &memStore{docs: map[string]page.Document{}}, "")

	if err := s.Load(context.Background(), "nope"); err == nil {
		t.Fatal("expected error")
	}
	if s.State().Phase() != page.PhaseError {
		t.Errorf("phase = %s, want error", s.State().Phase())
	}
}

func TestSessionAcceptNode(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Title: "Cats", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The black cat sat.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "add a color")

	if err := s.Accept("ins-1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	st := s.State().(page.Editing)
	if st.Doc.Content != "The black cat sat." {
		t.Errorf("content = %q", st.Doc.Content)
	}
	if len(st.Doc.PendingMutations) != 0 || st.Doc.ProcessingMutation != nil {
		t.Errorf("queue not drained: %+v", st.Doc)
	}
}

func TestSessionRejectNode(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The dog sat.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "swap the animal")

	// Reject both halves of the substitution back to the original. Keys
	// are positional per render, so the surviving ins span rescans as
	// ins-1 once the del is resolved.
	if err := s.Reject("del-1"); err != nil {
		t.Fatalf("Reject(del-1): %v", err)
	}
	reg, err := s.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d after first reject", reg.Len())
	}
	if err := s.Reject(reg.Keys()[0]); err != nil {
		t.Fatalf("Reject(%s): %v", reg.Keys()[0], err)
	}
	st := s.State().(page.Editing)
	if st.Doc.Content != "The cat sat." {
		t.Errorf("content = %q", st.Doc.Content)
	}
}

func TestSessionResolveUnknownKey(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The black cat sat.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "add a color")

	if err := s.Accept("ins-99"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	// Content is untouched, the failure is recorded, and the queue drained.
	st := s.State().(page.Editing)
	if st.Doc.Content != "The {++black ++}cat sat." {
		t.Errorf("content = %q", st.Doc.Content)
	}
	if st.Doc.LastMutationError == "" {
		t.Error("expected LastMutationError to be set")
	}
	if len(st.Doc.PendingMutations) != 0 {
		t.Errorf("queue not drained: %+v", st.Doc.PendingMutations)
	}
}

func TestSessionAcceptAllAndSave(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Title: "Cats", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The black cat sat. It purred.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "expand")

	if err := s.AcceptAll(); err != nil {
		t.Fatalf("AcceptAll: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d documents, want 1", len(store.saved))
	}
	if !strings.Contains(store.saved[0].Content, "It purred.") {
		t.Errorf("saved content = %q", store.saved[0].Content)
	}
	if strings.Contains(store.saved[0].Content, "{++") {
		t.Errorf("saved content still carries markup: %q", store.saved[0].Content)
	}
}

func TestSessionRejectAllRestoresOriginal(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Content: "The cat sat on the mat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The dog sat on the rug.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "rewrite")

	if err := s.RejectAll(); err != nil {
		t.Fatalf("RejectAll: %v", err)
	}
	st := s.State().(page.Editing)
	if st.Doc.Content != "The cat sat on the mat." {
		t.Errorf("content = %q", st.Doc.Content)
	}
}

func TestSessionSaveRequiresEditing(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The black cat sat.")
	s.Load(context.Background(), "doc1")

	// Viewing is read-only; nothing may reach the sink from there.
	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected error saving from viewing")
	}
	if len(store.saved) != 0 {
		t.Errorf("sink called from viewing: %+v", store.saved)
	}
	if s.State().Phase() != page.PhaseViewing {
		t.Errorf("phase = %s, want viewing", s.State().Phase())
	}
}

func TestSessionSaveFailureKeepsDraft(t *testing.T) {
	store := &memStore{
		docs:    map[string]page.Document{"doc1": {ID: "doc1", Content: "The cat sat.", Status: page.StatusDraft}},
		saveErr: errors.New("disk full"),
	}
	s := newTestSession(t, store, "The black cat sat.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "add a color")
	s.AcceptAll()

	if err := s.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	st, ok := s.State().(page.Failed)
	if !ok {
		t.Fatalf("state = %T, want Failed", s.State())
	}
	if st.Doc == nil || st.Doc.Content != "The black cat sat." {
		t.Errorf("draft not preserved: %+v", st.Doc)
	}
}

func TestSessionRegistry(t *testing.T) {
	store := &memStore{docs: map[string]page.Document{
		"doc1": {ID: "doc1", Content: "The cat sat.", Status: page.StatusDraft},
	}}
	s := newTestSession(t, store, "The dog sat.")
	s.Load(context.Background(), "doc1")
	s.Propose(context.Background(), "swap the animal")

	reg, err := s.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
}
