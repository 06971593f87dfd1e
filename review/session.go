package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"redline/critic"
	"redline/page"
)

// Session binds one page machine to the pipeline and the injected
// load/save collaborators. It is the host layer under an editor surface:
// accept(key)/reject(key) calls translate into the enqueue → start →
// complete/fail discipline against the mutation queue, strictly one
// mutation in flight.
type Session struct {
	mu       sync.Mutex
	machine  *page.Machine
	pipeline *Pipeline
	source   page.Source
	sink     page.Sink
	logger   *slog.Logger
	docID    string
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Pipeline *Pipeline // required
	Source   page.Source
	Sink     page.Sink
	Logger   *slog.Logger
}

// NewSession creates a Session with a fresh machine in the idle phase.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		machine:  page.NewMachine(page.Config{Logger: cfg.Logger}),
		pipeline: cfg.Pipeline,
		source:   cfg.Source,
		sink:     cfg.Sink,
		logger:   cfg.Logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() page.State {
	return s.machine.State()
}

// Load fetches a document from the source and lands the page in viewing.
func (s *Session) Load(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return fmt.Errorf("review: no document source configured")
	}
	doc, err := s.source.Load(ctx, id)
	if err != nil {
		s.machine.Dispatch(page.Fail{Message: err.Error()})
		return fmt.Errorf("load %s: %w", id, err)
	}
	s.docID = id
	s.machine.Dispatch(page.LoadExplanation{
		Content: doc.Content,
		Title:   doc.Title,
		Status:  doc.Status,
	})
	return nil
}

// Propose asks the reviser for an edit and installs the annotated markup
// as the working draft: the page jumps to editing and every diff node
// becomes individually addressable.
func (s *Session) Propose(ctx context.Context, instruction string) (*Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := s.content()
	if err != nil {
		return nil, err
	}
	sug, err := s.pipeline.Suggest(ctx, content, instruction)
	if err != nil {
		s.machine.Dispatch(page.Fail{Message: err.Error()})
		return nil, err
	}
	s.machine.Dispatch(page.ApplyAISuggestion{Content: sug.Markup})
	return sug, nil
}

// Registry indexes the diff nodes of the current working draft.
func (s *Session) Registry() (*critic.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := s.content()
	if err != nil {
		return nil, err
	}
	return critic.Scan(content), nil
}

// Accept resolves one diff node in favor of the revision.
func (s *Session) Accept(key string) error {
	return s.resolve(key, page.MutationAccept)
}

// Reject resolves one diff node in favor of the original.
func (s *Session) Reject(key string) error {
	return s.resolve(key, page.MutationReject)
}

// resolve enqueues one mutation and pumps the queue until it drains.
// The pump promotes only the head, applies it against the current draft,
// and feeds the outcome back before touching the next op, so node keys
// never go stale mid-application.
func (s *Session) resolve(key string, typ page.MutationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.content(); err != nil {
		return err
	}

	st := s.machine.Dispatch(page.QueueMutation{Type: typ, NodeKey: key})
	ownID := lastOpID(st)

	var ownErr error
	for {
		doc, ok := docOf(s.machine.State())
		if !ok || len(doc.PendingMutations) == 0 || doc.ProcessingMutation != nil {
			break
		}
		head := doc.PendingMutations[0]
		s.machine.Dispatch(page.StartMutation{ID: head.ID})

		newContent, err := critic.Apply(doc.Content, head.NodeKey, decisionOf(head.Type))
		if err != nil {
			s.machine.Dispatch(page.FailMutation{ID: head.ID, Message: err.Error()})
			if head.ID == ownID {
				ownErr = err
			}
			continue
		}
		s.machine.Dispatch(page.CompleteMutation{ID: head.ID, NewContent: newContent})
	}
	return ownErr
}

// AcceptAll resolves every remaining diff node in favor of the revision.
func (s *Session) AcceptAll() error { return s.resolveAll(critic.Accept) }

// RejectAll resolves every remaining diff node in favor of the original.
func (s *Session) RejectAll() error { return s.resolveAll(critic.Reject) }

func (s *Session) resolveAll(d critic.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := s.content()
	if err != nil {
		return err
	}
	s.machine.Dispatch(page.ApplyAISuggestion{Content: critic.ResolveAll(content, d)})
	return nil
}

// Save persists the working draft through the sink. Saving is an editing
// operation: the machine only accepts StartSave there, so Save refuses any
// other phase instead of persisting behind the lifecycle's back. On
// failure the page enters the error phase with the draft preserved.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink == nil {
		return fmt.Errorf("review: no document sink configured")
	}
	st, ok := s.machine.State().(page.Editing)
	if !ok {
		return fmt.Errorf("review: save requires the editing phase, not %s", s.machine.State().Phase())
	}
	doc := st.Doc
	s.machine.Dispatch(page.StartSave{})
	err := s.sink.Save(ctx, page.Document{
		ID:      s.docID,
		Title:   doc.Title,
		Content: doc.Content,
		Status:  doc.Status,
	})
	if err != nil {
		s.machine.Dispatch(page.Fail{Message: err.Error()})
		return fmt.Errorf("save %s: %w", s.docID, err)
	}
	s.machine.Dispatch(page.SaveSuccess{})
	return nil
}

// content returns the working draft, which exists only while viewing or
// editing.
func (s *Session) content() (string, error) {
	doc, ok := docOf(s.machine.State())
	if !ok {
		return "", fmt.Errorf("review: no document addressable in phase %s", s.machine.State().Phase())
	}
	return doc.Content, nil
}

func docOf(st page.State) (page.DocState, bool) {
	switch st := st.(type) {
	case page.Viewing:
		return st.Doc, true
	case page.Editing:
		return st.Doc, true
	}
	return page.DocState{}, false
}

func lastOpID(st page.State) string {
	doc, ok := docOf(st)
	if !ok || len(doc.PendingMutations) == 0 {
		return ""
	}
	return doc.PendingMutations[len(doc.PendingMutations)-1].ID
}

func decisionOf(t page.MutationType) critic.Decision {
	if t == page.MutationReject {
		return critic.Reject
	}
	return critic.Accept
}
