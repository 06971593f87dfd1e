package page

import (
	"log/slog"
	"sync"

	"redline/idgen"
)

// Config configures a Machine.
type Config struct {
	// Logger for phase-discipline warnings.
	Logger *slog.Logger

	// NewID generates mutation op IDs.
	NewID idgen.Generator
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.NewID == nil {
		c.NewID = idgen.Prefixed("mut_", idgen.NanoID(12))
	}
}

// Machine owns the lifecycle state of one page. Dispatch is safe for
// concurrent use; actions apply strictly in dispatch order.
type Machine struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger
	newID  idgen.Generator
}

// NewMachine creates a Machine in the idle phase.
func NewMachine(cfg Config) *Machine {
	cfg.defaults()
	return &Machine{
		state:  Idle{},
		logger: cfg.Logger,
		newID:  cfg.NewID,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies one action and returns the resulting state. An action
// dispatched in an unexpected phase is a warned no-op: those indicate a
// UI race, not a data problem.
func (m *Machine) Dispatch(a Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = reduce(m.state, a, m.logger, m.newID)
	return m.state
}

func reduce(s State, a Action, logger *slog.Logger, newID func() string) State {
	switch a := a.(type) {
	case Reset:
		return Idle{}

	case Fail:
		switch s := s.(type) {
		case Viewing:
			doc := s.Doc.clone()
			return Failed{Message: a.Message, Doc: &doc}
		case Editing:
			doc := s.Doc.clone()
			return Failed{Message: a.Message, Doc: &doc}
		case Saving:
			doc := s.Doc.clone()
			return Failed{Message: a.Message, Doc: &doc}
		default:
			return Failed{Message: a.Message}
		}

	case StartGeneration:
		if _, ok := s.(Idle); ok {
			return Loading{}
		}

	case StartStreaming:
		if _, ok := s.(Loading); ok {
			return Streaming{}
		}

	case StreamContent:
		if st, ok := s.(Streaming); ok {
			st.Content += a.Chunk
			return st
		}

	case StreamTitle:
		if st, ok := s.(Streaming); ok {
			st.Title += a.Chunk
			return st
		}

	case LoadExplanation:
		switch st := s.(type) {
		case Idle, Loading:
			return Viewing{Doc: baseline(a.Content, a.Title, a.Status)}
		case Streaming:
			content, title := a.Content, a.Title
			if content == "" {
				content = st.Content
			}
			if title == "" {
				title = st.Title
			}
			return Viewing{Doc: baseline(content, title, a.Status)}
		}

	case EnterEditMode:
		if st, ok := s.(Viewing); ok {
			return Editing{Doc: st.Doc.clone()}
		}

	case ExitEditMode:
		// Modifications survive: leaving edit mode is not a revert.
		if st, ok := s.(Editing); ok {
			return Viewing{Doc: st.Doc.clone()}
		}

	case UpdateContent:
		if st, ok := s.(Editing); ok {
			doc := st.Doc.clone()
			doc.Content = a.Content
			doc.recompute()
			return Editing{Doc: doc}
		}

	case UpdateTitle:
		if st, ok := s.(Editing); ok {
			doc := st.Doc.clone()
			doc.Title = a.Title
			doc.recompute()
			return Editing{Doc: doc}
		}

	case StartSave:
		if st, ok := s.(Editing); ok {
			return Saving{Doc: st.Doc.clone()}
		}

	case SaveSuccess:
		// Intentional no-op: the page unmounts before this state would
		// matter.
		logger.Debug("save success; state unchanged", "phase", s.Phase())
		return s

	case ApplyAISuggestion:
		switch st := s.(type) {
		case Viewing:
			return applySuggestion(st.Doc, a.Content)
		case Editing:
			return applySuggestion(st.Doc, a.Content)
		}

	case RequestModeToggle:
		switch st := s.(type) {
		case Viewing:
			doc := st.Doc.clone()
			if len(doc.PendingMutations) == 0 && doc.ProcessingMutation == nil {
				return Editing{Doc: doc}
			}
			doc.PendingModeToggle = true
			return Viewing{Doc: doc}
		case Editing:
			doc := st.Doc.clone()
			if len(doc.PendingMutations) == 0 && doc.ProcessingMutation == nil {
				return Viewing{Doc: doc}
			}
			doc.PendingModeToggle = true
			return Editing{Doc: doc}
		}

	case QueueMutation, StartMutation, CompleteMutation, FailMutation:
		switch st := s.(type) {
		case Viewing:
			doc, toggle := reduceMutation(st.Doc, a, logger, newID)
			if toggle {
				return Editing{Doc: doc}
			}
			return Viewing{Doc: doc}
		case Editing:
			doc, toggle := reduceMutation(st.Doc, a, logger, newID)
			if toggle {
				return Viewing{Doc: doc}
			}
			return Editing{Doc: doc}
		}
	}

	logger.Warn("action ignored in current phase", "action", a.kind(), "phase", s.Phase())
	return s
}

// applySuggestion adopts an AI suggestion as the new working draft. Any
// queued mutations referred to the superseded document and are discarded.
func applySuggestion(doc DocState, content string) State {
	doc.PendingMutations = nil
	doc.ProcessingMutation = nil
	doc.PendingModeToggle = false
	doc.LastMutationError = ""
	doc.Content = content
	doc.HasUnsavedChanges = true
	if doc.OriginalStatus == StatusPublished {
		doc.Status = StatusDraft
	}
	return Editing{Doc: doc}
}

// baseline builds the doc payload for a fresh load: current values and
// the Original* triad start out identical, so there is no drift between
// current and baseline on first load.
func baseline(content, title, status string) DocState {
	if status == "" {
		status = StatusDraft
	}
	return DocState{
		Content:         content,
		Title:           title,
		Status:          status,
		OriginalContent: content,
		OriginalTitle:   title,
		OriginalStatus:  status,
	}
}
