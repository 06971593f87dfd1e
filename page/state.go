package page

import "slices"

// State is the sealed sum type over lifecycle phases. Exactly one variant
// is active at a time; fields legal in one phase do not exist in another.
type State interface {
	Phase() Phase
	isState()
}

// Idle is the initial phase: no document is addressed.
type Idle struct{}

// Loading covers the window between requesting a generation and the first
// streamed token.
type Loading struct{}

// Streaming accumulates content and title chunks as they arrive from the
// upstream transport, in order, last write wins.
type Streaming struct {
	Content string
	Title   string
}

// Viewing presents a committed document read-only.
type Viewing struct {
	Doc DocState
}

// Editing presents the document through the rich-text editor.
type Editing struct {
	Doc DocState
}

// Saving is a pass-through phase: the caller is expected to navigate away
// after a successful persist, so SaveSuccess never needs to touch state.
type Saving struct {
	Doc DocState
}

// Failed is the recoverable error phase. When raised from viewing, editing
// or saving it retains the full working draft so no work is lost; from any
// other phase only the message survives.
type Failed struct {
	Message string
	Doc     *DocState
}

func (Idle) Phase() Phase      { return PhaseIdle }
func (Loading) Phase() Phase   { return PhaseLoading }
func (Streaming) Phase() Phase { return PhaseStreaming }
func (Viewing) Phase() Phase   { return PhaseViewing }
func (Editing) Phase() Phase   { return PhaseEditing }
func (Saving) Phase() Phase    { return PhaseSaving }
func (Failed) Phase() Phase    { return PhaseError }

func (Idle) isState()      {}
func (Loading) isState()   {}
func (Streaming) isState() {}
func (Viewing) isState()   {}
func (Editing) isState()   {}
func (Saving) isState()    {}
func (Failed) isState()    {}

// DocState is the working payload shared by the viewing, editing and
// saving phases. The Original* triad is the baseline set at load or
// generation completion; it changes only when a save re-baselines it.
type DocState struct {
	Content string
	Title   string
	Status  string

	OriginalContent string
	OriginalTitle   string
	OriginalStatus  string

	PendingMutations   []MutationOp
	ProcessingMutation *MutationOp
	PendingModeToggle  bool
	LastMutationError  string

	HasUnsavedChanges bool
}

// recompute refreshes the change flag and the displayed status. A
// published baseline demotes to draft while unsaved changes exist; a draft
// baseline stays draft no matter what.
func (d *DocState) recompute() {
	d.HasUnsavedChanges = d.Content != d.OriginalContent || d.Title != d.OriginalTitle
	if d.OriginalStatus == StatusPublished && d.HasUnsavedChanges {
		d.Status = StatusDraft
	} else {
		d.Status = d.OriginalStatus
	}
}

// clone deep-copies the mutable queue so reduced states never alias their
// predecessor.
func (d DocState) clone() DocState {
	d.PendingMutations = slices.Clone(d.PendingMutations)
	if d.ProcessingMutation != nil {
		op := *d.ProcessingMutation
		d.ProcessingMutation = &op
	}
	return d
}
