// Package page implements the editing lifecycle of one document page as a
// reducer-style state machine.
//
// The machine moves through the phases
//
//	idle → loading → streaming → viewing ⇄ editing → saving
//
// with error as a recoverable side phase. Each phase is its own state
// variant carrying only the fields legal for it, so illegal combinations
// are unrepresentable. All transitions are synchronous, pure reductions
// over the current state and one action; asynchrony (the AI call, the
// persistence call, the streaming transport) lives at the boundary and
// re-enters as actions once results arrive.
//
// Accept/reject decisions against diff nodes flow through a FIFO mutation
// queue embedded in the viewing/editing payload. The queue itself enforces
// that at most one mutation is ever processing: only the head may be
// promoted, and promotion is refused while another op is in flight.
package page

import "context"

// Phase names one lifecycle position.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseStreaming Phase = "streaming"
	PhaseViewing   Phase = "viewing"
	PhaseEditing   Phase = "editing"
	PhaseSaving    Phase = "saving"
	PhaseError     Phase = "error"
)

// Document status values surfaced to the user.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Document is the persisted shape of a page, exchanged with the injected
// load/save collaborators.
type Document struct {
	ID      string
	Title   string
	Content string
	Status  string
}

// Source loads documents; implemented by the store or any other backend.
type Source interface {
	Load(ctx context.Context, id string) (Document, error)
}

// Sink persists documents.
type Sink interface {
	Save(ctx context.Context, doc Document) error
}
