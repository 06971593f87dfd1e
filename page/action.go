package page

// Action is the sealed set of machine inputs. Anything not enumerated
// here is rejected at the type level.
type Action interface {
	kind() string
}

// StartGeneration moves idle → loading ahead of an AI generation.
type StartGeneration struct{}

// StartStreaming moves loading → streaming once the transport connects.
type StartStreaming struct{}

// StreamContent appends one content chunk while streaming.
type StreamContent struct{ Chunk string }

// StreamTitle appends one title chunk while streaming.
type StreamTitle struct{ Chunk string }

// LoadExplanation completes a generation or a plain database fetch and
// lands in viewing. Empty fields fall back to the streamed accumulation.
type LoadExplanation struct {
	Content string
	Title   string
	Status  string
}

// EnterEditMode moves viewing → editing.
type EnterEditMode struct{}

// ExitEditMode moves editing → viewing, keeping any modifications:
// leaving edit mode is not "cancel".
type ExitEditMode struct{}

// UpdateContent replaces the working content while editing.
type UpdateContent struct{ Content string }

// UpdateTitle replaces the working title while editing.
type UpdateTitle struct{ Title string }

// StartSave moves editing → saving.
type StartSave struct{}

// SaveSuccess is intentionally a no-op on state: the page navigates away
// after a successful persist, so there is nothing left to update.
type SaveSuccess struct{}

// Fail records an error. Raised from viewing, editing or saving it keeps
// the working draft for recovery.
type Fail struct{ Message string }

// Reset unconditionally returns to idle, discarding any queue state.
type Reset struct{}

// QueueMutation appends an accept/reject op for one diff node.
type QueueMutation struct {
	Type    MutationType
	NodeKey string
}

// StartMutation promotes the queue head to processing.
type StartMutation struct{ ID string }

// CompleteMutation finishes the in-flight op and installs the rewritten
// document content.
type CompleteMutation struct {
	ID         string
	NewContent string
}

// FailMutation drops the op and records the error without touching
// content.
type FailMutation struct {
	ID      string
	Message string
}

// RequestModeToggle flips viewing ⇄ editing, deferring while mutations
// are queued so the user's intent is not lost.
type RequestModeToggle struct{}

// ApplyAISuggestion adopts a suggestion wholesale as the new working
// draft and jumps straight to editing. The diff-level accept/reject
// already happened above this action.
type ApplyAISuggestion struct{ Content string }

func (StartGeneration) kind() string   { return "START_GENERATION" }
func (StartStreaming) kind() string    { return "START_STREAMING" }
func (StreamContent) kind() string     { return "STREAM_CONTENT" }
func (StreamTitle) kind() string       { return "STREAM_TITLE" }
func (LoadExplanation) kind() string   { return "LOAD_EXPLANATION" }
func (EnterEditMode) kind() string     { return "ENTER_EDIT_MODE" }
func (ExitEditMode) kind() string      { return "EXIT_EDIT_MODE" }
func (UpdateContent) kind() string     { return "UPDATE_CONTENT" }
func (UpdateTitle) kind() string       { return "UPDATE_TITLE" }
func (StartSave) kind() string         { return "START_SAVE" }
func (SaveSuccess) kind() string       { return "SAVE_SUCCESS" }
func (Fail) kind() string              { return "ERROR" }
func (Reset) kind() string             { return "RESET" }
func (QueueMutation) kind() string     { return "QUEUE_MUTATION" }
func (StartMutation) kind() string     { return "START_MUTATION" }
func (CompleteMutation) kind() string  { return "COMPLETE_MUTATION" }
func (FailMutation) kind() string      { return "FAIL_MUTATION" }
func (RequestModeToggle) kind() string { return "REQUEST_MODE_TOGGLE" }
func (ApplyAISuggestion) kind() string { return "APPLY_AI_SUGGESTION" }
