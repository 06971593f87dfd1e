package page

import (
	"log/slog"
	"slices"
)

// MutationType distinguishes accept from reject.
type MutationType string

const (
	MutationAccept MutationType = "accept"
	MutationReject MutationType = "reject"
)

// MutationStatus tracks one op through the queue. Terminal outcomes
// remove the op instead of adding a status.
type MutationStatus string

const (
	MutationPending    MutationStatus = "pending"
	MutationProcessing MutationStatus = "processing"
)

// MutationOp is one queued accept/reject against a diff node. Node keys
// are positional, so ops apply strictly one at a time in FIFO order;
// applying two at once could corrupt the keys of every later node.
type MutationOp struct {
	ID      string
	Type    MutationType
	NodeKey string
	Status  MutationStatus
}

// reduceMutation handles the queue actions against the doc payload of a
// viewing or editing state. It returns the updated payload plus whether
// a drained queue should now execute a deferred mode toggle.
func reduceMutation(doc DocState, a Action, logger *slog.Logger, newID func() string) (DocState, bool) {
	doc = doc.clone()

	switch a := a.(type) {
	case QueueMutation:
		doc.PendingMutations = append(doc.PendingMutations, MutationOp{
			ID:      newID(),
			Type:    a.Type,
			NodeKey: a.NodeKey,
			Status:  MutationPending,
		})

	case StartMutation:
		if doc.ProcessingMutation != nil {
			logger.Warn("mutation already processing", "id", a.ID, "processing", doc.ProcessingMutation.ID)
			return doc, false
		}
		if len(doc.PendingMutations) == 0 || doc.PendingMutations[0].ID != a.ID {
			logger.Warn("only the queue head may start", "id", a.ID)
			return doc, false
		}
		doc.PendingMutations[0].Status = MutationProcessing
		op := doc.PendingMutations[0]
		doc.ProcessingMutation = &op

	case CompleteMutation:
		if doc.ProcessingMutation == nil || doc.ProcessingMutation.ID != a.ID {
			logger.Warn("complete for unknown mutation", "id", a.ID)
			return doc, false
		}
		doc.PendingMutations = slices.DeleteFunc(doc.PendingMutations, func(op MutationOp) bool {
			return op.ID == a.ID
		})
		doc.ProcessingMutation = nil
		doc.Content = a.NewContent
		doc.recompute()
		return doc, doc.drainToggle()

	case FailMutation:
		doc.PendingMutations = slices.DeleteFunc(doc.PendingMutations, func(op MutationOp) bool {
			return op.ID == a.ID
		})
		if doc.ProcessingMutation != nil && doc.ProcessingMutation.ID == a.ID {
			doc.ProcessingMutation = nil
		}
		doc.LastMutationError = a.Message
		return doc, doc.drainToggle()
	}

	return doc, false
}

// drainToggle reports whether a deferred mode toggle should fire now that
// the queue may have drained, clearing the flag if so.
func (d *DocState) drainToggle() bool {
	if len(d.PendingMutations) == 0 && d.ProcessingMutation == nil && d.PendingModeToggle {
		d.PendingModeToggle = false
		return true
	}
	return false
}
