package history

import (
	"errors"
	"reflect"
)

// ErrBatchOpen is returned by BeginBatch while another batch is open.
// There are no nested batches; the caller must commit or cancel first.
var ErrBatchOpen = errors.New("history: a batch is already open")

// openBatch is a single in-flight transaction awaiting commit.
type openBatch struct {
	entryType EntryType
	targetID  string
	targetIDs []string
	before    Snapshot
	label     string
	kind      string
	milestone bool
}

// BatchOpt tweaks the entry a batch will commit as.
type BatchOpt func(*openBatch)

// BatchLabel sets the human label and coarse kind tag.
func BatchLabel(label, kind string) BatchOpt {
	return func(b *openBatch) {
		b.label = label
		b.kind = kind
	}
}

// BatchMilestone flags the committed entry as a milestone.
func BatchMilestone() BatchOpt {
	return func(b *openBatch) { b.milestone = true }
}

// BatchTargets records a multiselect target set.
func BatchTargets(ids []string) BatchOpt {
	return func(b *openBatch) { b.targetIDs = append([]string(nil), ids...) }
}

// BeginBatch opens a transaction for a continuous interaction (e.g. a
// drag). Live mutations during the batch record no intermediate history;
// the whole interaction collapses into one entry on commit.
func (e *Engine) BeginBatch(t EntryType, targetID string, before Snapshot, opts ...BatchOpt) error {
	if e.batch != nil {
		return ErrBatchOpen
	}
	b := &openBatch{entryType: t, targetID: targetID, before: before}
	for _, opt := range opts {
		opt(b)
	}
	e.batch = b
	return nil
}

// InBatch reports whether a batch is open.
func (e *Engine) InBatch() bool { return e.batch != nil }

// CommitBatch closes the open batch and pushes it as one entry. A batch
// whose before and after snapshots are structurally equal — ignoring
// timestamp fields, which every live mutation bumps — is discarded, so
// no-op edits don't pollute history. Returns the pushed entry, or nil
// when there was no batch or nothing changed.
func (e *Engine) CommitBatch(after Snapshot) *Entry {
	b := e.batch
	if b == nil {
		return nil
	}
	e.batch = nil

	if reflect.DeepEqual(stripTimes(b.before), stripTimes(after)) {
		return nil
	}

	entry := NewEntry(b.entryType, b.targetID, b.before, after)
	entry.TargetIDs = b.targetIDs
	entry.Meta.Label = b.label
	entry.Meta.Kind = b.kind
	entry.Meta.IsMilestone = b.milestone
	e.Push(entry)
	return entry
}

// CancelBatch discards the open batch without recording anything.
func (e *Engine) CancelBatch() {
	e.batch = nil
}

// stripTimes normalizes a snapshot for no-op comparison when its shape
// supports it.
func stripTimes(s Snapshot) Snapshot {
	if ts, ok := s.(TimeStripped); ok {
		return ts.StripTimestamps()
	}
	return s
}
