// Package history implements the transactional undo/redo engine: the
// entry model, size-bounded stacks with milestone retention, batch
// recording for continuous interactions, and the dispatch contract used
// to apply entries back onto the scene.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// EntryType tags an undoable change. The apply dispatcher matches on it
// exhaustively; unknown values degrade to a logged no-op so that entries
// written by a newer version never crash an older session.
type EntryType int

const (
	EntryUnknown EntryType = iota

	EntryAddPart
	EntryRemovePart
	EntryUpdatePart
	EntryTransformPart
	EntryDuplicatePart

	EntryAddCabinet
	EntryRemoveCabinet
	EntryUpdateCabinet
	EntryTransformCabinet
	EntryDuplicateCabinet
	EntryRegenerateCabinet

	EntryTransformMultiselect
	EntryDeleteMultiselect
	EntryDuplicateMultiselect

	EntryUpdateGroup

	EntryAddCountertop
	EntryRemoveCountertop
	EntryUpdateCountertopConfig
	EntryBatchUpdateCountertopConfig
)

func (t EntryType) String() string {
	switch t {
	case EntryAddPart:
		return "add-part"
	case EntryRemovePart:
		return "remove-part"
	case EntryUpdatePart:
		return "update-part"
	case EntryTransformPart:
		return "transform-part"
	case EntryDuplicatePart:
		return "duplicate-part"
	case EntryAddCabinet:
		return "add-cabinet"
	case EntryRemoveCabinet:
		return "remove-cabinet"
	case EntryUpdateCabinet:
		return "update-cabinet"
	case EntryTransformCabinet:
		return "transform-cabinet"
	case EntryDuplicateCabinet:
		return "duplicate-cabinet"
	case EntryRegenerateCabinet:
		return "regenerate-cabinet"
	case EntryTransformMultiselect:
		return "transform-multiselect"
	case EntryDeleteMultiselect:
		return "delete-multiselect"
	case EntryDuplicateMultiselect:
		return "duplicate-multiselect"
	case EntryUpdateGroup:
		return "update-group"
	case EntryAddCountertop:
		return "add-countertop"
	case EntryRemoveCountertop:
		return "remove-countertop"
	case EntryUpdateCountertopConfig:
		return "update-countertop-config"
	case EntryBatchUpdateCountertopConfig:
		return "batch-update-countertop-config"
	default:
		return "unknown"
	}
}

// Snapshot is the closed union of per-entry-type before/after payloads.
// Snapshots carry full denormalized copies of the affected entities,
// never deltas referencing live state, so applying one never needs the
// generators. Peer modules (countertop) contribute their own shapes.
type Snapshot interface {
	HistorySnapshot()
}

// TimeStripped is implemented by snapshot shapes that can produce a
// copy with timestamp fields zeroed. CommitBatch compares stripped
// snapshots, so a gesture that changed nothing but clocks records no
// entry.
type TimeStripped interface {
	Snapshot
	StripTimestamps() Snapshot
}

// PartSnapshot captures one part together with its collection index and
// its position within the owning cabinet's ordered id list, so that
// re-insertion restores both orderings. OwnerIndex is -1 for free parts.
type PartSnapshot struct {
	Part       *design.Part `json:"part"`
	Index      int          `json:"index"`
	OwnerIndex int          `json:"owner_index"`
}

func (PartSnapshot) HistorySnapshot() {}

func (s PartSnapshot) StripTimestamps() Snapshot {
	s.Part = stripPartTimes(s.Part)
	return s
}

// PartState captures the full state of one part for update/transform
// entries.
type PartState struct {
	Part *design.Part `json:"part"`
}

func (PartState) HistorySnapshot() {}

func (s PartState) StripTimestamps() Snapshot {
	s.Part = stripPartTimes(s.Part)
	return s
}

// CabinetSnapshot captures a cabinet and its owned parts. Index and
// PartIndices record the original collection positions for restores;
// they are -1/nil on snapshots that never re-insert.
type CabinetSnapshot struct {
	Cabinet     *design.Cabinet `json:"cabinet"`
	Parts       []*design.Part  `json:"parts"`
	Index       int             `json:"index"`
	PartIndices []int           `json:"part_indices,omitempty"`
}

func (CabinetSnapshot) HistorySnapshot() {}

func (s CabinetSnapshot) StripTimestamps() Snapshot {
	s.Cabinet = stripCabinetTimes(s.Cabinet)
	s.Parts = stripPartsTimes(s.Parts)
	return s
}

// CabinetState captures the full cabinet record for plain field patches
// (rename, material assignment bookkeeping).
type CabinetState struct {
	Cabinet *design.Cabinet `json:"cabinet"`
}

func (CabinetState) HistorySnapshot() {}

func (s CabinetState) StripTimestamps() Snapshot {
	s.Cabinet = stripCabinetTimes(s.Cabinet)
	return s
}

// MultiSnapshot captures a set of parts for multiselect operations.
// Indices and OwnerIndices align with Parts and are only set when
// re-insertion order matters (delete).
type MultiSnapshot struct {
	Parts        []*design.Part `json:"parts"`
	Indices      []int          `json:"indices,omitempty"`
	OwnerIndices []int          `json:"owner_indices,omitempty"`
}

func (MultiSnapshot) HistorySnapshot() {}

func (s MultiSnapshot) StripTimestamps() Snapshot {
	s.Parts = stripPartsTimes(s.Parts)
	return s
}

// GroupSnapshot captures every part of a group for the generic group
// update entry.
type GroupSnapshot struct {
	GroupID design.GroupID `json:"group_id"`
	Parts   []*design.Part `json:"parts"`
}

func (GroupSnapshot) HistorySnapshot() {}

func (s GroupSnapshot) StripTimestamps() Snapshot {
	s.Parts = stripPartsTimes(s.Parts)
	return s
}

func stripPartTimes(p *design.Part) *design.Part {
	if p == nil {
		return nil
	}
	c := p.Clone()
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

func stripPartsTimes(parts []*design.Part) []*design.Part {
	out := make([]*design.Part, len(parts))
	for i, p := range parts {
		out[i] = stripPartTimes(p)
	}
	return out
}

func stripCabinetTimes(cab *design.Cabinet) *design.Cabinet {
	if cab == nil {
		return nil
	}
	c := cab.Clone()
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// PartRemap is the old→new part id correspondence produced by cabinet
// regeneration, matched by structural role + index. Old ids with no
// structurally matching new part are listed in Dropped instead of being
// silently omitted, so downstream references can react.
type PartRemap struct {
	Map     map[design.PartID]design.PartID `json:"map"`
	Dropped []design.PartID                 `json:"dropped,omitempty"`
}

// Meta is the per-entry metadata block.
type Meta struct {
	Timestamp   time.Time `json:"timestamp"`
	Label       string    `json:"label,omitempty"`
	Kind        string    `json:"kind,omitempty"` // coarse tag: part/cabinet/countertop/group
	IsMilestone bool      `json:"is_milestone,omitempty"`
}

// Entry is an immutable record of one undoable change. After creation it
// is only ever appended to or trimmed from the stacks, never mutated.
type Entry struct {
	ID        string    `json:"id"`
	Type      EntryType `json:"type"`
	TargetID  string    `json:"target_id,omitempty"`
	TargetIDs []string  `json:"target_ids,omitempty"`

	Before Snapshot `json:"before,omitempty"`
	After  Snapshot `json:"after,omitempty"`

	// Remap is only present on regenerate entries.
	Remap *PartRemap `json:"remap,omitempty"`

	Meta Meta `json:"meta"`
}

// NewEntry builds an entry with a fresh id and timestamp.
func NewEntry(t EntryType, targetID string, before, after Snapshot) *Entry {
	return &Entry{
		ID:       uuid.NewString(),
		Type:     t,
		TargetID: targetID,
		Before:   before,
		After:    after,
		Meta:     Meta{Timestamp: time.Now()},
	}
}

// WithLabel sets the human label and coarse kind tag.
func (e *Entry) WithLabel(label, kind string) *Entry {
	e.Meta.Label = label
	e.Meta.Kind = kind
	return e
}

// AsMilestone flags the entry for preferential retention during trims.
func (e *Entry) AsMilestone() *Entry {
	e.Meta.IsMilestone = true
	return e
}
