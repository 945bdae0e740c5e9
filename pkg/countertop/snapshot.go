package countertop

import (
	"log"
	"time"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/history"
)

// SegmentSnapshot captures one segment with its collection index for
// add/remove entries.
type SegmentSnapshot struct {
	Segment *Segment `json:"segment"`
	Index   int      `json:"index"`
}

func (SegmentSnapshot) HistorySnapshot() {}

func (s SegmentSnapshot) StripTimestamps() history.Snapshot {
	s.Segment = stripSegmentTimes(s.Segment)
	return s
}

// SegmentState captures the full segment for config updates.
type SegmentState struct {
	Segment *Segment `json:"segment"`
}

func (SegmentState) HistorySnapshot() {}

func (s SegmentState) StripTimestamps() history.Snapshot {
	s.Segment = stripSegmentTimes(s.Segment)
	return s
}

// BatchConfigSnapshot captures every affected segment of a batch config
// edit.
type BatchConfigSnapshot struct {
	Segments []*Segment `json:"segments"`
}

func (BatchConfigSnapshot) HistorySnapshot() {}

func (s BatchConfigSnapshot) StripTimestamps() history.Snapshot {
	out := make([]*Segment, len(s.Segments))
	for i, seg := range s.Segments {
		out[i] = stripSegmentTimes(seg)
	}
	s.Segments = out
	return s
}

func stripSegmentTimes(seg *Segment) *Segment {
	if seg == nil {
		return nil
	}
	c := seg.Clone()
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// Apply is the countertop arm of the history dispatcher. It follows the
// shared defensive contract: missing segments and malformed snapshots
// are logged no-ops.
func (st *Store) Apply(e *history.Entry, dir history.Direction, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}

	switch e.Type {
	case history.EntryAddCountertop:
		snap, ok := e.After.(SegmentSnapshot)
		if !ok || snap.Segment == nil {
			logger.Printf("countertop: malformed add snapshot (%s), ignoring", dir)
			return
		}
		if dir == history.DirUndo {
			st.Remove(snap.Segment.ID)
		} else {
			st.InsertAt(snap.Index, snap.Segment.Clone())
		}

	case history.EntryRemoveCountertop:
		snap, ok := e.Before.(SegmentSnapshot)
		if !ok || snap.Segment == nil {
			logger.Printf("countertop: malformed remove snapshot (%s), ignoring", dir)
			return
		}
		if dir == history.DirUndo {
			st.InsertAt(snap.Index, snap.Segment.Clone())
		} else {
			st.Remove(snap.Segment.ID)
		}

	case history.EntryUpdateCountertopConfig:
		snap := e.After
		if dir == history.DirUndo {
			snap = e.Before
		}
		state, ok := snap.(SegmentState)
		if !ok || state.Segment == nil {
			logger.Printf("countertop: malformed config snapshot (%s), ignoring", dir)
			return
		}
		if st.Segment(state.Segment.ID) == nil {
			return // segment gone in the interim
		}
		restored := state.Segment.Clone()
		restored.UpdatedAt = time.Now()
		st.Replace(restored)

	case history.EntryBatchUpdateCountertopConfig:
		snap := e.After
		if dir == history.DirUndo {
			snap = e.Before
		}
		batch, ok := snap.(BatchConfigSnapshot)
		if !ok || len(batch.Segments) == 0 {
			logger.Printf("countertop: malformed batch config snapshot (%s), ignoring", dir)
			return
		}
		// All-or-nothing: verify every target still exists first.
		for _, s := range batch.Segments {
			if s == nil || st.Segment(s.ID) == nil {
				return
			}
		}
		now := time.Now()
		for _, s := range batch.Segments {
			restored := s.Clone()
			restored.UpdatedAt = now
			st.Replace(restored)
		}

	default:
		logger.Printf("countertop: unhandled entry type %s, ignoring", e.Type)
	}
}
