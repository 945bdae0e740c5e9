// Package countertop is the countertop peer domain: worktop segments
// linked to cabinet parts, their own history snapshot shapes, and the
// apply handlers for countertop entry types. The history engine treats
// this module as opaque; only the before/after snapshot contract is
// shared.
package countertop

import (
	"time"

	"github.com/google/uuid"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
)

// SegmentID identifies a countertop segment.
type SegmentID string

// NewSegmentID returns a fresh random segment id.
func NewSegmentID() SegmentID {
	return SegmentID(uuid.NewString())
}

// Config is the per-segment countertop configuration.
type Config struct {
	Depth      float64           `json:"depth"`     // mm, front-to-back
	Thickness  float64           `json:"thickness"` // mm
	Overhang   float64           `json:"overhang"`  // mm past the cabinet front
	MaterialID design.MaterialID `json:"material_id,omitempty"`
}

// Segment is one straight worktop run. AnchorPart links the segment to a
// specific cabinet part (typically the top panel); cabinet regeneration
// re-targets the link through the part id map.
type Segment struct {
	ID         SegmentID        `json:"id"`
	Name       string           `json:"name,omitempty"`
	CabinetID  design.CabinetID `json:"cabinet_id,omitempty"`
	AnchorPart design.PartID    `json:"anchor_part,omitempty"`

	Start  design.Vec3 `json:"start"` // mm, scene space
	End    design.Vec3 `json:"end"`
	Config Config      `json:"config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of the segment.
func (s *Segment) Clone() *Segment {
	c := *s
	return &c
}

// Store holds the ordered segment list.
type Store struct {
	segments []*Segment
}

// NewStore returns an empty segment store.
func NewStore() *Store {
	return &Store{}
}

// Segment returns the segment with the given id, or nil.
func (st *Store) Segment(id SegmentID) *Segment {
	for _, s := range st.segments {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Index returns the collection index of the segment, or -1.
func (st *Store) Index(id SegmentID) int {
	for i, s := range st.segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Segments returns the live ordered segment list.
func (st *Store) Segments() []*Segment {
	return st.segments
}

// Add appends a segment.
func (st *Store) Add(s *Segment) {
	st.segments = append(st.segments, s)
}

// InsertAt inserts a segment at the given index, appending when the
// index is out of range.
func (st *Store) InsertAt(i int, s *Segment) {
	if i < 0 || i > len(st.segments) {
		st.segments = append(st.segments, s)
		return
	}
	st.segments = append(st.segments, nil)
	copy(st.segments[i+1:], st.segments[i:])
	st.segments[i] = s
}

// Remove deletes a segment by id, returning it with its former index,
// or (nil, -1).
func (st *Store) Remove(id SegmentID) (*Segment, int) {
	i := st.Index(id)
	if i < 0 {
		return nil, -1
	}
	s := st.segments[i]
	st.segments = append(st.segments[:i], st.segments[i+1:]...)
	return s, i
}

// Replace swaps the stored segment with the same id for s.
func (st *Store) Replace(s *Segment) {
	if i := st.Index(s.ID); i >= 0 {
		st.segments[i] = s
	}
}

// Retarget re-points segment anchor links after a cabinet regeneration
// using the old→new part id map. Segments anchored to a part that was
// dropped from the map are returned so the caller can surface the
// dangling link instead of it disappearing silently.
func (st *Store) Retarget(cabinetID design.CabinetID, idMap map[design.PartID]design.PartID) []SegmentID {
	var dangling []SegmentID
	for _, s := range st.segments {
		if s.CabinetID != cabinetID || s.AnchorPart.IsZero() {
			continue
		}
		if newID, ok := idMap[s.AnchorPart]; ok {
			s.AnchorPart = newID
			s.UpdatedAt = time.Now()
			continue
		}
		dangling = append(dangling, s.ID)
	}
	return dangling
}
